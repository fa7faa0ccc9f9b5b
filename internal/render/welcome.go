package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// CommandHelp describes one REPL command for the banner and !help.
type CommandHelp struct {
	Usage       string
	Description string
}

// Commands lists the local bang-commands.
var Commands = []CommandHelp{
	{"!apps", "List running applications"},
	{"!open <app>", "Launch an application"},
	{"!kill <app>", "Terminate an application by name"},
	{"!find <pattern>", "Find files below the current directory"},
	{"!read <file>", "Show a file with syntax highlighting"},
	{"!git [path]", "Show git status and branch"},
	{"!search <query>", "Search the web"},
	{"!fetch <url>", "Show the text of a web page"},
	{"!config", "Show settings"},
	{"!config set <key> <value>", "Change model, theme, max_tokens or temperature"},
	{"@<file>", "Ask the model to analyze a file"},
	{"!help", "Show this help"},
	{"exit, quit", "Leave the session"},
}

// CodeMarkers lists the prompt prefixes that request code in a language.
var CodeMarkers = []CommandHelp{
	{"!bash <prompt>", "Bash"},
	{"!python <prompt>", "Python"},
	{"!js <prompt>", "JavaScript"},
	{"!json <prompt>", "JSON"},
	{"!yaml <prompt>", "YAML"},
	{"!html <prompt>", "HTML"},
	{"!css <prompt>", "CSS"},
}

// HelpPayload renders Commands and CodeMarkers as one block.
func HelpPayload() KeyValueBlock {
	fields := make([]Field, 0, len(Commands)+len(CodeMarkers))
	for _, c := range Commands {
		fields = append(fields, Field{Label: c.Usage, Value: c.Description})
	}
	for _, c := range CodeMarkers {
		fields = append(fields, Field{Label: c.Usage, Value: "Generate " + c.Description + " code"})
	}
	return KeyValueBlock{Title: "Commands", Fields: fields}
}

// Welcome prints the startup banner with the active model and two command
// panels side by side.
func (r *Renderer) Welcome(model string) {
	heading := r.lip.NewStyle().Bold(true).Foreground(accentColor).
		Render("DevOS AI") + "  " + r.lip.NewStyle().Foreground(mutedColor).Render("model: "+model)

	panel := r.lip.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(mutedColor).
		Padding(0, 1)

	cmds := panel.Render(r.panelBody("Commands", Commands))
	markers := panel.Render(r.panelBody("Code", CodeMarkers))

	var body string
	if lipgloss.Width(cmds)+lipgloss.Width(markers)+1 <= r.opts.Width {
		body = lipgloss.JoinHorizontal(lipgloss.Top, cmds, " ", markers)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, cmds, markers)
	}
	fmt.Fprintln(r.out, heading)
	fmt.Fprintln(r.out, body)
}

func (r *Renderer) panelBody(title string, items []CommandHelp) string {
	width := 0
	for _, it := range items {
		width = max(width, len(it.Usage))
	}
	lines := []string{r.lip.NewStyle().Bold(true).Render(title)}
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%-*s  %s", width, it.Usage, it.Description))
	}
	return strings.Join(lines, "\n")
}
