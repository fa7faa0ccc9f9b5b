package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/elk-language/go-prompt"
	istrings "github.com/elk-language/go-prompt/strings"
	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
	"github.com/quocvuong92/devos-ai/internal/logging"
	"github.com/quocvuong92/devos-ai/internal/render"
	"github.com/quocvuong92/devos-ai/internal/router"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

const goodbye = "Exiting DevOS AI. Goodbye!"

// InteractiveSession holds the state for one REPL run. Nothing in it
// outlives a turn except the exit flag and a pending multiline buffer.
type InteractiveSession struct {
	app         *App
	logger      *logging.FieldLogger
	exitFlag    bool
	inputBuffer []string // Buffer for multiline input
}

func newInteractiveSession(app *App) *InteractiveSession {
	return &InteractiveSession{
		app:    app,
		logger: app.logger.WithFields(logging.Fields{"session": uuid.New().String()}),
	}
}

// runInteractive starts the REPL. It refuses to start without an API key;
// every other failure is reported inside the loop.
func (app *App) runInteractive() error {
	if _, err := app.completionClient(); err != nil {
		app.renderer.Render(render.ErrorMessage{Err: err})
		return err
	}

	app.renderer.Welcome(app.settings.Model)
	fmt.Fprintln(app.out, "Type !help for commands, Tab to complete, Ctrl+C or Ctrl+D to quit")
	fmt.Fprintln(app.out, "End a line with \\ for multiline input")
	fmt.Fprintln(app.out)

	session := newInteractiveSession(app)
	session.logger.Info("session started", logging.Fields{"model": app.settings.Model})

	p := prompt.New(
		session.executor,
		prompt.WithCompleter(session.completer),
		prompt.WithPrefix("[devos-ai] >>> "),
		prompt.WithTitle("DevOS AI"),
		prompt.WithPrefixTextColor(prompt.Green),
		prompt.WithSuggestionBGColor(prompt.DarkBlue),
		prompt.WithSuggestionTextColor(prompt.White),
		prompt.WithSelectedSuggestionBGColor(prompt.Cyan),
		prompt.WithSelectedSuggestionTextColor(prompt.Black),
		prompt.WithDescriptionBGColor(prompt.DarkBlue),
		prompt.WithDescriptionTextColor(prompt.LightGray),
		prompt.WithSelectedDescriptionBGColor(prompt.Cyan),
		prompt.WithSelectedDescriptionTextColor(prompt.Black),
		prompt.WithScrollbarBGColor(prompt.DarkGray),
		prompt.WithScrollbarThumbColor(prompt.White),
		prompt.WithMaxSuggestion(12),
		prompt.WithExitChecker(func(in string, breakline bool) bool {
			return session.exitFlag
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlC,
			Fn: func(p *prompt.Prompt) bool {
				session.exit()
				return false
			},
		}),
		prompt.WithKeyBind(prompt.KeyBind{
			Key: prompt.ControlD,
			Fn: func(p *prompt.Prompt) bool {
				if p.Buffer().Text() == "" {
					session.exit()
				}
				return false
			},
		}),
	)

	p.Run()
	session.logger.Info("session ended")
	_ = app.logger.Sync()
	return nil
}

func (s *InteractiveSession) exit() {
	if s.exitFlag {
		return
	}
	fmt.Fprintln(s.app.out, "\n"+goodbye)
	s.exitFlag = true
}

// executor handles one line of input. A panic inside a turn is reported
// and the loop continues.
func (s *InteractiveSession) executor(input string) {
	if s.exitFlag {
		return
	}

	// Handle multiline input with backslash continuation
	if strings.HasSuffix(input, "\\") {
		s.inputBuffer = append(s.inputBuffer, strings.TrimSuffix(input, "\\"))
		fmt.Fprint(s.app.out, "... ")
		return
	}
	if len(s.inputBuffer) > 0 {
		input = strings.Join(append(s.inputBuffer, input), "\n")
		s.inputBuffer = nil
	}

	defer func() {
		if r := recover(); r != nil {
			err := apperr.Errorf(apperr.Unknown, "An error occurred: %v", r)
			s.logger.Error("turn failed", err)
			s.app.renderer.Render(render.ErrorMessage{Err: err})
		}
	}()

	action := router.Route(input)
	if _, ok := action.(router.Exit); ok {
		s.exit()
		return
	}
	s.logger.Debug("turn", logging.Fields{"action": fmt.Sprintf("%T", action)})
	s.app.runAction(context.Background(), action)
}

// completer suggests bang-commands, config keys, themes and model names
// depending on what precedes the cursor.
func (s *InteractiveSession) completer(d prompt.Document) ([]prompt.Suggest, istrings.RuneNumber, istrings.RuneNumber) {
	text := d.TextBeforeCursor()
	endIndex := d.CurrentRuneIndex()
	w := d.GetWordBeforeCursor()
	startIndex := endIndex - istrings.RuneCountInString(w)

	return s.suggest(text, w), startIndex, endIndex
}

func (s *InteractiveSession) suggest(text, word string) []prompt.Suggest {
	setPrefix := router.CmdConfig + " set "
	switch {
	case strings.HasPrefix(text, setPrefix+settings.KeyTheme+" "):
		return fuzzySuggest(render.Themes(), word, s.app.settings.Theme)
	case strings.HasPrefix(text, setPrefix+settings.KeyModel+" "):
		return fuzzySuggest(modelNames(s.app.settings.Model), word, s.app.settings.Model)
	case strings.HasPrefix(text, setPrefix) && !strings.Contains(strings.TrimPrefix(text, setPrefix), " "):
		suggestions := make([]prompt.Suggest, 0, len(settings.Keys))
		for _, k := range settings.Keys {
			v, _ := s.app.settings.Get(k)
			suggestions = append(suggestions, prompt.Suggest{Text: k, Description: "current: " + v})
		}
		return prompt.FilterHasPrefix(suggestions, word, true)
	case strings.HasPrefix(text, "!") && !strings.Contains(text, " "):
		return prompt.FilterHasPrefix(commandSuggestions(), word, true)
	}
	return []prompt.Suggest{}
}

// commandSuggestions lists every bang-word once, with its help text.
func commandSuggestions() []prompt.Suggest {
	seen := make(map[string]bool)
	var out []prompt.Suggest
	add := func(usage, desc string) {
		word := strings.Fields(usage)[0]
		if !strings.HasPrefix(word, "!") || seen[word] {
			return
		}
		seen[word] = true
		out = append(out, prompt.Suggest{Text: word, Description: desc})
	}
	for _, c := range render.Commands {
		add(c.Usage, c.Description)
	}
	for _, c := range render.CodeMarkers {
		add(c.Usage, "Generate "+c.Description+" code")
	}
	add("!exit", "Leave the session")
	return out
}

func modelNames(current string) []string {
	names := append([]string(nil), constants.KnownModels...)
	for _, n := range names {
		if n == current {
			return names
		}
	}
	return append(names, current)
}

// fuzzySuggest ranks candidates against word. An empty word lists all
// candidates in their original order.
func fuzzySuggest(candidates []string, word, current string) []prompt.Suggest {
	describe := func(c string) string {
		if c == current {
			return "(current)"
		}
		return ""
	}

	if word == "" {
		out := make([]prompt.Suggest, len(candidates))
		for i, c := range candidates {
			out[i] = prompt.Suggest{Text: c, Description: describe(c)}
		}
		return out
	}

	matches := fuzzy.Find(word, candidates)
	out := make([]prompt.Suggest, len(matches))
	for i, m := range matches {
		out[i] = prompt.Suggest{Text: m.Str, Description: describe(m.Str)}
	}
	return out
}
