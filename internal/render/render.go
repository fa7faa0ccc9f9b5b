// Package render draws payloads on the terminal.
//
// Markdown goes through glamour, code through chroma and boxes through
// lipgloss. With colour disabled the same layout is produced in plain text,
// which keeps piped output and tests readable.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/constants"
)

// DefaultWidth is used when the terminal width is unknown.
const DefaultWidth = 80

var (
	accentColor = lipgloss.Color("12")
	mutedColor  = lipgloss.Color("8")
	errorColor  = lipgloss.Color("9")
	codeBorder  = lipgloss.RoundedBorder()
)

// Options controls styling.
type Options struct {
	Color bool
	Width int
	// Theme is the chroma style used for code.
	Theme string
}

// DetectOptions enables colour when f is a terminal and reads its width.
func DetectOptions(f *os.File, theme string) Options {
	opts := Options{Width: DefaultWidth, Theme: theme}
	fd := int(f.Fd())
	if term.IsTerminal(fd) {
		opts.Color = os.Getenv("NO_COLOR") == ""
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			opts.Width = w
		}
	}
	return opts
}

// Renderer writes payloads to out, and errors to errOut.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
	opts   Options

	lip    *lipgloss.Renderer
	errLip *lipgloss.Renderer
	md     *glamour.TermRenderer
}

// New creates a Renderer.
func New(out, errOut io.Writer, opts Options) *Renderer {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Theme == "" {
		opts.Theme = constants.DefaultTheme
	}
	r := &Renderer{
		out:    out,
		errOut: errOut,
		opts:   opts,
		lip:    lipgloss.NewRenderer(out),
		errLip: lipgloss.NewRenderer(errOut),
	}
	if opts.Color {
		r.lip.SetColorProfile(termenv.ANSI256)
		r.errLip.SetColorProfile(termenv.ANSI256)
	} else {
		r.lip.SetColorProfile(termenv.Ascii)
		r.errLip.SetColorProfile(termenv.Ascii)
	}
	return r
}

// SetTheme changes the code highlighting theme.
func (r *Renderer) SetTheme(theme string) {
	if theme != "" {
		r.opts.Theme = theme
	}
}

// Theme returns the current code highlighting theme.
func (r *Renderer) Theme() string {
	return r.opts.Theme
}

// Render draws p. A nil payload draws nothing. Render never panics; if
// styling fails the payload is printed as plain text.
func (r *Renderer) Render(p Payload) {
	if p == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.renderFallback(p)
		}
	}()

	switch v := p.(type) {
	case PlainText:
		fmt.Fprintln(r.out, string(v))
	case Lines:
		r.renderLines(v)
	case KeyValueBlock:
		r.renderKeyValue(v)
	case MixedMarkdownCode:
		r.renderMixed(v)
	case CodeBlock:
		fmt.Fprintln(r.out, r.codeBox(v.Title, v.Language, strings.TrimRight(v.Code, "\n")))
	case ErrorMessage:
		r.renderError(v)
	default:
		fmt.Fprintln(r.out, fmt.Sprint(p))
	}
}

// renderFallback prints p unstyled. Errors stay on the error stream.
func (r *Renderer) renderFallback(p Payload) {
	e, ok := p.(ErrorMessage)
	if !ok {
		fmt.Fprintln(r.out, fmt.Sprint(p))
		return
	}
	msg := "unknown error"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	fmt.Fprintln(r.errOut, "Error: "+msg)
}

func (r *Renderer) title(s string) string {
	return r.lip.NewStyle().Bold(true).Foreground(accentColor).Render(s)
}

func (r *Renderer) renderLines(l Lines) {
	if l.Title != "" {
		fmt.Fprintln(r.out, r.title(l.Title))
	}
	if len(l.Items) == 0 {
		if l.Empty != "" {
			fmt.Fprintln(r.out, l.Empty)
		}
		return
	}
	for i, item := range l.Items {
		if l.Numbered {
			fmt.Fprintf(r.out, "%d. %s\n", i+1, item)
		} else {
			fmt.Fprintln(r.out, item)
		}
	}
	if l.Footer != "" {
		fmt.Fprintln(r.out, l.Footer)
	}
}

func (r *Renderer) renderKeyValue(kv KeyValueBlock) {
	if kv.Title != "" {
		fmt.Fprintln(r.out, r.title(kv.Title))
	}
	label := r.lip.NewStyle().Bold(true)
	for _, f := range kv.Fields {
		fmt.Fprintf(r.out, "%s: %s\n", label.Render(f.Label), f.Value)
	}
}

func (r *Renderer) renderMixed(m MixedMarkdownCode) {
	if m.Language == "" || !strings.Contains(m.Text, Fence) {
		fmt.Fprint(r.out, r.markdown(m.Text))
		return
	}
	for _, seg := range SplitSegments(m.Text, m.Language) {
		if seg.Text == "" {
			continue
		}
		switch seg.Kind {
		case SegmentCode:
			fmt.Fprintln(r.out, r.codeBox("", m.Language, seg.Text))
		default:
			fmt.Fprint(r.out, r.markdown(seg.Text))
		}
	}
}

// markdown renders text with glamour, falling back to the raw text.
func (r *Renderer) markdown(text string) string {
	if r.md == nil {
		style := "notty"
		if r.opts.Color {
			style = "dark"
		}
		md, err := glamour.NewTermRenderer(
			glamour.WithStylePath(style),
			glamour.WithWordWrap(r.opts.Width),
		)
		if err != nil {
			return ensureNewline(text)
		}
		r.md = md
	}
	out, err := r.md.Render(text)
	if err != nil {
		return ensureNewline(text)
	}
	return ensureNewline(out)
}

func (r *Renderer) renderError(e ErrorMessage) {
	msg := "unknown error"
	kind := apperr.Unknown
	if e.Err != nil {
		msg = e.Err.Error()
		kind = apperr.KindOf(e.Err)
	}

	titleStyle := r.errLip.NewStyle().Bold(true).Foreground(errorColor)
	box := r.errLip.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(errorColor).
		Padding(0, 1)
	fmt.Fprintln(r.errOut, box.Render(titleStyle.Render(kind.Title())+"\n"+msg))
}

func ensureNewline(s string) string {
	if strings.HasSuffix(s, "\n") {
		return s
	}
	return s + "\n"
}
