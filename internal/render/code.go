package render

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
)

// Themes returns the names of the available highlighting themes.
func Themes() []string {
	return chromaStyles.Names()
}

// IsTheme reports whether name is a known highlighting theme.
func IsTheme(name string) bool {
	_, ok := chromaStyles.Registry[name]
	return ok
}

// LanguageForPath guesses a highlighting language from a file name.
func LanguageForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py":
		return "python"
	case ".js", ".mjs":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".sh", ".bash":
		return "bash"
	case ".md":
		return "markdown"
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	case ".go":
		return "go"
	case ".html", ".htm":
		return "html"
	case ".css":
		return "css"
	}
	if l := lexers.Match(filepath.Base(path)); l != nil {
		return strings.ToLower(l.Config().Name)
	}
	return ""
}

// highlight colours code with chroma's terminal256 formatter. On any
// failure the code is returned unchanged.
func highlight(code, language, theme string) string {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	style := chromaStyles.Get(theme)
	if style == nil {
		style = chromaStyles.Fallback
	}
	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}
	var buf bytes.Buffer
	if err := formatter.Format(&buf, style, iterator); err != nil {
		return code
	}
	return strings.TrimRight(buf.String(), "\n")
}

// numberLines prefixes each line with a right-aligned line number.
func numberLines(code string) string {
	lines := strings.Split(code, "\n")
	width := len(fmt.Sprint(len(lines)))
	var sb strings.Builder
	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		fmt.Fprintf(&sb, "%*d │ %s", width, i+1, line)
	}
	return sb.String()
}

// codeBox renders a bordered, numbered code block with an optional header.
func (r *Renderer) codeBox(header, language, code string) string {
	body := code
	if r.opts.Color {
		body = highlight(code, language, r.opts.Theme)
	}
	body = numberLines(body)

	if header != "" {
		body = r.lip.NewStyle().Bold(true).Foreground(accentColor).Render(header) + "\n" + body
	}
	return r.lip.NewStyle().
		Border(codeBorder).
		BorderForeground(mutedColor).
		Padding(0, 1).
		Render(body)
}
