package router

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/quocvuong92/devos-ai/internal/apperr"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// errMessage compares errors by text; Invalid actions carry freshly built errors.
var errMessage = cmp.Comparer(func(a, b error) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Error() == b.Error()
})

func TestRoute(t *testing.T) {
	tests := []struct {
		line string
		want Action
	}{
		{"exit", Exit{}},
		{"quit", Exit{}},
		{"!exit", Exit{}},
		{"!quit", Exit{}},
		{"EXIT", Exit{}},
		{"  Quit  ", Exit{}},
		{"!QUIT", Exit{}},
		{"", NoOp{}},
		{"   ", NoOp{}},
		{"!help", Help{}},
		{"!apps", ShowRunningApps{}},
		{"!config", ConfigQuery{}},
		{"!config   ", ConfigQuery{}},
		{"!config set temperature 0.9", ConfigSet{Key: "temperature", Value: 0.9}},
		{"!config set max_tokens 1000", ConfigSet{Key: "max_tokens", Value: 1000}},
		{"!config set model openai/gpt-4o", ConfigSet{Key: "model", Value: "openai/gpt-4o"}},
		{"!config set theme dracula", ConfigSet{Key: "theme", Value: "dracula"}},
		{"!git", GitStatus{Path: "."}},
		{"!git ", GitStatus{Path: "."}},
		{"!git ../other repo", GitStatus{Path: "../other repo"}},
		{"!open Safari", OpenApp{Name: "Safari"}},
		{"!open Visual Studio Code", OpenApp{Name: "Visual Studio Code"}},
		{"!kill firefox", KillApp{Name: "firefox"}},
		{"!find *.md", FindFiles{Pattern: "*.md", Dir: "."}},
		{"!search golang generics", WebSearch{Query: "golang generics"}},
		{"!fetch https://go.dev", FetchPage{URL: "https://go.dev"}},
		{"!read main.go", ReadFile{Path: "main.go"}},
		{"@notes/todo.txt", FileAnalysis{Path: "notes/todo.txt"}},
		{"@ missing.txt", FileAnalysis{Path: "missing.txt"}},
		{"!bash print hi", FreeformPrompt{Text: "print hi", Language: "bash"}},
		{"!python sort a list", FreeformPrompt{Text: "sort a list", Language: "python"}},
		{"!js debounce", FreeformPrompt{Text: "debounce", Language: "javascript"}},
		{"!json a user schema", FreeformPrompt{Text: "a user schema", Language: "json"}},
		{"!yaml k8s pod", FreeformPrompt{Text: "k8s pod", Language: "yaml"}},
		{"!html form", FreeformPrompt{Text: "form", Language: "html"}},
		{"!css grid", FreeformPrompt{Text: "grid", Language: "css"}},
		{"!bash", NoOp{}},
		{"!python   ", NoOp{}},
		{"explain goroutines", FreeformPrompt{Text: "explain goroutines"}},
		{"!unknown thing", FreeformPrompt{Text: "!unknown thing"}},
		{"!Apps", FreeformPrompt{Text: "!Apps"}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got := Route(tt.line)
			if diff := cmp.Diff(tt.want, got, errMessage); diff != "" {
				t.Errorf("Route(%q) mismatch (-want +got):\n%s", tt.line, diff)
			}
		})
	}
}

func TestRoute_Invalid(t *testing.T) {
	tests := []struct {
		line    string
		message string
	}{
		{"!config set", ConfigUsage},
		{"!config set temperature", ConfigUsage},
		{"!config set temperature abc", `Invalid value for temperature: "abc" is not a number`},
		{"!config set max_tokens 1.5", `Invalid value for max_tokens: "1.5" is not an integer`},
		{"!config set colour red", "Invalid config key: colour"},
		{"!config get model", "Unknown config command: get. " + ConfigUsage},
		{"!open", "Usage: !open <app>"},
		{"!kill  ", "Usage: !kill <app>"},
		{"!find", "Usage: !find <pattern>"},
		{"!search", "Usage: !search <query>"},
		{"!fetch", "Usage: !fetch <url>"},
		{"!read", "Usage: !read <file>"},
		{"@", "Usage: @<file>"},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := Route(tt.line).(Invalid)
			require.True(t, ok, "Route(%q) should be Invalid", tt.line)
			assert.EqualError(t, got.Err, tt.message)
			assert.Equal(t, apperr.InvalidArgument, apperr.KindOf(got.Err))
		})
	}
}

func TestRoute_Idempotent(t *testing.T) {
	lines := []string{
		"!apps", "!config", "!config set temperature 0.9", "!config set temperature abc",
		"!git", "!git /tmp", "!open Finder", "!kill x", "!find *.go", "!search q",
		"!fetch u", "!read f", "@f", "!json x", "hello", "exit", "",
	}
	for _, line := range lines {
		first, second := Route(line), Route(line)
		if diff := cmp.Diff(first, second, errMessage); diff != "" {
			t.Errorf("Route(%q) not idempotent:\n%s", line, diff)
		}
	}
}

func TestRoute_ConfigValueTypes(t *testing.T) {
	set := Route("!config set temperature 0.9").(ConfigSet)
	assert.IsType(t, float64(0), set.Value)

	set = Route("!config set max_tokens 10").(ConfigSet)
	assert.IsType(t, int(0), set.Value)

	set = Route("!config set model x").(ConfigSet)
	assert.IsType(t, "", set.Value)
}

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		line     string
		wantText string
		wantLang string
	}{
		{"!json {}", "{}", "json"},
		{"!jsonify", "ify", "json"},
		{"!js x", "x", "javascript"},
		{"plain", "plain", ""},
	}
	for _, tt := range tests {
		text, lang := DetectLanguage(tt.line)
		assert.Equal(t, tt.wantText, text, tt.line)
		assert.Equal(t, tt.wantLang, lang, tt.line)
	}
}
