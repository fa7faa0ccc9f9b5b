// Package router classifies one line of REPL input into an Action.
//
// Route is pure: it never touches the filesystem, network or settings, so
// every intent can be tested in isolation. The caller executes the
// returned Action.
package router

import (
	"strings"

	"github.com/quocvuong92/devos-ai/internal/apperr"
	"github.com/quocvuong92/devos-ai/internal/settings"
)

// Bang-words. Matching is case-sensitive on the prefix.
const (
	CmdHelp   = "!help"
	CmdApps   = "!apps"
	CmdConfig = "!config"
	CmdGit    = "!git"
	CmdOpen   = "!open"
	CmdKill   = "!kill"
	CmdFind   = "!find"
	CmdSearch = "!search"
	CmdFetch  = "!fetch"
	CmdRead   = "!read"

	FilePrefix = "@"
)

// LanguageMarker maps a prompt prefix to the language of the expected answer.
type LanguageMarker struct {
	Marker   string
	Language string
}

// LanguageMarkers are checked in order; !json precedes !js so it is not
// shadowed by the shorter prefix.
var LanguageMarkers = []LanguageMarker{
	{"!bash", "bash"},
	{"!python", "python"},
	{"!json", "json"},
	{"!js", "javascript"},
	{"!yaml", "yaml"},
	{"!html", "html"},
	{"!css", "css"},
}

// ConfigUsage is shown for a malformed !config set.
const ConfigUsage = "Usage: !config set <key> <value>"

var exitWords = []string{"exit", "quit", "!exit", "!quit"}

type commandParser func(rest string) Action

// commands are tried in order after the exit check. The first prefix that
// matches wins.
var commands = []struct {
	prefix string
	parse  commandParser
}{
	{CmdHelp, func(string) Action { return Help{} }},
	{CmdApps, func(string) Action { return ShowRunningApps{} }},
	{CmdConfig, parseConfig},
	{CmdGit, parseGit},
	{CmdOpen, requireArg(CmdOpen+" <app>", func(s string) Action { return OpenApp{Name: s} })},
	{CmdKill, requireArg(CmdKill+" <app>", func(s string) Action { return KillApp{Name: s} })},
	{CmdFind, requireArg(CmdFind+" <pattern>", func(s string) Action { return FindFiles{Pattern: s, Dir: "."} })},
	{CmdSearch, requireArg(CmdSearch+" <query>", func(s string) Action { return WebSearch{Query: s} })},
	{CmdFetch, requireArg(CmdFetch+" <url>", func(s string) Action { return FetchPage{URL: s} })},
	{CmdRead, requireArg(CmdRead+" <file>", func(s string) Action { return ReadFile{Path: s} })},
	{FilePrefix, requireArg(FilePrefix+"<file>", func(s string) Action { return FileAnalysis{Path: s} })},
}

// Route classifies line.
func Route(line string) Action {
	line = strings.TrimSpace(line)
	if line == "" {
		return NoOp{}
	}

	for _, w := range exitWords {
		if strings.EqualFold(line, w) {
			return Exit{}
		}
	}

	for _, c := range commands {
		if rest, ok := strings.CutPrefix(line, c.prefix); ok {
			return c.parse(strings.TrimSpace(rest))
		}
	}

	text, lang := DetectLanguage(line)
	if text == "" {
		return NoOp{}
	}
	return FreeformPrompt{Text: text, Language: lang}
}

// DetectLanguage strips a leading language marker from line and returns the
// remaining prompt with the marker's language. Without a marker, line is
// returned trimmed and the language is empty.
func DetectLanguage(line string) (string, string) {
	for _, m := range LanguageMarkers {
		if rest, ok := strings.CutPrefix(line, m.Marker); ok {
			return strings.TrimSpace(rest), m.Language
		}
	}
	return strings.TrimSpace(line), ""
}

func requireArg(usage string, build func(string) Action) commandParser {
	return func(rest string) Action {
		if rest == "" {
			return Invalid{Err: apperr.Errorf(apperr.InvalidArgument, "Usage: %s", usage)}
		}
		return build(rest)
	}
}

func parseGit(rest string) Action {
	if rest == "" {
		rest = "."
	}
	return GitStatus{Path: rest}
}

func parseConfig(rest string) Action {
	args := strings.Fields(rest)
	if len(args) == 0 {
		return ConfigQuery{}
	}
	if args[0] != "set" {
		return Invalid{Err: apperr.Errorf(apperr.InvalidArgument, "Unknown config command: %s. %s", args[0], ConfigUsage)}
	}
	if len(args) < 3 {
		return Invalid{Err: apperr.Errorf(apperr.InvalidArgument, ConfigUsage)}
	}

	key := args[1]
	value, err := settings.ParseValue(key, strings.Join(args[2:], " "))
	if err != nil {
		return Invalid{Err: err}
	}
	return ConfigSet{Key: key, Value: value}
}
