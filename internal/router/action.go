package router

// Action is the closed set of things one input line can ask for. Only types
// in this package implement it.
type Action interface {
	action()
}

// Exit ends the session.
type Exit struct{}

// NoOp is an empty line or a language marker with no prompt after it.
type NoOp struct{}

// Help shows the command reference.
type Help struct{}

// ShowRunningApps lists processes.
type ShowRunningApps struct{}

// ConfigQuery shows the current settings.
type ConfigQuery struct{}

// ConfigSet changes one setting. Value is string for model and theme, int
// for max_tokens and float64 for temperature.
type ConfigSet struct {
	Key   string
	Value any
}

// GitStatus reports working-tree changes and the current branch.
type GitStatus struct {
	Path string
}

// OpenApp launches an application by name.
type OpenApp struct {
	Name string
}

// KillApp terminates processes with the given name.
type KillApp struct {
	Name string
}

// FindFiles searches Dir recursively for names matching Pattern.
type FindFiles struct {
	Pattern string
	Dir     string
}

// WebSearch returns result links for Query.
type WebSearch struct {
	Query string
}

// FetchPage returns the readable text of a page.
type FetchPage struct {
	URL string
}

// ReadFile displays a file with highlighting.
type ReadFile struct {
	Path string
}

// FileAnalysis sends a file's content to the model. The file is not
// checked here.
type FileAnalysis struct {
	Path string
}

// FreeformPrompt is sent to the model. Language is set when the line
// carried a marker such as !python.
type FreeformPrompt struct {
	Text     string
	Language string
}

// Invalid is a recognised command with bad arguments.
type Invalid struct {
	Err error
}

func (Exit) action()            {}
func (NoOp) action()            {}
func (Help) action()            {}
func (ShowRunningApps) action() {}
func (ConfigQuery) action()     {}
func (ConfigSet) action()       {}
func (GitStatus) action()       {}
func (OpenApp) action()         {}
func (KillApp) action()         {}
func (FindFiles) action()       {}
func (WebSearch) action()       {}
func (FetchPage) action()       {}
func (ReadFile) action()        {}
func (FileAnalysis) action()    {}
func (FreeformPrompt) action()  {}
func (Invalid) action()         {}
