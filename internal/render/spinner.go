package render

import (
	"time"

	"github.com/briandowns/spinner"
)

// StartSpinner shows msg with a spinner on the error stream until the
// returned stop function is called. Without colour nothing is drawn.
func (r *Renderer) StartSpinner(msg string) (stop func()) {
	if !r.opts.Color {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.errOut))
	s.Suffix = " " + msg
	s.Start()
	return s.Stop
}
