package output

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"golang.org/x/term"
)

const progressTemplate pb.ProgressBarTemplate = `{{string . "prefix"}}{{counters . }} {{bar . }} {{percent . }} {{etime . }}`

// ProgressBar shows how many common paths have been compared. It satisfies
// diff.ProgressReporter.
type ProgressBar struct {
	writer io.Writer
	width  int

	bar      *pb.ProgressBar
	finished bool
}

// NewProgressBar creates a bar drawn on w
func NewProgressBar(w io.Writer) *ProgressBar {
	p := &ProgressBar{writer: w}
	if file, ok := w.(*os.File); ok {
		if width, _, err := term.GetSize(int(file.Fd())); err == nil && width > 0 {
			p.width = width
		}
	}
	return p
}

// IsTerminal reports whether w is an interactive terminal
func IsTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	return ok && term.IsTerminal(int(file.Fd()))
}

// Start draws an empty bar for total paths
func (p *ProgressBar) Start(total int) {
	bar := progressTemplate.New(total)
	bar.Set("prefix", "Comparing ")
	bar.SetWriter(p.writer)
	if p.width > 0 {
		bar.SetWidth(p.width)
	}
	p.bar = bar.Start()
	p.finished = false
}

// Increment advances the bar by one path
func (p *ProgressBar) Increment() {
	if p.bar != nil {
		p.bar.Increment()
	}
}

// Finish draws the final state
func (p *ProgressBar) Finish() {
	if p.bar != nil && !p.finished {
		p.bar.Finish()
		p.finished = true
	}
}

// Current returns the number of paths counted so far
func (p *ProgressBar) Current() int64 {
	if p.bar == nil {
		return 0
	}
	return p.bar.Current()
}
