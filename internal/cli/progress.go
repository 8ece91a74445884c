package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// progress reports file reading on a terminal and stays silent otherwise.
type progress struct {
	w     io.Writer
	total int
	n     int
	on    bool
}

func newProgress(w io.Writer, total int) *progress {
	on := false
	if f, ok := w.(*os.File); ok {
		on = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return &progress{w: w, total: total, on: on}
}

func (p *progress) step(name string) {
	p.n++
	if p.on {
		fmt.Fprintf(p.w, "\rReading %s (%d/%d)\033[K", name, p.n, p.total)
	}
}

func (p *progress) done() {
	if p.on && p.n > 0 {
		fmt.Fprint(p.w, "\r\033[K")
	}
}
