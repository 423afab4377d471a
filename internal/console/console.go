// Package console prints the human-readable status lines of the demo.
package console

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Printer writes whole lines to an underlying writer.
// Lines from different goroutines may interleave but are never torn.
type Printer struct {
	mu  sync.Mutex
	out io.Writer
}

// New creates a printer writing to out.
func New(out io.Writer) *Printer {
	return &Printer{out: out}
}

var stdout = New(os.Stdout)

// Stdout returns the printer bound to the process standard output.
// All callers share it so their lines never tear.
func Stdout() *Printer {
	return stdout
}

// Println writes a single line.
func (p *Printer) Println(line string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.out, line)
}

// Printf formats and writes a single line. A trailing newline is added.
func (p *Printer) Printf(format string, args ...any) {
	p.Println(fmt.Sprintf(format, args...))
}

// Discard is a printer that drops everything.
var Discard = New(io.Discard)
