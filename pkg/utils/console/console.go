package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Printer writes operator facing progress reports
type Printer struct {
	w       io.Writer
	section *color.Color
	success *color.Color
	failure *color.Color
}

// New creates a Printer writing to w. A nil w means os.Stdout.
func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{
		w:       w,
		section: color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
	}
}

// Discard returns a Printer that prints nothing
func Discard() *Printer {
	return New(io.Discard)
}

// Section prints a phase header
func (p *Printer) Section(title string) {
	p.section.Fprintf(p.w, "\n======== %s ========\n", title)
}

// Println prints a plain line
func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.w, a...)
}

// Printf prints a formatted line
func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.w, format+"\n", a...)
}

// Success prints a success banner
func (p *Printer) Success(format string, a ...any) {
	p.success.Fprintf(p.w, "\n[Success] "+format+"\n", a...)
}

// Failure prints a failure banner
func (p *Printer) Failure(format string, a ...any) {
	p.failure.Fprintf(p.w, "\n[Failure] "+format+"\n", a...)
}
