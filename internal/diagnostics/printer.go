// Package diagnostics renders compile and runtime errors for humans.
package diagnostics

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/xirelogy/golox/internal/compiler"
	"github.com/xirelogy/golox/internal/config"
	"github.com/xirelogy/golox/internal/vm"
)

// Printer writes diagnostics to an error stream, optionally colored.
type Printer struct {
	w       io.Writer
	label   *color.Color
	message *color.Color
	where   *color.Color
}

// NewPrinter returns a printer for w. mode is one of the config color modes;
// auto enables color only for terminals when NO_COLOR is unset.
func NewPrinter(w io.Writer, mode string) *Printer {
	p := &Printer{
		w:       w,
		label:   color.New(color.FgRed, color.Bold),
		message: color.New(color.Bold),
		where:   color.New(color.FgCyan),
	}
	enabled := useColor(w, mode)
	for _, c := range []*color.Color{p.label, p.message, p.where} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func useColor(w io.Writer, mode string) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Print renders err. Compile errors produce one line per diagnostic; runtime
// errors produce the message followed by the faulting line.
func (p *Printer) Print(err error) {
	if err == nil {
		return
	}
	var cerr *compiler.Error
	var rerr *vm.RuntimeError
	switch {
	case errors.As(err, &cerr):
		for _, d := range cerr.Diagnostics {
			p.Diagnostic(d)
		}
	case errors.As(err, &rerr):
		fmt.Fprintln(p.w, p.message.Sprint(rerr.Message))
		fmt.Fprintf(p.w, "%s in script\n", p.where.Sprintf("[line %d]", rerr.Line))
	default:
		fmt.Fprintf(p.w, "%s %s\n", p.label.Sprint("error:"), err.Error())
	}
}

// Diagnostic renders a single compile diagnostic.
func (p *Printer) Diagnostic(d compiler.Diagnostic) {
	fmt.Fprintf(p.w, "%s %s%s: %s\n",
		p.where.Sprintf("[line %d]", d.Line),
		p.label.Sprint("Error"),
		d.Where,
		p.message.Sprint(d.Message))
}
