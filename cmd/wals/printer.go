package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// printer writes command output, tagging diagnostic lines with a colored
// [DEBUG] prefix.
type printer struct {
	out io.Writer
	tag *color.Color
}

func newPrinter(cmd *cobra.Command) *printer {
	mode, _ := cmd.Flags().GetString("color")
	return newPrinterTo(cmd.OutOrStdout(), mode)
}

func newPrinterTo(w io.Writer, mode string) *printer {
	tag := color.New(color.FgYellow)
	if useColor(mode, w) {
		tag.EnableColor()
	} else {
		tag.DisableColor()
	}
	return &printer{out: w, tag: tag}
}

// Debugf prints a tagged line.
func (p *printer) Debugf(format string, args ...any) {
	p.tag.Fprint(p.out, "[DEBUG] ")
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Printf prints an untagged line.
func (p *printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

func useColor(mode string, w io.Writer) bool {
	switch mode {
	case "on":
		return true
	case "off":
		return false
	}
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}

// isTerminal reports whether f is attached to a terminal
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
