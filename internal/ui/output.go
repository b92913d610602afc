package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"

	"github.com/lcgerke/gamecache-secrets/internal/constants"
)

// Output handles formatted output to the user
type Output struct {
	writer       io.Writer
	colorEnabled bool
	interactive  bool
	quiet        bool
}

// NewOutput creates a new Output instance
func NewOutput(writer io.Writer) *Output {
	o := &Output{writer: writer}
	o.detectTerminal()
	return o
}

// detectTerminal enables colors and spinners when writing to a TTY
func (o *Output) detectTerminal() {
	file, ok := o.writer.(*os.File)
	if !ok {
		return
	}
	fileInfo, err := file.Stat()
	if err == nil && (fileInfo.Mode()&os.ModeCharDevice) != 0 {
		o.colorEnabled = true
		o.interactive = true
	}
}

// SetColorEnabled manually enables/disables colors
func (o *Output) SetColorEnabled(enabled bool) {
	o.colorEnabled = enabled
}

// SetQuiet suppresses informational output. Warnings, errors and blocks
// are always printed.
func (o *Output) SetQuiet(quiet bool) {
	o.quiet = quiet
}

// Success prints a success message
func (o *Output) Success(message string) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.writer, "%s %s\n", o.glyph("✓", color.FgGreen), message)
}

// Error prints an error message
func (o *Output) Error(message string) {
	fmt.Fprintf(o.writer, "%s %s\n", o.glyph("✗", color.FgRed), message)
}

// Warning prints a warning message
func (o *Output) Warning(message string) {
	fmt.Fprintf(o.writer, "%s %s\n", o.glyph("⚠", color.FgYellow), message)
}

// Info prints an informational message
func (o *Output) Info(message string) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.writer, "%s\n", message)
}

// Detail prints an indented line under the previous message
func (o *Output) Detail(message string) {
	if o.quiet {
		return
	}
	fmt.Fprintf(o.writer, "   %s\n", message)
}

// Block prints lines verbatim, even in quiet mode
func (o *Output) Block(lines ...string) {
	fmt.Fprintln(o.writer, strings.Join(lines, "\n"))
}

// Header prints a header
func (o *Output) Header(title string) {
	if o.quiet {
		return
	}
	if o.colorEnabled {
		fmt.Fprintf(o.writer, "\n%s\n", color.New(color.Bold).Sprint(title))
	} else {
		fmt.Fprintf(o.writer, "\n%s\n", title)
	}
}

// Separator prints a separator line
func (o *Output) Separator() {
	if o.quiet {
		return
	}
	fmt.Fprintln(o.writer, "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
}

// Spin shows a spinner with message until the returned function is called.
// Off a terminal, or with colors disabled, nothing is drawn.
func (o *Output) Spin(message string) func() {
	if !o.interactive || !o.colorEnabled || o.quiet {
		return func() {}
	}

	s := spinner.New(spinner.CharSets[14], constants.SpinnerTickInterval, spinner.WithWriter(o.writer))
	s.Suffix = " " + message
	_ = s.Color("cyan")
	s.Start()

	return s.Stop
}

func (o *Output) glyph(symbol string, attr color.Attribute) string {
	if !o.colorEnabled {
		return symbol
	}
	return color.New(attr).Sprint(symbol)
}

// Infof prints a formatted info message
func (o *Output) Infof(format string, args ...interface{}) {
	o.Info(fmt.Sprintf(format, args...))
}

// Successf prints a formatted success message
func (o *Output) Successf(format string, args ...interface{}) {
	o.Success(fmt.Sprintf(format, args...))
}

// Errorf prints a formatted error message
func (o *Output) Errorf(format string, args ...interface{}) {
	o.Error(fmt.Sprintf(format, args...))
}

// Warningf prints a formatted warning message
func (o *Output) Warningf(format string, args ...interface{}) {
	o.Warning(fmt.Sprintf(format, args...))
}

// Detailf prints a formatted detail line
func (o *Output) Detailf(format string, args ...interface{}) {
	o.Detail(fmt.Sprintf(format, args...))
}
