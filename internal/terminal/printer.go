package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Printer writes styled console output.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter creates a printer writing to w. A nil w writes to stdout.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w, styles: DefaultStyles()}
}

// Writer returns the underlying writer.
func (p *Printer) Writer() io.Writer {
	return p.w
}

// Styles returns the printer's styles.
func (p *Printer) Styles() Styles {
	return p.styles
}

// Step prints a top level step.
func (p *Printer) Step(emoji, message string) {
	fmt.Fprintf(p.w, "\n%s %s\n", emoji, message)
}

// Success prints a completed sub-step.
func (p *Printer) Success(message string) {
	fmt.Fprintf(p.w, "   %s %s\n", p.styles.Green.Render("✓"), message)
}

// Progress prints an in-flight sub-step.
func (p *Printer) Progress(message string) {
	fmt.Fprintf(p.w, "   ⋯ %s\n", message)
}

// Verbose prints a detail line.
func (p *Printer) Verbose(message string) {
	fmt.Fprintf(p.w, "   │ %s\n", p.styles.Subtle.Render(message))
}

// Warning prints a warning.
func (p *Printer) Warning(message string) {
	fmt.Fprintf(p.w, "   %s %s\n", p.styles.Yellow.Render("⚠"), message)
}

// Error prints an error with its context.
func (p *Printer) Error(message string, err error) {
	fmt.Fprintf(p.w, "   %s %s: %v\n", p.styles.Red.Render("✗"), message, err)
}

// Final prints the closing line of a command.
func (p *Printer) Final(emoji, message string) {
	fmt.Fprintf(p.w, "\n%s %s\n", emoji, message)
}

// Block prints title followed by body between separator lines.
func (p *Printer) Block(title, body string) {
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.Title.Render(title))
	fmt.Fprintln(p.w, p.styles.SeparatorLine())
	fmt.Fprintln(p.w, strings.TrimRight(body, "\n"))
	fmt.Fprintln(p.w, p.styles.SeparatorLine())
}

// Review prints a code review report, highlighting its heading.
func (p *Printer) Review(report string) {
	heading, rest, _ := strings.Cut(strings.TrimSpace(report), "\n")
	fmt.Fprintln(p.w)
	fmt.Fprintln(p.w, p.styles.SeparatorLine())
	fmt.Fprintln(p.w, p.styles.Yellow.Render(heading))
	if rest != "" {
		fmt.Fprintln(p.w, rest)
	}
	fmt.Fprintln(p.w, p.styles.SeparatorLine())
}

// Plain prints text as is.
func (p *Printer) Plain(text string) {
	fmt.Fprintln(p.w, text)
}
