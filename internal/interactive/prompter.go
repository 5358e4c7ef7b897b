// Package interactive provides terminal prompts and the commit message editor.
package interactive

import (
	"errors"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// ErrCancelled is returned when the user aborts a prompt.
var ErrCancelled = errors.New("cancelled by user")

// ErrNotInteractive is returned for prompts that have no usable default.
var ErrNotInteractive = errors.New("input required but stdin is not a terminal")

// Asker is the full set of questions the CLI asks.
type Asker interface {
	Confirm(title string, def bool) (bool, error)
	Select(title string, options []string) (int, error)
	Input(title, def string, validate func(string) error) (string, error)
	Password(title string, validate func(string) error) (string, error)
	Interactive() bool
}

// Prompter asks questions with huh forms. Without a terminal every
// question is answered with its default.
type Prompter struct {
	interactive bool
	in          io.Reader
}

// NewPrompter creates a prompter bound to stdin.
func NewPrompter() *Prompter {
	fd := os.Stdin.Fd()
	return &Prompter{interactive: isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)}
}

// NewHookPrompter creates a prompter for git hooks. Git redirects a hook's
// stdin, so answers are read from the controlling terminal when there is one.
func NewHookPrompter() *Prompter {
	if p := NewPrompter(); p.interactive {
		return p
	}
	tty, err := os.Open("/dev/tty")
	if err != nil {
		return NewNonInteractive()
	}
	if !isatty.IsTerminal(tty.Fd()) {
		_ = tty.Close()
		return NewNonInteractive()
	}
	return &Prompter{interactive: true, in: tty}
}

// NewNonInteractive creates a prompter that always answers with defaults.
func NewNonInteractive() *Prompter {
	return &Prompter{}
}

// Interactive reports whether a user can answer.
func (p *Prompter) Interactive() bool {
	return p.interactive
}

// Confirm asks a yes/no question.
func (p *Prompter) Confirm(title string, def bool) (bool, error) {
	if !p.interactive {
		return def, nil
	}

	answer := def
	err := p.run(huh.NewConfirm().
		Title(title).
		Affirmative("是").
		Negative("否").
		Value(&answer))
	return answer, err
}

// Select asks the user to pick one option and returns its index.
// Without a terminal the first option is chosen.
func (p *Prompter) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("no options to select from")
	}
	if !p.interactive {
		return 0, nil
	}

	opts := make([]huh.Option[int], len(options))
	for i, o := range options {
		opts[i] = huh.NewOption(o, i)
	}

	choice := 0
	err := p.run(huh.NewSelect[int]().
		Title(title).
		Options(opts...).
		Value(&choice))
	return choice, err
}

// Input asks for a line of text, pre-filled with def.
func (p *Prompter) Input(title, def string, validate func(string) error) (string, error) {
	if !p.interactive {
		return def, nil
	}

	value := def
	field := huh.NewInput().Title(title).Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	return value, p.run(field)
}

// Password asks for a secret without echoing it.
func (p *Prompter) Password(title string, validate func(string) error) (string, error) {
	if !p.interactive {
		return "", ErrNotInteractive
	}

	var value string
	field := huh.NewInput().Title(title).EchoMode(huh.EchoModePassword).Value(&value)
	if validate != nil {
		field = field.Validate(validate)
	}
	return value, p.run(field)
}

func (p *Prompter) run(field huh.Field) error {
	form := huh.NewForm(huh.NewGroup(field)).WithShowHelp(false)
	if p.in != nil {
		form = form.WithInput(p.in)
	}
	return mapErr(form.Run())
}

func mapErr(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
