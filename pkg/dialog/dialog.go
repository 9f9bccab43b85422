// Package dialog asks the user questions. Every call blocks until the user
// has answered.
package dialog

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter shows messages and questions to the user.
type Prompter interface {
	// Info shows text and waits for it to be acknowledged.
	Info(text string) error
	// Choose shows text with the given options and returns the index of the
	// option picked.
	Choose(text string, options ...string) (int, error)
}

// ErrNoOptions is returned by Choose when called without options.
var ErrNoOptions = errors.New("no options to choose from")

// Terminal prompts on a line-oriented terminal. Options can be picked by
// number (starting at 1) or by their label.
type Terminal struct {
	In  io.Reader
	Out io.Writer
	// OK is the label of the acknowledge button in Info.
	OK string

	scanner *bufio.Scanner
}

func (t *Terminal) readLine() (string, error) {
	if t.scanner == nil {
		t.scanner = bufio.NewScanner(t.In)
	}
	if !t.scanner.Scan() {
		if err := t.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(t.scanner.Text()), nil
}

func (t *Terminal) Info(text string) error {
	ok := t.OK
	if ok == "" {
		ok = "OK"
	}
	fmt.Fprintf(t.Out, "%s\n[%s] ", text, ok)
	_, err := t.readLine()
	return err
}

func (t *Terminal) Choose(text string, options ...string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	fmt.Fprintln(t.Out, text)
	for i, o := range options {
		fmt.Fprintf(t.Out, "  %d) %s\n", i+1, o)
	}
	for {
		fmt.Fprint(t.Out, "> ")
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		for i, o := range options {
			if strings.EqualFold(line, o) {
				return i, nil
			}
		}
		fmt.Fprintf(t.Out, "Please answer 1-%d.\n", len(options))
	}
}

// Fixed answers every question with the same option index, for unattended
// runs. Questions are still echoed to Out if it is set.
type Fixed struct {
	Answer int
	Out    io.Writer
}

func (f Fixed) Info(text string) error {
	if f.Out != nil {
		fmt.Fprintln(f.Out, text)
	}
	return nil
}

func (f Fixed) Choose(text string, options ...string) (int, error) {
	if len(options) == 0 {
		return 0, ErrNoOptions
	}
	a := f.Answer
	if a < 0 || a >= len(options) {
		return 0, fmt.Errorf("preset answer %d out of range for %d options", a, len(options))
	}
	if f.Out != nil {
		fmt.Fprintf(f.Out, "%s %s\n", text, options[a])
	}
	return a, nil
}

// Confirm asks a yes/no question. The 'no' option comes first, as in every
// dialog of the updater.
func Confirm(p Prompter, text, no, yes string) (bool, error) {
	i, err := p.Choose(text, no, yes)
	if err != nil {
		return false, err
	}
	return i == 1, nil
}
