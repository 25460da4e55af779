// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNotInteractive is returned when a secret is requested without a terminal.
var ErrNotInteractive = errors.New("stdin is not a terminal")

// Prompter reads answers from a reader and writes prompts to a writer.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
	// readSecret reads a line without echo; nil falls back to plain reads.
	readSecret func() ([]byte, error)
}

// NewPrompter prompts on stderr and reads stdin. Secrets are read without
// echo when stdin is a terminal.
func NewPrompter() *Prompter {
	p := &Prompter{in: bufio.NewReader(os.Stdin), out: os.Stderr}
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		p.readSecret = func() ([]byte, error) { return term.ReadPassword(fd) }
	}
	return p
}

// NewPrompterFrom builds a prompter over arbitrary streams; secrets echo.
func NewPrompterFrom(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Line prints label and returns the trimmed answer.
func (p *Prompter) Line(label string) (string, error) {
	fmt.Fprint(p.out, label)
	s, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && s != "") {
		return "", err
	}
	return strings.TrimSpace(s), nil
}

// Secret prints label and reads an answer without echoing it.
func (p *Prompter) Secret(label string) (string, error) {
	if p.readSecret == nil {
		return p.Line(label)
	}
	fmt.Fprint(p.out, label)
	b, err := p.readSecret()
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(string(b), "\r\n"), nil
}

// LineOr returns value when non-empty, otherwise prompts for it.
func (p *Prompter) LineOr(value, label string) (string, error) {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value), nil
	}
	return p.Line(label)
}
