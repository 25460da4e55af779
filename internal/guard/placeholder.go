// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package guard

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"atomicgo.dev/cursor"
)

// DefaultText is the placeholder message.
const DefaultText = "Loading..."

// Placeholder renders something while the guard is pending. Show returns a
// function that removes whatever was rendered.
type Placeholder interface {
	Show() (hide func())
}

// None renders nothing.
type None struct{}

func (None) Show() func() { return func() {} }

// Text prints a single line.
type Text struct {
	W       io.Writer
	Message string
}

func (t Text) Show() func() {
	w := t.W
	if w == nil {
		w = os.Stderr
	}
	msg := t.Message
	if msg == "" {
		msg = DefaultText
	}
	fmt.Fprintln(w, msg)
	return func() {}
}

// SpinnerFrames are the default spinner animation frames.
var SpinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates an inline spinner on one line and hides the terminal
// cursor while it runs.
type Spinner struct {
	W        io.Writer
	Text     string
	Frames   []string
	Interval time.Duration
}

func (s Spinner) Show() func() {
	w := s.W
	if w == nil {
		w = os.Stdout
	}
	text := s.Text
	if text == "" {
		text = DefaultText
	}
	frames := s.Frames
	if len(frames) == 0 {
		frames = SpinnerFrames
	}
	interval := s.Interval
	if interval <= 0 {
		interval = 80 * time.Millisecond
	}

	cursor.Hide()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		i := 0
		line := fmt.Sprintf("%s %s", frames[0], text)
		fmt.Fprintf(w, "\r%s", line)
		for {
			select {
			case <-stop:
				// blank the spinner line and return the cursor to column 0
				fmt.Fprintf(w, "\r%*s\r", len(line), "")
				return
			case <-ticker.C:
				i++
				line = fmt.Sprintf("%s %s", frames[i%len(frames)], text)
				fmt.Fprintf(w, "\r%s", line)
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			wg.Wait()
			cursor.Show()
		})
	}
}
