// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package terminal

import (
	"bytes"
	"strings"
	"testing"
)

func TestClearLines(t *testing.T) {
	tests := []struct {
		name       string
		textLength int
		width      int
		wantClears int
	}{
		{name: "empty", textLength: 0, width: 80, wantClears: 2},
		{name: "one row", textLength: 40, width: 80, wantClears: 2},
		{name: "wrapped", textLength: 170, width: 80, wantClears: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			clearLines(&buf, tt.textLength, tt.width)
			if got := strings.Count(buf.String(), "\x1b[2K"); got != tt.wantClears {
				t.Errorf("cleared %d lines, want %d", got, tt.wantClears)
			}
			if got := strings.Count(buf.String(), "\x1b[1A"); got != tt.wantClears-1 {
				t.Errorf("moved up %d lines, want %d", got, tt.wantClears-1)
			}
		})
	}
}

func TestPrompterLine(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompterFrom(strings.NewReader("  ada@example.com \nsecret\nlast"), &out)

	email, err := p.Line("Email: ")
	if err != nil || email != "ada@example.com" {
		t.Fatalf("Line = %q, %v", email, err)
	}
	pw, err := p.Secret("Password: ")
	if err != nil || pw != "secret" {
		t.Fatalf("Secret = %q, %v", pw, err)
	}
	last, err := p.Line("Last: ")
	if err != nil || last != "last" {
		t.Fatalf("Line without newline = %q, %v", last, err)
	}
	if _, err := p.Line("Nothing: "); err == nil {
		t.Fatal("expected EOF")
	}
	if !strings.Contains(out.String(), "Email: ") {
		t.Errorf("prompt not written: %q", out.String())
	}
}

func TestLineOr(t *testing.T) {
	p := NewPrompterFrom(strings.NewReader("typed\n"), &bytes.Buffer{})
	v, err := p.LineOr(" given ", "x: ")
	if err != nil || v != "given" {
		t.Fatalf("LineOr = %q, %v", v, err)
	}
	v, err = p.LineOr("", "x: ")
	if err != nil || v != "typed" {
		t.Fatalf("LineOr = %q, %v", v, err)
	}
}
