// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package blog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Category groups articles.
type Category struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt Timestamp `json:"created_at"`
}

// Tag labels articles.
type Tag struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Content is one language version of an article.
type Content struct {
	ID       int    `json:"id,omitempty"`
	Language string `json:"language"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

// Comment is a reader comment. User is the author's display name.
type Comment struct {
	ID        int       `json:"id"`
	User      string    `json:"user"`
	Content   string    `json:"content"`
	CreatedAt Timestamp `json:"created_at"`
}

// Article is the backend article record with its contents and comments.
type Article struct {
	ID        int       `json:"id"`
	Author    string    `json:"author"`
	Category  *Category `json:"category"`
	Tags      []Tag     `json:"tags"`
	CreatedAt Timestamp `json:"created_at"`
	UpdatedAt Timestamp `json:"updated_at"`
	Contents  []Content `json:"contents"`
	Comments  []Comment `json:"comments"`
}

// Title returns the title in language, falling back to the first content.
func (a Article) Title(language string) string {
	if c, ok := a.Content(language); ok {
		return c.Title
	}
	return ""
}

// Content returns the content for language, or the first one when no
// content matches.
func (a Article) Content(language string) (Content, bool) {
	for _, c := range a.Contents {
		if c.Language == language {
			return c, true
		}
	}
	if len(a.Contents) > 0 {
		return a.Contents[0], true
	}
	return Content{}, false
}

// TagNames returns the names of the article tags.
func (a Article) TagNames() []string {
	names := make([]string, 0, len(a.Tags))
	for _, t := range a.Tags {
		names = append(names, t.Name)
	}
	return names
}

// Timestamp decodes backend datetimes with or without a zone offset.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

func (t *Timestamp) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range timestampLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp %q", s)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Format(time.RFC3339Nano))
}
