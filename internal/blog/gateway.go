// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package blog reads and writes articles, comments, tags and categories
// through the shared backend client.
package blog

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"

	"quill/cli/internal/apipaths"
	apperr "quill/cli/internal/errors"
)

// Doer is the part of the backend client the gateway uses.
type Doer interface {
	Get(ctx context.Context, path string, out any) error
	Post(ctx context.Context, path string, in, out any) error
	Delete(ctx context.Context, path string) error
}

// Gateway exposes the article endpoints.
type Gateway struct {
	client Doer
}

// NewGateway creates a gateway over client.
func NewGateway(client Doer) *Gateway {
	return &Gateway{client: client}
}

// Filter narrows ListArticles. Zero fields are omitted from the query.
type Filter struct {
	Category int
	Keyword  string
	Tags     []int
}

func (f Filter) values() url.Values {
	q := url.Values{}
	if f.Category > 0 {
		q.Set("category", strconv.Itoa(f.Category))
	}
	if kw := strings.TrimSpace(f.Keyword); kw != "" {
		q.Set("keyword", kw)
	}
	for _, id := range f.Tags {
		q.Add("tags", strconv.Itoa(id))
	}
	return q
}

// ListArticles returns the articles matching f.
func (g *Gateway) ListArticles(ctx context.Context, f Filter) ([]Article, error) {
	var out []Article
	if err := g.client.Get(ctx, apipaths.ArticleSearch(f.values()), &out); err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	return out, nil
}

// GetArticle returns one article with its comments.
func (g *Gateway) GetArticle(ctx context.Context, id int) (*Article, error) {
	if id <= 0 {
		return nil, apperr.New(apperr.Invalid, "article id must be positive")
	}
	var out Article
	if err := g.client.Get(ctx, apipaths.Article(id), &out); err != nil {
		return nil, fmt.Errorf("get article %d: %w", id, err)
	}
	return &out, nil
}

// NewArticle is the payload for CreateArticle.
type NewArticle struct {
	Language string
	Title    string
	Body     string
	Category int
	Tags     []int
}

type createArticleRequest struct {
	Contents []Content `json:"contents"`
	Category int       `json:"category,omitempty"`
	Tags     []int     `json:"tags"`
}

// CreateArticle publishes a new article and returns the stored record.
func (g *Gateway) CreateArticle(ctx context.Context, a NewArticle) (*Article, error) {
	if strings.TrimSpace(a.Title) == "" || strings.TrimSpace(a.Body) == "" {
		return nil, apperr.New(apperr.Invalid, "title and body are required")
	}
	lang := a.Language
	if lang == "" {
		lang = "en"
	}
	tags := a.Tags
	if tags == nil {
		tags = []int{}
	}
	req := createArticleRequest{
		Contents: []Content{{Language: lang, Title: a.Title, Body: a.Body}},
		Category: a.Category,
		Tags:     tags,
	}
	var out Article
	if err := g.client.Post(ctx, apipaths.ArticleManager, req, &out); err != nil {
		return nil, fmt.Errorf("create article: %w", err)
	}
	return &out, nil
}

// ListTags returns every tag.
func (g *Gateway) ListTags(ctx context.Context) ([]Tag, error) {
	var out []Tag
	if err := g.client.Get(ctx, apipaths.Tags, &out); err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	return out, nil
}

// ListCategories returns every category.
func (g *Gateway) ListCategories(ctx context.Context) ([]Category, error) {
	var out []Category
	if err := g.client.Get(ctx, apipaths.Categories, &out); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return out, nil
}

// Taxonomy holds the tag and category lists.
type Taxonomy struct {
	Tags       []Tag
	Categories []Category
}

// Taxonomy fetches tags and categories in parallel. The two requests may
// complete in any order; the first failure cancels the other.
func (g *Gateway) Taxonomy(ctx context.Context) (*Taxonomy, error) {
	var tax Taxonomy
	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		tags, err := g.ListTags(egCtx)
		tax.Tags = tags
		return err
	})
	eg.Go(func() error {
		cats, err := g.ListCategories(egCtx)
		tax.Categories = cats
		return err
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return &tax, nil
}

type commentRequest struct {
	Article int    `json:"article"`
	Content string `json:"content"`
}

// AddComment posts a comment on an article.
func (g *Gateway) AddComment(ctx context.Context, articleID int, content string) (*Comment, error) {
	if articleID <= 0 {
		return nil, apperr.New(apperr.Invalid, "article id must be positive")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.New(apperr.Invalid, "comment cannot be empty")
	}
	var out Comment
	if err := g.client.Post(ctx, apipaths.CommentManager, commentRequest{Article: articleID, Content: content}, &out); err != nil {
		return nil, fmt.Errorf("add comment: %w", err)
	}
	return &out, nil
}

// DeleteComment removes a comment.
func (g *Gateway) DeleteComment(ctx context.Context, id int) error {
	if id <= 0 {
		return apperr.New(apperr.Invalid, "comment id must be positive")
	}
	if err := g.client.Delete(ctx, apipaths.Comment(id)); err != nil {
		return fmt.Errorf("delete comment %d: %w", id, err)
	}
	return nil
}

// FindTag resolves a tag by case-insensitive name or numeric id.
func FindTag(tags []Tag, ref string) (Tag, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		for _, t := range tags {
			if t.ID == id {
				return t, nil
			}
		}
	}
	for _, t := range tags {
		if strings.EqualFold(t.Name, ref) {
			return t, nil
		}
	}
	return Tag{}, apperr.New(apperr.Invalid, "unknown tag "+strconv.Quote(ref))
}

// FindCategory resolves a category by case-insensitive name or numeric id.
func FindCategory(cats []Category, ref string) (Category, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.Atoi(ref); err == nil {
		for _, c := range cats {
			if c.ID == id {
				return c, nil
			}
		}
	}
	for _, c := range cats {
		if strings.EqualFold(c.Name, ref) {
			return c, nil
		}
	}
	return Category{}, apperr.New(apperr.Invalid, "unknown category "+strconv.Quote(ref))
}
