// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"quill/cli/internal/blog"
	"quill/cli/internal/guard"
)

var articleFlags struct {
	category string
	keyword  string
	tags     []string
	language string
	title    string
	body     string
}

var articlesCmd = &cobra.Command{
	Use:     "articles",
	Aliases: []string{"article"},
	Short:   "Browse and publish articles",
}

var articlesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List articles, optionally filtered",
	Long: `List articles. Filters combine:
  --category  category name or id
  --tag       tag name or id (repeatable)
  --keyword   text contained in the title`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		ctx := cmd.Context()

		f := blog.Filter{Keyword: articleFlags.keyword}
		if articleFlags.category != "" || len(articleFlags.tags) > 0 {
			tax, err := a.articles.Taxonomy(ctx)
			if err != nil {
				return during("loading tags and categories", err)
			}
			if f.Category, f.Tags, err = resolveTaxonomy(tax, articleFlags.category, articleFlags.tags); err != nil {
				return err
			}
		}

		list, err := a.articles.ListArticles(ctx, f)
		if err != nil {
			return during("listing articles", err)
		}
		if len(list) == 0 {
			pterm.Fprintln(a.out, "No articles found.")
			return nil
		}
		rows := [][]string{{"ID", "Title", "Author", "Category", "Tags", "Created"}}
		for _, art := range list {
			category := "-"
			if art.Category != nil {
				category = art.Category.Name
			}
			rows = append(rows, []string{
				strconv.Itoa(art.ID),
				truncate(art.Title(a.cfg.Language), 48),
				art.Author,
				category,
				strings.Join(art.TagNames(), ", "),
				formatTime(art.CreatedAt.Time),
			})
		}
		return renderTable(a.out, rows)
	},
}

var articlesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show an article with its comments",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		id, err := parseID("article", args[0])
		if err != nil {
			return err
		}
		art, err := a.articles.GetArticle(cmd.Context(), id)
		if err != nil {
			return during("loading the article", err)
		}
		printArticle(a, art)
		return nil
	},
}

var articlesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Publish a new article",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			na := blog.NewArticle{
				Language: articleFlags.language,
				Title:    articleFlags.title,
				Body:     articleFlags.body,
			}
			if articleFlags.category != "" || len(articleFlags.tags) > 0 {
				tax, err := a.articles.Taxonomy(ctx)
				if err != nil {
					return during("loading tags and categories", err)
				}
				if na.Category, na.Tags, err = resolveTaxonomy(tax, articleFlags.category, articleFlags.tags); err != nil {
					return err
				}
			}
			art, err := a.articles.CreateArticle(ctx, na)
			if err != nil {
				return during("publishing the article", err)
			}
			success(a.out, "Published article %d", art.ID)
			return nil
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{articlesListCmd, articlesCreateCmd} {
		c.Flags().StringVar(&articleFlags.category, "category", "", "Category name or id")
		c.Flags().StringSliceVar(&articleFlags.tags, "tag", nil, "Tag name or id (repeatable)")
	}
	articlesListCmd.Flags().StringVar(&articleFlags.keyword, "keyword", "", "Search text")

	articlesCreateCmd.Flags().StringVar(&articleFlags.title, "title", "", "Article title")
	articlesCreateCmd.Flags().StringVar(&articleFlags.body, "body", "", "Article body")
	articlesCreateCmd.Flags().StringVar(&articleFlags.language, "language", "en", "Content language code")
	_ = articlesCreateCmd.MarkFlagRequired("title")
	_ = articlesCreateCmd.MarkFlagRequired("body")

	articlesCmd.AddCommand(articlesListCmd, articlesShowCmd, articlesCreateCmd)
	rootCmd.AddCommand(articlesCmd)
}

// resolveTaxonomy maps user-supplied category and tag references to ids.
func resolveTaxonomy(tax *blog.Taxonomy, category string, tags []string) (int, []int, error) {
	var catID int
	if category != "" {
		c, err := blog.FindCategory(tax.Categories, category)
		if err != nil {
			return 0, nil, err
		}
		catID = c.ID
	}
	ids := make([]int, 0, len(tags))
	for _, ref := range tags {
		t, err := blog.FindTag(tax.Tags, ref)
		if err != nil {
			return 0, nil, err
		}
		ids = append(ids, t.ID)
	}
	return catID, ids, nil
}

func printArticle(a *app, art *blog.Article) {
	content, _ := art.Content(a.cfg.Language)
	meta := []string{"by " + art.Author, formatTime(art.CreatedAt.Time)}
	if art.Category != nil {
		meta = append(meta, art.Category.Name)
	}
	if tags := art.TagNames(); len(tags) > 0 {
		meta = append(meta, "#"+strings.Join(tags, " #"))
	}

	body := pterm.Gray(strings.Join(meta, " · ")) + "\n\n" + content.Body
	pterm.Fprintln(a.out, pterm.DefaultBox.
		WithTitle(pterm.NewStyle(pterm.FgCyan, pterm.Bold).Sprint(content.Title)).
		WithTopPadding(1).WithBottomPadding(1).WithLeftPadding(1).WithRightPadding(1).
		Sprint(body))

	if len(art.Contents) > 1 {
		langs := make([]string, 0, len(art.Contents))
		for _, c := range art.Contents {
			langs = append(langs, c.Language)
		}
		pterm.Fprintln(a.out, pterm.Gray("Available in: "+strings.Join(langs, ", ")))
	}

	pterm.Fprintln(a.out)
	if len(art.Comments) == 0 {
		pterm.Fprintln(a.out, "No comments yet.")
		return
	}
	pterm.Fprintln(a.out, fmt.Sprintf("Comments (%d)", len(art.Comments)))
	for _, c := range art.Comments {
		pterm.Fprintln(a.out, fmt.Sprintf("  [%d] %s · %s", c.ID, c.User, formatTime(c.CreatedAt.Time)))
		pterm.Fprintln(a.out, "      "+c.Content)
	}
}
