// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"quill/cli/internal/guard"
)

var commentsCmd = &cobra.Command{
	Use:     "comments",
	Aliases: []string{"comment"},
	Short:   "Add or delete comments",
}

var commentsAddCmd = &cobra.Command{
	Use:   "add <article-id> <text>",
	Short: "Comment on an article",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		articleID, err := parseID("article", args[0])
		if err != nil {
			return err
		}
		text := strings.Join(args[1:], " ")
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			c, err := a.articles.AddComment(ctx, articleID, text)
			if err != nil {
				return during("posting the comment", err)
			}
			success(a.out, "Comment %d added to article %d", c.ID, articleID)
			return nil
		})
	},
}

var commentsDeleteCmd = &cobra.Command{
	Use:   "delete <comment-id>",
	Short: "Delete a comment",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		id, err := parseID("comment", args[0])
		if err != nil {
			return err
		}
		return a.guard(guard.RequireAuthenticated).Run(cmd.Context(), func(ctx context.Context) error {
			if err := a.articles.DeleteComment(ctx, id); err != nil {
				return during("deleting the comment", err)
			}
			success(a.out, "Comment %d deleted", id)
			return nil
		})
	},
}

func init() {
	commentsCmd.AddCommand(commentsAddCmd, commentsDeleteCmd)
	rootCmd.AddCommand(commentsCmd)
}
