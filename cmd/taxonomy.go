// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"strconv"

	"github.com/spf13/cobra"
)

// taxonomyCmd lists tags and categories, fetched in parallel.
var taxonomyCmd = &cobra.Command{
	Use:     "taxonomy",
	Aliases: []string{"tags", "categories"},
	Short:   "List tags and categories",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		tax, err := a.articles.Taxonomy(cmd.Context())
		if err != nil {
			return during("loading tags and categories", err)
		}

		cats := [][]string{{"ID", "Category", "Created"}}
		for _, c := range tax.Categories {
			cats = append(cats, []string{strconv.Itoa(c.ID), c.Name, formatTime(c.CreatedAt.Time)})
		}
		if err := renderTable(a.out, cats); err != nil {
			return err
		}

		tags := [][]string{{"ID", "Tag"}}
		for _, t := range tax.Tags {
			tags = append(tags, []string{strconv.Itoa(t.ID), t.Name})
		}
		return renderTable(a.out, tags)
	},
}

func init() {
	rootCmd.AddCommand(taxonomyCmd)
}
