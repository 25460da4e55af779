// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"quill/cli/internal/config"
)

// configCmd edits the config file directly. It runs without wiring so a
// broken api-url can still be repaired.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change saved settings",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the saved settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		p, _ := config.Path()
		rows := [][]string{{"Setting", "Value"}}
		for _, k := range config.Keys {
			v, _ := c.Get(k)
			if k == "oauth-client-secret" && v != "" {
				v = "********"
			}
			rows = append(rows, []string{k, v})
		}
		if err := renderTable(cmd.OutOrStdout(), rows); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "File:", p)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change one saved setting",
	Long: `Change one setting in the config file. Known keys:
  api-url, log-level, language, oauth-client-id, oauth-client-secret

Environment variables and the --api-url flag still take precedence.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(c); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "%s saved", args[0])
		return nil
	},
}

func init() {
	configCmd.AddCommand(configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
