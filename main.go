// Copyright (c) 2025 Quill
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package main is the entry point for the quill CLI, a terminal client for
// the multilingual blog backend.
package main

import (
	"quill/cli/cmd"
)

func main() {
	cmd.Execute()
}
