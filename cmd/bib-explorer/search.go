// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bib-explorer/internal/explore"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search contributors and titles",
	Long: `Search queries the name-authority file and the works index in parallel
and prints contributors (ordered by how much they have contributed) next to
ranked title matches. An all-digit query is treated as an instance
identifier and searched against the instances index instead.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	result, err := newExplorer().Search(context.Background(), query)
	if err != nil {
		return err
	}

	return writeOutput(cmd, result, func() {
		explore.FormatSearchTable(result, os.Stdout)
		fmt.Println()
	})
}

func init() {
	outputFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
