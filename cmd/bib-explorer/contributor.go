// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bib-explorer/internal/explore"
	"github.com/pdiddy/bib-explorer/internal/loc"
)

var contributorCmd = &cobra.Command{
	Use:   "contributor [lccn]",
	Short: "List everything a contributor worked on, grouped by title",
	Long: `Contributor expands one name-authority record into its complete catalog.
Every work record is fetched and classified; text works sharing a title
(after normalization) are merged into one group, and non-text works are
listed separately under their specific type.

The argument is the contributor's LCCN token as shown by search, for
example n79021164.`,
	Args: cobra.ExactArgs(1),
	RunE: runContributor,
}

func runContributor(cmd *cobra.Command, args []string) error {
	lccn := args[0]
	if !loc.IsLCCN(lccn) {
		return fmt.Errorf("%q does not look like an LCCN token (expected n + digits)", lccn)
	}

	grouped, err := newExplorer().ContributorWorks(context.Background(), lccn)
	if err != nil {
		return err
	}

	return writeOutput(cmd, grouped, func() {
		explore.FormatGroupedTable(grouped, os.Stdout)
	})
}

func init() {
	outputFlags(contributorCmd)
	rootCmd.AddCommand(contributorCmd)
}
