// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bib-explorer/internal/explore"
)

var workCmd = &cobra.Command{
	Use:   "work",
	Short: "Drill into one work (related siblings, instances)",
}

var workRelatedCmd = &cobra.Command{
	Use:   "related [work-uri]",
	Short: "Find the other works by this work's first contributor",
	Long: `Related resolves the work's first contributor and lists their other
works, ranked against the work's label (and --query when given). Close
matches come first; the rest follow a separator.

A work whose record cannot be fetched is excluded for the session. With
--query the search is repeated once automatically so the broken entry
disappears from the results.`,
	Args: cobra.ExactArgs(1),
	RunE: runWorkRelated,
}

func runWorkRelated(cmd *cobra.Command, args []string) error {
	workURI := args[0]
	label, _ := cmd.Flags().GetString("label")
	query, _ := cmd.Flags().GetString("query")

	e := newExplorer()
	result, err := e.RelatedWorks(context.Background(), workURI, label, query)
	if errors.Is(err, explore.ErrWorkExcluded) && query != "" {
		fmt.Fprintf(os.Stderr, "record unavailable, repeating search for %q without it\n", query)
		search, searchErr := e.Search(context.Background(), query)
		if searchErr != nil {
			return searchErr
		}
		return writeOutput(cmd, search, func() {
			explore.FormatSearchTable(search, os.Stdout)
		})
	}
	if err != nil {
		return err
	}

	return writeOutput(cmd, result, func() {
		explore.FormatRelatedTable(result, os.Stdout)
	})
}

var workInstancesCmd = &cobra.Command{
	Use:   "instances [work-uri]",
	Short: "List the instances of a work in identifier order",
	Args:  cobra.ExactArgs(1),
	RunE:  runWorkInstances,
}

func runWorkInstances(cmd *cobra.Command, args []string) error {
	list, err := newExplorer().InstanceList(context.Background(), args[0])
	if err != nil {
		return err
	}

	return writeOutput(cmd, list, func() {
		if len(list) == 0 {
			fmt.Println("No instances found.")
			return
		}
		for _, ref := range list {
			fmt.Printf("%s\n    %s\n", ref.Label, ref.URI)
		}
	})
}

func init() {
	workRelatedCmd.Flags().String("label", "", "the work's display label, used for ranking")
	workRelatedCmd.Flags().String("query", "", "the original search query, used for ranking and re-search")
	outputFlags(workRelatedCmd)
	outputFlags(workInstancesCmd)

	workCmd.AddCommand(workRelatedCmd)
	workCmd.AddCommand(workInstancesCmd)
	rootCmd.AddCommand(workCmd)
}
