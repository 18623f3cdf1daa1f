// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/bib-explorer/internal/explore"
)

var instanceCmd = &cobra.Command{
	Use:   "instance [work-uri]",
	Short: "Show the full summary of a work/instance pair",
	Long: `Instance assembles and prints the denormalized view of one work and,
when --instance is given, one of its instances: title, contributors,
publication details, extent, ISBNs, languages, and subject headings.
Subjects that cannot be resolved are shown by their identifier rather than
dropped.`,
	Args: cobra.ExactArgs(1),
	RunE: runInstance,
}

func runInstance(cmd *cobra.Command, args []string) error {
	instanceURI, _ := cmd.Flags().GetString("instance")

	summary, err := newExplorer().InstanceSummary(context.Background(), args[0], instanceURI)
	if err != nil {
		return err
	}

	return writeOutput(cmd, summary, func() {
		explore.FormatSummaryTable(summary, os.Stdout)
		fmt.Println()
	})
}

func init() {
	instanceCmd.Flags().String("instance", "", "instance URI to include publication details from")
	outputFlags(instanceCmd)
	rootCmd.AddCommand(instanceCmd)
}
