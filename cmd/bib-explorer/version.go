package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version of bib-explorer",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("bib-explorer %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
