package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("guideway version %s\n", guideway.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
