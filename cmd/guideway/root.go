package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway/pkg/graph"
)

var rootCmd = &cobra.Command{
	Use:   "guideway",
	Short: "Guideway is a guided-flow engine for legal-intake kiosks",
	Long:  `Guideway walks a user through a branching questionnaire graph, determines which court forms apply, and hands a completion summary to a back-office queue.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("graph", "g", "intake.yaml", "Path to the questionnaire graph document (YAML or JSON)")
	rootCmd.PersistentFlags().String("sessions-dir", "", "Directory for persisted sessions (default .guideway/sessions)")
}

// loadGraph builds the validated graph from the --graph flag.
func loadGraph(cmd *cobra.Command) (*graph.Graph, error) {
	path, _ := cmd.Flags().GetString("graph")

	doc, err := graph.LoadFile(path)
	if err != nil {
		return nil, err
	}

	g, err := graph.Build(doc)
	if err != nil {
		return nil, err
	}

	for _, warn := range g.Warnings() {
		fmt.Fprintf(os.Stderr, "warning: %s\n", warn.Error())
	}
	return g, nil
}
