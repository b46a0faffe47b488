package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway/internal/adapters"
	mapview "github.com/opencourtlab/guideway/internal/presentation/graph"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Render the questionnaire as a Mermaid flowchart",
	Long:  `Prints Mermaid flowchart syntax for the map view. With --session, the given session's visited trail and current node are highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runGraph(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("session", "", "Overlay a persisted session's trail")
}

func runGraph(cmd *cobra.Command) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}

	var overlay *mapview.Overlay
	if sessionID, _ := cmd.Flags().GetString("session"); sessionID != "" {
		sessionsDir, _ := cmd.Flags().GetString("sessions-dir")
		store := adapters.NewFileStore(sessionsDir)

		state, err := store.Load(cmd.Context(), sessionID)
		if err != nil {
			return fmt.Errorf("failed to load session %q: %w", sessionID, err)
		}
		overlay = &mapview.Overlay{
			VisitedNodes: state.VisitedIDs(),
			CurrentNode:  state.CurrentID,
		}
	}

	fmt.Println(mapview.GenerateMermaid(g, overlay))
	return nil
}
