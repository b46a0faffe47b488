package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway/internal/adapters"
	mcpAdapter "github.com/opencourtlab/guideway/pkg/adapters/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the intake flow as an MCP server on stdio",
	Long:  `Serves the questionnaire as Model Context Protocol tools (render_state, advance, back, summarize), so an assistant front-end can drive a kiosk session.`,
	Run: func(cmd *cobra.Command, args []string) {
		g, err := loadGraph(cmd)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}

		sessionsDir, _ := cmd.Flags().GetString("sessions-dir")
		store := adapters.NewFileStore(sessionsDir)

		server := mcpAdapter.NewServer(g, mcpAdapter.WithStore(store))
		if err := server.ServeStdio(); err != nil {
			fmt.Printf("MCP server error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
