package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway"
	"github.com/opencourtlab/guideway/internal/adapters"
	"github.com/opencourtlab/guideway/internal/presentation/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Walk a questionnaire interactively in the terminal",
	Long:  `Starts the kiosk wizard: node text is rendered as markdown, choices are listed, and the session is snapshotted after every step so an interrupted intake can resume.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWizard(cmd); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("session", "", "Session id to resume (default: a new id)")
	runCmd.Flags().Bool("no-banner", false, "Skip the startup banner")
	runCmd.Flags().Bool("plain", false, "Disable markdown rendering")
}

func runWizard(cmd *cobra.Command) error {
	g, err := loadGraph(cmd)
	if err != nil {
		return err
	}

	sessionID, _ := cmd.Flags().GetString("session")
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	sessionsDir, _ := cmd.Flags().GetString("sessions-dir")
	store := adapters.NewFileStore(sessionsDir)

	sess, err := guideway.Open(cmd.Context(), g,
		guideway.WithSessionID(sessionID),
		guideway.WithStore(store),
	)
	if err != nil {
		return err
	}

	if noBanner, _ := cmd.Flags().GetBool("no-banner"); !noBanner {
		tui.PrintBanner()
	}
	fmt.Printf("Session: %s\n\n", sessionID)

	runner := &guideway.Runner{
		Input:  os.Stdin,
		Output: os.Stdout,
	}
	if plain, _ := cmd.Flags().GetBool("plain"); !plain {
		runner.Renderer = tui.NewRenderer()
	}

	return runner.Run(cmd.Context(), sess)
}
