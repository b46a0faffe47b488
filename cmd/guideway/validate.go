package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/opencourtlab/guideway/pkg/graph"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a graph document for consistency",
	Long:  `Validates a questionnaire graph: the start node must exist, every edge and option target must resolve, and unreachable nodes are reported as warnings.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd, args); err != nil {
			fmt.Printf("Validation failed:\n%v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("graph")
	if len(args) > 0 {
		path = args[0]
	}

	doc, err := graph.LoadFile(path)
	if err != nil {
		return err
	}

	diags := graph.Validate(doc)

	var fatal int
	for _, d := range diags {
		fmt.Println(d.Error())
		if d.Severity == graph.SeverityError {
			fatal++
		}
	}

	if fatal > 0 {
		return fmt.Errorf("%d structural violations", fatal)
	}
	fmt.Println("Graph is valid! ✅")
	return nil
}
