package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "envcheck",
		Short: "envcheck, health and smoke checks for a local AI stack",
		Long: "Envcheck validates a personal multi-AI setup: it probes the API server,\n" +
			"PostgreSQL, the model runtime and the mesh nodes, and it runs canned\n" +
			"coding prompts against local models to eyeball their output quality.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdCheck())
	cmd.AddCommand(NewCmdSmoke())

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
