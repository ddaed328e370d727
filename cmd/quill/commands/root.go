package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	version string
	commit  string
	date    string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "quill",
	Short: "Quill - Human-in-the-loop AI writing pipeline",
	Long: `Quill turns a topic (and optionally a codebase) into a published blog
post through a supervised pipeline: validated outline, your approval, a
validated draft, as many revision rounds as you want, promotional posts,
and a final export to disk.

Every artifact flows through a run-scoped blackboard, so each step sees
exactly what earlier steps produced.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}
