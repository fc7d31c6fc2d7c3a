package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	root := &cobra.Command{
		Use:   "charlimit",
		Short: "Mark text beyond a character budget",
		Long: `charlimit measures a document against a character budget and wraps the
over-budget suffix in overflow containers without changing any text.`,
		Version:       fmt.Sprintf("%s (%s)", version, commit),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to a TOML or YAML config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(newCheckCmd(&g))
	root.AddCommand(newWatchCmd(&g))
	return root
}
