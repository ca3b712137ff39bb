// Package cli implements the usertable command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags "-X ...cli.Version=...".
var Version = "dev"

type rootFlags struct {
	configFile string
}

// NewRootCmd creates the top-level "usertable" command with all
// subcommands registered.
func NewRootCmd() *cobra.Command {
	var flags rootFlags
	root := &cobra.Command{
		Use:   "usertable",
		Short: "A table of user records with inline add, edit and delete",
		Long: "usertable serves an editable table of user records (name, age).\n" +
			"Each browser or terminal session gets its own in-memory table.",
		// Do not print usage on errors returned by subcommands.
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flags.configFile, "config", "", "config file (default: ./usertable.yaml if present)")
	root.PersistentFlags().String("store", "memory", "store backend: memory or sqlite")
	root.PersistentFlags().String("seed-file", "", "YAML or JSON list of {name, age} to start each session with")
	root.PersistentFlags().String("log-level", "info", "debug, info, warn or error")

	root.AddCommand(newServeCmd(&flags))
	root.AddCommand(newTUICmd(&flags))
	root.AddCommand(newVersionCmd())

	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "usertable %s\n", Version)
		},
	}
}
