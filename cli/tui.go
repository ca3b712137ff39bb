package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/stevemurr/simple-user-table/seed"
	"github.com/stevemurr/simple-user-table/session"
	"github.com/stevemurr/simple-user-table/tui"
)

func newTUICmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Edit the table in the terminal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configFile, cmd.Flags())
			if err != nil {
				return err
			}
			records, err := seed.Load(cfg.SeedFile)
			if err != nil {
				return err
			}
			// Log output would corrupt the terminal UI.
			sessions := session.NewManager(session.Options{
				Backend: cfg.Store,
				Seed:    records,
				Logger:  newLogger(io.Discard, cfg.LogLevel),
			})
			defer sessions.Close()

			_, app, err := sessions.Create()
			if err != nil {
				return err
			}
			return tui.Run(app)
		},
	}
}
