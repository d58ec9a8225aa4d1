package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/console"
	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/tui"
)

func newConsoleCmd(a *app) *cobra.Command {
	var logFile string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive console",
		Long: `Start the full-screen console: log in, browse sites, add, edit and delete
them, and enqueue certificate retries.

Logs cannot go to the terminal while the console runs; pass --log-file to keep them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !a.interactive() {
				return fmt.Errorf("%w: the console needs a terminal", ErrNotInteractive)
			}

			path := a.cfg.LogFile
			if cmd.Flags().Changed("log-file") {
				path = logFile
			}
			logCfg := logging.Config{
				Level:  logging.ParseLevel(a.cfg.LogLevel),
				Format: logging.ParseFormat(a.cfg.LogFormat),
			}
			log := logging.Nop()
			if path != "" {
				var closer io.Closer
				var err error
				log, closer, err = logging.NewFile(logCfg, path)
				if err != nil {
					return err
				}
				defer func() { _ = closer.Close() }()
			}

			return tui.Run(commandContext(cmd), tui.Options{
				Backend:    a.newClient(log),
				Controller: console.New(a.session),
				Logger:     log,
			})
		},
	}

	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this file while the console runs")
	return cmd
}
