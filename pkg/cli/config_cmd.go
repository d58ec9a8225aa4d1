package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/cli/internal/output"
	"github.com/sitectl/sitectl/pkg/cliconfig"
	"github.com/sitectl/sitectl/pkg/session"
)

// ConfigShowOutput is the effective configuration and where each value came from.
type ConfigShowOutput struct {
	Config  *cliconfig.CLIConfig `json:"config" yaml:"config"`
	Sources map[string]string    `json:"sources" yaml:"sources"`
	Files   ConfigFiles          `json:"files" yaml:"files"`
}

// ConfigFiles lists the files consulted for configuration and the session.
type ConfigFiles struct {
	Global string `json:"global,omitempty" yaml:"global,omitempty"`
	Local  string `json:"local,omitempty" yaml:"local,omitempty"`
	Token  string `json:"token" yaml:"token"`
}

func newConfigCmd(a *app) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the CLI configuration",
	}

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration with the source of each value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := ConfigShowOutput{
				Config:  a.cfg,
				Sources: a.cfg.Sources,
				Files:   ConfigFiles{Token: session.NewFileStore(a.cfg.TokenFile).Path()},
			}
			if p, err := cliconfig.FindGlobalConfig(); err == nil {
				out.Files.Global = p
			}
			if a.flags.configPath != "" {
				out.Files.Local = a.flags.configPath
			} else if p, err := cliconfig.FindLocalConfig(); err == nil {
				out.Files.Local = p
			}

			w := stdout(cmd)
			return a.printResult(w, out, func() error {
				return output.YAML(w, out)
			})
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Print where the global config file is expected",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(stdout(cmd), cliconfig.GlobalConfigPath())
			return err
		},
	})

	return configCmd
}
