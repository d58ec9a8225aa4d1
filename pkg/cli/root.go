package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/pkg/apiclient"
	"github.com/sitectl/sitectl/pkg/cli/internal/output"
	"github.com/sitectl/sitectl/pkg/cliconfig"
	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/session"
)

var (
	// Version is injected during build
	Version = "dev"
	// Commit is injected during build
	Commit = "none"
	// BuildDate is injected during build
	BuildDate = "unknown"
)

// skipSetup marks commands that run without config, session or client.
const skipSetup = "sitectl/skip-setup"

// globalFlags are the persistent flags available to all subcommands.
type globalFlags struct {
	apiURL     string
	configPath string
	jsonOutput bool
	logLevel   string
	logFormat  string
	insecure   bool
}

// app carries the state shared by all commands of one invocation.
type app struct {
	flags globalFlags

	cfg     *cliconfig.CLIConfig
	log     *slog.Logger
	store   *session.FileStore
	session *session.Session
	client  *apiclient.Client

	prompter    Prompter
	interactive func() bool
}

func newApp() *app {
	return &app{
		prompter: huhPrompter{},
		interactive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stdout.Fd())
		},
	}
}

// NewRootCmd builds the sitectl command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(newApp())
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sitectl",
		Short: "sitectl manages reverse-proxy sites through the admin API",
		Long: `sitectl is the admin client for a reverse-proxy site manager.
It logs in against the admin API, lists, creates, edits and deletes sites,
and enqueues certificate retries. Run "sitectl console" for the interactive UI.

Configuration can be provided via flags, environment variables (SITECTL_*),
a local .sitectlrc.yaml, or ~/.config/sitectl/config.yaml.`,
		SilenceUsage:  true,
		SilenceErrors: true, // We handle errors in Execute()
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipSetup] == "true" {
				return nil
			}
			return a.setup(cmd)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&a.flags.apiURL, "api-url", "", "Admin API base URL (default: "+cliconfig.DefaultAPIURL+")")
	pf.StringVar(&a.flags.configPath, "config", "", "Config file (default: .sitectlrc.yaml, then ~/.config/sitectl/config.yaml)")
	pf.BoolVar(&a.flags.jsonOutput, "json", false, "Output command results in JSON format")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "Log format: text, json")
	pf.BoolVar(&a.flags.insecure, "insecure", false, "Skip TLS certificate verification")

	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newStatusCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newRetryCertCmd(a),
		newConsoleCmd(a),
		newConfigCmd(a),
		newVersionCmd(a),
		newDevAPICmd(a),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, FormatError(err))
		os.Exit(1)
	}
}

// setup resolves the configuration, then builds the logger, session and client.
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := cliconfig.LoadAll(a.flags.configPath)
	if err != nil {
		return err
	}
	cliconfig.MergeConfig(cfg, a.flagConfig(cmd), cliconfig.SourceFlag)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	if cfg.Insecure {
		output.Warn(cmd.ErrOrStderr(), "TLS certificate verification is disabled for %s", cfg.APIURL)
	}

	a.log = logging.New(logging.Config{
		Level:  logging.ParseLevel(cfg.LogLevel),
		Format: logging.ParseFormat(cfg.LogFormat),
		Output: cmd.ErrOrStderr(),
	})

	a.store = session.NewFileStore(cfg.TokenFile)
	a.session = session.New(a.store)
	if err := a.session.Load(); err != nil {
		return fmt.Errorf("failed to read token file %s: %w", a.store.Path(), err)
	}
	a.client = a.newClient(a.log)
	return nil
}

// flagConfig collects the persistent flags that were given explicitly.
func (a *app) flagConfig(cmd *cobra.Command) *cliconfig.CLIConfig {
	flags := cmd.Flags()
	fc := &cliconfig.CLIConfig{SetFields: map[string]bool{}}
	if flags.Changed("api-url") {
		fc.APIURL = a.flags.apiURL
	}
	if flags.Changed("log-level") {
		fc.LogLevel = a.flags.logLevel
	}
	if flags.Changed("log-format") {
		fc.LogFormat = a.flags.logFormat
	}
	if flags.Changed("insecure") {
		fc.Insecure = a.flags.insecure
		fc.SetFields["insecure"] = true
	}
	if flags.Changed("json") {
		fc.JSON = a.flags.jsonOutput
		fc.SetFields["json"] = true
	}
	return fc
}

// newClient builds an API client for the resolved configuration.
func (a *app) newClient(log *slog.Logger) *apiclient.Client {
	opts := []apiclient.Option{apiclient.WithLogger(log)}
	if a.cfg.Insecure {
		opts = append(opts, apiclient.WithInsecureTLS())
	}
	if a.cfg.Timeout > 0 {
		opts = append(opts, apiclient.WithTimeout(time.Duration(a.cfg.Timeout)*time.Second))
	}
	return apiclient.New(a.cfg.APIURL, a.session, opts...)
}

// jsonOutput reports whether --json (or json: true in config) is active.
func (a *app) jsonOutput() bool {
	if a.cfg != nil {
		return a.cfg.JSON
	}
	return a.flags.jsonOutput
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func stdout(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
