package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/sitectl/sitectl/internal/devapi"
	"github.com/sitectl/sitectl/pkg/logging"
	"github.com/sitectl/sitectl/pkg/site"
)

func parseUsers(pairs []string) (map[string]string, error) {
	users := make(map[string]string, len(pairs))
	for _, p := range pairs {
		name, pass, ok := strings.Cut(p, ":")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid user %q: expected name:password", p)
		}
		users[name] = pass
	}
	return users, nil
}

func newDevAPICmd(a *app) *cobra.Command {
	var (
		addr     string
		users    []string
		secret   string
		tokenTTL time.Duration
		seed     bool
	)

	cmd := &cobra.Command{
		Use:         "dev-api",
		Short:       "Serve an in-memory admin API for local trials",
		Hidden:      true,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{skipSetup: "true"},
		RunE: func(cmd *cobra.Command, _ []string) error {
			userMap, err := parseUsers(users)
			if err != nil {
				return err
			}
			level := a.flags.logLevel
			if level == "" {
				level = "info"
			}
			log := logging.New(logging.Config{
				Level:  logging.ParseLevel(level),
				Format: logging.ParseFormat(a.flags.logFormat),
				Output: cmd.ErrOrStderr(),
			})

			api := devapi.New(devapi.Config{
				Users:    userMap,
				Secret:   []byte(secret),
				TokenTTL: tokenTTL,
				Logger:   log,
			})
			if seed {
				api.Seed(site.Site{
					Domain:       "example.com",
					SSL:          true,
					SSLProvider:  site.DefaultSSLProvider,
					ProxyPass:    "http://localhost:8080",
					ProxyHeaders: map[string]string{"X-Real-IP": "$remote_addr"},
				})
			}

			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", addr, err)
			}
			srv := &http.Server{
				Handler:           api,
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Serve(ln)
			}()
			log.Info("dev api listening", "addr", ln.Addr().String(), "users", len(userMap))
			fmt.Fprintf(cmd.ErrOrStderr(), "Serving admin API on http://%s (Ctrl+C to stop)\n", ln.Addr())

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8000", "Listen address")
	cmd.Flags().StringArrayVar(&users, "user", []string{"admin:admin"}, "Accepted credentials name:password (repeatable)")
	cmd.Flags().StringVar(&secret, "secret", "", "Token signing secret (random when empty)")
	cmd.Flags().DurationVar(&tokenTTL, "token-ttl", devapi.DefaultTokenTTL, "Lifetime of issued tokens")
	cmd.Flags().BoolVar(&seed, "seed", false, "Start with an example site")
	return cmd
}
