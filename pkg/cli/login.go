package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				if !a.interactive() {
					return errors.New("username and password required (use --username and --password)")
				}
				if err := a.prompter.Login(&username, &password); err != nil {
					return err
				}
			}

			if _, err := a.client.Login(commandContext(cmd), username, password); err != nil {
				return err
			}
			a.log.Debug("token stored", "path", a.store.Path())

			w := stdout(cmd)
			return a.printResult(w, map[string]any{"authenticated": true, "apiUrl": a.client.BaseURL()}, func() error {
				fmt.Fprintln(w, "Logged in")
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password (prompted when omitted)")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored access token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.session.Clear(); err != nil {
				return fmt.Errorf("failed to clear token: %w", err)
			}
			w := stdout(cmd)
			return a.printResult(w, map[string]any{"authenticated": false}, func() error {
				fmt.Fprintln(w, "Logged out")
				return nil
			})
		},
	}
}

// StatusOutput is the JSON shape of "sitectl status".
type StatusOutput struct {
	APIURL        string     `json:"apiUrl"`
	TokenFile     string     `json:"tokenFile"`
	Authenticated bool       `json:"authenticated"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Expired       bool       `json:"expired,omitempty"`
}

// tokenExpiry reads the exp claim without verifying the signature.
// It returns nil for tokens that are not JWTs or carry no exp.
func tokenExpiry(token string) *time.Time {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.Time
	return &exp
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the API URL and stored session",
		Long: `Show the API URL and whether a token is stored.

The token expiry is decoded without verification and is informational only:
the server decides whether the token is still accepted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := StatusOutput{
				APIURL:        a.client.BaseURL(),
				TokenFile:     a.store.Path(),
				Authenticated: a.session.Authenticated(),
			}
			if out.Authenticated {
				out.ExpiresAt = tokenExpiry(a.session.Token())
				out.Expired = out.ExpiresAt != nil && out.ExpiresAt.Before(time.Now())
			}

			w := stdout(cmd)
			return a.printResult(w, out, func() error {
				var b strings.Builder
				fmt.Fprintf(&b, "API URL:    %s\n", out.APIURL)
				fmt.Fprintf(&b, "Token file: %s\n", out.TokenFile)
				if !out.Authenticated {
					b.WriteString("Session:    not logged in\n")
				} else {
					b.WriteString("Session:    token stored\n")
					if out.ExpiresAt != nil {
						state := "valid until"
						if out.Expired {
							state = "expired at"
						}
						fmt.Fprintf(&b, "Expiry:     %s %s\n", state, out.ExpiresAt.Local().Format(time.RFC3339))
					}
				}
				_, err := fmt.Fprint(w, b.String())
				return err
			})
		},
	}
}
