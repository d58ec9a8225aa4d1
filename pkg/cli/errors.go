package cli

import (
	"errors"
	"fmt"

	"github.com/sitectl/sitectl/pkg/apiclient"
)

// Common CLI errors
var (
	ErrNotInteractive = errors.New("not running in a terminal")
	ErrSessionExpired = errors.New("session expired or invalid: run 'sitectl login'")
)

// FormatError turns a command error into the message printed on stderr.
func FormatError(err error) string {
	switch {
	case errors.Is(err, apiclient.ErrUnauthorized):
		return "Error: " + ErrSessionExpired.Error()
	case apiclient.IsConnectionError(err):
		return FormatConnectionError(err)
	}
	return "Error: " + err.Error()
}

// FormatConnectionError returns a user-friendly message for transport failures.
func FormatConnectionError(err error) string {
	return fmt.Sprintf(`Error: %s

Suggestions:
  • Check that the admin API is running
  • Verify the API URL with: sitectl config show
  • Use --insecure for a self-signed certificate`, err)
}

// FormatNotFoundError returns a user-friendly error message for not found errors.
func FormatNotFoundError(id string) error {
	return fmt.Errorf(`site not found: %s

Suggestions:
  • Check the ID with: sitectl list
  • Verify you're connected to the right server`, id)
}

// siteLookupError maps a 404 to FormatNotFoundError and passes everything else on.
func siteLookupError(id string, err error) error {
	if apiclient.IsNotFound(err) {
		return FormatNotFoundError(id)
	}
	return err
}
