package cli

import (
	"io"

	"github.com/sitectl/sitectl/pkg/cli/internal/output"
)

// printResult outputs a single operation result.
//
// Contract: when --json is active, ONLY the JSON encoding of data is written
// to w. Human-readable prose must go to stderr or be omitted entirely.
// textFn is called only in text mode.
func (a *app) printResult(w io.Writer, data any, textFn func() error) error {
	if a.jsonOutput() {
		return output.JSON(w, data)
	}
	return textFn()
}

// printFormatted renders data in the requested -o format. --json wins over -o.
func (a *app) printFormatted(w io.Writer, format string, data any, tableFn func() error) error {
	f, err := output.ParseFormat(format)
	if err != nil {
		return err
	}
	if a.jsonOutput() {
		f = output.FormatJSON
	}
	switch f {
	case output.FormatJSON:
		return output.JSON(w, data)
	case output.FormatYAML:
		return output.YAML(w, data)
	default:
		return tableFn()
	}
}
