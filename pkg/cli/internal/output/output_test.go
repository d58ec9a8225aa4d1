package output

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{" JSON ", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONAndYAML(t *testing.T) {
	v := map[string]any{"domain": "example.com", "ssl": true}

	var js bytes.Buffer
	require.NoError(t, JSON(&js, v))
	assert.Equal(t, "{\n  \"domain\": \"example.com\",\n  \"ssl\": true\n}\n", js.String())

	var ys bytes.Buffer
	require.NoError(t, YAML(&ys, v))
	assert.Equal(t, "domain: example.com\nssl: true\n", ys.String())
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	tw := Table(&buf)
	fmt.Fprintln(tw, "ID\tDOMAIN")
	fmt.Fprintln(tw, "1\texample.com")
	require.NoError(t, tw.Flush())

	assert.Equal(t, "ID  DOMAIN\n1   example.com\n", buf.String())
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer

	Warn(&buf, "insecure %s", "mode")

	assert.Equal(t, "Warning: insecure mode\n", buf.String())
}
