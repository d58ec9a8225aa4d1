package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHeaderRows_Map(t *testing.T) {
	tests := []struct {
		name string
		rows HeaderRows
		want map[string]string
	}{
		{
			name: "blank key dropped",
			rows: HeaderRows{{Key: "X-Real-IP", Value: "$remote_addr"}, {Key: "", Value: "ignored"}},
			want: map[string]string{"X-Real-IP": "$remote_addr"},
		},
		{
			name: "whitespace key dropped",
			rows: HeaderRows{{Key: "   ", Value: "ignored"}},
			want: map[string]string{},
		},
		{
			name: "keys trimmed",
			rows: HeaderRows{{Key: "  Host ", Value: "example.com"}},
			want: map[string]string{"Host": "example.com"},
		},
		{
			name: "values trimmed",
			rows: HeaderRows{{Key: "X-Real-IP", Value: "  $remote_addr  "}},
			want: map[string]string{"X-Real-IP": "$remote_addr"},
		},
		{
			name: "last occurrence wins",
			rows: HeaderRows{{Key: "X-A", Value: "1"}, {Key: "X-A ", Value: "2"}},
			want: map[string]string{"X-A": "2"},
		},
		{
			name: "empty",
			rows: nil,
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.rows.Map())
		})
	}
}

func TestHeaderRows_AppendThenRemoveIsIdentity(t *testing.T) {
	rows := HeaderRows{{Key: "X-Forwarded-Proto", Value: "https"}}
	before := rows.Map()

	edited := rows.Append()
	edited = edited.Set(1, "X-Temp", "1")
	edited = edited.Remove(1)

	assert.Equal(t, before, edited.Map())
	assert.Len(t, edited, 1)
}

func TestHeaderRows_OutOfRange(t *testing.T) {
	rows := HeaderRows{{Key: "A", Value: "1"}}

	assert.Equal(t, rows, rows.Remove(5))
	assert.Equal(t, rows, rows.Remove(-1))
	assert.Equal(t, rows, rows.Set(3, "B", "2"))
}

func TestHeaderRows_SetDoesNotAlias(t *testing.T) {
	rows := HeaderRows{{Key: "A", Value: "1"}}
	changed := rows.Set(0, "B", "2")

	assert.Equal(t, "A", rows[0].Key)
	assert.Equal(t, "B", changed[0].Key)
}

func TestRowsFromMap_Sorted(t *testing.T) {
	rows := RowsFromMap(map[string]string{"b": "2", "a": "1", "c": "3"})

	assert.Equal(t, HeaderRows{{"a", "1"}, {"b", "2"}, {"c", "3"}}, rows)
}

func TestSite_PayloadCopiesHeaders(t *testing.T) {
	s := Site{ID: "1", Domain: "example.com", ProxyHeaders: map[string]string{"A": "1"}}
	p := s.Payload()
	p.ProxyHeaders["A"] = "changed"

	assert.Equal(t, "1", s.ProxyHeaders["A"])
	assert.Equal(t, "example.com", p.Domain)
}

func TestHeaderSummary(t *testing.T) {
	assert.Equal(t, "A=1, B=2", HeaderSummary(map[string]string{"B": "2", "A": "1"}))
	assert.Equal(t, "", HeaderSummary(nil))
}
