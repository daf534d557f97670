package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTerm(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Term
		wantErr bool
	}{
		{name: "forever", input: "forever", want: Term{Forever: true}},
		{name: "forever uppercase", input: "FOREVER", want: Term{Forever: true}},
		{name: "seconds short", input: "45s", want: Term{Seconds: 45}},
		{name: "seconds word", input: "45 seconds", want: Term{Seconds: 45}},
		{name: "minutes short", input: "5m", want: Term{Seconds: 300}},
		{name: "minutes min", input: "5min", want: Term{Seconds: 300}},
		{name: "minutes word", input: "5 minutes", want: Term{Seconds: 300}},
		{name: "hours", input: "2h", want: Term{Seconds: 7200}},
		{name: "hour word", input: "1hour", want: Term{Seconds: 3600}},
		{name: "days", input: "3d", want: Term{Seconds: 259200}},
		{name: "weeks", input: "1w", want: Term{Seconds: 604800}},
		{name: "month fixed 30 days", input: "1month", want: Term{Seconds: 2592000}},
		{name: "months plural", input: "2 months", want: Term{Seconds: 5184000}},
		{name: "year fixed 365 days", input: "1y", want: Term{Seconds: 31536000}},
		{name: "whitespace between", input: "30 d", want: Term{Seconds: 2592000}},
		{name: "surrounding whitespace", input: "  7d  ", want: Term{Seconds: 604800}},
		{name: "empty", input: "", wantErr: true},
		{name: "no unit", input: "42", wantErr: true},
		{name: "no amount", input: "d", wantErr: true},
		{name: "unknown unit", input: "3fortnights", wantErr: true},
		{name: "negative", input: "-3d", wantErr: true},
		{name: "garbage", input: "soon", wantErr: true},
		{name: "overflows int64 seconds", input: "999999999999999y", wantErr: true},
		{name: "amount beyond int64", input: "99999999999999999999m", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTerm(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTermString(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{45, "45 seconds"},
		{60, "1 minute"},
		{300, "5 minutes"},
		{3600, "1 hour"},
		{86400, "1 day"},
		{90000, "1 day"}, // truncating display, not exact
		{604800, "1 week"},
		{2592000, "1 month"},
		{31536000, "1 year"},
		{63072000, "2 years"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, Term{Seconds: tt.seconds}.String())
		})
	}

	assert.Equal(t, "forever", Term{Forever: true}.String())
}

// Formatting buckets a term into its largest whole unit; re-parsing the
// rendered string must land in the same bucket.
func TestTermRoundTrip(t *testing.T) {
	inputs := []string{"45s", "1m", "90m", "2h", "36h", "3d", "10d", "1w", "5w", "1month", "14month", "1y", "3y", "forever"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			first, err := ParseTerm(input)
			require.NoError(t, err)

			second, err := ParseTerm(first.String())
			require.NoError(t, err)

			assert.Equal(t, second.String(), first.String())
			assert.Equal(t, second.Forever, first.Forever)
		})
	}
}

func TestTermJSON(t *testing.T) {
	t.Run("forever is null", func(t *testing.T) {
		data, err := json.Marshal(Term{Forever: true})
		require.NoError(t, err)
		assert.Equal(t, "null", string(data))

		var back Term
		require.NoError(t, json.Unmarshal(data, &back))
		assert.True(t, back.Forever)
	})

	t.Run("seconds round-trip", func(t *testing.T) {
		data, err := json.Marshal(Term{Seconds: 3600})
		require.NoError(t, err)
		assert.Equal(t, "3600", string(data))

		var back Term
		require.NoError(t, json.Unmarshal(data, &back))
		assert.Equal(t, Term{Seconds: 3600}, back)
	})
}
