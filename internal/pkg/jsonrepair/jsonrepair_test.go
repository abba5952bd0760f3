package jsonrepair

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripflow/tripflow/internal/app/models"
)

func TestExtract(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{
			name: "plain object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "object wrapped in prose",
			raw:  `Sure! Here is your plan: {"a":1} Enjoy your trip!`,
			want: `{"a":1}`,
		},
		{
			name: "markdown fenced",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name:    "no braces",
			raw:     "the AI is unavailable right now",
			wantErr: models.ErrNoJSONFound,
		},
		{
			name:    "closing brace before opening",
			raw:     "} nothing here {",
			wantErr: models.ErrNoJSONFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Extract(tc.raw)
			if tc.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tc.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	got, err := Parse(`Of course. {"summary":"ok","durationDays":3} Anything else?`)
	require.NoError(t, err)
	assert.Equal(t, "ok", got["summary"])
	assert.Equal(t, float64(3), got["durationDays"])
}

func TestParseRepairsDefects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string]any
	}{
		{
			name: "single quotes and trailing comma",
			raw:  `{'summary': 'ok', 'durationDays': 3,}`,
			want: map[string]any{"summary": "ok", "durationDays": float64(3)},
		},
		{
			name: "bare keys",
			raw:  `{summary: "ok", durationDays: 3}`,
			want: map[string]any{"summary": "ok", "durationDays": float64(3)},
		},
		{
			name: "model chatter with mixed defects",
			raw:  "Sure! {\"summary\":'ok', durationDays: 3,}",
			want: map[string]any{"summary": "ok", "durationDays": float64(3)},
		},
		{
			name: "curly quotes",
			raw:  `{“summary”: “ok”}`,
			want: map[string]any{"summary": "ok"},
		},
		{
			name: "trailing comma in array",
			raw:  `{"tags": ["beach", "culture",]}`,
			want: map[string]any{"tags": []any{"beach", "culture"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Parse(tc.raw)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestParseUnrepairable(t *testing.T) {
	_, err := Parse(`{"summary": }`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, models.ErrUnparsableJSON))
}

func TestParseDoesNotTouchValidPayloads(t *testing.T) {
	// A valid payload containing text that the repair passes would mangle
	// must parse untouched.
	got, err := Parse(`{"note": "meet at 10:00", "url": "https://example.com"}`)
	require.NoError(t, err)
	assert.Equal(t, "meet at 10:00", got["note"])
	assert.Equal(t, "https://example.com", got["url"])
}

func TestRepairPasses(t *testing.T) {
	assert.Equal(t, `"day": 1`, QuoteBareKeys(`day: 1`))
	assert.Equal(t, `"a" "b"`, NormalizeQuotes(`'a' “b”`))
	assert.Equal(t, `[1,2]}`, StripTrailingCommas(`[1,2,],}`))
	assert.Equal(t, `a b c`, CollapseWhitespace("a \n\t b  c"))
}

func TestDecodeInto(t *testing.T) {
	var out struct {
		Summary      string `json:"summary"`
		DurationDays int    `json:"durationDays"`
	}
	err := DecodeInto("Here you go:\n```json\n{summary: 'three days in Goa', durationDays: 3}\n```", &out)
	require.NoError(t, err)
	assert.Equal(t, "three days in Goa", out.Summary)
	assert.Equal(t, 3, out.DurationDays)
}
