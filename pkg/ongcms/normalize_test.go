package ongcms_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vereda-ong/vereda-api/pkg/ongcms"
)

func TestNormalizeArrayFields(t *testing.T) {
	schema := ongcms.FieldSchema{"tags": ongcms.FieldJSONArray}

	tests := []struct {
		name  string
		value any
		want  []any
	}{
		{
			name:  "json array string",
			value: `["education","health"]`,
			want:  []any{"education", "health"},
		},
		{
			name:  "comma separated fallback",
			value: "education, health ,environment",
			want:  []any{"education", "health", "environment"},
		},
		{
			name:  "single value without separator",
			value: "education",
			want:  []any{"education"},
		},
		{
			name:  "already a list passes through",
			value: []any{"education"},
			want:  []any{"education"},
		},
		{
			name:  "scalar non-string becomes single-element list",
			value: float64(7),
			want:  []any{float64(7)},
		},
		{
			name:  "empty string yields empty list",
			value: "",
			want:  []any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ongcms.Normalize(map[string]any{"tags": tt.value}, schema)
			assert.Equal(t, tt.want, got["tags"])
		})
	}
}

func TestNormalizeObjectField(t *testing.T) {
	schema := ongcms.FieldSchema{"relatedTo": ongcms.FieldJSONObject}

	t.Run("json object string", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{
			"relatedTo": `{"type":"project","refId":"abc"}`,
		}, schema)
		assert.Equal(t, map[string]any{"type": "project", "refId": "abc"}, got["relatedTo"])
	})

	t.Run("unparseable string is kept as-is", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"relatedTo": "not json"}, schema)
		assert.Equal(t, "not json", got["relatedTo"])
	})

	t.Run("already a map passes through", func(t *testing.T) {
		value := map[string]any{"type": "event", "refId": "xyz"}
		got := ongcms.Normalize(map[string]any{"relatedTo": value}, schema)
		assert.Equal(t, value, got["relatedTo"])
	})
}

func TestNormalizeDateField(t *testing.T) {
	schema := ongcms.FieldSchema{"startDate": ongcms.FieldDate}

	tests := []struct {
		name  string
		value string
		want  time.Time
	}{
		{
			name:  "rfc3339",
			value: "2024-03-15T10:30:00Z",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:  "date only",
			value: "2024-03-15",
			want:  time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:  "date and time",
			value: "2024-03-15 10:30:00",
			want:  time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ongcms.Normalize(map[string]any{"startDate": tt.value}, schema)
			parsed, ok := got["startDate"].(time.Time)
			require.True(t, ok, "expected a time.Time, got %T", got["startDate"])
			assert.True(t, tt.want.Equal(parsed))
		})
	}

	t.Run("unparseable date is kept as-is", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"startDate": "next tuesday"}, schema)
		assert.Equal(t, "next tuesday", got["startDate"])
	})

	t.Run("empty string is kept as-is", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"startDate": ""}, schema)
		assert.Equal(t, "", got["startDate"])
	})
}

func TestNormalizeNumberField(t *testing.T) {
	schema := ongcms.FieldSchema{"order": ongcms.FieldNumber}

	t.Run("numeric string", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"order": " 3 "}, schema)
		assert.Equal(t, float64(3), got["order"])
	})

	t.Run("non-numeric string is kept as-is", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"order": "first"}, schema)
		assert.Equal(t, "first", got["order"])
	})

	t.Run("number passes through", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"order": float64(5)}, schema)
		assert.Equal(t, float64(5), got["order"])
	})
}

func TestNormalizeDeletedImages(t *testing.T) {
	t.Run("json list string", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{
			"deletedImages": `["https://cdn.example.org/a.jpg"]`,
		}, nil)
		assert.Equal(t, []any{"https://cdn.example.org/a.jpg"}, got["deletedImages"])
	})

	t.Run("unparseable string becomes empty list", func(t *testing.T) {
		got := ongcms.Normalize(map[string]any{"deletedImages": "oops"}, nil)
		assert.Equal(t, []any{}, got["deletedImages"])
	})

	t.Run("list passes through", func(t *testing.T) {
		value := []any{"https://cdn.example.org/a.jpg"}
		got := ongcms.Normalize(map[string]any{"deletedImages": value}, nil)
		assert.Equal(t, value, got["deletedImages"])
	})
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := map[string]any{
		"tags":  `["a"]`,
		"title": "Annual report",
	}
	got := ongcms.Normalize(raw, ongcms.FieldSchema{"tags": ongcms.FieldJSONArray})

	assert.Equal(t, `["a"]`, raw["tags"])
	assert.Equal(t, []any{"a"}, got["tags"])
	assert.Equal(t, "Annual report", got["title"])
}

func TestNormalizeUnknownFieldsPassThrough(t *testing.T) {
	got := ongcms.Normalize(map[string]any{"custom": "value"}, ongcms.FieldSchema{
		"tags": ongcms.FieldJSONArray,
	})
	assert.Equal(t, "value", got["custom"])
	assert.NotContains(t, got, "tags")
}
