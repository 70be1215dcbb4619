package ongcms

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// deletedImagesField is normalized for every entity regardless of schema:
// a string value is JSON-parsed into a list, and parse failure yields an
// empty list instead of an error.
const deletedImagesField = "deletedImages"

// Normalize converts loosely-typed form-submitted values into typed values
// per the entity's field schema. It is a pure function: the input map is
// never mutated and unrecognized fields pass through unchanged.
func Normalize(raw map[string]any, schema FieldSchema) map[string]any {
	normalized := make(map[string]any, len(raw))
	for k, v := range raw {
		normalized[k] = v
	}

	if s, ok := normalized[deletedImagesField].(string); ok {
		var parsed []any
		if err := json.Unmarshal([]byte(s), &parsed); err != nil {
			parsed = []any{}
		}
		normalized[deletedImagesField] = parsed
	}

	for field, kind := range schema {
		value, present := normalized[field]
		if !present {
			continue
		}
		switch kind {
		case FieldJSONArray:
			if s, ok := value.(string); ok {
				normalized[field] = parseArrayField(s)
			}
		case FieldJSONObject:
			if s, ok := value.(string); ok {
				var parsed map[string]any
				if err := json.Unmarshal([]byte(s), &parsed); err == nil {
					normalized[field] = parsed
				}
			}
		case FieldDate:
			if s, ok := value.(string); ok && s != "" {
				if t, err := parseDate(s); err == nil {
					normalized[field] = t
				}
			}
		case FieldNumber:
			if s, ok := value.(string); ok && s != "" {
				if n, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
					normalized[field] = n
				}
			}
		}
	}

	// Array fields holding a single scalar become single-element lists.
	for field, kind := range schema {
		if kind != FieldJSONArray {
			continue
		}
		value, present := normalized[field]
		if !present || value == nil {
			continue
		}
		if !isArray(value) {
			normalized[field] = []any{value}
		}
	}

	return normalized
}

// parseArrayField tries JSON first; anything that is not a JSON array falls
// back to comma splitting with trimmed, non-empty segments.
func parseArrayField(s string) []any {
	var parsed any
	if err := json.Unmarshal([]byte(s), &parsed); err == nil {
		if arr, ok := parsed.([]any); ok {
			return arr
		}
	}
	parts := strings.Split(s, ",")
	out := make([]any, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDate(s string) (time.Time, error) {
	layouts := []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04:05"}
	var err error
	for _, layout := range layouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func isArray(v any) bool {
	switch v.(type) {
	case []any, []string, []Attachment:
		return true
	}
	return false
}
