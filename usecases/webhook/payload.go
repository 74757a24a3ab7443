package webhook

import (
	"time"

	"ghdash/core"
)

// Accessors for the loosely-typed payload maps decoded at the HTTP boundary.
// Everything is projected into typed values here; no raw map crosses into the
// service layer.

func asObject(v any) (map[string]any, bool) {
	obj, ok := v.(map[string]any)
	return obj, ok
}

func asString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// asInt64 accepts the numeric shapes JSON decoding produces for GitHub ids.
// Fractional floats are rejected - an id with a fraction is upstream garbage,
// not a rounding candidate.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		if n != float64(int64(n)) {
			return 0, false
		}
		return int64(n), true
	default:
		return 0, false
	}
}

// optionalString returns nil for absent, null, or empty values.
func optionalString(v any) *string {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	return &s
}

func stringOr(v any, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

// parseRequiredTime parses a strict RFC 3339 timestamp from obj[key].
// An absent value and a present-but-malformed value are distinct failures so
// the caller's response can tell a sender what exactly was wrong.
func parseRequiredTime(obj map[string]any, key string) (time.Time, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return time.Time{}, core.NewValidationError(core.CodeMissingDatetime, key+" is required")
	}
	s, ok := v.(string)
	if !ok {
		return time.Time{}, core.NewValidationError(core.CodeInvalidDatetime, key+" is not a string")
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, core.NewValidationError(core.CodeInvalidDatetime, key+" is not a valid RFC 3339 timestamp: "+s)
	}
	return parsed, nil
}

// parseOptionalTime is like parseRequiredTime but maps an absent or null
// value to nil ("not completed yet").
func parseOptionalTime(obj map[string]any, key string) (*time.Time, error) {
	v, ok := obj[key]
	if !ok || v == nil {
		return nil, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, core.NewValidationError(core.CodeInvalidDatetime, key+" is not a string")
	}
	parsed, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, core.NewValidationError(core.CodeInvalidDatetime, key+" is not a valid RFC 3339 timestamp: "+s)
	}
	return &parsed, nil
}
