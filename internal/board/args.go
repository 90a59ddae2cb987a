package board

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command args arrive as decoded JSON: numbers are float64, arrays are []any.

func invalid(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgs, fmt.Sprintf(format, a...))
}

// Helper to get a required string.
func getString(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", invalid("missing required field: %s", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid("field %s must be a string", key)
	}
	return s, nil
}

// Helper to get a required, non-blank string, trimmed.
func getText(args map[string]any, key string) (string, error) {
	s, err := getString(args, key)
	if err != nil {
		return "", err
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", invalid("%s is required", key)
	}
	return s, nil
}

// Helper to get optional string.
func getStringOr(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", invalid("field %s must be a string", key)
	}
	return s, nil
}

// getStringPtr returns nil when key is absent. A JSON null yields a pointer
// to the empty string so callers can treat it as "clear".
func getStringPtr(args map[string]any, key string) (*string, error) {
	v, ok := args[key]
	if !ok {
		return nil, nil
	}
	if v == nil {
		empty := ""
		return &empty, nil
	}
	s, ok := v.(string)
	if !ok {
		return nil, invalid("field %s must be a string", key)
	}
	return &s, nil
}

// Helper to get optional int. The second return reports whether key was present;
// a present null yields (nil, true).
func getIntPtr(args map[string]any, key string) (*int, bool, error) {
	v, ok := args[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return nil, true, nil
	}
	f, ok := v.(float64)
	if !ok {
		return nil, true, invalid("field %s must be a number", key)
	}
	n := int(f)
	if n < 0 {
		return nil, true, invalid("field %s must not be negative", key)
	}
	return &n, true, nil
}

func getBoolPtr(args map[string]any, key string) (*bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	b, ok := v.(bool)
	if !ok {
		return nil, invalid("field %s must be a boolean", key)
	}
	return &b, nil
}

// getStrings reads an optional array of strings. Present is false when key is absent.
func getStrings(args map[string]any, key string) (out []string, present bool, err error) {
	v, ok := args[key]
	if !ok {
		return nil, false, nil
	}
	if v == nil {
		return []string{}, true, nil
	}
	switch xs := v.(type) {
	case []string:
		return append([]string{}, xs...), true, nil
	case []any:
		out = make([]string, 0, len(xs))
		for _, x := range xs {
			s, ok := x.(string)
			if !ok {
				return nil, true, invalid("field %s must be an array of strings", key)
			}
			out = append(out, s)
		}
		return out, true, nil
	default:
		return nil, true, invalid("field %s must be an array of strings", key)
	}
}

// decodeArg re-encodes args[key] and decodes it into dst.
func decodeArg(args map[string]any, key string, dst any) error {
	v, ok := args[key]
	if !ok {
		return invalid("missing required field: %s", key)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return invalid("field %s: %v", key, err)
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return invalid("field %s: %v", key, err)
	}
	return nil
}
