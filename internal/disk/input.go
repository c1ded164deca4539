package disk

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrInvalidInput marks input that cannot be analyzed at all: malformed JSON
// or a top-level value that is not an object.
var ErrInvalidInput = errors.New("invalid input")

// ParseInfo decodes a DiskInfo record. The returned warnings list
// recommended keys that were missing; they do not stop the analysis.
func ParseInfo(data []byte) (Info, []string, error) {
	fields, err := decodeObject(data, "disk info")
	if err != nil {
		return Info{}, nil, err
	}

	var warnings []string
	for _, key := range RecommendedKeys {
		if _, ok := fields[key]; !ok {
			warnings = append(warnings, fmt.Sprintf("disk data may be incomplete: missing %q", key))
		}
	}

	var info Info
	if err := json.Unmarshal(data, &info); err != nil {
		return Info{}, nil, fmt.Errorf("%w: disk info: %v", ErrInvalidInput, err)
	}
	return info, warnings, nil
}

// ParseSystemContext decodes a SystemContext record. Empty input is treated
// as "{}".
func ParseSystemContext(data []byte) (SystemContext, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return SystemContext{}, nil
	}
	fields, err := decodeObject(data, "system context")
	if err != nil {
		return SystemContext{}, err
	}

	var sc SystemContext
	if err := json.Unmarshal(data, &sc); err != nil {
		return SystemContext{}, fmt.Errorf("%w: system context: %v", ErrInvalidInput, err)
	}
	if raw, ok := fields["platform"]; ok && kindOf(bytes.TrimSpace(raw)) != "null" {
		sc.platformSet = true
	}
	return sc, nil
}

// decodeObject checks that data is a single JSON object and returns its
// top-level keys.
func decodeObject(data []byte, what string) (map[string]json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: %s: empty input", ErrInvalidInput, what)
	}
	if trimmed[0] != '{' {
		if !json.Valid(trimmed) {
			return nil, fmt.Errorf("%w: %s: could not decode JSON", ErrInvalidInput, what)
		}
		return nil, fmt.Errorf("%w: %s: expected a JSON object, got %s", ErrInvalidInput, what, kindOf(trimmed))
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: could not decode JSON: %v", ErrInvalidInput, what, err)
	}
	return fields, nil
}
