package disk

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Text is a string field that also accepts JSON numbers and booleans.
// null decodes to the empty string.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	if len(data) > 0 && (data[0] == '{' || data[0] == '[') {
		return fmt.Errorf("expected text, got %s", kindOf(data))
	}
	*t = Text(data)
	return nil
}

// String returns the text.
func (t Text) String() string { return string(t) }

// Flag is a boolean field that also accepts "true"/"false", "on"/"off" and
// numbers. Anything it cannot interpret is false.
type Flag bool

func (f *Flag) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("true")):
		*f = true
	case bytes.Equal(data, []byte("false")), bytes.Equal(data, []byte("null")):
		*f = false
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "on", "yes", "1", "enabled":
			*f = true
		default:
			*f = false
		}
	default:
		n, err := strconv.ParseFloat(string(data), 64)
		*f = Flag(err == nil && n != 0)
	}
	return nil
}

// Number is a numeric field for informational values. Anything that is not
// a number (or a numeric string) decodes to 0.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	text := string(bytes.TrimSpace(data))
	if strings.HasPrefix(text, `"`) {
		_ = json.Unmarshal(data, &text)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		v = 0
	}
	*n = Number(v)
	return nil
}

// Size holds the raw JSON value of the size field. It is decoded lazily so
// that an unusable value surfaces during analysis rather than as an input
// error: the host treats a bad size as an analysis failure.
type Size struct {
	raw json.RawMessage
}

// SizeOf returns a Size holding n bytes.
func SizeOf(n uint64) Size {
	return Size{raw: json.RawMessage(strconv.FormatUint(n, 10))}
}

func (s *Size) UnmarshalJSON(data []byte) error {
	s.raw = append(s.raw[:0], bytes.TrimSpace(data)...)
	return nil
}

func (s Size) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("0"), nil
	}
	return s.raw, nil
}

// Bytes returns the size in bytes. A missing or null size is 0. Only a
// JSON number is a size; strings, even numeric ones, are rejected.
func (s Size) Bytes() (float64, error) {
	raw := bytes.TrimSpace(s.raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}
	if kind := kindOf(raw); kind != "number" {
		return 0, fmt.Errorf("size must be a number, got %s %s", kind, raw)
	}
	n, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("size %s is not a number", raw)
	}
	if n < 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("size %s is out of range", raw)
	}
	return n, nil
}

func kindOf(data []byte) string {
	if len(data) == 0 {
		return "nothing"
	}
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	case 'n':
		return "null"
	default:
		return "number"
	}
}
