package repo

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// encode converts a record value to compact JSON TEXT for storage.
// HTML escaping is disabled so stored text matches what the browser app
// writes for the same records (< > & are kept literal).
func encode(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

// decode parses stored JSON TEXT into dst.
// Empty text is treated as an absent value and leaves dst untouched.
func decode(key, data string, dst any) error {
	if strings.TrimSpace(data) == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), dst); err != nil {
		return &DecodeError{Key: key, Err: err}
	}
	return nil
}

// DecodeError reports a stored value that is not valid for its collection.
// This can only happen after an unchecked snapshot import or manual edits.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
