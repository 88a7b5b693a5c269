package store

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// marshalErrors converts assertion messages to JSON TEXT for storage.
// HTML escaping is disabled so messages are stored as written.
func marshalErrors(errs []string) (string, error) {
	if errs == nil {
		errs = []string{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(errs); err != nil {
		return "", fmt.Errorf("marshal errors: %w", err)
	}
	return string(bytes.TrimSpace(buf.Bytes())), nil
}

// unmarshalErrors is the inverse of marshalErrors. An empty list reads
// back as nil.
func unmarshalErrors(text string) ([]string, error) {
	var errs []string
	if err := json.Unmarshal([]byte(text), &errs); err != nil {
		return nil, fmt.Errorf("unmarshal errors: %w", err)
	}
	if len(errs) == 0 {
		return nil, nil
	}
	return errs, nil
}
