package repository

import (
	"encoding/json"
	"fmt"
)

// marshalStrings encodes a string slice as JSON for TEXT column storage.
// nil encodes as an empty array so reads never produce NULL surprises.
func marshalStrings(v []string) (string, error) {
	if v == nil {
		v = []string{}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("encoding string list: %w", err)
	}
	return string(b), nil
}

// unmarshalStrings decodes a JSON TEXT column back into a string slice.
func unmarshalStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, fmt.Errorf("decoding string list: %w", err)
	}
	return out, nil
}
