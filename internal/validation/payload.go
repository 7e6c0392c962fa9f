// Package validation checks request payloads before any store access.
package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Payload is a decoded JSON object body. Only string members are accepted.
type Payload struct {
	fields map[string]string
	keys   int
}

// ParsePayload decodes body. An empty body or a JSON null yields an empty
// Payload. Anything other than a JSON object of strings and nulls is an error.
func ParsePayload(body []byte) (Payload, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return Payload{}, nil
	}

	var raw map[string]any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Payload{}, fmt.Errorf("decode payload: %w", err)
	}

	p := Payload{fields: make(map[string]string, len(raw)), keys: len(raw)}
	for key, value := range raw {
		switch v := value.(type) {
		case nil:
		case string:
			p.fields[key] = v
		default:
			return Payload{}, fmt.Errorf("decode payload: field %q must be a string", key)
		}
	}
	return p, nil
}

// NewPayload builds a Payload from already-decoded fields.
func NewPayload(fields map[string]string) Payload {
	p := Payload{fields: make(map[string]string, len(fields)), keys: len(fields)}
	for k, v := range fields {
		p.fields[k] = v
	}
	return p
}

// Empty reports whether no data was sent at all.
func (p Payload) Empty() bool {
	return p.keys == 0
}

// Get returns the named field when it was supplied with a non-empty value.
func (p Payload) Get(name string) (string, bool) {
	v, ok := p.fields[name]
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
