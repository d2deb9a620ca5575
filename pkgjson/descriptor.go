// Package pkgjson reads and rewrites package.json style descriptors.
//
// Rewrites keep every member other than "name" byte for byte in value and in
// original order; only layout is normalized to two-space indentation.
package pkgjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	FileName = "package.json"

	indent = "  "
)

var ErrMalformed = errors.New("malformed descriptor")

type Descriptor struct {
	members *orderedmap.OrderedMap[string, json.RawMessage]
	newline bool
}

// Non-nil returned error wraps [ErrMalformed].
func Parse(data []byte) (*Descriptor, error) {
	trimmed := bytes.TrimSpace(data)

	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: not valid JSON", ErrMalformed)
	}

	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, fmt.Errorf("%w: top-level value is not a JSON object", ErrMalformed)
	}

	d := Descriptor{
		members: orderedmap.New[string, json.RawMessage](),
		newline: bytes.HasSuffix(data, []byte("\n")),
	}

	if err := json.Unmarshal(trimmed, d.members); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	return &d, nil
}

// Name returns the current "name" member, or "" if it is absent or not a string.
func (d *Descriptor) Name() string {
	raw, ok := d.members.Get("name")
	if !ok {
		return ""
	}

	var name string

	if err := json.Unmarshal(raw, &name); err != nil {
		return ""
	}

	return name
}

// SetName overwrites "name" in place, or appends it when the descriptor has none.
func (d *Descriptor) SetName(name string) error {
	raw, err := marshalNoEscape(name)
	if err != nil {
		return fmt.Errorf("failed to encode name %q: %w", name, err)
	}

	d.members.Set("name", raw)

	return nil
}

func (d *Descriptor) Keys() []string {
	keys := make([]string, 0, d.members.Len())

	for pair := d.members.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}

	return keys
}

func (d *Descriptor) Marshal() ([]byte, error) {
	var compact bytes.Buffer

	compact.WriteByte('{')

	for pair := d.members.Oldest(); pair != nil; pair = pair.Next() {
		if compact.Len() > 1 {
			compact.WriteByte(',')
		}

		key, err := marshalNoEscape(pair.Key)
		if err != nil {
			return nil, fmt.Errorf("failed to encode key %q: %w", pair.Key, err)
		}

		compact.Write(key)
		compact.WriteByte(':')
		compact.Write(pair.Value)
	}

	compact.WriteByte('}')

	var out bytes.Buffer

	if err := json.Indent(&out, compact.Bytes(), "", indent); err != nil {
		return nil, fmt.Errorf("failed to indent descriptor: %w", err)
	}

	if d.newline {
		out.WriteByte('\n')
	}

	return out.Bytes(), nil
}

// StartCommand picks the command that starts the project described by data.
func StartCommand(ctx context.Context, data []byte) string {
	if _, err := LookupString(ctx, data, ".scripts.start"); err == nil {
		return "npm start"
	}

	if _, err := LookupString(ctx, data, ".scripts.dev"); err == nil {
		return "npm run dev"
	}

	return "npm start"
}

func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(v); err != nil {
		return nil, err
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
