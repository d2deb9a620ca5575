package pkgjson

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Angler walks a JSON stream token by token down a dotted key path, e.g. ".scripts.start",
// without decoding the parts of the document it does not need.
type Angler struct {
	dec         *json.Decoder
	keys        []string
	currentPath strings.Builder
}

var (
	ErrInvalidPath  = errors.New("invalid key path")
	ErrPathNotFound = errors.New("key path not found")
	ErrNotScalar    = errors.New("value is not a scalar")
)

func isDelim(t json.Token, delims ...json.Delim) bool {
	d, ok := t.(json.Delim)
	if !ok {
		return false
	}

	for _, want := range delims {
		if d == want {
			return true
		}
	}

	return false
}

// Non-nil returned error wraps [ErrInvalidPath].
func NewAngler(stream io.Reader, path string) (*Angler, error) {
	if !strings.HasPrefix(path, ".") {
		return nil, fmt.Errorf(`%w: %q must start with the dot character "."`, ErrInvalidPath, path)
	}

	if strings.HasSuffix(path, ".") {
		return nil, fmt.Errorf(`%w: %q must not end with the dot character "."`, ErrInvalidPath, path)
	}

	return &Angler{dec: json.NewDecoder(stream), keys: strings.Split(path, ".")[1:]}, nil
}

// Land returns the scalar value at the angler's path.
// A missing key or a non-object along the way wraps [ErrPathNotFound];
// an object or array at the end of the path wraps [ErrNotScalar].
func (a *Angler) Land(ctx context.Context) (value any, err error) {
	a.currentPath.WriteString(".")

	for _, key := range a.keys {
		if err = a.toTargetKey(ctx, key); err != nil {
			return nil, err
		}
	}

	return a.getValue()
}

func (a *Angler) toTargetKey(ctx context.Context, key string) (err error) {
	var t json.Token

	if t, err = a.dec.Token(); err != nil {
		return err
	} else if !isDelim(t, '{') {
		return fmt.Errorf("%w: the value at path %q is not a JSON object", ErrPathNotFound, a.currentPath.String())
	}

	if key == "" || strings.Contains(key, " ") {
		a.currentPath.WriteString(`"` + key + `"`)
	} else {
		a.currentPath.WriteString(key)
	}

	done := ctx.Done()

	// the last token; it always starts with '{'
	last := t
	// nesting relative to the object being searched; -1 before its first member
	level := -1
	// level-zero tokens seen so far; odd counts are member names
	count := 0

	for level > 0 || a.dec.More() {
		select {
		case <-done:
			return fmt.Errorf("failed to find target key %q in time: %w", a.currentPath.String(), context.Cause(ctx))
		default:
		}

		if t, err = a.dec.Token(); err != nil {
			return err
		}

		if isDelim(last, '{', '[') {
			level += 1
		}

		if isDelim(last, '}', ']') {
			level -= 1
		}

		if level == 0 {
			count += 1
		}

		if s, ok := t.(string); ok && level == 0 && count%2 == 1 && s == key {
			a.currentPath.WriteString(".")

			return nil
		}

		last = t
	}

	return fmt.Errorf("%w: %q", ErrPathNotFound, strings.TrimSuffix(a.currentPath.String(), "."))
}

func (a *Angler) getValue() (t json.Token, err error) {
	t, err = a.dec.Token()
	if err != nil {
		return nil, err
	}

	if d, ok := t.(json.Delim); ok {
		return nil, fmt.Errorf("%w: the value at path %q is the delimiter %v", ErrNotScalar, strings.TrimSuffix(a.currentPath.String(), "."), d)
	}

	return t, nil
}

// LookupString lands on path inside data and requires the value to be a JSON string.
func LookupString(ctx context.Context, data []byte, path string) (string, error) {
	angler, err := NewAngler(bytes.NewReader(data), path)
	if err != nil {
		return "", err
	}

	v, err := angler.Land(ctx)
	if err != nil {
		return "", err
	}

	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("the value at the %q path is not string", path)
	}

	return s, nil
}
