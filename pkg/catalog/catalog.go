// Package catalog talks to a firmware distribution origin serving a
// three-level tree: devices at the root, firmware versions under each
// device, and dataset files under each device+firmware pair.
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Entry is one row of a device or firmware listing.
type Entry struct {
	Name string `json:"name"`
}

// ParseError covers malformed or unexpectedly shaped catalog JSON.
// Index is the offending array element, or -1 when the whole payload is
// bad.
type ParseError struct {
	Index int
	Err   error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("parse catalog: %v", e.Err)
	}
	return fmt.Sprintf("parse catalog: element %d: %v", e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ParseCatalog decodes a JSON array of objects carrying a "name" field.
// Array order and duplicate names are preserved. An element with a
// missing, empty or non-string name fails the whole parse; a silently
// shortened catalog would hide devices from the picker.
func ParseCatalog(data []byte) ([]Entry, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, &ParseError{Index: -1, Err: fmt.Errorf("top-level value is not an array")}
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, &ParseError{Index: -1, Err: err}
	}

	entries := make([]Entry, 0, len(elems))
	for i, raw := range elems {
		var elem struct {
			Name any `json:"name"`
		}
		if err := json.Unmarshal(raw, &elem); err != nil {
			return nil, &ParseError{Index: i, Err: err}
		}
		name, ok := elem.Name.(string)
		if !ok {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("missing or non-string name")}
		}
		if name == "" {
			return nil, &ParseError{Index: i, Err: fmt.Errorf("empty name")}
		}
		entries = append(entries, Entry{Name: name})
	}
	return entries, nil
}

// Names flattens entries for presentation to a selector.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// NormalizeText converts a possibly BOM-prefixed or UTF-16 payload to
// plain UTF-8. Some vendor tooling exports JSON with a BOM, which the
// stdlib decoder rejects.
func NormalizeText(data []byte) ([]byte, error) {
	decoder := unicode.UTF8.NewDecoder()
	reader := transform.NewReader(bytes.NewReader(data), unicode.BOMOverride(decoder))
	return io.ReadAll(reader)
}
