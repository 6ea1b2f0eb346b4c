package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	ContentType() string
}

// JSON encodes without HTML escaping and decodes strictly: unknown fields
// and anything after the first value are errors. Indent, when set, is
// applied per nesting level.
type JSON struct {
	Indent string
}

var (
	JSONStrict   Codec = JSON{}
	JSONIndented Codec = JSON{Indent: "  "}
)

var errTrailing = errors.New("json: trailing content after value")

func (j JSON) Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", j.Indent)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("json encode: %w", err)
	}
	// Encode always terminates with a newline; callers add their own.
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

func (JSON) Unmarshal(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("json decode: %w", err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return errTrailing
	}
	return nil
}

func (JSON) ContentType() string { return "application/json" }
