// Package codec defines the on-disk log record format: a JSON-encoded
// Command per append, one value per line in spirit (though not
// newline-delimited — length is derived from decoder offsets, not
// separators). JSON-per-record keeps the log human-inspectable and lets
// NewDecoder reuse encoding/json's own truncation detection instead of a
// hand-rolled framing scheme.
package codec

import (
	"bytes"
	"encoding/json"
	"io"
)

// Op identifies which mutation a Command represents.
type Op string

const (
	OpSet    Op = "set"
	OpRemove Op = "remove"
)

// Command is a single log record: a Set carries both key and value, a
// Remove carries only the key. Both variants live in one struct (rather
// than a discriminated union) because encoding/json has no native sum
// type — Value is simply empty on a Remove.
type Command struct {
	Op    Op     `json:"op"`
	Key   string `json:"key"`
	Value string `json:"value,omitempty"`
}

// SetCommand builds a Set record.
func SetCommand(key, value string) Command {
	return Command{Op: OpSet, Key: key, Value: value}
}

// RemoveCommand builds a Remove record.
func RemoveCommand(key string) Command {
	return Command{Op: OpRemove, Key: key}
}

// Encode serializes a Command to its on-disk bytes.
func Encode(cmd Command) ([]byte, error) {
	return json.Marshal(cmd)
}

// Decode parses a single Command from an exact byte slice, e.g. one read
// back via a locator's (offset, length).
func Decode(b []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(b, &cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// Decoder streams Commands out of a segment file during recovery, tracking
// the byte offset of each record so the caller can build index locators
// without re-scanning.
type Decoder struct {
	dec *json.Decoder
}

// NewDecoder wraps r for sequential Command decoding.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{dec: json.NewDecoder(r)}
}

// Offset returns the number of bytes consumed from the underlying reader so
// far, mirroring serde_json's Deserializer::byte_offset(): the position
// immediately after the most recently decoded record.
func (d *Decoder) Offset() int64 {
	return d.dec.InputOffset()
}

// More reports whether another record may be available. Mirrors
// json.Decoder.More.
func (d *Decoder) More() bool {
	return d.dec.More()
}

// Decode reads the next Command from the stream.
func (d *Decoder) Decode() (Command, error) {
	var cmd Command
	if err := d.dec.Decode(&cmd); err != nil {
		return Command{}, err
	}
	return cmd, nil
}

// DecodeAt decodes a single Command starting at offset within b, returning
// the command and the number of bytes it consumed — the length the caller
// should record in the index locator.
func DecodeAt(b []byte, offset int64) (Command, int64, error) {
	r := bytes.NewReader(b[offset:])
	dec := json.NewDecoder(r)
	var cmd Command
	if err := dec.Decode(&cmd); err != nil {
		return Command{}, 0, err
	}
	return cmd, dec.InputOffset(), nil
}
