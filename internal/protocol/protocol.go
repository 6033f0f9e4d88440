// Package protocol implements the wire format clients use to talk to the
// server: an 8-byte big-endian length prefix followed by a
// binary-serialized Request or Response (spec section 6.3). Frames are
// encoded with msgpack rather than hand-rolled binary packing, the same
// choice the rest of the Go commit-log ecosystem reaches for when it needs
// a compact, schema-free binary envelope.
package protocol

import (
	"encoding/binary"
	"io"

	"github.com/hashicorp/go-msgpack/v2/codec"

	kverrors "github.com/ignitedb/ignite/pkg/errors"
)

var msgpackHandle = &codec.MsgpackHandle{}

// RequestOp names which operation a Request carries.
type RequestOp string

const (
	OpGet    RequestOp = "get"
	OpSet    RequestOp = "set"
	OpRemove RequestOp = "remove"
)

// Request is a single client call: Get and Remove carry only a key, Set
// carries a key and a value.
type Request struct {
	Op    RequestOp `codec:"op"`
	Key   string    `codec:"key"`
	Value string    `codec:"value,omitempty"`
}

// ResponseStatus names which Response variant a frame carries.
type ResponseStatus string

const (
	StatusOkValue          ResponseStatus = "ok_value"
	StatusOkNoContent      ResponseStatus = "ok_no_content"
	StatusErrorKeyNotFound ResponseStatus = "error_key_not_found"
	StatusErrorUnknown     ResponseStatus = "error_unknown"
)

// Response is the server's reply to a Request. Value is only meaningful
// when Status is StatusOkValue and HasValue is true (a Get that found
// nothing sets HasValue false, mirroring Option<String>); Message carries
// detail for StatusErrorUnknown.
type Response struct {
	Status   ResponseStatus `codec:"status"`
	HasValue bool           `codec:"hasValue,omitempty"`
	Value    string         `codec:"value,omitempty"`
	Message  string         `codec:"message,omitempty"`
}

const maxFrameSize = 64 * 1024 * 1024

// WriteMessage encodes v with msgpack and writes it to w as an 8-byte
// big-endian length prefix followed by the payload.
func WriteMessage(w io.Writer, v any) error {
	var body []byte
	enc := codec.NewEncoderBytes(&body, msgpackHandle)
	if err := enc.Encode(v); err != nil {
		return kverrors.NewDecodeError(err, "failed to encode frame payload")
	}

	var lenBuf [8]byte
	binary.BigEndian.PutUint64(lenBuf[:], uint64(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return kverrors.NewIOError(err, "failed to write frame length prefix")
	}
	if _, err := w.Write(body); err != nil {
		return kverrors.NewIOError(err, "failed to write frame payload")
	}
	return nil
}

// ReadMessage reads one length-prefixed msgpack frame from r and decodes it
// into v, which must be a pointer to a Request or Response.
func ReadMessage(r io.Reader, v any) error {
	var lenBuf [8]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return err
	}
	size := binary.BigEndian.Uint64(lenBuf[:])
	if size > maxFrameSize {
		return kverrors.NewDecodeError(nil, "frame exceeds maximum allowed size")
	}

	body := make([]byte, size)
	if _, err := io.ReadFull(r, body); err != nil {
		return kverrors.NewIOError(err, "failed to read frame payload")
	}

	dec := codec.NewDecoderBytes(body, msgpackHandle)
	if err := dec.Decode(v); err != nil {
		return kverrors.NewDecodeError(err, "failed to decode frame payload")
	}
	return nil
}
