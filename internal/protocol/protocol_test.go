package protocol

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRequestRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	req := Request{Op: OpSet, Key: "k", Value: "v"}
	require.NoError(t, WriteMessage(&buf, req))

	var got Request
	require.NoError(t, ReadMessage(&buf, &got))
	require.Equal(t, req, got)
}

func TestResponseRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	resp := Response{Status: StatusOkValue, HasValue: true, Value: "v1"}
	require.NoError(t, WriteMessage(&buf, resp))

	var got Response
	require.NoError(t, ReadMessage(&buf, &got))
	require.Equal(t, resp, got)
}

func TestReadMessageOnEmptyStreamReturnsEOF(t *testing.T) {
	var buf bytes.Buffer
	var got Request
	err := ReadMessage(&buf, &got)
	require.ErrorIs(t, err, io.EOF)
}

func TestMultipleFramesOnSameStream(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, Request{Op: OpGet, Key: "a"}))
	require.NoError(t, WriteMessage(&buf, Request{Op: OpRemove, Key: "b"}))

	var first, second Request
	require.NoError(t, ReadMessage(&buf, &first))
	require.NoError(t, ReadMessage(&buf, &second))
	require.Equal(t, Request{Op: OpGet, Key: "a"}, first)
	require.Equal(t, Request{Op: OpRemove, Key: "b"}, second)
}
