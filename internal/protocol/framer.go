package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameLength guards against a corrupt or hostile length prefix causing
// an unbounded allocation.
const maxFrameLength = 64 * 1024 * 1024

// WriteFrame writes a 4-byte big-endian length prefix followed by payload.
func WriteFrame(w io.Writer, payload []byte) error {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(payload)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("protocol: write frame length: %w", err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("protocol: write frame payload: %w", err)
	}
	return nil
}

// ReadFrame reads one length-prefixed frame and returns its payload.
func ReadFrame(r io.Reader) ([]byte, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, fmt.Errorf("protocol: read frame length: %w", err)
	}
	length := binary.BigEndian.Uint32(lenBuf[:])
	if length > maxFrameLength {
		return nil, fmt.Errorf("protocol: frame length %d exceeds maximum %d", length, maxFrameLength)
	}
	payload := make([]byte, length)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("protocol: read frame payload: %w", err)
	}
	return payload, nil
}

// WriteMessage encodes msg and writes it as one frame.
func WriteMessage(w io.Writer, msg Message) error {
	payload, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("protocol: encode message: %w", err)
	}
	return WriteFrame(w, payload)
}

// ReadResponse reads one frame and decodes it as a Response.
func ReadResponse(r io.Reader) (Response, error) {
	payload, err := ReadFrame(r)
	if err != nil {
		return Response{}, err
	}
	return DecodeResponse(payload)
}
