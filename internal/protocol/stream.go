package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// maxFrameLength bounds a single frame to guard against a corrupt or
// malicious 4-byte length prefix forcing an unbounded allocation.
const maxFrameLength = 16 << 20 // 16 MiB

// WriteMessage frames m with a 4-byte network-order length prefix and
// writes it in full. A short write is treated as an error — the caller
// cannot retry a partial frame.
func WriteMessage(w io.Writer, m *Message) error {
	body := m.Serialize()

	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))

	if _, err := w.Write(lenBuf[:]); err != nil {
		return fmt.Errorf("protocol: write length prefix: %w", err)
	}
	if _, err := w.Write(body); err != nil {
		return fmt.Errorf("protocol: write frame body: %w", err)
	}
	return nil
}

// ReadMessage reads exactly one length-prefixed frame from r, blocking
// until the length and the full body have arrived. It is robust to the
// length, header, and payload arriving across multiple underlying reads,
// since io.ReadFull loops internally until the buffer is full or an error
// occurs.
func ReadMessage(r io.Reader) (*Message, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
		return nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n < HeaderSize || n > maxFrameLength {
		return nil, fmt.Errorf("protocol: implausible frame length %d", n)
	}

	body := make([]byte, n)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("protocol: read frame body: %w", err)
	}

	return Deserialize(body)
}
