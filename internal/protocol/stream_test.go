package protocol

import (
	"bytes"
	"io"
	"testing"
)

func TestStreamFramingRoundTrip(t *testing.T) {
	t.Parallel()

	a := NewAuthRequest("1234567890123", "")
	b := NewErrorResponse("no available seats", 409)

	var buf bytes.Buffer
	if err := WriteMessage(&buf, a); err != nil {
		t.Fatalf("write a: %v", err)
	}
	if err := WriteMessage(&buf, b); err != nil {
		t.Fatalf("write b: %v", err)
	}

	gotA, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("read a: %v", err)
	}
	gotB, err := ReadMessage(&buf)
	if err != nil {
		t.Fatalf("read b: %v", err)
	}

	if gotA.Type() != AuthRequest || gotA.GetString("urn") != "1234567890123" {
		t.Errorf("unexpected first message: %+v", gotA)
	}
	if gotB.Type() != ResponseError || gotB.GetInt("error_code") != 409 {
		t.Errorf("unexpected second message: %+v", gotB)
	}
}

// chunkedReader dribbles out the underlying buffer a few bytes at a time to
// exercise ReadMessage's robustness to arbitrary chunking.
type chunkedReader struct {
	data      []byte
	chunkSize int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if len(c.data) == 0 {
		return 0, io.EOF
	}
	n := c.chunkSize
	if n > len(p) {
		n = len(p)
	}
	if n > len(c.data) {
		n = len(c.data)
	}
	copy(p, c.data[:n])
	c.data = c.data[n:]
	return n, nil
}

func TestStreamFramingSurvivesArbitraryChunking(t *testing.T) {
	t.Parallel()

	a := NewConnectRequest("client-1")
	b := NewSuccessResponse("ok", map[string]string{"route": "R2"})

	var buf bytes.Buffer
	if err := WriteMessage(&buf, a); err != nil {
		t.Fatal(err)
	}
	if err := WriteMessage(&buf, b); err != nil {
		t.Fatal(err)
	}

	for chunk := 1; chunk <= 7; chunk++ {
		r := &chunkedReader{data: append([]byte(nil), buf.Bytes()...), chunkSize: chunk}

		gotA, err := ReadMessage(r)
		if err != nil {
			t.Fatalf("chunk=%d read a: %v", chunk, err)
		}
		gotB, err := ReadMessage(r)
		if err != nil {
			t.Fatalf("chunk=%d read b: %v", chunk, err)
		}
		if gotA.Type() != ConnectRequest || gotA.GetString("client_id") != "client-1" {
			t.Errorf("chunk=%d unexpected a: %+v", chunk, gotA)
		}
		if gotB.Type() != ResponseSuccess || gotB.GetString("route") != "R2" {
			t.Errorf("chunk=%d unexpected b: %+v", chunk, gotB)
		}
	}
}
