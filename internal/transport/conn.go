package transport

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	"sync"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// Conn is one TLS-terminated stream, exclusively owned by the goroutine
// that accepted or dialed it. Send/Receive are synchronous: a send writes
// the whole frame or fails, a receive reads exactly one full frame or
// fails.
type Conn struct {
	raw net.Conn
	id  string

	writeMu sync.Mutex
}

func newConn(raw net.Conn) *Conn {
	return &Conn{raw: raw, id: newConnID()}
}

// WrapConn builds a Conn around an already-established net.Conn, such as
// one end of a net.Pipe. It exists for tests that exercise the dispatch
// loop without a real TLS handshake.
func WrapConn(raw net.Conn) *Conn {
	return newConn(raw)
}

// ID is a process-local identifier used for log correlation and as the
// subscriber-registry key; it is never sent on the wire.
func (c *Conn) ID() string { return c.id }

func (c *Conn) RemoteAddr() net.Addr { return c.raw.RemoteAddr() }

// Send serializes and frames m, writing it in full. Concurrent sends from
// multiple goroutines (a handler response racing a fan-out broadcast) are
// serialized so a frame is never interleaved with another.
func (c *Conn) Send(m *protocol.Message) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return protocol.WriteMessage(c.raw, m)
}

// Receive blocks for exactly one full framed message.
func (c *Conn) Receive() (*protocol.Message, error) {
	return protocol.ReadMessage(c.raw)
}

// Close closes the underlying stream; any blocked Receive unblocks with an
// I/O error, which the dispatcher loop interprets as disconnect.
func (c *Conn) Close() error {
	return c.raw.Close()
}

func newConnID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return "conn_" + hex.EncodeToString(b[:])
}
