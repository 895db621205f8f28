// Package dispatch implements the per-connection request loop: read one
// framed message, validate it, route it by message type to a registered
// handler, and repeat until the connection closes. The dispatch table is
// built once at startup and handlers are registered into it by message
// type, the same shape an HTTP router uses for verb+path routing.
package dispatch

import (
	"errors"
	"io"
	"sync"

	"github.com/ap876/protokol-javni-prevoz/internal/fanout"
	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/regional"
	"github.com/ap876/protokol-javni-prevoz/internal/session"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
	"github.com/ap876/protokol-javni-prevoz/internal/transport"
)

// Handler processes one parsed message and sends exactly one response
// via ctx.
type Handler func(ctx *Context, msg *protocol.Message)

// ConnState is the per-connection state the AUTHENTICATED gate and the
// business handlers read and update: whether AUTH_REQUEST has succeeded
// on this connection, and which session/urn it is currently bound to.
type ConnState struct {
	mu            sync.Mutex
	authenticated bool
	sessionID     string
	urn           string
}

func (s *ConnState) setAuthenticated(sessionID, urn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = true
	s.sessionID = sessionID
	s.urn = urn
}

func (s *ConnState) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated, s.sessionID, s.urn = false, "", ""
}

// Snapshot returns this connection's current authentication state.
func (s *ConnState) Snapshot() (authenticated bool, sessionID, urn string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated, s.sessionID, s.urn
}

// Context is passed to every Handler: the connection to reply on, the
// shared components a handler may call, and this connection's auth
// state.
type Context struct {
	Conn     *transport.Conn
	Store    store.Store
	Sessions *session.Registry
	Fanout   *fanout.Hub
	Regional *regional.Relay
	Log      *logger.Logger
	State    *ConnState
}

// Reply sends resp back on this connection, copying the request's
// sequence id so the client can correlate response to request.
func (c *Context) Reply(req *protocol.Message, resp *protocol.Message) error {
	resp.SetSequenceID(req.SequenceID())
	return c.Conn.Send(resp)
}

// ReplyError sends a RESPONSE_ERROR frame built from a *store.Error.
func (c *Context) ReplyError(req *protocol.Message, err *store.Error) error {
	return c.Reply(req, protocol.NewErrorResponse(err.Message, err.Code))
}

// ReplyErrorf sends a RESPONSE_ERROR frame with a code and message that
// did not originate from the store.
func (c *Context) ReplyErrorf(req *protocol.Message, code int, message string) error {
	return c.Reply(req, protocol.NewErrorResponse(message, code))
}

// Authenticate marks this connection AUTHENTICATED and subscribes it to
// multicast fan-out. Called on a successful AUTH_REQUEST.
func (c *Context) Authenticate(sessionID, urn string) {
	c.State.setAuthenticated(sessionID, urn)
	c.Fanout.Subscribe(c.Conn)
}

// entry pairs a Handler with whether the AUTHENTICATED gate applies to
// it.
type entry struct {
	handler      Handler
	requiresAuth bool
}

// Dispatcher owns the closed message-type -> handler table and the
// shared components every Context is built from.
type Dispatcher struct {
	store    store.Store
	sessions *session.Registry
	fanout   *fanout.Hub
	regional *regional.Relay
	log      *logger.Logger

	table map[protocol.MessageType]entry
}

func New(st store.Store, sessions *session.Registry, fh *fanout.Hub, rl *regional.Relay, log *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:    st,
		sessions: sessions,
		fanout:   fh,
		regional: rl,
		log:      log,
		table:    make(map[protocol.MessageType]entry),
	}
}

// Register adds h to the dispatch table for t. requiresAuth marks whether
// the connection must already be AUTHENTICATED to reach h; every
// operation except REGISTER_USER, CONNECT_REQUEST, and AUTH_REQUEST
// requires it.
func (d *Dispatcher) Register(t protocol.MessageType, h Handler, requiresAuth bool) {
	d.table[t] = entry{handler: h, requiresAuth: requiresAuth}
}

// Serve runs the read loop for one accepted connection until it closes.
// It never returns an error the caller need act on; all failures are
// logged and simply end the loop.
func (d *Dispatcher) Serve(conn *transport.Conn) {
	state := &ConnState{}
	ctx := &Context{
		Conn:     conn,
		Store:    d.store,
		Sessions: d.sessions,
		Fanout:   d.fanout,
		Regional: d.regional,
		Log:      d.log,
		State:    state,
	}

	defer func() {
		d.fanout.Unsubscribe(conn.ID())
		_ = conn.Close()
	}()

	for {
		msg, err := conn.Receive()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				d.log.Debug(logger.Entry{
					Action:  "connection_closed",
					ConnID:  conn.ID(),
					Message: err.Error(),
				})
			}
			return
		}

		if !msg.IsValid() {
			_ = ctx.ReplyErrorf(msg, 400, "bad frame")
			continue
		}

		e, ok := d.table[msg.Type()]
		if !ok {
			_ = ctx.ReplyErrorf(msg, 400, "unknown message type")
			continue
		}

		if e.requiresAuth {
			authenticated, _, _ := state.Snapshot()
			if !authenticated {
				_ = ctx.ReplyErrorf(msg, 401, "authentication required")
				continue
			}
		}

		e.handler(ctx, msg)
	}
}
