package dispatch_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/fanout"
	"github.com/ap876/protokol-javni-prevoz/internal/logger"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/session"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
	"github.com/ap876/protokol-javni-prevoz/internal/transport"
)

// stubStore implements store.Store with just enough behavior to exercise
// the AUTHENTICATED gate: known users authenticate, RESERVE_SEAT succeeds
// once a session exists.
type stubStore struct{ knownURN string }

func (s *stubStore) RegisterUser(context.Context, string, string, int, string) *store.Error {
	return nil
}
func (s *stubStore) GetUser(_ context.Context, urn string) (*store.User, *store.Error) {
	if urn != s.knownURN {
		return nil, store.NotFound("no such user")
	}
	return &store.User{URN: urn}, nil
}
func (s *stubStore) DeleteUser(context.Context, string, bool) *store.Error { return nil }

func (s *stubStore) RegisterDevice(context.Context, string, protocol.VehicleType) *store.Error {
	return nil
}
func (s *stubStore) GetVehicleByURI(_ context.Context, uri string) (*store.Vehicle, *store.Error) {
	return &store.Vehicle{URI: uri, Type: protocol.Bus, Capacity: 1, AvailableSeats: 1, Route: "R1", Active: true}, nil
}
func (s *stubStore) FindVehicle(ctx context.Context, uri, _ string, _ protocol.VehicleType, _ bool) (*store.Vehicle, *store.Error) {
	return s.GetVehicleByURI(ctx, uri)
}
func (s *stubStore) UpdateVehicle(context.Context, string, store.VehicleUpdate) *store.Error {
	return nil
}
func (s *stubStore) UpdateCapacity(context.Context, string, int, int) *store.Error { return nil }
func (s *stubStore) ReserveSeat(context.Context, string) (int, *store.Error)       { return 0, nil }
func (s *stubStore) PurchaseTicket(context.Context, store.PurchaseRequest) (*store.PurchaseResult, *store.Error) {
	return nil, store.NotFound("unused")
}
func (s *stubStore) CreateGroup(context.Context, string, string) (int64, *store.Error) {
	return 0, nil
}
func (s *stubStore) AddGroupMember(context.Context, string, string) *store.Error    { return nil }
func (s *stubStore) DeleteGroupMember(context.Context, string, string) *store.Error { return nil }
func (s *stubStore) GroupLeader(context.Context, string) (string, *store.Error)     { return "", nil }
func (s *stubStore) UpsertPrice(context.Context, protocol.VehicleType, protocol.TicketType, float64) *store.Error {
	return nil
}
func (s *stubStore) Close() error { return nil }

func newHarness(t *testing.T, knownURN string) (*dispatch.Dispatcher, *transport.Conn) {
	t.Helper()
	log := logger.New("dispatch_test")
	d := dispatch.New(&stubStore{knownURN: knownURN}, session.NewRegistry(), fanout.NewHub(log), nil, log)

	d.Register(protocol.AuthRequest, func(ctx *dispatch.Context, msg *protocol.Message) {
		urn := msg.GetString("urn")
		user, err := ctx.Store.GetUser(context.Background(), urn)
		if err != nil {
			_ = ctx.Reply(msg, protocol.NewAuthResponse(false, ""))
			return
		}
		ctx.Authenticate("session_1", user.URN)
		_ = ctx.Reply(msg, protocol.NewAuthResponse(true, "session_1"))
	}, false)

	d.Register(protocol.ReserveSeat, func(ctx *dispatch.Context, msg *protocol.Message) {
		_ = ctx.Reply(msg, protocol.NewSuccessResponse("reserved", nil))
	}, true)

	client, server := net.Pipe()
	go d.Serve(transport.WrapConn(server))
	return d, transport.WrapConn(client)
}

func roundTrip(t *testing.T, conn *transport.Conn, req *protocol.Message) *protocol.Message {
	t.Helper()
	if err := conn.Send(req); err != nil {
		t.Fatalf("send: %v", err)
	}
	resp, err := conn.Receive()
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	return resp
}

func TestAuthGateRejectsUnauthenticatedConnection(t *testing.T) {
	t.Parallel()
	_, client := newHarness(t, "urn:user:1")
	defer client.Close()

	resp := roundTrip(t, client, protocol.NewReserveSeat("urn:user:1", protocol.Bus, "R1"))
	if resp.Type() != protocol.ResponseError || resp.GetInt("error_code") != 401 {
		t.Fatalf("want 401 error, got type=%v code=%d", resp.Type(), resp.GetInt("error_code"))
	}
}

func TestAuthGateAllowsAfterSuccessfulAuth(t *testing.T) {
	t.Parallel()
	_, client := newHarness(t, "urn:user:1")
	defer client.Close()

	authResp := roundTrip(t, client, protocol.NewAuthRequest("urn:user:1", "0000"))
	if !authResp.GetBool("success") {
		t.Fatalf("expected auth success, got %+v", authResp)
	}

	resp := roundTrip(t, client, protocol.NewReserveSeat("urn:user:1", protocol.Bus, "R1"))
	if resp.Type() != protocol.ResponseSuccess {
		t.Fatalf("want success after auth, got type=%v", resp.Type())
	}
}

func TestAuthRequestNeverGatedItself(t *testing.T) {
	t.Parallel()
	_, client := newHarness(t, "urn:user:1")
	defer client.Close()

	resp := roundTrip(t, client, protocol.NewAuthRequest("urn:unknown", "0000"))
	if resp.Type() != protocol.AuthResponse || resp.GetBool("success") {
		t.Fatalf("expected a reachable, unsuccessful auth response, got %+v", resp)
	}
}

func TestServeExitsWhenConnectionCloses(t *testing.T) {
	t.Parallel()
	_, client := newHarness(t, "urn:user:1")
	client.Close()

	// Give the server goroutine a moment to observe the closed pipe and
	// return; nothing to assert beyond "this doesn't hang or panic".
	time.Sleep(10 * time.Millisecond)
}
