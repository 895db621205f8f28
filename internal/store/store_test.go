package store_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/store"
)

// fakeStore is an in-memory store.Store used to exercise the concurrency
// and authorization invariants without a live Postgres instance. It only
// implements the subset of behavior those invariants depend on.
type fakeStore struct {
	mu       sync.Mutex
	vehicles map[string]*store.Vehicle
	groups   map[string]string // group name -> leader urn
	members  map[string]map[string]bool
	tickets  []store.Ticket
	payments []store.Payment
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		vehicles: make(map[string]*store.Vehicle),
		groups:   make(map[string]string),
		members:  make(map[string]map[string]bool),
	}
}

func (f *fakeStore) RegisterUser(context.Context, string, string, int, string) *store.Error { return nil }
func (f *fakeStore) GetUser(context.Context, string) (*store.User, *store.Error)             { return nil, store.NotFound("n/a") }
func (f *fakeStore) DeleteUser(context.Context, string, bool) *store.Error                   { return nil }

func (f *fakeStore) RegisterDevice(_ context.Context, uri string, vt protocol.VehicleType) *store.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.vehicles[uri] = &store.Vehicle{URI: uri, Type: vt, Capacity: 3, AvailableSeats: 3, Route: "R_" + uri, Active: true}
	return nil
}

func (f *fakeStore) GetVehicleByURI(_ context.Context, uri string) (*store.Vehicle, *store.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[uri]
	if !ok {
		return nil, store.NotFound("Vehicle/route not found")
	}
	cp := *v
	return &cp, nil
}

func (f *fakeStore) FindVehicle(ctx context.Context, uri, _ string, _ protocol.VehicleType, _ bool) (*store.Vehicle, *store.Error) {
	return f.GetVehicleByURI(ctx, uri)
}

func (f *fakeStore) UpdateVehicle(context.Context, string, store.VehicleUpdate) *store.Error { return nil }
func (f *fakeStore) UpdateCapacity(context.Context, string, int, int) *store.Error           { return nil }

// ReserveSeat is deliberately race-checked: it holds f.mu across the
// read-check-write, the in-memory analogue of the SQL row lock
// PgStore.ReserveSeat takes with "FOR UPDATE".
func (f *fakeStore) ReserveSeat(_ context.Context, uri string) (int, *store.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.vehicles[uri]
	if !ok {
		return 0, store.NotFound("Vehicle/route not found")
	}
	if v.AvailableSeats <= 0 {
		return 0, store.Conflict("No available seats")
	}
	v.AvailableSeats--
	return v.AvailableSeats, nil
}

// PurchaseTicket mirrors PgStore.PurchaseTicket's shape (read-check-write
// under the same lock ReserveSeat uses, one ticket per passenger, one
// payment) without a database, so the seat-decrement/ticket/payment
// invariant can be exercised without a live Postgres instance.
func (f *fakeStore) PurchaseTicket(_ context.Context, req store.PurchaseRequest) (*store.PurchaseResult, *store.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	v, ok := f.vehicles[req.URI]
	if !ok {
		return nil, store.NotFound("Vehicle/route not found")
	}
	if v.AvailableSeats < req.Passengers {
		return nil, store.Conflict("No available seats")
	}

	unitPrice := store.CalculateTicketPrice(req.VehicleType, req.TicketType, req.Passengers)
	tickets := make([]store.Ticket, 0, req.Passengers)
	for i := 0; i < req.Passengers; i++ {
		tickets = append(tickets, store.Ticket{
			TicketID:    fmt.Sprintf("ticket_%d", len(f.tickets)+i),
			UserURN:     req.UserURN,
			TicketType:  req.TicketType,
			VehicleType: req.VehicleType,
			Route:       v.Route,
			Price:       unitPrice,
			SeatNumber:  v.AvailableSeats - i,
		})
	}
	v.AvailableSeats -= req.Passengers
	f.tickets = append(f.tickets, tickets...)

	total := unitPrice * float64(req.Passengers)
	payment := store.Payment{
		TransactionID: fmt.Sprintf("txn_%d", len(f.payments)),
		TicketID:      tickets[0].TicketID,
		Amount:        total,
		Method:        "account",
		Successful:    true,
	}
	f.payments = append(f.payments, payment)

	return &store.PurchaseResult{
		TotalAmount:    total,
		Route:          v.Route,
		VehicleURI:     req.URI,
		AvailableSeats: v.AvailableSeats,
		Passengers:     req.Passengers,
		Tickets:        tickets,
		Payment:        payment,
	}, nil
}

func (f *fakeStore) CreateGroup(_ context.Context, name, leader string) (int64, *store.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[name]; ok {
		return 0, store.Conflict("Group %s already exists", name)
	}
	f.groups[name] = leader
	f.members[name] = map[string]bool{leader: true}
	return 1, nil
}

func (f *fakeStore) AddGroupMember(_ context.Context, name, urn string) *store.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.groups[name]; !ok {
		return store.NotFound("Group %s not found", name)
	}
	if f.members[name][urn] {
		return store.Conflict("%s is already a member of %s", urn, name)
	}
	f.members[name][urn] = true
	return nil
}

func (f *fakeStore) DeleteGroupMember(_ context.Context, name, urn string) *store.Error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.members[name][urn] {
		return store.NotFound("%s is not an active member of %s", urn, name)
	}
	delete(f.members[name], urn)
	return nil
}

func (f *fakeStore) GroupLeader(_ context.Context, name string) (string, *store.Error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	leader, ok := f.groups[name]
	if !ok {
		return "", store.NotFound("Group %s not found", name)
	}
	return leader, nil
}

func (f *fakeStore) UpsertPrice(context.Context, protocol.VehicleType, protocol.TicketType, float64) *store.Error {
	return nil
}

func (f *fakeStore) Close() error { return nil }

var _ store.Store = (*fakeStore)(nil)

// TestReserveSeatConcurrencyInvariant fires n concurrent seat-reservation
// calls against a vehicle with k seats and asserts exactly min(n,k)
// succeed, a property every Store implementation must hold regardless of
// backing engine.
func TestReserveSeatConcurrencyInvariant(t *testing.T) {
	t.Parallel()

	const seats = 3
	const attempts = 20

	s := newFakeStore()
	ctx := context.Background()
	if err := s.RegisterDevice(ctx, "veh-1", protocol.Bus); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}

	var wg sync.WaitGroup
	successes := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.ReserveSeat(ctx, "veh-1")
			successes <- err == nil
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for ok := range successes {
		if ok {
			count++
		}
	}
	if count != seats {
		t.Fatalf("got %d successful reservations, want %d", count, seats)
	}

	v, err := s.GetVehicleByURI(ctx, "veh-1")
	if err != nil {
		t.Fatalf("GetVehicleByURI: %v", err)
	}
	if v.AvailableSeats != 0 {
		t.Fatalf("available seats = %d, want 0", v.AvailableSeats)
	}
}

// TestDeleteGroupMemberRequiresLeader exercises the authorization pattern
// handlers apply: look up GroupLeader, compare against the calling
// session's urn, and refuse with 403 before ever calling
// DeleteGroupMember.
func TestDeleteGroupMemberRequiresLeader(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	ctx := context.Background()

	if _, err := s.CreateGroup(ctx, "family_1", "1000000000001"); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := s.AddGroupMember(ctx, "family_1", "1000000000002"); err != nil {
		t.Fatalf("AddGroupMember: %v", err)
	}

	authorize := func(groupName, callerURN string) *store.Error {
		leader, err := s.GroupLeader(ctx, groupName)
		if err != nil {
			return err
		}
		if leader != callerURN {
			return store.Forbidden("only the group leader may remove members")
		}
		return nil
	}

	if err := authorize("family_1", "1000000000002"); err == nil || err.Code != 403 {
		t.Fatalf("authorize by non-leader = %v, want 403", err)
	}
	if err := authorize("family_1", "1000000000001"); err != nil {
		t.Fatalf("authorize by leader: %v", err)
	}
	if err := s.DeleteGroupMember(ctx, "family_1", "1000000000002"); err != nil {
		t.Fatalf("DeleteGroupMember: %v", err)
	}
	if err := s.DeleteGroupMember(ctx, "family_1", "1000000000002"); err == nil || err.Code != 404 {
		t.Fatalf("second DeleteGroupMember = %v, want 404", err)
	}
}

func TestAddGroupMemberRejectsDuplicateActive(t *testing.T) {
	t.Parallel()

	s := newFakeStore()
	ctx := context.Background()
	if _, err := s.CreateGroup(ctx, "biz_1", "1000000000009"); err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if err := s.AddGroupMember(ctx, "biz_1", "1000000000009"); err == nil || err.Code != 409 {
		t.Fatalf("re-adding the leader = %v, want 409", err)
	}
}

// TestPurchaseTicketConcurrencyInvariant fires n concurrent one-passenger
// purchases against a vehicle with k seats and asserts exactly min(n,k)
// succeed, each successful purchase produced exactly one ticket and one
// payment, and the vehicle's available seat count lands at exactly k
// minus the number of successful purchases.
func TestPurchaseTicketConcurrencyInvariant(t *testing.T) {
	t.Parallel()

	const seats = 3
	const attempts = 20

	s := newFakeStore()
	ctx := context.Background()
	if err := s.RegisterDevice(ctx, "veh-2", protocol.Bus); err != nil {
		t.Fatalf("RegisterDevice: %v", err)
	}

	req := store.PurchaseRequest{
		UserURN:     "1000000000003",
		TicketType:  protocol.Individual,
		VehicleType: protocol.Bus,
		URI:         "veh-2",
		Passengers:  1,
	}

	var wg sync.WaitGroup
	successes := make(chan bool, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.PurchaseTicket(ctx, req)
			successes <- err == nil
		}()
	}
	wg.Wait()
	close(successes)

	count := 0
	for ok := range successes {
		if ok {
			count++
		}
	}
	if count != seats {
		t.Fatalf("got %d successful purchases, want %d", count, seats)
	}

	v, err := s.GetVehicleByURI(ctx, "veh-2")
	if err != nil {
		t.Fatalf("GetVehicleByURI: %v", err)
	}
	if v.AvailableSeats != 0 {
		t.Fatalf("available seats = %d, want 0", v.AvailableSeats)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.tickets) != seats {
		t.Fatalf("got %d tickets, want %d", len(s.tickets), seats)
	}
	if len(s.payments) != seats {
		t.Fatalf("got %d payments, want %d", len(s.payments), seats)
	}
}
