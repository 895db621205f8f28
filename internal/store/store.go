package store

import (
	"context"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// Store is the facade the business handlers call against. Its methods
// each either succeed or return a *Error carrying the store's native
// error code, and never panic or throw across the API boundary. It is
// expressed as an interface, following the ports/adapters split the
// retrieved ride-hailing corpus uses for its repositories
// (internal/*/application/ports/out/*_repository.go in
// ember-in-void-ride-hail), so concurrency invariants can be exercised
// against an in-memory fake without a live database.
type Store interface {
	RegisterUser(ctx context.Context, urn, name string, age int, pinHash string) *Error
	GetUser(ctx context.Context, urn string) (*User, *Error)
	DeleteUser(ctx context.Context, urn string, adminApproved bool) *Error

	RegisterDevice(ctx context.Context, uri string, vehicleType protocol.VehicleType) *Error
	GetVehicleByURI(ctx context.Context, uri string) (*Vehicle, *Error)
	FindVehicle(ctx context.Context, uri, route string, vehicleType protocol.VehicleType, tryOtherTypes bool) (*Vehicle, *Error)
	UpdateVehicle(ctx context.Context, uri string, patch VehicleUpdate) *Error
	UpdateCapacity(ctx context.Context, uri string, capacity, availableSeats int) *Error

	// ReserveSeat atomically decrements available_seats by 1 and returns
	// the resulting count, or a *Error (404/409/500) on failure.
	ReserveSeat(ctx context.Context, uri string) (availableSeats int, err *Error)

	// PurchaseTicket creates Passengers tickets and one payment atomically,
	// decrementing available_seats by Passengers.
	PurchaseTicket(ctx context.Context, req PurchaseRequest) (*PurchaseResult, *Error)

	CreateGroup(ctx context.Context, groupName, leaderURN string) (groupID int64, err *Error)
	AddGroupMember(ctx context.Context, groupName, urn string) *Error
	DeleteGroupMember(ctx context.Context, groupName, urn string) *Error
	GroupLeader(ctx context.Context, groupName string) (leaderURN string, err *Error)

	UpsertPrice(ctx context.Context, vehicleType protocol.VehicleType, ticketType protocol.TicketType, price float64) *Error

	Close() error
}
