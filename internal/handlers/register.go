// Package handlers implements the business handlers for the wire
// protocol: one file per operation, each taking a *dispatch.Context and
// the parsed request message and sending exactly one response frame.
// Laid out one use case per file, the same per-usecase file layout the
// retrieved corpus's application/usecase packages use.
package handlers

import (
	"github.com/ap876/protokol-javni-prevoz/internal/dispatch"
	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// RegisterAll wires every operation into d, applying the AUTHENTICATED
// gate to everything except REGISTER_USER, CONNECT_REQUEST, and
// AUTH_REQUEST.
func RegisterAll(d *dispatch.Dispatcher) {
	d.Register(protocol.ConnectRequest, ConnectRequest, false)
	d.Register(protocol.AuthRequest, AuthRequest, false)
	d.Register(protocol.RegisterUser, RegisterUser, false)

	d.Register(protocol.RegisterDevice, RegisterDevice, true)
	d.Register(protocol.ReserveSeat, ReserveSeat, true)
	d.Register(protocol.PurchaseTicket, PurchaseTicket, true)
	d.Register(protocol.CreateGroup, CreateGroup, true)
	d.Register(protocol.AddMemberToGroup, AddMemberToGroup, true)
	d.Register(protocol.DeleteGroupMember, DeleteGroupMember, true)
	d.Register(protocol.DeleteUser, DeleteUser, true)
	d.Register(protocol.UpdatePrice, UpdatePrice, true)
	d.Register(protocol.UpdateVehicle, UpdateVehicle, true)
	d.Register(protocol.UpdateCapacity, UpdateCapacity, true)
	d.Register(protocol.GetVehicleStatus, GetVehicleStatus, true)
	d.Register(protocol.Heartbeat, Heartbeat, true)
	d.Register(protocol.Disconnect, Disconnect, true)
}
