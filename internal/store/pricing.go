package store

import "github.com/ap876/protokol-javni-prevoz/internal/protocol"

// CalculateTicketPrice is a placeholder that always returns a flat base
// price of 1.0 regardless of vehicle type, ticket type, distance, or
// time — the price_list table is not consulted by the purchase flow.
// price_list still exists and UpsertPrice still writes to it, but nothing
// reads it back into a purchase yet.
func CalculateTicketPrice(_ protocol.VehicleType, _ protocol.TicketType, _ int) float64 {
	return 1.0
}

// CalculateDiscount is the real discount policy: 10% off for a
// GROUP_FAMILY ticket, or for any purchase of three or more passengers,
// 0% otherwise. The purchase flow itself computes discount as a flat 0
// without calling this; this function exists so a caller that does want
// the real policy has it.
func CalculateDiscount(ticketType protocol.TicketType, groupSize int) float64 {
	if ticketType == protocol.GroupFamily {
		return 0.10
	}
	if groupSize >= 3 {
		return 0.10
	}
	return 0.0
}
