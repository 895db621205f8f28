package store

import (
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
)

// TimeLayout is the "YYYY-MM-DD HH:MM:SS" local-time format used for
// every handler-visible timestamp.
const TimeLayout = "2006-01-02 15:04:05"

func FormatTime(t time.Time) string {
	return t.Local().Format(TimeLayout)
}

type User struct {
	URN              string
	Name             string
	Age              int
	RegistrationDate time.Time
	Active           bool
	PinHash          string
}

type Vehicle struct {
	URI            string
	Type           protocol.VehicleType
	Capacity       int
	AvailableSeats int
	Route          string
	Active         bool
	LastUpdate     time.Time
}

type Ticket struct {
	TicketID     string
	UserURN      string
	TicketType   protocol.TicketType
	VehicleType  protocol.VehicleType
	Route        string
	Price        float64
	Discount     float64
	PurchaseDate time.Time
	SeatNumber   int
	Used         bool
}

type Payment struct {
	TransactionID string
	TicketID      string
	Amount        float64
	Method        string
	PaymentDate   time.Time
	Successful    bool
}

// VehicleUpdate is the optional-field patch UPDATE_VEHICLE applies; a nil
// pointer leaves that column untouched.
type VehicleUpdate struct {
	Active *bool
	Route  *string
	Type   *protocol.VehicleType
}

// PurchaseRequest is the parsed input to Store.PurchaseTicket.
type PurchaseRequest struct {
	UserURN     string
	TicketType  protocol.TicketType
	VehicleType protocol.VehicleType
	URI         string // resolved vehicle URI
	Passengers  int
}

// PurchaseResult is everything the PURCHASE_TICKET handler needs to build
// its success response and multicast event.
type PurchaseResult struct {
	TotalAmount    float64
	Route          string
	VehicleURI     string
	AvailableSeats int
	Passengers     int
	Tickets        []Ticket
	Payment        Payment
}
