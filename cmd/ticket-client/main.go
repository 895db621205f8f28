// Command ticket-client is a one-shot wire-protocol client: connect,
// authenticate, run a single operation, print the reply, exit. It exists
// to exercise the protocol end-to-end without an interactive REPL, which
// this repo does not implement.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/ap876/protokol-javni-prevoz/internal/protocol"
	"github.com/ap876/protokol-javni-prevoz/internal/transport"
)

func main() {
	addr := flag.String("addr", "localhost:8080", "server address")
	ca := flag.String("ca", "", "CA certificate file (empty skips verification)")
	urn := flag.String("urn", "", "user URN")
	pin := flag.String("pin", "", "user PIN")
	op := flag.String("op", "reserve", "operation: reserve|purchase|status")
	route := flag.String("route", "", "route name")
	uri := flag.String("uri", "", "vehicle URI")
	vehicleType := flag.String("vehicle-type", "BUS", "vehicle type: BUS|TRAM|TROLLEYBUS")
	ticketType := flag.String("ticket-type", "INDIVIDUAL", "ticket type")
	passengers := flag.Int("passengers", 1, "passenger count")
	flag.Parse()

	if *urn == "" {
		fmt.Fprintln(os.Stderr, "ticket-client: -urn is required")
		os.Exit(1)
	}

	conn, err := transport.Dial(*addr, *ca)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ticket-client: dial: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close()

	if err := roundTrip(conn, protocol.NewConnectRequest("ticket-client")); err != nil {
		fail(err)
	}

	authResp, err := roundTripReply(conn, protocol.NewAuthRequest(*urn, *pin))
	if err != nil {
		fail(err)
	}
	if !authResp.GetBool("success") {
		fmt.Fprintln(os.Stderr, "ticket-client: authentication failed")
		os.Exit(1)
	}
	sessionID := authResp.GetString("token")

	vt, ok := protocol.ParseVehicleType(*vehicleType)
	if !ok {
		fmt.Fprintf(os.Stderr, "ticket-client: invalid vehicle type %q\n", *vehicleType)
		os.Exit(1)
	}

	var req *protocol.Message
	switch *op {
	case "reserve":
		req = protocol.NewReserveSeat(*urn, vt, *route)
		if *uri != "" {
			req.SetString("uri", *uri)
		}
	case "purchase":
		tt, ok := protocol.ParseTicketType(*ticketType)
		if !ok {
			fmt.Fprintf(os.Stderr, "ticket-client: invalid ticket type %q\n", *ticketType)
			os.Exit(1)
		}
		req = protocol.NewPurchaseTicket(sessionID, tt, vt, *route, *passengers)
		if *uri != "" {
			req.SetString("uri", *uri)
		}
	case "status":
		req = protocol.New(protocol.GetVehicleStatus)
		if *uri != "" {
			req.SetString("uri", *uri)
		}
		if *route != "" {
			req.SetString("route", *route)
		}
		req.SetString("vehicle_type", vt.String())
	default:
		fmt.Fprintf(os.Stderr, "ticket-client: unknown -op %q\n", *op)
		os.Exit(1)
	}

	resp, err := roundTripReply(conn, req)
	if err != nil {
		fail(err)
	}
	printMessage(resp)

	_ = roundTrip(conn, protocol.NewDisconnect())
}

func roundTrip(conn *transport.Conn, req *protocol.Message) error {
	_, err := roundTripReply(conn, req)
	return err
}

func roundTripReply(conn *transport.Conn, req *protocol.Message) (*protocol.Message, error) {
	if err := conn.Send(req); err != nil {
		return nil, fmt.Errorf("send %s: %w", req.Type(), err)
	}
	resp, err := conn.Receive()
	if err != nil {
		return nil, fmt.Errorf("receive reply to %s: %w", req.Type(), err)
	}
	if resp.Type() == protocol.ResponseError {
		return nil, fmt.Errorf("%s failed: %s (code %d)", req.Type(), resp.GetString("error"), resp.GetInt("error_code"))
	}
	return resp, nil
}

func printMessage(m *protocol.Message) {
	for _, k := range m.Keys() {
		fmt.Printf("%s=%s\n", k, m.GetString(k))
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "ticket-client: %v\n", err)
	os.Exit(1)
}
