// Package discovery implements a UDP multicast probe/announce channel: a
// server listening on a multicast group answers a "DISCOVER" datagram
// with a unicast "ANNOUNCE central <port>" reply so a client with no
// configured server address can still find one.
//
// The retrieved corpus has no UDP code of its own — none of its services
// need peer discovery, they're addressed by a fixed URL — so this package
// uses plain net-package multicast sockets, in the same style
// transport/server.go already uses for the TCP listener.
package discovery

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
)

const (
	discoverPayload = "DISCOVER"
	announcePrefix  = "ANNOUNCE central "
)

// Listener answers DISCOVER probes on a multicast group with an ANNOUNCE
// reply carrying tcpPort.
type Listener struct {
	conn    *net.UDPConn
	tcpPort int
	log     *logger.Logger
}

// Listen joins the multicast group at addr:port and returns a Listener
// ready to Serve. addr must be a valid multicast address (the default is
// 239.192.0.1).
func Listen(addr string, port, tcpPort int, log *logger.Logger) (*Listener, error) {
	group := net.ParseIP(addr)
	if group == nil || !group.IsMulticast() {
		return nil, fmt.Errorf("discovery: %q is not a valid multicast address", addr)
	}

	conn, err := net.ListenMulticastUDP("udp4", nil, &net.UDPAddr{IP: group, Port: port})
	if err != nil {
		return nil, fmt.Errorf("discovery: listen: %w", err)
	}

	return &Listener{conn: conn, tcpPort: tcpPort, log: log}, nil
}

func (l *Listener) Close() error {
	return l.conn.Close()
}

// Serve blocks, answering DISCOVER probes until ctx is cancelled or the
// socket is closed. It listens for the literal payload "DISCOVER" and
// replies unicast to the sender.
func (l *Listener) Serve(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		_ = l.conn.Close()
	}()

	buf := make([]byte, 512)
	for {
		n, from, err := l.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("discovery: read: %w", err)
		}

		payload := strings.TrimRight(string(buf[:n]), "\r\n \t")
		if payload != discoverPayload {
			continue
		}

		reply := fmt.Sprintf("%s%d", announcePrefix, l.tcpPort)
		if _, err := l.conn.WriteToUDP([]byte(reply), from); err != nil {
			l.log.Warn(logger.Entry{
				Action:  "discovery_reply_failed",
				Message: from.String(),
				Error:   &logger.ErrObj{Msg: err.Error()},
			})
			continue
		}
		l.log.Debug(logger.Entry{Action: "discovery_announced", Message: from.String()})
	}
}

// Discover is the client-side half: send a DISCOVER probe to addr:port
// and wait up to timeout for the first ANNOUNCE reply, returning the
// announced TCP port.
//
// The socket is left unconnected (ListenUDP, not DialUDP): the server
// answers unicast from its own interface address, which differs from the
// multicast group address the probe was sent to, and a connected socket
// would drop that reply as coming from the wrong peer.
func Discover(addr string, port int, timeout time.Duration) (tcpPort int, err error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{Port: 0})
	if err != nil {
		return 0, fmt.Errorf("discovery: listen: %w", err)
	}
	defer conn.Close()

	target := &net.UDPAddr{IP: net.ParseIP(addr), Port: port}
	if _, err := conn.WriteToUDP([]byte(discoverPayload), target); err != nil {
		return 0, fmt.Errorf("discovery: send probe: %w", err)
	}

	_ = conn.SetReadDeadline(time.Now().Add(timeout))
	buf := make([]byte, 512)
	n, _, err := conn.ReadFromUDP(buf)
	if err != nil {
		return 0, fmt.Errorf("discovery: no announce received: %w", err)
	}

	reply := strings.TrimRight(string(buf[:n]), "\r\n \t")
	if !strings.HasPrefix(reply, announcePrefix) {
		return 0, fmt.Errorf("discovery: unexpected reply %q", reply)
	}
	port, err = strconv.Atoi(strings.TrimPrefix(reply, announcePrefix))
	if err != nil {
		return 0, fmt.Errorf("discovery: bad port in reply %q: %w", reply, err)
	}
	return port, nil
}
