package discovery

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/logger"
)

// TestDiscoverRoundTrip exercises the probe/announce exchange end to end
// on a loopback-reachable multicast group and an ephemeral group port, so
// the test doesn't depend on the sandbox having a routed multicast
// interface or a free well-known port.
func TestDiscoverRoundTrip(t *testing.T) {
	t.Parallel()

	log := logger.New("discovery_test")
	ln, err := Listen("239.255.10.10", 0, 9090, log)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	groupPort := ln.conn.LocalAddr().(*net.UDPAddr).Port

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go ln.Serve(ctx)

	port, err := Discover("239.255.10.10", groupPort, 2*time.Second)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if port != 9090 {
		t.Fatalf("got announced port %d, want 9090", port)
	}
}
