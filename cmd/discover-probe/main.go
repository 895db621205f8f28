// Command discover-probe sends one multicast DISCOVER datagram and prints
// the TCP port a central server answers with, or exits non-zero on
// timeout. Thin CLI wrapper around discovery.Discover.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ap876/protokol-javni-prevoz/internal/discovery"
)

func main() {
	addr := flag.String("addr", "239.192.0.1", "multicast group address")
	port := flag.Int("port", 30001, "multicast group port")
	timeout := flag.Duration("timeout", 2*time.Second, "how long to wait for a reply")
	flag.Parse()

	tcpPort, err := discovery.Discover(*addr, *port, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discover-probe: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tcpPort)
}
