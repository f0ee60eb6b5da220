package transport

import (
	"net"
	"os"
	"time"
)

// Probe reports whether an agent appears to already be listening at ep,
// without establishing the long-lived connection (spec.md §4.D:
// "Agent-existence probe: Unix -> file exists and is a socket; TCP -> port
// reachable").
func Probe(ep Endpoint) bool {
	switch ep.Network {
	case NetworkUnix:
		return probeUnixSocket(ep.Address)
	case NetworkTCP:
		return probeTCPPort(ep.Address)
	default:
		return false
	}
}

func probeUnixSocket(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeSocket != 0
}

func probeTCPPort(address string) bool {
	conn, err := net.DialTimeout("tcp", address, 500*time.Millisecond)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}
