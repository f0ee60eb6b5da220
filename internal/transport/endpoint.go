// Package transport implements the Agent Connection (spec.md §4.D): owns
// one socket (Unix-domain or TCP), serializes synchronous send/receive in
// FIFO order, and offers fire-and-forget async delivery. Grounded on
// coven-gateway's internal/agent Connection (pending-request bookkeeping,
// here simplified to a single in-flight send since this protocol is
// strictly half-duplex). A Connection does not reconnect on its own.
package transport

import (
	"strings"

	"github.com/scout-apm/agentcore/internal/apmerrors"
	"github.com/scout-apm/agentcore/internal/coreagentversion"
)

// Network identifies the socket family the Agent Connection speaks.
type Network string

const (
	NetworkUnix Network = "unix"
	NetworkTCP  Network = "tcp"
)

// Endpoint is the resolved address the Agent Connection dials.
type Endpoint struct {
	Network Network
	Address string
}

// defaultTCPEndpoint is the TCP default once the core agent is modern
// enough to default to TCP instead of a Unix socket (spec.md §4.D, §6).
const defaultTCPEndpoint = "127.0.0.1:6590"

// tcpVersionFloor is the minimum core agent version that defaults to TCP
// rather than a Unix-domain socket.
var tcpVersionFloor = coreagentversion.New("v1.3.0")

// ResolveEndpoint implements spec.md §4.D's socket-selection rule: an
// explicit socketPath wins verbatim (a "tcp://host:port" prefix selects
// TCP, a "unix://path" prefix or a bare filesystem path selects Unix);
// otherwise the endpoint is chosen by the configured core agent version
// relative to 1.3.0. It returns ErrUnknownSocketType for a configured
// socketPath that carries a scheme other than "tcp://" or "unix://".
func ResolveEndpoint(configuredSocketPath string, derivedSocketPath string, coreAgentVersion string) (Endpoint, error) {
	if configuredSocketPath != "" {
		return endpointFromLiteral(configuredSocketPath)
	}

	version := coreagentversion.New(coreAgentVersion)
	if version.LessThan(tcpVersionFloor) {
		return Endpoint{Network: NetworkUnix, Address: derivedSocketPath}, nil
	}
	return Endpoint{Network: NetworkTCP, Address: defaultTCPEndpoint}, nil
}

func endpointFromLiteral(socketPath string) (Endpoint, error) {
	if rest, ok := strings.CutPrefix(socketPath, "tcp://"); ok {
		return Endpoint{Network: NetworkTCP, Address: rest}, nil
	}
	if rest, ok := strings.CutPrefix(socketPath, "unix://"); ok {
		return Endpoint{Network: NetworkUnix, Address: rest}, nil
	}
	if strings.Contains(socketPath, "://") {
		return Endpoint{}, apmerrors.ErrUnknownSocketType
	}
	return Endpoint{Network: NetworkUnix, Address: socketPath}, nil
}
