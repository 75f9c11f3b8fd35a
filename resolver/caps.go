// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"net"
	"sync"
)

// Capabilities tells a Resolver which address families it may hand out for
// literals. Without IPv6 support, bracketed literals aren't recognized and the
// modern facility's IPv6 answers get ignored; without Unix-domain socket
// support, names starting with “/” are resolved like any other name.
type Capabilities struct {
	IPv6 bool `json:"ipv6"`
	Unix bool `json:"unix"`
}

// DefaultCapabilities returns the capabilities of the platform we're running
// on. IPv6 support is detected once per process by listening on the IPv6
// loopback address; Unix-domain socket support is decided at build time.
func DefaultCapabilities() Capabilities {
	return Capabilities{
		IPv6: ipv6Supported(),
		Unix: unixSocketsSupported,
	}
}

var ipv6Supported = sync.OnceValue(canListenIPv6Loopback)

// canListenIPv6Loopback reports whether a TCP listener can be bound to an
// ephemeral port on “::1”, which fails when the kernel has IPv6 disabled or
// the network namespace lacks an IPv6 loopback.
func canListenIPv6Loopback() bool {
	l, err := net.Listen("tcp6", "[::1]:0")
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}
