// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "bytes"

var (
	ipv6Unspecified [16]byte
	ipv6Loopback    = [16]byte{15: 1}
)

const ipv4Loopback = 0x7f000001 // 127.0.0.1

// IsAny returns true if the address is the IPv6 unspecified address “::” or
// the IPv4 address 0.0.0.0. Unix-domain addresses are never “any”.
func (a Addr) IsAny() bool {
	switch a.family {
	case FamilyIPv6:
		return a.ip == ipv6Unspecified
	case FamilyIPv4:
		return a.IPv4() == 0
	}
	return false
}

// IsLocal returns true if the address refers to the local host: the IPv6
// loopback or unspecified address, any Unix-domain address, or exactly the
// IPv4 address 127.0.0.1.
//
// Please note that other addresses from 127.0.0.0/8 are not considered to be
// local.
func (a Addr) IsLocal() bool {
	switch a.family {
	case FamilyIPv6:
		return a.ip == ipv6Loopback || a.ip == ipv6Unspecified
	case FamilyUnix:
		return true
	case FamilyIPv4:
		return a.IPv4() == ipv4Loopback
	}
	return false
}

// Equal returns true if both addresses are of the same family and refer to
// the same IP address or socket path. Ports are ignored, so an address
// matches any of our listening addresses regardless of the listening port.
func (a Addr) Equal(b Addr) bool {
	if a.family != b.family {
		return false
	}
	switch a.family {
	case FamilyUnix:
		return a.path == b.path
	case FamilyIPv6:
		return a.ip == b.ip
	case FamilyIPv4:
		return bytes.Equal(a.ip[:4], b.ip[:4])
	}
	return true
}
