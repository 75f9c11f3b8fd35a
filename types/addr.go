// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"
)

// ErrUnixPathTooLong is returned when a Unix-domain socket path does not fit
// into the platform's socket address structure.
var ErrUnixPathTooLong = errors.New("unix-domain socket path too long")

// Addr is a single network endpoint: either an IPv4 address with port, an
// IPv6 address with port, or a Unix-domain socket path. The zero Addr has
// family [FamilyUnspec] and renders as "UNKNOWN".
//
// Addr values are immutable and comparable; two Addr values compare == only
// if they also have the same port. Use [Addr.Equal] to compare the endpoint
// addresses only.
type Addr struct {
	family Family
	port   uint16
	ip     [16]byte // IPv4 uses the first 4 bytes, in network order.
	path   string
}

// IPv4 returns an IPv4 Addr for the specified numeric address value (that
// is, 127.0.0.1 is 0x7f000001) and port.
func IPv4(addr uint32, port uint16) Addr {
	a := Addr{family: FamilyIPv4, port: port}
	binary.BigEndian.PutUint32(a.ip[:4], addr)
	return a
}

// IPv4From4 returns an IPv4 Addr from the four address octets in network
// order.
func IPv4From4(octets [4]byte, port uint16) Addr {
	a := Addr{family: FamilyIPv4, port: port}
	copy(a.ip[:4], octets[:])
	return a
}

// IPv6From16 returns an IPv6 Addr from the 16 address bytes in network order.
func IPv6From16(b [16]byte, port uint16) Addr {
	return Addr{family: FamilyIPv6, port: port, ip: b}
}

// IPv6FromWords returns an IPv6 Addr from four 32-bit words, with words[0]
// being the most significant word.
func IPv6FromWords(words [4]uint32, port uint16) Addr {
	a := Addr{family: FamilyIPv6, port: port}
	for i, w := range words {
		binary.BigEndian.PutUint32(a.ip[i*4:], w)
	}
	return a
}

// UnixPath returns a Unix-domain Addr for the specified socket path. The path
// is taken as is, without checking for its existence. It must be shorter than
// [MaxUnixPathLen].
func UnixPath(path string) (Addr, error) {
	if len(path) >= MaxUnixPathLen {
		return Addr{}, fmt.Errorf("%w: %d bytes, maximum is %d",
			ErrUnixPathTooLong, len(path), MaxUnixPathLen-1)
	}
	return Addr{family: FamilyUnix, path: path}, nil
}

// FromNetIP returns an Addr for the specified IP address and port. IPv4 and
// IPv4-mapped IPv6 addresses become IPv4 Addrs. An invalid IP address results
// in the zero Addr.
func FromNetIP(ip netip.Addr, port uint16) Addr {
	switch {
	case !ip.IsValid():
		return Addr{}
	case ip.Is4() || ip.Is4In6():
		return IPv4From4(ip.Unmap().As4(), port)
	}
	return IPv6From16(ip.As16(), port)
}

// Family returns the address family.
func (a Addr) Family() Family { return a.family }

// Port returns the port number of IP addresses; Unix-domain addresses always
// return 0.
func (a Addr) Port() uint16 { return a.port }

// WithPort returns a copy of the address with the port changed. Unix-domain
// and unspecified addresses are returned unchanged.
func (a Addr) WithPort(port uint16) Addr {
	switch a.family {
	case FamilyIPv4, FamilyIPv6:
		a.port = port
	}
	return a
}

// IPv4 returns the numeric IPv4 address value; it is 0 for other families.
func (a Addr) IPv4() uint32 {
	if a.family != FamilyIPv4 {
		return 0
	}
	return binary.BigEndian.Uint32(a.ip[:4])
}

// Words returns the IPv6 address as four 32-bit words in host order, most
// significant word first. It returns all zeros for other families.
func (a Addr) Words() (words [4]uint32) {
	if a.family != FamilyIPv6 {
		return
	}
	for i := range words {
		words[i] = binary.BigEndian.Uint32(a.ip[i*4:])
	}
	return
}

// Path returns the Unix-domain socket path, or "" for other families.
func (a Addr) Path() string { return a.path }

// NetIP returns the IP address of an IPv4 or IPv6 Addr. For Unix-domain and
// unspecified addresses it returns the invalid zero netip.Addr.
func (a Addr) NetIP() netip.Addr {
	switch a.family {
	case FamilyIPv4:
		return netip.AddrFrom4([4]byte(a.ip[:4]))
	case FamilyIPv6:
		return netip.AddrFrom16(a.ip)
	}
	return netip.Addr{}
}

// IsValid returns true if the address is not the zero (unspecified family)
// address.
func (a Addr) IsValid() bool { return a.family != FamilyUnspec }
