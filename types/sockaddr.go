// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

//go:build linux || darwin || freebsd || netbsd || openbsd

package types

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// FromSockaddr loads an Addr from a raw platform socket address, such as
// returned by unix.Getsockname or unix.Accept.
func FromSockaddr(sa unix.Sockaddr) (Addr, error) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		return IPv4From4(sa.Addr, uint16(sa.Port)), nil
	case *unix.SockaddrInet6:
		return IPv6From16(sa.Addr, uint16(sa.Port)), nil
	case *unix.SockaddrUnix:
		return UnixPath(sa.Name)
	}
	return Addr{}, fmt.Errorf("unsupported socket address type %T", sa)
}

// Sockaddr returns the raw platform socket address for this Addr, suitable
// for unix.Connect and unix.Bind.
func (a Addr) Sockaddr() (unix.Sockaddr, error) {
	switch a.family {
	case FamilyIPv4:
		sa := &unix.SockaddrInet4{Port: int(a.port)}
		copy(sa.Addr[:], a.ip[:4])
		return sa, nil
	case FamilyIPv6:
		return &unix.SockaddrInet6{Port: int(a.port), Addr: a.ip}, nil
	case FamilyUnix:
		return &unix.SockaddrUnix{Name: a.path}, nil
	}
	return nil, fmt.Errorf("cannot convert %s address into a socket address", a.family)
}
