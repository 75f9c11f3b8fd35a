// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"encoding/json"
	"fmt"
)

// String renders the address without its port: IPv4 addresses in dotted-quad
// notation, Unix-domain addresses as their path, and IPv6 addresses as four
// bracketed hex words such as “[20010db8:0:0:1]”. This is not the canonical
// RFC 5952 notation, but it is what bracket literals parse back from. The zero
// Addr renders as “UNKNOWN”.
func (a Addr) String() string {
	switch a.family {
	case FamilyIPv6:
		w := a.Words()
		return fmt.Sprintf("[%x:%x:%x:%x]", w[0], w[1], w[2], w[3])
	case FamilyUnix:
		return a.path
	case FamilyIPv4:
		return fmt.Sprintf("%d.%d.%d.%d", a.ip[0], a.ip[1], a.ip[2], a.ip[3])
	}
	return "UNKNOWN"
}

// Format renders the address as [Addr.String] does, but truncated so that it
// fits into a (C) string buffer of the specified capacity, including the
// terminating NUL. A capacity of zero or less gives "".
func (a Addr) Format(capacity int) string {
	if capacity <= 0 {
		return ""
	}
	s := a.String()
	if len(s) >= capacity {
		s = s[:capacity-1]
	}
	return s
}

// Length returns the size in bytes of the platform socket address structure
// for this address. For Unix-domain addresses this is the size of the family
// tag plus the path length, without any terminating NUL. The zero Addr has
// length 0.
func (a Addr) Length() int {
	switch a.family {
	case FamilyIPv6:
		return sizeofSockaddrInet6
	case FamilyUnix:
		return sizeofFamilyTag + len(a.path)
	case FamilyIPv4:
		return sizeofSockaddrInet4
	}
	return 0
}

// MarshalJSON renders the address as a JSON object with the family, the
// address in [Addr.String] notation, and the port where applicable.
func (a Addr) MarshalJSON() ([]byte, error) {
	v := struct {
		Family  Family  `json:"family"`
		Address string  `json:"address"`
		Port    *uint16 `json:"port,omitempty"`
	}{
		Family:  a.family,
		Address: a.String(),
	}
	if a.family == FamilyIPv4 || a.family == FamilyIPv6 {
		port := a.port
		v.Port = &port
	}
	return json.Marshal(v)
}
