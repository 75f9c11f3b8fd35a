// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import "fmt"

// Family identifies the kind of network address stored in an [Addr].
type Family uint8

// The address families an Addr can take on.
const (
	FamilyUnspec Family = iota // zero Addr; no address at all.
	FamilyIPv4
	FamilyIPv6
	FamilyUnix // Unix-domain socket path.
)

// String returns the clear-text representation of a Family value.
func (f Family) String() string {
	switch f {
	case FamilyUnspec:
		return "unspec"
	case FamilyIPv4:
		return "ipv4"
	case FamilyIPv6:
		return "ipv6"
	case FamilyUnix:
		return "unix"
	}
	return fmt.Sprintf("Family(%d)", f)
}

// MarshalText renders the family in its clear-text representation.
func (f Family) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}
