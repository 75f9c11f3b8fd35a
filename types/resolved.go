// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"fmt"
	"net/netip"
)

// MaxAddrs is the maximum number of addresses collected into a ResolvedName
// from a resolver answer.
const MaxAddrs = 100

// ResolvedName is the outcome of resolving a name: the canonical name as
// reported by the resolver, together with the addresses found in the order
// the resolver reported them. All addresses share the same family. Each
// resolution returns its own ResolvedName, so callers are free to keep or
// modify it.
type ResolvedName struct {
	Name   string `json:"name"`      // canonical name, or the literal as given.
	Family Family `json:"family"`    // family of all addresses.
	Addrs  []Addr `json:"addresses"` // resolved addresses, in discovery order.
}

// WithPort returns a copy of the resolved name with the port of all
// addresses set to the specified port.
func (rn *ResolvedName) WithPort(port uint16) *ResolvedName {
	addrs := make([]Addr, len(rn.Addrs))
	for idx, addr := range rn.Addrs {
		addrs[idx] = addr.WithPort(port)
	}
	return &ResolvedName{
		Name:   rn.Name,
		Family: rn.Family,
		Addrs:  addrs,
	}
}

// HostEntry is a host database entry as returned by a single-family resolver
// facility: the official name, the address family, and the list of raw
// addresses. IPv4 addresses take 4 bytes, IPv6 addresses 16 bytes, and
// Unix-domain addresses carry the socket path bytes.
type HostEntry struct {
	Name   string
	Family Family
	Addrs  [][]byte
}

// Load returns the n-th address of the host entry as an Addr with the
// specified port. The port is ignored for Unix-domain addresses.
func (h *HostEntry) Load(port uint16, n int) (Addr, error) {
	if n < 0 || n >= len(h.Addrs) {
		return Addr{}, fmt.Errorf("host entry %q has no address #%d", h.Name, n)
	}
	raw := h.Addrs[n]
	switch h.Family {
	case FamilyIPv4:
		if len(raw) != 4 {
			return Addr{}, fmt.Errorf("host entry %q: invalid IPv4 address length %d", h.Name, len(raw))
		}
		return IPv4From4([4]byte(raw), port), nil
	case FamilyIPv6:
		if len(raw) != 16 {
			return Addr{}, fmt.Errorf("host entry %q: invalid IPv6 address length %d", h.Name, len(raw))
		}
		return IPv6From16([16]byte(raw), port), nil
	case FamilyUnix:
		return UnixPath(string(raw))
	}
	return Addr{}, fmt.Errorf("host entry %q: unsupported address family %s", h.Name, h.Family)
}

// ToResolvedName converts the host entry into a ResolvedName, keeping the
// name, the family and all addresses as they are.
func (h *HostEntry) ToResolvedName() (*ResolvedName, error) {
	rn := &ResolvedName{
		Name:   h.Name,
		Family: h.Family,
		Addrs:  make([]Addr, 0, len(h.Addrs)),
	}
	for idx := range h.Addrs {
		addr, err := h.Load(0, idx)
		if err != nil {
			return nil, err
		}
		rn.Addrs = append(rn.Addrs, addr)
	}
	return rn, nil
}

// NewHostEntry returns a host entry of the specified family, filled with
// those IP addresses that belong to this family. Addresses of other families
// are skipped.
func NewHostEntry(name string, family Family, ips []netip.Addr) *HostEntry {
	h := &HostEntry{Name: name, Family: family}
	for _, ip := range ips {
		switch {
		case family == FamilyIPv4 && (ip.Is4() || ip.Is4In6()):
			b := ip.Unmap().As4()
			h.Addrs = append(h.Addrs, b[:])
		case family == FamilyIPv6 && ip.Is6() && !ip.Is4In6():
			b := ip.As16()
			h.Addrs = append(h.Addrs, b[:])
		}
	}
	return h
}
