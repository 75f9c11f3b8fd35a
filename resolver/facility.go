// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"net"
	"os"
	"strings"

	"github.com/siemens/hostaddr/types"

	"github.com/thediveo/lxkns/log"
)

// AddrInfo is a single answer of an [AddrInfoFacility]: one address, together
// with the canonical name of the name looked up.
type AddrInfo struct {
	Addr      types.Addr
	CanonName string // might be empty
}

// AddrInfoFacility looks up the IPv4 as well as IPv6 addresses of a name in
// one go, in the style of getaddrinfo(3).
type AddrInfoFacility interface {
	LookupAddrInfo(ctx context.Context, name string) ([]AddrInfo, error)
}

// HostFacility looks up the addresses of a name in the style of
// gethostbyname(3): the answer contains addresses of a single family only,
// and it is taken as is.
type HostFacility interface {
	LookupHost(ctx context.Context, name string) (*types.HostEntry, error)
}

// ReverseFacility looks up the names of an IP address.
type ReverseFacility interface {
	LookupAddr(ctx context.Context, addr types.Addr) ([]string, error)
}

// HostnameFacility returns the (short) host name of the host we're running on.
type HostnameFacility interface {
	Hostname() (string, error)
}

// System implements all resolver facilities on top of a [net.Resolver] and
// os.Hostname. The zero System uses [net.DefaultResolver].
type System struct {
	Resolver *net.Resolver
}

var (
	_ AddrInfoFacility = (*System)(nil)
	_ HostFacility     = (*System)(nil)
	_ ReverseFacility  = (*System)(nil)
	_ HostnameFacility = (*System)(nil)
)

func (s *System) resolver() *net.Resolver {
	if s.Resolver != nil {
		return s.Resolver
	}
	return net.DefaultResolver
}

// canonName returns the canonical name of the specified name, falling back to
// the name itself if there is no CNAME information.
func (s *System) canonName(ctx context.Context, name string) string {
	cname, err := s.resolver().LookupCNAME(ctx, name)
	if err != nil || cname == "" {
		return name
	}
	return strings.TrimSuffix(cname, ".")
}

// LookupAddrInfo returns the IPv4 and IPv6 addresses of the specified name,
// together with its canonical name.
func (s *System) LookupAddrInfo(ctx context.Context, name string) ([]AddrInfo, error) {
	ips, err := s.resolver().LookupNetIP(ctx, "ip", name)
	if err != nil {
		return nil, err
	}
	canon := s.canonName(ctx, name)
	infos := make([]AddrInfo, 0, len(ips))
	for _, ip := range ips {
		infos = append(infos, AddrInfo{
			Addr:      types.FromNetIP(ip, 0),
			CanonName: canon,
		})
	}
	return infos, nil
}

// LookupHost returns the IPv4 addresses of the specified name, together with
// its canonical name.
func (s *System) LookupHost(ctx context.Context, name string) (*types.HostEntry, error) {
	ips, err := s.resolver().LookupNetIP(ctx, "ip4", name)
	if err != nil {
		return nil, err
	}
	return types.NewHostEntry(s.canonName(ctx, name), types.FamilyIPv4, ips), nil
}

// LookupAddr returns the names for the specified IP address.
func (s *System) LookupAddr(ctx context.Context, addr types.Addr) ([]string, error) {
	return s.resolver().LookupAddr(ctx, addr.NetIP().String())
}

// Hostname returns the host name as reported by the kernel.
func (s *System) Hostname() (string, error) {
	name, err := os.Hostname()
	if err != nil {
		log.Debugf("cannot determine host name: %s", err.Error())
	}
	return name, err
}
