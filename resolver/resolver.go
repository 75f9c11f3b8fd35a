// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"strings"

	"github.com/siemens/hostaddr/types"

	"github.com/thediveo/lxkns/log"
)

// Resolver resolves names into [types.ResolvedName] information, and
// addresses back into names. A Resolver has no mutable state, so it can be
// used concurrently without further ado. Each call returns its own result.
//
// All calls block until the resolver facilities have answered; callers
// needing bounded latency should pass a context with a deadline.
type Resolver struct {
	caps     Capabilities
	addrinfo AddrInfoFacility
	host     HostFacility
	reverse  ReverseFacility
	hostname HostnameFacility
}

// Option can be passed to New when creating new [Resolver] objects.
type Option func(*Resolver)

// New returns a new Resolver. Unless configured otherwise using options, the
// new Resolver uses the [System] facilities and the platform's
// [DefaultCapabilities].
//
//   - [WithCapabilities]
//   - [WithFacilities]
//   - [WithAddrInfoFacility], [WithHostFacility], [WithReverseFacility],
//     [WithHostnameFacility]
func New(options ...Option) *Resolver {
	sys := &System{}
	r := &Resolver{
		caps:     DefaultCapabilities(),
		addrinfo: sys,
		host:     sys,
		reverse:  sys,
		hostname: sys,
	}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// WithCapabilities overrides the platform capabilities.
func WithCapabilities(caps Capabilities) Option {
	return func(r *Resolver) {
		r.caps = caps
	}
}

// WithFacilities uses the specified object for all resolver facilities it
// implements, that is, [AddrInfoFacility], [HostFacility], [ReverseFacility],
// and [HostnameFacility]. Facilities not implemented are left as they are.
func WithFacilities(f any) Option {
	return func(r *Resolver) {
		if ai, ok := f.(AddrInfoFacility); ok {
			r.addrinfo = ai
		}
		if h, ok := f.(HostFacility); ok {
			r.host = h
		}
		if rev, ok := f.(ReverseFacility); ok {
			r.reverse = rev
		}
		if hn, ok := f.(HostnameFacility); ok {
			r.hostname = hn
		}
	}
}

// WithAddrInfoFacility sets the modern lookup facility; nil disables it, so
// that names are always resolved using the legacy facility.
func WithAddrInfoFacility(f AddrInfoFacility) Option {
	return func(r *Resolver) {
		r.addrinfo = f
	}
}

// WithHostFacility sets the legacy lookup facility; nil disables it.
func WithHostFacility(f HostFacility) Option {
	return func(r *Resolver) {
		r.host = f
	}
}

// WithReverseFacility sets the reverse lookup facility; nil disables reverse
// lookups, so that addresses always map to their literal names.
func WithReverseFacility(f ReverseFacility) Option {
	return func(r *Resolver) {
		r.reverse = f
	}
}

// WithHostnameFacility sets the facility for retrieving the local host name.
func WithHostnameFacility(f HostnameFacility) Option {
	return func(r *Resolver) {
		r.hostname = f
	}
}

// Capabilities returns the capabilities of this Resolver.
func (r *Resolver) Capabilities() Capabilities { return r.caps }

// Resolve resolves a name, which can be a Unix-domain socket path, a
// bracketed IPv6 literal, a dotted-quad IPv4 literal, or a DNS name. The
// first matching rule wins:
//
//  1. “localhost” is always taken to be 127.0.0.1, so there's no resolver
//     round trip and no chance of misconfiguration.
//  2. names starting with “/” are Unix-domain socket paths (if supported),
//     without checking the path for existence.
//  3. names starting with “[” are IPv6 bracket literals (if supported); see
//     [types.Addr.String] for their notation.
//  4. names consisting only of digits and dots are dotted-quad IPv4
//     literals.
//  5. anything else gets looked up by the modern resolver facility for IPv6
//     and IPv4 addresses, preferring the IPv6 addresses. If this fails or
//     there are neither IPv6 nor IPv4 addresses, the legacy resolver facility
//     is tried and its answer passed back as is.
//
// Malformed literals result in a [ParseError]; names that cannot be resolved
// in a [ResolveError]. No partial results are ever returned.
func (r *Resolver) Resolve(ctx context.Context, name string) (*types.ResolvedName, error) {
	if name == "localhost" {
		name = "127.0.0.1"
	}
	switch {
	case r.caps.Unix && strings.HasPrefix(name, "/"):
		addr, err := types.UnixPath(name)
		if err != nil {
			return nil, &ParseError{Input: name, Err: err}
		}
		log.Debugf("resolved %q as Unix-domain socket path", name)
		return single(name, addr), nil
	case r.caps.IPv6 && strings.HasPrefix(name, "["):
		words, err := parseBracketLiteral(name)
		if err != nil {
			return nil, &ParseError{Input: name, Err: err}
		}
		log.Debugf("resolved %q as IPv6 literal", name)
		return single(name, types.IPv6FromWords(words, 0)), nil
	case isDottedQuadCandidate(name):
		ip, err := parseDottedQuad(name)
		if err != nil {
			return nil, &ParseError{Input: name, Err: err}
		}
		log.Debugf("resolved %q as IPv4 literal", name)
		return single(name, types.IPv4(ip, 0)), nil
	}
	return r.lookup(ctx, name)
}

// single returns a ResolvedName with only a single address.
func single(name string, addr types.Addr) *types.ResolvedName {
	return &types.ResolvedName{
		Name:   name,
		Family: addr.Family(),
		Addrs:  []types.Addr{addr},
	}
}

// lookup resolves a (DNS) name using the modern facility, falling back onto
// the legacy facility if necessary.
func (r *Resolver) lookup(ctx context.Context, name string) (*types.ResolvedName, error) {
	err := ErrNoFacility
	if r.addrinfo != nil {
		var infos []AddrInfo
		infos, err = r.addrinfo.LookupAddrInfo(ctx, name)
		if err == nil {
			if rn := r.selectAddrInfos(name, infos); rn != nil {
				log.Debugf("resolved %q into %d %s address(es)", name, len(rn.Addrs), rn.Family)
				return rn, nil
			}
			err = ErrNoAddresses
		}
		log.Debugf("lookup of %q failed, falling back to legacy lookup: %s", name, err.Error())
	}
	if r.host == nil {
		return nil, &ResolveError{Name: name, Err: err}
	}
	host, err := r.host.LookupHost(ctx, name)
	if err != nil {
		return nil, &ResolveError{Name: name, Err: err}
	}
	rn, err := host.ToResolvedName()
	if err != nil {
		return nil, &ResolveError{Name: name, Err: err}
	}
	log.Debugf("legacy lookup resolved %q into %d %s address(es)", name, len(rn.Addrs), rn.Family)
	return rn, nil
}

// selectAddrInfos picks the family to use from the addresses returned by a
// modern lookup, preferring IPv6 over IPv4, and then collects all addresses
// of this family in their original order. It returns nil if there are
// neither IPv6 nor IPv4 addresses.
func (r *Resolver) selectAddrInfos(name string, infos []AddrInfo) *types.ResolvedName {
	chosen := -1
	if r.caps.IPv6 {
		chosen = indexOfFamily(infos, types.FamilyIPv6)
	}
	if chosen < 0 {
		chosen = indexOfFamily(infos, types.FamilyIPv4)
		if chosen < 0 {
			return nil
		}
	}
	family := infos[chosen].Addr.Family()
	rn := &types.ResolvedName{
		Name:   canonName(name, infos, chosen),
		Family: family,
	}
	for _, info := range infos {
		if len(rn.Addrs) >= types.MaxAddrs {
			break
		}
		if info.Addr.Family() == family {
			rn.Addrs = append(rn.Addrs, info.Addr)
		}
	}
	return rn
}

// canonName returns the canonical name reported with the chosen answer. As
// facilities might report the canonical name only with the first answer, it
// otherwise takes the first canonical name reported at all, and finally the
// name as looked up.
func canonName(name string, infos []AddrInfo, chosen int) string {
	if cn := infos[chosen].CanonName; cn != "" {
		return cn
	}
	for _, info := range infos {
		if info.CanonName != "" {
			return info.CanonName
		}
	}
	return name
}

func indexOfFamily(infos []AddrInfo, family types.Family) int {
	for idx, info := range infos {
		if info.Addr.Family() == family {
			return idx
		}
	}
	return -1
}
