// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"strings"

	"github.com/siemens/hostaddr/types"

	"github.com/thediveo/lxkns/log"
)

// LookupName returns the name of an address. Unix-domain addresses are their
// own names. For IP addresses the reverse lookup facility is asked; if it
// doesn't know a name, LookupName still returns the address in its
// [types.Addr.String] notation, but together with an error matching
// [ErrReverseLookup]. So callers always get something to display.
func (r *Resolver) LookupName(ctx context.Context, addr types.Addr) (string, error) {
	switch addr.Family() {
	case types.FamilyUnix:
		return addr.Path(), nil
	case types.FamilyIPv4, types.FamilyIPv6:
		if r.reverse == nil {
			return addr.String(), fmt.Errorf("%w for %s: %w", ErrReverseLookup, addr, ErrNoFacility)
		}
		names, err := r.reverse.LookupAddr(ctx, addr)
		if err != nil {
			log.Debugf("reverse lookup of %s failed: %s", addr, err.Error())
			return addr.String(), fmt.Errorf("%w for %s: %w", ErrReverseLookup, addr, err)
		}
		for _, name := range names {
			if name = strings.TrimSuffix(name, "."); name != "" {
				return name, nil
			}
		}
		return addr.String(), fmt.Errorf("%w for %s: no names", ErrReverseLookup, addr)
	}
	return addr.String(), fmt.Errorf("%w for %s address", ErrReverseLookup, addr.Family())
}

// LocalFQDN returns the name of the local host, as fully qualified as
// possible. If the host name isn't already qualified (that is, it has no
// dots) then the host name is looked up and its canonical name used instead,
// if any. LocalFQDN always returns a usable name, falling back to “localhost”
// when even the host name is unavailable.
func (r *Resolver) LocalFQDN(ctx context.Context) string {
	var hostname string
	if r.hostname != nil {
		hostname, _ = r.hostname.Hostname()
	}
	if hostname == "" {
		return "localhost"
	}
	if strings.Contains(hostname, ".") {
		return hostname
	}
	if canon := r.canonicalHostname(ctx, hostname); canon != "" {
		log.Debugf("qualified host name %q as %q", hostname, canon)
		return canon
	}
	return hostname
}

// canonicalHostname looks up the canonical name of a host name, preferring
// the legacy facility. It returns "" if the canonical name is unknown.
func (r *Resolver) canonicalHostname(ctx context.Context, hostname string) string {
	if r.host != nil {
		if host, err := r.host.LookupHost(ctx, hostname); err == nil {
			return host.Name
		}
		return ""
	}
	if r.addrinfo != nil {
		if infos, err := r.addrinfo.LookupAddrInfo(ctx, hostname); err == nil {
			for _, info := range infos {
				if info.CanonName != "" {
					return info.CanonName
				}
			}
		}
	}
	return ""
}
