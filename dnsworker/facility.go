// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dnsworker

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/siemens/hostaddr/resolver"
	"github.com/siemens/hostaddr/types"

	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// ErrNoAnswers is returned when a DNS server answered successfully, but
// without any records of the requested type.
var ErrNoAnswers = errors.New("no answers")

// Facility implements the [resolver.AddrInfoFacility],
// [resolver.HostFacility], and [resolver.ReverseFacility] on top of a
// [DnsPool], talking DNS directly to the pool's DNS server. Names are always
// taken to be fully qualified, so there is no search list processing.
type Facility struct {
	pool *DnsPool
}

var (
	_ resolver.AddrInfoFacility = (*Facility)(nil)
	_ resolver.HostFacility     = (*Facility)(nil)
	_ resolver.ReverseFacility  = (*Facility)(nil)
)

// NewFacility returns a new resolver Facility using the specified DNS pool.
func NewFacility(pool *DnsPool) *Facility {
	return &Facility{pool: pool}
}

// answer is what we learned from a single A or AAAA query.
type answer struct {
	canon string
	ips   []netip.Addr
}

// query sends a single query of the specified type for the specified name,
// returning the answer message. Response codes other than success are
// reported as errors.
func (f *Facility) query(ctx context.Context, name string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(name), qtype)
	r, err := f.pool.Exchange(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s query for %q failed: %w",
			dns.TypeToString[qtype], name, err)
	}
	if r.Rcode != dns.RcodeSuccess {
		return nil, fmt.Errorf("%s query for %q failed: %s",
			dns.TypeToString[qtype], name, dns.RcodeToString[r.Rcode])
	}
	return r, nil
}

// lookupIP queries the A or AAAA records for the specified name, following
// CNAME records in the answer section to determine the canonical name.
func (f *Facility) lookupIP(ctx context.Context, name string, qtype uint16) (*answer, error) {
	r, err := f.query(ctx, name, qtype)
	if err != nil {
		return nil, err
	}
	ans := &answer{canon: dns.Fqdn(name)}
	for _, rr := range r.Answer {
		switch rr := rr.(type) {
		case *dns.CNAME:
			if strings.EqualFold(rr.Hdr.Name, ans.canon) {
				ans.canon = rr.Target
			}
		case *dns.A:
			if ip, ok := netip.AddrFromSlice(rr.A.To4()); ok {
				ans.ips = append(ans.ips, ip)
			}
		case *dns.AAAA:
			if ip, ok := netip.AddrFromSlice(rr.AAAA.To16()); ok {
				ans.ips = append(ans.ips, ip)
			}
		}
	}
	ans.canon = strings.TrimSuffix(ans.canon, ".")
	return ans, nil
}

// LookupAddrInfo queries the A and then AAAA records of the specified name.
// An error is returned only if both queries fail.
func (f *Facility) LookupAddrInfo(ctx context.Context, name string) ([]resolver.AddrInfo, error) {
	var infos []resolver.AddrInfo
	var errs []error
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		ans, err := f.lookupIP(ctx, name, qtype)
		if err != nil {
			log.Debugf("%s", err.Error())
			errs = append(errs, err)
			continue
		}
		for _, ip := range ans.ips {
			infos = append(infos, resolver.AddrInfo{
				Addr:      types.FromNetIP(ip, 0),
				CanonName: ans.canon,
			})
		}
	}
	if len(errs) == 2 {
		return nil, errors.Join(errs...)
	}
	return infos, nil
}

// LookupHost queries the A records of the specified name.
func (f *Facility) LookupHost(ctx context.Context, name string) (*types.HostEntry, error) {
	ans, err := f.lookupIP(ctx, name, dns.TypeA)
	if err != nil {
		return nil, err
	}
	if len(ans.ips) == 0 {
		return nil, fmt.Errorf("A query for %q: %w", name, ErrNoAnswers)
	}
	return types.NewHostEntry(ans.canon, types.FamilyIPv4, ans.ips), nil
}

// LookupAddr queries the PTR records of the specified IP address.
func (f *Facility) LookupAddr(ctx context.Context, addr types.Addr) ([]string, error) {
	ip := addr.NetIP()
	if !ip.IsValid() {
		return nil, fmt.Errorf("cannot reverse lookup %s address", addr.Family())
	}
	arpa, err := dns.ReverseAddr(ip.String())
	if err != nil {
		return nil, err
	}
	r, err := f.query(ctx, arpa, dns.TypePTR)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, rr := range r.Answer {
		if ptr, ok := rr.(*dns.PTR); ok {
			names = append(names, ptr.Ptr)
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("PTR query for %s: %w", ip, ErrNoAnswers)
	}
	return names, nil
}
