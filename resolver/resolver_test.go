// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"context"
	"fmt"
	"net"
	"strings"
	"sync"

	"github.com/siemens/hostaddr/types"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var (
	v4a = types.IPv4(0xc0000201, 0) // 192.0.2.1
	v4b = types.IPv4(0xc0000202, 0) // 192.0.2.2
	v6a = types.IPv6FromWords([4]uint32{0x20010db8, 0, 0, 1}, 0)
	v6b = types.IPv6FromWords([4]uint32{0x20010db8, 0, 0, 2}, 0)
)

var _ = Describe("resolving names", func() {

	var fake *fakeFacility
	var r *Resolver

	BeforeEach(func() {
		fake = &fakeFacility{
			addrinfos: map[string][]AddrInfo{
				"dual.example.org": {
					{Addr: v4a, CanonName: "canon.example.org"},
					{Addr: v6a},
					{Addr: v4b},
					{Addr: v6b},
				},
				"v4.example.org": {
					{Addr: v4a, CanonName: "v4.example.org"},
					{Addr: v4b},
				},
				"nocanon.example.org": {
					{Addr: v6a},
				},
				"empty.example.org": {},
			},
			hosts: map[string]*types.HostEntry{
				"empty.example.org": {
					Name:   "legacy.example.org",
					Family: types.FamilyIPv4,
					Addrs:  [][]byte{{10, 0, 0, 1}},
				},
				"legacy.example.org": {
					Name:   "legacy.example.org",
					Family: types.FamilyIPv6,
					Addrs:  [][]byte{v6b.NetIP().AsSlice()},
				},
				"broken.example.org": {
					Name:   "broken.example.org",
					Family: types.FamilyIPv4,
					Addrs:  [][]byte{{10, 0, 0}},
				},
			},
		}
		r = New(WithFacilities(fake), WithCapabilities(Capabilities{IPv6: true, Unix: true}))
	})

	Context("literals", func() {

		It("never asks facilities", func(ctx context.Context) {
			for _, name := range []string{"localhost", "/tmp/sock", "[::1]", "127.0.0.1", "1.2.3", "[x]"} {
				_, _ = r.Resolve(ctx, name)
			}
			Expect(fake.addrinfoCalls.Load()).To(BeZero())
			Expect(fake.hostCalls.Load()).To(BeZero())
		})

		It("resolves localhost to 127.0.0.1", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "localhost"))
			Expect(rn.Family).To(Equal(types.FamilyIPv4))
			Expect(rn.Name).To(Equal("127.0.0.1"))
			Expect(rn.Addrs).To(HaveLen(1))
			lit := Successful(r.Resolve(ctx, "127.0.0.1"))
			Expect(rn.Addrs[0].Equal(lit.Addrs[0])).To(BeTrue())
			Expect(rn.Addrs[0].IsLocal()).To(BeTrue())
		})

		It("resolves Unix-domain socket paths", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "/run/cups/cups.sock"))
			Expect(rn.Name).To(Equal("/run/cups/cups.sock"))
			Expect(rn.Family).To(Equal(types.FamilyUnix))
			Expect(rn.Addrs).To(ConsistOf(HaveField("Path()", "/run/cups/cups.sock")))
		})

		It("rejects overlong Unix-domain socket paths", func(ctx context.Context) {
			Expect(r.Resolve(ctx, "/"+strings.Repeat("x", types.MaxUnixPathLen))).Error().To(
				And(MatchError(ErrParse), MatchError(types.ErrUnixPathTooLong)))
		})

		DescribeTable("resolves IPv6 bracket literals",
			func(ctx context.Context, literal string, words [4]uint32) {
				rn := Successful(r.Resolve(ctx, literal))
				Expect(rn.Name).To(Equal(literal))
				Expect(rn.Family).To(Equal(types.FamilyIPv6))
				Expect(rn.Addrs).To(HaveLen(1))
				Expect(rn.Addrs[0].Words()).To(Equal(words))
			},
			Entry(nil, "[2001:db8::1]", [4]uint32{0x2001, 0xdb8, 0, 1}),
			Entry(nil, "[20010db8:0:0:1]", [4]uint32{0x20010db8, 0, 0, 1}),
			Entry(nil, "[::1]", [4]uint32{0, 0, 1, 0}),
			Entry(nil, "[0:0:0:1]", [4]uint32{0, 0, 0, 1}),
			Entry(nil, "[1:2]", [4]uint32{1, 2, 0, 0}),
			Entry(nil, "[DEADBEEF]", [4]uint32{0xdeadbeef, 0, 0, 0}),
			Entry(nil, "[1:2", [4]uint32{1, 2, 0, 0}),
			Entry(nil, "[1:2:3:4", [4]uint32{1, 2, 3, 4}),
			Entry(nil, "[", [4]uint32{}),
		)

		DescribeTable("rejects malformed IPv6 bracket literals",
			func(ctx context.Context, literal string) {
				rn, err := r.Resolve(ctx, literal)
				Expect(err).To(MatchError(ErrParse))
				Expect(rn).To(BeNil())
				var perr *ParseError
				Expect(err).To(BeAssignableToTypeOf(perr))
			},
			Entry(nil, "[::1]x"),
			Entry(nil, "[1:2:3:4]]"),
			Entry(nil, "[1:2:3:4:5]"),
			Entry(nil, "[1:2:3:4:]"),
			Entry(nil, "[]"),
			Entry(nil, "[1:]"),
			Entry(nil, "[::]"),
			Entry(nil, "[1:2:3:]"),
			Entry(nil, "[1]]"),
			Entry(nil, "[1]2"),
			Entry(nil, "[g]"),
			Entry(nil, "[1.2.3.4]"),
			Entry(nil, "[123456789]"),
		)

		It("round-trips rendered IPv6 addresses", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, v6a.String()))
			Expect(rn.Addrs[0]).To(Equal(v6a))
		})

		DescribeTable("resolves and renders dotted quads",
			func(ctx context.Context, literal string) {
				rn := Successful(r.Resolve(ctx, literal))
				Expect(rn.Name).To(Equal(literal))
				Expect(rn.Family).To(Equal(types.FamilyIPv4))
				Expect(rn.Addrs).To(HaveLen(1))
				Expect(rn.Addrs[0].String()).To(Equal(literal))
			},
			Entry(nil, "0.0.0.0"),
			Entry(nil, "127.0.0.1"),
			Entry(nil, "192.168.1.254"),
			Entry(nil, "255.255.255.255"),
			Entry(nil, "10.20.30.40"),
		)

		It("round-trips all octet values", func(ctx context.Context) {
			for octet := 0; octet <= 255; octet++ {
				literal := fmt.Sprintf("%d.%d.%d.%d", octet, 255-octet, octet/2, 0)
				rn := Successful(r.Resolve(ctx, literal))
				Expect(rn.Addrs[0].String()).To(Equal(literal))
			}
		})

		It("packs octets big-endian", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "1.2.3.4"))
			Expect(rn.Addrs[0].IPv4()).To(Equal(uint32(0x01020304)))
			Expect(rn.Addrs[0].Port()).To(BeZero())
		})

		DescribeTable("rejects malformed dotted quads",
			func(ctx context.Context, literal string) {
				rn, err := r.Resolve(ctx, literal)
				Expect(err).To(MatchError(ErrParse))
				Expect(rn).To(BeNil())
			},
			Entry(nil, "1.2.3"),
			Entry(nil, "1.2.3.256"),
			Entry(nil, "1.2.3.4.5"),
			Entry(nil, "1..2.3"),
			Entry(nil, "99999999999.1.1.1"),
			Entry(nil, ""),
			Entry(nil, "."),
		)

	})

	Context("capabilities", func() {

		It("reports its capabilities", func() {
			Expect(r.Capabilities()).To(Equal(Capabilities{IPv6: true, Unix: true}))
			Expect(New().Capabilities()).To(Equal(DefaultCapabilities()))
		})

		It("detects IPv6 support", func() {
			l, err := net.Listen("tcp6", "[::1]:0")
			if err == nil {
				_ = l.Close()
			}
			caps := DefaultCapabilities()
			Expect(caps.IPv6).To(Equal(err == nil))
			Expect(caps.Unix).To(Equal(unixSocketsSupported))
			Expect(DefaultCapabilities()).To(Equal(caps))
		})

		It("looks up paths without Unix-domain support", func(ctx context.Context) {
			fake.addrinfos["/srv/sock"] = []AddrInfo{{Addr: v4a}}
			r := New(WithFacilities(fake), WithCapabilities(Capabilities{IPv6: true}))
			rn := Successful(r.Resolve(ctx, "/srv/sock"))
			Expect(rn.Family).To(Equal(types.FamilyIPv4))
			Expect(fake.addrinfoCalls.Load()).To(Equal(int32(1)))
		})

		It("looks up brackets without IPv6 support", func(ctx context.Context) {
			r := New(WithFacilities(fake), WithCapabilities(Capabilities{Unix: true}))
			Expect(r.Resolve(ctx, "[::1]")).Error().To(MatchError(ErrResolve))
			Expect(fake.addrinfoCalls.Load()).To(Equal(int32(1)))
		})

		It("ignores IPv6 answers without IPv6 support", func(ctx context.Context) {
			r := New(WithFacilities(fake), WithCapabilities(Capabilities{}))
			rn := Successful(r.Resolve(ctx, "dual.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv4))
			Expect(rn.Addrs).To(Equal([]types.Addr{v4a, v4b}))
		})

	})

	Context("lookups", func() {

		It("prefers IPv6 addresses, keeping their order", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "dual.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv6))
			Expect(rn.Addrs).To(Equal([]types.Addr{v6a, v6b}))
			Expect(rn.Name).To(Equal("canon.example.org"))
			Expect(fake.hostCalls.Load()).To(BeZero())
		})

		It("falls back to IPv4 addresses", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "v4.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv4))
			Expect(rn.Addrs).To(Equal([]types.Addr{v4a, v4b}))
			Expect(rn.Name).To(Equal("v4.example.org"))
		})

		It("uses the name looked up when there's no canonical name", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "nocanon.example.org"))
			Expect(rn.Name).To(Equal("nocanon.example.org"))
		})

		It("caps the number of addresses", func(ctx context.Context) {
			infos := make([]AddrInfo, 0, types.MaxAddrs+10)
			for idx := 0; idx < types.MaxAddrs+10; idx++ {
				infos = append(infos, AddrInfo{Addr: types.IPv4(uint32(0x0a000000+idx), 0)})
			}
			fake.addrinfos["many.example.org"] = infos
			rn := Successful(r.Resolve(ctx, "many.example.org"))
			Expect(rn.Addrs).To(HaveLen(types.MaxAddrs))
			Expect(rn.Addrs[types.MaxAddrs-1]).To(Equal(infos[types.MaxAddrs-1].Addr))
		})

		It("falls back to the legacy lookup for empty answers", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "empty.example.org"))
			Expect(rn.Name).To(Equal("legacy.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv4))
			Expect(rn.Addrs).To(Equal([]types.Addr{types.IPv4(0x0a000001, 0)}))
			Expect(fake.hostCalls.Load()).To(Equal(int32(1)))
		})

		It("passes legacy answers through as they are", func(ctx context.Context) {
			rn := Successful(r.Resolve(ctx, "legacy.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv6))
			Expect(rn.Addrs).To(Equal([]types.Addr{v6b}))
		})

		It("fails when all facilities fail", func(ctx context.Context) {
			fake.failAll = true
			rn, err := r.Resolve(ctx, "dual.example.org")
			Expect(rn).To(BeNil())
			Expect(err).To(And(MatchError(ErrResolve), MatchError(errNXDomain)))
			Expect(fake.addrinfoCalls.Load()).To(Equal(int32(1)))
			Expect(fake.hostCalls.Load()).To(Equal(int32(1)))
		})

		It("fails on malformed legacy answers", func(ctx context.Context) {
			Expect(r.Resolve(ctx, "broken.example.org")).Error().To(MatchError(ErrResolve))
		})

		It("fails without any facilities", func(ctx context.Context) {
			r := New(WithAddrInfoFacility(nil), WithHostFacility(nil))
			Expect(r.Resolve(ctx, "example.org")).Error().To(
				And(MatchError(ErrResolve), MatchError(ErrNoFacility)))
		})

		It("reports empty answers without legacy facility", func(ctx context.Context) {
			r := New(WithAddrInfoFacility(fake), WithHostFacility(nil))
			Expect(r.Resolve(ctx, "empty.example.org")).Error().To(
				And(MatchError(ErrResolve), MatchError(ErrNoAddresses)))
		})

		It("uses only the legacy facility when told so", func(ctx context.Context) {
			r := New(WithAddrInfoFacility(nil), WithHostFacility(fake))
			rn := Successful(r.Resolve(ctx, "legacy.example.org"))
			Expect(rn.Family).To(Equal(types.FamilyIPv6))
			Expect(fake.addrinfoCalls.Load()).To(BeZero())
		})

		It("returns independent results", func(ctx context.Context) {
			rn1 := Successful(r.Resolve(ctx, "dual.example.org"))
			rn2 := Successful(r.Resolve(ctx, "dual.example.org"))
			rn1.Addrs[0] = v4a
			rn1.Name = "foo"
			Expect(rn2.Addrs[0]).To(Equal(v6a))
			Expect(rn2.Name).To(Equal("canon.example.org"))
		})

		It("resolves concurrently", func(ctx context.Context) {
			const workers = 8
			var wg sync.WaitGroup
			wg.Add(workers)
			results := make([]*types.ResolvedName, workers)
			for idx := 0; idx < workers; idx++ {
				idx := idx
				go func() {
					defer GinkgoRecover()
					defer wg.Done()
					name := "dual.example.org"
					if idx%2 == 1 {
						name = fmt.Sprintf("10.0.0.%d", idx)
					}
					results[idx] = Successful(r.Resolve(ctx, name))
				}()
			}
			wg.Wait()
			for idx, rn := range results {
				if idx%2 == 1 {
					Expect(rn.Addrs[0].String()).To(Equal(fmt.Sprintf("10.0.0.%d", idx)))
					continue
				}
				Expect(rn.Addrs).To(Equal([]types.Addr{v6a, v6b}))
			}
		})

	})

})
