// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package types

import (
	"net/netip"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/thediveo/success"
)

var _ = Describe("addresses", func() {

	It("has a useless zero value", func() {
		var a Addr
		Expect(a.IsValid()).To(BeFalse())
		Expect(a.Family()).To(Equal(FamilyUnspec))
		Expect(a.NetIP().IsValid()).To(BeFalse())
		Expect(a.WithPort(42).Port()).To(BeZero())
	})

	It("creates IPv4 addresses", func() {
		a := IPv4(0xc0000201, 631)
		Expect(a.Family()).To(Equal(FamilyIPv4))
		Expect(a.Port()).To(Equal(uint16(631)))
		Expect(a.IPv4()).To(Equal(uint32(0xc0000201)))
		Expect(a.NetIP()).To(Equal(netip.MustParseAddr("192.0.2.1")))
		Expect(IPv4From4([4]byte{192, 0, 2, 1}, 631)).To(Equal(a))
		Expect(a.Words()).To(Equal([4]uint32{}))
	})

	It("creates IPv6 addresses", func() {
		a := IPv6FromWords([4]uint32{0x20010db8, 0, 0, 1}, 80)
		Expect(a.Family()).To(Equal(FamilyIPv6))
		Expect(a.Words()).To(Equal([4]uint32{0x20010db8, 0, 0, 1}))
		Expect(a.NetIP()).To(Equal(netip.MustParseAddr("2001:db8::1")))
		Expect(IPv6From16(netip.MustParseAddr("2001:db8::1").As16(), 80)).To(Equal(a))
		Expect(a.IPv4()).To(BeZero())
	})

	It("creates Unix-domain addresses", func() {
		a := Successful(UnixPath("/run/cups/cups.sock"))
		Expect(a.Family()).To(Equal(FamilyUnix))
		Expect(a.Path()).To(Equal("/run/cups/cups.sock"))
		Expect(a.WithPort(631)).To(Equal(a))

		Expect(UnixPath(strings.Repeat("x", MaxUnixPathLen-1))).Error().NotTo(HaveOccurred())
		Expect(UnixPath(strings.Repeat("x", MaxUnixPathLen))).Error().To(MatchError(ErrUnixPathTooLong))
	})

	DescribeTable("converts from netip addresses",
		func(ip string, expected Addr) {
			Expect(FromNetIP(netip.MustParseAddr(ip), 8080)).To(Equal(expected))
		},
		Entry("IPv4", "127.0.0.1", IPv4(0x7f000001, 8080)),
		Entry("IPv4-mapped IPv6", "::ffff:127.0.0.1", IPv4(0x7f000001, 8080)),
		Entry("IPv6", "::1", IPv6FromWords([4]uint32{0, 0, 0, 1}, 8080)),
	)

	It("doesn't convert invalid netip addresses", func() {
		Expect(FromNetIP(netip.Addr{}, 1).IsValid()).To(BeFalse())
	})

	It("renders families", func() {
		Expect(FamilyIPv4.String()).To(Equal("ipv4"))
		Expect(FamilyIPv6.String()).To(Equal("ipv6"))
		Expect(FamilyUnix.String()).To(Equal("unix"))
		Expect(FamilyUnspec.String()).To(Equal("unspec"))
		Expect(Family(42).String()).To(Equal("Family(42)"))
	})

	DescribeTable("checks for the any address",
		func(a Addr, expected bool) {
			Expect(a.IsAny()).To(Equal(expected))
		},
		Entry("0.0.0.0", IPv4(0, 631), true),
		Entry("127.0.0.1", IPv4(0x7f000001, 0), false),
		Entry("::", IPv6FromWords([4]uint32{}, 0), true),
		Entry("::1", IPv6FromWords([4]uint32{0, 0, 0, 1}, 0), false),
		Entry("unix", Successful(UnixPath("/")), false),
		Entry("zero", Addr{}, false),
	)

	DescribeTable("checks for the local address",
		func(a Addr, expected bool) {
			Expect(a.IsLocal()).To(Equal(expected))
		},
		Entry("127.0.0.1", IPv4(0x7f000001, 631), true),
		Entry("127.0.0.2", IPv4(0x7f000002, 631), false),
		Entry("127.1.0.1", IPv4(0x7f010001, 631), false),
		Entry("0.0.0.0", IPv4(0, 0), false),
		Entry("::1", IPv6FromWords([4]uint32{0, 0, 0, 1}, 0), true),
		Entry("::", IPv6FromWords([4]uint32{}, 0), true),
		Entry("2001:db8::1", IPv6FromWords([4]uint32{0x20010db8, 0, 0, 1}, 0), false),
		Entry("unix", Successful(UnixPath("/tmp/socket")), true),
		Entry("zero", Addr{}, false),
	)

	DescribeTable("compares addresses",
		func(a, b Addr, expected bool) {
			Expect(a.Equal(b)).To(Equal(expected))
			Expect(b.Equal(a)).To(Equal(expected))
		},
		Entry("same IPv4, different ports", IPv4(0x0a000001, 1), IPv4(0x0a000001, 2), true),
		Entry("different IPv4", IPv4(0x0a000001, 1), IPv4(0x0a000002, 1), false),
		Entry("same IPv6, different ports",
			IPv6FromWords([4]uint32{1, 2, 3, 4}, 1), IPv6FromWords([4]uint32{1, 2, 3, 4}, 2), true),
		Entry("different IPv6",
			IPv6FromWords([4]uint32{1, 2, 3, 4}, 1), IPv6FromWords([4]uint32{1, 2, 3, 5}, 1), false),
		Entry("same path", Successful(UnixPath("/a")), Successful(UnixPath("/a")), true),
		Entry("different paths", Successful(UnixPath("/a")), Successful(UnixPath("/b")), false),
		Entry("different families", IPv4(0, 0), IPv6FromWords([4]uint32{}, 0), false),
		Entry("both zero", Addr{}, Addr{}, true),
	)

	It("compares equal when the host part is identical", func() {
		a := IPv4(0x0a000001, 1)
		b := IPv4(0x0a000001, 2)
		Expect(a == b).To(BeFalse())
		Expect(a.WithPort(0) == b.WithPort(0)).To(BeTrue())
	})

})
