// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"time"

	"github.com/siemens/hostaddr/resolver"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	. "github.com/onsi/gomega/gbytes"
	. "github.com/onsi/gomega/gexec"
	. "github.com/onsi/gomega/gleak"
	. "github.com/thediveo/success"
)

// run executes the root command with the specified CLI arguments, returning
// stdout, stderr, and the command's error.
func run(ctx context.Context, args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(ctx)
	return stdout.String(), stderr.String(), err
}

var _ = Describe("hostaddr command", func() {

	BeforeEach(func() {
		goodgos := Goroutines()
		DeferCleanup(func() {
			Eventually(Goroutines).Within(2 * time.Second).ProbeEvery(100 * time.Millisecond).
				ShouldNot(HaveLeaked(goodgos))
		})
	})

	DescribeTable("rejects invalid flags",
		func(args []string) {
			_, _, err := run(context.Background(), args...)
			Expect(err).To(HaveOccurred())
		},
		Entry("too many workers", []string{"--workers", "11", "hostname"}),
		Entry("no workers", []string{"--workers", "0", "hostname"}),
		Entry("excessive indentation", []string{"--indent", "81", "hostname"}),
		Entry("hyperactive spinner", []string{"--spinner", "1ms", "hostname"}),
		Entry("no timeout", []string{"--timeout", "0s", "hostname"}),
		Entry("unknown transport", []string{"--transport", "quic", "hostname"}),
		Entry("missing names", []string{"resolve"}),
	)

	It("resolves literals into JSON", func(ctx context.Context) {
		stdout, _, err := run(ctx, "resolve", "--json", "--port", "631", "192.0.2.1")
		Expect(err).NotTo(HaveOccurred())
		var resolved []map[string]any
		Expect(json.Unmarshal([]byte(stdout), &resolved)).To(Succeed())
		Expect(resolved).To(ConsistOf(And(
			HaveKeyWithValue("name", "192.0.2.1"),
			HaveKeyWithValue("family", "ipv4"),
			HaveKeyWithValue("addresses", ConsistOf(And(
				HaveKeyWithValue("address", "192.0.2.1"),
				HaveKeyWithValue("port", BeNumerically("==", 631)),
			))),
		)))
	})

	It("resolves localhost and socket paths", func(ctx context.Context) {
		stdout, _, err := run(ctx, "resolve", "--port", "631", "localhost", "/run/cups/cups.sock")
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal(
			"127.0.0.1 (ipv4): 127.0.0.1 port 631\n" +
				"/run/cups/cups.sock (unix): /run/cups/cups.sock\n"))
	})

	It("refuses socket paths when told so", func(ctx context.Context) {
		_, _, err := run(ctx, "--no-unix", "resolve", "/run/cups/cups.sock")
		Expect(err).To(HaveOccurred())
	})

	It("reports malformed literals, but still resolves the others", func(ctx context.Context) {
		if !resolver.DefaultCapabilities().IPv6 {
			Skip("needs IPv6")
		}
		stdout, _, err := run(ctx, "resolve", "1.2.3.400", "[1:2:3:4]")
		Expect(err).To(MatchError(ContainSubstring("1.2.3.400")))
		Expect(stdout).To(Equal("[1:2:3:4] (ipv6): [1:2:3:4]\n"))
	})

	It("looks up socket paths", func(ctx context.Context) {
		stdout, _, err := run(ctx, "lookup", "/run/cups/cups.sock")
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(Equal("/run/cups/cups.sock\t/run/cups/cups.sock\n"))
	})

	It("shows the local host name", func(ctx context.Context) {
		stdout, _, err := run(ctx, "hostname")
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(MatchRegexp(`^\S+\n$`))
	})

	It("digs into JSON", func(ctx context.Context) {
		stdout, _, err := run(ctx, "dig", "--json", "192.0.2.1", "/run/cups/cups.sock")
		Expect(err).NotTo(HaveOccurred())
		var sets []map[string]any
		Expect(json.Unmarshal([]byte(stdout), &sets)).To(Succeed())
		Expect(sets).To(HaveLen(2))
		Expect(sets[0]).To(HaveKeyWithValue("name", "/run/cups/cups.sock"))
		Expect(sets[1]).To(HaveKeyWithValue("addresses", ConsistOf(
			HaveKeyWithValue("quality", "unverified"))))
	})

	It("digs with a live display", func(ctx context.Context) {
		stdout, _, err := run(ctx, "dig", "192.0.2.1")
		Expect(err).NotTo(HaveOccurred())
		Expect(stdout).To(ContainSubstring("? 192.0.2.1"))
	})

	It("needs names to dig", func(ctx context.Context) {
		_, _, err := run(ctx, "dig")
		Expect(err).To(MatchError(ContainSubstring("no names to dig")))
	})

	It("exits with a non-zero code on errors", func() {
		defer func(old []string) { os.Args = old }(os.Args)
		defer func(old func(int)) { osExit = old }(osExit)
		code := -1
		osExit = func(c int) { code = c }
		os.Args = []string{"hostaddr", "resolve", "1.2.3.4.5"}
		main()
		Expect(code).To(Equal(1))
	})

})

var _ = Describe("hostaddr binary", Ordered, func() {

	var binary string

	BeforeAll(func() {
		if _, err := exec.LookPath("go"); err != nil {
			Skip("needs Go toolchain")
		}
		binary = Successful(Build("github.com/siemens/hostaddr/cmd/hostaddr"))
		DeferCleanup(CleanupBuildArtifacts)
	})

	It("resolves localhost", func() {
		sess := Successful(Start(exec.Command(binary, "resolve", "localhost"), GinkgoWriter, GinkgoWriter))
		Eventually(sess).Within(10 * time.Second).Should(Exit(0))
		Expect(sess.Out).To(Say(`127\.0\.0\.1 \(ipv4\): 127\.0\.0\.1`))
	})

	It("fails on malformed literals", func() {
		if !resolver.DefaultCapabilities().IPv6 {
			Skip("needs IPv6")
		}
		sess := Successful(Start(exec.Command(binary, "resolve", "[1:]"), GinkgoWriter, GinkgoWriter))
		Eventually(sess).Within(10 * time.Second).Should(Exit(1))
		Expect(sess.Err).To(Say("empty group before closing bracket"))
	})

})
