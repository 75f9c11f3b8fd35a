// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/thediveo/lxkns/log"
)

var (
	indentation     *uint
	spinnerInterval *time.Duration
	workerNumber    *uint
	debug           *bool
	timeout         *time.Duration
	dnsServer       *string
	dnsTransport    *string
	containerName   *string
	noIPv6          *bool
	noUnix          *bool
)

func newRootCmd() (rootCmd *cobra.Command) {
	rootCmd = &cobra.Command{
		Use:   "hostaddr",
		Short: "hostaddr resolves host names, address literals, and Unix-domain socket paths into addresses",
		Long: `hostaddr resolves host names, address literals, and Unix-domain socket paths
into addresses, looks up the names of addresses, and tells the local host's
fully qualified domain name.

Names are resolved using the system resolver, unless a DNS server is given
using --dns, or a container using --container, in which case names get
resolved by the container's embedded DNS server from inside the container's
network namespace.`,
		Version:       "0.9",
		SilenceUsage:  true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if *indentation > 80 {
				return fmt.Errorf("--indent width out of range [0..80]")
			}
			if *workerNumber < 1 || *workerNumber > 10 {
				return fmt.Errorf("--workers out of range [1..10]")
			}
			if *spinnerInterval < 10*time.Millisecond {
				return fmt.Errorf("--spinner must be at least 10ms")
			}
			if *timeout <= 0 {
				return fmt.Errorf("--timeout must be positive")
			}
			switch *dnsTransport {
			case "udp", "tcp":
			default:
				return fmt.Errorf("--transport must be either udp or tcp")
			}
			if *debug {
				log.SetLevel(log.DebugLevel)
				log.Debugf("debug logging enabled")
			}
			return nil
		},
	}
	// Sets up the flags.
	pf := rootCmd.PersistentFlags()
	debug = pf.Bool(
		"debug", false, "enable debugging output")
	indentation = pf.Uint(
		"indent", 3, "indentation width")
	spinnerInterval = pf.Duration(
		"spinner", 100*time.Millisecond, "spinner interval")
	workerNumber = pf.Uint(
		"workers", 5, "number of DNS and ping workers")
	timeout = pf.Duration(
		"timeout", 10*time.Second, "timeout for resolving and looking up")
	dnsServer = pf.String(
		"dns", "", "DNS server address to query directly, such as 192.0.2.53:53")
	dnsTransport = pf.String(
		"transport", "udp", "DNS transport to use with --dns, either udp or tcp")
	containerName = pf.String(
		"container", "", "resolve from inside the network namespace of this Docker container")
	noIPv6 = pf.Bool(
		"no-ipv6", false, "neither accept IPv6 literals nor resolve names into IPv6 addresses")
	noUnix = pf.Bool(
		"no-unix", false, "do not accept Unix-domain socket paths")

	rootCmd.AddCommand(
		newResolveCmd(),
		newLookupCmd(),
		newHostnameCmd(),
		newDigCmd(),
	)
	return
}
