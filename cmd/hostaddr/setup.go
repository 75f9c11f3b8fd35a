// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/siemens/hostaddr/dnsworker"
	"github.com/siemens/hostaddr/mobynet"
	"github.com/siemens/hostaddr/resolver"

	"github.com/docker/docker/client"
	"github.com/miekg/dns"
	"github.com/thediveo/lxkns/log"
)

// environment is what the sub commands work with: a resolver configured
// according to the CLI flags, and optionally the container from whose
// perspective things are resolved.
type environment struct {
	resolver *resolver.Resolver
	center   *mobynet.Center // or nil, if not resolving inside a container.
	netnsref string          // network namespace to work in, or "".
	stop     func()
}

// Close releases any DNS client connections.
func (e *environment) Close() {
	if e.stop != nil {
		e.stop()
	}
}

// capabilities returns the resolver capabilities as limited by the CLI flags.
func capabilities() resolver.Capabilities {
	caps := resolver.DefaultCapabilities()
	if *noIPv6 {
		caps.IPv6 = false
	}
	if *noUnix {
		caps.Unix = false
	}
	return caps
}

// newEnvironment returns a resolver according to the CLI flags: by default
// the system resolver, or directly talking to a DNS server if either --dns or
// --container has been specified.
func newEnvironment(ctx context.Context) (*environment, error) {
	env := &environment{}
	server := *dnsServer
	transport := *dnsTransport
	if *containerName != "" {
		cln, err := client.NewClientWithOpts(
			client.WithHost("unix:///var/run/docker.sock"),
			client.WithAPIVersionNegotiation(),
		)
		if err != nil {
			return nil, fmt.Errorf("cannot connect to the Docker daemon: %w", err)
		}
		defer cln.Close()
		center, err := mobynet.DiscoverAttachedNames(ctx, cln, *containerName)
		if err != nil {
			return nil, fmt.Errorf("cannot discover attached networks and their containers: %w", err)
		}
		env.center = center
		env.netnsref = center.NetNSRef
		if server == "" {
			server = mobynet.EmbeddedDNS
			// ...since there's some chance that we need more than just two
			// queries.
			transport = "tcp"
		}
	}
	if server == "" {
		env.resolver = resolver.New(resolver.WithCapabilities(capabilities()))
		return env, nil
	}
	pool, err := dnsworker.New(ctx, int(*workerNumber),
		&dns.Client{Net: transport}, server,
		dnsworker.InNetworkNamespace(env.netnsref))
	if err != nil {
		return nil, err
	}
	log.Debugf("resolving using DNS server %s via %s", server, transport)
	env.stop = pool.StopWait
	env.resolver = resolver.New(
		resolver.WithFacilities(dnsworker.NewFacility(pool)),
		resolver.WithCapabilities(capabilities()))
	return env, nil
}
