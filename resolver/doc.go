/*
Package resolver resolves names into [types.ResolvedName] address information,
and addresses back into names.

Names can be Unix-domain socket paths (“/run/foo.sock”), bracketed IPv6
literals (“[20010db8:0:0:1]”), dotted-quad IPv4 literals (“192.0.2.1”), or
anything else to be looked up by the resolver facilities. Literals are always
parsed locally and never hit a resolver.

	         +---+
	string-->| R +-->*types.ResolvedName
	         +---+

# Facilities

A [Resolver] delegates the real name lookups to facilities:

  - an [AddrInfoFacility] for looking up IPv6 and IPv4 addresses in one go,
    in the style of getaddrinfo(3),
  - a legacy [HostFacility] in the style of gethostbyname(3), which the
    Resolver falls back to when the modern lookup fails,
  - a [ReverseFacility] for mapping addresses back to names,
  - and a [HostnameFacility] for the local host name.

By default, a Resolver uses [System], which builds on Go's [net.Resolver].
[github.com/siemens/hostaddr/dnsworker.Facility] talks DNS directly to a
specific DNS server instead, optionally from inside a different network
namespace.

# Concurrency

Resolvers don't share any mutable state and every call returns freshly
allocated results; concurrent resolutions thus need no coordination. A
Resolver never spawns goroutines, never retries, and never caches: all calls
block until the facilities have answered.
*/
package resolver
