/*
Package types defines hostaddr's information model. It revolves around [Addr],
a single network endpoint that is either an IPv4 address, an IPv6 address, or
a Unix-domain socket path, and [ResolvedName], the canonical name together with
the addresses a name resolved to.

# Addresses

Addr values are immutable and can be freely passed around and compared. There
are three ways of getting hold of an Addr:

  - using one of the constructors, such as [IPv4], [IPv6FromWords], or
    [UnixPath],
  - resolving a name using a [github.com/siemens/hostaddr/resolver.Resolver],
  - loading it from a [HostEntry] (see [HostEntry.Load]) or a raw platform
    socket address (see [FromSockaddr]).

An Addr then answers whether it is the “any” address ([Addr.IsAny]), whether
it refers to the local host ([Addr.IsLocal]), whether it is the same address
as another one, regardless of ports ([Addr.Equal]), how large its socket
address structure is ([Addr.Length]), and how it reads ([Addr.String]).

⚠ IPv6 addresses render as four bracketed 32-bit hex words, such as
“[20010db8:0:0:1]”, and not in the canonical RFC 5952 notation. And only
127.0.0.1 is local, but not the remaining 127.0.0.0/8 block. Both are long
established behavior that clients rely on.

# Qualified Addresses

Depending on how hostaddr gets integrated into other applications, when using
Pingers there might be the need to add application-specific information to
qualified addresses. Basically, Pinger accepts anything that satisfies the
[QualifiedAddress] interface.

In case an implementation chooses to embed [QualifiedAddressValue] into its own
type, it is essential to (re)implement the
[QualifiedAddressValue.WithNewQuality] method. Failing to do so will cause the
embedded QualifiedAddressValue.WithNewQuality method to be propagated to the new
type, yet it won't return the proper new type, but instead only a stock
QualifiedAddressValue, loosing the additional information in the process.

Please keep in mind that digging and verification are concurrent. Qualified
addresses are passed around as interface pointers through channels, so value
semantics and immutability come from the getter-only [QualifiedAddress]
interface design.
*/
package types
