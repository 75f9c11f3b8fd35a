/*
Package dig implements a concurrent host name-to-address digger with optional
(in)validation of the network addresses dug out.

The names get resolved by a [resolver.Resolver], so they might also be address
literals, "localhost", or Unix-domain socket paths. Depending on the
resolver's facilities, the digging might be done from within a specific
network namespace (of a Docker container), see the dnsworker package.

The digging and ping verification steps run concurrently, but under the
constraints of limited goroutines. That is, the maximum number of each worker
set is limited for name-to-address resolution, as well as for address
validation using ICMP pings.

[NamedAddressesMap] then collects the stream of named addresses into a
per-name view of addresses and their qualities.
*/
package dig
