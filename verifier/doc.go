/*
Package verifier implements a reachability verifier for resolved addresses
with caching in order to avoid expensive duplicate verification.

Addresses are compared the same way [types.Addr.Equal] does, that is, without
their ports. So the same host address with different ports or names gets
verified only once. The concrete address verification is then carried out by
a [ping.Pinger].
*/
package verifier
