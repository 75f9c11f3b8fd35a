/*
Package ping implements an ICMP(v4/v6)-based reachability (in)validator for
resolved addresses.

[Pinger] objects support concurrent address validation jobs with maximum
goroutine limits. Individual Ping verdicts are streamed as they are decided, to
a channel returned when creating a new Pinger object. Here, a
[types.QualifiedAddress] consists of (at least) a [types.Addr] as well as the
[types.Quality] state, notably [types.Verified] and [types.Invalid], but also
[types.Verifying] and (initially) [types.Unverified].

	           +---+
	types.Addr-->| P +-->ch QualifiedAddress
	           +---+

Only IP addresses can be pinged; Unix-domain addresses always end up
[types.Invalid], with an error matching [ErrNotPingable].

⚠ Please note that a [Pinger] initially emits any newly submitted address before
it undergoes verification (with its quality set to “verifying”), as well as
later the final verdict. The rationale is that especially interactive clients
can more easily manage their display so that all enqueued verifications are
early visible.

If needed, a Pinger can read the addresses it has to verify from an input
channel until this input channel is closed, see [Pinger.ValidateStream].

# Acknowledgements

Under its hood, [Pinger] leverages [gammazero/workerpool] as the limiting
goroutine pool and [go-ping/ping] for the pinging.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[go-ping/ping]: https://github.com/go-ping/ping
*/
package ping
