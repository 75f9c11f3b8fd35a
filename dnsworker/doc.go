/*
Package dnsworker implements a simple limiting DNS client-request execution
pool, as well as a resolver facility on top of it. hostaddr uses [DnsPool] with
a pool of “DNS workers” for talking directly to a specific DNS server instead
of going through the system resolver, such as Docker's embedded DNS server
inside a container's network namespace.

Usage

	dnsclnt := dns.Client{}
	workers, err := dnsworker.New(
	    context.Background(),
	    4,                    // number of parallel DNS connections and thus workers
	    &dnsclnt,             // DNS client
	    "127.0.0.1:53",       // address of server/resolver
	)
	r := resolver.New(resolver.WithFacilities(dnsworker.NewFacility(workers)))
	rn, err := r.Resolve(ctx, "foobar.example.org")
	workers.Submit(func(conn *dns.Conn){
	    // do something with the DNS connection
	})
	workers.StopWait()

[Facility] queries A and AAAA records for names, following CNAME records to
the canonical name, and PTR records for reverse lookups. Please note that the
A/AAAA queries for a single name are not concurrent.

# Acknowledgements

Under its hood, [DnsPool] leverages [gammazero/workerpool] as
the limiting goroutine pool and [miekg/dns] for talking DNS.

[gammazero/workerpool]: https://github.com/gammazero/workerpool
[miekg/dns]: https://github.com/miekg/dns
*/
package dnsworker
