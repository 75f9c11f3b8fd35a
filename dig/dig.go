// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"
	"sync"

	"github.com/siemens/hostaddr/resolver"
	"github.com/siemens/hostaddr/types"

	"github.com/gammazero/workerpool"
)

// Digger resolves host names into their addresses and then streams its
// findings over its “news” channel.
//
// By connecting the news (output) channel of a Digger to the input channel of
// a Verifier the reachability of the addresses dug can automatically be
// verified by pinging them.
type Digger struct {
	resolver *resolver.Resolver
	workers  *workerpool.WorkerPool
	news     chan types.NamedAddress
	stopOnce sync.Once
}

// New returns a new Digger with a maximum worker pool of the specified size as
// well as a “news stream”. This news channel sends NamedAddress elements as
// they are submitted for digging, as well as the outcome(s) of the digs.
// Please note that the news channel gets closed only by [Digger.StopWait].
//
// I dunno what Sir Tim, Mick, Phil, and all the others might think of our
// digging here...
func New(size int, r *resolver.Resolver) (*Digger, <-chan types.NamedAddress) {
	news := make(chan types.NamedAddress, size)
	return &Digger{
		resolver: r,
		workers:  workerpool.New(size),
		news:     news,
	}, news
}

// DigNames digs the given list of host names, which might also be address
// literals or Unix-domain socket paths. All addresses dug are set to the
// specified port. Intermediate and final results are getting sent to the
// channel returned beforehand by New.
//
// For each name, first a named address without any address is sent, followed
// by one Unverified named address for each address dug. If a name cannot be
// resolved, then an Invalid named address without address but with the
// resolution error gets sent instead.
func (d *Digger) DigNames(ctx context.Context, names []string, port uint16) {
	for _, name := range names {
		name := name
		// Initially inform the consumer of any name that will undergo
		// resolution later. We only block if the consumer doesn't consume our
		// news ... and then only until the context gets cancelled.
		if !d.send(ctx, &types.NamedAddressValue{FQDN: name}) {
			return
		}
		d.workers.Submit(func() {
			select {
			case <-ctx.Done():
				return
			default:
			}
			rn, err := d.resolver.Resolve(ctx, name)
			if err != nil {
				na := &types.NamedAddressValue{FQDN: name}
				d.send(ctx, na.WithNewQuality(types.Invalid, err).(types.NamedAddress))
				return
			}
			for _, addr := range rn.WithPort(port).Addrs {
				if !d.send(ctx, &types.NamedAddressValue{
					FQDN: name,
					QualifiedAddressValue: types.QualifiedAddressValue{
						Address: addr,
						Quality: types.Unverified,
					},
				}) {
					return
				}
			}
		})
	}
}

// send the specified news, unless the context is done first. It returns
// false if the news couldn't be sent.
func (d *Digger) send(ctx context.Context, na types.NamedAddress) bool {
	select {
	case d.news <- na:
		return true
	case <-ctx.Done():
		return false
	}
}

// StopWait waits for all queued tasks to get processed and then finally closes
// the news channel.
func (d *Digger) StopWait() {
	d.stopOnce.Do(func() {
		d.workers.StopWait()
		close(d.news)
	})
}
