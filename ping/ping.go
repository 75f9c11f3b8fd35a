// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package ping

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"time"

	"github.com/siemens/hostaddr/types"

	"github.com/gammazero/workerpool"
	"github.com/go-ping/ping"
	"github.com/thediveo/lxkns/ops"
	"github.com/thediveo/lxkns/ops/relations"
	"github.com/thediveo/lxkns/species"
)

// ErrNotPingable is the verdict error for addresses that aren't IP addresses
// and thus cannot be pinged, such as Unix-domain socket paths.
var ErrNotPingable = errors.New("not an IP address")

// Pinger validates resolved addresses by pinging them and then streaming the
// final [types.QualifiedAddress] verdicts to a result/output channel (kind of
// “IT-court TV”). Pingers use a goroutine-limited worker pool.
type Pinger struct {
	count               int           // number of pings to send.
	interval            time.Duration // distance between pings.
	thresholdPercentage uint          // percentage of successful pings for valid IP address.
	unprivileged        bool          // if true, uses UDP-based pings instead of privileged ICMPs.

	netns    relations.Relation          // network namespace to ping from, or nil.
	workers  *workerpool.WorkerPool      // workers for running incoming validation jobs concurrently.
	courtTV  chan types.QualifiedAddress // results/status stream channel.
	stopOnce sync.Once
}

// PingerOption can be passed to New when creating new Pinger objects.
type PingerOption func(*Pinger)

// New returns a new [Pinger] with a maximum worker pool of the specified size
// as well as a “verdict stream”. The verdict channel will not only send the
// final address verdicts, but also the initial and yet unverified addresses
// as they get submitted for ping court verdicts.
//
// The new pinger defaults to pinging 3 times at intervals of 1s between each
// ping. The validity threshold defaults to 50(%).
//
// The pinger can be configured during creation using several option:
//   - [WithCount]
//   - [WithInterval]
//   - [WithThresholdPercentage]
//   - [AsUnprivileged]
//
// To operate a Pinger in a network namespace different to that of the OS-level
// thread of the caller specify the InNetworkNamespace option and pass it a
// filesystem path that must reference a network namespace (such as
// "/proc/666/ns/net").
func New(size int, options ...PingerOption) (*Pinger, <-chan types.QualifiedAddress) {
	return newPinger(size, size, options...)
}

// newPinger returns a new [Pinger] with a maximum worker pool of the specified
// size and a “verdict stream” with the specified buffer size.
func newPinger(workersize int, chansize int, options ...PingerOption) (*Pinger, <-chan types.QualifiedAddress) {
	courtTV := make(chan types.QualifiedAddress, chansize)
	pinger := &Pinger{
		count:               3,
		interval:            time.Second,
		thresholdPercentage: 50,
		workers:             workerpool.New(workersize),
		courtTV:             courtTV,
	}
	for _, opt := range options {
		opt(pinger)
	}
	return pinger, courtTV
}

// InNetworkNamespace optionally runs a [Pinger] inside the network namespace
// referenced by the specified filesystem path. An empty path keeps the
// Pinger in the current network namespace.
func InNetworkNamespace(netnsref string) PingerOption {
	return func(p *Pinger) {
		if netnsref == "" {
			return
		}
		p.netns = ops.NewTypedNamespacePath(netnsref, species.CLONE_NEWNET)
	}
}

// WithCount sets the number of pings for testing reachability of an address.
func WithCount(count uint) PingerOption {
	return func(p *Pinger) {
		p.count = int(count)
	}
}

// WithInterval sets the interval between consecutive pings.
func WithInterval(interval time.Duration) PingerOption {
	return func(p *Pinger) {
		p.interval = interval
	}
}

// AsUnprivileged tells the Pinger to carry out unprivileged pings using UDP
// instead of ICMP packet.
func AsUnprivileged() PingerOption {
	return func(p *Pinger) {
		p.unprivileged = true
	}
}

// WithThresholdPercentage takes a percentage between 0 and 100 that specifies
// the percentage of successful ping responses required in order to validate the
// pinged address.
func WithThresholdPercentage(threshold uint) PingerOption {
	if threshold > 100 {
		panic(fmt.Errorf("Pinger: threshold must be a percentage between 0 <= threshold <= 100, got: %d",
			threshold))
	}
	return func(p *Pinger) {
		p.thresholdPercentage = threshold
	}
}

// ValidateStream reads addresses (with optional attachments) to be validated
// from a channel until the channel is closed or the specified context gets
// cancelled. It does not return until then, so callers typically might run
// ValidateStream in a separate goroutine.
//
// If the specified context gets cancelled the pending address verfications
// won't be echoed to the verdict stream at all, and in particular not even as
// invalid. However, spurious verfication verdicts might still appear on the
// verdict stream due to uncontrollable order of verdict sending and context
// cancellation detection.
//
// The input channel transmits [types.QualifiedAddress] objects, but with the
// Quality field initially ignored.
func (p *Pinger) ValidateStream(ctx context.Context, ch <-chan types.QualifiedAddress) {
	for {
		select {
		case qa, ok := <-ch:
			if !ok {
				return
			}
			p.ValidateQA(ctx, qa)
		case <-ctx.Done():
			return
		}
	}
}

// Validate the specified address by pinging it. The verdict is then sent to
// the channel returned together with the newly created [Pinger].
// Additionally, an initial notice for the address to be validated is also
// sent beforehand. The port of the address is irrelevant.
//
// An address is considered to be invalid if the percentage of successfully
// received ping replies doesn't reach or cross the Pinger's threshold. This
// allows for some legroom. Unix-domain addresses are always invalid, as
// there's nothing to ping.
//
// The validation process is automatically aborted when the specified context
// either meets its deadline or gets cancelled. The address is then
// considered to be Invalid.
func (p *Pinger) Validate(ctx context.Context, addr types.Addr) {
	p.ValidateQA(ctx, &types.QualifiedAddressValue{Address: addr})
}

// ValidateQA validates the specified [types.QualifiedAddress] and works
// otherwise like [Pinger.Validate] for a plain address.
func (p *Pinger) ValidateQA(ctx context.Context, qa types.QualifiedAddress) {
	ip, err := Target(qa.Addr())
	pending := qa.WithNewQuality(types.Verifying, nil)
	if !p.announce(ctx, pending) {
		return
	}
	p.workers.Submit(func() {
		if err == nil {
			err = p.pingIn(ctx, ip)
		}
		if err != nil {
			p.announce(ctx, pending.WithNewQuality(types.Invalid, err))
			return
		}
		p.announce(ctx, pending.WithNewQuality(types.Verified, nil))
	})
}

// Target returns the IP address to ping for the specified address, or an
// error matching [ErrNotPingable] for Unix-domain and unspecified addresses.
func Target(addr types.Addr) (netip.Addr, error) {
	ip := addr.NetIP()
	if !ip.IsValid() {
		return netip.Addr{}, fmt.Errorf("cannot ping %s: %w", addr, ErrNotPingable)
	}
	return ip, nil
}

// announce sends a (preliminary or final) verdict to the court TV channel
// unless the context is done first, returning false in the latter case. As
// select picks randomly among ready cases, a verdict might still slip through
// after cancellation.
func (p *Pinger) announce(ctx context.Context, verdict types.QualifiedAddress) bool {
	select {
	case p.courtTV <- verdict:
		return true
	case <-ctx.Done():
		return false
	}
}

// pingIn pings the specified IP address from inside the Pinger's network
// namespace, if any, otherwise from the caller's current one.
func (p *Pinger) pingIn(ctx context.Context, ip netip.Addr) error {
	if p.netns == nil {
		return p.ping(ctx, ip)
	}
	// ops.Execute reports namespace switching errors separately from what
	// the function returned.
	res, err := ops.Execute(func() interface{} { return p.ping(ctx, ip) }, p.netns)
	if err != nil {
		return err
	}
	if pingerr, ok := res.(error); ok {
		return pingerr
	}
	return nil
}

// ping sends the configured number of echo requests to the specified IP
// address and returns nil only if enough replies came back before the context
// was done.
func (p *Pinger) ping(ctx context.Context, ip netip.Addr) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pinger, err := ping.NewPinger(ip.String())
	if err != nil {
		return err
	}
	pinger.SetPrivileged(!p.unprivileged)
	pinger.Count = p.count
	pinger.Interval = p.interval
	// Don't wait forever for the last reply.
	pinger.Timeout = time.Duration(int64(p.interval) * int64(p.count+2))
	stop := context.AfterFunc(ctx, pinger.Stop)
	defer stop()
	if err := pinger.Run(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.enoughReplies(pinger.Statistics().PacketsRecv) {
		return fmt.Errorf("%s: no replies or too many losses", ip)
	}
	return nil
}

// enoughReplies returns true if the number of received replies reaches the
// Pinger's threshold percentage of the pings sent.
func (p *Pinger) enoughReplies(received int) bool {
	return received >= p.count*int(p.thresholdPercentage)/100
}

// StopWait waits for all queued tasks to get processed and then finally closes
// the court TV channel.
func (p *Pinger) StopWait() {
	p.stopOnce.Do(func() {
		p.workers.StopWait()
		close(p.courtTV)
	})
}
