// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"

	"github.com/siemens/hostaddr/ping"
	"github.com/siemens/hostaddr/types"
)

// Verifier verifies a stream of named addresses, caching verification results
// as to avoiding unnecessary duplicate verification attempts. It uses a Pinger
// for verifying the IP addresses.
type Verifier struct {
	news    chan<- types.NamedAddress
	pinger  *ping.Pinger
	checked <-chan types.QualifiedAddress
}

// New returns a new Verifier that verifies addresses from the perspective of
// the specified network namespace with a maximum number of parallel
// verification workers. If the network namespace reference netnsref is empty,
// then the verification will be carried out in the process' original network
// namespace. Additional options are passed on to the underlying
// [ping.Pinger].
func New(size int, netnsref string, options ...ping.PingerOption) (*Verifier, <-chan types.NamedAddress) {
	news := make(chan types.NamedAddress, size)
	options = append([]ping.PingerOption{ping.InNetworkNamespace(netnsref)}, options...)
	pinger, checked := ping.New(size, options...)
	return &Verifier{
		news:    news,
		pinger:  pinger,
		checked: checked,
	}, news
}

// Verify verifies the incoming stream of named addresses until the input
// channel is closed. It then waits for all enqueued verification tasks to
// complete and then closes the output channel returned by New, and finally
// returns.
//
// Named addresses without an address (such as the initial notice of a name
// being resolved, or a failed resolution) are passed through unchanged.
//
// In case the specified context is cancelled, then Verify will stop pulling off
// new verification tasks and return as soon as possible, closing the output
// channel.
func (v *Verifier) Verify(ctx context.Context, in <-chan types.NamedAddress) {
	addrcache := NewNamedAddressCache()
	done := make(chan struct{}, 1)
	go func() {
	slurpVerdicts:
		for {
			select {
			case qaddr, ok := <-v.checked:
				if !ok {
					break slurpVerdicts
				}
				addrcache.Update(ctx, qaddr.(types.NamedAddress), v.news)
			case <-ctx.Done():
				break slurpVerdicts
			}
		}
		close(done)
	}()
	// Only the first name seen for an address triggers a validation task;
	// further names for the same address are served from the cache or put on
	// hold until the verdict comes in.
slurpNames:
	for {
		select {
		case addr, ok := <-in:
			if !ok {
				break slurpNames
			}
			if !addr.Addr().IsValid() {
				select {
				case v.news <- addr:
				case <-ctx.Done():
					break slurpNames
				}
				continue
			}
			if addrcache.Update(ctx, addr, v.news) {
				v.pinger.ValidateQA(ctx, addr)
			}
		case <-ctx.Done():
			break slurpNames
		}
	}
	v.pinger.StopWait()
	// wait for all verification results to have come through and passed on
	// before calling it a day. In case the context was cancelled we don't wait
	// for the done signal, but immediately close our "outlet".
	select {
	case <-ctx.Done():
	default:
		<-done
	}
	close(v.news)
}
