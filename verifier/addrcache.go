// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package verifier

import (
	"context"
	"sync"

	"github.com/siemens/hostaddr/types"
)

// NamedAddressCache caches named qualified addresses so that unnecessary
// duplicate address validations can be avoided, yet validation results
// distributed at once to all named addresses pending in verification.
//
// Addresses are keyed without their ports, so the same host address with
// different ports is verified only once.
type NamedAddressCache struct {
	mu sync.Mutex
	m  map[types.Addr]qualityUpdateConsumers // address (port zeroed) -> pending name consumers
}

// NewNamedAddressCache returns a new NamedAddressCache object.
func NewNamedAddressCache() *NamedAddressCache {
	return &NamedAddressCache{
		m: map[types.Addr]qualityUpdateConsumers{},
	}
}

// qualityUpdateConsumers is a list of names that map to the same underlying
// address and thus want to learn about any updates in that address' quality.
type qualityUpdateConsumers struct {
	q         types.Quality
	err       error    // optional error reason for invalid quality
	consumers []string // waiting names that want to consume quality updates.
}

// key returns the cache key for the specified address.
func key(addr types.Addr) types.Addr {
	return addr.WithPort(0)
}

// Len returns the number of distinct addresses cached.
func (c *NamedAddressCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.m)
}

// Quality returns the most recent quality known for the specified address,
// ignoring its port, and whether the address is known at all.
func (c *NamedAddressCache) Quality(addr types.Addr) (types.Quality, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	qc, ok := c.m[key(addr)]
	return qc.q, ok
}

// Update checks the specified named address to see if it is a new (unverified)
// address which hasn't yet been cached. In this case it returns true to signal
// a new address to the caller, so that the caller, for instance, can start
// validating the new address. Update returns false if the (unverified) address
// has already been seen, and the name for this address is cached. If the
// address is already in the cache and its quality is a final verdict of
// Verified or Invalid, then this update is automatically sent to the news
// consumer for all names associated with this address.
func (c *NamedAddressCache) Update(ctx context.Context, namaddr types.NamedAddress, news chan<- types.NamedAddress) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	addr := key(namaddr.Addr())
	qc, ok := c.m[addr]
	if !ok {
		// Note: we assume that a new address always enters in qualities
		// Unverified or Verifying, so there will always be a later quality
		// update to be expected.
		c.m[addr] = qualityUpdateConsumers{
			q:         namaddr.Qual(),
			err:       namaddr.Err(),
			consumers: []string{namaddr.Name()},
		}
		select {
		case news <- namaddr:
		case <-ctx.Done():
		}
		return true
	}
	knownConsumer := false
	name := namaddr.Name()
	for _, consumer := range qc.consumers {
		if consumer == name {
			knownConsumer = true
			break
		}
	}
	if namaddr.Qual() <= qc.q {
		// The quality in this update is already stale, so tell this specific
		// name about the most recent quality known.
		if !knownConsumer {
			if qc.q.IsPending() {
				qc.consumers = append(qc.consumers, name)
				c.m[addr] = qc
			}
			select {
			case news <- namaddr.WithNewQuality(qc.q, qc.err).(types.NamedAddress):
			case <-ctx.Done():
			}
		}
		return false
	}
	qc.q = namaddr.Qual()
	qc.err = namaddr.Err()
	var consumers []string
	if qc.q.IsPending() {
		if !knownConsumer {
			qc.consumers = append(qc.consumers, name)
		}
		consumers = qc.consumers
	} else {
		// Terminal quality: notify everyone waiting and clear the list, as
		// later Updates get served directly.
		consumers, qc.consumers = qc.consumers, nil
	}
	c.m[addr] = qc
	templ := namaddr.NA()
	for _, consumer := range consumers {
		upd := &types.NamedAddressValue{
			FQDN:                  consumer,
			QualifiedAddressValue: templ.QualifiedAddressValue,
		}
		select {
		case news <- upd.WithNewQuality(qc.q, qc.err).(types.NamedAddress):
		case <-ctx.Done():
			return false
		}
	}
	return false
}
