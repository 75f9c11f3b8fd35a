// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package dig

import (
	"context"
	"sort"
	"sync"

	"github.com/siemens/hostaddr/types"
)

// NamedAddressSet is a host name together with a list of associated/resolved
// qualified network addresses.
type NamedAddressSet struct {
	Name      string                        `json:"name"`            // the host name as dug
	Addresses []types.QualifiedAddressValue `json:"addresses"`       // associated network address(es)
	Err       string                        `json:"error,omitempty"` // resolution error, if any
}

type namedAddresses struct {
	addrs []types.QualifiedAddressValue
	err   error
}

// NamedAddressesMap maps host names to their corresponding lists of qualified
// addresses. A typical use case for a NamedAddressMap is to consume
// name-address information from an event stream (channel) sending updates as
// names are submitted, resolved into the corresponding addresses, and finally
// (in)validated.
type NamedAddressesMap struct {
	m  map[string]*namedAddresses
	mu sync.Mutex
}

// NewNamedAddressesMap returns a new and properly initialized
// NamedAddressesMap.
func NewNamedAddressesMap() *NamedAddressesMap {
	return &NamedAddressesMap{
		m: map[string]*namedAddresses{},
	}
}

// Get returns all named addresses from the map, sorted by name.
func (m *NamedAddressesMap) Get() []NamedAddressSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	sets := make([]NamedAddressSet, 0, len(m.m))
	for name, nas := range m.m {
		set := NamedAddressSet{
			Name:      name,
			Addresses: append([]types.QualifiedAddressValue{}, nas.addrs...),
		}
		if nas.err != nil {
			set.Err = nas.err.Error()
		}
		sets = append(sets, set)
	}
	sort.Slice(sets, func(a, b int) bool { return sets[a].Name < sets[b].Name })
	return sets
}

// Update the map with a NamedAddress, augmenting addresses in case they are yet
// unknown. Known addresses are updated in case they have quality changing as
// follows:
//   - from unverified to verifying
//   - from verifying to either verified or invalid
//
// A named address without an address, but with an error, records the
// resolution error of its name.
func (m *NamedAddressesMap) Update(namaddr types.NamedAddress) {
	if namaddr == nil {
		return
	}
	name := namaddr.Name()
	if name == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	nas, ok := m.m[name]
	if !ok {
		nas = &namedAddresses{addrs: []types.QualifiedAddressValue{}}
		m.m[name] = nas
	}
	addr := namaddr.Addr()
	if !addr.IsValid() {
		if err := namaddr.Err(); err != nil {
			nas.err = err
		}
		return
	}
	for idx := range nas.addrs {
		if nas.addrs[idx].Address == addr {
			if namaddr.Qual() > nas.addrs[idx].Quality { // slightly simplified "update" rule
				nas.addrs[idx] = namaddr.QA()
			}
			return
		}
	}
	nas.addrs = append(nas.addrs, namaddr.QA())
}

// Track NamedAddress updates received from the specified update channel until
// the channel is closed or the context done. Track only returns after
// processing all updates or when the context is done.
func (m *NamedAddressesMap) Track(ctx context.Context, news <-chan types.NamedAddress) error {
	for {
		select {
		case namaddr, ok := <-news:
			if !ok {
				return nil
			}
			m.Update(namaddr)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
