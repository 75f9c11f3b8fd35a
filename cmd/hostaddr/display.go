// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/siemens/hostaddr/dig"
	"github.com/siemens/hostaddr/mobynet"
	"github.com/siemens/hostaddr/types"
)

// renderer renders the terminal display, based on named+qualified address
// information passed to its Render method.
type renderer struct {
	Indentation int
	center      *mobynet.Center     // or nil
	networks    map[string]struct{} // names of networks attached to center.
	w           io.Writer
	spinner     *spinner
}

// newRenderer returns a Render object rendering to the specified io.Writer.
// If not nil, center identifies the container from which the names+address
// information is seen.
func newRenderer(w io.Writer, center *mobynet.Center) *renderer {
	r := &renderer{
		center:   center,
		networks: map[string]struct{}{},
		w:        w,
		spinner:  newSpinner().Start(*spinnerInterval),
	}
	if center != nil {
		for _, net := range center.Networks {
			r.networks[net.Label] = struct{}{}
		}
	}
	return r
}

// Stop the renderer's background ticker.
func (r *renderer) Stop() {
	r.spinner.Stop()
}

// Render the given named+qualified addresses.
func (r *renderer) Render(na []dig.NamedAddressSet) {
	groups := r.groupNames(na)
	// If we don't have any name+addressing information yet, show a proxy
	// message.
	if len(groups) == 0 {
		if r.center != nil {
			fmt.Fprintf(r.w, "inspecting container %s and its networks...\n", r.center.Name)
		} else {
			fmt.Fprintln(r.w, "resolving...")
		}
		return
	}
	// For neat display, determine the length of the longest name in the data
	// to display, so that the addresses column doesn't zig-zag around across
	// different groups.
	maxlen := 0
	for _, group := range groups {
		for _, addr := range group {
			if l := len(addr.Name); l > maxlen {
				maxlen = l
			}
		}
	}
	if r.center != nil {
		fmt.Fprintf(r.w, "networks attached to container %s:", r.center.Name)
		for _, net := range r.center.Networks {
			fmt.Fprint(r.w, " ", networkNameStyle.Styled(net.Label))
		}
		fmt.Fprintln(r.w)
	}
	for _, group := range groups {
		if r.center != nil {
			switch gn := r.groupName(group[0].Name); gn {
			case "":
				fmt.Fprint(r.w, "DNS names for containers/services on any attached network\n")
			default:
				fmt.Fprintf(r.w, "DNS names for containers/services on network %s\n", networkNameStyle.Styled(gn))
			}
		}
		for _, na := range group {
			r.renderGroupDetails(maxlen, na)
		}
	}
}

// renderGroupDetails renders a network group's labels and qualified addresses.
func (r *renderer) renderGroupDetails(labelwidth int, na dig.NamedAddressSet) {
	fmt.Fprintf(r.w, "%-*s%-*s", r.Indentation, "", labelwidth, na.Name)
	if na.Err != "" {
		fmt.Fprint(r.w, invalidAddressStyle.Styled(" × "+na.Err+" "))
	}
	for idx, addr := range na.Addresses {
		if idx > 0 {
			fmt.Fprint(r.w, " ")
		}
		a := addr.Address.String()
		switch addr.Quality {
		case types.Unverified:
			fmt.Fprintf(r.w, " ? %s", a)
		case types.Verifying:
			fmt.Fprint(r.w, verifyingAddressStyle.Styled(" "+r.spinner.Spinner()+a+" "))
		case types.Verified:
			fmt.Fprint(r.w, validAddressStyle.Styled(" ✔ "+a+" "))
		case types.Invalid:
			fmt.Fprint(r.w, invalidAddressStyle.Styled(" × "+a+" "))
		}
	}
	fmt.Fprintln(r.w)
}

// sortQualifiedAddresses sorts a slice of qualified address in place: IPv4
// first, IPv6 second, and Unix-domain socket paths last; then by address
// value.
func sortQualifiedAddresses(addrs []types.QualifiedAddressValue) {
	sort.Slice(addrs, func(a, b int) bool {
		addrA, addrB := addrs[a].Address, addrs[b].Address
		if rA, rB := familyRank(addrA.Family()), familyRank(addrB.Family()); rA != rB {
			return rA < rB
		}
		if addrA.Family() == types.FamilyUnix {
			return addrA.Path() < addrB.Path()
		}
		return addrA.NetIP().Less(addrB.NetIP())
	})
}

func familyRank(f types.Family) int {
	switch f {
	case types.FamilyIPv4:
		return 0
	case types.FamilyIPv6:
		return 1
	case types.FamilyUnix:
		return 2
	}
	return 3
}

// groupAndLabel returns the group label and the container/service label
// separately, given a name. Only the names of attached networks count as
// group labels; for all other names the group label is "" and the label is
// the name itself.
func (r *renderer) groupAndLabel(name string) (group string, label string) {
	if f := strings.SplitN(strings.TrimSuffix(name, "."), ".", 2); len(f) == 2 {
		if _, ok := r.networks[f[1]]; ok {
			return f[1], f[0]
		}
	}
	return "", name
}

// groupName returns the group label of a name, or "".
func (r *renderer) groupName(name string) string {
	group, _ := r.groupAndLabel(name)
	return group
}

// sortNames sorts a slice of named addresses in place according to their
// grouped labels. That is, sorting order is not lexicographically on the
// names, but instead first according to network labels (if not present, then
// assumed to be ""), and second according to the service/container labels.
func (r *renderer) sortNames(addrs []dig.NamedAddressSet) {
	sort.Slice(addrs, func(a, b int) bool {
		gA, lA := r.groupAndLabel(addrs[a].Name)
		gB, lB := r.groupAndLabel(addrs[b].Name)
		return (gA < gB) || ((gA == gB) && (lA < lB))
	})
}

// Note: groupNames modifies the passed addrs in place.
func (r *renderer) groupNames(addrs []dig.NamedAddressSet) [][]dig.NamedAddressSet {
	r.sortNames(addrs)
	groups := [][]dig.NamedAddressSet{}
	var recentGroup []dig.NamedAddressSet
	for _, addr := range addrs {
		gn := r.groupName(addr.Name)
		// if this is the first group ever or we have wandered off into a new
		// group, then allocate a new group.
		if recentGroup == nil || gn != r.groupName(recentGroup[0].Name) {
			if recentGroup != nil {
				groups = append(groups, recentGroup)
			}
			recentGroup = []dig.NamedAddressSet{}
		}
		sortQualifiedAddresses(addr.Addresses)
		recentGroup = append(recentGroup, addr)
	}
	if recentGroup != nil {
		groups = append(groups, recentGroup)
	}
	return groups
}
