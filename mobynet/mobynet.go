// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package mobynet

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/docker/docker/api/types"
	"github.com/thediveo/lxkns/log"
)

// EmbeddedDNS is the address of Docker's embedded DNS server, as seen from
// inside containers attached to user-defined networks.
const EmbeddedDNS = "127.0.0.11:53"

// Inspector inspects containers and networks; *client.Client from the Docker
// client module is an Inspector.
type Inspector interface {
	ContainerInspect(ctx context.Context, containerID string) (types.ContainerJSON, error)
	NetworkInspect(ctx context.Context, networkID string, options types.NetworkInspectOptions) (types.NetworkResource, error)
}

// DockerNetwork describes a single Docker network in terms of its name, as well
// as the DNS labels of the attached containers and associated service names.
type DockerNetwork struct {
	Label  string   `json:"label"`  // name of Docker network used as DNS "TLD" label.
	Labels []string `json:"labels"` // container and service/alias names used as DNS labels.
}

// Center describes the container from whose perspective names are resolved
// and addresses are verified.
type Center struct {
	Name     string          `json:"name"`     // container name, without Docker's leading "/".
	NetNSRef string          `json:"netns"`    // network namespace reference, such as "/proc/42/ns/net".
	Networks []DockerNetwork `json:"networks"` // networks attached to the container.
}

// Names returns the sorted list of names that should be resolvable from the
// center container; see [AllFQDNsOnAttachedNetworks].
func (c *Center) Names() []string {
	return AllFQDNsOnAttachedNetworks(c.Networks)
}

// AllFQDNsOnAttachedNetworks returns the sorted list of FQDNs that should be
// addressable from a particular container, based on the list of attached
// networks with DNS labels and container names and aliases (also DNS labels).
// Each label appears once qualified with each of its networks, and once
// unqualified.
func AllFQDNsOnAttachedNetworks(nets []DockerNetwork) []string {
	names := []string{}
	flatnames := map[string]struct{}{}
	for _, net := range nets {
		for _, label := range net.Labels {
			names = append(names, label+"."+net.Label)
			flatnames[label] = struct{}{}
		}
	}
	for flatname := range flatnames {
		names = append(names, flatname)
	}
	sort.Strings(names)
	return names
}

// DiscoverAttachedNames takes on the position of the “origin” or “center”
// container identified by centerID and then inspects the networks attached to
// this container 0. It then queries the containers attached to the attached
// networks for their container names and aliases.
//
// This implementation even works correctly in situations with multiple Docker
// networks having the same name, yet different IDs. Docker networks are
// different from containers in that network names are not necessarily
// unambiguous, while container names always are.
func DiscoverAttachedNames(ctx context.Context, moby Inspector, centerID string) (*Center, error) {
	centerDetails, err := moby.ContainerInspect(ctx, centerID)
	if err != nil {
		return nil, fmt.Errorf("cannot inspect container %q: %w", centerID, err)
	}
	if centerDetails.ContainerJSONBase == nil || centerDetails.State == nil || centerDetails.State.Pid == 0 {
		return nil, fmt.Errorf("container %q is not running", centerID)
	}
	center := &Center{
		Name:     strings.TrimPrefix(centerDetails.Name, "/"), // argh, Docker's "/name" legacy!
		NetNSRef: fmt.Sprintf("/proc/%d/ns/net", centerDetails.State.Pid),
	}
	if centerDetails.NetworkSettings == nil {
		return center, nil
	}

	// Cache inspection results, as containers might be connected to multiple
	// networks the container 0 is also attached to.
	cntrDetailsCache := map[string]types.ContainerJSON{}
	center.Networks = make([]DockerNetwork, 0, len(centerDetails.NetworkSettings.Networks))
	for attachedNetName, attachedNet := range centerDetails.NetworkSettings.Networks {
		if attachedNet == nil {
			continue
		}
		// Inspecting an attached network gives us all the (other) containers
		// directly attached to that attached network (including container 0).
		attNetDetails, err := moby.NetworkInspect(ctx, attachedNet.NetworkID, types.NetworkInspectOptions{})
		if err != nil {
			return nil, fmt.Errorf("cannot inspect network %q: %w", attachedNetName, err)
		}
		if len(attNetDetails.Containers) == 0 {
			continue
		}
		// Service names might refer to multiple containers, so each DNS label
		// must appear only once. And nobody expects ... Captn Map!
		namesOnNetwork := map[string]struct{}{}
		// The network inspection doesn't reveal the container aliases, but
		// only the container names ... and not even the container IDs.
		for _, attCntr := range attNetDetails.Containers {
			if attCntr.Name == center.Name {
				continue
			}
			attCntrDetails, ok := cntrDetailsCache[attCntr.Name]
			if !ok {
				attCntrDetails, err = moby.ContainerInspect(ctx, attCntr.Name)
				if err != nil {
					log.Debugf("skipping container %q on network %q: %s",
						attCntr.Name, attachedNetName, err.Error())
					continue
				}
				cntrDetailsCache[attCntr.Name] = attCntrDetails
			}
			namesOnNetwork[attCntr.Name] = struct{}{}
			if attCntrDetails.NetworkSettings == nil {
				continue
			}
			if endpoint := attCntrDetails.NetworkSettings.Networks[attachedNetName]; endpoint != nil {
				for _, alias := range endpoint.Aliases {
					namesOnNetwork[alias] = struct{}{}
				}
			}
		}
		dnsLabels := make([]string, 0, len(namesOnNetwork))
		for alias := range namesOnNetwork {
			dnsLabels = append(dnsLabels, alias)
		}
		sort.Strings(dnsLabels)
		center.Networks = append(center.Networks, DockerNetwork{
			Label:  attachedNetName,
			Labels: dnsLabels,
		})
	}
	sort.Slice(center.Networks, func(a, b int) bool {
		return center.Networks[a].Label < center.Networks[b].Label
	})
	log.Debugf("container %q is attached to %d network(s)", center.Name, len(center.Networks))
	return center, nil
}
