// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/siemens/hostaddr/dig"
	"github.com/siemens/hostaddr/ping"
	"github.com/siemens/hostaddr/types"
	"github.com/siemens/hostaddr/verifier"

	"github.com/gosuri/uilive"
	"github.com/spf13/cobra"
)

func newDigCmd() *cobra.Command {
	var port *uint16
	var verify *bool
	var unprivileged *bool
	var asJSON *bool
	cmd := &cobra.Command{
		Use:   "dig [flags] [name...]",
		Short: "concurrently resolve names and optionally verify the addresses by pinging them",
		Long: `Concurrently resolves the specified names into their addresses and optionally
verifies the addresses by pinging them. When --container is specified without
any names, all container and service names on the networks attached to the
container are dug up from the perspective of that container.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()
			names := args
			if len(names) == 0 {
				if env.center == nil {
					return errors.New("no names to dig; specify names or --container")
				}
				names = env.center.Names()
			}
			opts := digOptions{
				port:   *port,
				verify: *verify,
				asJSON: *asJSON,
			}
			if *unprivileged {
				opts.pingOptions = append(opts.pingOptions, ping.AsUnprivileged())
			}
			return DigAndReport(cmd.Context(), cmd.OutOrStdout(), env, names, opts)
		},
	}
	port = cmd.Flags().Uint16("port", 0, "port to set on the resolved IP addresses")
	verify = cmd.Flags().Bool("verify", false, "verify addresses by pinging them")
	unprivileged = cmd.Flags().Bool("unprivileged", false, "ping using UDP instead of ICMP")
	asJSON = cmd.Flags().Bool("json", false, "render final results as JSON instead of a live display")
	return cmd
}

// digOptions control how DigAndReport digs.
type digOptions struct {
	port        uint16
	verify      bool
	asJSON      bool
	pingOptions []ping.PingerOption
}

// DigAndReport digs the specified names, optionally verifies the addresses dug
// up by pinging them, and reports the progress and final outcome. Unless
// reporting JSON, the report gets continuously updated while digging and
// verifying.
func DigAndReport(ctx context.Context, w io.Writer, env *environment, names []string, opts digOptions) error {
	// Create an empty (concurrency-safe) result map with named-and-qualified
	// addresses and immediately fire off the rendering goroutine. The rendering
	// will only stop after tracking has finished because the result stream
	// channel has been closed. We then render a final update and end rendering,
	// signalling the end of our activities via renderingDone.
	namaddrs := dig.NewNamedAddressesMap()
	trackingDone := make(chan struct{})
	renderingDone := make(chan struct{})

	if opts.asJSON {
		go func() {
			<-trackingDone
			close(renderingDone)
		}()
	} else {
		go func() {
			// Dunno what uilive's background updating mode using Start() is
			// good for? It may trigger anytime with the rendering into the
			// buffer not yet complete, thus making the terminal output very
			// flickery. So we avoid Start() and instead trigger an explicit
			// flush to the terminal after having completed the rendering.
			term := uilive.New()
			term.Out = w
			renderer := newRenderer(term, env.center)
			renderer.Indentation = int(*indentation)
			defer func() {
				renderData(term, renderer, namaddrs)
				renderer.Stop()
				close(renderingDone)
			}()
			renderData(term, renderer, namaddrs)
			ticker := time.NewTicker(20 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					renderData(term, renderer, namaddrs)
				case <-trackingDone:
					return
				}
			}
		}()
	}

	// Now lets put the required processing elements and their plumbing in
	// place.
	//
	//   - Digger producing addresses from a list of names.
	//   - optional Verifier consuming the addresses and checking them,
	//     producing "verdicts".
	//   - NamedAddressMap consuming these "verdicts".
	//
	// Rendering is done on the information collected by the NamedAddressMap.
	digger, diggernews := dig.New(int(*workerNumber), env.resolver)
	var news <-chan types.NamedAddress = diggernews
	if opts.verify {
		var v *verifier.Verifier
		v, news = verifier.New(int(*workerNumber), env.netnsref, opts.pingOptions...)
		go v.Verify(ctx, diggernews)
	}
	go func() {
		_ = namaddrs.Track(ctx, news)
		close(trackingDone)
	}()

	// Finally feed the names into the Digger, so they can be processed and
	// move through the different stages. Then close the input stream and wait
	// for all the data to pass the stages and finally get rendered a last
	// time.
	go func() {
		digger.DigNames(ctx, names, opts.port)
		digger.StopWait()
	}()
	<-renderingDone

	if opts.asJSON {
		return renderJSON(w, namaddrs.Get())
	}
	return nil
}

// renderData get the current named+verified address data and then renders (and
// flushes) it to the terminal.
func renderData(term *uilive.Writer, r *renderer, data *dig.NamedAddressesMap) {
	r.Render(data.Get())
	term.Flush()
}
