// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/siemens/hostaddr/types"

	"github.com/spf13/cobra"
)

func newResolveCmd() *cobra.Command {
	var port *uint16
	var asJSON *bool
	cmd := &cobra.Command{
		Use:   "resolve [flags] name...",
		Short: "resolve names, address literals, and socket paths into addresses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			var errs []error
			resolved := make([]*types.ResolvedName, 0, len(args))
			for _, name := range args {
				rn, err := env.resolver.Resolve(ctx, name)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				resolved = append(resolved, rn.WithPort(*port))
			}
			if *asJSON {
				if err := renderJSON(cmd.OutOrStdout(), resolved); err != nil {
					return err
				}
			} else {
				renderResolved(cmd.OutOrStdout(), resolved)
			}
			return errors.Join(errs...)
		},
	}
	port = cmd.Flags().Uint16("port", 0, "port to set on the resolved IP addresses")
	asJSON = cmd.Flags().Bool("json", false, "render results as JSON")
	return cmd
}

// renderJSON renders the specified data as JSON, indented by the current
// indentation setting.
func renderJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", strings.Repeat(" ", int(*indentation)))
	return enc.Encode(data)
}

// renderResolved renders the resolved names and their addresses, one name per
// line.
func renderResolved(w io.Writer, resolved []*types.ResolvedName) {
	for _, rn := range resolved {
		fmt.Fprintf(w, "%s (%s):", rn.Name, rn.Family)
		for _, addr := range rn.Addrs {
			switch {
			case addr.Family() == types.FamilyUnix || addr.Port() == 0:
				fmt.Fprintf(w, " %s", addr)
			default:
				fmt.Fprintf(w, " %s port %d", addr, addr.Port())
			}
		}
		fmt.Fprintln(w)
	}
}
