// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func newLookupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "lookup [flags] address...",
		Short: "look up the names of address literals",
		Long: `Looks up the names of address literals. If there is no name for an IP address,
its textual form is shown instead. Unix-domain socket paths are their own names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close()

			var errs []error
			for _, literal := range args {
				rn, err := env.resolver.Resolve(ctx, literal)
				if err != nil {
					errs = append(errs, err)
					continue
				}
				for _, addr := range rn.Addrs {
					name, err := env.resolver.LookupName(ctx, addr)
					if err != nil {
						fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s\n", err.Error())
					}
					fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", addr, name)
				}
			}
			return errors.Join(errs...)
		},
	}
}
