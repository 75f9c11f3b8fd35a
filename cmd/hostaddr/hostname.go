// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newHostnameCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hostname",
		Short: "show the fully qualified domain name of the local host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), *timeout)
			defer cancel()
			env, err := newEnvironment(ctx)
			if err != nil {
				return err
			}
			defer env.Close()
			fmt.Fprintln(cmd.OutOrStdout(), env.resolver.LocalFQDN(ctx))
			return nil
		},
	}
}
