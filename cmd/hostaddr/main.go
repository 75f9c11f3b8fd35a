// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	// Interrupting cancels any ongoing resolution, digging, and pinging, so
	// that the final results so far still get rendered.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	// No fmt.Println(err) here, as cobra already renders the error message,
	// see also: https://github.com/spf13/cobra/issues/304
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		cancel()
		osExit(1)
	}
}

// For CLI unit tests...
var osExit = os.Exit
