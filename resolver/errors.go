// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"errors"
	"fmt"
)

var (
	// ErrParse is matched by all errors about malformed address literals.
	ErrParse = errors.New("malformed address literal")
	// ErrResolve is matched by all errors about names that could not be
	// resolved, after all fallbacks have been tried.
	ErrResolve = errors.New("cannot resolve name")
	// ErrNoAddresses signals that a resolver facility answered, but without
	// any IPv4 or IPv6 addresses.
	ErrNoAddresses = errors.New("no IPv4 or IPv6 addresses")
	// ErrReverseLookup signals that an address could not be mapped back to a
	// name.
	ErrReverseLookup = errors.New("reverse lookup failed")
	// ErrNoFacility signals that there is no resolver facility configured for
	// a particular kind of lookup.
	ErrNoFacility = errors.New("no resolver facility")
)

// ParseError reports a malformed bracketed IPv6 literal, a malformed or
// out-of-range dotted-quad IPv4 literal, or an unusable Unix-domain socket
// path. Parse errors are final and never retried.
type ParseError struct {
	Input string // input as given
	Err   error  // details
}

// Error returns the error message, including the offending input.
func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed address literal %q: %s", e.Input, e.Err)
}

// Unwrap returns the detailed error.
func (e *ParseError) Unwrap() error { return e.Err }

// Is matches ErrParse.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// ResolveError reports that a name could not be resolved, neither by the
// modern nor the legacy resolver facility.
type ResolveError struct {
	Name string // name as given
	Err  error  // error reported by the last facility tried
}

// Error returns the error message, including the name.
func (e *ResolveError) Error() string {
	return fmt.Sprintf("cannot resolve %q: %s", e.Name, e.Err)
}

// Unwrap returns the facility error.
func (e *ResolveError) Unwrap() error { return e.Err }

// Is matches ErrResolve.
func (e *ResolveError) Is(target error) bool { return target == ErrResolve }
