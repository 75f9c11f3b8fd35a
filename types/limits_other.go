// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package types

// MaxUnixPathLen is the size of the path buffer of a Unix-domain socket
// address; socket paths must be shorter than this to leave room for the
// terminating NUL.
var MaxUnixPathLen = 108

const (
	sizeofSockaddrInet4 = 16
	sizeofSockaddrInet6 = 28
	sizeofFamilyTag     = 2
)
