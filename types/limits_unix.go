// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

//go:build linux || darwin || freebsd || netbsd || openbsd

package types

import "golang.org/x/sys/unix"

// MaxUnixPathLen is the size of the path buffer of a Unix-domain socket
// address; socket paths must be shorter than this to leave room for the
// terminating NUL.
var MaxUnixPathLen = len(unix.RawSockaddrUnix{}.Path)

const (
	sizeofSockaddrInet4 = unix.SizeofSockaddrInet4
	sizeofSockaddrInet6 = unix.SizeofSockaddrInet6
	sizeofFamilyTag     = 2 // sa_family_t
)
