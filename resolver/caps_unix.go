// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

//go:build !(plan9 || js || wasip1)

package resolver

const unixSocketsSupported = true
