// (c) Siemens AG 2023
//
// SPDX-License-Identifier: MIT

package resolver

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// parseBracketLiteral parses a bracketed IPv6 literal of up to four
// colon-separated 32-bit hex words, such as “[20010db8:0:0:1]”, but also
// “[2001:db8::1]”. Please note that this is not a general-purpose IPv6
// parser: each group, regardless of its digit count, fills exactly one of the
// four 32-bit words; an empty group between colons is a zero word, and
// missing trailing groups are zero words too.
//
// The closing bracket is optional, so “[1:2” is fine. However, a closing
// bracket must follow a group, so “[]” and “[1:]” are malformed. Anything
// left over after the fourth group or the closing bracket makes the literal
// invalid.
func parseBracketLiteral(s string) (words [4]uint32, err error) {
	if !strings.HasPrefix(s, "[") {
		return words, errors.New("missing opening bracket")
	}
	pos := 1
	for group := 0; group < len(words) && pos < len(s); group++ {
		switch s[pos] {
		case ']':
			return words, fmt.Errorf("empty group before closing bracket at position %d", pos)
		case ':':
			// empty group, zero word.
		default:
			end := pos
			for end < len(s) && isHexDigit(s[end]) {
				end++
			}
			if end == pos {
				return words, fmt.Errorf("invalid character %q at position %d", s[pos], pos)
			}
			w, err := strconv.ParseUint(s[pos:end], 16, 32)
			if err != nil {
				return words, fmt.Errorf("group %q exceeds 32 bits", s[pos:end])
			}
			words[group] = uint32(w)
			pos = end
		}
		if pos < len(s) && (s[pos] == ':' || s[pos] == ']') {
			closed := s[pos] == ']'
			pos++
			if closed {
				break
			}
		}
	}
	if pos < len(s) {
		return words, fmt.Errorf("trailing characters %q", s[pos:])
	}
	return words, nil
}

// isDottedQuadCandidate returns true if s consists only of digits and dots,
// which makes it an IPv4 literal (that might still be malformed).
func isDottedQuadCandidate(s string) bool {
	for idx := 0; idx < len(s); idx++ {
		if (s[idx] < '0' || s[idx] > '9') && s[idx] != '.' {
			return false
		}
	}
	return true
}

// parseDottedQuad parses an IPv4 address in dotted-quad notation, returning
// the numeric address value.
func parseDottedQuad(s string) (uint32, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("need 4 numbers, got %d", len(parts))
	}
	var addr uint32
	for _, part := range parts {
		if part == "" {
			return 0, errors.New("empty number")
		}
		octet, err := strconv.ParseUint(part, 10, 32)
		if err != nil || octet > 255 {
			return 0, fmt.Errorf("number %s out of range [0..255]", part)
		}
		addr = addr<<8 | uint32(octet)
	}
	return addr, nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
