/*
 * Copyright (C) 2023 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package ipv6

import (
	"strconv"
	"strings"
)

// Address is an IPv6 address as 16 big-endian octets. It is a value
// type; once parsed it is never mutated.
type Address [16]byte

// ParseAddress parses an IPv6 literal in expanded or "::"-compressed
// notation. Validation is purely syntactic: any 8-group hex string is
// accepted regardless of address type. The second return value is
// false when the text is not a well-formed IPv6 literal.
func ParseAddress(text string) (Address, bool) {
	var addr Address

	text = strings.ToLower(strings.TrimSpace(text))
	if text == "" {
		return addr, false
	}

	var head, tail []string
	switch parts := strings.Split(text, "::"); len(parts) {
	case 1:
		head = splitGroups(parts[0])
		if len(head) != 8 {
			return addr, false
		}
	case 2:
		head = splitGroups(parts[0])
		tail = splitGroups(parts[1])
		// the elision must stand for at least one group
		if len(head)+len(tail) > 7 {
			return addr, false
		}
	default:
		// more than one "::"
		return addr, false
	}

	groups := make([]uint16, 0, 8)
	for _, g := range head {
		v, ok := parseGroup(g)
		if !ok {
			return addr, false
		}
		groups = append(groups, v)
	}
	for i := len(head) + len(tail); i < 8; i++ {
		groups = append(groups, 0)
	}
	for _, g := range tail {
		v, ok := parseGroup(g)
		if !ok {
			return addr, false
		}
		groups = append(groups, v)
	}

	for i, g := range groups {
		addr[2*i] = byte(g >> 8)
		addr[2*i+1] = byte(g)
	}
	return addr, true
}

// splitGroups splits a colon-separated group list, mapping the empty
// string to zero groups (the sides of "::" may be empty).
func splitGroups(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ":")
}

func parseGroup(g string) (uint16, bool) {
	if g == "" || len(g) > 4 {
		return 0, false
	}
	v, err := strconv.ParseUint(g, 16, 16)
	if err != nil {
		return 0, false
	}
	return uint16(v), true
}

// String renders the address in RFC 5952 canonical form: lowercase
// hex, no leading zeros per group, and the longest run of two or more
// zero groups (leftmost on ties) elided as "::".
func (a Address) String() string {
	var groups [8]uint16
	for i := range groups {
		groups[i] = uint16(a[2*i])<<8 | uint16(a[2*i+1])
	}

	// longest zero run, leftmost wins ties
	bestStart, bestLen := -1, 0
	for i := 0; i < 8; {
		if groups[i] != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && groups[j] == 0 {
			j++
		}
		if j-i > bestLen {
			bestStart, bestLen = i, j-i
		}
		i = j
	}
	if bestLen < 2 {
		bestStart = -1
	}

	var sb strings.Builder
	for i := 0; i < 8; i++ {
		if i == bestStart {
			sb.WriteString("::")
			i += bestLen - 1
			continue
		}
		if i > 0 && i != bestStart+bestLen {
			sb.WriteByte(':')
		}
		sb.WriteString(strconv.FormatUint(uint64(groups[i]), 16))
	}
	return sb.String()
}
