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
	"bytes"
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// Mask returns the address with every bit beyond prefix cleared.
// Mask(a, 0) is all-zero and Mask(a, 128) is a itself.
func Mask(addr Address, prefix int) Address {
	return addr.uint128().and(prefixMask(prefix)).address()
}

// NextNibbleBoundary returns the default split target for prefix: the
// next multiple of 4 strictly above a nibble-aligned prefix, or the
// enclosing multiple of 4 otherwise.
func NextNibbleBoundary(prefix int) int {
	if prefix%4 == 0 {
		return prefix + 4
	}
	return prefix + (4 - prefix%4)
}

// NibbleBoundaries returns every nibble-aligned prefix strictly between
// start and end, followed by end itself even when end is not aligned.
// When start >= end the result is the single element [start]. The
// sequence lists each intermediate level a non-trivial split has to
// materialize, e.g. NibbleBoundaries(20, 30) = [24, 28, 30].
func NibbleBoundaries(start, end int) []int {
	if start >= end {
		return []int{start}
	}
	var boundaries []int
	for b := NextNibbleBoundary(start); b < end; b = b + 4 {
		boundaries = append(boundaries, b)
	}
	return append(boundaries, end)
}

// ChildAt returns child number index of parent when split to
// targetPrefix: parent + (index << (128 - targetPrefix)) over exact
// 128-bit arithmetic. Index 0 reproduces the parent's own base
// address. Callers own the bound index < 2^(targetPrefix - parentPrefix);
// the parent prefix is not part of the signature, so the panic below
// only rejects indexes too large to shift into 128 bits at all.
func ChildAt(parent Address, targetPrefix, index int) Address {
	if targetPrefix < 0 || targetPrefix > 128 {
		panic(fmt.Sprintf("ChildAt: prefix %d out of range", targetPrefix))
	}
	if index < 0 || (targetPrefix < 64 && uint64(index) >= uint64(1)<<uint(targetPrefix)) {
		panic(fmt.Sprintf("ChildAt: child index %d out of range for /%d", index, targetPrefix))
	}
	offset := uint128{lo: uint64(index)}.lsh(uint(128 - targetPrefix))
	return parent.uint128().add(offset).address()
}

// SubnetCount returns how many /targetPrefix networks a /prefix block
// contains, exact at any scale (a /16 holds 2^48 /64s, well past the
// float53 cliff).
func SubnetCount(prefix, targetPrefix int) *big.Int {
	if targetPrefix < prefix {
		return big.NewInt(0)
	}
	return new(big.Int).Lsh(big.NewInt(1), uint(targetPrefix-prefix))
}

// CIDR is an address/prefix pair. The address is always stored masked
// to the prefix, so two CIDRs denote the same network iff they are
// equal.
type CIDR struct {
	Addr   Address
	Prefix int
}

// NewCIDR masks addr to prefix and pairs them.
func NewCIDR(addr Address, prefix int) CIDR {
	return CIDR{Addr: Mask(addr, prefix), Prefix: prefix}
}

// ParseCIDR parses "<address>/<prefix>" notation, masking the address
// to the prefix. Like ParseAddress it reports failure via the second
// return value.
func ParseCIDR(text string) (CIDR, bool) {
	addrPart, prefixPart, found := strings.Cut(strings.TrimSpace(text), "/")
	if !found {
		return CIDR{}, false
	}
	addr, ok := ParseAddress(addrPart)
	if !ok {
		return CIDR{}, false
	}
	prefix, err := strconv.Atoi(prefixPart)
	if err != nil || prefix < 0 || prefix > 128 {
		return CIDR{}, false
	}
	return NewCIDR(addr, prefix), true
}

func (c CIDR) String() string {
	return c.Addr.String() + "/" + strconv.Itoa(c.Prefix)
}

// Contains reports whether other falls inside c with a strictly longer
// prefix.
func (c CIDR) Contains(other CIDR) bool {
	return other.Prefix > c.Prefix && Mask(other.Addr, c.Prefix) == c.Addr
}

// CompareCIDR orders two CIDR strings by their address bytes, first
// differing byte wins. The prefix length is deliberately ignored: the
// comparator is only ever applied among siblings at one level, where
// numeric address order is the order wanted ("3fff::/24" before
// "3fff:100::/24", which lexical ordering gets wrong). Unparseable
// input compares as the all-zero address.
func CompareCIDR(a, b string) int {
	ca, _ := ParseCIDR(a)
	cb, _ := ParseCIDR(b)
	return bytes.Compare(ca.Addr[:], cb.Addr[:])
}
