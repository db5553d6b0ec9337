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
	"encoding/binary"
	"math/bits"
)

// uint128 is a 128-bit unsigned integer held as two 64-bit words.
// All address arithmetic goes through it; float paths would lose
// precision above bit 53.
type uint128 struct {
	hi, lo uint64
}

// add returns x + y modulo 2^128
func (x uint128) add(y uint128) uint128 {
	lo, carry := bits.Add64(x.lo, y.lo, 0)
	hi, _ := bits.Add64(x.hi, y.hi, carry)
	return uint128{hi: hi, lo: lo}
}

// and returns the bitwise AND of x and y
func (x uint128) and(y uint128) uint128 {
	return uint128{hi: x.hi & y.hi, lo: x.lo & y.lo}
}

// lsh shifts x left by k bits (0 <= k < 128)
func (x uint128) lsh(k uint) uint128 {
	if k >= 64 {
		return uint128{hi: x.lo << (k - 64), lo: 0}
	}
	if k == 0 {
		return x
	}
	return uint128{hi: x.hi<<k | x.lo>>(64-k), lo: x.lo << k}
}

// prefixMask returns a uint128 with the top n bits set (0 <= n <= 128)
func prefixMask(n int) uint128 {
	switch {
	case n <= 0:
		return uint128{}
	case n >= 128:
		return uint128{hi: ^uint64(0), lo: ^uint64(0)}
	case n <= 64:
		return uint128{hi: ^uint64(0) << (64 - n), lo: 0}
	default:
		return uint128{hi: ^uint64(0), lo: ^uint64(0) << (128 - n)}
	}
}

func (a Address) uint128() uint128 {
	return uint128{
		hi: binary.BigEndian.Uint64(a[:8]),
		lo: binary.BigEndian.Uint64(a[8:]),
	}
}

func (x uint128) address() Address {
	var a Address
	binary.BigEndian.PutUint64(a[:8], x.hi)
	binary.BigEndian.PutUint64(a[8:], x.lo)
	return a
}
