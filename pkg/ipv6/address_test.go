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
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseAddressCanonical(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
	}{
		{"3fff::", "3fff::"},
		{"3FFF::", "3fff::"},
		{"  2001:db8::1  ", "2001:db8::1"},
		{"2001:0db8:0000:0000:0000:0000:0000:0001", "2001:db8::1"},
		{"0:0:0:0:0:0:0:0", "::"},
		{"::", "::"},
		{"::1", "::1"},
		{"1::", "1::"},
		{"2001:db8:0:1:1:1:1:1", "2001:db8:0:1:1:1:1:1"},
		{"2001:0:0:1:0:0:0:1", "2001:0:0:1::1"},
		{"2001:db8:0:0:1:0:0:1", "2001:db8::1:0:0:1"},
		{"fe80:0:0:0:0:0:0:00ff", "fe80::ff"},
	}

	for _, tc := range testCases {
		addr, ok := ParseAddress(tc.input)
		require.True(t, ok, "input %q", tc.input)
		require.Equal(t, tc.expected, addr.String(), "input %q", tc.input)
	}
}

func TestParseAddressInvalid(t *testing.T) {
	invalid := []string{
		"",
		"   ",
		"1:2:3:4:5:6:7",
		"1:2:3:4:5:6:7:8:9",
		"1::2::3",
		":::",
		"1:2:3:4:5:6:7:8::",
		"12345::",
		"g::1",
		"2001:db8::1/64",
		"1.2.3.4",
	}
	for _, input := range invalid {
		_, ok := ParseAddress(input)
		require.False(t, ok, "input %q", input)
	}
}

func TestFormatIsIdempotent(t *testing.T) {
	inputs := []string{
		"2001:DB8:0:0:0:0:0:1",
		"3fff:0:0:0:0:0:0:0",
		"::ffff:0:0",
		"a:b:c:d:e:f:0:0",
	}
	for _, input := range inputs {
		first, ok := ParseAddress(input)
		require.True(t, ok)
		second, ok := ParseAddress(first.String())
		require.True(t, ok)
		require.Equal(t, first.String(), second.String())
	}
}

func TestFormatRFC5952Rules(t *testing.T) {
	// a single zero group is never compressed
	addr, ok := ParseAddress("2001:db8:0:1:1:1:1:1")
	require.True(t, ok)
	require.Equal(t, "2001:db8:0:1:1:1:1:1", addr.String())

	// at most one "::", on the longest run, leftmost on ties
	addr, ok = ParseAddress("2001:0:0:1:0:0:0:1")
	require.True(t, ok)
	require.Equal(t, "2001:0:0:1::1", addr.String())

	addr, ok = ParseAddress("2001:0:0:1:0:0:1:1")
	require.True(t, ok)
	require.Equal(t, "2001::1:0:0:1:1", addr.String())

	// never uppercase
	addr, ok = ParseAddress("ABCD:EF01:2345:6789:ABCD:EF01:2345:6789")
	require.True(t, ok)
	require.Equal(t, strings.ToLower(addr.String()), addr.String())
}
