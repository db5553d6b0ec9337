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

package plan

import "errors"

// Every failure mode of the engine is a recoverable condition the
// caller inspects with errors.Is; nothing here aborts the process.
var (
	// ErrInvalidFormat reports address or CIDR text that does not parse.
	ErrInvalidFormat = errors.New("invalid IPv6 address or CIDR")

	// ErrInvalidTarget reports a split or join target prefix that
	// violates the ordering or range constraints.
	ErrInvalidTarget = errors.New("invalid target prefix")

	// ErrCannotSplitMinimumSubnet reports a split attempt at or beyond
	// the /64 floor.
	ErrCannotSplitMinimumSubnet = errors.New("cannot split the minimum subnet size")

	// ErrTooManyChildren reports a single-level split that would create
	// more than the per-level cap of children.
	ErrTooManyChildren = errors.New("too many children at one level")

	// ErrDecode reports malformed persisted state.
	ErrDecode = errors.New("cannot decode plan state")
)
