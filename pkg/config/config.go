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

package config

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/ipamtools/subnet-planner/pkg/ipv6"
	"github.com/ipamtools/subnet-planner/pkg/plan"
)

// The IPv6 documentation block, used whenever no usable state is
// supplied.
const (
	DefaultNetwork = "3fff::"
	DefaultPrefix  = 20
)

// Options carries everything the CLI can set, bound to flags and
// environment by the command layer. It is passed explicitly; there is
// no package-global instance.
type Options struct {
	LogLevel  string
	State     string // encoded plan state string
	StateFile string // file holding an encoded plan state string
	Network   string // root network for a fresh plan
	Prefix    int    // root prefix for a fresh plan
}

// LoadTree materializes the working tree from the options, in order of
// preference: inline state, state file, fresh network/prefix. A state
// string that fails to decode falls back to the default network rather
// than failing, matching how a shared link with a mangled fragment is
// treated.
func LoadTree(opts *Options) (*plan.Tree, error) {
	state := strings.TrimSpace(opts.State)
	if state == "" && opts.StateFile != "" {
		raw, err := os.ReadFile(opts.StateFile)
		if err != nil {
			return nil, fmt.Errorf("reading state file: %w", err)
		}
		state = strings.TrimSpace(string(raw))
	}

	if state != "" {
		t, err := plan.Decode(state)
		if err != nil {
			log.Warnf("falling back to %s/%d: %v", DefaultNetwork, DefaultPrefix, err)
			return defaultTree(), nil
		}
		return t, nil
	}

	network := opts.Network
	if network == "" {
		network = DefaultNetwork
	}
	prefix := opts.Prefix
	if prefix == 0 {
		prefix = DefaultPrefix
	}

	addr, ok := ipv6.ParseAddress(network)
	if !ok {
		return nil, fmt.Errorf("%w: network %q", plan.ErrInvalidFormat, network)
	}
	if prefix < plan.MinRootPrefix || prefix > plan.MaxRootPrefix {
		return nil, fmt.Errorf("%w: root prefix /%d not in [%d,%d]",
			plan.ErrInvalidTarget, prefix, plan.MinRootPrefix, plan.MaxRootPrefix)
	}
	return plan.NewTree(addr, prefix), nil
}

func defaultTree() *plan.Tree {
	addr, _ := ipv6.ParseAddress(DefaultNetwork)
	return plan.NewTree(addr, DefaultPrefix)
}
