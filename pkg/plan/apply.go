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

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v2"

	"github.com/ipamtools/subnet-planner/pkg/api"
	"github.com/ipamtools/subnet-planner/pkg/ipv6"
)

// Root prefixes a plan may be declared with. The engine itself only
// enforces the /64 floor; this narrower window is tool policy applied
// where roots are loaded.
const (
	MinRootPrefix = 16
	MaxRootPrefix = 64
)

// ParsePlanFile unmarshals a YAML plan definition.
func ParsePlanFile(raw []byte) (*api.PlanFile, error) {
	var pf api.PlanFile
	if err := yaml.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("parsing plan file: %w", err)
	}
	return &pf, nil
}

// Apply builds a tree from a plan definition, running its entries in
// order. Each entry must name the root or a subnet created by an
// earlier split, so a plan cannot fabricate nodes outside the
// hierarchy.
func Apply(pf *api.PlanFile) (*Tree, error) {
	network, ok := ipv6.ParseAddress(pf.Network)
	if !ok {
		return nil, fmt.Errorf("%w: network %q", ErrInvalidFormat, pf.Network)
	}
	if pf.Prefix < MinRootPrefix || pf.Prefix > MaxRootPrefix {
		return nil, fmt.Errorf("%w: root prefix /%d not in [%d,%d]",
			ErrInvalidTarget, pf.Prefix, MinRootPrefix, MaxRootPrefix)
	}

	t := NewTree(network, pf.Prefix)
	for i, entry := range pf.Subnets {
		c, ok := ipv6.ParseCIDR(entry.CIDR)
		if !ok {
			return nil, fmt.Errorf("%w: subnets[%d] cidr %q", ErrInvalidFormat, i, entry.CIDR)
		}
		key := c.String()
		if key != t.Root() && t.Node(key) == nil {
			return nil, fmt.Errorf("subnets[%d]: %s does not exist yet, split its parent first", i, key)
		}
		if err := t.Annotate(key, entry.Note, entry.Color); err != nil {
			return nil, fmt.Errorf("subnets[%d]: %w", i, err)
		}
		if entry.SplitTo != 0 || entry.Split {
			if err := t.Split(key, entry.SplitTo); err != nil {
				return nil, fmt.Errorf("subnets[%d]: %w", i, err)
			}
			log.Debugf("applied split of %s (target %d)", key, entry.SplitTo)
		}
	}
	return t, nil
}
