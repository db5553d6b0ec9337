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
	"encoding/base64"
	"fmt"

	"github.com/golang/snappy"
	jsoniter "github.com/json-iterator/go"

	"github.com/ipamtools/subnet-planner/pkg/ipv6"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// stateNode is the persisted shape of one subnet: annotation plus the
// nested children keyed by CIDR, mirroring the in-memory edges.
type stateNode struct {
	Note     string                `json:"note,omitempty"`
	Color    string                `json:"color,omitempty"`
	Children map[string]*stateNode `json:"subnets,omitempty"`
}

// stateDoc is the self-describing top-level blob.
type stateDoc struct {
	Network string     `json:"network"`
	Prefix  int        `json:"prefix"`
	Root    *stateNode `json:"tree,omitempty"`
}

// Encode serializes the tree to a compact, URL-safe string: JSON,
// snappy-compressed, base64url without padding. The encoding is
// lossless; Decode reproduces a structurally equal tree.
func Encode(t *Tree) (string, error) {
	doc := stateDoc{
		Network: t.network.String(),
		Prefix:  t.prefix,
		Root:    t.persistSubtree(t.Root()),
	}
	raw, err := json.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("marshaling plan state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(snappy.Encode(nil, raw)), nil
}

// persistSubtree builds the nested persisted form of the subtree at
// key, or nil when the node holds nothing worth persisting.
func (t *Tree) persistSubtree(key string) *stateNode {
	node := t.nodes[key]
	kids := t.Children(key)
	if node == nil && len(kids) == 0 {
		return nil
	}
	out := &stateNode{}
	if node != nil {
		out.Note = node.Note
		out.Color = node.Color
	}
	if len(kids) > 0 {
		out.Children = make(map[string]*stateNode, len(kids))
		for _, kid := range kids {
			out.Children[kid] = t.persistSubtree(kid)
		}
	}
	return out
}

// Decode rebuilds a tree from the output of Encode. Any defect in the
// text, its compression, its JSON, or its structure is reported as
// ErrDecode; callers typically fall back to a default network.
func Decode(text string) (*Tree, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	raw, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var doc stateDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	network, ok := ipv6.ParseAddress(doc.Network)
	if !ok {
		return nil, fmt.Errorf("%w: bad network %q", ErrDecode, doc.Network)
	}
	if doc.Prefix < 0 || doc.Prefix > 128 {
		return nil, fmt.Errorf("%w: bad prefix %d", ErrDecode, doc.Prefix)
	}

	t := NewTree(network, doc.Prefix)
	if doc.Root != nil {
		root, _ := ipv6.ParseCIDR(t.Root())
		if err := t.restoreSubtree(root, doc.Root); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// restoreSubtree materializes one persisted node and its children,
// validating that every child key parses and falls strictly inside its
// parent. Iterative with a work stack, like DeleteDescendants.
func (t *Tree) restoreSubtree(cidr ipv6.CIDR, persisted *stateNode) error {
	type frame struct {
		cidr ipv6.CIDR
		node *stateNode
	}
	stack := []frame{{cidr: cidr, node: persisted}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		key := cur.cidr.String()
		node := t.getOrCreate(key)
		node.Note = cur.node.Note
		node.Color = cur.node.Color

		for childKey, childNode := range cur.node.Children {
			child, ok := ipv6.ParseCIDR(childKey)
			if !ok {
				return fmt.Errorf("%w: bad subnet key %q", ErrDecode, childKey)
			}
			if !cur.cidr.Contains(child) {
				return fmt.Errorf("%w: %s is not inside %s", ErrDecode, child, cur.cidr)
			}
			if childNode == nil {
				childNode = &stateNode{}
			}
			t.link(key, child.String())
			stack = append(stack, frame{cidr: child, node: childNode})
		}
	}
	return nil
}
