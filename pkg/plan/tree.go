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
	"sort"

	"github.com/ipamtools/subnet-planner/pkg/ipv6"
	log "github.com/sirupsen/logrus"
)

const (
	// MinimumSubnetPrefix is the floor below which subnets are not
	// split any further.
	MinimumSubnetPrefix = 64

	// maxLevelBits caps a single-level split at 2^10 = 1024 children.
	maxLevelBits = 10
)

// Node carries the user annotation of one subnet. Structure lives in
// the owning Tree, not here.
type Node struct {
	Note  string
	Color string
}

// Tree is the hierarchical partition of one root network. Nodes are
// kept in a flat arena keyed by canonical CIDR string, with parent to
// child edges stored separately, so ancestry can always be re-derived
// by masking and no nested structure has to be kept in sync.
//
// A Tree is not safe for concurrent use; a multithreaded host must
// serialize all calls behind one lock. Every operation is a bounded,
// synchronous computation.
type Tree struct {
	network  ipv6.Address
	prefix   int
	nodes    map[string]*Node
	children map[string]map[string]struct{}
}

// NewTree creates an empty tree rooted at network/prefix. The network
// address is masked to the prefix.
func NewTree(network ipv6.Address, prefix int) *Tree {
	return &Tree{
		network:  ipv6.Mask(network, prefix),
		prefix:   prefix,
		nodes:    map[string]*Node{},
		children: map[string]map[string]struct{}{},
	}
}

func (t *Tree) Network() ipv6.Address { return t.network }

func (t *Tree) Prefix() int { return t.prefix }

// Root returns the canonical CIDR string of the root network.
func (t *Tree) Root() string {
	return ipv6.CIDR{Addr: t.network, Prefix: t.prefix}.String()
}

// Node returns the node stored under cidr, or nil.
func (t *Tree) Node(cidr string) *Node {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return nil
	}
	return t.nodes[c.String()]
}

// GetOrCreateNode returns the node under cidr, materializing an empty
// one first when absent. It is the single entry point that creates
// nodes, so a CIDR is never stored twice. Returns nil when cidr does
// not parse.
func (t *Tree) GetOrCreateNode(cidr string) *Node {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		log.Debugf("GetOrCreateNode: unparseable cidr %q", cidr)
		return nil
	}
	return t.getOrCreate(c.String())
}

// getOrCreate works on canonical keys only.
func (t *Tree) getOrCreate(key string) *Node {
	if node, found := t.nodes[key]; found {
		return node
	}
	node := &Node{}
	t.nodes[key] = node
	return node
}

// IsSplit reports whether the subnet at cidr has at least one child.
func (t *Tree) IsSplit(cidr string) bool {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return false
	}
	return len(t.children[c.String()]) > 0
}

// Children returns the child CIDRs of cidr in ascending numeric
// address order.
func (t *Tree) Children(cidr string) []string {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return nil
	}
	kids := make([]string, 0, len(t.children[c.String()]))
	for k := range t.children[c.String()] {
		kids = append(kids, k)
	}
	sort.Slice(kids, func(i, j int) bool { return ipv6.CompareCIDR(kids[i], kids[j]) < 0 })
	return kids
}

// Len returns the number of materialized nodes.
func (t *Tree) Len() int { return len(t.nodes) }

// Split partitions the subnet at cidr down to targetPrefix. A zero
// targetPrefix selects the next nibble boundary. Splitting across more
// than one nibble boundary materializes every intermediate level, so
// the result is a full subtree rather than a flat child set. All
// preconditions are checked before any node is created; a returned
// error means the tree was not touched.
func (t *Tree) Split(cidr string, targetPrefix int) error {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cidr)
	}
	if c.Prefix >= MinimumSubnetPrefix {
		return fmt.Errorf("%w: /%d", ErrCannotSplitMinimumSubnet, c.Prefix)
	}
	if targetPrefix == 0 {
		targetPrefix = ipv6.NextNibbleBoundary(c.Prefix)
	}
	if targetPrefix <= c.Prefix || targetPrefix > MinimumSubnetPrefix {
		return fmt.Errorf("%w: split /%d to /%d", ErrInvalidTarget, c.Prefix, targetPrefix)
	}

	boundaries := ipv6.NibbleBoundaries(c.Prefix, targetPrefix)
	log.Debugf("split %s to /%d via levels %v", c, targetPrefix, boundaries)
	if len(boundaries) == 1 {
		_, err := t.CreateIntermediateLevel(c.String(), boundaries[0])
		return err
	}
	_, err := t.CreateIntermediateLevels(c.String(), targetPrefix)
	return err
}

// CreateIntermediateLevel creates every direct child of parentCidr at
// targetPrefix and returns their CIDRs in index order, which is also
// numeric address order. Children that already exist are kept; a
// child whose own note or color is still empty inherits the parent's,
// but an existing annotation is never overwritten. A targetPrefix at
// or below the parent's is a defined no-op.
func (t *Tree) CreateIntermediateLevel(parentCidr string, targetPrefix int) ([]string, error) {
	parent, ok := ipv6.ParseCIDR(parentCidr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, parentCidr)
	}
	if targetPrefix <= parent.Prefix {
		return nil, nil
	}
	if targetPrefix-parent.Prefix > maxLevelBits {
		return nil, fmt.Errorf("%w: /%d to /%d wants 2^%d children",
			ErrTooManyChildren, parent.Prefix, targetPrefix, targetPrefix-parent.Prefix)
	}

	parentKey := parent.String()
	parentNode := t.getOrCreate(parentKey)
	count := 1 << (targetPrefix - parent.Prefix)
	created := make([]string, 0, count)
	for i := 0; i < count; i++ {
		key := ipv6.NewCIDR(ipv6.ChildAt(parent.Addr, targetPrefix, i), targetPrefix).String()
		child := t.getOrCreate(key)
		if child.Note == "" {
			child.Note = parentNode.Note
		}
		if child.Color == "" {
			child.Color = parentNode.Color
		}
		t.link(parentKey, key)
		created = append(created, key)
	}
	return created, nil
}

// CreateIntermediateLevels splits parentCidr down to targetPrefix one
// nibble boundary at a time, creating each level under every subnet of
// the previous one. Annotations propagate level by level: a grandchild
// inherits from its immediate parent, which may itself have just
// inherited. Returns every CIDR created, level by level.
func (t *Tree) CreateIntermediateLevels(parentCidr string, targetPrefix int) ([]string, error) {
	parent, ok := ipv6.ParseCIDR(parentCidr)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidFormat, parentCidr)
	}

	frontier := []string{parent.String()}
	var created []string
	for _, boundary := range ipv6.NibbleBoundaries(parent.Prefix, targetPrefix) {
		var level []string
		for _, p := range frontier {
			kids, err := t.CreateIntermediateLevel(p, boundary)
			if err != nil {
				return created, err
			}
			level = append(level, kids...)
		}
		created = append(created, level...)
		frontier = level
	}
	return created, nil
}

// Join collapses the subtree under the ancestor of cidr at
// targetPrefix, which must not exceed cidr's own prefix. The ancestor
// is found by masking; its own annotation survives, everything below
// it is removed.
func (t *Tree) Join(cidr string, targetPrefix int) error {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cidr)
	}
	if targetPrefix < 0 || targetPrefix > c.Prefix {
		return fmt.Errorf("%w: join /%d to /%d", ErrInvalidTarget, c.Prefix, targetPrefix)
	}
	ancestor := ipv6.NewCIDR(c.Addr, targetPrefix)
	log.Debugf("join %s into %s", c, ancestor)
	t.DeleteDescendants(ancestor.String())
	return nil
}

// DeleteDescendants removes every node below cidr from both the child
// edges and the arena, leaving the node at cidr itself untouched. An
// explicit work stack keeps the traversal depth-independent. Calling
// it on a leaf is a no-op.
func (t *Tree) DeleteDescendants(cidr string) {
	c, ok := ipv6.ParseCIDR(cidr)
	if !ok {
		return
	}
	key := c.String()

	stack := make([]string, 0, len(t.children[key]))
	for child := range t.children[key] {
		stack = append(stack, child)
	}
	delete(t.children, key)

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for child := range t.children[cur] {
			stack = append(stack, child)
		}
		delete(t.children, cur)
		delete(t.nodes, cur)
	}
}

// Walk visits the root and every descendant in sorted pre-order. The
// root is visited even when it was never annotated or split.
func (t *Tree) Walk(visit func(cidr string, node *Node, depth int)) {
	type frame struct {
		cidr  string
		depth int
	}
	stack := []frame{{cidr: t.Root()}}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		node := t.nodes[cur.cidr]
		if node == nil {
			node = &Node{}
		}
		visit(cur.cidr, node, cur.depth)

		kids := t.Children(cur.cidr)
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, frame{cidr: kids[i], depth: cur.depth + 1})
		}
	}
}

// Annotate sets the note and color of the node at cidr, creating it
// when needed. Empty arguments leave the corresponding field alone.
func (t *Tree) Annotate(cidr, note, color string) error {
	node := t.GetOrCreateNode(cidr)
	if node == nil {
		return fmt.Errorf("%w: %q", ErrInvalidFormat, cidr)
	}
	if note != "" {
		node.Note = note
	}
	if color != "" {
		node.Color = color
	}
	return nil
}

func (t *Tree) link(parentKey, childKey string) {
	set := t.children[parentKey]
	if set == nil {
		set = map[string]struct{}{}
		t.children[parentKey] = set
	}
	set[childKey] = struct{}{}
}
