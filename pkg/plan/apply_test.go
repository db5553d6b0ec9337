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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipamtools/subnet-planner/pkg/api"
)

const testPlanFile = `---
network: "3fff::"
prefix: 20
subnets:
  - cidr: "3fff::/20"
    note: Backbone
    split: true
  - cidr: "3fff:100::/24"
    note: Data Center
    color: "#FF0000"
    splitTo: 28
`

func TestApplyPlanFile(t *testing.T) {
	pf, err := ParsePlanFile([]byte(testPlanFile))
	require.NoError(t, err)
	require.Equal(t, "3fff::", pf.Network)
	require.Equal(t, 20, pf.Prefix)
	require.Len(t, pf.Subnets, 2)

	tree, err := Apply(pf)
	require.NoError(t, err)

	// same result as the equivalent manual calls
	manual := newTestTree(t, "3fff::", 20)
	require.NoError(t, manual.Annotate("3fff::/20", "Backbone", ""))
	require.NoError(t, manual.Split("3fff::/20", 0))
	require.NoError(t, manual.Annotate("3fff:100::/24", "Data Center", "#FF0000"))
	require.NoError(t, manual.Split("3fff:100::/24", 28))
	require.Equal(t, manual, tree)

	require.Equal(t, "Data Center", tree.Node("3fff:140::/28").Note)
	require.Equal(t, "#FF0000", tree.Node("3fff:140::/28").Color)
}

func TestApplyRejectsUnknownSubnet(t *testing.T) {
	pf, err := ParsePlanFile([]byte(`---
network: "3fff::"
prefix: 20
subnets:
  - cidr: "3fff:100::/24"
    note: orphan
`))
	require.NoError(t, err)

	_, err = Apply(pf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "split its parent first")
}

func TestApplyValidatesRoot(t *testing.T) {
	_, err := Apply(parsedPlan(t, "network: bogus\nprefix: 20"))
	require.ErrorIs(t, err, ErrInvalidFormat)

	_, err = Apply(parsedPlan(t, "network: \"3fff::\"\nprefix: 12"))
	require.ErrorIs(t, err, ErrInvalidTarget)

	_, err = Apply(parsedPlan(t, "network: \"3fff::\"\nprefix: 72"))
	require.ErrorIs(t, err, ErrInvalidTarget)
}

func parsedPlan(t *testing.T, doc string) *api.PlanFile {
	t.Helper()
	pf, err := ParsePlanFile([]byte(doc))
	require.NoError(t, err)
	return pf
}
