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

package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ipamtools/subnet-planner/pkg/ipv6"
	"github.com/ipamtools/subnet-planner/pkg/plan"
)

func TestWriteCSV(t *testing.T) {
	addr, ok := ipv6.ParseAddress("3fff::")
	require.True(t, ok)
	tree := plan.NewTree(addr, 20)
	require.NoError(t, tree.Annotate("3fff::/20", "Backbone", ""))
	require.NoError(t, tree.Split("3fff::/20", 0))
	require.NoError(t, tree.Annotate("3fff:100::/24", "Data Center", "#FF0000"))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tree))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1+1+16)
	require.Equal(t, []string{"Depth", "Subnet", "Note", "Color"}, rows[0])
	require.Equal(t, []string{"0", "3fff::/20", "Backbone", ""}, rows[1])
	require.Equal(t, []string{"1", "3fff::/24", "Backbone", ""}, rows[2])
	require.Equal(t, []string{"1", "3fff:100::/24", "Data Center", "#FF0000"}, rows[3])
	require.Equal(t, []string{"1", "3fff:f00::/24", "Backbone", ""}, rows[17])
}
