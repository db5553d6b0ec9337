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
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ipamtools/subnet-planner/pkg/plan"
)

// WriteCSV writes the plan as CSV, one row per subnet in sorted
// pre-order, with the nesting depth as an explicit column.
func WriteCSV(w io.Writer, t *plan.Tree) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Depth", "Subnet", "Note", "Color"}); err != nil {
		return err
	}
	var walkErr error
	t.Walk(func(cidr string, node *plan.Node, depth int) {
		if walkErr != nil {
			return
		}
		walkErr = cw.Write([]string{strconv.Itoa(depth), cidr, node.Note, node.Color})
	})
	if walkErr != nil {
		return walkErr
	}
	cw.Flush()
	return cw.Error()
}
