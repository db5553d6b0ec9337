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

package api

// PlanFile is the YAML document a plan can be declared in, as an
// alternative to building it interactively. Subnet entries are applied
// in order, so a subnet must be produced by an earlier split before it
// can be annotated or split itself.
type PlanFile struct {
	Network string      `yaml:"network" doc:"root network address, quoted in YAML, e.g. '3fff::'"`
	Prefix  int         `yaml:"prefix" doc:"root prefix length, 16 to 64"`
	Subnets []PlanEntry `yaml:"subnets" doc:"ordered list of subnet operations, each includes:"`
}

type PlanEntry struct {
	CIDR    string `yaml:"cidr" doc:"the subnet to operate on; must be the root or already created by an earlier split"`
	Note    string `yaml:"note" doc:"annotation to set on the subnet (optional)"`
	Color   string `yaml:"color" doc:"display color to set on the subnet, e.g. #FF0000 (optional)"`
	Split   bool   `yaml:"split" doc:"split the subnet at the next nibble boundary"`
	SplitTo int    `yaml:"splitTo" doc:"split the subnet down to this prefix length instead (overrides split)"`
}
