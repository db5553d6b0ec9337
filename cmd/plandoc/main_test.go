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

package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

type DocTags struct {
	Field    string       `yaml:"field" doc:"a field"`
	Skipped  string       `yaml:"skipped"`
	Sub      DocSubTags   `yaml:"sub" doc:"a nested struct"`
	SubSlice []DocSubTags `yaml:"subSlice" doc:"a list"`
}

type DocSubTags struct {
	SubField string `yaml:"subField" doc:"a nested field"`
}

func Test_iterate(t *testing.T) {
	output := new(bytes.Buffer)
	iterate(output, DocTags{}, 0)
	expected := "    field: a field\n" +
		"    sub: a nested struct\n" +
		"        subField: a nested field\n" +
		"    subSlice: a list\n" +
		"        subField: a nested field\n"
	require.Equal(t, expected, output.String())
}

func Test_main(_ *testing.T) {
	main()
}
