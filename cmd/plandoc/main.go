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

// plandoc renders the plan-file reference from the doc tags of the api
// package, so the documentation cannot drift from the schema.
package main

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/ipamtools/subnet-planner/pkg/api"
)

func iterate(output io.Writer, data interface{}, indent int) {
	newIndent := indent + 1
	value := reflect.ValueOf(data)

	switch value.Kind() {
	case reflect.Slice, reflect.Map:
		zeroElement := reflect.Zero(value.Type().Elem()).Interface()
		iterate(output, zeroElement, indent)
	case reflect.Ptr:
		zeroElement := reflect.Zero(value.Type().Elem()).Interface()
		iterate(output, zeroElement, indent)
	case reflect.Struct:
		for i := 0; i < value.NumField(); i++ {
			field := value.Type().Field(i)
			fieldName := strings.ReplaceAll(field.Tag.Get(api.TagYaml), ",omitempty", "")
			fieldDoc := field.Tag.Get(api.TagDoc)
			if fieldDoc == "" {
				continue
			}
			fmt.Fprintf(output, "%s%s: %s\n", strings.Repeat(" ", 4*newIndent), fieldName, fieldDoc)
			iterate(output, value.Field(i).Interface(), newIndent)
		}
	}
}

func main() {
	output := new(bytes.Buffer)
	fmt.Fprintf(output, "# Plan file reference\n\n<pre>\n")
	iterate(output, api.PlanFile{}, 0)
	fmt.Fprintf(output, "</pre>\n")
	fmt.Print(output)
}
