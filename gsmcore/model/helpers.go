/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package model

import (
	"fmt"

	"dirpx.dev/rxmerr"
)

// Checked is the part of Model the validation helpers need. Value types
// satisfy it without taking their address, unlike Model, whose Unmarshal
// methods live on the pointer.
type Checked interface {
	Validatable
	Identifiable
}

// ValidateAll validates every model in models and returns all failures
// collected into one error, or nil when every model is valid.
//
// Each failure is prefixed with the index and TypeName of the offending
// model so that callers can locate it:
//
//	model[2] (Dependency): gsm: invalid Dependency.remote: must not be empty
func ValidateAll[T Checked](models []T) error {
	c := rxmerr.NewCollector()

	for i, m := range models {
		if err := m.Validate(); err != nil {
			c.Append(fmt.Errorf("model[%d] (%s): %w", i, m.TypeName(), err))
		}
	}

	return c.Err()
}

// MustValidate returns m if it is valid and panics otherwise.
//
// Only use this for values built from literals (package-level variables,
// tests). Runtime data MUST go through Validate.
func MustValidate[T Checked](m T) T {
	if err := m.Validate(); err != nil {
		panic(fmt.Sprintf("model validation failed for %s: %v", m.TypeName(), err))
	}
	return m
}

// SafeString returns the Redacted form of m, or its String form when
// unsafe is true.
func SafeString[T Loggable](m T, unsafe bool) string {
	if unsafe {
		return m.String()
	}
	return m.Redacted()
}
