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

// Package model defines the contracts every gsm domain value implements.
//
// gsm's domain values (Semver cores, Version variants, content digests,
// dependency and lock entries) are immutable value types. Each of them
// validates its own invariants, serializes to JSON and YAML, renders a
// String and a Redacted form for logs, reports its TypeName and tells
// whether it is the zero value. The Model interface gathers these
// contracts so that the generic helpers in this package (ValidateAll,
// MustValidate, SafeString) can be applied to any of them.
//
// Values are safe for concurrent reads. None of the contract methods
// mutate their receiver except the Unmarshal methods.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the root interface combining all contracts required for gsm
// domain types.
//
// Implementations SHOULD assert conformance at compile time:
//
//	var _ model.Model = (*Digest)(nil)
type Model interface {
	Validatable
	Serializable
	Loggable
	Identifiable
	ZeroCheckable
}

// Validatable is implemented by types that check their own invariants.
//
// Validate MUST be deterministic and free of side effects: it MUST NOT do
// I/O, log, or mutate the receiver. It returns nil if and only if the value
// holds every invariant of its type.
type Validatable interface {
	Validate() error
}

// Serializable is implemented by types with JSON and YAML codecs.
//
// Marshal methods MUST refuse to encode a value that fails Validate.
// Unmarshal methods MUST validate what they decoded and leave the receiver
// unusable on error.
type Serializable interface {
	json.Marshaler
	json.Unmarshaler
	yaml.Marshaler
	yaml.Unmarshaler
}

// Loggable is implemented by types that can be rendered for humans.
//
// Redacted returns a form that is safe for logs; String returns the full
// form.
type Loggable interface {
	Redacted() string

	String() string
}

// Identifiable is implemented by types that report their logical name,
// used in error messages and structured logs.
type Identifiable interface {
	TypeName() string
}

// ZeroCheckable is implemented by types that can tell whether they hold
// their zero value.
type ZeroCheckable interface {
	IsZero() bool
}

// Comparable is implemented by types with value equality.
type Comparable[T any] interface {
	Equal(other T) bool
}
