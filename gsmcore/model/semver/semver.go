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

// Package semver implements the version core gsm uses to version
// dependencies and itself.
//
// A Semver is a length-tolerant core of one to three non-negative integers,
// read as major[.minor[.patch]]. Trailing components may be absent, and an
// absent component is NOT the same as a zero component: "1.2" means "any
// patch of 1.2", while "1.2.0" pins patch 0. The ordering reflects this by
// ranking a shorter core below a longer one with the same prefix:
//
//	1.2 < 1.2.0 < 1.2.1 < 1.3
//	1   < 1.0
//
// Compatibility (IsCompatibleWith) is one-directional. A required core
// accepts a candidate if both share the major number and the candidate is
// greater than or equal to the required core; for major 0 the two cores
// must be equal, because 0.x releases promise no backward compatibility.
//
// Parse reads the textual grammar
//
//	major ('.' minor ('.' patch)?)?
//
// where every number is 0 or has no leading zero. Pre-release ("-alpha")
// and build metadata ("+build") segments are recognized and rejected with
// an UnsupportedFeatureError rather than silently dropped.
//
// Semver values are immutable and safe for concurrent use.
package semver

import (
	"encoding/json"
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"

	"gopkg.in/yaml.v3"
)

// MaxComponents is the number of components of a full core
// (major.minor.patch).
const MaxComponents = 3

// Semver is a version core of one to three numeric components.
//
// The zero value holds no components; it is reported by IsZero and
// rejected by Validate. Build values with New, MustNew or Parse.
type Semver struct {
	core IdentifierSequence
}

var _ model.Model = (*Semver)(nil)

// New builds a Semver from its components, major first.
//
// It fails with ErrEmptyCore when no component is given, with
// ErrTooManyComponents when more than three are given, and with an
// InvalidIdentifierError when a component is negative.
func New(core ...int) (Semver, error) {
	if len(core) == 0 {
		return Semver{}, ErrEmptyCore
	}
	if len(core) > MaxComponents {
		return Semver{}, fmt.Errorf("%w: got %d", ErrTooManyComponents, len(core))
	}

	ids := make([]Identifier, len(core))
	for i, c := range core {
		id, err := NewNumeric(c)
		if err != nil {
			return Semver{}, err
		}
		ids[i] = id
	}
	return fromIdentifiers(ids), nil
}

// MustNew is like New but panics on error. Use it for literals only.
func MustNew(core ...int) Semver {
	v, err := New(core...)
	if err != nil {
		panic(fmt.Sprintf("semver.MustNew: %v", err))
	}
	return v
}

func fromIdentifiers(ids []Identifier) Semver {
	seq, _ := NewIdentifierSequence(ids...)
	return Semver{core: seq}
}

// Len returns the number of present components (1 to 3).
func (v Semver) Len() int { return v.core.Len() }

// Major returns the major component, or 0 for the zero value.
func (v Semver) Major() uint64 {
	return v.component(0)
}

// Minor returns the minor component and whether it is present.
func (v Semver) Minor() (uint64, bool) {
	return v.component(1), v.core.Len() > 1
}

// Patch returns the patch component and whether it is present.
func (v Semver) Patch() (uint64, bool) {
	return v.component(2), v.core.Len() > 2
}

func (v Semver) component(i int) uint64 {
	if i >= v.core.Len() {
		return 0
	}
	n, _ := v.core.At(i).Numeric()
	return n
}

// Components returns the present components, major first.
func (v Semver) Components() []uint64 {
	out := make([]uint64, v.core.Len())
	for i := range out {
		out[i] = v.component(i)
	}
	return out
}

// Sequence returns the identifier sequence backing the core.
func (v Semver) Sequence() IdentifierSequence { return v.core }

// Compare orders v and other and returns -1, 0 or +1.
//
// Components are compared position by position over the shorter core; if
// they all match, the longer core is greater. Thus 1.2 < 1.2.0.
func (v Semver) Compare(other Semver) int {
	return v.core.Compare(other.core)
}

// Equal reports whether v and other have the same length and components.
// 1.2 and 1.2.0 are not equal.
func (v Semver) Equal(other Semver) bool {
	return v.core.Equal(other.core)
}

// Less reports whether v < other.
func (v Semver) Less(other Semver) bool { return v.Compare(other) < 0 }

// LessOrEqual reports whether v <= other.
func (v Semver) LessOrEqual(other Semver) bool { return v.Compare(other) <= 0 }

// Greater reports whether v > other.
func (v Semver) Greater(other Semver) bool { return v.Compare(other) > 0 }

// GreaterOrEqual reports whether v >= other.
func (v Semver) GreaterOrEqual(other Semver) bool { return v.Compare(other) >= 0 }

// IsCompatibleWith reports whether candidate satisfies v, where v is the
// required core.
//
//  1. Different majors are never compatible.
//  2. With major 0, candidate must equal v exactly.
//  3. Otherwise candidate must be >= v.
//
// So requiring "1" accepts 1.9.3, requiring "1.2" accepts 1.2.9 and 1.3.0
// but not 1.1.9, and a candidate that lacks a component present in v (for
// example "1" against "1.2") is never accepted. The predicate is reflexive.
func (v Semver) IsCompatibleWith(candidate Semver) bool {
	if v.Major() != candidate.Major() {
		return false
	}
	if v.Major() == 0 {
		return v.Equal(candidate)
	}
	return candidate.GreaterOrEqual(v)
}

// String joins the present components with ".". Absent trailing
// components are omitted, so String round-trips through Parse.
func (v Semver) String() string {
	return v.core.String()
}

// Redacted returns the same text as String; a version carries nothing
// sensitive.
func (v Semver) Redacted() string {
	return v.String()
}

// TypeName returns "Semver".
func (v Semver) TypeName() string {
	return "Semver"
}

// IsZero reports whether v holds no components.
func (v Semver) IsZero() bool {
	return v.core.Len() == 0
}

// Validate reports whether v was properly constructed.
func (v Semver) Validate() error {
	switch n := v.core.Len(); {
	case n == 0:
		return ErrEmptyCore
	case n > MaxComponents:
		return fmt.Errorf("%w: got %d", ErrTooManyComponents, n)
	}
	for _, id := range v.core.items {
		if !id.IsNumeric() {
			return &InvalidIdentifierError{Value: id.String(), Reason: "version core components must be numeric"}
		}
	}
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (v Semver) MarshalText() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: v.TypeName(), Reason: err.Error()}
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. The text is read with
// Parse; text that is not a version yields a ParseError.
func (v *Semver) UnmarshalText(text []byte) error {
	parsed, err := parseStrict(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalJSON encodes v as a JSON string, for example "1.2".
func (v Semver) MarshalJSON() ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: v.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a JSON string with Parse.
func (v *Semver) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Semver", Data: data, Reason: err.Error()}
	}
	return v.UnmarshalText([]byte(s))
}

// MarshalYAML encodes v as a scalar string.
func (v Semver) MarshalYAML() (interface{}, error) {
	if err := v.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: v.TypeName(), Reason: err.Error()}
	}
	return v.String(), nil
}

// UnmarshalYAML decodes a scalar string with Parse.
func (v *Semver) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Semver", Reason: err.Error()}
	}
	return v.UnmarshalText([]byte(s))
}
