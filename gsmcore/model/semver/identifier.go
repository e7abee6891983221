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

package semver

import (
	"cmp"
	"strconv"
	"strings"
)

// Identifier is one item of an IdentifierSequence: either a non-negative
// integer (numeric) or a non-empty string of ASCII letters, digits and
// hyphens (alphanumeric).
//
// The zero value is the numeric identifier 0.
type Identifier struct {
	num   uint64
	str   string
	alpha bool
}

// NewNumeric returns the numeric identifier n.
//
// It fails with an InvalidIdentifierError when n is negative.
func NewNumeric(n int) (Identifier, error) {
	if n < 0 {
		return Identifier{}, &InvalidIdentifierError{
			Value:  strconv.Itoa(n),
			Reason: "numeric identifier must not be negative",
		}
	}
	return Identifier{num: uint64(n)}, nil
}

// NumericIdentifier returns the numeric identifier n. It cannot fail.
func NumericIdentifier(n uint64) Identifier {
	return Identifier{num: n}
}

// NewAlphanumeric returns the alphanumeric identifier s.
//
// It fails with an InvalidIdentifierError when s is empty or contains a
// character outside [0-9A-Za-z-].
func NewAlphanumeric(s string) (Identifier, error) {
	if s == "" {
		return Identifier{}, &InvalidIdentifierError{Value: s, Reason: "alphanumeric identifier must not be empty"}
	}
	for i := 0; i < len(s); i++ {
		if !isIdentifierChar(s[i]) {
			return Identifier{}, &InvalidIdentifierError{
				Value:  s,
				Reason: "alphanumeric identifier may only contain ASCII letters, digits and hyphens",
			}
		}
	}
	return Identifier{str: s, alpha: true}, nil
}

func isIdentifierChar(c byte) bool {
	return c == '-' ||
		(c >= '0' && c <= '9') ||
		(c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z')
}

// IsNumeric reports whether the identifier is numeric.
func (id Identifier) IsNumeric() bool { return !id.alpha }

// Numeric returns the value of a numeric identifier, and false for an
// alphanumeric one.
func (id Identifier) Numeric() (uint64, bool) {
	return id.num, !id.alpha
}

// Alphanumeric returns the value of an alphanumeric identifier, and false
// for a numeric one.
func (id Identifier) Alphanumeric() (string, bool) {
	return id.str, id.alpha
}

// String returns the identifier as it appears in a version string.
func (id Identifier) String() string {
	if id.alpha {
		return id.str
	}
	return strconv.FormatUint(id.num, 10)
}

// Equal reports whether both identifiers have the same kind and value.
func (id Identifier) Equal(other Identifier) bool {
	return id == other
}

// Compare orders two identifiers and returns -1, 0 or +1.
//
// An alphanumeric identifier always ranks above a numeric one. Numeric
// identifiers compare as integers, alphanumeric identifiers compare
// lexicographically by code point.
func (id Identifier) Compare(other Identifier) int {
	switch {
	case id.alpha != other.alpha:
		if id.alpha {
			return 1
		}
		return -1
	case id.alpha:
		return strings.Compare(id.str, other.str)
	default:
		return cmp.Compare(id.num, other.num)
	}
}

// IdentifierSequence is an ordered, immutable, non-empty list of
// identifiers. It carries the comparison primitive every version ordering
// in gsm is built on.
//
// The zero value is an empty sequence; it is only meaningful as the
// "not constructed" marker of the types that embed it.
type IdentifierSequence struct {
	items []Identifier
}

// NewIdentifierSequence returns a sequence holding a copy of items.
//
// It fails with ErrEmptySequence when items is empty.
func NewIdentifierSequence(items ...Identifier) (IdentifierSequence, error) {
	if len(items) == 0 {
		return IdentifierSequence{}, ErrEmptySequence
	}
	return IdentifierSequence{items: append([]Identifier(nil), items...)}, nil
}

// Len returns the number of identifiers.
func (s IdentifierSequence) Len() int { return len(s.items) }

// At returns the identifier at position i. It panics if i is out of range.
func (s IdentifierSequence) At(i int) Identifier { return s.items[i] }

// Items returns a copy of the identifiers.
func (s IdentifierSequence) Items() []Identifier {
	return append([]Identifier(nil), s.items...)
}

// String joins the identifiers with ".".
func (s IdentifierSequence) String() string {
	parts := make([]string, len(s.items))
	for i, id := range s.items {
		parts[i] = id.String()
	}
	return strings.Join(parts, ".")
}

// Compare orders two sequences and returns -1, 0 or +1.
//
// The first position at which the identifiers differ decides the result.
// When one sequence is a prefix of the other, the longer sequence is
// greater. Compare returns 0 only for sequences of equal length and
// content, so Compare(a, b) == 0 if and only if a.Equal(b).
func (s IdentifierSequence) Compare(other IdentifierSequence) int {
	n := min(len(s.items), len(other.items))
	for i := 0; i < n; i++ {
		if c := s.items[i].Compare(other.items[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(s.items), len(other.items))
}

// Equal reports whether both sequences have the same length and the same
// identifier at every position.
func (s IdentifierSequence) Equal(other IdentifierSequence) bool {
	if len(s.items) != len(other.items) {
		return false
	}
	for i := range s.items {
		if s.items[i] != other.items[i] {
			return false
		}
	}
	return true
}
