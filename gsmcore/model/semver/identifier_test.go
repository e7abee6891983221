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

package semver_test

import (
	"errors"
	"testing"

	"dirpx.dev/gsm/gsmcore/model/semver"
)

func mustAlpha(t *testing.T, s string) semver.Identifier {
	t.Helper()
	id, err := semver.NewAlphanumeric(s)
	if err != nil {
		t.Fatalf("NewAlphanumeric(%q) error = %v", s, err)
	}
	return id
}

func num(n uint64) semver.Identifier {
	return semver.NumericIdentifier(n)
}

func seq(t *testing.T, ids ...semver.Identifier) semver.IdentifierSequence {
	t.Helper()
	s, err := semver.NewIdentifierSequence(ids...)
	if err != nil {
		t.Fatalf("NewIdentifierSequence() error = %v", err)
	}
	return s
}

func TestNewNumeric(t *testing.T) {
	if _, err := semver.NewNumeric(0); err != nil {
		t.Errorf("NewNumeric(0) error = %v", err)
	}
	id, err := semver.NewNumeric(42)
	if err != nil {
		t.Fatalf("NewNumeric(42) error = %v", err)
	}
	if n, ok := id.Numeric(); !ok || n != 42 {
		t.Errorf("Numeric() = (%d, %v), want (42, true)", n, ok)
	}

	_, err = semver.NewNumeric(-1)
	if !errors.Is(err, semver.ErrInvalidIdentifier) {
		t.Errorf("NewNumeric(-1) error = %v, want ErrInvalidIdentifier", err)
	}
}

func TestNewAlphanumeric(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "letters", input: "alpha"},
		{name: "mixed", input: "rc-1"},
		{name: "only_hyphen", input: "-"},
		{name: "digits", input: "123"},
		{name: "empty", input: "", wantErr: true},
		{name: "dot", input: "a.b", wantErr: true},
		{name: "space", input: "a b", wantErr: true},
		{name: "underscore", input: "a_b", wantErr: true},
		{name: "non_ascii", input: "é", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := semver.NewAlphanumeric(tt.input)
			if tt.wantErr {
				var idErr *semver.InvalidIdentifierError
				if !errors.As(err, &idErr) {
					t.Fatalf("NewAlphanumeric(%q) error = %v, want *InvalidIdentifierError", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAlphanumeric(%q) unexpected error = %v", tt.input, err)
			}
			if got, ok := id.Alphanumeric(); !ok || got != tt.input {
				t.Errorf("Alphanumeric() = (%q, %v), want (%q, true)", got, ok, tt.input)
			}
		})
	}
}

func TestIdentifier_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b semver.Identifier
		want int
	}{
		{"numeric_less", num(1), num(2), -1},
		{"numeric_not_lexical", num(10), num(9), 1},
		{"numeric_equal", num(7), num(7), 0},
		{"alpha_beats_numeric", mustAlpha(t, "a"), num(99), 1},
		{"numeric_below_alpha", num(99), mustAlpha(t, "a"), -1},
		{"digit_string_beats_numeric", mustAlpha(t, "1"), num(1), 1},
		{"alpha_lexical", mustAlpha(t, "alpha"), mustAlpha(t, "beta"), -1},
		{"alpha_case", mustAlpha(t, "Z"), mustAlpha(t, "a"), -1},
		{"alpha_equal", mustAlpha(t, "rc"), mustAlpha(t, "rc"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare(%s, %s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestNewIdentifierSequence_Empty(t *testing.T) {
	if _, err := semver.NewIdentifierSequence(); !errors.Is(err, semver.ErrEmptySequence) {
		t.Errorf("NewIdentifierSequence() error = %v, want ErrEmptySequence", err)
	}
}

func TestIdentifierSequence_Compare(t *testing.T) {
	tests := []struct {
		name string
		a, b semver.IdentifierSequence
		want int
	}{
		{"first_difference_wins", seq(t, num(1), num(9)), seq(t, num(2), num(0)), -1},
		{"later_difference", seq(t, num(1), num(2), num(3)), seq(t, num(1), num(2), num(4)), -1},
		{"longer_is_greater", seq(t, num(1), num(2), num(0)), seq(t, num(1), num(2)), 1},
		{"shorter_is_less", seq(t, num(1)), seq(t, num(1), num(0)), -1},
		{"kind_difference", seq(t, num(1), mustAlpha(t, "x")), seq(t, num(1), num(5)), 1},
		{"equal", seq(t, mustAlpha(t, "a"), num(1)), seq(t, mustAlpha(t, "a"), num(1)), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("%s.Compare(%s) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("%s.Compare(%s) = %d, want %d", tt.b, tt.a, got, -tt.want)
			}
			if eq := tt.a.Equal(tt.b); eq != (tt.want == 0) {
				t.Errorf("%s.Equal(%s) = %v, want %v", tt.a, tt.b, eq, tt.want == 0)
			}
		})
	}
}

func TestIdentifierSequence_Immutable(t *testing.T) {
	ids := []semver.Identifier{num(1), num(2)}
	s := seq(t, ids...)
	ids[0] = num(9)

	if got := s.String(); got != "1.2" {
		t.Errorf("sequence changed through caller slice: %q", got)
	}

	items := s.Items()
	items[1] = num(9)
	if got := s.String(); got != "1.2" {
		t.Errorf("sequence changed through Items(): %q", got)
	}
}
