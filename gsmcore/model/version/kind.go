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

package version

import (
	"encoding/json"
	"fmt"
	"strings"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"gopkg.in/yaml.v3"
)

// Kind classifies a Version into one of the four ways a dependency can be
// pinned.
//
// The zero value, KindUnknown, is valid and means "not classified"; it is
// what KindOf reports for a nil Version. JSON and YAML use the lowercase
// names ("semver", "tag", "branch", "commit").
type Kind uint8

const (
	// KindUnknown is the zero Kind.
	KindUnknown Kind = iota

	// KindSemver is a released version core, written as `version = "1.2"`.
	KindSemver

	// KindTag is a named tag, written as `tag = "v1.2.0"`.
	KindTag

	// KindBranch is a named branch, optionally pinned to a commit in the
	// lock file.
	KindBranch

	// KindCommit is a raw commit identifier.
	KindCommit
)

const (
	// KindUnknownStr is the string representation of KindUnknown.
	KindUnknownStr = "unknown"

	// KindSemverStr is the string representation of KindSemver.
	KindSemverStr = "semver"

	// KindTagStr is the string representation of KindTag.
	KindTagStr = "tag"

	// KindBranchStr is the string representation of KindBranch.
	KindBranchStr = "branch"

	// KindCommitStr is the string representation of KindCommit.
	KindCommitStr = "commit"
)

// ParseKind parses a kind name. Surrounding whitespace and case are
// ignored; "version" is accepted as an alias of "semver" because that is
// the field name used in gsm files.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case KindUnknownStr:
		return KindUnknown, nil
	case KindSemverStr, "version":
		return KindSemver, nil
	case KindTagStr:
		return KindTag, nil
	case KindBranchStr:
		return KindBranch, nil
	case KindCommitStr:
		return KindCommit, nil
	default:
		return KindUnknown, &gsmerrors.ParseError{Type: "Kind", Value: s}
	}
}

var _ model.Model = (*Kind)(nil)

// String returns the lowercase kind name.
func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return KindUnknownStr
	case KindSemver:
		return KindSemverStr
	case KindTag:
		return KindTagStr
	case KindBranch:
		return KindBranchStr
	case KindCommit:
		return KindCommitStr
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Redacted returns the same text as String.
func (k Kind) Redacted() string {
	return k.String()
}

// TypeName returns "Kind".
func (k Kind) TypeName() string {
	return "Kind"
}

// IsZero reports whether k is KindUnknown.
func (k Kind) IsZero() bool {
	return k == KindUnknown
}

// Equal reports whether k and other are the same kind.
func (k Kind) Equal(other Kind) bool {
	return k == other
}

// Validate reports an error for values outside the declared constants.
func (k Kind) Validate() error {
	switch k {
	case KindUnknown, KindSemver, KindTag, KindBranch, KindCommit:
		return nil
	default:
		return &gsmerrors.ValidationError{
			Type:   k.TypeName(),
			Reason: fmt.Sprintf("value %d is not a known kind (valid range: 0-%d)", uint8(k), uint8(KindCommit)),
		}
	}
}

// MarshalJSON encodes k as its name.
func (k Kind) MarshalJSON() ([]byte, error) {
	if err := k.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: k.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes a kind name with ParseKind.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Kind", Data: data, Reason: err.Error()}
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// MarshalYAML encodes k as its name.
func (k Kind) MarshalYAML() (interface{}, error) {
	if err := k.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: k.TypeName(), Reason: err.Error()}
	}
	return k.String(), nil
}

// UnmarshalYAML decodes a kind name with ParseKind.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Kind", Reason: err.Error()}
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
