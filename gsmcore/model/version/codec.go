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
	"bytes"
	"encoding/json"
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"gopkg.in/yaml.v3"
)

// fields is the document form of a Version. It uses the key names of the
// gsm files: exactly one of version, branch, tag or commit, where commit
// next to branch is the pinned commit of a locked branch.
type fields struct {
	Version *string `json:"version,omitempty" yaml:"version,omitempty"`
	Branch  *string `json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag     *string `json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit  *string `json:"commit,omitempty" yaml:"commit,omitempty"`
}

func ptr(s string) *string { return &s }

func toFields(v Version) fields {
	return Match(v,
		func(s Semver) fields { return fields{Version: ptr(s.core.String())} },
		func(t Tag) fields { return fields{Tag: ptr(t.name)} },
		func(b Branch) fields {
			f := fields{Branch: ptr(b.name)}
			if b.commit != "" {
				f.Commit = ptr(b.commit)
			}
			return f
		},
		func(c Commit) fields { return fields{Commit: ptr(c.hash)} },
	)
}

func fromFields(f fields, typeName string) (Version, error) {
	n := 0
	for _, set := range []bool{f.Version != nil, f.Branch != nil, f.Tag != nil} {
		if set {
			n++
		}
	}
	if f.Branch == nil && f.Commit != nil {
		n++
	}
	if n != 1 {
		return nil, &gsmerrors.ValidationError{
			Type:   typeName,
			Reason: fmt.Sprintf("exactly one of version, branch, tag or commit must be set (got %d)", n),
		}
	}

	switch {
	case f.Version != nil:
		core, ok, err := semver.Parse(*f.Version)
		if err != nil {
			return nil, &gsmerrors.ValidationError{Type: typeName, Field: "version", Reason: err.Error(), Value: *f.Version, Cause: err}
		}
		if !ok {
			return nil, &gsmerrors.ValidationError{Type: typeName, Field: "version", Reason: "not a version", Value: *f.Version}
		}
		return NewSemver(core)
	case f.Tag != nil:
		return NewTag(*f.Tag)
	case f.Branch != nil && f.Commit != nil:
		return NewLockedBranch(*f.Branch, *f.Commit)
	case f.Branch != nil:
		return NewBranch(*f.Branch)
	default:
		return NewCommit(*f.Commit)
	}
}

func decodeJSON(data []byte, typeName string) (Version, error) {
	var f fields
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		return nil, &gsmerrors.UnmarshalError{Type: typeName, Data: data, Reason: err.Error()}
	}
	return fromFields(f, typeName)
}

func decodeYAML(node *yaml.Node, typeName string) (Version, error) {
	if node.Kind != yaml.MappingNode {
		return nil, &gsmerrors.UnmarshalError{Type: typeName, Reason: "expected a mapping"}
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		switch key := node.Content[i].Value; key {
		case "version", "branch", "tag", "commit":
		default:
			return nil, &gsmerrors.UnmarshalError{Type: typeName, Reason: fmt.Sprintf("unknown field %q", key)}
		}
	}

	var f fields
	if err := node.Decode(&f); err != nil {
		return nil, &gsmerrors.UnmarshalError{Type: typeName, Reason: err.Error()}
	}
	return fromFields(f, typeName)
}

// assign stores v in dst when v holds the case dst expects.
func assign[T Version](dst *T, v Version, typeName string) error {
	got, ok := v.(T)
	if !ok {
		return &gsmerrors.UnmarshalError{
			Type:   typeName,
			Reason: fmt.Sprintf("document holds a %s version", v.Kind()),
		}
	}
	*dst = got
	return nil
}

func marshalJSON(v Version) ([]byte, error) {
	if err := v.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: v.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(toFields(v))
}

func marshalYAML(v Version) (interface{}, error) {
	if err := v.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: v.TypeName(), Reason: err.Error()}
	}
	return toFields(v), nil
}

// MarshalJSON encodes v as {"version": "1.2"}.
func (v Semver) MarshalJSON() ([]byte, error) { return marshalJSON(v) }

// MarshalYAML encodes v as a mapping with a version key.
func (v Semver) MarshalYAML() (interface{}, error) { return marshalYAML(v) }

// UnmarshalJSON decodes {"version": "..."}.
func (v *Semver) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data, "Semver")
	if err != nil {
		return err
	}
	return assign(v, decoded, "Semver")
}

// UnmarshalYAML decodes a mapping with a version key.
func (v *Semver) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeYAML(node, "Semver")
	if err != nil {
		return err
	}
	return assign(v, decoded, "Semver")
}

// MarshalJSON encodes t as {"tag": "..."}.
func (t Tag) MarshalJSON() ([]byte, error) { return marshalJSON(t) }

// MarshalYAML encodes t as a mapping with a tag key.
func (t Tag) MarshalYAML() (interface{}, error) { return marshalYAML(t) }

// UnmarshalJSON decodes {"tag": "..."}.
func (t *Tag) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data, "Tag")
	if err != nil {
		return err
	}
	return assign(t, decoded, "Tag")
}

// UnmarshalYAML decodes a mapping with a tag key.
func (t *Tag) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeYAML(node, "Tag")
	if err != nil {
		return err
	}
	return assign(t, decoded, "Tag")
}

// MarshalJSON encodes b as {"branch": "..."}, adding "commit" when b is
// locked.
func (b Branch) MarshalJSON() ([]byte, error) { return marshalJSON(b) }

// MarshalYAML encodes b as a mapping with a branch key and, when locked, a
// commit key.
func (b Branch) MarshalYAML() (interface{}, error) { return marshalYAML(b) }

// UnmarshalJSON decodes {"branch": "..."} with an optional "commit".
func (b *Branch) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data, "Branch")
	if err != nil {
		return err
	}
	return assign(b, decoded, "Branch")
}

// UnmarshalYAML decodes a mapping with a branch key and an optional commit
// key.
func (b *Branch) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeYAML(node, "Branch")
	if err != nil {
		return err
	}
	return assign(b, decoded, "Branch")
}

// MarshalJSON encodes c as {"commit": "..."}.
func (c Commit) MarshalJSON() ([]byte, error) { return marshalJSON(c) }

// MarshalYAML encodes c as a mapping with a commit key.
func (c Commit) MarshalYAML() (interface{}, error) { return marshalYAML(c) }

// UnmarshalJSON decodes {"commit": "..."}.
func (c *Commit) UnmarshalJSON(data []byte) error {
	decoded, err := decodeJSON(data, "Commit")
	if err != nil {
		return err
	}
	return assign(c, decoded, "Commit")
}

// UnmarshalYAML decodes a mapping with a commit key.
func (c *Commit) UnmarshalYAML(node *yaml.Node) error {
	decoded, err := decodeYAML(node, "Commit")
	if err != nil {
		return err
	}
	return assign(c, decoded, "Commit")
}

// Any holds a Version of any case and decodes whichever case a document
// holds. Use it as a struct field where the case is not known in advance.
type Any struct {
	Version Version
}

var _ model.Model = (*Any)(nil)

// Validate fails when a holds no Version or an invalid one.
func (a Any) Validate() error {
	if a.Version == nil {
		return &gsmerrors.ValidationError{Type: a.TypeName(), Reason: "no version kind set"}
	}
	return a.Version.Validate()
}

func (a Any) String() string {
	if a.Version == nil {
		return ""
	}
	return a.Version.String()
}

func (a Any) Redacted() string {
	if a.Version == nil {
		return ""
	}
	return a.Version.Redacted()
}

func (a Any) TypeName() string { return "Version" }

func (a Any) IsZero() bool { return a.Version == nil || a.Version.IsZero() }

// MarshalJSON encodes the held Version.
func (a Any) MarshalJSON() ([]byte, error) {
	if err := a.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: a.TypeName(), Reason: err.Error()}
	}
	return a.Version.MarshalJSON()
}

// UnmarshalJSON decodes any case.
func (a *Any) UnmarshalJSON(data []byte) error {
	v, err := decodeJSON(data, "Version")
	if err != nil {
		return err
	}
	a.Version = v
	return nil
}

// MarshalYAML encodes the held Version.
func (a Any) MarshalYAML() (interface{}, error) {
	if err := a.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: a.TypeName(), Reason: err.Error()}
	}
	return a.Version.MarshalYAML()
}

// UnmarshalYAML decodes any case.
func (a *Any) UnmarshalYAML(node *yaml.Node) error {
	v, err := decodeYAML(node, "Version")
	if err != nil {
		return err
	}
	a.Version = v
	return nil
}
