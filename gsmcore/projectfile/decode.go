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

package projectfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/model/version"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// decodeTOML decodes data into v, rejecting keys v has no field for.
func decodeTOML(data []byte, v any, typeName string) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &gsmerrors.ValidationError{Type: typeName, Reason: describeTOML(err), Cause: err}
	}
	return nil
}

func describeTOML(err error) string {
	var missing *toml.StrictMissingError
	if errors.As(err, &missing) {
		return "unknown field:\n" + missing.String()
	}
	var derr *toml.DecodeError
	if errors.As(err, &derr) {
		row, col := derr.Position()
		return fmt.Sprintf("line %d, column %d: %s", row, col, derr.Error())
	}
	return err.Error()
}

// decodeJSON decodes data into v, rejecting keys v has no field for.
func decodeJSON(data []byte, v any, typeName string) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return &gsmerrors.ValidationError{Type: typeName, Reason: err.Error(), Cause: err}
	}
	return nil
}

// decodeYAML decodes node into v, rejecting keys v has no field for.
// yaml.Node.Decode has no strict mode, so the node is re-encoded and read
// back through a Decoder with KnownFields set.
func decodeYAML(node *yaml.Node, v any, typeName string) error {
	data, err := yaml.Marshal(node)
	if err != nil {
		return &gsmerrors.UnmarshalError{Type: typeName, Reason: err.Error()}
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(v); err != nil {
		return &gsmerrors.ValidationError{Type: typeName, Reason: err.Error(), Cause: err}
	}
	return nil
}

// pin holds the version fields of one file record.
type pin struct {
	version, branch, tag, commit *string
}

func pinOf(v version.Version) pin {
	return version.Match(v,
		func(s version.Semver) pin { return pin{version: ptr(s.Core().String())} },
		func(t version.Tag) pin { return pin{tag: ptr(t.Name())} },
		func(b version.Branch) pin {
			p := pin{branch: ptr(b.Name())}
			if c, ok := b.LockedCommit(); ok {
				p.commit = ptr(c)
			}
			return p
		},
		func(c version.Commit) pin { return pin{commit: ptr(c.Hash())} },
	)
}

func ptr(s string) *string { return &s }

func countSet(fields ...*string) int {
	n := 0
	for _, f := range fields {
		if f != nil {
			n++
		}
	}
	return n
}

func kindCountError(typeName, choices string, n int) error {
	reason := "one of " + choices + " must be set"
	if n > 1 {
		reason = fmt.Sprintf("only one of %s may be set, got %d", choices, n)
	}
	return &gsmerrors.ValidationError{Type: typeName, Reason: reason}
}

// project builds the Version the fields select. Exactly one kind must be
// selected; the caller checks that first.
func (p pin) project(typeName string) (version.Version, error) {
	switch {
	case p.version != nil:
		core, ok, err := semver.Parse(*p.version)
		if err != nil {
			return nil, &gsmerrors.ValidationError{
				Type: typeName, Field: "version", Reason: err.Error(), Value: *p.version, Cause: err,
			}
		}
		if !ok {
			return nil, &gsmerrors.ValidationError{
				Type: typeName, Field: "version", Reason: "not a version (want major[.minor[.patch]])", Value: *p.version,
			}
		}
		return version.NewSemver(core)
	case p.tag != nil:
		if *p.tag == "" {
			return nil, emptyField(typeName, "tag")
		}
		return version.NewTag(*p.tag)
	case p.branch != nil:
		if *p.branch == "" {
			return nil, emptyField(typeName, "branch")
		}
		if p.commit == nil {
			return version.NewBranch(*p.branch)
		}
		if *p.commit == "" {
			return nil, emptyField(typeName, "commit")
		}
		return version.NewLockedBranch(*p.branch, *p.commit)
	default:
		if *p.commit == "" {
			return nil, emptyField(typeName, "commit")
		}
		return version.NewCommit(*p.commit)
	}
}
