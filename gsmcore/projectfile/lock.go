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
	"encoding/json"
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"dirpx.dev/gsm/gsmcore/model/digest"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/model/version"
	"gopkg.in/yaml.v3"
)

const lockChoices = "version, branch (with commit), tag or commit"

type rawLockFile struct {
	GSMVersion *string   `toml:"gsm_version" json:"gsm_version" yaml:"gsm_version"`
	Locks      []rawLock `toml:"lock,omitempty" json:"lock,omitempty" yaml:"lock,omitempty"`
}

type rawLock struct {
	Path    string  `toml:"path" json:"path" yaml:"path"`
	Hash    string  `toml:"hash" json:"hash" yaml:"hash"`
	Version *string `toml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
	Branch  *string `toml:"branch,omitempty" json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag     *string `toml:"tag,omitempty" json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit  *string `toml:"commit,omitempty" json:"commit,omitempty" yaml:"commit,omitempty"`
}

func (r rawLock) pin() pin {
	return pin{version: r.Version, branch: r.Branch, tag: r.Tag, commit: r.Commit}
}

// kinds counts the selected version kinds. A commit next to a branch is
// the branch's pinned commit, not a kind of its own.
func (r rawLock) kinds() int {
	n := countSet(r.Version, r.Branch, r.Tag)
	if r.Branch == nil && r.Commit != nil {
		n++
	}
	return n
}

// Lock is one validated [[lock]] entry of the lock file.
type Lock struct {
	// Path is where the dependency is installed, relative to the project
	// root.
	Path string

	// Hash is the tree digest of the installed dependency.
	Hash digest.Digest

	// Version is what the dependency resolved to. A Branch here is always
	// locked to a commit.
	Version version.Version
}

var _ model.Model = (*Lock)(nil)

// NewLock builds a Lock and validates it.
func NewLock(path string, hash digest.Digest, v version.Version) (Lock, error) {
	l := Lock{Path: path, Hash: hash, Version: v}
	if err := l.Validate(); err != nil {
		return Lock{}, err
	}
	return l, nil
}

// projectLock validates raw and projects it. Checks run in this order and
// the first failure is returned:
//
//  1. exactly one of version, branch, tag and commit is set;
//  2. path is non-empty and inside the project root;
//  3. hash is a well-formed digest;
//  4. a version string is a supported version core;
//  5. a branch, tag or commit name is non-empty;
//  6. a branch carries the commit it was locked to.
func projectLock(raw rawLock) (Lock, error) {
	const typeName = "Lock"

	if n := raw.kinds(); n != 1 {
		return Lock{}, kindCountError(typeName, lockChoices, n)
	}
	if err := checkPath(typeName, raw.Path); err != nil {
		return Lock{}, err
	}
	if !digest.IsValid(raw.Hash) {
		reason := fmt.Sprintf("must be %d lowercase hex characters", digest.HexSize)
		if len(raw.Hash) != digest.HexSize {
			reason += fmt.Sprintf(", got %d characters", len(raw.Hash))
		}
		return Lock{}, &gsmerrors.ValidationError{Type: typeName, Field: "hash", Reason: reason, Value: raw.Hash}
	}
	v, err := raw.pin().project(typeName)
	if err != nil {
		return Lock{}, err
	}
	if raw.Branch != nil && raw.Commit == nil {
		return Lock{}, &gsmerrors.ValidationError{
			Type:   typeName,
			Field:  "commit",
			Reason: "a locked branch must record the commit it resolved to",
		}
	}
	return Lock{Path: raw.Path, Hash: digest.Digest(raw.Hash), Version: v}, nil
}

func (l Lock) raw() rawLock {
	r := rawLock{Path: l.Path, Hash: string(l.Hash)}
	if l.Version != nil {
		p := pinOf(l.Version)
		r.Version, r.Branch, r.Tag, r.Commit = p.version, p.branch, p.tag, p.commit
	}
	return r
}

// Validate applies the lock file rules to l.
func (l Lock) Validate() error {
	_, err := projectLock(l.raw())
	return err
}

func (l Lock) String() string {
	return fmt.Sprintf("%s @ %s (%s)", l.Path, describe(l.Version, true), l.Hash)
}

func (l Lock) Redacted() string {
	return fmt.Sprintf("%s @ %s (%s)", l.Path, describe(l.Version, false), l.Hash.Short())
}

func (l Lock) TypeName() string { return "Lock" }

func (l Lock) IsZero() bool {
	return l.Path == "" && l.Hash.IsZero() && l.Version == nil
}

// Equal reports whether l and other record the same state.
func (l Lock) Equal(other Lock) bool {
	if l.Path != other.Path || l.Hash != other.Hash {
		return false
	}
	if l.Version == nil || other.Version == nil {
		return l.Version == nil && other.Version == nil
	}
	return l.Version.Equal(other.Version)
}

// MarshalJSON encodes l with the field names of the lock file.
func (l Lock) MarshalJSON() ([]byte, error) {
	if err := l.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: l.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(l.raw())
}

// UnmarshalJSON decodes and validates one entry.
func (l *Lock) UnmarshalJSON(data []byte) error {
	var raw rawLock
	if err := decodeJSON(data, &raw, "Lock"); err != nil {
		return err
	}
	parsed, err := projectLock(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// MarshalYAML encodes l with the field names of the lock file.
func (l Lock) MarshalYAML() (interface{}, error) {
	if err := l.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: l.TypeName(), Reason: err.Error()}
	}
	return l.raw(), nil
}

// UnmarshalYAML decodes and validates one entry.
func (l *Lock) UnmarshalYAML(node *yaml.Node) error {
	var raw rawLock
	if err := decodeYAML(node, &raw, "Lock"); err != nil {
		return err
	}
	parsed, err := projectLock(raw)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// LockFile is the validated content of gsm.lock.
type LockFile struct {
	// ToolVersion is the gsm release that wrote the file.
	ToolVersion semver.Semver

	Locks []Lock
}

var _ model.Model = (*LockFile)(nil)

// NewLockFile builds a LockFile written by the tool release tool and
// validates it.
func NewLockFile(tool semver.Semver, locks ...Lock) (LockFile, error) {
	lf := LockFile{ToolVersion: tool, Locks: locks}
	if err := lf.Validate(); err != nil {
		return LockFile{}, err
	}
	return lf, nil
}

// ParseLock decodes and validates the content of a lock file written by a
// gsm release compatible with tool, the running release.
//
// gsm_version is checked before any entry: it must be present, must be a
// version core and must satisfy recorded.IsCompatibleWith(tool). An
// incompatible file fails with *errors.CompatibilityError.
func ParseLock(data []byte, tool semver.Semver) (LockFile, error) {
	if err := tool.Validate(); err != nil {
		return LockFile{}, fmt.Errorf("%w: %w", ErrToolVersionUnset, err)
	}

	var raw rawLockFile
	if err := decodeTOML(data, &raw, "LockFile"); err != nil {
		return LockFile{}, err
	}
	return projectLockFile(raw, func(recorded semver.Semver) error {
		if !recorded.IsCompatibleWith(tool) {
			return &gsmerrors.CompatibilityError{
				File:     LockFileName,
				Recorded: recorded.String(),
				Running:  tool.String(),
			}
		}
		return nil
	})
}

// projectLockFile validates raw and projects it. gate, when set, is run on
// the recorded tool version before the entries are looked at.
func projectLockFile(raw rawLockFile, gate func(recorded semver.Semver) error) (LockFile, error) {
	const typeName = "LockFile"

	if raw.GSMVersion == nil {
		return LockFile{}, &gsmerrors.ValidationError{Type: typeName, Field: "gsm_version", Reason: "must be set"}
	}
	recorded, ok, err := semver.Parse(*raw.GSMVersion)
	if err != nil {
		return LockFile{}, &gsmerrors.ValidationError{
			Type: typeName, Field: "gsm_version", Reason: err.Error(), Value: *raw.GSMVersion, Cause: err,
		}
	}
	if !ok {
		return LockFile{}, &gsmerrors.ValidationError{
			Type: typeName, Field: "gsm_version", Reason: "not a version (want major[.minor[.patch]])", Value: *raw.GSMVersion,
		}
	}
	if gate != nil {
		if err := gate(recorded); err != nil {
			return LockFile{}, err
		}
	}

	locks := make([]Lock, 0, len(raw.Locks))
	paths := make([]string, 0, len(raw.Locks))
	for i, rl := range raw.Locks {
		l, err := projectLock(rl)
		if err != nil {
			return LockFile{}, entryError("lock", i, rl.Path, err)
		}
		locks = append(locks, l)
		paths = append(paths, l.Path)
	}
	if err := checkDuplicates(typeName, "lock", paths); err != nil {
		return LockFile{}, err
	}
	return LockFile{ToolVersion: recorded, Locks: locks}, nil
}

func (lf LockFile) raw() rawLockFile {
	r := rawLockFile{}
	if !lf.ToolVersion.IsZero() {
		r.GSMVersion = ptr(lf.ToolVersion.String())
	}
	for _, l := range lf.Locks {
		r.Locks = append(r.Locks, l.raw())
	}
	return r
}

// Lock returns the entry recorded for path.
func (lf LockFile) Lock(path string) (Lock, bool) {
	key := fsPath(path)
	for _, l := range lf.Locks {
		if fsPath(l.Path) == key {
			return l, true
		}
	}
	return Lock{}, false
}

// Validate checks the tool version, every entry, then duplicate paths.
func (lf LockFile) Validate() error {
	if err := lf.ToolVersion.Validate(); err != nil {
		return &gsmerrors.ValidationError{Type: lf.TypeName(), Field: "gsm_version", Reason: err.Error(), Cause: err}
	}
	if err := model.ValidateAll(lf.Locks); err != nil {
		return err
	}
	paths := make([]string, len(lf.Locks))
	for i, l := range lf.Locks {
		paths[i] = l.Path
	}
	return checkDuplicates(lf.TypeName(), "lock", paths)
}

func (lf LockFile) String() string {
	return fmt.Sprintf("%s (gsm %s, %d locks)", LockFileName, lf.ToolVersion, len(lf.Locks))
}

func (lf LockFile) Redacted() string { return lf.String() }

func (lf LockFile) TypeName() string { return "LockFile" }

func (lf LockFile) IsZero() bool { return lf.ToolVersion.IsZero() && len(lf.Locks) == 0 }

// MarshalJSON encodes lf with the field names of the lock file.
func (lf LockFile) MarshalJSON() ([]byte, error) {
	if err := lf.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: lf.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(lf.raw())
}

// UnmarshalJSON decodes and validates a whole lock document. No running
// tool version is known here, so compatibility is not checked; use
// ParseLock for that.
func (lf *LockFile) UnmarshalJSON(data []byte) error {
	var raw rawLockFile
	if err := decodeJSON(data, &raw, "LockFile"); err != nil {
		return err
	}
	parsed, err := projectLockFile(raw, nil)
	if err != nil {
		return err
	}
	*lf = parsed
	return nil
}

// MarshalYAML encodes lf with the field names of the lock file.
func (lf LockFile) MarshalYAML() (interface{}, error) {
	if err := lf.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: lf.TypeName(), Reason: err.Error()}
	}
	return lf.raw(), nil
}

// UnmarshalYAML decodes and validates a whole lock document without a
// compatibility check.
func (lf *LockFile) UnmarshalYAML(node *yaml.Node) error {
	var raw rawLockFile
	if err := decodeYAML(node, &raw, "LockFile"); err != nil {
		return err
	}
	parsed, err := projectLockFile(raw, nil)
	if err != nil {
		return err
	}
	*lf = parsed
	return nil
}
