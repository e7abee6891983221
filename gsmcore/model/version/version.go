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

// Package version implements the Version variant: the four mutually
// exclusive ways a gsm dependency can be pinned.
//
//	Semver  a released version core         version = "1.2"
//	Tag     a named tag                     tag = "v1.2.0"
//	Branch  a named branch                  branch = "main"
//	        pinned to a commit in the lock  branch = "main", commit = "9fceb02"
//	Commit  a raw commit identifier         commit = "9fceb02"
//
// Version is a sealed interface: only the four types of this package
// implement it, and Match dispatches over them with one required handler
// per case. Values are built only through the constructors, which reject
// empty names, so a constructed Version always satisfies Validate. The zero
// values of the concrete types exist (Go has no way to forbid them) but are
// reported by IsZero and rejected by Validate and the encoders.
//
// Equality only holds within one case: a Tag never equals a Branch of the
// same name, and no ordering is defined between cases.
package version

import (
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"dirpx.dev/gsm/gsmcore/model/semver"
)

// ShortCommitLen is the number of characters Redacted keeps of a commit.
const ShortCommitLen = 12

// Version is one of Semver, Tag, Branch or Commit.
//
// Version carries the read-only half of the model.Model contract; the
// decoding half lives on the concrete pointer types and on Any, which
// decodes whichever case a document holds.
type Version interface {
	model.Validatable
	model.Loggable
	model.Identifiable
	model.ZeroCheckable

	// Kind returns the case of the variant.
	Kind() Kind

	// Equal reports whether other is the same case with the same payload.
	Equal(other Version) bool

	MarshalJSON() ([]byte, error)
	MarshalYAML() (interface{}, error)

	sealed()
}

// KindOf returns the case of v, or KindUnknown when v is nil.
func KindOf(v Version) Kind {
	if v == nil {
		return KindUnknown
	}
	return v.Kind()
}

// Match calls the handler matching the case of v and returns its result.
//
// Every handler is required; adding a case to Version breaks every Match
// call site at compile time. Match panics when v is nil.
func Match[T any](
	v Version,
	onSemver func(Semver) T,
	onTag func(Tag) T,
	onBranch func(Branch) T,
	onCommit func(Commit) T,
) T {
	switch v := v.(type) {
	case Semver:
		return onSemver(v)
	case Tag:
		return onTag(v)
	case Branch:
		return onBranch(v)
	case Commit:
		return onCommit(v)
	}
	panic(fmt.Sprintf("version.Match: unexpected Version %T", v))
}

func emptyField(typeName, field string) error {
	return &gsmerrors.ValidationError{Type: typeName, Field: field, Reason: "must not be empty"}
}

// Semver pins a dependency to a released version core.
type Semver struct {
	core semver.Semver
}

var (
	_ Version     = Semver{}
	_ model.Model = (*Semver)(nil)
)

// NewSemver wraps a version core. The core must be valid.
func NewSemver(core semver.Semver) (Semver, error) {
	if err := core.Validate(); err != nil {
		return Semver{}, &gsmerrors.ValidationError{Type: "Semver", Field: "version", Reason: err.Error(), Cause: err}
	}
	return Semver{core: core}, nil
}

// Core returns the wrapped version core.
func (v Semver) Core() semver.Semver { return v.core }

// Kind returns KindSemver.
func (v Semver) Kind() Kind { return KindSemver }

// Equal reports whether other is a Semver with an equal core.
func (v Semver) Equal(other Version) bool {
	o, ok := other.(Semver)
	return ok && v.core.Equal(o.core)
}

func (v Semver) String() string   { return v.core.String() }
func (v Semver) Redacted() string { return v.String() }
func (v Semver) TypeName() string { return "Semver" }
func (v Semver) IsZero() bool     { return v.core.IsZero() }

// Validate reports whether v wraps a valid core.
func (v Semver) Validate() error {
	if err := v.core.Validate(); err != nil {
		return &gsmerrors.ValidationError{Type: v.TypeName(), Field: "version", Reason: err.Error(), Cause: err}
	}
	return nil
}

func (v Semver) sealed() {}

// Tag pins a dependency to a named tag.
type Tag struct {
	name string
}

var (
	_ Version     = Tag{}
	_ model.Model = (*Tag)(nil)
)

// NewTag returns the Tag called name.
func NewTag(name string) (Tag, error) {
	if name == "" {
		return Tag{}, emptyField("Tag", "tag")
	}
	return Tag{name: name}, nil
}

// Name returns the tag name.
func (t Tag) Name() string { return t.name }

// Kind returns KindTag.
func (t Tag) Kind() Kind { return KindTag }

// Equal reports whether other is a Tag with the same name.
func (t Tag) Equal(other Version) bool {
	o, ok := other.(Tag)
	return ok && t.name == o.name
}

func (t Tag) String() string   { return KindTagStr + ":" + t.name }
func (t Tag) Redacted() string { return t.String() }
func (t Tag) TypeName() string { return "Tag" }
func (t Tag) IsZero() bool     { return t.name == "" }

// Validate reports whether t has a name.
func (t Tag) Validate() error {
	if t.name == "" {
		return emptyField(t.TypeName(), "tag")
	}
	return nil
}

func (t Tag) sealed() {}

// Branch pins a dependency to a named branch.
//
// In a config file a branch floats: it names the branch only. In a lock
// file it is pinned to the commit the branch pointed to at resolution time.
// NewBranch builds the first form and NewLockedBranch the second.
type Branch struct {
	name   string
	commit string
}

var (
	_ Version     = Branch{}
	_ model.Model = (*Branch)(nil)
)

// NewBranch returns the floating Branch called name.
func NewBranch(name string) (Branch, error) {
	if name == "" {
		return Branch{}, emptyField("Branch", "branch")
	}
	return Branch{name: name}, nil
}

// NewLockedBranch returns the Branch called name pinned to commit. Both
// must be non-empty.
func NewLockedBranch(name, commit string) (Branch, error) {
	b, err := NewBranch(name)
	if err != nil {
		return Branch{}, err
	}
	return b.Lock(commit)
}

// Name returns the branch name.
func (b Branch) Name() string { return b.name }

// LockedCommit returns the commit b is pinned to, if any.
func (b Branch) LockedCommit() (string, bool) {
	return b.commit, b.commit != ""
}

// IsLocked reports whether b is pinned to a commit.
func (b Branch) IsLocked() bool { return b.commit != "" }

// Lock returns a copy of b pinned to commit.
func (b Branch) Lock(commit string) (Branch, error) {
	if commit == "" {
		return Branch{}, emptyField(b.TypeName(), "commit")
	}
	return Branch{name: b.name, commit: commit}, nil
}

// Floating returns a copy of b without its pinned commit.
func (b Branch) Floating() Branch { return Branch{name: b.name} }

// Kind returns KindBranch.
func (b Branch) Kind() Kind { return KindBranch }

// Equal reports whether other is a Branch with the same name and the same
// pinned commit (or both floating).
func (b Branch) Equal(other Version) bool {
	o, ok := other.(Branch)
	return ok && b.name == o.name && b.commit == o.commit
}

func (b Branch) String() string {
	if b.commit == "" {
		return KindBranchStr + ":" + b.name
	}
	return KindBranchStr + ":" + b.name + "@" + b.commit
}

func (b Branch) Redacted() string {
	if b.commit == "" {
		return b.String()
	}
	return KindBranchStr + ":" + b.name + "@" + shortCommit(b.commit)
}

func (b Branch) TypeName() string { return "Branch" }
func (b Branch) IsZero() bool     { return b.name == "" && b.commit == "" }

// Validate reports whether b has a name.
func (b Branch) Validate() error {
	if b.name == "" {
		return emptyField(b.TypeName(), "branch")
	}
	return nil
}

func (b Branch) sealed() {}

// Commit pins a dependency to a raw commit identifier.
type Commit struct {
	hash string
}

var (
	_ Version     = Commit{}
	_ model.Model = (*Commit)(nil)
)

// NewCommit returns the Commit identified by hash. gsm does not interpret
// the identifier beyond requiring it to be non-empty.
func NewCommit(hash string) (Commit, error) {
	if hash == "" {
		return Commit{}, emptyField("Commit", "commit")
	}
	return Commit{hash: hash}, nil
}

// Hash returns the commit identifier.
func (c Commit) Hash() string { return c.hash }

// Kind returns KindCommit.
func (c Commit) Kind() Kind { return KindCommit }

// Equal reports whether other is a Commit with the same identifier.
func (c Commit) Equal(other Version) bool {
	o, ok := other.(Commit)
	return ok && c.hash == o.hash
}

func (c Commit) String() string   { return KindCommitStr + ":" + c.hash }
func (c Commit) Redacted() string { return KindCommitStr + ":" + shortCommit(c.hash) }
func (c Commit) TypeName() string { return "Commit" }
func (c Commit) IsZero() bool     { return c.hash == "" }

// Validate reports whether c has an identifier.
func (c Commit) Validate() error {
	if c.hash == "" {
		return emptyField(c.TypeName(), "commit")
	}
	return nil
}

func (c Commit) sealed() {}

func shortCommit(hash string) string {
	if len(hash) <= ShortCommitLen {
		return hash
	}
	return hash[:ShortCommitLen]
}
