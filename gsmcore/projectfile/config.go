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
	"net/url"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"dirpx.dev/gsm/gsmcore/model/version"
	"gopkg.in/yaml.v3"
)

const dependencyChoices = "version, branch, tag or commit"

type rawConfig struct {
	Dependencies []rawDependency `toml:"dependency,omitempty" json:"dependency,omitempty" yaml:"dependency,omitempty"`
}

type rawDependency struct {
	Path    string  `toml:"path" json:"path" yaml:"path"`
	Remote  string  `toml:"remote" json:"remote" yaml:"remote"`
	Version *string `toml:"version,omitempty" json:"version,omitempty" yaml:"version,omitempty"`
	Branch  *string `toml:"branch,omitempty" json:"branch,omitempty" yaml:"branch,omitempty"`
	Tag     *string `toml:"tag,omitempty" json:"tag,omitempty" yaml:"tag,omitempty"`
	Commit  *string `toml:"commit,omitempty" json:"commit,omitempty" yaml:"commit,omitempty"`
}

func (r rawDependency) pin() pin {
	return pin{version: r.Version, branch: r.Branch, tag: r.Tag, commit: r.Commit}
}

// Dependency is one validated [[dependency]] entry of the config file.
type Dependency struct {
	// Path is where the dependency is installed, relative to the project
	// root, exactly as written in the file.
	Path string

	// Remote identifies where the dependency is fetched from.
	Remote string

	// Version selects what to fetch. A Branch here is never locked.
	Version version.Version
}

var _ model.Model = (*Dependency)(nil)

// NewDependency builds a Dependency and validates it.
func NewDependency(path, remote string, v version.Version) (Dependency, error) {
	d := Dependency{Path: path, Remote: remote, Version: v}
	if err := d.Validate(); err != nil {
		return Dependency{}, err
	}
	return d, nil
}

// projectDependency validates raw and projects it. Checks run in this
// order and the first failure is returned:
//
//  1. exactly one of version, branch, tag and commit is set;
//  2. path is non-empty and inside the project root;
//  3. remote is non-empty;
//  4. a version string is a supported version core;
//  5. a branch, tag or commit name is non-empty.
func projectDependency(raw rawDependency) (Dependency, error) {
	const typeName = "Dependency"

	if n := countSet(raw.Version, raw.Branch, raw.Tag, raw.Commit); n != 1 {
		return Dependency{}, kindCountError(typeName, dependencyChoices, n)
	}
	if err := checkPath(typeName, raw.Path); err != nil {
		return Dependency{}, err
	}
	if raw.Remote == "" {
		return Dependency{}, emptyField(typeName, "remote")
	}
	v, err := raw.pin().project(typeName)
	if err != nil {
		return Dependency{}, err
	}
	return Dependency{Path: raw.Path, Remote: raw.Remote, Version: v}, nil
}

func (d Dependency) raw() rawDependency {
	r := rawDependency{Path: d.Path, Remote: d.Remote}
	if d.Version != nil {
		p := pinOf(d.Version)
		r.Version, r.Branch, r.Tag, r.Commit = p.version, p.branch, p.tag, p.commit
	}
	return r
}

// Validate applies the config file rules to d.
func (d Dependency) Validate() error {
	_, err := projectDependency(d.raw())
	return err
}

// String renders d with its full remote.
func (d Dependency) String() string {
	return fmt.Sprintf("%s <- %s (%s)", d.Path, d.Remote, describe(d.Version, true))
}

// Redacted renders d with the password of a URL remote masked.
func (d Dependency) Redacted() string {
	return fmt.Sprintf("%s <- %s (%s)", d.Path, redactRemote(d.Remote), describe(d.Version, false))
}

// TypeName returns "Dependency".
func (d Dependency) TypeName() string { return "Dependency" }

// IsZero reports whether d has no field set.
func (d Dependency) IsZero() bool {
	return d.Path == "" && d.Remote == "" && d.Version == nil
}

// Equal reports whether d and other declare the same dependency.
func (d Dependency) Equal(other Dependency) bool {
	if d.Path != other.Path || d.Remote != other.Remote {
		return false
	}
	if d.Version == nil || other.Version == nil {
		return d.Version == nil && other.Version == nil
	}
	return d.Version.Equal(other.Version)
}

// MarshalJSON encodes d with the field names of the config file.
func (d Dependency) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: d.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(d.raw())
}

// UnmarshalJSON decodes and validates one entry.
func (d *Dependency) UnmarshalJSON(data []byte) error {
	var raw rawDependency
	if err := decodeJSON(data, &raw, "Dependency"); err != nil {
		return err
	}
	parsed, err := projectDependency(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes d with the field names of the config file.
func (d Dependency) MarshalYAML() (interface{}, error) {
	if err := d.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: d.TypeName(), Reason: err.Error()}
	}
	return d.raw(), nil
}

// UnmarshalYAML decodes and validates one entry.
func (d *Dependency) UnmarshalYAML(node *yaml.Node) error {
	var raw rawDependency
	if err := decodeYAML(node, &raw, "Dependency"); err != nil {
		return err
	}
	parsed, err := projectDependency(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ConfigFile is the validated content of gsm.toml.
type ConfigFile struct {
	Dependencies []Dependency
}

var _ model.Model = (*ConfigFile)(nil)

// ParseConfig decodes and validates the content of a config file.
func ParseConfig(data []byte) (ConfigFile, error) {
	var raw rawConfig
	if err := decodeTOML(data, &raw, "ConfigFile"); err != nil {
		return ConfigFile{}, err
	}
	return projectConfig(raw)
}

func projectConfig(raw rawConfig) (ConfigFile, error) {
	deps := make([]Dependency, 0, len(raw.Dependencies))
	paths := make([]string, 0, len(raw.Dependencies))
	for i, rd := range raw.Dependencies {
		d, err := projectDependency(rd)
		if err != nil {
			return ConfigFile{}, entryError("dependency", i, rd.Path, err)
		}
		deps = append(deps, d)
		paths = append(paths, d.Path)
	}
	if err := checkDuplicates("ConfigFile", "dependency", paths); err != nil {
		return ConfigFile{}, err
	}
	return ConfigFile{Dependencies: deps}, nil
}

func (c ConfigFile) raw() rawConfig {
	var r rawConfig
	for _, d := range c.Dependencies {
		r.Dependencies = append(r.Dependencies, d.raw())
	}
	return r
}

// Dependency returns the dependency installed at path.
func (c ConfigFile) Dependency(path string) (Dependency, bool) {
	key := fsPath(path)
	for _, d := range c.Dependencies {
		if fsPath(d.Path) == key {
			return d, true
		}
	}
	return Dependency{}, false
}

// Validate reports every invalid dependency, then duplicate paths.
func (c ConfigFile) Validate() error {
	if err := model.ValidateAll(c.Dependencies); err != nil {
		return err
	}
	paths := make([]string, len(c.Dependencies))
	for i, d := range c.Dependencies {
		paths[i] = d.Path
	}
	return checkDuplicates(c.TypeName(), "dependency", paths)
}

func (c ConfigFile) String() string {
	return fmt.Sprintf("%s (%d dependencies)", ConfigFileName, len(c.Dependencies))
}

func (c ConfigFile) Redacted() string { return c.String() }

func (c ConfigFile) TypeName() string { return "ConfigFile" }

func (c ConfigFile) IsZero() bool { return len(c.Dependencies) == 0 }

// MarshalJSON encodes c as {"dependency": [...]}.
func (c ConfigFile) MarshalJSON() ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: c.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(c.raw())
}

// UnmarshalJSON decodes and validates a whole config document.
func (c *ConfigFile) UnmarshalJSON(data []byte) error {
	var raw rawConfig
	if err := decodeJSON(data, &raw, "ConfigFile"); err != nil {
		return err
	}
	parsed, err := projectConfig(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// MarshalYAML encodes c as a mapping with a dependency sequence.
func (c ConfigFile) MarshalYAML() (interface{}, error) {
	if err := c.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: c.TypeName(), Reason: err.Error()}
	}
	return c.raw(), nil
}

// UnmarshalYAML decodes and validates a whole config document.
func (c *ConfigFile) UnmarshalYAML(node *yaml.Node) error {
	var raw rawConfig
	if err := decodeYAML(node, &raw, "ConfigFile"); err != nil {
		return err
	}
	parsed, err := projectConfig(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func describe(v version.Version, unsafe bool) string {
	if v == nil {
		return "no version"
	}
	if unsafe {
		return v.String()
	}
	return v.Redacted()
}

func redactRemote(remote string) string {
	u, err := url.Parse(remote)
	if err != nil || u.User == nil {
		return remote
	}
	return u.Redacted()
}
