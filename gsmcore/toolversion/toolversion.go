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

// Package toolversion reports the version of the running gsm, the value
// lock files are checked against.
package toolversion

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	gsmsemver "dirpx.dev/gsm/gsmcore/model/semver"
	"golang.org/x/mod/semver"
)

// Fallback is used when the binary carries no usable module version, as
// with `go run`, tests and builds from a dirty checkout. Release builds
// may set it with
//
//	-ldflags "-X dirpx.dev/gsm/gsmcore/toolversion.Fallback=1.2.3"
var Fallback = "0.1.0"

// ErrNoModuleVersion is returned by FromModuleVersion for the empty and
// "(devel)" versions the Go toolchain stamps on unreleased builds.
var ErrNoModuleVersion = errors.New("binary has no module version")

// Current returns the version of the running gsm: the main module version
// from the build information when it is a plain release, Fallback
// otherwise.
func Current() (gsmsemver.Semver, error) {
	info, ok := debug.ReadBuildInfo()
	return current(info, ok, Fallback)
}

func current(info *debug.BuildInfo, ok bool, fallback string) (gsmsemver.Semver, error) {
	if ok && info != nil {
		if v, err := FromModuleVersion(info.Main.Version); err == nil {
			return v, nil
		}
	}

	v, ok, err := gsmsemver.Parse(fallback)
	if err != nil {
		return gsmsemver.Semver{}, fmt.Errorf("toolversion: fallback %q: %w", fallback, err)
	}
	if !ok {
		return gsmsemver.Semver{}, &gsmerrors.ParseError{Type: "Semver", Value: fallback}
	}
	return v, nil
}

// FromModuleVersion converts a Go module version such as "v1.4.2" into a
// version core. Shorthands are expanded ("v1.4" is 1.4.0). Pre-release
// versions, including pseudo-versions, and build metadata are rejected
// with a *semver.UnsupportedFeatureError from the gsm semver package.
func FromModuleVersion(v string) (gsmsemver.Semver, error) {
	if v == "" || v == "(devel)" {
		return gsmsemver.Semver{}, ErrNoModuleVersion
	}
	if !semver.IsValid(v) {
		return gsmsemver.Semver{}, &gsmerrors.ParseError{Type: "module version", Value: v}
	}
	if semver.Prerelease(v) != "" {
		return gsmsemver.Semver{}, &gsmsemver.UnsupportedFeatureError{Feature: gsmsemver.FeaturePreRelease, Value: v}
	}
	if semver.Build(v) != "" {
		return gsmsemver.Semver{}, &gsmsemver.UnsupportedFeatureError{Feature: gsmsemver.FeatureBuildMetadata, Value: v}
	}

	text := strings.TrimPrefix(semver.Canonical(v), "v")
	core, ok, err := gsmsemver.Parse(text)
	if err != nil {
		return gsmsemver.Semver{}, err
	}
	if !ok {
		return gsmsemver.Semver{}, &gsmerrors.ParseError{Type: "module version", Value: v}
	}
	return core, nil
}
