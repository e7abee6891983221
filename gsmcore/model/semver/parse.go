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
	"fmt"
	"regexp"
	"strconv"
	"strings"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	bsemver "github.com/blang/semver/v4"
)

const (
	numberPattern     = `(0|[1-9][0-9]*)`
	corePattern       = numberPattern + `(?:\.` + numberPattern + `(?:\.` + numberPattern + `)?)?`
	identifierPattern = `[0-9A-Za-z-]+(?:\.[0-9A-Za-z-]+)*`
)

var (
	// versionRegexp matches a complete version string, including the
	// pre-release and build metadata segments gsm rejects.
	versionRegexp = regexp.MustCompile(`^` + corePattern + `(?:-(` + identifierPattern + `))?(?:\+(` + identifierPattern + `))?$`)

	// coreRegexp matches a bare core anywhere in a text.
	coreRegexp = regexp.MustCompile(corePattern)
)

// Parse reads text as a version core.
//
// The result is one of:
//
//   - (v, true, nil): text is exactly a core such as "1", "1.2" or "1.2.3".
//   - (Semver{}, false, nil): text is not a version. This covers leading
//     zeros ("01.0.0"), surrounding whitespace, more than three components
//     ("1.1.1.1") and anything else that does not match the grammar.
//   - (Semver{}, false, err): text is a version that gsm cannot accept. err
//     is an *UnsupportedFeatureError for pre-release or build metadata
//     segments (the pre-release error is reported when both are present),
//     or wraps ErrComponentRange when a component overflows 64 bits.
//
// Pre-release and build identifiers are checked with the semantic
// versioning rules (numeric pre-release identifiers have no leading zero);
// a malformed segment makes the whole text "not a version".
func Parse(text string) (Semver, bool, error) {
	m := versionRegexp.FindStringSubmatch(text)
	if m == nil {
		return Semver{}, false, nil
	}

	pre, build := m[4], m[5]
	if !validPreRelease(pre) || !validBuild(build) {
		return Semver{}, false, nil
	}
	if pre != "" {
		return Semver{}, false, &UnsupportedFeatureError{Feature: FeaturePreRelease, Value: text}
	}
	if build != "" {
		return Semver{}, false, &UnsupportedFeatureError{Feature: FeatureBuildMetadata, Value: text}
	}

	v, err := fromGroups(m[1:4])
	if err != nil {
		return Semver{}, false, err
	}
	return v, true, nil
}

// MustParse is like Parse but panics unless text is an accepted core.
// Use it for literals only.
func MustParse(text string) Semver {
	v, err := parseStrict(text)
	if err != nil {
		panic(fmt.Sprintf("semver.MustParse: %v", err))
	}
	return v
}

// parseStrict folds the "not a version" result of Parse into a ParseError.
func parseStrict(text string) (Semver, error) {
	v, ok, err := Parse(text)
	if err != nil {
		return Semver{}, err
	}
	if !ok {
		return Semver{}, &gsmerrors.ParseError{Type: "Semver", Value: text}
	}
	return v, nil
}

// FindFirst returns the first version core that appears in text, for
// opportunistic detection in free text such as "gsm version 1.4.2 (linux)"
// or "release-2.0".
//
// A match must not be glued to a digit on either side, so "01.2" yields
// nothing. Unlike Parse, FindFirst does not look at what follows the core:
// "1.0.0-alpha" yields 1.0.0.
func FindFirst(text string) (Semver, bool) {
	for _, loc := range coreRegexp.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[0], loc[1]
		if start > 0 && isDigit(text[start-1]) {
			continue
		}
		if end < len(text) && isDigit(text[end]) {
			continue
		}

		groups := make([]string, 3)
		for g := range groups {
			if lo, hi := loc[2+2*g], loc[3+2*g]; lo >= 0 {
				groups[g] = text[lo:hi]
			}
		}
		v, err := fromGroups(groups)
		if err != nil {
			continue
		}
		return v, true
	}
	return Semver{}, false
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// fromGroups builds a Semver from the major, minor and patch capture
// groups; an empty group is an absent component.
func fromGroups(groups []string) (Semver, error) {
	ids := make([]Identifier, 0, MaxComponents)
	for _, g := range groups {
		if g == "" {
			break
		}
		n, err := strconv.ParseUint(g, 10, 64)
		if err != nil {
			return Semver{}, fmt.Errorf("%w: %q", ErrComponentRange, g)
		}
		ids = append(ids, NumericIdentifier(n))
	}
	return fromIdentifiers(ids), nil
}

func validPreRelease(segment string) bool {
	if segment == "" {
		return true
	}
	for _, part := range strings.Split(segment, ".") {
		if _, err := bsemver.NewPRVersion(part); err != nil {
			return false
		}
	}
	return true
}

func validBuild(segment string) bool {
	if segment == "" {
		return true
	}
	for _, part := range strings.Split(segment, ".") {
		if _, err := bsemver.NewBuildVersion(part); err != nil {
			return false
		}
	}
	return true
}
