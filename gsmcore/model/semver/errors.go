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
	"errors"
	"strconv"
)

var (
	// ErrEmptyCore is returned when a Semver is built from zero components.
	ErrEmptyCore = errors.New("version core must have at least the major number")

	// ErrTooManyComponents is returned when a Semver is built from more than
	// three components.
	ErrTooManyComponents = errors.New("version core has more than 3 components")

	// ErrEmptySequence is returned when an IdentifierSequence is built from
	// zero identifiers.
	ErrEmptySequence = errors.New("identifier sequence must not be empty")

	// ErrInvalidIdentifier is the sentinel wrapped by InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrComponentRange is returned when a numeric component does not fit in
	// 64 bits.
	ErrComponentRange = errors.New("version component out of range")

	// ErrPreReleaseUnsupported is wrapped by UnsupportedFeatureError when the
	// text carries a pre-release segment ("1.0.0-alpha").
	ErrPreReleaseUnsupported = errors.New("pre-release versions are not supported")

	// ErrBuildMetadataUnsupported is wrapped by UnsupportedFeatureError when
	// the text carries build metadata ("1.0.0+build").
	ErrBuildMetadataUnsupported = errors.New("build metadata is not supported")
)

// InvalidIdentifierError is returned when an identifier cannot be built:
// a negative numeric identifier, or an alphanumeric identifier that is
// empty or contains characters other than ASCII letters, digits and
// hyphens.
type InvalidIdentifierError struct {
	Value  string
	Reason string
}

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	return "invalid identifier " + strconv.Quote(e.Value) + ": " + e.Reason
}

// Unwrap returns ErrInvalidIdentifier for errors.Is compatibility.
func (e *InvalidIdentifierError) Unwrap() error { return ErrInvalidIdentifier }

// Feature names a part of the semantic versioning grammar that gsm
// recognizes but does not implement.
type Feature uint8

const (
	// FeaturePreRelease is the "-identifier" segment.
	FeaturePreRelease Feature = iota + 1

	// FeatureBuildMetadata is the "+identifier" segment.
	FeatureBuildMetadata
)

// String returns the grammar name of the feature.
func (f Feature) String() string {
	switch f {
	case FeaturePreRelease:
		return "pre-release"
	case FeatureBuildMetadata:
		return "build metadata"
	default:
		return "unknown feature"
	}
}

// UnsupportedFeatureError is returned by Parse when the text is a
// well-formed version that uses a pre-release or build metadata segment.
//
// gsm refuses these instead of silently dropping the segment: "1.0.0-alpha"
// is never read as "1.0.0".
type UnsupportedFeatureError struct {
	// Feature is the segment kind that triggered the error.
	Feature Feature

	// Value is the full text that was parsed.
	Value string
}

// Error implements the error interface.
func (e *UnsupportedFeatureError) Error() string {
	return "version " + strconv.Quote(e.Value) + " uses " + e.Feature.String() + ", which is not supported yet"
}

// Unwrap returns ErrPreReleaseUnsupported or ErrBuildMetadataUnsupported
// depending on Feature.
func (e *UnsupportedFeatureError) Unwrap() error {
	if e.Feature == FeatureBuildMetadata {
		return ErrBuildMetadataUnsupported
	}
	return ErrPreReleaseUnsupported
}
