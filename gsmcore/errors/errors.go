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

// Package errors provides the error types shared by every gsm package.
//
// gsm distinguishes four classes of failure when it reads version strings,
// configuration files and lock files:
//
//   - syntax: the text is not a version at all. This is not an error; the
//     semver parser reports it through its boolean result and the caller
//     decides what to do.
//   - unsupported feature: the text is a version, but it uses a feature gsm
//     does not implement yet (pre-release or build metadata). The semver
//     package reports these with its own typed errors.
//   - schema violation: a file record is missing a field, carries an extra
//     one, has an empty or malformed value, or points outside the project.
//     Reported as *ValidationError, matchable with errors.Is(err, ErrSchema).
//   - compatibility violation: a lock file was written by a gsm release that
//     is not compatible with the running one. Reported as
//     *CompatibilityError, matchable with errors.Is(err, ErrIncompatible).
//
// The types are plain value carriers with stable message formats so that
// callers can rely on errors.As for programmatic handling and still print
// the message directly to an operator.
//
// # Usage
//
//	if err := dep.Validate(); err != nil {
//	    var verr *errors.ValidationError
//	    if stderrors.As(err, &verr) {
//	        fmt.Println("bad field:", verr.Field)
//	    }
//	}
package errors

import "errors"

var (
	// ErrSchema is the sentinel wrapped by every ValidationError.
	ErrSchema = errors.New("schema violation")

	// ErrIncompatible is the sentinel wrapped by every CompatibilityError.
	ErrIncompatible = errors.New("incompatible tool version")
)

// ParseError is returned when parsing a string into a strongly typed
// enum-like value fails.
//
// Type identifies the logical type being parsed (for example, "Kind"), and
// Value contains the exact string that could not be interpreted.
type ParseError struct {
	// Type is the logical name of the type being parsed (for example, "Kind").
	Type string

	// Value is the invalid textual representation that was provided.
	Value string
}

// Error implements the error interface for ParseError.
//
// The error message format is:
//
//	"gsm: invalid {Type} value: {Value}"
func (e *ParseError) Error() string {
	return "gsm: invalid " + e.Type + " value: " + e.Value
}

// MarshalError is returned when a value refuses to be serialized because it
// does not hold its invariants.
//
// In most cases a MarshalError indicates a programming error, for example a
// zero value that was never constructed through its constructor.
type MarshalError struct {
	// Type is the logical name of the type being marshaled.
	Type string

	// Reason describes which invariant the value breaks.
	Reason string
}

// Error implements the error interface for MarshalError.
//
// The error message format is:
//
//	"gsm: cannot marshal {Type}: {Reason}"
func (e *MarshalError) Error() string {
	return "gsm: cannot marshal " + e.Type + ": " + e.Reason
}

// UnmarshalError is returned when unmarshaling data into a typed value fails.
//
// Type identifies the logical type being populated, Data contains the
// original raw payload, and Reason provides a human-readable description of
// what went wrong.
type UnmarshalError struct {
	// Type is the logical name of the type being unmarshaled into.
	Type string

	// Data is the raw input that failed to unmarshal.
	//
	// Callers MAY choose to log or redact this field depending on privacy
	// and size considerations.
	Data []byte

	// Reason is a short, human-readable explanation of the failure.
	Reason string
}

// Error implements the error interface for UnmarshalError.
//
// The error message format is:
//
//	"gsm: cannot unmarshal {Type}: {Reason}"
//
// The Data field is not included in the formatted message.
func (e *UnmarshalError) Error() string {
	return "gsm: cannot unmarshal " + e.Type + ": " + e.Reason
}

// ValidationError is returned when a record or model value breaks one of
// its invariants.
//
// Type identifies the record being validated (for example, "Dependency" or
// "Lock"), Field optionally identifies the offending field using the name
// it has in the file (for example, "path" or "hash"), Reason explains the
// violation and Value optionally carries the rejected value.
type ValidationError struct {
	// Type is the logical name of the type being validated.
	Type string

	// Field is the name of the field that failed validation.
	// May be empty if the error applies to the entire record.
	Field string

	// Reason is a short, human-readable explanation of why validation failed.
	Reason string

	// Value optionally contains the invalid value.
	Value any

	// Cause optionally carries the failure that made the value invalid,
	// for example the semver parse error of a version field.
	Cause error
}

// Error implements the error interface for ValidationError.
//
// The error message format is:
//
//	"gsm: invalid {Type}.{Field}: {Reason}" (when Field is specified)
//	"gsm: invalid {Type}: {Reason}" (when Field is empty)
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return "gsm: invalid " + e.Type + "." + e.Field + ": " + e.Reason
	}
	return "gsm: invalid " + e.Type + ": " + e.Reason
}

// Unwrap returns ErrSchema and, when set, Cause.
func (e *ValidationError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSchema}
	}
	return []error{ErrSchema, e.Cause}
}

// FileError attaches the project file a failure was detected in.
type FileError struct {
	// File is the project-relative name of the file, for example "gsm.toml".
	File string

	// Err is the underlying failure.
	Err error
}

// Error implements the error interface for FileError.
//
// The error message format is:
//
//	"{File}: {Err}"
func (e *FileError) Error() string {
	return e.File + ": " + e.Err.Error()
}

// Unwrap returns the underlying failure.
func (e *FileError) Unwrap() error { return e.Err }

// CompatibilityError is returned when a lock file was produced by a gsm
// release whose version is not compatible with the running gsm.
//
// The message tells the operator how to recover: either delete the lock so
// that a fresh one is generated, or run a gsm release compatible with the
// one that wrote it.
type CompatibilityError struct {
	// File is the lock file name.
	File string

	// Recorded is the gsm version stored in the lock file.
	Recorded string

	// Running is the version of the gsm currently executing.
	Running string
}

// Error implements the error interface for CompatibilityError.
func (e *CompatibilityError) Error() string {
	return "gsm: " + e.File + " was written by gsm " + e.Recorded +
		" which is not compatible with gsm " + e.Running +
		"; delete " + e.File + " so that a new lock is generated, or use a gsm release compatible with " + e.Recorded
}

// Unwrap returns ErrIncompatible for errors.Is compatibility.
func (e *CompatibilityError) Unwrap() error { return ErrIncompatible }
