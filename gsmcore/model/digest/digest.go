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

// Package digest implements the content hash gsm records in lock entries.
//
// A Digest is the BLAKE2b-512 hash of some content, encoded as 128
// lowercase hexadecimal characters. It detects drift between a lock entry
// and the dependency tree it describes; it is an integrity check, not a
// security boundary.
//
// This package only hashes bytes. Reading them (and deciding what a
// missing or irregular file means) belongs to the caller; see the
// treehash package for the filesystem side.
package digest

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"golang.org/x/crypto/blake2b"
	"gopkg.in/yaml.v3"
)

const (
	// ByteSize is the size of a raw digest in bytes.
	ByteSize = blake2b.Size

	// HexSize is the length of an encoded Digest.
	HexSize = 2 * ByteSize

	// ShortLen is the number of characters kept by Short and Redacted.
	ShortLen = 12
)

// Digest is a content hash in its encoded form.
//
// The zero value is the empty string; it is reported by IsZero and
// rejected by Validate.
type Digest string

var _ model.Model = (*Digest)(nil)

// Sum hashes data.
func Sum(data []byte) Digest {
	sum := blake2b.Sum512(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// FromBytes encodes a raw digest, as returned by a blake2b.New512 hash.
func FromBytes(raw []byte) (Digest, error) {
	if len(raw) != ByteSize {
		return "", &gsmerrors.ValidationError{
			Type:   "Digest",
			Reason: fmt.Sprintf("raw digest must be %d bytes, got %d", ByteSize, len(raw)),
		}
	}
	return Digest(hex.EncodeToString(raw)), nil
}

// IsValid reports whether s is exactly HexSize lowercase hex digits.
func IsValid(s string) bool {
	if len(s) != HexSize {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// Parse returns s as a Digest if it is well formed.
func Parse(s string) (Digest, error) {
	d := Digest(s)
	if err := d.Validate(); err != nil {
		return "", err
	}
	return d, nil
}

// String returns the full encoded digest.
func (d Digest) String() string { return string(d) }

// Short returns the first ShortLen characters of d.
func (d Digest) Short() string {
	if len(d) < ShortLen {
		return string(d)
	}
	return string(d[:ShortLen])
}

// Redacted returns Short.
func (d Digest) Redacted() string { return d.Short() }

// TypeName returns "Digest".
func (d Digest) TypeName() string { return "Digest" }

// IsZero reports whether d is empty.
func (d Digest) IsZero() bool { return d == "" }

// Equal reports whether d and other are the same digest.
func (d Digest) Equal(other Digest) bool { return d == other }

// Bytes decodes d into its raw form.
func (d Digest) Bytes() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return hex.DecodeString(string(d))
}

// Validate reports whether d is HexSize lowercase hex digits.
func (d Digest) Validate() error {
	if IsValid(string(d)) {
		return nil
	}
	reason := fmt.Sprintf("must be %d lowercase hex characters", HexSize)
	if len(d) != HexSize {
		reason = fmt.Sprintf("must be %d lowercase hex characters, got %d characters", HexSize, len(d))
	}
	return &gsmerrors.ValidationError{Type: d.TypeName(), Reason: reason, Value: string(d)}
}

// MarshalJSON encodes d as a JSON string.
func (d Digest) MarshalJSON() ([]byte, error) {
	if err := d.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: d.TypeName(), Reason: err.Error()}
	}
	return json.Marshal(string(d))
}

// UnmarshalJSON decodes and validates a JSON string.
func (d *Digest) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Digest", Data: data, Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// MarshalYAML encodes d as a scalar string.
func (d Digest) MarshalYAML() (interface{}, error) {
	if err := d.Validate(); err != nil {
		return nil, &gsmerrors.MarshalError{Type: d.TypeName(), Reason: err.Error()}
	}
	return string(d), nil
}

// UnmarshalYAML decodes and validates a scalar string.
func (d *Digest) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return &gsmerrors.UnmarshalError{Type: "Digest", Reason: err.Error()}
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
