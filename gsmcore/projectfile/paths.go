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
	"errors"
	"fmt"
	"path"
	"path/filepath"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
)

const (
	// ConfigFileName is the name of the config file at the project root.
	ConfigFileName = "gsm.toml"

	// LockFileName is the name of the lock file at the project root.
	LockFileName = "gsm.lock"
)

var (
	// ErrConfigNotFound is returned by Loader.LoadConfig when the project
	// has no config file.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrNotRegularFile is returned when a project file exists but is a
	// directory or another irregular entry.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrToolVersionUnset is returned when a lock file is read without a
	// running tool version to check it against.
	ErrToolVersionUnset = errors.New("running tool version is not set")
)

func emptyField(typeName, field string) error {
	return &gsmerrors.ValidationError{Type: typeName, Field: field, Reason: "must not be empty"}
}

// checkPath requires p to name a location strictly inside the project
// root: non-empty, relative, and without ".." segments that climb out.
func checkPath(typeName, p string) error {
	if p == "" {
		return emptyField(typeName, "path")
	}
	if !filepath.IsLocal(p) || filepath.Clean(p) == "." {
		return &gsmerrors.ValidationError{
			Type:   typeName,
			Field:  "path",
			Reason: "must be a relative path inside the project root",
			Value:  p,
		}
	}
	return nil
}

// fsPath returns p in the slash-separated, cleaned form io/fs expects.
// Two entries with the same fsPath name the same dependency.
func fsPath(p string) string {
	return path.Clean(filepath.ToSlash(p))
}

// checkDuplicates rejects two entries that name the same path.
func checkDuplicates(typeName, field string, paths []string) error {
	seen := make(map[string]int, len(paths))
	for i, p := range paths {
		key := fsPath(p)
		if j, ok := seen[key]; ok {
			return &gsmerrors.ValidationError{
				Type:   typeName,
				Field:  field,
				Reason: fmt.Sprintf("entries %d and %d both use path %q", j, i, key),
				Value:  p,
			}
		}
		seen[key] = i
	}
	return nil
}

// entryError locates err at entry i of the array field.
func entryError(field string, i int, p string, err error) error {
	if p == "" {
		return fmt.Errorf("%s[%d]: %w", field, i, err)
	}
	return fmt.Errorf("%s[%d] (%s): %w", field, i, p, err)
}
