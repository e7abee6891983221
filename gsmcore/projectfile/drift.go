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
	"context"
	"errors"
	"fmt"
	"io/fs"

	"dirpx.dev/gsm/gsmcore/model/version"
	"dirpx.dev/gsm/gsmcore/treehash"
	"go.uber.org/multierr"
)

// ErrDrift is wrapped by every DriftError.
var ErrDrift = errors.New("lock file out of date")

// DriftError reports one dependency whose lock entry no longer describes
// what is declared or installed.
type DriftError struct {
	// Path is the dependency path, as written in the config or lock file.
	Path string

	// Reason explains the mismatch.
	Reason string
}

func (e *DriftError) Error() string {
	return "dependency " + e.Path + ": " + e.Reason
}

// Unwrap returns ErrDrift.
func (e *DriftError) Unwrap() error { return ErrDrift }

// CheckDrift compares cfg and lock with each other and with the trees
// installed in fsys, which is rooted at the project directory.
//
// Every finding is reported, combined with multierr; use multierr.Errors
// to iterate them. A dependency drifts when it is not locked, when its
// lock entry has another version kind, when the locked version no longer
// satisfies the declared one (a Semver requirement uses IsCompatibleWith,
// tags, branches and commits must match by name), when it is not
// installed, or when the installed tree hashes differently. A lock entry
// without a declared dependency drifts as well.
//
// Errors reading an installed tree are returned alongside the findings.
func CheckDrift(ctx context.Context, fsys fs.FS, cfg ConfigFile, lock LockFile) error {
	var errs error
	var roots []string
	expected := make(map[string]Lock)

	for _, dep := range cfg.Dependencies {
		locked, ok := lock.Lock(dep.Path)
		if !ok {
			errs = multierr.Append(errs, &DriftError{Path: dep.Path, Reason: "not locked"})
			continue
		}
		if reason := versionDrift(dep.Version, locked.Version); reason != "" {
			errs = multierr.Append(errs, &DriftError{Path: dep.Path, Reason: reason})
			continue
		}

		root := fsPath(dep.Path)
		info, err := fs.Stat(fsys, root)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			errs = multierr.Append(errs, &DriftError{Path: dep.Path, Reason: "not installed"})
			continue
		case err != nil:
			errs = multierr.Append(errs, err)
			continue
		case !info.IsDir():
			errs = multierr.Append(errs, &DriftError{Path: dep.Path, Reason: "installed path is not a directory"})
			continue
		}
		roots = append(roots, root)
		expected[root] = locked
	}

	for _, locked := range lock.Locks {
		if _, ok := cfg.Dependency(locked.Path); !ok {
			errs = multierr.Append(errs, &DriftError{Path: locked.Path, Reason: "locked but no longer declared"})
		}
	}

	if len(roots) == 0 {
		return errs
	}
	sums, err := treehash.Trees(ctx, fsys, roots, 0)
	if err != nil {
		return multierr.Append(errs, err)
	}
	for _, root := range roots {
		want := expected[root]
		if got := sums[root]; !got.Equal(want.Hash) {
			errs = multierr.Append(errs, &DriftError{
				Path:   want.Path,
				Reason: fmt.Sprintf("content hash mismatch: locked %s, installed %s", want.Hash.Short(), got.Short()),
			})
		}
	}
	return errs
}

// versionDrift returns why locked does not pin declared, or "".
func versionDrift(declared, locked version.Version) string {
	if declared == nil || locked == nil {
		return "missing version"
	}
	if declared.Kind() != locked.Kind() {
		return fmt.Sprintf("version kind changed: declared %s, locked %s", declared.Kind(), locked.Kind())
	}
	return version.Match(declared,
		func(want version.Semver) string {
			got := locked.(version.Semver)
			if !want.Core().IsCompatibleWith(got.Core()) {
				return fmt.Sprintf("locked version %s does not satisfy %s", got.Core(), want.Core())
			}
			return ""
		},
		func(want version.Tag) string {
			if !want.Equal(locked) {
				return fmt.Sprintf("tag changed: declared %s, locked %s", want.Name(), locked.(version.Tag).Name())
			}
			return ""
		},
		func(want version.Branch) string {
			got := locked.(version.Branch)
			if want.Name() != got.Name() {
				return fmt.Sprintf("branch changed: declared %s, locked %s", want.Name(), got.Name())
			}
			return ""
		},
		func(want version.Commit) string {
			if !want.Equal(locked) {
				return fmt.Sprintf("commit changed: declared %s, locked %s", want.Hash(), locked.(version.Commit).Hash())
			}
			return ""
		},
	)
}

// CheckDrift runs CheckDrift on the loader's filesystem and logs every
// finding as a warning.
func (l Loader) CheckDrift(ctx context.Context, cfg ConfigFile, lock LockFile) error {
	logger := l.logger()
	err := CheckDrift(ctx, l.FS, cfg, lock)

	for _, e := range multierr.Errors(err) {
		var drift *DriftError
		if errors.As(e, &drift) {
			logger.Warn("dependency drifted", "path", drift.Path, "reason", drift.Reason)
			continue
		}
		logger.Error("drift check failed", "err", e)
	}
	if err == nil {
		logger.Info("lock file is up to date", "file", LockFileName, "locks", len(lock.Locks))
	}
	return err
}
