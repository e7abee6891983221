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
	"io"
	"io/fs"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/toolversion"
	"github.com/charmbracelet/log"
)

// Loader reads the project files of one project.
type Loader struct {
	// FS is rooted at the project directory, for example os.DirFS(root).
	FS fs.FS

	// ToolVersion is the running gsm release. Lock files are checked
	// against it.
	ToolVersion semver.Semver

	// Logger receives progress messages. Nil discards them.
	Logger *log.Logger
}

// NewLoader returns a Loader for the project rooted at fsys, checking lock
// files against the version of the running binary.
func NewLoader(fsys fs.FS, logger *log.Logger) (Loader, error) {
	tool, err := toolversion.Current()
	if err != nil {
		return Loader{}, fmt.Errorf("determine gsm version: %w", err)
	}
	return Loader{FS: fsys, ToolVersion: tool, Logger: logger}, nil
}

func (l Loader) logger() *log.Logger {
	if l.Logger != nil {
		return l.Logger
	}
	return log.New(io.Discard)
}

// LoadConfig reads and validates gsm.toml. A project without one fails
// with ErrConfigNotFound.
func (l Loader) LoadConfig() (ConfigFile, error) {
	logger := l.logger()
	logger.Info("loading config file", "file", ConfigFileName)

	data, err := l.read(ConfigFileName)
	if errors.Is(err, fs.ErrNotExist) {
		return ConfigFile{}, fmt.Errorf("%w: %w", ErrConfigNotFound, err)
	}
	if err != nil {
		return ConfigFile{}, &gsmerrors.FileError{File: ConfigFileName, Err: err}
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		return ConfigFile{}, &gsmerrors.FileError{File: ConfigFileName, Err: err}
	}
	for _, d := range cfg.Dependencies {
		logger.Debug("validated dependency", "path", d.Path, "dependency", model.SafeString(d, false))
	}
	logger.Info("loaded config file", "file", ConfigFileName, "dependencies", len(cfg.Dependencies))
	return cfg, nil
}

// LoadLock reads and validates gsm.lock. The boolean is false, with a nil
// error, when the project has no lock yet.
func (l Loader) LoadLock() (LockFile, bool, error) {
	logger := l.logger()
	logger.Info("loading lock file", "file", LockFileName)

	if l.ToolVersion.IsZero() {
		return LockFile{}, false, &gsmerrors.FileError{File: LockFileName, Err: ErrToolVersionUnset}
	}

	data, err := l.read(LockFileName)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("lock file does not exist", "file", LockFileName)
		return LockFile{}, false, nil
	}
	if err != nil {
		return LockFile{}, false, &gsmerrors.FileError{File: LockFileName, Err: err}
	}

	lf, err := ParseLock(data, l.ToolVersion)
	if err != nil {
		return LockFile{}, false, &gsmerrors.FileError{File: LockFileName, Err: err}
	}
	for _, lock := range lf.Locks {
		logger.Debug("validated lock", "path", lock.Path, "lock", model.SafeString(lock, false))
	}
	logger.Info("loaded lock file", "file", LockFileName, "gsm_version", lf.ToolVersion, "locks", len(lf.Locks))
	return lf, true, nil
}

func (l Loader) read(name string) ([]byte, error) {
	if l.FS == nil {
		return nil, errors.New("projectfile: Loader has no filesystem")
	}
	info, err := fs.Stat(l.FS, name)
	if err != nil {
		return nil, err
	}
	if !info.Mode().IsRegular() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: ErrNotRegularFile}
	}
	return fs.ReadFile(l.FS, name)
}
