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

package projectfile_test

import (
	"bytes"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/projectfile"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

const oneDependency = `
[[dependency]]
path = "deps/foo"
remote = "remote_foo"
version = "1.0.0"
`

func TestLoader_LoadConfig(t *testing.T) {
	var buf bytes.Buffer
	loader := projectfile.Loader{
		FS:     fstest.MapFS{projectfile.ConfigFileName: {Data: []byte(oneDependency)}},
		Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel}),
	}

	cfg, err := loader.LoadConfig()
	require.NoError(t, err)
	require.Len(t, cfg.Dependencies, 1)
	require.Equal(t, "deps/foo", cfg.Dependencies[0].Path)

	out := buf.String()
	require.Contains(t, out, "loading config file")
	require.Contains(t, out, "validated dependency")
}

func TestLoader_LoadConfig_Errors(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		_, err := projectfile.Loader{FS: fstest.MapFS{}}.LoadConfig()
		require.ErrorIs(t, err, projectfile.ErrConfigNotFound)
		require.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		fsys := fstest.MapFS{projectfile.ConfigFileName + "/inner": {Data: []byte("x")}}
		_, err := projectfile.Loader{FS: fsys}.LoadConfig()
		require.ErrorIs(t, err, projectfile.ErrNotRegularFile)
	})

	t.Run("invalid", func(t *testing.T) {
		fsys := fstest.MapFS{projectfile.ConfigFileName: {Data: []byte("[[dependency]]\npath = \"deps/foo\"\n")}}
		_, err := projectfile.Loader{FS: fsys}.LoadConfig()
		require.ErrorIs(t, err, gsmerrors.ErrSchema)

		var ferr *gsmerrors.FileError
		require.True(t, errors.As(err, &ferr))
		require.Equal(t, projectfile.ConfigFileName, ferr.File)
		require.Contains(t, err.Error(), "gsm.toml: dependency[0] (deps/foo)")
	})

	t.Run("no_filesystem", func(t *testing.T) {
		_, err := projectfile.Loader{}.LoadConfig()
		require.Error(t, err)
	})
}

func TestLoader_LoadLock(t *testing.T) {
	lockData := []byte(`gsm_version = "1.4.0"

[[lock]]
path = "deps/foo"
hash = "` + validHash + `"
version = "1.0.0"
`)

	t.Run("present", func(t *testing.T) {
		loader := projectfile.Loader{
			FS:          fstest.MapFS{projectfile.LockFileName: {Data: lockData}},
			ToolVersion: tool,
		}
		lf, ok, err := loader.LoadLock()
		require.NoError(t, err)
		require.True(t, ok)
		require.Len(t, lf.Locks, 1)
	})

	t.Run("absent", func(t *testing.T) {
		var buf bytes.Buffer
		loader := projectfile.Loader{FS: fstest.MapFS{}, ToolVersion: tool, Logger: log.New(&buf)}
		lf, ok, err := loader.LoadLock()
		require.NoError(t, err)
		require.False(t, ok)
		require.True(t, lf.IsZero())
		require.Contains(t, buf.String(), "lock file does not exist")
	})

	t.Run("incompatible", func(t *testing.T) {
		loader := projectfile.Loader{
			FS:          fstest.MapFS{projectfile.LockFileName: {Data: lockData}},
			ToolVersion: semver.MustNew(2, 0, 0),
		}
		_, ok, err := loader.LoadLock()
		require.False(t, ok)
		require.ErrorIs(t, err, gsmerrors.ErrIncompatible)
		require.Contains(t, err.Error(), "gsm.lock")
	})

	t.Run("no_tool_version", func(t *testing.T) {
		loader := projectfile.Loader{FS: fstest.MapFS{projectfile.LockFileName: {Data: lockData}}}
		_, _, err := loader.LoadLock()
		require.ErrorIs(t, err, projectfile.ErrToolVersionUnset)
	})
}

func TestNewLoader(t *testing.T) {
	fsys := fstest.MapFS{projectfile.ConfigFileName: {Data: []byte(oneDependency)}}

	l, err := projectfile.NewLoader(fsys, nil)
	require.NoError(t, err)
	require.False(t, l.ToolVersion.IsZero())

	_, ok, err := l.LoadLock()
	require.NoError(t, err)
	require.False(t, ok)
}
