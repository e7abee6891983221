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
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"dirpx.dev/gsm/gsmcore/model/digest"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/model/version"
	"dirpx.dev/gsm/gsmcore/projectfile"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func sampleConfig(t *testing.T) projectfile.ConfigFile {
	t.Helper()

	sv, err := version.NewSemver(semver.MustNew(1, 2))
	require.NoError(t, err)
	tag, err := version.NewTag("v3.0.0")
	require.NoError(t, err)
	branch, err := version.NewBranch("main")
	require.NoError(t, err)
	commit, err := version.NewCommit("9fceb02")
	require.NoError(t, err)

	var deps []projectfile.Dependency
	for _, d := range []struct {
		path, remote string
		v            version.Version
	}{
		{"deps/semver", "https://example.com/semver.git", sv},
		{"deps/tag", "remote_tag", tag},
		{"deps/branch", "remote_branch", branch},
		{"deps/commit", "remote_commit", commit},
	} {
		dep, err := projectfile.NewDependency(d.path, d.remote, d.v)
		require.NoError(t, err)
		deps = append(deps, dep)
	}
	return projectfile.ConfigFile{Dependencies: deps}
}

func sampleLock(t *testing.T) projectfile.LockFile {
	t.Helper()

	sv, err := version.NewSemver(semver.MustNew(1, 2, 7))
	require.NoError(t, err)
	branch, err := version.NewLockedBranch("main", "c0ffee")
	require.NoError(t, err)

	a, err := projectfile.NewLock("deps/semver", digest.Sum([]byte("a")), sv)
	require.NoError(t, err)
	b, err := projectfile.NewLock("deps/branch", digest.Sum([]byte("b")), branch)
	require.NoError(t, err)

	lf, err := projectfile.NewLockFile(tool, a, b)
	require.NoError(t, err)
	return lf
}

func requireSameConfig(t *testing.T, want, got projectfile.ConfigFile) {
	t.Helper()
	require.Len(t, got.Dependencies, len(want.Dependencies))
	for i := range want.Dependencies {
		require.True(t, want.Dependencies[i].Equal(got.Dependencies[i]),
			"dependency %d: want %s, got %s", i, want.Dependencies[i], got.Dependencies[i])
	}
}

func requireSameLock(t *testing.T, want, got projectfile.LockFile) {
	t.Helper()
	require.True(t, want.ToolVersion.Equal(got.ToolVersion), "gsm_version: want %s, got %s", want.ToolVersion, got.ToolVersion)
	require.Len(t, got.Locks, len(want.Locks))
	for i := range want.Locks {
		require.True(t, want.Locks[i].Equal(got.Locks[i]), "lock %d: want %s, got %s", i, want.Locks[i], got.Locks[i])
	}
}

func TestEncodeConfig_RoundTrip(t *testing.T) {
	cfg := sampleConfig(t)

	data, err := projectfile.EncodeConfig(cfg)
	require.NoError(t, err)
	require.Contains(t, string(data), "[[dependency]]")

	back, err := projectfile.ParseConfig(data)
	require.NoError(t, err)
	requireSameConfig(t, cfg, back)
}

func TestEncodeConfig_Empty(t *testing.T) {
	data, err := projectfile.EncodeConfig(projectfile.ConfigFile{})
	require.NoError(t, err)

	back, err := projectfile.ParseConfig(data)
	require.NoError(t, err)
	require.Empty(t, back.Dependencies)
}

func TestEncodeConfig_Invalid(t *testing.T) {
	cfg := sampleConfig(t)
	cfg.Dependencies = append(cfg.Dependencies, cfg.Dependencies[0])

	_, err := projectfile.EncodeConfig(cfg)
	requireViolation(t, err, "dependency")
}

func TestEncodeLock_RoundTrip(t *testing.T) {
	lf := sampleLock(t)

	data, err := projectfile.EncodeLock(lf)
	require.NoError(t, err)
	require.Contains(t, string(data), "gsm_version")
	require.Contains(t, string(data), "1.4.0")
	require.Contains(t, string(data), "[[lock]]")

	back, err := projectfile.ParseLock(data, tool)
	require.NoError(t, err)
	requireSameLock(t, lf, back)
}

func TestEncodeLock_Invalid(t *testing.T) {
	_, err := projectfile.EncodeLock(projectfile.LockFile{})
	requireViolation(t, err, "gsm_version")

	lf := sampleLock(t)
	lf.Locks[0].Hash = "deadbeef"
	_, err = projectfile.EncodeLock(lf)
	require.Error(t, err)
	require.Contains(t, err.Error(), "hash")
}

func TestWriteLock(t *testing.T) {
	dir := t.TempDir()
	lf := sampleLock(t)

	require.NoError(t, projectfile.WriteLock(dir, lf))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary files were left behind")
	require.Equal(t, projectfile.LockFileName, entries[0].Name())

	loader := projectfile.Loader{FS: os.DirFS(dir), ToolVersion: tool}
	back, ok, err := loader.LoadLock()
	require.NoError(t, err)
	require.True(t, ok)
	requireSameLock(t, lf, back)

	bad := lf
	bad.Locks = append([]projectfile.Lock(nil), lf.Locks...)
	bad.Locks[0].Path = "../outside"
	require.Error(t, projectfile.WriteLock(dir, bad))

	data, err := os.ReadFile(filepath.Join(dir, projectfile.LockFileName))
	require.NoError(t, err)
	reparsed, err := projectfile.ParseLock(data, tool)
	require.NoError(t, err)
	requireSameLock(t, lf, reparsed)
}

func TestModelCodecs(t *testing.T) {
	cfg := sampleConfig(t)
	lf := sampleLock(t)

	t.Run("config_json", func(t *testing.T) {
		data, err := json.Marshal(cfg)
		require.NoError(t, err)
		var back projectfile.ConfigFile
		require.NoError(t, json.Unmarshal(data, &back))
		requireSameConfig(t, cfg, back)
	})

	t.Run("config_yaml", func(t *testing.T) {
		data, err := yaml.Marshal(cfg)
		require.NoError(t, err)
		var back projectfile.ConfigFile
		require.NoError(t, yaml.Unmarshal(data, &back))
		requireSameConfig(t, cfg, back)
	})

	t.Run("lock_json", func(t *testing.T) {
		data, err := json.Marshal(lf)
		require.NoError(t, err)
		var back projectfile.LockFile
		require.NoError(t, json.Unmarshal(data, &back))
		requireSameLock(t, lf, back)
	})

	t.Run("lock_yaml", func(t *testing.T) {
		data, err := yaml.Marshal(lf)
		require.NoError(t, err)
		var back projectfile.LockFile
		require.NoError(t, yaml.Unmarshal(data, &back))
		requireSameLock(t, lf, back)
	})

	t.Run("dependency_json_fields", func(t *testing.T) {
		data, err := json.Marshal(cfg.Dependencies[0])
		require.NoError(t, err)
		require.JSONEq(t, `{"path":"deps/semver","remote":"https://example.com/semver.git","version":"1.2"}`, string(data))
	})

	t.Run("strict_json", func(t *testing.T) {
		var dep projectfile.Dependency
		err := json.Unmarshal([]byte(`{"path":"deps/a","remote":"r","tag":"v1","extra":true}`), &dep)
		requireViolation(t, err, "")
	})

	t.Run("strict_yaml", func(t *testing.T) {
		var l projectfile.Lock
		doc := "path: deps/a\nhash: " + validHash + "\ntag: v1\nremote: r\n"
		requireViolation(t, yaml.Unmarshal([]byte(doc), &l), "")
	})
}
