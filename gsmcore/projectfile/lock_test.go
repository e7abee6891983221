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
	"errors"
	"strings"
	"testing"

	gsmerrors "dirpx.dev/gsm/gsmcore/errors"
	"dirpx.dev/gsm/gsmcore/model/digest"
	"dirpx.dev/gsm/gsmcore/model/semver"
	"dirpx.dev/gsm/gsmcore/model/version"
	"dirpx.dev/gsm/gsmcore/projectfile"
	"github.com/stretchr/testify/require"
)

var (
	tool      = semver.MustNew(1, 4, 0)
	validHash = digest.Sum([]byte("deps/foo")).String()
)

func lockDoc(gsmVersion string, entries ...string) string {
	var b strings.Builder
	if gsmVersion != "" {
		b.WriteString(`gsm_version = "` + gsmVersion + `"` + "\n")
	}
	for _, e := range entries {
		b.WriteString("\n[[lock]]\n" + e + "\n")
	}
	return b.String()
}

func entry(fields ...string) string {
	return strings.Join(fields, "\n")
}

func TestParseLock_Kinds(t *testing.T) {
	data := lockDoc("1.4",
		entry(`path = "deps/semver"`, `hash = "`+validHash+`"`, `version = "2.0.1"`),
		entry(`path = "deps/branch"`, `hash = "`+validHash+`"`, `branch = "main"`, `commit = "c0ffee"`),
		entry(`path = "deps/tag"`, `hash = "`+validHash+`"`, `tag = "v1"`),
		entry(`path = "deps/commit"`, `hash = "`+validHash+`"`, `commit = "badc0de"`),
	)

	lf, err := projectfile.ParseLock([]byte(data), tool)
	require.NoError(t, err)
	require.True(t, lf.ToolVersion.Equal(semver.MustNew(1, 4)))
	require.Len(t, lf.Locks, 4)

	kinds := make([]version.Kind, len(lf.Locks))
	for i, l := range lf.Locks {
		kinds[i] = version.KindOf(l.Version)
		require.Equal(t, digest.Digest(validHash), l.Hash)
	}
	require.Equal(t, []version.Kind{version.KindSemver, version.KindBranch, version.KindTag, version.KindCommit}, kinds)

	branch := lf.Locks[1].Version.(version.Branch)
	commit, ok := branch.LockedCommit()
	require.True(t, ok)
	require.Equal(t, "c0ffee", commit)

	got, ok := lf.Lock("deps/tag")
	require.True(t, ok)
	require.Equal(t, "deps/tag", got.Path)
}

func TestParseLock_Hash(t *testing.T) {
	tests := []struct {
		name  string
		hash  string
		valid bool
	}{
		{name: "128_hex", hash: strings.Repeat("0123456789abcdef", 8), valid: true},
		{name: "length_63", hash: strings.Repeat("a", 63)},
		{name: "length_65", hash: strings.Repeat("a", 65)},
		{name: "non_hex", hash: strings.Repeat("a", 127) + "z"},
		{name: "uppercase", hash: strings.Repeat("A", 128)},
		{name: "empty", hash: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := lockDoc("1.4", entry(`path = "deps/foo"`, `hash = "`+tt.hash+`"`, `tag = "v1"`))
			_, err := projectfile.ParseLock([]byte(data), tool)
			if tt.valid {
				require.NoError(t, err)
				return
			}
			requireViolation(t, err, "hash")
		})
	}
}

func TestParseLock_Violations(t *testing.T) {
	h := `hash = "` + validHash + `"`

	tests := []struct {
		name  string
		entry string
		field string
	}{
		{name: "no_kind", entry: entry(`path = "deps/foo"`, h)},
		{name: "version_and_tag", entry: entry(`path = "deps/foo"`, h, `version = "1.0"`, `tag = "v1"`)},
		{name: "version_and_commit", entry: entry(`path = "deps/foo"`, h, `version = "1.0"`, `commit = "abc"`)},
		{name: "tag_and_commit", entry: entry(`path = "deps/foo"`, h, `tag = "v1"`, `commit = "abc"`)},
		{name: "kind_wins_over_hash", entry: entry(`path = "deps/foo"`, `hash = "short"`)},
		{name: "escaping_path", entry: entry(`path = "../foo"`, h, `tag = "v1"`), field: "path"},
		{name: "path_wins_over_hash", entry: entry(`path = ""`, `hash = "short"`, `tag = "v1"`), field: "path"},
		{name: "hash_wins_over_version", entry: entry(`path = "deps/foo"`, `hash = "short"`, `version = "nope"`), field: "hash"},
		{name: "not_a_version", entry: entry(`path = "deps/foo"`, h, `version = "v1.0"`), field: "version"},
		{name: "empty_tag", entry: entry(`path = "deps/foo"`, h, `tag = ""`), field: "tag"},
		{name: "empty_branch", entry: entry(`path = "deps/foo"`, h, `branch = ""`, `commit = "abc"`), field: "branch"},
		{name: "branch_without_commit", entry: entry(`path = "deps/foo"`, h, `branch = "main"`), field: "commit"},
		{name: "branch_with_empty_commit", entry: entry(`path = "deps/foo"`, h, `branch = "main"`, `commit = ""`), field: "commit"},
		{name: "empty_commit", entry: entry(`path = "deps/foo"`, h, `commit = ""`), field: "commit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := projectfile.ParseLock([]byte(lockDoc("1.4", tt.entry)), tool)
			requireViolation(t, err, tt.field)
			require.Contains(t, err.Error(), "lock[0]")
		})
	}
}

func TestParseLock_ToolVersion(t *testing.T) {
	tests := []struct {
		name       string
		recorded   string
		running    semver.Semver
		compatible bool
	}{
		{name: "same", recorded: "1.4.0", running: semver.MustNew(1, 4, 0), compatible: true},
		{name: "older_lock", recorded: "1.2", running: semver.MustNew(1, 4, 0), compatible: true},
		{name: "major_only", recorded: "1", running: semver.MustNew(1, 9, 3), compatible: true},
		{name: "newer_lock", recorded: "1.5.0", running: semver.MustNew(1, 4, 0)},
		{name: "major_newer", recorded: "2.0.0", running: semver.MustNew(1, 4, 0)},
		{name: "major_older", recorded: "1.0.0", running: semver.MustNew(2, 0, 0)},
		{name: "major_zero_exact", recorded: "0.3.0", running: semver.MustNew(0, 3, 0), compatible: true},
		{name: "major_zero_patch", recorded: "0.3.0", running: semver.MustNew(0, 3, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := projectfile.ParseLock([]byte(lockDoc(tt.recorded)), tt.running)
			if tt.compatible {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, gsmerrors.ErrIncompatible)
			var cerr *gsmerrors.CompatibilityError
			require.True(t, errors.As(err, &cerr))
			require.Equal(t, tt.recorded, cerr.Recorded)
			require.Equal(t, tt.running.String(), cerr.Running)
			require.Contains(t, err.Error(), "delete gsm.lock")
		})
	}
}

func TestParseLock_ToolVersionCheckedFirst(t *testing.T) {
	data := lockDoc("2.0", entry(`path = "../escape"`, `hash = "bad"`))
	_, err := projectfile.ParseLock([]byte(data), tool)
	require.ErrorIs(t, err, gsmerrors.ErrIncompatible)
	require.NotErrorIs(t, err, gsmerrors.ErrSchema)
}

func TestParseLock_GSMVersionField(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "missing", doc: lockDoc("", entry(`path = "deps/foo"`, `hash = "`+validHash+`"`, `tag = "v1"`))},
		{name: "not_a_version", doc: `gsm_version = "latest"`},
		{name: "pre_release", doc: `gsm_version = "1.4.0-rc.1"`},
		{name: "empty", doc: `gsm_version = ""`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := projectfile.ParseLock([]byte(tt.doc), tool)
			requireViolation(t, err, "gsm_version")
		})
	}
}

func TestParseLock_ClosedSchema(t *testing.T) {
	for name, doc := range map[string]string{
		"unknown_top_level": `gsm_version = "1.4"` + "\n" + `generated = "today"`,
		"unknown_entry":     lockDoc("1.4", entry(`path = "deps/foo"`, `hash = "`+validHash+`"`, `tag = "v1"`, `remote = "r"`)),
		"wrong_type":        `gsm_version = 1`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := projectfile.ParseLock([]byte(doc), tool)
			requireViolation(t, err, "")
		})
	}
}

func TestParseLock_DuplicatePaths(t *testing.T) {
	data := lockDoc("1.4",
		entry(`path = "deps/foo"`, `hash = "`+validHash+`"`, `tag = "v1"`),
		entry(`path = "deps/foo/"`, `hash = "`+validHash+`"`, `tag = "v2"`),
	)
	_, err := projectfile.ParseLock([]byte(data), tool)
	requireViolation(t, err, "lock")
}

func TestParseLock_NoTool(t *testing.T) {
	_, err := projectfile.ParseLock([]byte(lockDoc("1.4")), semver.Semver{})
	require.ErrorIs(t, err, projectfile.ErrToolVersionUnset)
}
