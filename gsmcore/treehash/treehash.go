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

// Package treehash computes content digests of files and dependency trees
// read from an fs.FS.
//
// A tree digest covers every regular file below the root, visited in
// lexical order. Each file contributes its slash-separated path relative
// to the root, a NUL byte, its size as a big-endian uint64 and its
// content. Directories contribute nothing by themselves, so empty
// directories do not change the digest; ".git" directories are skipped and
// so are entries that are neither files nor directories. The digest
// therefore depends only on the file contents and their relative layout,
// not on where the tree is installed.
package treehash

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"hash"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"

	"dirpx.dev/gsm/gsmcore/model/digest"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrNotRegularFile is returned by File for directories, symlinks and
	// other irregular entries.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrNotDirectory is returned by Tree when the root is not a directory.
	ErrNotDirectory = errors.New("not a directory")
)

// SkipDirs lists directory names that never contribute to a tree digest.
var SkipDirs = []string{".git"}

// File returns the digest of the content of the regular file name.
func File(fsys fs.FS, name string) (digest.Digest, error) {
	info, err := fs.Stat(fsys, name)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", &fs.PathError{Op: "hash", Path: name, Err: ErrNotRegularFile}
	}

	h := newHash()
	if err := copyFile(h, fsys, name); err != nil {
		return "", err
	}
	return digest.FromBytes(h.Sum(nil))
}

// Tree returns the digest of the directory tree rooted at root.
//
// Tree checks ctx between files and stops with ctx.Err() once it is done.
func Tree(ctx context.Context, fsys fs.FS, root string) (digest.Digest, error) {
	info, err := fs.Stat(fsys, root)
	if err != nil {
		return "", err
	}
	if !info.IsDir() {
		return "", &fs.PathError{Op: "hash", Path: root, Err: ErrNotDirectory}
	}

	h := newHash()
	var size [8]byte

	err = fs.WalkDir(fsys, root, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if name != root && slices.Contains(SkipDirs, d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return err
		}

		io.WriteString(h, relative(root, name))
		h.Write([]byte{0})
		binary.BigEndian.PutUint64(size[:], uint64(fi.Size()))
		h.Write(size[:])
		return copyFile(h, fsys, name)
	})
	if err != nil {
		return "", err
	}
	return digest.FromBytes(h.Sum(nil))
}

// Trees digests every root concurrently, running at most limit Tree calls
// at a time (no bound when limit <= 0). The first failure cancels the
// remaining work and is returned.
func Trees(ctx context.Context, fsys fs.FS, roots []string, limit int) (map[string]digest.Digest, error) {
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	sums := make([]digest.Digest, len(roots))
	for i, root := range roots {
		g.Go(func() error {
			d, err := Tree(ctx, fsys, root)
			if err != nil {
				return fmt.Errorf("hash %s: %w", root, err)
			}
			sums[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]digest.Digest, len(roots))
	for i, root := range roots {
		out[root] = sums[i]
	}
	return out, nil
}

func newHash() hash.Hash {
	// New512 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New512(nil)
	return h
}

func copyFile(w io.Writer, fsys fs.FS, name string) error {
	f, err := fsys.Open(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return nil
}

func relative(root, name string) string {
	if root == "." {
		return name
	}
	return strings.TrimPrefix(name, path.Clean(root)+"/")
}
