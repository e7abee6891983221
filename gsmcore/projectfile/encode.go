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
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// lockHeader starts every lock file gsm writes.
const lockHeader = "# This file is generated by gsm. Do not edit it by hand.\n\n"

// EncodeConfig validates c and encodes it as a config file.
// ParseConfig(EncodeConfig(c)) yields a ConfigFile equal to c.
func EncodeConfig(c ConfigFile) ([]byte, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", ConfigFileName, err)
	}
	data, err := toml.Marshal(c.raw())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ConfigFileName, err)
	}
	return data, nil
}

// EncodeLock validates lf and encodes it as a lock file.
// ParseLock(EncodeLock(lf), lf.ToolVersion) yields a LockFile equal to lf.
func EncodeLock(lf LockFile) ([]byte, error) {
	if err := lf.Validate(); err != nil {
		return nil, fmt.Errorf("encode %s: %w", LockFileName, err)
	}
	data, err := toml.Marshal(lf.raw())
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", LockFileName, err)
	}
	return append([]byte(lockHeader), data...), nil
}

// WriteLock validates lf and writes it to dir/gsm.lock.
//
// The file is written to a temporary file in dir first and renamed into
// place, so readers see either the previous lock or the new one in full.
func WriteLock(dir string, lf LockFile) error {
	data, err := EncodeLock(lf)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+LockFileName+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", LockFileName, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", LockFileName, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", LockFileName, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", LockFileName, err)
	}
	if err := os.Rename(tmpName, filepath.Join(dir, LockFileName)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", LockFileName, err)
	}
	return nil
}
