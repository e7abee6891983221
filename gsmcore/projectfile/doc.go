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

// Package projectfile reads, validates and writes the two files a gsm
// project keeps at its root.
//
// gsm.toml, the config file, declares the dependencies:
//
//	[[dependency]]
//	path = "deps/foo"
//	remote = "https://example.com/foo.git"
//	version = "1.2"            # or branch = "...", tag = "...", commit = "..."
//
// gsm.lock, the lock file, records what a resolution produced, together
// with the gsm release that wrote it:
//
//	gsm_version = "0.3.0"
//
//	[[lock]]
//	path = "deps/foo"
//	hash = "<128 hex characters>"
//	version = "1.2.7"          # or branch + commit, tag, commit
//
// Both schemas are closed: unknown keys are rejected. Every record is
// validated and projected into the immutable model (Dependency, Lock)
// before anything is returned, so a caller never sees a partially valid
// file. Checks run in a fixed order and the first failing one is
// reported; errors carry the index and path of the offending entry and
// wrap *errors.ValidationError (schema violations) or
// *errors.CompatibilityError (lock written by an incompatible gsm).
//
// Loader reads the files through an fs.FS rooted at the project. The
// running tool version it checks lock files against is injected, never
// looked up globally.
package projectfile
