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

package model_test

import (
	"errors"
	"strings"
	"testing"

	"dirpx.dev/gsm/gsmcore/model"
)

type secret struct {
	value string
}

func (s secret) Validate() error {
	if s.value == "" {
		return errors.New("empty")
	}
	return nil
}

func (s secret) TypeName() string { return "secret" }
func (s secret) String() string   { return s.value }
func (s secret) Redacted() string { return "***" }

func TestValidateAll(t *testing.T) {
	if err := model.ValidateAll([]secret{{"a"}, {"b"}}); err != nil {
		t.Fatalf("ValidateAll(valid) = %v", err)
	}
	if err := model.ValidateAll([]secret(nil)); err != nil {
		t.Fatalf("ValidateAll(nil) = %v", err)
	}

	err := model.ValidateAll([]secret{{""}, {"ok"}, {""}})
	if err == nil {
		t.Fatal("ValidateAll() = nil, want error")
	}
	for _, want := range []string{"model[0] (secret): empty", "model[2] (secret): empty"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("ValidateAll() error %q does not contain %q", err, want)
		}
	}
}

func TestMustValidate(t *testing.T) {
	if got := model.MustValidate(secret{"x"}); got.value != "x" {
		t.Errorf("MustValidate() = %v", got)
	}

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustValidate(invalid) did not panic")
		}
		if !strings.Contains(r.(string), "secret") {
			t.Errorf("panic message %q does not name the type", r)
		}
	}()
	model.MustValidate(secret{})
}

func TestSafeString(t *testing.T) {
	s := secret{"token"}
	if got := model.SafeString(s, false); got != "***" {
		t.Errorf("SafeString(safe) = %q, want ***", got)
	}
	if got := model.SafeString(s, true); got != "token" {
		t.Errorf("SafeString(unsafe) = %q, want token", got)
	}
}
