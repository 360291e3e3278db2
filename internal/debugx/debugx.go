// Copyright 2025 The rbmarshal Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build !rbmarshal_debug

// Package debugx is a build-tag-gated trace logger for the loader and
// dumper. Without the rbmarshal_debug build tag, Logf compiles down to
// nothing: no formatting, no allocation, no call overhead beyond the call
// site itself.
package debugx

// Enabled reports whether debug tracing is compiled in.
const Enabled = false

// Logf is a no-op in non-debug builds.
func Logf(format string, args ...any) {}
