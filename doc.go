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

// Package rbmarshal reads and writes the Ruby Marshal binary serialization
// format (version 4.8).
//
// The package is built around three pieces: an [Arena] that holds a graph of
// [Value]s addressed by stable, generational [Handle]s; a [Load] function
// that decodes a Marshal byte stream into an Arena while preserving object
// identity (shared and cyclic subgraphs) and symbol interning exactly as the
// wire format demands; and a [Dump] function that is the exact inverse,
// producing output byte-identical to any input that round-trips through
// [Load].
//
// # Support status
//
// Only the tag subset in the package-level wire format table is supported:
// Nil, Bool, Fixnum, Symbol, Array, Hash (with and without a default),
// Object, String, and UserDefined, each optionally carrying instance
// variables. Encountering any other Marshal tag (Float, Bignum, Regexp,
// Class, Module, Data, Struct, extended objects, ...) is reported as
// [InvalidValueKindError], never silently skipped.
//
// This package does not interpret the encoding tag Ruby attaches to
// strings, does not convert values to any other format such as JSON, and
// does not support incremental or streaming decoding of partial input.
package rbmarshal
