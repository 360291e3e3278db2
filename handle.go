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

package rbmarshal

import "github.com/google/uuid"

// Handle is an opaque, copyable reference to one slot in one [Arena].
//
// Handles remain valid across arena mutations that insert or overwrite
// slots: they carry a generation counter, not a pointer, so a handle whose
// slot has since been reused resolves to nothing rather than to the wrong
// value. A handle also carries the identity of the arena that minted it, so
// a handle from one arena cannot be mistaken for valid in another, even one
// created moments later that happens to reuse the same slot indices and
// generations.
type Handle struct {
	arena uuid.UUID
	index uint32
	gen   uint32
}

// IsZero reports whether h is the zero Handle, which never resolves in any
// arena.
func (h Handle) IsZero() bool {
	return h == Handle{}
}

// kindMarker is implemented by the nine phantom marker types used to
// parameterize [TypedHandle]. It is unexported so that only this package's
// nine kinds can ever instantiate a TypedHandle.
type kindMarker interface {
	valueKind() Kind
}

type nilMarker struct{}
type boolMarker struct{}
type fixnumMarker struct{}
type symbolMarker struct{}
type arrayMarker struct{}
type hashMarker struct{}
type objectMarker struct{}
type stringMarker struct{}
type userDefinedMarker struct{}

func (nilMarker) valueKind() Kind         { return KindNil }
func (boolMarker) valueKind() Kind        { return KindBool }
func (fixnumMarker) valueKind() Kind      { return KindFixnum }
func (symbolMarker) valueKind() Kind      { return KindSymbol }
func (arrayMarker) valueKind() Kind       { return KindArray }
func (hashMarker) valueKind() Kind        { return KindHash }
func (objectMarker) valueKind() Kind      { return KindObject }
func (stringMarker) valueKind() Kind      { return KindString }
func (userDefinedMarker) valueKind() Kind { return KindUserDefined }

// TypedHandle is a [Handle] carrying an assertion, checked at construction,
// that it refers to a value of one particular [Kind].
type TypedHandle[M kindMarker] struct {
	handle Handle
}

// Handle returns the underlying untyped handle.
func (t TypedHandle[M]) Handle() Handle {
	return t.handle
}

// IsZero reports whether t wraps the zero Handle.
func (t TypedHandle[M]) IsZero() bool {
	return t.handle.IsZero()
}

func newTypedHandle[M kindMarker](h Handle) TypedHandle[M] {
	return TypedHandle[M]{handle: h}
}

// The nine concrete typed handle aliases exposed to callers.
type (
	NilHandle         = TypedHandle[nilMarker]
	BoolHandle        = TypedHandle[boolMarker]
	FixnumHandle      = TypedHandle[fixnumMarker]
	SymbolHandle      = TypedHandle[symbolMarker]
	ArrayHandle       = TypedHandle[arrayMarker]
	HashHandle        = TypedHandle[hashMarker]
	ObjectHandle      = TypedHandle[objectMarker]
	StringHandle      = TypedHandle[stringMarker]
	UserDefinedHandle = TypedHandle[userDefinedMarker]
)

// AsTyped validates that h resolves in a to a value of kind M and returns
// the corresponding [TypedHandle]. It fails with [InvalidValueHandleError]
// if h does not resolve, or [UnexpectedValueKindError] if it resolves to a
// value of a different kind.
func AsTyped[M kindMarker](a *Arena, h Handle) (TypedHandle[M], error) {
	v, ok := a.Get(h)
	if !ok {
		return TypedHandle[M]{}, &InvalidValueHandleError{Handle: h}
	}

	var marker M
	if v.Kind() != marker.valueKind() {
		return TypedHandle[M]{}, &UnexpectedValueKindError{Expected: marker.valueKind(), Actual: v.Kind()}
	}

	return TypedHandle[M]{handle: h}, nil
}
