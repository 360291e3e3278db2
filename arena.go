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

import (
	"github.com/google/uuid"

	"github.com/go-marshal/rbmarshal/internal/debugx"
)

type slot struct {
	gen      uint32
	occupied bool
	value    Value
}

// Arena owns a graph of [Value]s addressed by stable, generational
// [Handle]s. An Arena is not safe for concurrent use; see SPEC_FULL.md §1's
// restated Non-goals.
type Arena struct {
	id    uuid.UUID
	slots []slot
	free  []uint32
	root  Handle
	// symbols interns symbol bytes to the handle that first created them,
	// so repeated CreateSymbol calls with equal bytes return one shared Handle.
	symbols map[string]SymbolHandle
}

// New returns an Arena whose root is a freshly allocated Nil value, per the
// invariant that an Arena's root is always valid.
func New() *Arena {
	a := &Arena{
		id:      uuid.New(),
		symbols: make(map[string]SymbolHandle),
	}
	a.root = a.insert(NilValue{})
	return a
}

func (a *Arena) insert(v Value) Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.occupied = true
		s.value = v
		return Handle{arena: a.id, index: idx, gen: s.gen}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot{gen: 0, occupied: true, value: v})
	return Handle{arena: a.id, index: idx, gen: 0}
}

func (a *Arena) resolve(h Handle) (*slot, bool) {
	if h.arena != a.id || int(h.index) >= len(a.slots) {
		return nil, false
	}
	s := &a.slots[h.index]
	if !s.occupied || s.gen != h.gen {
		return nil, false
	}
	return s, true
}

// Get resolves h to its [Value]. It reports false if h does not resolve in
// a: it was minted by a different Arena, its slot has since been vacated by
// [Arena.Remove], or it is a handle the loader reserved but has not yet
// patched with a value.
func (a *Arena) Get(h Handle) (Value, bool) {
	s, ok := a.resolve(h)
	if !ok || s.value == nil {
		return nil, false
	}
	return s.value, true
}

// Remove vacates h's slot, bumping its generation so any outstanding copy
// of h stops resolving. It reports false if h did not resolve in a, or if h
// is the arena's current root: the root must always resolve, so it can
// only be vacated indirectly, by first calling [Arena.ReplaceRoot].
func (a *Arena) Remove(h Handle) bool {
	if h == a.root {
		return false
	}
	s, ok := a.resolve(h)
	if !ok {
		return false
	}
	s.occupied = false
	s.value = nil
	s.gen++
	a.free = append(a.free, h.index)
	return true
}

// Root returns the arena's root handle. Per the arena's invariants, it
// always resolves via [Arena.Get]; a freshly created Arena's root is Nil.
func (a *Arena) Root() Handle {
	return a.root
}

// ReplaceRoot sets a's root to h, which must resolve in a, and returns the
// previous root.
func (a *Arena) ReplaceRoot(h Handle) (Handle, error) {
	if _, ok := a.resolve(h); !ok {
		return Handle{}, &InvalidValueHandleError{Handle: h}
	}
	old := a.root
	a.root = h
	debugx.Logf("arena: root replaced, old=%v new=%v", old, h)
	return old, nil
}

// reserve allocates a slot with no value yet, for the Loader's
// reserve-then-patch cycle support (an object link table entry must exist
// before the object's own children, which may reference it back, are
// parsed).
func (a *Arena) reserve() Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		s := &a.slots[idx]
		s.occupied = true
		s.value = nil
		return Handle{arena: a.id, index: idx, gen: s.gen}
	}

	idx := uint32(len(a.slots))
	a.slots = append(a.slots, slot{gen: 0, occupied: true, value: nil})
	return Handle{arena: a.id, index: idx, gen: 0}
}

// patch fills in the value of a handle previously returned by reserve.
func (a *Arena) patch(h Handle, v Value) error {
	s, ok := a.resolve(h)
	if !ok {
		return &InvalidValueHandleError{Handle: h}
	}
	s.value = v
	return nil
}

// CreateNil inserts a Nil value and returns its handle.
func (a *Arena) CreateNil() NilHandle {
	return newTypedHandle[nilMarker](a.insert(NilValue{}))
}

// CreateBool inserts a Bool value and returns its handle.
func (a *Arena) CreateBool(v bool) BoolHandle {
	return newTypedHandle[boolMarker](a.insert(BoolValue{Value: v}))
}

// CreateFixnum inserts a Fixnum value and returns its handle.
func (a *Arena) CreateFixnum(v int32) FixnumHandle {
	return newTypedHandle[fixnumMarker](a.insert(FixnumValue{Value: v}))
}

// CreateSymbol interns b: if an equal symbol was already created in a (via
// CreateSymbol), its existing handle is returned; otherwise a new Symbol
// value is inserted and recorded for future interning.
func (a *Arena) CreateSymbol(b []byte) SymbolHandle {
	if h, ok := a.symbols[string(b)]; ok {
		return h
	}
	h := newTypedHandle[symbolMarker](a.insert(SymbolValue{Bytes: b}))
	a.symbols[string(b)] = h
	return h
}

// CreateSymbolUninterned inserts b as a new Symbol value without consulting
// or updating the interning table, for callers that need a symbol value
// deliberately distinct from any interned one (e.g. dumper round-trip tests
// exercising non-canonical input).
func (a *Arena) CreateSymbolUninterned(b []byte) SymbolHandle {
	return newTypedHandle[symbolMarker](a.insert(SymbolValue{Bytes: b}))
}

// GetSymbol resolves h and returns its bytes.
func (a *Arena) GetSymbol(h SymbolHandle) ([]byte, error) {
	v, ok := a.Get(h.Handle())
	if !ok {
		return nil, &InvalidValueHandleError{Handle: h.Handle()}
	}
	sym, ok := v.(SymbolValue)
	if !ok {
		return nil, &UnexpectedValueKindError{Expected: KindSymbol, Actual: v.Kind()}
	}
	return sym.Bytes, nil
}

// CreateArray inserts an Array value and returns its handle.
func (a *Arena) CreateArray(elements []Handle) ArrayHandle {
	return newTypedHandle[arrayMarker](a.insert(ArrayValue{Elements: elements}))
}

// CreateHash inserts a Hash value and returns its handle. def is the zero
// Handle if the hash has no default.
func (a *Arena) CreateHash(pairs []HashPair, def Handle) HashHandle {
	return newTypedHandle[hashMarker](a.insert(HashValue{Pairs: pairs, Default: def}))
}

// CreateObject inserts an Object value and returns its handle.
func (a *Arena) CreateObject(className SymbolHandle, ivars []IVar) ObjectHandle {
	return newTypedHandle[objectMarker](a.insert(ObjectValue{ClassName: className, IVars: ivars}))
}

// CreateString inserts a String value and returns its handle.
func (a *Arena) CreateString(b []byte, ivars []IVar) StringHandle {
	return newTypedHandle[stringMarker](a.insert(StringValue{Bytes: b, IVars: ivars}))
}

// CreateUserDefined inserts a UserDefined value and returns its handle.
func (a *Arena) CreateUserDefined(className SymbolHandle, payload []byte, ivars []IVar) UserDefinedHandle {
	return newTypedHandle[userDefinedMarker](a.insert(UserDefinedValue{ClassName: className, Payload: payload, IVars: ivars}))
}
