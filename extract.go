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

// ExtractContext walks one [Arena]'s value graph on behalf of external
// collaborators converting Values into Go types. It detects cycles with a
// visitation stack scoped to the current root-to-leaf path, not a
// graph-wide visited set: a value reachable by two different, non-cyclic
// paths (legitimate sharing) is visited twice without error, while a value
// that reappears on its own path is rejected with [CycleError]. See
// SPEC_FULL.md §4.
type ExtractContext struct {
	arena *Arena
	stack []Handle
}

// NewExtractContext returns a context for extracting values out of arena.
func NewExtractContext(arena *Arena) *ExtractContext {
	return &ExtractContext{arena: arena}
}

func (c *ExtractContext) push(h Handle) error {
	for _, s := range c.stack {
		if s == h {
			return &CycleError{Handle: h}
		}
	}
	c.stack = append(c.stack, h)
	return nil
}

func (c *ExtractContext) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

// ExtractNil validates that h resolves to a Nil value.
func ExtractNil(c *ExtractContext, h Handle) error {
	v, ok := c.arena.Get(h)
	if !ok {
		return &InvalidValueHandleError{Handle: h}
	}
	if _, ok := v.(NilValue); !ok {
		return &UnexpectedValueKindError{Expected: KindNil, Actual: v.Kind()}
	}
	return nil
}

// ExtractBool extracts a Go bool from a Bool value.
func ExtractBool(c *ExtractContext, h Handle) (bool, error) {
	v, ok := c.arena.Get(h)
	if !ok {
		return false, &InvalidValueHandleError{Handle: h}
	}
	b, ok := v.(BoolValue)
	if !ok {
		return false, &UnexpectedValueKindError{Expected: KindBool, Actual: v.Kind()}
	}
	return b.Value, nil
}

// ExtractFixnum extracts a Go int32 from a Fixnum value.
func ExtractFixnum(c *ExtractContext, h Handle) (int32, error) {
	v, ok := c.arena.Get(h)
	if !ok {
		return 0, &InvalidValueHandleError{Handle: h}
	}
	f, ok := v.(FixnumValue)
	if !ok {
		return 0, &UnexpectedValueKindError{Expected: KindFixnum, Actual: v.Kind()}
	}
	return f.Value, nil
}

// ExtractSymbol extracts a Go string from a Symbol value.
func ExtractSymbol(c *ExtractContext, h Handle) (string, error) {
	v, ok := c.arena.Get(h)
	if !ok {
		return "", &InvalidValueHandleError{Handle: h}
	}
	s, ok := v.(SymbolValue)
	if !ok {
		return "", &UnexpectedValueKindError{Expected: KindSymbol, Actual: v.Kind()}
	}
	return string(s.Bytes), nil
}

// ExtractString extracts a Go string from a String value's bytes, ignoring
// any instance variables it carries. Use [ExtractStringWithIVars] to
// additionally validate/consume them.
func ExtractString(c *ExtractContext, h Handle) (string, error) {
	if err := c.push(h); err != nil {
		return "", err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return "", &InvalidValueHandleError{Handle: h}
	}
	s, ok := v.(StringValue)
	if !ok {
		return "", &UnexpectedValueKindError{Expected: KindString, Actual: v.Kind()}
	}
	return string(s.Bytes), nil
}

// ExtractStringWithIVars extracts a String value's bytes and passes its
// instance variables to fn for validation/consumption via the returned
// [IVarReader]; fn's return value is propagated, and any instance variable
// left unconsumed by fn is reported as [UnknownInstanceVariableError].
func ExtractStringWithIVars[T any](c *ExtractContext, h Handle, fn func(string, *IVarReader) (T, error)) (T, error) {
	var zero T
	if err := c.push(h); err != nil {
		return zero, err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return zero, &InvalidValueHandleError{Handle: h}
	}
	s, ok := v.(StringValue)
	if !ok {
		return zero, &UnexpectedValueKindError{Expected: KindString, Actual: v.Kind()}
	}

	reader, err := newIVarReader(c, s.IVars)
	if err != nil {
		return zero, err
	}
	result, err := fn(string(s.Bytes), reader)
	if err != nil {
		return zero, err
	}
	if err := reader.Done(); err != nil {
		return zero, err
	}
	return result, nil
}

// ExtractObject validates that h resolves to an Object value of the given
// class name, then passes an [IVarReader] over its instance variables to
// fn. Any instance variable left unconsumed by fn is reported as
// [UnknownInstanceVariableError].
func ExtractObject[T any](c *ExtractContext, h Handle, className string, fn func(*IVarReader) (T, error)) (T, error) {
	var zero T
	if err := c.push(h); err != nil {
		return zero, err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return zero, &InvalidValueHandleError{Handle: h}
	}
	obj, ok := v.(ObjectValue)
	if !ok {
		return zero, &UnexpectedValueKindError{Expected: KindObject, Actual: v.Kind()}
	}

	name, err := ExtractSymbol(c, obj.ClassName.Handle())
	if err != nil {
		return zero, err
	}
	if name != className {
		return zero, &UnexpectedObjectNameError{Expected: className, Actual: []byte(name)}
	}

	reader, err := newIVarReader(c, obj.IVars)
	if err != nil {
		return zero, err
	}
	result, err := fn(reader)
	if err != nil {
		return zero, err
	}
	if err := reader.Done(); err != nil {
		return zero, err
	}
	return result, nil
}

// ExtractUserDefined validates that h resolves to a UserDefined value of
// the given class name, then passes its opaque payload and an
// [IVarReader] over any instance variables to fn.
func ExtractUserDefined[T any](c *ExtractContext, h Handle, className string, fn func(payload []byte, r *IVarReader) (T, error)) (T, error) {
	var zero T
	if err := c.push(h); err != nil {
		return zero, err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return zero, &InvalidValueHandleError{Handle: h}
	}
	ud, ok := v.(UserDefinedValue)
	if !ok {
		return zero, &UnexpectedValueKindError{Expected: KindUserDefined, Actual: v.Kind()}
	}

	name, err := ExtractSymbol(c, ud.ClassName.Handle())
	if err != nil {
		return zero, err
	}
	if name != className {
		return zero, &UnexpectedUserDefinedNameError{Expected: className, Actual: []byte(name)}
	}

	reader, err := newIVarReader(c, ud.IVars)
	if err != nil {
		return zero, err
	}
	result, err := fn(ud.Payload, reader)
	if err != nil {
		return zero, err
	}
	if err := reader.Done(); err != nil {
		return zero, err
	}
	return result, nil
}

// Optional extracts h as *T, using extract for the non-nil case. A Nil
// value yields a nil *T, matching the original crate's `FromValue for
// Option<T>` semantics.
func Optional[T any](c *ExtractContext, h Handle, extract func(*ExtractContext, Handle) (T, error)) (*T, error) {
	v, ok := c.arena.Get(h)
	if !ok {
		return nil, &InvalidValueHandleError{Handle: h}
	}
	if _, isNil := v.(NilValue); isNil {
		return nil, nil
	}
	val, err := extract(c, h)
	if err != nil {
		return nil, err
	}
	return &val, nil
}

// Slice extracts h as an Array value, applying extract to each element in
// order.
func Slice[T any](c *ExtractContext, h Handle, extract func(*ExtractContext, Handle) (T, error)) ([]T, error) {
	if err := c.push(h); err != nil {
		return nil, err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return nil, &InvalidValueHandleError{Handle: h}
	}
	arr, ok := v.(ArrayValue)
	if !ok {
		return nil, &UnexpectedValueKindError{Expected: KindArray, Actual: v.Kind()}
	}

	out := make([]T, len(arr.Elements))
	for i, eh := range arr.Elements {
		val, err := extract(c, eh)
		if err != nil {
			return nil, err
		}
		out[i] = val
	}
	return out, nil
}

// Map extracts h as a Hash value, applying extractKey/extractValue to each
// pair. A repeated extracted key is reported as [DuplicateHashKeyError].
func Map[K comparable, V any](c *ExtractContext, h Handle, extractKey func(*ExtractContext, Handle) (K, error), extractValue func(*ExtractContext, Handle) (V, error)) (map[K]V, error) {
	if err := c.push(h); err != nil {
		return nil, err
	}
	defer c.pop()

	v, ok := c.arena.Get(h)
	if !ok {
		return nil, &InvalidValueHandleError{Handle: h}
	}
	hv, ok := v.(HashValue)
	if !ok {
		return nil, &UnexpectedValueKindError{Expected: KindHash, Actual: v.Kind()}
	}

	out := make(map[K]V, len(hv.Pairs))
	for _, p := range hv.Pairs {
		key, err := extractKey(c, p.Key)
		if err != nil {
			return nil, err
		}
		if _, dup := out[key]; dup {
			return nil, &DuplicateHashKeyError{Key: key}
		}
		val, err := extractValue(c, p.Value)
		if err != nil {
			return nil, err
		}
		out[key] = val
	}
	return out, nil
}

// IVarReader consumes instance variables by name, tracking which names have
// been read so that any left over can be reported as
// [UnknownInstanceVariableError] once the caller is done.
type IVarReader struct {
	byName map[string]Handle
	seen   map[string]bool
}

func newIVarReader(c *ExtractContext, ivars []IVar) (*IVarReader, error) {
	byName := make(map[string]Handle, len(ivars))
	for _, iv := range ivars {
		name, err := ExtractSymbol(c, iv.Name.Handle())
		if err != nil {
			return nil, err
		}
		if _, dup := byName[name]; dup {
			return nil, &DuplicateInstanceVariableError{Name: []byte(name)}
		}
		byName[name] = iv.Value
	}
	return &IVarReader{byName: byName, seen: make(map[string]bool, len(ivars))}, nil
}

// Required returns the handle of the named instance variable, or
// [MissingInstanceVariableError] if it is absent.
func (r *IVarReader) Required(name string) (Handle, error) {
	h, ok := r.byName[name]
	if !ok {
		return Handle{}, &MissingInstanceVariableError{Name: name}
	}
	r.seen[name] = true
	return h, nil
}

// Optional returns the handle of the named instance variable and whether it
// was present.
func (r *IVarReader) Optional(name string) (Handle, bool) {
	h, ok := r.byName[name]
	if ok {
		r.seen[name] = true
	}
	return h, ok
}

// Done reports [UnknownInstanceVariableError] for an instance variable that
// was never consumed via Required or Optional. When several were left
// unconsumed, which one is named is not defined.
func (r *IVarReader) Done() error {
	for name := range r.byName {
		if !r.seen[name] {
			return &UnknownInstanceVariableError{Name: []byte(name)}
		}
	}
	return nil
}
