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

// Value is one node in an [Arena]'s value graph. It is a closed, tagged
// union over the nine kinds the wire format supports; the concrete type
// behind the interface is always one of the Nil/Bool/.../UserDefined
// structs in this file.
type Value interface {
	// Kind reports which of the nine variants this value is.
	Kind() Kind

	// unexported method seals the interface to this package's own variants.
	sealedValue()
}

// HashPair is one key/value entry of a [HashValue], in wire order.
type HashPair struct {
	Key   Handle
	Value Handle
}

// IVar is one instance variable attached to an Object, String, or
// UserDefined value: a symbol name paired with its value.
type IVar struct {
	Name  SymbolHandle
	Value Handle
}

// NilValue is Ruby's nil.
type NilValue struct{}

func (NilValue) Kind() Kind { return KindNil }
func (NilValue) sealedValue() {}

// BoolValue is Ruby's true or false.
type BoolValue struct {
	Value bool
}

func (BoolValue) Kind() Kind { return KindBool }
func (BoolValue) sealedValue() {}

// FixnumValue is a Ruby Fixnum as carried by the wire format's
// variable-length Fixnum codec: a signed 32-bit integer.
type FixnumValue struct {
	Value int32
}

func (FixnumValue) Kind() Kind { return KindFixnum }
func (FixnumValue) sealedValue() {}

// SymbolValue is an interned byte string; see Arena.CreateSymbol. In one
// [Load], a symbol link (';') shares the Handle of the definition it refers
// to, while a repeated definition of the same bytes gets its own Handle.
type SymbolValue struct {
	Bytes []byte
}

func (SymbolValue) Kind() Kind { return KindSymbol }
func (SymbolValue) sealedValue() {}

// ArrayValue is an ordered list of element handles.
type ArrayValue struct {
	Elements []Handle
}

func (ArrayValue) Kind() Kind { return KindArray }
func (ArrayValue) sealedValue() {}

// HashValue is an ordered list of key/value pairs plus an optional default
// value (Ruby's Hash.new(default) / Hash#default=).
type HashValue struct {
	Pairs   []HashPair
	Default Handle // zero Handle if the hash has no default
}

func (HashValue) Kind() Kind { return KindHash }
func (HashValue) sealedValue() {}

// ObjectValue is a Ruby object: a class name plus instance variables.
type ObjectValue struct {
	ClassName SymbolHandle
	IVars     []IVar
}

func (ObjectValue) Kind() Kind { return KindObject }
func (ObjectValue) sealedValue() {}

// StringValue is a Ruby String: raw bytes plus any instance variables
// attached via the `I` wrapper tag (most commonly string encoding, which
// this package does not interpret; see doc.go).
type StringValue struct {
	Bytes []byte
	IVars []IVar
}

func (StringValue) Kind() Kind { return KindString }
func (StringValue) sealedValue() {}

// UserDefinedValue is a value serialized through Ruby's
// _dump/_load protocol ('u' tag): a class name plus an opaque
// payload this package does not interpret.
type UserDefinedValue struct {
	ClassName SymbolHandle
	Payload   []byte
	IVars     []IVar
}

func (UserDefinedValue) Kind() Kind { return KindUserDefined }
func (UserDefinedValue) sealedValue() {}
