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

// Kind discriminates the nine value variants the arena can hold.
type Kind uint8

const (
	KindNil Kind = iota
	KindBool
	KindFixnum
	KindSymbol
	KindArray
	KindHash
	KindObject
	KindString
	KindUserDefined
)

// String implements [fmt.Stringer].
func (k Kind) String() string {
	switch k {
	case KindNil:
		return "Nil"
	case KindBool:
		return "Bool"
	case KindFixnum:
		return "Fixnum"
	case KindSymbol:
		return "Symbol"
	case KindArray:
		return "Array"
	case KindHash:
		return "Hash"
	case KindObject:
		return "Object"
	case KindString:
		return "String"
	case KindUserDefined:
		return "UserDefined"
	default:
		return "Unknown"
	}
}
