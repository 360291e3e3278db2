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
	"fmt"
	"strconv"
)

// quoteBytes renders b safely for inclusion in an error message, the same
// way %q would for a string, without requiring the bytes to be valid UTF-8.
func quoteBytes(b []byte) string {
	return strconv.Quote(string(b))
}

// UnsupportedVersionError is returned by [Load] when the two-byte Marshal
// version header has a major version other than 4 or a minor version
// above 8.
type UnsupportedVersionError struct {
	Major, Minor byte
}

func (e *UnsupportedVersionError) Error() string {
	return fmt.Sprintf("rbmarshal: unsupported Marshal version %d.%d", e.Major, e.Minor)
}

// UnexpectedEOFError is returned when the input ends before a value the
// stream claims to contain has been fully read.
type UnexpectedEOFError struct {
	// Context names what was being read, e.g. "Fixnum size byte".
	Context string
}

func (e *UnexpectedEOFError) Error() string {
	return fmt.Sprintf("rbmarshal: unexpected end of input while reading %s", e.Context)
}

// InvalidTagError is returned when a byte that should begin a value's wire
// tag does not match any tag this package recognizes.
type InvalidTagError struct {
	Tag byte
}

func (e *InvalidTagError) Error() string {
	return fmt.Sprintf("rbmarshal: invalid or unsupported tag byte %q", e.Tag)
}

// InvalidValueKindError is returned when a recognized-but-unsupported
// Marshal tag is encountered (Float, Bignum, Regexp, Class, Module, Data,
// Struct, extended objects, and so on; see doc.go's "Support status").
type InvalidValueKindError struct {
	Tag byte
}

func (e *InvalidValueKindError) Error() string {
	return fmt.Sprintf("rbmarshal: unsupported value kind for tag %q", e.Tag)
}

// NotAnObjectError is returned when the 'I' instance-variable wrapper is
// attached to an inner value other than a String or UserDefined, the only
// two kinds this package's ivar blocks may attach to.
type NotAnObjectError struct {
	Kind Kind
}

func (e *NotAnObjectError) Error() string {
	return fmt.Sprintf("rbmarshal: instance-variable wrapper attached to a %s, which does not accept instance variables", e.Kind)
}

// InvalidFixnumSizeError is returned when a Fixnum's size byte's absolute
// value exceeds 4. Reading the size byte as a signed 8-bit value makes this
// unreachable via the documented codec (§4.3); no code path in this
// package currently returns it.
type InvalidFixnumSizeError struct {
	Size int8
}

func (e *InvalidFixnumSizeError) Error() string {
	return fmt.Sprintf("rbmarshal: invalid Fixnum size byte %d", e.Size)
}

// FixnumInvalidUSizeError is returned when a decoded Fixnum used as a
// length prefix (symbol/string/payload bytes, array/hash/ivar counts) is
// negative and therefore cannot become a length. A negative link table
// index is reported as [InvalidSymbolLinkError] or [InvalidObjectLinkError].
type FixnumInvalidUSizeError struct {
	Value int32
	// Context names what the length was for, e.g. "array length".
	Context string
}

func (e *FixnumInvalidUSizeError) Error() string {
	return fmt.Sprintf("rbmarshal: %s %d cannot be a length", e.Context, e.Value)
}

// USizeInvalidFixnumError is returned when a length being dumped (a byte
// string's length, an Array/Hash/ivar count) does not fit in the Fixnum
// codec's signed 32-bit range.
type USizeInvalidFixnumError struct {
	Value   int
	Context string
}

func (e *USizeInvalidFixnumError) Error() string {
	return fmt.Sprintf("rbmarshal: %s %d does not fit in a Fixnum", e.Context, e.Value)
}

// InvalidFixnumEncodingError is returned when a Fixnum is encoded in a
// non-canonical form, e.g. a long-form encoding of a value that the
// short-form single-byte encoding could represent.
type InvalidFixnumEncodingError struct {
	Reason string
}

func (e *InvalidFixnumEncodingError) Error() string {
	return fmt.Sprintf("rbmarshal: non-canonical Fixnum encoding: %s", e.Reason)
}

// InvalidSymbolLinkError is returned when a symbol back-reference (';' tag)
// indexes past the end of the symbol link table built up so far.
type InvalidSymbolLinkError struct {
	Index int
}

func (e *InvalidSymbolLinkError) Error() string {
	return fmt.Sprintf("rbmarshal: symbol link index %d out of range", e.Index)
}

// InvalidObjectLinkError is returned when an object back-reference ('@'
// tag) indexes past the end of the object link table built up so far.
type InvalidObjectLinkError struct {
	Index int
}

func (e *InvalidObjectLinkError) Error() string {
	return fmt.Sprintf("rbmarshal: object link index %d out of range", e.Index)
}

// MaxDepthExceededError is returned by [Load] when nesting of
// Array/Hash/Object/UserDefined/ivar values exceeds the configured
// [WithMaxDepth].
type MaxDepthExceededError struct {
	MaxDepth int
}

func (e *MaxDepthExceededError) Error() string {
	return fmt.Sprintf("rbmarshal: nesting depth exceeds configured maximum of %d", e.MaxDepth)
}

// InvalidValueHandleError is returned whenever a [Handle] is presented to an
// [Arena] it was not minted by, or whose slot has since been vacated.
type InvalidValueHandleError struct {
	Handle Handle
}

func (e *InvalidValueHandleError) Error() string {
	return "rbmarshal: invalid or stale value handle"
}

// UnexpectedValueKindError is returned when a handle resolves to a value of
// a different [Kind] than the caller required.
type UnexpectedValueKindError struct {
	Expected, Actual Kind
}

func (e *UnexpectedValueKindError) Error() string {
	return fmt.Sprintf("rbmarshal: expected value of kind %s, got %s", e.Expected, e.Actual)
}

// UnexpectedObjectNameError is returned during extraction when an
// [ObjectValue]'s class name does not match the name the extractor expects.
type UnexpectedObjectNameError struct {
	Expected string
	Actual   []byte
}

func (e *UnexpectedObjectNameError) Error() string {
	return fmt.Sprintf("rbmarshal: expected object of class %q, got %s", e.Expected, quoteBytes(e.Actual))
}

// UnexpectedUserDefinedNameError is returned during extraction when a
// [UserDefinedValue]'s class name does not match the name the extractor
// expects.
type UnexpectedUserDefinedNameError struct {
	Expected string
	Actual   []byte
}

func (e *UnexpectedUserDefinedNameError) Error() string {
	return fmt.Sprintf("rbmarshal: expected user-defined value of class %q, got %s", e.Expected, quoteBytes(e.Actual))
}

// DuplicateInstanceVariableError is returned during extraction when one
// ivar list carries the same instance variable name more than once.
type DuplicateInstanceVariableError struct {
	Name []byte
}

func (e *DuplicateInstanceVariableError) Error() string {
	return fmt.Sprintf("rbmarshal: duplicate instance variable %s", quoteBytes(e.Name))
}

// UnknownInstanceVariableError is returned during extraction when an ivar
// list carries a name the extractor never consumed (see [IVarReader.Done]).
type UnknownInstanceVariableError struct {
	Name []byte
}

func (e *UnknownInstanceVariableError) Error() string {
	return fmt.Sprintf("rbmarshal: unknown instance variable %s", quoteBytes(e.Name))
}

// MissingInstanceVariableError is returned during extraction when a
// required instance variable is absent from an ivar list.
type MissingInstanceVariableError struct {
	Name string
}

func (e *MissingInstanceVariableError) Error() string {
	return fmt.Sprintf("rbmarshal: missing required instance variable %q", e.Name)
}

// DuplicateHashKeyError is returned during extraction of a [HashValue] into
// a Go map when two keys extract to the same Go value.
type DuplicateHashKeyError struct {
	Key any
}

func (e *DuplicateHashKeyError) Error() string {
	return fmt.Sprintf("rbmarshal: duplicate hash key %v", e.Key)
}

// CycleError is returned during extraction when the value graph being
// walked revisits a handle already on the current root-to-leaf path. See
// [ExtractContext] and SPEC_FULL.md §4 on why this is stack-scoped, not
// arena-global.
type CycleError struct {
	Handle Handle
}

func (e *CycleError) Error() string {
	return "rbmarshal: cycle detected during extraction"
}

// OtherError wraps an arbitrary error raised by a collaborator's own
// extractor function (e.g. a generated FromValue implementation validating
// a domain-specific constraint), so it can travel through this package's
// extraction helpers alongside the built-in error kinds without being
// mistaken for one of them.
type OtherError struct {
	Err error
}

func (e *OtherError) Error() string {
	return fmt.Sprintf("rbmarshal: %s", e.Err)
}

func (e *OtherError) Unwrap() error {
	return e.Err
}

// Other wraps err as an [OtherError], for collaborator extractor functions
// that need to fail for a reason outside this package's own error taxonomy.
func Other(err error) error {
	return &OtherError{Err: err}
}
