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
	"bufio"
	"bytes"
	"errors"
	"io"

	"github.com/go-marshal/rbmarshal/internal/debugx"
	"github.com/go-marshal/rbmarshal/internal/varint"
)

// Load decodes a Marshal version 4.8 byte stream from r into a freshly
// created [Arena], setting its root to the decoded value, and returns that
// Arena.
func Load(r io.Reader, opts ...LoadOption) (*Arena, error) {
	cfg := newLoadConfig(opts)

	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	major, err := br.ReadByte()
	if err != nil {
		return nil, &UnexpectedEOFError{Context: "version header"}
	}
	minor, err := br.ReadByte()
	if err != nil {
		return nil, &UnexpectedEOFError{Context: "version header"}
	}
	if major != supportedVersionMajor || minor > supportedVersionMinor {
		return nil, &UnsupportedVersionError{Major: major, Minor: minor}
	}

	l := &loader{r: br, arena: New(), cfg: cfg}
	root, err := l.loadValue(0)
	if err != nil {
		return nil, err
	}
	if _, err := l.arena.ReplaceRoot(root); err != nil {
		return nil, err
	}
	return l.arena, nil
}

type loader struct {
	r     *bufio.Reader
	arena *Arena
	cfg   loadConfig

	symbolLinks []SymbolHandle
	objectLinks []Handle
}

func (l *loader) checkDepth(depth int) error {
	if depth > l.cfg.maxDepth {
		return &MaxDepthExceededError{MaxDepth: l.cfg.maxDepth}
	}
	return nil
}

func (l *loader) readFixnum(context string) (int32, error) {
	v, err := varint.Decode(l.r)
	if err != nil {
		if errors.Is(err, varint.ErrNonCanonical) {
			return 0, &InvalidFixnumEncodingError{Reason: "encoding of a value representable in a shorter form"}
		}
		return 0, &UnexpectedEOFError{Context: context}
	}
	return v, nil
}

// toLength validates that a decoded Fixnum n is usable as a length (byte
// count, element count, ivar count): the wire format never carries a
// negative one.
func toLength(n int32, context string) (int, error) {
	if n < 0 {
		return 0, &FixnumInvalidUSizeError{Value: n, Context: context}
	}
	return int(n), nil
}

func (l *loader) readBytes(n int, context string) ([]byte, error) {
	// Copy incrementally rather than pre-allocating a buffer of size n: a
	// length prefix is attacker-controlled input, and a bogus multi-gigabyte
	// count should fail on truncated input, not on an oversized allocation.
	var buf bytes.Buffer
	if _, err := io.CopyN(&buf, l.r, int64(n)); err != nil {
		return nil, &UnexpectedEOFError{Context: context}
	}
	return buf.Bytes(), nil
}

// loadValue reads one tagged value, recursing into children as needed, and
// returns the handle of the value it produced.
func (l *loader) loadValue(depth int) (Handle, error) {
	if err := l.checkDepth(depth); err != nil {
		return Handle{}, err
	}

	tag, err := l.r.ReadByte()
	if err != nil {
		return Handle{}, &UnexpectedEOFError{Context: "value tag"}
	}

	debugx.Logf("loader: tag=%q depth=%d", tag, depth)

	switch tag {
	case tagNil:
		return l.arena.CreateNil().Handle(), nil

	case tagTrue:
		return l.arena.CreateBool(true).Handle(), nil

	case tagFalse:
		return l.arena.CreateBool(false).Handle(), nil

	case tagFixnum:
		v, err := l.readFixnum("Fixnum")
		if err != nil {
			return Handle{}, err
		}
		return l.arena.CreateFixnum(v).Handle(), nil

	case tagSymbol:
		fn, err := l.readFixnum("symbol length")
		if err != nil {
			return Handle{}, err
		}
		n, err := toLength(fn, "symbol length")
		if err != nil {
			return Handle{}, err
		}
		b, err := l.readBytes(n, "symbol bytes")
		if err != nil {
			return Handle{}, err
		}
		sym := l.arena.CreateSymbol(b)
		// A repeated definition of the same bytes gets its own handle, so
		// Dump re-emits it as a definition rather than as a symbol link.
		for _, prev := range l.symbolLinks {
			if prev == sym {
				sym = l.arena.CreateSymbolUninterned(b)
				break
			}
		}
		l.symbolLinks = append(l.symbolLinks, sym)
		return sym.Handle(), nil

	case tagSymbolLink:
		idx, err := l.readFixnum("symbol link index")
		if err != nil {
			return Handle{}, err
		}
		if idx < 0 || int(idx) >= len(l.symbolLinks) {
			return Handle{}, &InvalidSymbolLinkError{Index: int(idx)}
		}
		return l.symbolLinks[idx].Handle(), nil

	case tagObjectLink:
		idx, err := l.readFixnum("object link index")
		if err != nil {
			return Handle{}, err
		}
		if idx < 0 || int(idx) >= len(l.objectLinks) {
			return Handle{}, &InvalidObjectLinkError{Index: int(idx)}
		}
		return l.objectLinks[idx], nil

	case tagArray:
		return l.loadArray(depth)

	case tagHash:
		return l.loadHash(depth, false)

	case tagHashDefault:
		return l.loadHash(depth, true)

	case tagObject:
		return l.loadObject(depth)

	case tagString:
		return l.loadString(depth)

	case tagUserDefined:
		return l.loadUserDefined(depth)

	case tagIVar:
		return l.loadIVarWrapped(depth)

	case tagFloat, tagBignum, tagRegexp, tagClass, tagModule, tagClassModule,
		tagData, tagStruct, tagExtended, tagUserClass, tagUserMarshal:
		return Handle{}, &InvalidValueKindError{Tag: tag}

	default:
		return Handle{}, &InvalidTagError{Tag: tag}
	}
}

func (l *loader) loadArray(depth int) (Handle, error) {
	h := l.arena.reserve()
	l.objectLinks = append(l.objectLinks, h)

	fn, err := l.readFixnum("array length")
	if err != nil {
		return Handle{}, err
	}
	n, err := toLength(fn, "array length")
	if err != nil {
		return Handle{}, err
	}

	elems := make([]Handle, n)
	for i := range elems {
		elems[i], err = l.loadValue(depth + 1)
		if err != nil {
			return Handle{}, err
		}
	}

	if err := l.arena.patch(h, ArrayValue{Elements: elems}); err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (l *loader) loadHash(depth int, hasDefault bool) (Handle, error) {
	h := l.arena.reserve()
	l.objectLinks = append(l.objectLinks, h)

	fn, err := l.readFixnum("hash pair count")
	if err != nil {
		return Handle{}, err
	}
	n, err := toLength(fn, "hash pair count")
	if err != nil {
		return Handle{}, err
	}

	pairs := make([]HashPair, n)
	for i := range pairs {
		key, err := l.loadValue(depth + 1)
		if err != nil {
			return Handle{}, err
		}
		val, err := l.loadValue(depth + 1)
		if err != nil {
			return Handle{}, err
		}
		pairs[i] = HashPair{Key: key, Value: val}
	}

	var def Handle
	if hasDefault {
		def, err = l.loadValue(depth + 1)
		if err != nil {
			return Handle{}, err
		}
	}

	if err := l.arena.patch(h, HashValue{Pairs: pairs, Default: def}); err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (l *loader) loadObject(depth int) (Handle, error) {
	h := l.arena.reserve()
	l.objectLinks = append(l.objectLinks, h)

	classHandle, err := l.loadValue(depth + 1)
	if err != nil {
		return Handle{}, err
	}
	className, err := AsTyped[symbolMarker](l.arena, classHandle)
	if err != nil {
		return Handle{}, err
	}

	ivars, err := l.loadIVarPairs(depth)
	if err != nil {
		return Handle{}, err
	}

	if err := l.arena.patch(h, ObjectValue{ClassName: className, IVars: ivars}); err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (l *loader) loadString(depth int) (Handle, error) {
	h := l.arena.reserve()
	l.objectLinks = append(l.objectLinks, h)

	fn, err := l.readFixnum("string length")
	if err != nil {
		return Handle{}, err
	}
	n, err := toLength(fn, "string length")
	if err != nil {
		return Handle{}, err
	}
	b, err := l.readBytes(n, "string bytes")
	if err != nil {
		return Handle{}, err
	}

	if err := l.arena.patch(h, StringValue{Bytes: b}); err != nil {
		return Handle{}, err
	}
	return h, nil
}

func (l *loader) loadUserDefined(depth int) (Handle, error) {
	h := l.arena.reserve()
	l.objectLinks = append(l.objectLinks, h)

	classHandle, err := l.loadValue(depth + 1)
	if err != nil {
		return Handle{}, err
	}
	className, err := AsTyped[symbolMarker](l.arena, classHandle)
	if err != nil {
		return Handle{}, err
	}

	fn, err := l.readFixnum("user-defined payload length")
	if err != nil {
		return Handle{}, err
	}
	n, err := toLength(fn, "user-defined payload length")
	if err != nil {
		return Handle{}, err
	}
	payload, err := l.readBytes(n, "user-defined payload")
	if err != nil {
		return Handle{}, err
	}

	if err := l.arena.patch(h, UserDefinedValue{ClassName: className, Payload: payload}); err != nil {
		return Handle{}, err
	}
	return h, nil
}

// loadIVarPairs reads an ivar count followed by that many (symbol, value)
// pairs, used both for Object's inline ivars and for the 'I' wrapper's
// trailing ivar list.
func (l *loader) loadIVarPairs(depth int) ([]IVar, error) {
	fn, err := l.readFixnum("instance variable count")
	if err != nil {
		return nil, err
	}
	n, err := toLength(fn, "instance variable count")
	if err != nil {
		return nil, err
	}

	ivars := make([]IVar, n)
	for i := range ivars {
		nameHandle, err := l.loadValue(depth + 1)
		if err != nil {
			return nil, err
		}
		name, err := AsTyped[symbolMarker](l.arena, nameHandle)
		if err != nil {
			return nil, err
		}
		val, err := l.loadValue(depth + 1)
		if err != nil {
			return nil, err
		}
		ivars[i] = IVar{Name: name, Value: val}
	}
	return ivars, nil
}

// loadIVarWrapped handles the 'I' tag: a base value (String or UserDefined
// in this package's supported subset) followed by its instance variables.
// The base value is fully parsed and linked first; its ivars are attached
// by patching the same handle a second time.
func (l *loader) loadIVarWrapped(depth int) (Handle, error) {
	inner, err := l.loadValue(depth + 1)
	if err != nil {
		return Handle{}, err
	}

	ivars, err := l.loadIVarPairs(depth)
	if err != nil {
		return Handle{}, err
	}

	v, ok := l.arena.Get(inner)
	if !ok {
		return Handle{}, &InvalidValueHandleError{Handle: inner}
	}

	switch vv := v.(type) {
	case StringValue:
		vv.IVars = ivars
		if err := l.arena.patch(inner, vv); err != nil {
			return Handle{}, err
		}
	case UserDefinedValue:
		vv.IVars = ivars
		if err := l.arena.patch(inner, vv); err != nil {
			return Handle{}, err
		}
	default:
		return Handle{}, &NotAnObjectError{Kind: v.Kind()}
	}

	return inner, nil
}
