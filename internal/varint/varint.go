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

// Package varint implements the Marshal format's variable-length signed
// integer codec, used both for Fixnum values and as the length prefix of
// every sized value (symbols, strings, arrays, hashes, ivar lists, ...).
package varint

import (
	"errors"
	"io"
)

// ErrInvalidSize is returned when a size byte's magnitude exceeds 4. The
// size byte is read as a signed 8-bit value, so this is unreachable through
// Decode itself; it exists for callers that validate a size byte ahead of
// calling Decode.
var ErrInvalidSize = errors.New("varint: size byte magnitude exceeds 4")

// ErrNonCanonical is returned by Decode when a value is encoded in a form
// other than the shortest one that could represent it: a long form whose
// value a single-byte short form or a long form with fewer payload bytes
// could have carried, or a short-form
// byte that computes to 0, which always has its own dedicated single-byte
// encoding. Accepting such input would break the Load/Dump round-trip
// guarantee, since Dump always emits the canonical (shortest) form.
var ErrNonCanonical = errors.New("varint: non-canonical encoding")

// Decode reads one Marshal-encoded variable-length integer from r.
func Decode(r io.ByteReader) (int32, error) {
	c, err := r.ReadByte()
	if err != nil {
		return 0, err
	}
	sc := int8(c)

	switch {
	case sc == 0:
		return 0, nil

	case sc > 0 && sc < 5:
		n := int(sc)
		var x int64
		for i := 0; i < n; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return 0, io.ErrUnexpectedEOF
			}
			x |= int64(b) << (8 * uint(i))
		}
		if x <= 122 || (n > 1 && x < int64(1)<<(8*uint(n-1))) {
			return 0, ErrNonCanonical
		}
		return int32(x), nil

	case sc > 0:
		v := int32(sc) - 5
		if v == 0 {
			return 0, ErrNonCanonical
		}
		return v, nil

	case sc < 0 && sc > -5:
		n := int(-sc)
		x := int64(-1)
		for i := 0; i < n; i++ {
			b, err := r.ReadByte()
			if err != nil {
				return 0, io.ErrUnexpectedEOF
			}
			shift := 8 * uint(i)
			x &^= int64(0xff) << shift
			x |= int64(b) << shift
		}
		if x >= -123 || (n > 1 && x >= -(int64(1)<<(8*uint(n-1)))) {
			return 0, ErrNonCanonical
		}
		return int32(x), nil

	default: // sc <= -5
		v := int32(sc) + 5
		if v == 0 {
			return 0, ErrNonCanonical
		}
		return v, nil
	}
}

// Encode writes v to w in the Marshal format's canonical (shortest)
// variable-length encoding.
func Encode(w io.Writer, v int32) error {
	x := int64(v)

	switch {
	case x == 0:
		_, err := w.Write([]byte{0})
		return err

	case x > 0 && x < 123:
		_, err := w.Write([]byte{byte(x + 5)})
		return err

	case x < 0 && x > -124:
		_, err := w.Write([]byte{byte(int8(x - 5))})
		return err

	case x > 0:
		var buf [4]byte
		n := 0
		for x != 0 {
			buf[n] = byte(x & 0xff)
			x >>= 8
			n++
		}
		out := make([]byte, 0, n+1)
		out = append(out, byte(n))
		out = append(out, buf[:n]...)
		_, err := w.Write(out)
		return err

	default: // x < 0
		var buf [4]byte
		n := 0
		for x != -1 {
			buf[n] = byte(x & 0xff)
			x >>= 8
			n++
		}
		out := make([]byte, 0, n+1)
		out = append(out, byte(int8(-n)))
		out = append(out, buf[:n]...)
		_, err := w.Write(out)
		return err
	}
}
