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
	"io"
	"math"

	"github.com/go-marshal/rbmarshal/internal/debugx"
	"github.com/go-marshal/rbmarshal/internal/varint"
)

// Dump encodes arena's root value as a Marshal version 4.8 byte stream,
// writing it to w. Dump is the exact inverse of [Load]: dumping an arena
// produced by Load reproduces the original input byte-for-byte.
func Dump(arena *Arena, w io.Writer, opts ...DumpOption) error {
	_ = newDumpConfig(opts)

	root := arena.Root()

	if _, err := w.Write([]byte{supportedVersionMajor, supportedVersionMinor}); err != nil {
		return fmt.Errorf("rbmarshal: %w", err)
	}

	d := &dumper{
		w:           w,
		arena:       arena,
		symbolLinks: make(map[Handle]int),
		objectLinks: make(map[Handle]int),
	}
	return d.dumpValue(root)
}

type dumper struct {
	w     io.Writer
	arena *Arena

	symbolLinks map[Handle]int
	objectLinks map[Handle]int
}

func (d *dumper) writeTag(b byte) error {
	_, err := d.w.Write([]byte{b})
	if err != nil {
		return fmt.Errorf("rbmarshal: %w", err)
	}
	return nil
}

func (d *dumper) writeFixnum(v int32) error {
	if err := varint.Encode(d.w, v); err != nil {
		return fmt.Errorf("rbmarshal: %w", err)
	}
	return nil
}

// writeLength encodes n (a byte count, element count, or ivar count) as a
// Fixnum, failing with [USizeInvalidFixnumError] if n exceeds what the
// signed 32-bit Fixnum codec can represent.
func (d *dumper) writeLength(n int, context string) error {
	if n > math.MaxInt32 {
		return &USizeInvalidFixnumError{Value: n, Context: context}
	}
	return d.writeFixnum(int32(n))
}

func (d *dumper) writeBytes(b []byte) error {
	if _, err := d.w.Write(b); err != nil {
		return fmt.Errorf("rbmarshal: %w", err)
	}
	return nil
}

func (d *dumper) writeLink(tag byte, idx int) error {
	if err := d.writeTag(tag); err != nil {
		return err
	}
	return d.writeFixnum(int32(idx))
}

func (d *dumper) dumpValue(h Handle) error {
	v, ok := d.arena.Get(h)
	if !ok {
		return &InvalidValueHandleError{Handle: h}
	}

	debugx.Logf("dumper: kind=%s", v.Kind())

	switch vv := v.(type) {
	case NilValue:
		return d.writeTag(tagNil)

	case BoolValue:
		if vv.Value {
			return d.writeTag(tagTrue)
		}
		return d.writeTag(tagFalse)

	case FixnumValue:
		if err := d.writeTag(tagFixnum); err != nil {
			return err
		}
		return d.writeFixnum(vv.Value)

	case SymbolValue:
		if idx, ok := d.symbolLinks[h]; ok {
			return d.writeLink(tagSymbolLink, idx)
		}
		d.symbolLinks[h] = len(d.symbolLinks)
		if err := d.writeTag(tagSymbol); err != nil {
			return err
		}
		if err := d.writeLength(len(vv.Bytes), "symbol length"); err != nil {
			return err
		}
		return d.writeBytes(vv.Bytes)

	case ArrayValue:
		if idx, ok := d.objectLinks[h]; ok {
			return d.writeLink(tagObjectLink, idx)
		}
		d.objectLinks[h] = len(d.objectLinks)
		if err := d.writeTag(tagArray); err != nil {
			return err
		}
		if err := d.writeLength(len(vv.Elements), "array length"); err != nil {
			return err
		}
		for _, e := range vv.Elements {
			if err := d.dumpValue(e); err != nil {
				return err
			}
		}
		return nil

	case HashValue:
		if idx, ok := d.objectLinks[h]; ok {
			return d.writeLink(tagObjectLink, idx)
		}
		d.objectLinks[h] = len(d.objectLinks)
		hasDefault := !vv.Default.IsZero()
		if hasDefault {
			if err := d.writeTag(tagHashDefault); err != nil {
				return err
			}
		} else {
			if err := d.writeTag(tagHash); err != nil {
				return err
			}
		}
		if err := d.writeLength(len(vv.Pairs), "hash pair count"); err != nil {
			return err
		}
		for _, p := range vv.Pairs {
			if err := d.dumpValue(p.Key); err != nil {
				return err
			}
			if err := d.dumpValue(p.Value); err != nil {
				return err
			}
		}
		if hasDefault {
			return d.dumpValue(vv.Default)
		}
		return nil

	case ObjectValue:
		if idx, ok := d.objectLinks[h]; ok {
			return d.writeLink(tagObjectLink, idx)
		}
		d.objectLinks[h] = len(d.objectLinks)
		if err := d.writeTag(tagObject); err != nil {
			return err
		}
		if err := d.dumpValue(vv.ClassName.Handle()); err != nil {
			return err
		}
		return d.dumpIVars(vv.IVars)

	case StringValue:
		if idx, ok := d.objectLinks[h]; ok {
			return d.writeLink(tagObjectLink, idx)
		}
		d.objectLinks[h] = len(d.objectLinks)
		if len(vv.IVars) > 0 {
			if err := d.writeTag(tagIVar); err != nil {
				return err
			}
		}
		if err := d.writeTag(tagString); err != nil {
			return err
		}
		if err := d.writeLength(len(vv.Bytes), "string length"); err != nil {
			return err
		}
		if err := d.writeBytes(vv.Bytes); err != nil {
			return err
		}
		if len(vv.IVars) > 0 {
			return d.dumpIVars(vv.IVars)
		}
		return nil

	case UserDefinedValue:
		if idx, ok := d.objectLinks[h]; ok {
			return d.writeLink(tagObjectLink, idx)
		}
		d.objectLinks[h] = len(d.objectLinks)
		if len(vv.IVars) > 0 {
			if err := d.writeTag(tagIVar); err != nil {
				return err
			}
		}
		if err := d.writeTag(tagUserDefined); err != nil {
			return err
		}
		if err := d.dumpValue(vv.ClassName.Handle()); err != nil {
			return err
		}
		if err := d.writeLength(len(vv.Payload), "user-defined payload length"); err != nil {
			return err
		}
		if err := d.writeBytes(vv.Payload); err != nil {
			return err
		}
		if len(vv.IVars) > 0 {
			return d.dumpIVars(vv.IVars)
		}
		return nil

	default:
		// Unreachable: Value is a closed union over the nine cases above.
		return fmt.Errorf("rbmarshal: unhandled value kind %s", v.Kind())
	}
}

func (d *dumper) dumpIVars(ivars []IVar) error {
	if err := d.writeLength(len(ivars), "instance variable count"); err != nil {
		return err
	}
	for _, iv := range ivars {
		if err := d.dumpValue(iv.Name.Handle()); err != nil {
			return err
		}
		if err := d.dumpValue(iv.Value); err != nil {
			return err
		}
	}
	return nil
}
