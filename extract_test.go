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

package rbmarshal_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/go-marshal/rbmarshal"
)

func TestExtractSlice(t *testing.T) {
	a := rbmarshal.New()
	e1 := a.CreateFixnum(1)
	e2 := a.CreateFixnum(2)
	arr := a.CreateArray([]rbmarshal.Handle{e1.Handle(), e2.Handle()})

	c := rbmarshal.NewExtractContext(a)
	got, err := rbmarshal.Slice(c, arr.Handle(), rbmarshal.ExtractFixnum)
	require.NoError(t, err)
	if diff := cmp.Diff([]int32{1, 2}, got); diff != "" {
		t.Fatalf("extracted slice mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractOptionalNil(t *testing.T) {
	a := rbmarshal.New()
	n := a.CreateNil()

	c := rbmarshal.NewExtractContext(a)
	got, err := rbmarshal.Optional(c, n.Handle(), rbmarshal.ExtractFixnum)
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestExtractOptionalPresent(t *testing.T) {
	a := rbmarshal.New()
	f := a.CreateFixnum(42)

	c := rbmarshal.NewExtractContext(a)
	got, err := rbmarshal.Optional(c, f.Handle(), rbmarshal.ExtractFixnum)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.EqualValues(t, 42, *got)
}

func TestExtractMapDuplicateKey(t *testing.T) {
	a := rbmarshal.New()
	k1 := a.CreateFixnum(1)
	k2 := a.CreateFixnum(1)
	v1 := a.CreateFixnum(10)
	v2 := a.CreateFixnum(20)
	hash := a.CreateHash([]rbmarshal.HashPair{
		{Key: k1.Handle(), Value: v1.Handle()},
		{Key: k2.Handle(), Value: v2.Handle()},
	}, rbmarshal.Handle{})

	c := rbmarshal.NewExtractContext(a)
	_, err := rbmarshal.Map(c, hash.Handle(), rbmarshal.ExtractFixnum, rbmarshal.ExtractFixnum)
	require.Error(t, err)

	var derr *rbmarshal.DuplicateHashKeyError
	require.ErrorAs(t, err, &derr)
}

func TestExtractDetectsCycle(t *testing.T) {
	// Bytes for a self-referential array: a = []; a << a.
	data := []byte{4, 8, '[', 6, '@', 0}

	a, err := rbmarshal.Load(bytes.NewReader(data))
	require.NoError(t, err)

	root := a.Root()

	c := rbmarshal.NewExtractContext(a)
	var walk func(ctx *rbmarshal.ExtractContext, h rbmarshal.Handle) (int, error)
	walk = func(ctx *rbmarshal.ExtractContext, h rbmarshal.Handle) (int, error) {
		elems, err := rbmarshal.Slice(ctx, h, walk)
		if err != nil {
			return 0, err
		}
		return len(elems), err
	}

	_, err = walk(c, root)
	require.Error(t, err)

	var cerr *rbmarshal.CycleError
	require.ErrorAs(t, err, &cerr)
}

func TestExtractObjectUnknownIVar(t *testing.T) {
	a := rbmarshal.New()
	cls := a.CreateSymbol([]byte("Point"))
	ivarName := a.CreateSymbol([]byte("@x"))
	ivarVal := a.CreateFixnum(1)
	obj := a.CreateObject(cls, []rbmarshal.IVar{{Name: ivarName, Value: ivarVal.Handle()}})

	c := rbmarshal.NewExtractContext(a)
	_, err := rbmarshal.ExtractObject(c, obj.Handle(), "Point", func(r *rbmarshal.IVarReader) (int32, error) {
		// Deliberately never consume @x.
		return 0, nil
	})
	require.Error(t, err)

	var uerr *rbmarshal.UnknownInstanceVariableError
	require.ErrorAs(t, err, &uerr)
}

func TestExtractObjectOtherError(t *testing.T) {
	a := rbmarshal.New()
	cls := a.CreateSymbol([]byte("Point"))
	ivarName := a.CreateSymbol([]byte("@x"))
	ivarVal := a.CreateFixnum(-1)
	obj := a.CreateObject(cls, []rbmarshal.IVar{{Name: ivarName, Value: ivarVal.Handle()}})

	errNegative := errors.New("@x must be non-negative")

	c := rbmarshal.NewExtractContext(a)
	_, err := rbmarshal.ExtractObject(c, obj.Handle(), "Point", func(r *rbmarshal.IVarReader) (int32, error) {
		h, err := r.Required("@x")
		if err != nil {
			return 0, err
		}
		x, err := rbmarshal.ExtractFixnum(c, h)
		if err != nil {
			return 0, err
		}
		if x < 0 {
			return 0, rbmarshal.Other(errNegative)
		}
		return x, nil
	})
	require.Error(t, err)

	var oerr *rbmarshal.OtherError
	require.ErrorAs(t, err, &oerr)
	require.ErrorIs(t, err, errNegative)
}

func TestExtractObjectWrongName(t *testing.T) {
	a := rbmarshal.New()
	cls := a.CreateSymbol([]byte("Point"))
	obj := a.CreateObject(cls, nil)

	c := rbmarshal.NewExtractContext(a)
	_, err := rbmarshal.ExtractObject(c, obj.Handle(), "Other", func(r *rbmarshal.IVarReader) (int32, error) {
		return 0, nil
	})
	require.Error(t, err)

	var nerr *rbmarshal.UnexpectedObjectNameError
	require.ErrorAs(t, err, &nerr)
}
