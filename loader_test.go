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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-marshal/rbmarshal"
	"github.com/go-marshal/rbmarshal/internal/testdata"
)

func TestLoadDumpRoundTrip(t *testing.T) {
	cases, err := testdata.Cases()
	require.NoError(t, err)

	for _, tc := range cases {
		tc := tc
		t.Run(tc.Name, func(t *testing.T) {
			arena, err := rbmarshal.Load(bytes.NewReader(tc.Data))
			if tc.WantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, rbmarshal.Dump(arena, &buf))
			require.Equal(t, tc.Data, buf.Bytes(), "dump must reproduce the exact input bytes")
		})
	}
}

func TestLoadRejectsUnsupportedVersion(t *testing.T) {
	_, err := rbmarshal.Load(bytes.NewReader([]byte{4, 9, '0'}))
	require.Error(t, err)

	var verr *rbmarshal.UnsupportedVersionError
	require.ErrorAs(t, err, &verr)
	require.EqualValues(t, 4, verr.Major)
	require.EqualValues(t, 9, verr.Minor)
}

func TestLoadAcceptsOlderMinorVersion(t *testing.T) {
	// Marshal 4.0 is wire-compatible with 4.8 for the tag subset this
	// package supports; only a minor version greater than 8 is rejected.
	a, err := rbmarshal.Load(bytes.NewReader([]byte{4, 0, '0'}))
	require.NoError(t, err)

	v, ok := a.Get(a.Root())
	require.True(t, ok)
	require.Equal(t, rbmarshal.KindNil, v.Kind())
}

func TestLoadRejectsTruncatedInput(t *testing.T) {
	_, err := rbmarshal.Load(bytes.NewReader([]byte{4, 8, 'i'}))
	require.Error(t, err)

	var eerr *rbmarshal.UnexpectedEOFError
	require.ErrorAs(t, err, &eerr)
}

func TestLoadRejectsUnsupportedKind(t *testing.T) {
	_, err := rbmarshal.Load(bytes.NewReader([]byte{4, 8, 'f'}))
	require.Error(t, err)

	var kerr *rbmarshal.InvalidValueKindError
	require.ErrorAs(t, err, &kerr)
}

func TestLoadRejectsNegativeArrayLength(t *testing.T) {
	// tag '[' followed by Fixnum(-1) as the length.
	_, err := rbmarshal.Load(bytes.NewReader([]byte{4, 8, '[', 0xfa}))
	require.Error(t, err)

	var lerr *rbmarshal.FixnumInvalidUSizeError
	require.ErrorAs(t, err, &lerr)
	require.EqualValues(t, -1, lerr.Value)
}

func TestLoadRejectsIVarWrapperOnNonObjectKind(t *testing.T) {
	// 'I' wrapping a Fixnum, which cannot carry instance variables.
	_, err := rbmarshal.Load(bytes.NewReader([]byte{4, 8, 'I', 'i', 6, 0}))
	require.Error(t, err)

	var nerr *rbmarshal.NotAnObjectError
	require.ErrorAs(t, err, &nerr)
	require.Equal(t, rbmarshal.KindFixnum, nerr.Kind)
}

func TestLoadMaxDepth(t *testing.T) {
	// Ten nested one-element arrays: [[[[[[[[[[1]]]]]]]]]]
	var buf bytes.Buffer
	buf.Write([]byte{4, 8})
	for i := 0; i < 10; i++ {
		buf.WriteByte('[')
		buf.WriteByte(6) // count 1
	}
	buf.WriteByte('i')
	buf.WriteByte(6) // fixnum 1

	_, err := rbmarshal.Load(bytes.NewReader(buf.Bytes()), rbmarshal.WithMaxDepth(3))
	require.Error(t, err)

	var derr *rbmarshal.MaxDepthExceededError
	require.ErrorAs(t, err, &derr)
}

func TestArenaHandleIsolation(t *testing.T) {
	a1 := rbmarshal.New()
	a2 := rbmarshal.New()

	h := a1.CreateBool(true)
	_, ok := a2.Get(h.Handle())
	require.False(t, ok, "a handle minted by one arena must not resolve in another")
}

func TestSymbolInterning(t *testing.T) {
	a := rbmarshal.New()
	s1 := a.CreateSymbol([]byte("hello"))
	s2 := a.CreateSymbol([]byte("hello"))
	require.Equal(t, s1.Handle(), s2.Handle(), "equal symbol bytes must intern to the same handle")

	s3 := a.CreateSymbolUninterned([]byte("hello"))
	require.NotEqual(t, s1.Handle(), s3.Handle())
}

func TestNewArenaRootIsNil(t *testing.T) {
	a := rbmarshal.New()
	root := a.Root()
	require.False(t, root.IsZero())

	v, ok := a.Get(root)
	require.True(t, ok)
	require.Equal(t, rbmarshal.KindNil, v.Kind())
}

func TestArenaRemove(t *testing.T) {
	a := rbmarshal.New()
	h := a.CreateBool(true)

	ok := a.Remove(h.Handle())
	require.True(t, ok)

	_, ok = a.Get(h.Handle())
	require.False(t, ok, "a removed handle must no longer resolve")

	ok = a.Remove(h.Handle())
	require.False(t, ok, "removing an already-removed handle reports false")
}

func TestArenaRemoveRejectsRoot(t *testing.T) {
	a := rbmarshal.New()
	root := a.Root()

	ok := a.Remove(root)
	require.False(t, ok, "the current root cannot be removed directly")

	_, getOK := a.Get(root)
	require.True(t, getOK, "the root must still resolve")
}

func TestReplaceRoot(t *testing.T) {
	a := rbmarshal.New()
	initialRoot := a.Root()

	h1 := a.CreateNil()
	old, err := a.ReplaceRoot(h1.Handle())
	require.NoError(t, err)
	require.Equal(t, initialRoot, old)

	h2 := a.CreateBool(true)
	old, err = a.ReplaceRoot(h2.Handle())
	require.NoError(t, err)
	require.Equal(t, h1.Handle(), old)

	require.Equal(t, h2.Handle(), a.Root())
}
