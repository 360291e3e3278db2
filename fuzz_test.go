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

	"github.com/go-marshal/rbmarshal"
	"github.com/go-marshal/rbmarshal/internal/testdata"
)

func FuzzLoad(f *testing.F) {
	cases, err := testdata.Cases()
	if err != nil {
		f.Fatal(err)
	}
	for _, tc := range cases {
		f.Add(tc.Data)
	}

	f.Fuzz(func(t *testing.T, data []byte) {
		arena, err := rbmarshal.Load(bytes.NewReader(data), rbmarshal.WithMaxDepth(64))
		if err != nil {
			return
		}

		var buf bytes.Buffer
		if err := rbmarshal.Dump(arena, &buf); err != nil {
			t.Fatalf("dump of a successfully loaded arena must not fail: %v", err)
		}
		if !bytes.Equal(data, buf.Bytes()) {
			t.Fatalf("dump did not reproduce input: got %x, want %x", buf.Bytes(), data)
		}
	})
}
