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

// Package testdata embeds the hand-written Marshal specimen corpus used by
// the root package's table-driven and fuzz tests.
package testdata

import (
	"embed"
	"encoding/hex"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed cases.yaml
var manifest embed.FS

// Case is one decoded test specimen.
type Case struct {
	Name    string
	Data    []byte
	WantErr bool
}

type rawCase struct {
	Name    string `yaml:"name"`
	Data    string `yaml:"data"`
	WantErr bool   `yaml:"want_err"`
}

// Cases parses the embedded manifest and hex-decodes each specimen.
func Cases() ([]Case, error) {
	b, err := manifest.ReadFile("cases.yaml")
	if err != nil {
		return nil, fmt.Errorf("testdata: read manifest: %w", err)
	}

	var raw []rawCase
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("testdata: parse manifest: %w", err)
	}

	cases := make([]Case, 0, len(raw))
	for _, rc := range raw {
		data, err := hex.DecodeString(rc.Data)
		if err != nil {
			return nil, fmt.Errorf("testdata: case %q: decode hex: %w", rc.Name, err)
		}
		cases = append(cases, Case{Name: rc.Name, Data: data, WantErr: rc.WantErr})
	}
	return cases, nil
}
