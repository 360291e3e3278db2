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

// defaultMaxDepth bounds nesting when no WithMaxDepth option is given, a
// generous limit meant only to guard against adversarial input exhausting
// the call stack, not to constrain legitimate deeply-nested data.
const defaultMaxDepth = 512

type loadConfig struct {
	maxDepth int
}

func newLoadConfig(opts []LoadOption) loadConfig {
	cfg := loadConfig{maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// LoadOption configures a call to [Load].
type LoadOption func(*loadConfig)

// WithMaxDepth caps the nesting depth of Array/Hash/Object/UserDefined/ivar
// values [Load] will accept, guarding against stack exhaustion from
// adversarial input. The default is 512.
func WithMaxDepth(n int) LoadOption {
	return func(c *loadConfig) {
		c.maxDepth = n
	}
}

type dumpConfig struct{}

func newDumpConfig(opts []DumpOption) dumpConfig {
	var cfg dumpConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DumpOption configures a call to [Dump]. None are defined yet; the type
// exists so the call signature of [Dump] does not need to change if one is
// added later.
type DumpOption func(*dumpConfig)
