// Copyright 2026 The Lockfree-List Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package llistcfg holds the tunable knobs for pkg/llist: when to escalate
// a retry-count log line from debug to warning, how many hops an iterator's
// recovery walk may take before giving up, and whether to pay for the
// debug-only Clear precondition check.
package llistcfg

import "github.com/BurntSushi/toml"

// Config holds tunables for a List. The zero Config is not valid for
// direct use by llist.NewWithOptions — a Config equal to the zero value
// is replaced with Default() — so construct one from Default() or Load.
type Config struct {
	// RetryWarnThreshold is the number of consecutive CAS failures a
	// single mutator call must observe before its retry note is logged at
	// Warn instead of Debug. Zero disables escalation (always Debug).
	RetryWarnThreshold int `toml:"retry_warn_threshold"`

	// IteratorRecoveryBudget caps the number of hops an iterator's
	// recovery walk (spec §4.3) will take after losing track of its
	// current node before giving up and returning the end sentinel (or,
	// for Retreat, faulting). Zero means unbounded.
	IteratorRecoveryBudget int `toml:"iterator_recovery_budget"`

	// DebugAssertions enables the best-effort in-flight-mutator check in
	// List.Clear. It is racy by construction (see llist.List.Clear) and
	// meant for test and development builds, not production use.
	DebugAssertions bool `toml:"debug_assertions"`
}

// Default returns the tunables used by llist.New.
func Default() Config {
	return Config{
		RetryWarnThreshold:     64,
		IteratorRecoveryBudget: 0,
		DebugAssertions:        false,
	}
}

// Load reads a Config from a TOML file at path, starting from Default()
// so that an omitted field keeps its default rather than zeroing out.
func Load(path string) (Config, error) {
	c := Default()
	_, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, err
	}
	return c, nil
}
