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

// Package stress holds the small amount of harness code shared by the
// concurrent scenario tests in pkg/llist, so each one doesn't reinvent
// goroutine fan-out and seeded randomness.
package stress

import (
	"math/rand"

	"golang.org/x/sync/errgroup"
)

// Run starts n goroutines, calling fn(id) in each, and waits for all of
// them to finish. The first non-nil error returned by any fn is returned;
// the others are discarded, matching errgroup.Group's own policy.
func Run(n int, fn func(id int) error) error {
	var g errgroup.Group
	for id := 0; id < n; id++ {
		id := id
		g.Go(func() error {
			return fn(id)
		})
	}
	return g.Wait()
}

// Rand returns a *rand.Rand seeded deterministically from id, so a failing
// stress test can be reproduced by rerunning with the same goroutine count:
// every goroutine gets its own generator rather than sharing (and
// serializing on) a single global one.
func Rand(id int) *rand.Rand {
	return rand.New(rand.NewSource(int64(id) + 1))
}
