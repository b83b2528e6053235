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

package llist

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"
)

func TestBeginEqualsEndOnEmptyList(t *testing.T) {
	l := New[*intNode]()
	begin, end := l.Begin(), l.End()
	if !begin.Equal(end) {
		t.Errorf("Begin() != End() on an empty list")
	}
	defer func() {
		if recover() == nil {
			t.Error("Deref() on empty list's Begin() did not panic")
		}
	}()
	begin.Deref()
}

func TestAdvanceWalksForwardInOrder(t *testing.T) {
	l := New[*intNode]()
	for _, v := range []int{1, 2, 3} {
		if err := l.PushBack(node(v)); err != nil {
			t.Fatal(err)
		}
	}
	var got []int
	for it := l.Begin(); !it.Equal(l.End()); it = it.Advance() {
		got = append(got, it.Deref().val)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, got); diff != "" {
		t.Errorf("forward traversal mismatch (-want +got):\n%s", diff)
	}
}

func TestAdvancePastEndPanics(t *testing.T) {
	l := New[*intNode]()
	if err := l.PushBack(node(1)); err != nil {
		t.Fatal(err)
	}
	it := l.Begin().Advance()
	if !it.Equal(l.End()) {
		t.Fatalf("expected to be at End() after one Advance on a single-element list")
	}
	defer func() {
		if recover() == nil {
			t.Error("Advance() past End() did not panic")
		}
	}()
	it.Advance()
}

func TestRetreatWalksBackwardInOrder(t *testing.T) {
	l := New[*intNode]()
	for _, v := range []int{1, 2, 3} {
		if err := l.PushBack(node(v)); err != nil {
			t.Fatal(err)
		}
	}
	var got []int
	for it := l.End().Retreat(); ; it = it.Retreat() {
		got = append(got, it.Deref().val)
		if it.Deref().val == 1 {
			break
		}
	}
	if diff := cmp.Diff([]int{3, 2, 1}, got); diff != "" {
		t.Errorf("backward traversal mismatch (-want +got):\n%s", diff)
	}
}

func TestRetreatPastBeginPanics(t *testing.T) {
	l := New[*intNode]()
	if err := l.PushBack(node(1)); err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Retreat() past the first element did not panic")
		}
	}()
	l.Begin().Retreat()
}

func TestRetreatOnEmptyListPanics(t *testing.T) {
	l := New[*intNode]()
	defer func() {
		if recover() == nil {
			t.Error("Retreat() on End() of an empty list did not panic")
		}
	}()
	l.End().Retreat()
}

func TestAdvanceAcrossConcurrentRemovalOfCurrent(t *testing.T) {
	l := New[*intNode]()
	a, b, c := node(1), node(2), node(3)
	for _, n := range []*intNode{a, b, c} {
		if err := l.PushBack(n); err != nil {
			t.Fatal(err)
		}
	}
	it := l.Begin() // at a, anchor nil
	it = it.Advance() // at b, anchor a

	// Remove b out from under the cursor before it advances again.
	if ok, err := l.Remove(b); err != nil || !ok {
		t.Fatalf("Remove(b) = (%v, %v), want (true, nil)", ok, err)
	}

	next := it.Advance()
	if next.Deref() != c {
		t.Fatalf("Advance() after concurrent removal of current = %v, want %v", next.Deref(), c)
	}
}

func TestAdvanceTerminatesUnderConcurrentChurn(t *testing.T) {
	l := New[*intNode]()
	for _, v := range []int{1, 2, 3, 4, 5} {
		if err := l.PushBack(node(v)); err != nil {
			t.Fatal(err)
		}
	}

	const churnRounds = 2000
	var g errgroup.Group
	g.Go(func() error {
		for i := 0; i < churnRounds; i++ {
			n := node(1000 + i)
			if err := l.PushBack(n); err != nil {
				return err
			}
			if ok, err := l.Remove(n); err != nil {
				return err
			} else if !ok {
				return fmt.Errorf("churn round %d: Remove on a node only this goroutine touched lost its own tombstone claim", i)
			}
		}
		return nil
	})

	steps := 0
	for it := l.Begin(); !it.Equal(l.End()); it = it.Advance() {
		steps++
		if steps > 1<<16 {
			t.Fatal("forward traversal did not terminate under concurrent insertion/removal of other nodes")
		}
	}

	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestDerefOnEndPanics(t *testing.T) {
	l := New[*intNode]()
	defer func() {
		if recover() == nil {
			t.Error("Deref() on End() did not panic")
		}
	}()
	l.End().Deref()
}

func TestIteratorEqualityIgnoresAnchor(t *testing.T) {
	l := New[*intNode]()
	for _, v := range []int{1, 2} {
		if err := l.PushBack(node(v)); err != nil {
			t.Fatal(err)
		}
	}
	forward := l.Begin().Advance()
	backward := l.End().Retreat()
	if !forward.Equal(backward) {
		t.Error("iterators that reached the same node from opposite directions should compare equal")
	}
}
