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

// Iterator is a bidirectional cursor over a List that tolerates concurrent
// insertion and removal of nodes other than the one it currently points
// at, and recovers in a well-defined way when that node is concurrently
// removed out from under it (spec §4.3).
//
// An Iterator carries the current node and an anchor: the neighbor it
// arrived from. For a cursor that has only ever moved forward (via
// Advance), the anchor is the expected predecessor of current; for one
// that has only ever moved backward (via Retreat), it is the expected
// successor. Mixing Advance and Retreat calls on the same cursor is not a
// fault — the validation step simply fails more often than it would for a
// pure-direction traversal, which sends the cursor down the recovery path
// more often. Recovery is always correct (it never returns a node that
// isn't actually in the list, and it always terminates), just not
// necessarily the node the caller might naively expect from a mental model
// of "Retreat undoes the last Advance." This is the Open Question 2
// decision recorded in DESIGN.md: the spec states the two directions are
// "mirror-symmetric" without enumerating mixed-direction behavior, and nothing
// in spec §8 exercises it.
//
// The zero value of Iterator is not meaningful; obtain one from a List's
// Begin or End.
type Iterator[E interface {
	Linked[E]
	comparable
}] struct {
	list    *List[E]
	current E
	anchor  E
}

// Begin returns an iterator positioned at the current head, or at End if
// the list is empty.
func (l *List[E]) Begin() Iterator[E] {
	return Iterator[E]{list: l, current: l.Front(), anchor: zeroOf[E]()}
}

// End returns the sentinel iterator one past the last element.
func (l *List[E]) End() Iterator[E] {
	return Iterator[E]{list: l, current: zeroOf[E](), anchor: l.Back()}
}

// Equal reports whether two iterators refer to the same node. Anchors are
// not part of equality (spec §4.3): two cursors that reached the same node
// from different directions compare equal.
func (it Iterator[E]) Equal(other Iterator[E]) bool {
	return it.current == other.current
}

// Deref returns the current element. It panics with an *IteratorError if
// the iterator is at End (spec §7: dereferencing a null iterator is a
// precondition violation, not a runtime condition).
func (it Iterator[E]) Deref() E {
	if it.current == zeroOf[E]() {
		panicIterator(FaultDereferenceNull)
	}
	return it.current
}

// Advance moves the iterator one element forward. It panics with an
// *IteratorError if called on an iterator already at End.
//
// Each recovery step strictly follows next, so recovery always terminates
// — for a finite list, in a bounded number of steps — even under
// unrelated concurrent churn (spec §4.3, P6). Recovery may skip elements
// that were concurrently inserted behind the recovered position; this is
// the documented contract, not a bug.
func (it Iterator[E]) Advance() Iterator[E] {
	if it.current == zeroOf[E]() {
		panicIterator(FaultAdvancePastEnd)
	}
	cur := it.current
	link := cur.Link()
	n := link.Next()

	if link.Prev() == it.anchor {
		return Iterator[E]{list: it.list, current: n, anchor: cur}
	}

	// cur's predecessor changed since we arrived at it (a node was inserted
	// or removed in front of it). Walk forward looking for a node whose prev
	// still matches our anchor.
	budget := it.list.cfg.IteratorRecoveryBudget
	steps := 0
	for c := n; c != zeroOf[E](); c = c.Link().Next() {
		if c.Link().Prev() == it.anchor {
			return Iterator[E]{list: it.list, current: c, anchor: it.anchor}
		}
		steps++
		if budget > 0 && steps >= budget {
			break
		}
	}
	return Iterator[E]{list: it.list, current: zeroOf[E](), anchor: it.list.Back()}
}

// Retreat moves the iterator one element backward. It panics with an
// *IteratorError if there is no element before the current position —
// including when called on an iterator already before the first element,
// since the external interface (spec §6) defines no "one before begin"
// sentinel the way End defines "one past the last element."
func (it Iterator[E]) Retreat() Iterator[E] {
	if it.current != zeroOf[E]() {
		cur := it.current
		link := cur.Link()
		p := link.Prev()

		if link.Next() == it.anchor {
			if p == zeroOf[E]() {
				panicIterator(FaultRetreatPastBegin)
			}
			return Iterator[E]{list: it.list, current: p, anchor: cur}
		}

		// cur's neighborhood changed. Walk backward looking for a node
		// whose next still matches our anchor.
		budget := it.list.cfg.IteratorRecoveryBudget
		steps := 0
		for c := p; c != zeroOf[E](); c = c.Link().Prev() {
			if c.Link().Next() == it.anchor {
				return Iterator[E]{list: it.list, current: c, anchor: it.anchor}
			}
			steps++
			if budget > 0 && steps >= budget {
				break
			}
		}
		panicIterator(FaultRetreatPastBegin)
	}

	// Retreating from End: land on the current tail, if any.
	anchor := it.anchor
	if anchor == zeroOf[E]() {
		panicIterator(FaultRetreatPastBegin)
	}
	link := anchor.Link()
	if link.Next() == zeroOf[E]() {
		return Iterator[E]{list: it.list, current: anchor, anchor: zeroOf[E]()}
	}

	// The remembered tail has been superseded; follow next until the real
	// tail is found.
	budget := it.list.cfg.IteratorRecoveryBudget
	steps := 0
	for c := anchor; ; {
		n := c.Link().Next()
		if n == zeroOf[E]() {
			return Iterator[E]{list: it.list, current: c, anchor: zeroOf[E]()}
		}
		steps++
		if budget > 0 && steps >= budget {
			return Iterator[E]{list: it.list, current: zeroOf[E](), anchor: it.list.Back()}
		}
		c = n
	}
}
