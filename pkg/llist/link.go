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

// Package llist implements a lock-free, intrusive doubly-linked list.
//
// A list value holds two tagged-reference anchors, head and tail. Every
// element that can join the list embeds a Link, the pair of atomically
// updatable next/prev fields the protocol operates on. There is no
// mutual-exclusion primitive anywhere in this package: every mutator is a
// bounded compare-and-swap retry loop, and every retry implies that some
// other goroutine made progress, which is what makes the list lock-free
// rather than merely "thread-safe."
package llist

import "sync/atomic"

// Linked is the constraint an element type must satisfy to be stored in a
// List. E is the element type itself (a pointer type in every realistic
// use), and Link returns the embedded linkage cell that the protocol reads
// and CASes. There is no inheritance here: a caller's node type simply
// contains a Link[*Node] field and implements Link() by returning its
// address.
//
//	type IntNode struct {
//		link  llist.Link[*IntNode]
//		Value int
//	}
//
//	func (n *IntNode) Link() *llist.Link[*IntNode] { return &n.link }
type Linked[E comparable] interface {
	Link() *Link[E]
}

// ref is a tagged reference: a node identity paired with a monotonic
// version counter. Every ref value, once published to an atomic.Pointer, is
// never mutated again — a CAS that wants to change either field allocates a
// new ref and swaps the pointer. That makes the pointer-identity comparison
// performed by atomic.Pointer.CompareAndSwap equivalent to the spec's
// "compare both fields" requirement: two refs are CAS-equal only if they are
// the very same (node, version) pair.
//
// The zero value of *ref[E] (a nil pointer) represents the null reference
// at version 0, so constructing an empty List allocates nothing.
type ref[E comparable] struct {
	node E
	ver  uint64
}

func refNode[E comparable](r *ref[E]) E {
	if r == nil {
		var zero E
		return zero
	}
	return r.node
}

func refVersion[E comparable](r *ref[E]) uint64 {
	if r == nil {
		return 0
	}
	return r.ver
}

// Link is the linkage cell every list element embeds. Both fields are
// tagged references: a node identity plus a version counter wide enough
// that wraparound within a single goroutine's retry loop is not a realistic
// concern (64 bits, per spec §9's "16-48 bits is typical" guidance rounded
// up to a native word).
type Link[E comparable] struct {
	next atomic.Pointer[ref[E]]
	prev atomic.Pointer[ref[E]]

	// deleted gates Remove: the first goroutine to CAS this false->true
	// owns the unlink, every later Remove of the same node observes it
	// already set and returns immediately. Without this, a node's own
	// next/prev fields never change once it is unlinked (nothing points
	// at it to repair them), so two goroutines racing to remove the same
	// node — e.g. both calling Remove(list.Front()) — would otherwise
	// retry their CAS preconditions forever with no way to tell "already
	// gone" from "transiently contended."
	deleted atomic.Bool
}

// Next returns the element currently linked as this link's successor, or
// the zero value of E if this is the last element.
func (l *Link[E]) Next() E {
	return refNode(l.next.Load())
}

// Prev returns the element currently linked as this link's predecessor, or
// the zero value of E if this is the first element.
func (l *Link[E]) Prev() E {
	return refNode(l.prev.Load())
}

// loadNext and loadPrev expose the full tagged reference (node + version)
// to the protocol code in list.go and iterator.go, which needs the version
// to perform CAS retries correctly.
func (l *Link[E]) loadNext() *ref[E] { return l.next.Load() }
func (l *Link[E]) loadPrev() *ref[E] { return l.prev.Load() }

// casNext attempts to advance next from old to a tagged reference to
// newNode, incrementing old's version. It reports whether the CAS
// succeeded and the ref that was actually installed on success.
func (l *Link[E]) casNext(old *ref[E], newNode E) (*ref[E], bool) {
	next := &ref[E]{node: newNode, ver: refVersion(old) + 1}
	return next, l.next.CompareAndSwap(old, next)
}

func (l *Link[E]) casPrev(old *ref[E], newNode E) (*ref[E], bool) {
	next := &ref[E]{node: newNode, ver: refVersion(old) + 1}
	return next, l.prev.CompareAndSwap(old, next)
}

// claimRemoval reports whether this call is the one that gets to unlink the
// node, i.e. whether it won the CAS from not-deleted to deleted.
func (l *Link[E]) claimRemoval() bool {
	return l.deleted.CompareAndSwap(false, true)
}

// resetDeleted clears the tombstone. Used when a node is reinitialized for
// reuse in PushFront/PushBack/InsertAfter/InsertBefore, all of which require
// node not currently be a member of any list.
func (l *Link[E]) resetDeleted() { l.deleted.Store(false) }

// isDeleted reports whether this node has been claimed for removal. Remove
// never mutates a node's own next/prev fields (only its neighbors' are
// repaired), so an unlinked anchor's next/prev stay stale-but-plausible;
// this is the only signal InsertAfter/InsertBefore have that anchor is no
// longer part of the list. A node that was never inserted is not flagged.
func (l *Link[E]) isDeleted() bool { return l.deleted.Load() }

// setNextRelaxed and setPrevRelaxed are used only before the node is
// published by its first successful CAS into head/tail/another node's link
// (once per attempt of the mutator's retry loop). At that point no other goroutine can observe the node, so
// there is nothing to order against (spec §5's relaxed-ordering carve-out).
func (l *Link[E]) setNextRelaxed(n E) { l.next.Store(&ref[E]{node: n}) }
func (l *Link[E]) setPrevRelaxed(n E) { l.prev.Store(&ref[E]{node: n}) }
