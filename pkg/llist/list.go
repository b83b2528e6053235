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
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/sunbains/lockfree-list/pkg/llistcfg"
	"github.com/sunbains/lockfree-list/pkg/llog"
)

// List is a lock-free, intrusive doubly-linked list of elements of type E.
//
// The zero value of List is an empty, ready-to-use list: both anchors start
// as the null reference at version 0, which costs no allocation. There is
// no mutual-exclusion primitive anywhere in this type; every method below
// is either a single CAS retry loop or a short sequence of them, and every
// failed CAS implies a competing goroutine made progress, which is the
// lock-free progress guarantee spec §5 asks for.
//
// A List must not be copied after first use (copying would duplicate the
// atomic anchors, producing two lists that silently diverge). go vet's
// copylocks check does not catch this for atomic.Pointer the way it does
// for sync.Mutex, so it is enforced only by convention here, matching how
// gVisor's own atomicbitops types document (rather than mechanically
// enforce) the same restriction.
type List[E interface {
	Linked[E]
	comparable
}] struct {
	head atomic.Pointer[ref[E]]
	tail atomic.Pointer[ref[E]]

	active atomic.Int32 // count of mutators currently in flight; debug aid only.

	cfg    llistcfg.Config
	logger llog.Logger
}

// New returns an empty list using default tunables and a no-op logger.
func New[E interface {
	Linked[E]
	comparable
}]() *List[E] {
	return &List[E]{cfg: llistcfg.Default(), logger: llog.NoOp()}
}

// NewWithOptions returns an empty list using the given tunables and logger.
// A zero Config falls back to llistcfg.Default(); a nil logger falls back
// to llog.NoOp().
func NewWithOptions[E interface {
	Linked[E]
	comparable
}](cfg llistcfg.Config, logger llog.Logger) *List[E] {
	l := &List[E]{cfg: cfg}
	if l.cfg == (llistcfg.Config{}) {
		l.cfg = llistcfg.Default()
	}
	l.logger = logger
	if l.logger == nil {
		l.logger = llog.NoOp()
	}
	return l
}

func (l *List[E]) enterMutator() { l.active.Add(1) }
func (l *List[E]) leaveMutator() { l.active.Add(-1) }

// Empty reports whether the list currently has no elements. Like every
// other observation in this package, the answer may be stale by the time
// the caller acts on it if other goroutines are concurrently mutating.
func (l *List[E]) Empty() bool {
	return refNode(l.head.Load()) == zeroOf[E]()
}

// Front returns the current head element, or the zero value of E if the
// list is empty.
func (l *List[E]) Front() E {
	return refNode(l.head.Load())
}

// Back returns the current tail element, or the zero value of E if the
// list is empty.
func (l *List[E]) Back() E {
	return refNode(l.tail.Load())
}

func zeroOf[E comparable]() E {
	var z E
	return z
}

// PushFront links node at the front of the list. node must not currently
// be a member of any list; its link fields are reinitialized here.
func (l *List[E]) PushFront(node E) error {
	if node == zeroOf[E]() {
		return errors.WithStack(errNilNode)
	}
	l.enterMutator()
	defer l.leaveMutator()

	link := node.Link()
	link.resetDeleted()
	retries := 0
	for {
		oldHead := l.head.Load()
		oldHeadNode := refNode(oldHead)

		// node is not yet reachable from anywhere, so these two stores
		// race with no one (spec §5's relaxed-ordering carve-out).
		link.setNextRelaxed(oldHeadNode)
		link.setPrevRelaxed(zeroOf[E]())

		newHead := &ref[E]{node: node, ver: refVersion(oldHead) + 1}
		if l.head.CompareAndSwap(oldHead, newHead) {
			if oldHeadNode != zeroOf[E]() {
				repairPrev(oldHeadNode, node)
			} else {
				l.tail.Store(newHead)
			}
			return nil
		}
		retries++
		l.noteRetry("PushFront", retries)
	}
}

// PushBack links node at the back of the list. node must not currently be
// a member of any list.
func (l *List[E]) PushBack(node E) error {
	if node == zeroOf[E]() {
		return errors.WithStack(errNilNode)
	}
	l.enterMutator()
	defer l.leaveMutator()

	link := node.Link()
	link.resetDeleted()
	retries := 0
	for {
		oldTail := l.tail.Load()
		oldTailNode := refNode(oldTail)

		link.setNextRelaxed(zeroOf[E]())
		link.setPrevRelaxed(oldTailNode)

		if oldTailNode == zeroOf[E]() {
			// Empty list: CAS head directly from null to node, the mirror
			// of PushFront's empty-list case.
			oldHead := l.head.Load()
			if refNode(oldHead) != zeroOf[E]() {
				// Someone pushed concurrently; the list is no longer
				// empty from our point of view. Retry from the top.
				retries++
				l.noteRetry("PushBack", retries)
				continue
			}
			newRef := &ref[E]{node: node, ver: refVersion(oldHead) + 1}
			if l.head.CompareAndSwap(oldHead, newRef) {
				l.tail.Store(newRef)
				return nil
			}
			retries++
			l.noteRetry("PushBack", retries)
			continue
		}

		oldTailLink := oldTailNode.Link()
		succ := oldTailLink.loadNext()
		if refNode(succ) != zeroOf[E]() {
			// The observed tail is stale: someone already linked past it.
			retries++
			l.noteRetry("PushBack", retries)
			continue
		}

		if _, ok := oldTailLink.casNext(succ, node); !ok {
			retries++
			l.noteRetry("PushBack", retries)
			continue
		}
		l.tail.CompareAndSwap(oldTail, &ref[E]{node: node, ver: refVersion(oldTail) + 1})
		return nil
	}
}

// repairPrev sets succ.prev to pred, bumping succ's prev version. Used
// after a successful forward CAS to restore invariant 2 of spec §3. The
// caller has just published pred as succ's new predecessor, so this store
// races only with other repairs of the same field, which is why it goes
// through the normal casPrev retry loop rather than a raw store.
func repairPrev[E interface {
	Linked[E]
	comparable
}](succ E, pred E) {
	link := succ.Link()
	for {
		old := link.loadPrev()
		if refNode(old) == pred {
			return
		}
		if _, ok := link.casPrev(old, pred); ok {
			return
		}
	}
}

func repairNext[E interface {
	Linked[E]
	comparable
}](pred E, succ E) {
	link := pred.Link()
	for {
		old := link.loadNext()
		if refNode(old) == succ {
			return
		}
		if _, ok := link.casNext(old, succ); ok {
			return
		}
	}
}

// InsertAfter links node immediately after anchor. anchor must be a
// reference the caller guarantees is alive for the duration of the call
// (spec §4.2's precondition); it need not still be in the list. It returns
// false, with a nil error, if anchor has been removed from the list — this
// is the only in-band soft failure in the package (spec §7). An anchor that
// was never linked into this list is not detected.
//
// An unlinked anchor's own next/prev are never touched by Remove (only its
// former neighbors' are repaired), so the CAS against anchor.next below
// would otherwise succeed trivially against a stale-but-plausible value
// (spec §8 Scenario 4). anchor's tombstone is checked both before the CAS
// attempt and after it succeeds, since Remove can claim anchor at any point
// in between without anchorLink.loadNext() ever changing.
func (l *List[E]) InsertAfter(anchor, node E) (bool, error) {
	if anchor == zeroOf[E]() || node == zeroOf[E]() {
		return false, errors.WithStack(errNilNode)
	}
	l.enterMutator()
	defer l.leaveMutator()

	anchorLink := anchor.Link()
	if anchorLink.isDeleted() {
		return false, nil
	}
	nodeLink := node.Link()
	nodeLink.resetDeleted()
	retries := 0
	for {
		succ := anchorLink.loadNext()
		succNode := refNode(succ)

		nodeLink.setPrevRelaxed(anchor)
		nodeLink.setNextRelaxed(succNode)

		if _, ok := anchorLink.casNext(succ, node); !ok {
			retries++
			l.noteRetry("InsertAfter", retries)
			continue
		}

		if anchorLink.isDeleted() {
			return false, nil
		}

		if succNode != zeroOf[E]() {
			repairPrev(succNode, node)
		} else {
			// node is the new tail. A failed CAS here means someone else
			// already moved tail past anchor concurrently; the structure
			// is still valid and the insertion already succeeded, so we
			// tolerate the failure per spec §4.2 step 5.
			oldTail := l.tail.Load()
			l.tail.CompareAndSwap(oldTail, &ref[E]{node: node, ver: refVersion(oldTail) + 1})
		}
		return true, nil
	}
}

// InsertBefore links node immediately before anchor; the mirror of
// InsertAfter (spec §9 Open Question: "Symmetric variants of
// insert_before... are not exercised by the source tests"), including the
// same unlinked-anchor tombstone check (spec §8 Scenario 4's reasoning
// applies symmetrically to anchor.prev).
func (l *List[E]) InsertBefore(anchor, node E) (bool, error) {
	if anchor == zeroOf[E]() || node == zeroOf[E]() {
		return false, errors.WithStack(errNilNode)
	}
	l.enterMutator()
	defer l.leaveMutator()

	anchorLink := anchor.Link()
	if anchorLink.isDeleted() {
		return false, nil
	}
	nodeLink := node.Link()
	nodeLink.resetDeleted()
	retries := 0
	for {
		pred := anchorLink.loadPrev()
		predNode := refNode(pred)

		nodeLink.setNextRelaxed(anchor)
		nodeLink.setPrevRelaxed(predNode)

		if _, ok := anchorLink.casPrev(pred, node); !ok {
			retries++
			l.noteRetry("InsertBefore", retries)
			continue
		}

		if anchorLink.isDeleted() {
			return false, nil
		}

		if predNode != zeroOf[E]() {
			repairNext(predNode, node)
		} else {
			// node is the new head; tolerate a concurrent mover the same
			// way InsertAfter tolerates one on tail.
			oldHead := l.head.Load()
			l.head.CompareAndSwap(oldHead, &ref[E]{node: node, ver: refVersion(oldHead) + 1})
		}
		return true, nil
	}
}

// Remove unlinks node from the list. It is safe to call on a node believed
// to be in this list, including concurrently with another goroutine
// removing the same node: exactly one caller performs the unlink and gets
// back (true, nil); every other concurrent or subsequent call on the same
// node gets back (false, nil) as a no-op, per spec §4.2's double-removal
// guidance. The single-winner decision is made by claiming a per-node
// tombstone bit before touching any anchor, which is what makes the no-op
// case O(1) instead of retrying a CAS precondition that can never again
// become true. Callers that only care whether node is gone from the list
// afterward, not who removed it, can ignore the bool.
func (l *List[E]) Remove(node E) (bool, error) {
	if node == zeroOf[E]() {
		return false, errors.WithStack(errNilNode)
	}
	l.enterMutator()
	defer l.leaveMutator()

	link := node.Link()
	if !link.claimRemoval() {
		return false, nil
	}
	retries := 0
	for {
		p := link.loadPrev()
		n := link.loadNext()
		predNode := refNode(p)
		succNode := refNode(n)

		if predNode != zeroOf[E]() {
			predLink := predNode.Link()
			expected := predLink.loadNext()
			if refNode(expected) != node {
				// Someone already unlinked node, or the topology moved
				// out from under us. Reload and retry.
				retries++
				l.noteRetry("Remove", retries)
				continue
			}
			if _, ok := predLink.casNext(expected, succNode); !ok {
				retries++
				l.noteRetry("Remove", retries)
				continue
			}
		} else {
			oldHead := l.head.Load()
			if refNode(oldHead) != node {
				// head moved, or node was already removed by someone
				// else. Reload node's own links and retry.
				retries++
				l.noteRetry("Remove", retries)
				continue
			}
			if !l.head.CompareAndSwap(oldHead, &ref[E]{node: succNode, ver: refVersion(oldHead) + 1}) {
				retries++
				l.noteRetry("Remove", retries)
				continue
			}
		}

		if succNode != zeroOf[E]() {
			// Tolerated failure: a concurrent mutator will re-establish
			// the invariant (spec §4.2 step 4).
			succLink := succNode.Link()
			old := succLink.loadPrev()
			succLink.casPrev(old, predNode)
		} else {
			old := l.tail.Load()
			l.tail.CompareAndSwap(old, &ref[E]{node: predNode, ver: refVersion(old) + 1})
		}
		return true, nil
	}
}

// Drain repeatedly removes the current front element and calls visit with
// it until the list is empty or visit returns false. Unlike Clear, Drain
// is safe under concurrent mutation: it only ever removes a node it has
// itself just observed at the front, through the ordinary Remove protocol,
// so it can run alongside other pushers and removers (spec §9 Open
// Question 1).
func (l *List[E]) Drain(visit func(E) bool) {
	for {
		front := l.Front()
		if front == zeroOf[E]() {
			return
		}
		ok, err := l.Remove(front)
		if err != nil {
			return
		}
		if !ok {
			// Another remover claimed front first; look at the new front.
			continue
		}
		if !visit(front) {
			return
		}
	}
}

// Clear resets the list to empty in O(1) without touching any node's
// storage or link fields. The caller must ensure no other goroutine is
// mutating the list when Clear runs (spec §4.2: "clear is a quiescent
// operation"). If Config.DebugAssertions is set and a mutator is observed
// in flight, Clear panics instead of silently racing; this check is itself
// racy (it cannot prove quiescence, only sometimes disprove it), so it is a
// debugging aid and never a substitute for the caller's own discipline.
func (l *List[E]) Clear() {
	if l.cfg.DebugAssertions && l.active.Load() != 0 {
		panic("llist: Clear called while a mutator is in flight")
	}
	l.head.Store(nil)
	l.tail.Store(nil)
}

// FindIf returns the first element, in forward traversal order, for which
// pred returns true, or the zero value of E and false if none match.
//
// The traversal validates each candidate against the invariants in spec
// §3 before returning it (a candidate's next must point back via prev, and
// symmetrically), and restarts from the head if validation fails, per spec
// §4.2. This makes FindIf lock-free but not wait-free under continuous
// churn exactly at the matching element.
func (l *List[E]) FindIf(pred func(E) bool) (E, bool) {
restart:
	for cur := l.Front(); cur != zeroOf[E](); cur = cur.Link().Next() {
		if !pred(cur) {
			continue
		}
		if !l.validate(cur) {
			goto restart
		}
		return cur, true
	}
	return zeroOf[E](), false
}

// validate re-checks that cur's neighbors still agree it belongs where the
// traversal found it, per spec §4.2's find_if validation step.
func (l *List[E]) validate(cur E) bool {
	link := cur.Link()
	if next := link.Next(); next != zeroOf[E]() {
		if next.Link().Prev() != cur {
			return false
		}
	} else if l.Back() != cur {
		return false
	}
	if prev := link.Prev(); prev != zeroOf[E]() {
		if prev.Link().Next() != cur {
			return false
		}
	} else if l.Front() != cur {
		return false
	}
	return true
}

// Valuer is implemented by element types whose payload exposes a
// comparable attribute that FindByValue can search on.
type Valuer[V comparable] interface {
	Value() V
}

// FindByValue returns the first element, in forward traversal order, whose
// Value() equals target. It is a free function rather than a List method
// because Go methods cannot add type parameters beyond the receiver's.
func FindByValue[V comparable, E interface {
	Linked[E]
	Valuer[V]
	comparable
}](l *List[E], target V) (E, bool) {
	return l.FindIf(func(e E) bool { return e.Value() == target })
}

func (l *List[E]) noteRetry(op string, count int) {
	if l.logger == nil {
		// Zero-value List: no logger configured, so log nothing.
		return
	}
	if count >= l.cfg.RetryWarnThreshold && l.cfg.RetryWarnThreshold > 0 {
		l.logger.Warn("llist: retrying "+op+" after repeated CAS failure", "retries", count)
	} else {
		l.logger.Debug("llist: retrying "+op, "retries", count)
	}
}
