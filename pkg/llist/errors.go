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

import "github.com/pkg/errors"

// errNilNode is returned, wrapped with call-site context, whenever a
// mutator is handed the zero value of E. This is a precondition violation,
// not a structural refusal: it is always a caller bug, never a race.
var errNilNode = errors.New("llist: node must not be the zero value")

// IteratorFault identifies why an iterator operation panicked.
type IteratorFault int

const (
	// FaultDereferenceNull means Deref was called on an iterator whose
	// current node is the end sentinel.
	FaultDereferenceNull IteratorFault = iota
	// FaultAdvancePastEnd means Advance was called on an iterator already
	// at end().
	FaultAdvancePastEnd
	// FaultRetreatPastBegin means Retreat was called with no element before
	// the current position: on the first element, or on End of an empty
	// list.
	FaultRetreatPastBegin
)

func (f IteratorFault) String() string {
	switch f {
	case FaultDereferenceNull:
		return "dereference of null iterator"
	case FaultAdvancePastEnd:
		return "advance past end()"
	case FaultRetreatPastBegin:
		return "retreat past the first element"
	default:
		return "unknown iterator fault"
	}
}

// IteratorError is the panic value raised for iterator misuse (spec §7:
// "an API misuse, not a runtime condition"). Callers that want to recover
// from misuse during, e.g., fuzzing, can type-assert the recovered value.
type IteratorError struct {
	Fault IteratorFault
}

func (e *IteratorError) Error() string {
	return "llist: " + e.Fault.String()
}

func panicIterator(f IteratorFault) {
	panic(&IteratorError{Fault: f})
}
