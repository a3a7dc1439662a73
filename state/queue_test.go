package state

import "testing"

type qState int

const (
	qA qState = iota
	qB
	qC
)

func testQueueSetAppendPrepend(t *testing.T) {
	q := NewQueue[qState](3)
	if !q.IsEmpty() {
		t.Fatal("expected empty queue")
	}
	if err := q.Set([]qState{qA, qB}); err != nil {
		t.Fatal(err)
	}
	if q.Len() != 2 {
		t.Fatalf("got len %d, want 2", q.Len())
	}
	if err := q.Append([]qState{qC}); err != nil {
		t.Fatal(err)
	}
	if err := q.Append([]qState{qC}); err == nil {
		t.Fatal("expected ErrBusy appending past capacity")
	}
	if err := q.Prepend(qC); err == nil {
		t.Fatal("expected ErrBusy prepending a full queue")
	}

	v, ok := q.Pop()
	if !ok || v != qA {
		t.Fatalf("got (%v, %v), want (A, true)", v, ok)
	}
	if err := q.Prepend(qB); err != nil {
		t.Fatal(err)
	}
	v, ok = q.Peek()
	if !ok || v != qB {
		t.Fatalf("got (%v, %v), want (B, true)", v, ok)
	}
}

func testQueueCapacityRejection(t *testing.T) {
	q := NewQueue[qState](2)
	if err := q.Set([]qState{qA, qB, qC}); err == nil {
		t.Fatal("expected ErrBusy for oversized Set")
	}
	if !q.IsEmpty() {
		t.Fatal("rejected Set must not mutate the queue")
	}
}

func TestQueue(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T)
	}{
		{"set-append-prepend", testQueueSetAppendPrepend},
		{"capacity-rejection", testQueueCapacityRejection},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) { test.fn(t) })
	}
}
