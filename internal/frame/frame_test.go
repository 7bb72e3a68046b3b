package frame

import (
	"testing"
	"time"
)

func TestQueueCoalescesToLatest(t *testing.T) {
	var q Queue[int]

	tok, schedule := q.Push(1)
	if !schedule {
		t.Fatal("first push should request a flush")
	}
	if _, again := q.Push(2); again {
		t.Error("second push should reuse the outstanding flush")
	}
	q.Push(3)

	got, ok := q.Flush(tok)
	if !ok {
		t.Fatal("flush with current token should deliver")
	}
	if got != 3 {
		t.Errorf("flushed = %d, want 3", got)
	}
	if q.Pending() {
		t.Error("queue should be empty after flush")
	}
}

func TestQueueStaleTokenRejected(t *testing.T) {
	var q Queue[int]

	tok, _ := q.Push(1)
	q.Cancel()

	if _, ok := q.Flush(tok); ok {
		t.Error("flush after cancel should be rejected")
	}

	tok2, schedule := q.Push(2)
	if !schedule {
		t.Fatal("push after cancel should schedule again")
	}
	if tok2 == tok {
		t.Error("new schedule should get a fresh token")
	}
	if _, ok := q.Flush(tok); ok {
		t.Error("old token should not flush the new value")
	}
	if v, ok := q.Flush(tok2); !ok || v != 2 {
		t.Errorf("flush = %d,%v, want 2,true", v, ok)
	}
}

func TestDebouncerOnlyLastTouchFires(t *testing.T) {
	d := NewDebouncer(200 * time.Millisecond)
	if d.Delay() != 200*time.Millisecond {
		t.Errorf("delay = %v", d.Delay())
	}

	first := d.Touch()
	second := d.Touch()

	if d.Fire(first) {
		t.Error("superseded touch should not fire")
	}
	if !d.Fire(second) {
		t.Error("latest touch should fire")
	}
	if d.Fire(second) {
		t.Error("token should fire only once")
	}
}

func TestDebouncerCancel(t *testing.T) {
	d := NewDebouncer(time.Millisecond)
	tok := d.Touch()
	d.Cancel()
	if d.Pending() {
		t.Error("cancel should disarm")
	}
	if d.Fire(tok) {
		t.Error("cancelled token should not fire")
	}
}
