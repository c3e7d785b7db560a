//go:build linux
// +build linux

package uring

import (
	"errors"
	"testing"
	"time"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// newTestRing creates a real kernel ring or skips the test on hosts
// without io_uring (old kernel, seccomp, rlimits).
func newTestRing(t *testing.T, entries uint32, opts ...RingOption) *Ring {
	t.Helper()
	r, err := New(entries, opts...)
	if err != nil {
		t.Skipf("io_uring not available: %v", err)
	}
	t.Cleanup(func() { r.Close() })
	return r
}

func nopEntry(tag uint64) *uring_syscall.SubmissionQueueEntry {
	var sqe uring_syscall.SubmissionQueueEntry
	sqe.PrepOperation(OpNop, -1, 0, 0, 0)
	sqe.SetUserData(tag)
	return &sqe
}

func TestNopRoundTrip(t *testing.T) {
	r := newTestRing(t, 4)

	if err := r.Push(nopEntry(0xdead)); err != nil {
		t.Fatalf("push: %v", err)
	}
	n, err := r.SubmitAndWait(1)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n != 1 {
		t.Fatalf("kernel accepted %d submissions, want 1", n)
	}

	cqe, ok := r.Pop()
	if !ok {
		t.Fatal("no completion after wait")
	}
	if cqe.UserData != 0xdead {
		t.Errorf("correlation tag = %#x, want 0xdead", cqe.UserData)
	}
	if cqe.Result != 0 {
		t.Errorf("nop result = %d, want 0", cqe.Result)
	}
}

func TestSubmitBatch(t *testing.T) {
	r := newTestRing(t, 8)

	for tag := uint64(1); tag <= 4; tag++ {
		if err := r.Push(nopEntry(tag)); err != nil {
			t.Fatalf("push %d: %v", tag, err)
		}
	}
	n, err := r.SubmitAndWait(4)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if n != 4 {
		t.Fatalf("kernel accepted %d submissions, want 4", n)
	}

	got := map[uint64]bool{}
	for {
		cqe, ok := r.Pop()
		if !ok {
			break
		}
		got[cqe.UserData] = true
	}
	for tag := uint64(1); tag <= 4; tag++ {
		if !got[tag] {
			t.Errorf("tag %d never completed", tag)
		}
	}
}

func TestSubmitTimeoutExpires(t *testing.T) {
	r := newTestRing(t, 4)
	if !r.Params().ExtArg() {
		t.Skip("kernel lacks extended enter arguments")
	}

	start := time.Now()
	_, err := r.Submitter().SubmitTimeout(1, 10*time.Millisecond)
	if !errors.Is(err, ErrTimerExpired) {
		t.Fatalf("wait with no completions: got %v, want ErrTimerExpired", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("timeout wait blocked for %v", elapsed)
	}
}

func TestQueueFullLive(t *testing.T) {
	r := newTestRing(t, 4)

	capacity := r.SQ().Capacity()
	for tag := uint64(0); tag < uint64(capacity); tag++ {
		if err := r.Push(nopEntry(tag)); err != nil {
			t.Fatalf("push %d of %d: %v", tag, capacity, err)
		}
	}
	if err := r.Push(nopEntry(99)); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("push beyond capacity: got %v, want ErrQueueFull", err)
	}

	if _, err := r.SubmitAndWait(capacity); err != nil {
		t.Fatalf("drain: %v", err)
	}
	r.SQ().Sync()
	if err := r.Push(nopEntry(99)); err != nil {
		t.Fatalf("push after drain: %v", err)
	}
}

func TestParamsReadBack(t *testing.T) {
	r := newTestRing(t, 6, WithCQSize(32))

	sq := r.Params().SQEntries()
	if sq == 0 || sq&(sq-1) != 0 {
		t.Errorf("negotiated sq depth %d is not a power of two", sq)
	}
	if sq < 6 {
		t.Errorf("negotiated sq depth %d below request", sq)
	}
	if cq := r.Params().CQEntries(); cq < sq {
		t.Errorf("cq depth %d smaller than sq depth %d", cq, sq)
	}
	if r.SQ().Capacity() != sq {
		t.Errorf("queue view capacity %d != negotiated %d", r.SQ().Capacity(), sq)
	}
}

func TestCloseExactlyOnce(t *testing.T) {
	r, err := New(2)
	if err != nil {
		t.Skipf("io_uring not available: %v", err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := r.Close(); !errors.Is(err, ErrRingClosed) {
		t.Fatalf("second close: got %v, want ErrRingClosed", err)
	}
	if err := r.Push(nopEntry(1)); !errors.Is(err, ErrRingClosed) {
		t.Fatalf("push after close: got %v, want ErrRingClosed", err)
	}
}
