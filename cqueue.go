//go:build linux
// +build linux

package uring

import (
	"sync/atomic"
	"unsafe"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// CompletionQueue is the userspace view of the completion ring. The kernel
// is the sole producer and owns the tail; userspace owns the head and
// advances it as entries are read.
//
// Completions are not ordered across independent submissions; callers
// correlate by the tag echoed in each event. A single reader at a time;
// concurrent Pop calls require external serialization.
type CompletionQueue struct {
	khead     *uint32
	ktail     *uint32
	kflags    *uint32
	koverflow *uint32

	mask    uint32
	entries uint32

	cqes []uring_syscall.CompletionQueueEvent
}

func newCompletionQueue(ring *memoryRegion, params *uring_syscall.RingParams) *CompletionQueue {
	return &CompletionQueue{
		khead:     ring.field(params.CQOffset.Head),
		ktail:     ring.field(params.CQOffset.Tail),
		kflags:    ring.field(params.CQOffset.Flags),
		koverflow: ring.field(params.CQOffset.Overflow),
		mask:      *ring.field(params.CQOffset.RingMask),
		entries:   *ring.field(params.CQOffset.RingEntries),
		cqes: unsafe.Slice(
			(*uring_syscall.CompletionQueueEvent)(unsafe.Pointer(ring.ptr+uintptr(params.CQOffset.CQEs))),
			params.CQEntries),
	}
}

// Capacity returns the total slot count, a power of two fixed at setup.
func (cq *CompletionQueue) Capacity() uint32 { return cq.entries }

// Pop copies out the event at head&mask and publishes the advanced head,
// or reports false if the ring is empty. The tail is read with acquire
// semantics so a newly published completion is fully visible before its
// slot is read; the head store releases the slot back to the kernel. Never
// blocks; waiting is the Submitter's job.
func (cq *CompletionQueue) Pop() (uring_syscall.CompletionQueueEvent, bool) {
	head := *cq.khead
	if head == atomic.LoadUint32(cq.ktail) {
		return uring_syscall.CompletionQueueEvent{}, false
	}
	cqe := cq.cqes[head&cq.mask]
	atomic.StoreUint32(cq.khead, head+1)
	return cqe, true
}

// Available counts unread completions, tail-head with wrap-tolerant
// subtraction.
func (cq *CompletionQueue) Available() uint32 {
	return atomic.LoadUint32(cq.ktail) - *cq.khead
}

// Overflow returns the kernel's count of completions dropped because the
// ring was full (always zero when the nodrop feature is active).
func (cq *CompletionQueue) Overflow() uint32 {
	return atomic.LoadUint32(cq.koverflow)
}
