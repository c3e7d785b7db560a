//go:build linux
// +build linux

package uring

import (
	"sync/atomic"
	"unsafe"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// SubmissionQueue is the userspace view of the submission ring. Userspace
// is the sole producer: it owns the tail index, while the kernel owns the
// head and advances it as entries are consumed.
//
// The view is single-owner. Concurrent pushes from multiple goroutines
// require external serialization; the tail update is a plain counter
// increment and does not compose across producers.
type SubmissionQueue struct {
	khead    *uint32
	ktail    *uint32
	kflags   *uint32
	kdropped *uint32

	mask    uint32
	entries uint32

	array []uint32
	sqes  []uring_syscall.SubmissionQueueEntry

	// head is the locally cached copy of the kernel's consumption index.
	// It may lag the shared value; Sync refreshes it.
	head uint32

	// sqeHead/sqeTail track entries staged in the SQE array but not yet
	// published through the shared tail. flush moves them across.
	sqeHead uint32
	sqeTail uint32
}

func newSubmissionQueue(ring, sqeRing *memoryRegion, params *uring_syscall.RingParams) *SubmissionQueue {
	sq := &SubmissionQueue{
		khead:    ring.field(params.SQOffset.Head),
		ktail:    ring.field(params.SQOffset.Tail),
		kflags:   ring.field(params.SQOffset.Flags),
		kdropped: ring.field(params.SQOffset.Dropped),
		mask:     *ring.field(params.SQOffset.RingMask),
		entries:  *ring.field(params.SQOffset.RingEntries),
		array: unsafe.Slice(ring.field(params.SQOffset.Array),
			params.SQEntries),
		sqes: unsafe.Slice(
			(*uring_syscall.SubmissionQueueEntry)(unsafe.Pointer(sqeRing.ptr)),
			params.SQEntries),
	}
	sq.head = atomic.LoadUint32(sq.khead)
	sq.sqeHead = sq.head
	sq.sqeTail = sq.head
	return sq
}

// Capacity returns the total slot count, a power of two fixed at setup.
func (sq *SubmissionQueue) Capacity() uint32 { return sq.entries }

// Pending counts entries pushed but not yet consumed by the kernel,
// against the locally cached head. Wrap-tolerant: both indices are free
// running uint32 counters.
func (sq *SubmissionQueue) Pending() uint32 { return sq.sqeTail - sq.head }

// Full reports whether the ring has no free slot, judged by the locally
// cached head. The cache may be stale; Sync refreshes it.
func (sq *SubmissionQueue) Full() bool { return sq.Pending() == sq.entries }

// Push stages a descriptor into the slot at tail&mask and advances the
// local tail. The write only becomes kernel-visible on the next Sync or
// submit, which orders the entry contents before the published tail.
//
// This is the raw, contract-bearing entry point. The descriptor is not
// validated; before calling, the caller must guarantee that
//
//   - the opcode is supported by the running kernel (see RegisterProbe);
//   - every memory region the entry references stays valid, pinned and
//     unmoved until the matching completion is observed or the operation
//     is known cancelled;
//   - fixed-buffer and fixed-file indices, if used, refer to tables
//     previously registered on this ring.
//
// Violating any of these yields kernel-level undefined behavior, not a
// recoverable error. On a full ring Push rereads the shared head once and
// returns ErrQueueFull without side effects if it is still full.
func (sq *SubmissionQueue) Push(sqe *uring_syscall.SubmissionQueueEntry) error {
	if sq.Full() {
		sq.head = atomic.LoadUint32(sq.khead)
		if sq.Full() {
			return ErrQueueFull
		}
	}
	sq.sqes[sq.sqeTail&sq.mask] = *sqe
	sq.sqeTail++
	return nil
}

// PushEntries stages a batch all-or-nothing: if the ring cannot hold every
// entry, none is staged and ErrQueueFull is returned. Each entry carries
// the same safety contract as Push.
func (sq *SubmissionQueue) PushEntries(sqes []uring_syscall.SubmissionQueueEntry) error {
	for i := range sqes {
		if err := sq.Push(&sqes[i]); err != nil {
			sq.fallback(uint32(i))
			return err
		}
	}
	return nil
}

// fallback unstages the last n pushed-but-unpublished entries.
func (sq *SubmissionQueue) fallback(n uint32) {
	sq.sqeTail -= n
}

// flush publishes staged entries to the kernel: it fills the index array
// and then advances the shared tail with a release store, so the kernel
// can never observe the new tail before the completed entry writes.
// Returns the number of entries the ring holds for the kernel to consume.
func (sq *SubmissionQueue) flush() uint32 {
	if sq.sqeHead == sq.sqeTail {
		return *sq.ktail - atomic.LoadUint32(sq.khead)
	}

	tail := *sq.ktail
	for toSubmit := sq.sqeTail - sq.sqeHead; toSubmit > 0; toSubmit-- {
		sq.array[tail&sq.mask] = sq.sqeHead & sq.mask
		tail++
		sq.sqeHead++
	}
	atomic.StoreUint32(sq.ktail, tail)
	return tail - atomic.LoadUint32(sq.khead)
}

// Sync publishes staged entries and refreshes the cached head from the
// shared index, picking up any consumption the kernel has done since the
// last call.
func (sq *SubmissionQueue) Sync() {
	sq.flush()
	sq.head = atomic.LoadUint32(sq.khead)
}

// NeedWakeup reports whether a SQPOLL kernel thread has gone idle and the
// next enter call must carry IORING_ENTER_SQ_WAKEUP.
func (sq *SubmissionQueue) NeedWakeup() bool {
	return atomic.LoadUint32(sq.kflags)&uring_syscall.IORING_SQ_NEED_WAKEUP != 0
}

// CQOverflow reports whether the kernel dropped into the completion
// overflow path and an enter with GETEVENTS is needed to flush it.
func (sq *SubmissionQueue) CQOverflow() bool {
	return atomic.LoadUint32(sq.kflags)&uring_syscall.IORING_SQ_CQ_OVERFLOW != 0
}

// Dropped returns the kernel's count of structurally invalid entries it
// skipped in the index array.
func (sq *SubmissionQueue) Dropped() uint32 {
	return atomic.LoadUint32(sq.kdropped)
}
