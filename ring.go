//go:build linux
// +build linux

// Package uring is a thin userspace interface to the kernel's io_uring
// facility: the two shared rings, the descriptor encoding and the three
// control calls. It deliberately stops there; schedulers, reactors and
// completion dispatch belong to the caller.
package uring

import (
	"syscall"

	"github.com/pkg/errors"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// Ring is one io_uring instance: the control file descriptor, the mapped
// ring memory and the queue views over it.
//
// The ring itself adds no locking. One goroutine may produce submissions
// and another consume completions concurrently (the index ownership split
// makes that safe), but multiple producers or multiple consumers must
// serialize externally.
type Ring struct {
	params *uring_syscall.RingParams
	fd     int

	mem *ringMemory
	sq  *SubmissionQueue
	cq  *CompletionQueue

	submitter *Submitter
	fileTable *FileTable

	fileTableSize uint32
	closed        bool
}

// New creates the kernel rings with the requested submission depth
// (rounded up to a power of two by the kernel) and maps them. Setup or
// mapping failure is fatal: nothing is leaked and no partial ring is
// returned.
func New(entries uint32, opts ...RingOption) (*Ring, error) {
	r := &Ring{params: &uring_syscall.RingParams{}}
	for _, opt := range opts {
		opt(r)
	}

	var err error
	r.fd, err = uring_syscall.RingSetup(entries, r.params)
	if err != nil {
		return nil, errors.Wrap(err, "ring setup failed")
	}

	r.mem, r.sq, r.cq, err = mapRing(r.fd, r.params)
	if err != nil {
		syscall.Close(r.fd)
		return nil, err
	}

	r.submitter = &Submitter{fd: r.fd, params: r.params, sq: r.sq}

	if r.fileTableSize > 0 {
		r.fileTable, err = newFileTable(r, r.fileTableSize)
		if err != nil {
			r.mem.unmap()
			syscall.Close(r.fd)
			return nil, errors.Wrap(err, "file table preallocation failed")
		}
	}

	return r, nil
}

// Close unmaps the ring memory and closes the control descriptor. Closing
// invalidates every fixed registration and the queue views; callers must
// have drained or abandoned all in-flight submissions first, or the kernel
// side of those operations is undefined. Safe to call once; later calls
// report ErrRingClosed.
func (r *Ring) Close() error {
	if r.closed {
		return ErrRingClosed
	}
	r.closed = true

	err := r.mem.unmap()
	if cerr := syscall.Close(r.fd); cerr != nil && err == nil {
		err = errors.Wrap(cerr, "failed to close ring fd")
	}
	return err
}

// Fd returns the control file descriptor.
func (r *Ring) Fd() int { return r.fd }

// Params returns the setup-time negotiated configuration.
func (r *Ring) Params() Params { return Params{p: r.params} }

// SQ returns the submission queue view.
func (r *Ring) SQ() *SubmissionQueue { return r.sq }

// CQ returns the completion queue view.
func (r *Ring) CQ() *CompletionQueue { return r.cq }

// Submitter returns the enter-call interface.
func (r *Ring) Submitter() *Submitter { return r.submitter }

// Push stages a descriptor into the submission ring. This delegates to
// SubmissionQueue.Push and carries its full safety contract; see there for
// the precondition list.
func (r *Ring) Push(sqe *uring_syscall.SubmissionQueueEntry) error {
	if r.closed {
		return ErrRingClosed
	}
	return r.sq.Push(sqe)
}

// Pop removes and returns the next unread completion, if any.
func (r *Ring) Pop() (uring_syscall.CompletionQueueEvent, bool) {
	return r.cq.Pop()
}

// Submit publishes staged submissions to the kernel.
func (r *Ring) Submit() (int, error) {
	if r.closed {
		return 0, ErrRingClosed
	}
	return r.submitter.Submit()
}

// SubmitAndWait publishes staged submissions and blocks for at least
// waitNr completions.
func (r *Ring) SubmitAndWait(waitNr uint32) (int, error) {
	if r.closed {
		return 0, ErrRingClosed
	}
	return r.submitter.SubmitAndWait(waitNr)
}
