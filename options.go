//go:build linux
// +build linux

package uring

import (
	"time"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// RingOption adjusts the setup request. Every option is a request only:
// the kernel may clamp, upgrade or ignore it, and the outcome must be read
// back through Params.
type RingOption func(*Ring)

// WithSQPoll asks for a kernel-side submission polling thread, removing
// the enter call from the submission hot path.
func WithSQPoll() RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_SQPOLL
	}
}

// WithSQPollThreadCPU pins the polling thread to the given CPU.
func WithSQPollThreadCPU(cpu uint32) RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_SQ_AFF
		r.params.SQThreadCPU = cpu
	}
}

// WithSQPollThreadIdle sets how long the polling thread busy-waits without
// new submissions before it sleeps and starts requiring wakeups.
func WithSQPollThreadIdle(idle time.Duration) RingOption {
	return func(r *Ring) {
		r.params.SQThreadIdle = uint32(idle / time.Millisecond)
	}
}

// WithIOPoll selects busy-poll completion mode instead of interrupts; only
// valid with files opened for polled I/O.
func WithIOPoll() RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_IOPOLL
	}
}

// WithCQSize requests a completion ring deeper than the default 2x the
// submission depth.
func WithCQSize(size uint32) RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_CQSIZE
		r.params.CQEntries = size
	}
}

// WithClamp clamps oversized depth requests to the kernel maximum instead
// of failing setup.
func WithClamp() RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_CLAMP
	}
}

// WithAttachWQ shares the async worker pool of an existing ring.
func WithAttachWQ(fd int) RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_ATTACH_WQ
		r.params.WQFd = uint32(fd)
	}
}

// WithSingleIssuer promises that only the setup task will ever submit,
// letting the kernel skip cross-task synchronization.
func WithSingleIssuer() RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_SINGLE_ISSUER
	}
}

// WithDisabledRings creates the ring in a disabled state; restrictions can
// be installed before RegisterEnableRings arms it.
func WithDisabledRings() RingOption {
	return func(r *Ring) {
		r.params.Flags |= uring_syscall.IORING_SETUP_R_DISABLED
	}
}

// WithFileTable preallocates a fixed file table of n slots during setup;
// retrieve it with Ring.FileTable.
func WithFileTable(n uint32) RingOption {
	return func(r *Ring) {
		r.fileTableSize = n
	}
}
