//go:build linux
// +build linux

package uring

import (
	"os"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// nsig/8 is the sigset size the kernel expects in the getevents argument.
const sigsetSize = 64 / 8

// Submitter issues the enter control call: it hands published submission
// slots to the kernel and optionally blocks until a minimum number of
// completions arrive. It is the single suspension point of the whole
// system; the queues themselves never block.
type Submitter struct {
	fd     int
	params *uring_syscall.RingParams
	sq     *SubmissionQueue
}

// Submit publishes all staged entries and tells the kernel about them
// without waiting for completions. Returns the number of submissions the
// kernel accepted; a rejected entry still produces a completion carrying
// its error code, so nothing is silently dropped.
func (s *Submitter) Submit() (int, error) {
	return s.SubmitAndWait(0)
}

// SubmitAndWait publishes all staged entries and blocks until at least
// waitNr completions are available. With waitNr zero it never blocks.
func (s *Submitter) SubmitAndWait(waitNr uint32) (int, error) {
	submitted := s.sq.flush()

	var flags uint32
	if waitNr > 0 || s.params.Flags&uring_syscall.IORING_SETUP_IOPOLL != 0 || s.sq.CQOverflow() {
		flags |= uring_syscall.IORING_ENTER_GETEVENTS
	}
	if !s.needEnter(submitted, &flags) && waitNr == 0 {
		return int(submitted), nil
	}

	n, err := uring_syscall.RingEnter(s.fd, submitted, waitNr, flags, nil)
	if err != nil {
		return 0, enterError(err)
	}
	return n, nil
}

// SubmitTimeout behaves like SubmitAndWait but bounds the wait. Requires
// the kernel's extended-argument enter support; kernels that lack it get
// ErrUnsupported before any call is issued. ErrTimerExpired reports that
// the timeout elapsed first.
func (s *Submitter) SubmitTimeout(waitNr uint32, timeout time.Duration) (int, error) {
	if s.params.Features&uring_syscall.IORING_FEAT_EXT_ARG == 0 {
		return 0, ErrUnsupported
	}

	submitted := s.sq.flush()

	flags := uring_syscall.IORING_ENTER_EXT_ARG | uring_syscall.IORING_ENTER_GETEVENTS
	s.needEnter(submitted, &flags)

	ts := uring_syscall.KernelTimespec{
		Sec:  int64(timeout / time.Second),
		Nsec: int64(timeout % time.Second),
	}
	arg := uring_syscall.GetEventsArg{
		SigmaskSz: sigsetSize,
		TS:        uint64(uintptr(unsafe.Pointer(&ts))),
	}

	n, err := uring_syscall.RingEnter2(s.fd, submitted, waitNr, flags,
		unsafe.Pointer(&arg), unsafe.Sizeof(arg))
	runtime.KeepAlive(&ts)
	if err != nil {
		return 0, enterError(err)
	}
	return n, nil
}

// Enter is the raw control call, exposed for callers that manage flags and
// arguments themselves. No staging, no flag fixup, no errno mapping beyond
// the shared classification; the caller must uphold the enter(2) contract.
func (s *Submitter) Enter(toSubmit, minComplete, flags uint32, arg unsafe.Pointer, argSize uintptr) (int, error) {
	n, err := uring_syscall.RingEnter2(s.fd, toSubmit, minComplete, flags, arg, argSize)
	if err != nil {
		return 0, enterError(err)
	}
	return n, nil
}

// needEnter decides whether the syscall can be skipped. Without SQPOLL the
// kernel only learns of new work through enter. With SQPOLL the polling
// thread picks entries up on its own unless it has gone idle, in which
// case the call must carry the wakeup flag.
func (s *Submitter) needEnter(submitted uint32, flags *uint32) bool {
	if s.params.Flags&uring_syscall.IORING_SETUP_SQPOLL == 0 {
		return submitted > 0 || *flags&uring_syscall.IORING_ENTER_GETEVENTS != 0
	}
	if s.sq.NeedWakeup() {
		*flags |= uring_syscall.IORING_ENTER_SQ_WAKEUP
		return true
	}
	return *flags&uring_syscall.IORING_ENTER_GETEVENTS != 0
}

func enterError(err error) error {
	switch err {
	case syscall.EINTR:
		return ErrInterrupted
	case syscall.ETIME:
		return ErrTimerExpired
	case syscall.EAGAIN:
		return ErrAgain
	}
	return os.NewSyscallError("io_uring_enter", err)
}
