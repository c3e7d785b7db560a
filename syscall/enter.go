//go:build linux
// +build linux

package uring_syscall

import (
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"
)

// RingEnter notifies the kernel of toSubmit newly published submission
// slots and, with IORING_ENTER_GETEVENTS, blocks until minComplete
// completions are available. The raw errno is returned unwrapped so callers
// can classify EINTR/ETIME/EAGAIN.
func RingEnter(fd int, toSubmit, minComplete, flags uint32, sigset *unix.Sigset_t) (int, error) {
	var sz uintptr
	if sigset != nil {
		sz = unsafe.Sizeof(*sigset)
	}
	return RingEnter2(fd, toSubmit, minComplete, flags, unsafe.Pointer(sigset), sz)
}

// RingEnter2 is the full six-argument enter call. With
// IORING_ENTER_EXT_ARG, arg points to a GetEventsArg and argSize is its
// size; otherwise arg is an optional signal mask.
func RingEnter2(fd int, toSubmit, minComplete, flags uint32, arg unsafe.Pointer, argSize uintptr) (int, error) {
	res, _, errno := syscall.Syscall6(
		SYS_IO_URING_ENTER,
		uintptr(fd),
		uintptr(toSubmit),
		uintptr(minComplete),
		uintptr(flags),
		uintptr(arg),
		argSize,
	)
	if errno != 0 {
		return 0, errno
	}
	return int(res), nil
}
