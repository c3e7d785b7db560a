//go:build linux
// +build linux

package uring_syscall

import (
	"os"
	"syscall"
	"unsafe"
)

// RingSetup creates the kernel-side rings and returns the control file
// descriptor. The kernel fills params with the negotiated ring sizes,
// feature bits and mmap offsets.
func RingSetup(entries uint32, params *RingParams) (int, error) {
	fd, _, errno := syscall.RawSyscall(
		SYS_IO_URING_SETUP,
		uintptr(entries),
		uintptr(unsafe.Pointer(params)),
		0,
	)
	if errno != 0 {
		return int(fd), os.NewSyscallError("io_uring_setup", errno)
	}
	return int(fd), nil
}
