//go:build linux
// +build linux

package uring_syscall

import (
	"syscall"
	"unsafe"
)

// RingRegister registers or unregisters auxiliary resources (fixed
// buffers, file tables, eventfd, probe, ...) against the ring's file
// descriptor. EINTR is retried; any other errno is returned unwrapped for
// the caller to classify. The first syscall return value is passed through
// for opcodes that report one (personality ids, update counts).
func RingRegister(fd int, opcode uint32, arg unsafe.Pointer, nrArgs uint32) (uint32, error) {
	for {
		res, _, errno := syscall.Syscall6(
			SYS_IO_URING_REGISTER,
			uintptr(fd),
			uintptr(opcode),
			uintptr(arg),
			uintptr(nrArgs),
			0,
			0,
		)
		if errno != 0 {
			if errno == syscall.EINTR {
				continue
			}
			return 0, errno
		}
		return uint32(res), nil
	}
}
