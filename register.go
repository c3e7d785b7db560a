//go:build linux
// +build linux

package uring

import (
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// Registration mutates kernel state scoped to this ring's file descriptor
// only; independent ring instances never share registration tables.

// RegisterBuffers pins the given regions as the ring's fixed buffer table.
// Slot i is then addressable from READ_FIXED/WRITE_FIXED entries through
// SetBufIndex(i).
//
// The kernel holds the raw addresses until unregistration or ring
// teardown: callers must keep every buffer reachable so it is neither
// collected nor moved while registered.
func (r *Ring) RegisterBuffers(buffers [][]byte) error {
	if len(buffers) == 0 {
		return nil
	}
	iovecs := make([]unix.Iovec, len(buffers))
	for i, b := range buffers {
		iovecs[i].Base = &b[0]
		iovecs[i].SetLen(len(b))
	}
	return r.register(uring_syscall.IORING_REGISTER_BUFFERS,
		unsafe.Pointer(&iovecs[0]), uint32(len(iovecs)))
}

// UnregisterBuffers releases the fixed buffer table.
func (r *Ring) UnregisterBuffers() error {
	return r.register(uring_syscall.IORING_UNREGISTER_BUFFERS, nil, 0)
}

// RegisterFiles installs fds as the ring's fixed file table. A slot may be
// -1 and filled in later with RegisterFilesUpdate. Entries carrying
// IOSQE_FIXED_FILE then interpret their fd field as an index into this
// table.
func (r *Ring) RegisterFiles(fds []int32) error {
	if len(fds) == 0 {
		return nil
	}
	return r.register(uring_syscall.IORING_REGISTER_FILES,
		unsafe.Pointer(&fds[0]), uint32(len(fds)))
}

// RegisterFilesSparse allocates an empty table of n slots without passing
// any descriptors (REGISTER_FILES2 with the sparse flag, kernels 5.19+).
func (r *Ring) RegisterFilesSparse(n uint32) error {
	rr := uring_syscall.RsrcRegister{
		Nr:    n,
		Flags: uring_syscall.IORING_RSRC_REGISTER_SPARSE,
	}
	return r.register(uring_syscall.IORING_REGISTER_FILES2,
		unsafe.Pointer(&rr), uint32(unsafe.Sizeof(rr)))
}

// RegisterFilesUpdate replaces table slots starting at offset: -1 clears a
// slot, a valid fd fills it. Returns the number of slots updated.
func (r *Ring) RegisterFilesUpdate(offset uint32, fds []int32) (int, error) {
	if len(fds) == 0 {
		return 0, nil
	}
	update := uring_syscall.FilesUpdate{
		Offset: offset,
		Fds:    &fds[0],
	}
	n, err := uring_syscall.RingRegister(r.fd,
		uring_syscall.IORING_REGISTER_FILES_UPDATE,
		unsafe.Pointer(&update), uint32(len(fds)))
	if err != nil {
		return 0, registerError(err)
	}
	return int(n), nil
}

// UnregisterFiles releases the fixed file table.
func (r *Ring) UnregisterFiles() error {
	return r.register(uring_syscall.IORING_UNREGISTER_FILES, nil, 0)
}

// RegisterEventfd asks the kernel to signal fd for every new completion.
func (r *Ring) RegisterEventfd(fd int) error {
	efd := int32(fd)
	return r.register(uring_syscall.IORING_REGISTER_EVENTFD,
		unsafe.Pointer(&efd), 1)
}

// RegisterEventfdAsync is RegisterEventfd restricted to completions that
// finished asynchronously; inline completions post no notification.
func (r *Ring) RegisterEventfdAsync(fd int) error {
	efd := int32(fd)
	return r.register(uring_syscall.IORING_REGISTER_EVENTFD_ASYNC,
		unsafe.Pointer(&efd), 1)
}

// UnregisterEventfd stops completion notifications.
func (r *Ring) UnregisterEventfd() error {
	return r.register(uring_syscall.IORING_UNREGISTER_EVENTFD, nil, 0)
}

// RegisterProbe fills an opcode-support table for the running kernel.
func (r *Ring) RegisterProbe() (*uring_syscall.Probe, error) {
	probe := new(uring_syscall.Probe)
	if err := r.register(uring_syscall.IORING_REGISTER_PROBE,
		unsafe.Pointer(probe), uring_syscall.ProbeOpsCount); err != nil {
		return nil, err
	}
	return probe, nil
}

// RegisterPersonality records the current task's credentials and returns
// an id that entries can carry via SetPersonality.
func (r *Ring) RegisterPersonality() (uint16, error) {
	id, err := uring_syscall.RingRegister(r.fd,
		uring_syscall.IORING_REGISTER_PERSONALITY, nil, 0)
	if err != nil {
		return 0, registerError(err)
	}
	return uint16(id), nil
}

// UnregisterPersonality drops a previously registered credential id.
func (r *Ring) UnregisterPersonality(id uint16) error {
	return r.register(uring_syscall.IORING_UNREGISTER_PERSONALITY, nil, uint32(id))
}

// RegisterEnableRings activates a ring created with WithDisabledRings.
func (r *Ring) RegisterEnableRings() error {
	return r.register(uring_syscall.IORING_REGISTER_ENABLE_RINGS, nil, 0)
}

func (r *Ring) register(opcode uint32, arg unsafe.Pointer, nrArgs uint32) error {
	_, err := uring_syscall.RingRegister(r.fd, opcode, arg, nrArgs)
	return registerError(err)
}

// registerError classifies register(2) failures: the kernel answers EBUSY
// for a conflicting re-registration and EINVAL/EOPNOTSUPP when it does not
// know the requested kind.
func registerError(err error) error {
	switch err {
	case nil:
		return nil
	case syscall.EBUSY:
		return ErrAlreadyRegistered
	case syscall.EINVAL, syscall.EOPNOTSUPP:
		return ErrUnsupported
	}
	return os.NewSyscallError("io_uring_register", err)
}
