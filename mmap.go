//go:build linux
// +build linux

package uring

import (
	"syscall"
	"unsafe"

	"github.com/pkg/errors"

	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// memoryRegion is one mmapped range shared with the kernel. It exclusively
// owns the address range; the queue views hold derived pointers into it and
// are valid only while the region stays mapped.
type memoryRegion struct {
	ptr  uintptr
	size uintptr
}

func mapRegion(fd int, size uintptr, offset uint64) (memoryRegion, error) {
	ptr, _, errno := syscall.Syscall6(
		syscall.SYS_MMAP,
		0,
		size,
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_SHARED|syscall.MAP_POPULATE,
		uintptr(fd),
		uintptr(offset),
	)
	if errno != 0 {
		return memoryRegion{}, errno
	}
	return memoryRegion{ptr: ptr, size: size}, nil
}

func (r *memoryRegion) field(off uint32) *uint32 {
	return (*uint32)(unsafe.Pointer(r.ptr + uintptr(off)))
}

func (r *memoryRegion) unmap() error {
	if r.ptr == 0 {
		return nil
	}
	_, _, errno := syscall.Syscall(syscall.SYS_MUNMAP, r.ptr, r.size, 0)
	r.ptr = 0
	if errno != 0 {
		return errno
	}
	return nil
}

// ringMemory holds the mapped regions backing one ring instance: the SQ
// index ring, the CQ ring (absent when the kernel collapses both into a
// single mapping) and the SQE array.
type ringMemory struct {
	sqRing  memoryRegion
	cqRing  memoryRegion
	sqeRing memoryRegion
}

// mapRing maps the regions at the kernel-reported offsets and builds the
// queue views over them. On any failure the partially created mappings are
// torn down before returning; a mapping failure is fatal to construction.
func mapRing(fd int, params *uring_syscall.RingParams) (*ringMemory, *SubmissionQueue, *CompletionQueue, error) {
	mem := new(ringMemory)

	sqSize := uintptr(params.SQOffset.Array) + uintptr(params.SQEntries)*unsafe.Sizeof(uint32(0))
	cqSize := uintptr(params.CQOffset.CQEs) + uintptr(params.CQEntries)*uintptr(uring_syscall.CQESize)

	singleMmap := params.Features&uring_syscall.IORING_FEAT_SINGLE_MMAP != 0
	if singleMmap && cqSize > sqSize {
		sqSize = cqSize
	}

	var err error
	mem.sqRing, err = mapRegion(fd, sqSize, uring_syscall.IORING_OFF_SQ_RING)
	if err != nil {
		return nil, nil, nil, errors.Wrap(err, "failed to mmap sq ring")
	}

	cqRegion := &mem.sqRing
	if !singleMmap {
		mem.cqRing, err = mapRegion(fd, cqSize, uring_syscall.IORING_OFF_CQ_RING)
		if err != nil {
			mem.unmap()
			return nil, nil, nil, errors.Wrap(err, "failed to mmap cq ring")
		}
		cqRegion = &mem.cqRing
	}

	sqeSize := uintptr(params.SQEntries) * uintptr(uring_syscall.SQESize)
	mem.sqeRing, err = mapRegion(fd, sqeSize, uring_syscall.IORING_OFF_SQES)
	if err != nil {
		mem.unmap()
		return nil, nil, nil, errors.Wrap(err, "failed to mmap sqe array")
	}

	sq := newSubmissionQueue(&mem.sqRing, &mem.sqeRing, params)
	cq := newCompletionQueue(cqRegion, params)
	return mem, sq, cq, nil
}

// unmap releases every mapped region. Idempotent, so teardown can run on
// both the partial-setup failure path and the normal Close path.
func (m *ringMemory) unmap() error {
	var err error
	for _, r := range []*memoryRegion{&m.sqeRing, &m.cqRing, &m.sqRing} {
		if e := r.unmap(); e != nil && err == nil {
			err = errors.Wrap(e, "failed to munmap ring region")
		}
	}
	return err
}
