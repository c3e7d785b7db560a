//go:build linux
// +build linux

package uring_syscall

import "unsafe"

const (
	SYS_IO_URING_SETUP    = 425
	SYS_IO_URING_ENTER    = 426
	SYS_IO_URING_REGISTER = 427
)

// mmap offsets for the three ring regions
const (
	IORING_OFF_SQ_RING uint64 = 0
	IORING_OFF_CQ_RING uint64 = 0x8000000
	IORING_OFF_SQES    uint64 = 0x10000000
)

const (
	IORING_OP_NOP uint8 = iota
	IORING_OP_READV
	IORING_OP_WRITEV
	IORING_OP_FSYNC
	IORING_OP_READ_FIXED
	IORING_OP_WRITE_FIXED
	IORING_OP_POLL_ADD
	IORING_OP_POLL_REMOVE
	IORING_OP_SYNC_FILE_RANGE
	IORING_OP_SENDMSG
	IORING_OP_RECVMSG
	IORING_OP_TIMEOUT
	IORING_OP_TIMEOUT_REMOVE
	IORING_OP_ACCEPT
	IORING_OP_ASYNC_CANCEL
	IORING_OP_LINK_TIMEOUT
	IORING_OP_CONNECT
	IORING_OP_FALLOCATE
	IORING_OP_OPENAT
	IORING_OP_CLOSE
	IORING_OP_FILES_UPDATE
	IORING_OP_STATX
	IORING_OP_READ
	IORING_OP_WRITE
	IORING_OP_FADVISE
	IORING_OP_MADVISE
	IORING_OP_SEND
	IORING_OP_RECV
	IORING_OP_OPENAT2
	IORING_OP_EPOLL_CTL
	IORING_OP_SPLICE
	IORING_OP_PROVIDE_BUFFERS
	IORING_OP_REMOVE_BUFFERS
	IORING_OP_TEE
	IORING_OP_SHUTDOWN
	IORING_OP_RENAMEAT
	IORING_OP_UNLINKAT
	IORING_OP_MKDIRAT
	IORING_OP_SYMLINKAT
	IORING_OP_LINKAT
)

// io_uring_setup flags
const (
	IORING_SETUP_IOPOLL uint32 = 1 << iota
	IORING_SETUP_SQPOLL
	IORING_SETUP_SQ_AFF
	IORING_SETUP_CQSIZE
	IORING_SETUP_CLAMP
	IORING_SETUP_ATTACH_WQ
	IORING_SETUP_R_DISABLED
	IORING_SETUP_SUBMIT_ALL
	IORING_SETUP_COOP_TASKRUN
	IORING_SETUP_TASKRUN_FLAG
	IORING_SETUP_SQE128
	IORING_SETUP_CQE32
	IORING_SETUP_SINGLE_ISSUER
	IORING_SETUP_DEFER_TASKRUN
)

// features reported back in RingParams.Features
const (
	IORING_FEAT_SINGLE_MMAP uint32 = 1 << iota
	IORING_FEAT_NODROP
	IORING_FEAT_SUBMIT_STABLE
	IORING_FEAT_RW_CUR_POS
	IORING_FEAT_CUR_PERSONALITY
	IORING_FEAT_FAST_POLL
	IORING_FEAT_POLL_32BITS
	IORING_FEAT_SQPOLL_NONFIXED
	IORING_FEAT_EXT_ARG
	IORING_FEAT_NATIVE_WORKERS
	IORING_FEAT_RSRC_TAGS
	IORING_FEAT_CQE_SKIP
	IORING_FEAT_LINKED_FILE
)

// submission entry flags
const (
	IOSQE_FIXED_FILE uint8 = 1 << iota
	IOSQE_IO_DRAIN
	IOSQE_IO_LINK
	IOSQE_IO_HARDLINK
	IOSQE_ASYNC
	IOSQE_BUFFER_SELECT
	IOSQE_CQE_SKIP_SUCCESS
)

// SQ ring flags, written by the kernel
const (
	IORING_SQ_NEED_WAKEUP uint32 = 1 << iota
	IORING_SQ_CQ_OVERFLOW
	IORING_SQ_TASKRUN
)

// completion entry flags
const (
	IORING_CQE_F_BUFFER uint32 = 1 << iota
	IORING_CQE_F_MORE
	IORING_CQE_F_SOCK_NONEMPTY
	IORING_CQE_F_NOTIF
)

const IORING_CQE_BUFFER_SHIFT = 16

// io_uring_enter flags
const (
	IORING_ENTER_GETEVENTS uint32 = 1 << iota
	IORING_ENTER_SQ_WAKEUP
	IORING_ENTER_SQ_WAIT
	IORING_ENTER_EXT_ARG
	IORING_ENTER_REGISTERED_RING
)

// io_uring_register opcodes
const (
	IORING_REGISTER_BUFFERS uint32 = iota
	IORING_UNREGISTER_BUFFERS
	IORING_REGISTER_FILES
	IORING_UNREGISTER_FILES
	IORING_REGISTER_EVENTFD
	IORING_UNREGISTER_EVENTFD
	IORING_REGISTER_FILES_UPDATE
	IORING_REGISTER_EVENTFD_ASYNC
	IORING_REGISTER_PROBE
	IORING_REGISTER_PERSONALITY
	IORING_UNREGISTER_PERSONALITY
	IORING_REGISTER_RESTRICTIONS
	IORING_REGISTER_ENABLE_RINGS
	IORING_REGISTER_FILES2
	IORING_REGISTER_FILES_UPDATE2
	IORING_REGISTER_BUFFERS2
	IORING_REGISTER_BUFFERS_UPDATE
	IORING_REGISTER_IOWQ_AFF
	IORING_UNREGISTER_IOWQ_AFF
	IORING_REGISTER_IOWQ_MAX_WORKERS
	IORING_REGISTER_RING_FDS
	IORING_UNREGISTER_RING_FDS
	IORING_REGISTER_PBUF_RING
	IORING_UNREGISTER_PBUF_RING
	IORING_REGISTER_SYNC_CANCEL
	IORING_REGISTER_FILE_ALLOC_RANGE
)

const IORING_RSRC_REGISTER_SPARSE uint32 = 1 << 0

const IORING_FSYNC_DATASYNC uint32 = 1
const IORING_TIMEOUT_ABS uint32 = 1

// RingParams is the io_uring_params block exchanged with the setup call.
// The request fields may be adjusted by the kernel; callers must read the
// negotiated values back instead of assuming the request was honored.
type RingParams struct {
	SQEntries    uint32
	CQEntries    uint32
	Flags        uint32
	SQThreadCPU  uint32
	SQThreadIdle uint32
	Features     uint32
	WQFd         uint32
	Resv         [3]uint32

	SQOffset SQRingOffsets
	CQOffset CQRingOffsets
}

// SQRingOffsets locates the submission ring fields inside the SQ mapping.
type SQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Flags       uint32
	Dropped     uint32
	Array       uint32
	Resv1       uint32
	Resv2       uint64
}

// CQRingOffsets locates the completion ring fields inside the CQ mapping.
type CQRingOffsets struct {
	Head        uint32
	Tail        uint32
	RingMask    uint32
	RingEntries uint32
	Overflow    uint32
	CQEs        uint32
	Flags       uint32
	Resv1       uint32
	Resv2       uint64
}

// SubmissionQueueEntry is the 64-byte descriptor handed to the kernel.
// Field layout matches struct io_uring_sqe exactly; several fields are
// unions reinterpreted per opcode (offset/addr2, addr/splice_off_in,
// opFlags, bufIndexOrGroup). The accessors expose the per-opcode views;
// nothing validates that the view matches the opcode, the kernel neither
// knows nor enforces which union member is active.
type SubmissionQueueEntry struct {
	opcode          uint8
	flags           uint8
	ioprio          uint16
	fd              int32
	offset          uint64
	addr            uint64
	len             uint32
	opFlags         uint32
	userData        uint64
	bufIndexOrGroup uint16
	personality     uint16
	spliceFdIn      int32
	extra           [2]uint64
}

// Reset zeroes the entry so a recycled ring slot never leaks stale fields
// into the next operation.
func (sqe *SubmissionQueueEntry) Reset() {
	*sqe = SubmissionQueueEntry{}
}

// PrepOperation fills the fields common to every opcode.
func (sqe *SubmissionQueueEntry) PrepOperation(op uint8, fd int32, addr uint64, len uint32, offset uint64) {
	sqe.opcode = op
	sqe.fd = fd
	sqe.addr = addr
	sqe.len = len
	sqe.offset = offset
}

func (sqe *SubmissionQueueEntry) Opcode() uint8 { return sqe.opcode }

func (sqe *SubmissionQueueEntry) Fd() int32 { return sqe.fd }

// SetFdIndex retargets the entry at a fixed-file table slot instead of a
// process file descriptor.
func (sqe *SubmissionQueueEntry) SetFdIndex(index int32) {
	sqe.fd = index
	sqe.flags |= IOSQE_FIXED_FILE
}

func (sqe *SubmissionQueueEntry) Flags() uint8 { return sqe.flags }

func (sqe *SubmissionQueueEntry) SetFlags(flags uint8) { sqe.flags |= flags }

func (sqe *SubmissionQueueEntry) ClearFlags(flags uint8) { sqe.flags &^= flags }

func (sqe *SubmissionQueueEntry) UserData() uint64 { return sqe.userData }

// SetUserData records the caller's correlation tag; the kernel echoes it
// back verbatim in the matching completion entry.
func (sqe *SubmissionQueueEntry) SetUserData(userData uint64) { sqe.userData = userData }

func (sqe *SubmissionQueueEntry) Addr() uint64 { return sqe.addr }

func (sqe *SubmissionQueueEntry) SetAddr(addr uint64) { sqe.addr = addr }

// SetAddr2 writes the second address union member (shares storage with the
// file offset).
func (sqe *SubmissionQueueEntry) SetAddr2(addr2 uint64) { sqe.offset = addr2 }

func (sqe *SubmissionQueueEntry) Len() uint32 { return sqe.len }

func (sqe *SubmissionQueueEntry) SetLen(len uint32) { sqe.len = len }

func (sqe *SubmissionQueueEntry) Offset() uint64 { return sqe.offset }

func (sqe *SubmissionQueueEntry) SetOffset(offset uint64) { sqe.offset = offset }

func (sqe *SubmissionQueueEntry) OpFlags() uint32 { return sqe.opFlags }

// SetOpFlags writes the per-opcode flag word (fsync flags, timeout flags,
// recv/send flags and so on, depending on the opcode).
func (sqe *SubmissionQueueEntry) SetOpFlags(opFlags uint32) { sqe.opFlags = opFlags }

func (sqe *SubmissionQueueEntry) SetIoprio(ioprio uint16) { sqe.ioprio = ioprio }

func (sqe *SubmissionQueueEntry) BufIndex() uint16 { return sqe.bufIndexOrGroup }

// SetBufIndex selects a fixed-buffer table slot; meaningful only with the
// READ_FIXED/WRITE_FIXED opcodes.
func (sqe *SubmissionQueueEntry) SetBufIndex(index uint16) { sqe.bufIndexOrGroup = index }

// SetBufGroup selects a provided-buffer group; shares storage with the
// fixed-buffer index.
func (sqe *SubmissionQueueEntry) SetBufGroup(group uint16) { sqe.bufIndexOrGroup = group }

func (sqe *SubmissionQueueEntry) SetPersonality(personality uint16) { sqe.personality = personality }

func (sqe *SubmissionQueueEntry) SetSpliceFdIn(fd int32) { sqe.spliceFdIn = fd }

// CompletionQueueEvent is the 16-byte completion record produced by the
// kernel. Read-only to userspace.
type CompletionQueueEvent struct {
	UserData uint64
	Result   int32
	Flags    uint32
}

// More reports whether further completions for the same submission will
// follow (multi-shot operations). The completion stream for one submission
// ends with the first event that clears this flag.
func (cqe *CompletionQueueEvent) More() bool {
	return cqe.Flags&IORING_CQE_F_MORE != 0
}

// BufferID returns the provided-buffer id carried in the flags word, if one
// was selected for this completion.
func (cqe *CompletionQueueEvent) BufferID() (uint16, bool) {
	if cqe.Flags&IORING_CQE_F_BUFFER == 0 {
		return 0, false
	}
	return uint16(cqe.Flags >> IORING_CQE_BUFFER_SHIFT), true
}

// FilesUpdate is the io_uring_files_update argument for
// IORING_REGISTER_FILES_UPDATE.
type FilesUpdate struct {
	Offset uint32
	resv   uint32
	Fds    *int32
}

// RsrcRegister is the io_uring_rsrc_register argument for the
// REGISTER_FILES2/REGISTER_BUFFERS2 opcodes; with
// IORING_RSRC_REGISTER_SPARSE it allocates an empty table.
type RsrcRegister struct {
	Nr    uint32
	Flags uint32
	Resv2 uint64
	Data  uint64
	Tags  uint64
}

// ProbeOpsCount is the number of probe slots registered with
// IORING_REGISTER_PROBE.
const ProbeOpsCount = 256

// Probe is the io_uring_probe result block: which opcodes the running
// kernel build supports.
type Probe struct {
	LastOp uint8
	OpsLen uint8
	resv   uint16
	resv2  [3]uint32
	Ops    [ProbeOpsCount]ProbeOp
}

type ProbeOp struct {
	Op    uint8
	resv  uint8
	Flags uint16
	resv2 uint32
}

const IO_URING_OP_SUPPORTED uint16 = 1 << 0

// IsSupported reports whether the kernel accepts the opcode.
func (p *Probe) IsSupported(op uint8) bool {
	if op > p.LastOp {
		return false
	}
	return p.Ops[op].Flags&IO_URING_OP_SUPPORTED != 0
}

// KernelTimespec is struct __kernel_timespec: 64-bit on every ABI,
// unlike syscall.Timespec on 32-bit platforms.
type KernelTimespec struct {
	Sec  int64
	Nsec int64
}

// GetEventsArg is the io_uring_getevents_arg block passed to the enter call
// when IORING_ENTER_EXT_ARG is set; carries an optional signal mask and an
// optional wait timeout.
type GetEventsArg struct {
	Sigmask   uint64
	SigmaskSz uint32
	pad       uint32
	TS        uint64
}

var (
	SQESize = uint32(unsafe.Sizeof(SubmissionQueueEntry{}))
	CQESize = uint32(unsafe.Sizeof(CompletionQueueEvent{}))
)
