//go:build linux
// +build linux

package uring_syscall

import (
	"testing"
	"unsafe"
)

// The kernel ABI leaves no room for layout drift: any size or offset
// mismatch corrupts the shared rings.

func TestStructSizes(t *testing.T) {
	for _, tc := range []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"io_uring_sqe", unsafe.Sizeof(SubmissionQueueEntry{}), 64},
		{"io_uring_cqe", unsafe.Sizeof(CompletionQueueEvent{}), 16},
		{"io_uring_params", unsafe.Sizeof(RingParams{}), 120},
		{"io_sqring_offsets", unsafe.Sizeof(SQRingOffsets{}), 40},
		{"io_cqring_offsets", unsafe.Sizeof(CQRingOffsets{}), 40},
		{"io_uring_files_update", unsafe.Sizeof(FilesUpdate{}), 16},
		{"io_uring_rsrc_register", unsafe.Sizeof(RsrcRegister{}), 32},
		{"io_uring_getevents_arg", unsafe.Sizeof(GetEventsArg{}), 24},
		{"__kernel_timespec", unsafe.Sizeof(KernelTimespec{}), 16},
		{"io_uring_probe_op", unsafe.Sizeof(ProbeOp{}), 8},
		{"io_uring_probe", unsafe.Sizeof(Probe{}), 16 + ProbeOpsCount*8},
	} {
		if tc.got != tc.want {
			t.Errorf("sizeof(%s) = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestSQEFieldOffsets(t *testing.T) {
	var sqe SubmissionQueueEntry
	for _, tc := range []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"opcode", unsafe.Offsetof(sqe.opcode), 0},
		{"flags", unsafe.Offsetof(sqe.flags), 1},
		{"ioprio", unsafe.Offsetof(sqe.ioprio), 2},
		{"fd", unsafe.Offsetof(sqe.fd), 4},
		{"off", unsafe.Offsetof(sqe.offset), 8},
		{"addr", unsafe.Offsetof(sqe.addr), 16},
		{"len", unsafe.Offsetof(sqe.len), 24},
		{"op_flags", unsafe.Offsetof(sqe.opFlags), 28},
		{"user_data", unsafe.Offsetof(sqe.userData), 32},
		{"buf_index", unsafe.Offsetof(sqe.bufIndexOrGroup), 40},
		{"personality", unsafe.Offsetof(sqe.personality), 42},
		{"splice_fd_in", unsafe.Offsetof(sqe.spliceFdIn), 44},
	} {
		if tc.got != tc.want {
			t.Errorf("offsetof(%s) = %d, want %d", tc.name, tc.got, tc.want)
		}
	}
}

func TestEntryAccessors(t *testing.T) {
	var sqe SubmissionQueueEntry
	sqe.PrepOperation(IORING_OP_READ_FIXED, 3, 0xdeadbeef, 4096, 512)
	sqe.SetUserData(^uint64(0))
	sqe.SetBufIndex(1)
	sqe.SetOpFlags(IORING_FSYNC_DATASYNC)
	sqe.SetIoprio(7)
	sqe.SetPersonality(2)
	sqe.SetSpliceFdIn(-1)

	if sqe.Opcode() != IORING_OP_READ_FIXED {
		t.Errorf("opcode = %d", sqe.Opcode())
	}
	if sqe.Fd() != 3 || sqe.Addr() != 0xdeadbeef || sqe.Len() != 4096 || sqe.Offset() != 512 {
		t.Errorf("common fields: fd=%d addr=%#x len=%d off=%d",
			sqe.Fd(), sqe.Addr(), sqe.Len(), sqe.Offset())
	}
	if sqe.UserData() != ^uint64(0) {
		t.Errorf("user data = %#x, want all ones", sqe.UserData())
	}
	if sqe.BufIndex() != 1 {
		t.Errorf("buf index = %d, want 1", sqe.BufIndex())
	}
	if sqe.OpFlags() != IORING_FSYNC_DATASYNC {
		t.Errorf("op flags = %#x", sqe.OpFlags())
	}

	sqe.Reset()
	if sqe != (SubmissionQueueEntry{}) {
		t.Error("reset left residual fields")
	}
}

func TestFixedFileRetarget(t *testing.T) {
	var sqe SubmissionQueueEntry
	sqe.PrepOperation(IORING_OP_READ, 9, 0, 64, 0)

	sqe.SetFdIndex(1)
	if sqe.Fd() != 1 {
		t.Errorf("fd after retarget = %d, want table index 1", sqe.Fd())
	}
	if sqe.Flags()&IOSQE_FIXED_FILE == 0 {
		t.Error("fixed-file flag not set by SetFdIndex")
	}

	sqe.ClearFlags(IOSQE_FIXED_FILE)
	if sqe.Flags()&IOSQE_FIXED_FILE != 0 {
		t.Error("fixed-file flag survived ClearFlags")
	}
}

func TestCQEFlagDecoding(t *testing.T) {
	cqe := CompletionQueueEvent{
		Flags: IORING_CQE_F_BUFFER | IORING_CQE_F_MORE | 5<<IORING_CQE_BUFFER_SHIFT,
	}
	if !cqe.More() {
		t.Error("More() = false with F_MORE set")
	}
	id, ok := cqe.BufferID()
	if !ok || id != 5 {
		t.Errorf("BufferID() = (%d, %v), want (5, true)", id, ok)
	}

	cqe.Flags = 0
	if cqe.More() {
		t.Error("More() = true with no flags")
	}
	if _, ok := cqe.BufferID(); ok {
		t.Error("BufferID() reported a buffer with no F_BUFFER flag")
	}
}

func TestProbeSupport(t *testing.T) {
	var probe Probe
	probe.LastOp = IORING_OP_WRITE
	probe.Ops[IORING_OP_NOP] = ProbeOp{Op: IORING_OP_NOP, Flags: IO_URING_OP_SUPPORTED}
	probe.Ops[IORING_OP_READV] = ProbeOp{Op: IORING_OP_READV}

	if !probe.IsSupported(IORING_OP_NOP) {
		t.Error("NOP not reported supported")
	}
	if probe.IsSupported(IORING_OP_READV) {
		t.Error("READV reported supported without the flag")
	}
	if probe.IsSupported(IORING_OP_LINKAT) {
		t.Error("opcode beyond LastOp reported supported")
	}
}
