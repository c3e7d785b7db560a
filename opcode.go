//go:build linux
// +build linux

package uring

import (
	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// Operation kinds, re-exported so most callers never import the syscall
// package directly.
const (
	OpNop           = uring_syscall.IORING_OP_NOP
	OpReadv         = uring_syscall.IORING_OP_READV
	OpWritev        = uring_syscall.IORING_OP_WRITEV
	OpFsync         = uring_syscall.IORING_OP_FSYNC
	OpReadFixed     = uring_syscall.IORING_OP_READ_FIXED
	OpWriteFixed    = uring_syscall.IORING_OP_WRITE_FIXED
	OpPollAdd       = uring_syscall.IORING_OP_POLL_ADD
	OpPollRemove    = uring_syscall.IORING_OP_POLL_REMOVE
	OpSyncFileRange = uring_syscall.IORING_OP_SYNC_FILE_RANGE
	OpSendmsg       = uring_syscall.IORING_OP_SENDMSG
	OpRecvmsg       = uring_syscall.IORING_OP_RECVMSG
	OpTimeout       = uring_syscall.IORING_OP_TIMEOUT
	OpTimeoutRemove = uring_syscall.IORING_OP_TIMEOUT_REMOVE
	OpAccept        = uring_syscall.IORING_OP_ACCEPT
	OpAsyncCancel   = uring_syscall.IORING_OP_ASYNC_CANCEL
	OpLinkTimeout   = uring_syscall.IORING_OP_LINK_TIMEOUT
	OpConnect       = uring_syscall.IORING_OP_CONNECT
	OpFallocate     = uring_syscall.IORING_OP_FALLOCATE
	OpOpenat        = uring_syscall.IORING_OP_OPENAT
	OpClose         = uring_syscall.IORING_OP_CLOSE
	OpFilesUpdate   = uring_syscall.IORING_OP_FILES_UPDATE
	OpStatx         = uring_syscall.IORING_OP_STATX
	OpRead          = uring_syscall.IORING_OP_READ
	OpWrite         = uring_syscall.IORING_OP_WRITE
	OpFadvise       = uring_syscall.IORING_OP_FADVISE
	OpMadvise       = uring_syscall.IORING_OP_MADVISE
	OpSend          = uring_syscall.IORING_OP_SEND
	OpRecv          = uring_syscall.IORING_OP_RECV
	OpOpenat2       = uring_syscall.IORING_OP_OPENAT2
	OpEpollCtl      = uring_syscall.IORING_OP_EPOLL_CTL
	OpSplice        = uring_syscall.IORING_OP_SPLICE
	OpProvideBufs   = uring_syscall.IORING_OP_PROVIDE_BUFFERS
	OpRemoveBufs    = uring_syscall.IORING_OP_REMOVE_BUFFERS
	OpTee           = uring_syscall.IORING_OP_TEE
	OpShutdown      = uring_syscall.IORING_OP_SHUTDOWN
	OpRenameat      = uring_syscall.IORING_OP_RENAMEAT
	OpUnlinkat      = uring_syscall.IORING_OP_UNLINKAT
	OpMkdirat       = uring_syscall.IORING_OP_MKDIRAT
	OpSymlinkat     = uring_syscall.IORING_OP_SYMLINKAT
	OpLinkat        = uring_syscall.IORING_OP_LINKAT
)

// Entry flags, re-exported for the same reason.
const (
	FlagFixedFile    = uring_syscall.IOSQE_FIXED_FILE
	FlagIODrain      = uring_syscall.IOSQE_IO_DRAIN
	FlagIOLink       = uring_syscall.IOSQE_IO_LINK
	FlagIOHardlink   = uring_syscall.IOSQE_IO_HARDLINK
	FlagAsync        = uring_syscall.IOSQE_ASYNC
	FlagBufferSelect = uring_syscall.IOSQE_BUFFER_SELECT
)
