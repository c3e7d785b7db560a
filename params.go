//go:build linux
// +build linux

package uring

import (
	uring_syscall "github.com/ringbuf/uring-go/syscall"
)

// Params is the immutable configuration negotiated at setup. The kernel
// may have adjusted any requested value, so these accessors are the only
// source of truth for ring sizes and active modes.
type Params struct {
	p *uring_syscall.RingParams
}

// SQEntries is the negotiated submission ring depth, a power of two.
func (p Params) SQEntries() uint32 { return p.p.SQEntries }

// CQEntries is the negotiated completion ring depth.
func (p Params) CQEntries() uint32 { return p.p.CQEntries }

// Flags returns the setup flags the kernel actually honored.
func (p Params) Flags() uint32 { return p.p.Flags }

// Features returns the kernel's feature bitmask.
func (p Params) Features() uint32 { return p.p.Features }

func (p Params) SQPollEnabled() bool {
	return p.p.Flags&uring_syscall.IORING_SETUP_SQPOLL != 0
}

func (p Params) IOPollEnabled() bool {
	return p.p.Flags&uring_syscall.IORING_SETUP_IOPOLL != 0
}

// SingleMmap reports whether the SQ and CQ rings share one mapping; the
// SQE array is mapped separately either way.
func (p Params) SingleMmap() bool {
	return p.p.Features&uring_syscall.IORING_FEAT_SINGLE_MMAP != 0
}

// NoDrop reports whether the kernel buffers completions internally instead
// of dropping them when the CQ ring is full.
func (p Params) NoDrop() bool {
	return p.p.Features&uring_syscall.IORING_FEAT_NODROP != 0
}

// SubmitStable reports whether submitted entry data may be reused as soon
// as the kernel consumes the SQE.
func (p Params) SubmitStable() bool {
	return p.p.Features&uring_syscall.IORING_FEAT_SUBMIT_STABLE != 0
}

// ExtArg reports whether the enter call accepts the extended argument
// block, which SubmitTimeout depends on.
func (p Params) ExtArg() bool {
	return p.p.Features&uring_syscall.IORING_FEAT_EXT_ARG != 0
}
