//go:build linux
// +build linux

package uring

import "errors"

var (
	ErrRingClosed = errors.New("ring is closed")

	// ErrQueueFull is returned by Push when tail has advanced a full
	// capacity past the kernel's consumption point. Recoverable: submit,
	// let the kernel drain, retry.
	ErrQueueFull = errors.New("submission queue is full")

	// ErrInterrupted maps EINTR from the enter call; safe to retry.
	ErrInterrupted = errors.New("enter interrupted by signal")

	// ErrTimerExpired maps ETIME: the wait timeout elapsed before the
	// requested completion count was reached.
	ErrTimerExpired = errors.New("completion wait timed out")

	// ErrAgain maps EAGAIN: the kernel could not accept the submissions
	// right now (e.g. it failed to allocate an async context).
	ErrAgain = errors.New("kernel busy, try again")

	ErrUnsupported       = errors.New("not supported by the running kernel")
	ErrAlreadyRegistered = errors.New("resource already registered")

	ErrFileTableFull     = errors.New("fixed file table is full")
	ErrNoFileTable       = errors.New("no fixed file table registered")
	ErrFileNotRegistered = errors.New("file is not in the fixed table")
)
