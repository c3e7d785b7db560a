//go:build linux
// +build linux

package uring

import (
	"os"
	"sync"
)

// FileTable tracks which process file descriptor occupies which slot of
// the ring's registered file table, so callers can translate an fd to the
// index expected by IOSQE_FIXED_FILE entries. Slots freed by Unregister
// are reused. Safe for concurrent use.
type FileTable struct {
	ring *Ring

	mu    sync.RWMutex
	slots []int32
	free  []int
	index map[int32]int
}

func newFileTable(ring *Ring, size uint32) (*FileTable, error) {
	slots := make([]int32, size)
	free := make([]int, size)
	for i := range slots {
		slots[i] = -1
		free[i] = int(size) - 1 - i
	}

	// Prefer a sparse table; fall back to registering the -1 slots
	// directly on kernels without REGISTER_FILES2.
	if err := ring.RegisterFilesSparse(size); err != nil {
		if err != ErrUnsupported {
			return nil, err
		}
		if err := ring.RegisterFiles(slots); err != nil {
			return nil, err
		}
	}

	return &FileTable{
		ring:  ring,
		slots: slots,
		free:  free,
		index: make(map[int32]int, size),
	}, nil
}

// Capacity returns the preallocated slot count.
func (t *FileTable) Capacity() int { return len(t.slots) }

// Index returns the table slot holding fd, if it is registered.
func (t *FileTable) Index(fd int32) (int, bool) {
	t.mu.RLock()
	i, ok := t.index[fd]
	t.mu.RUnlock()
	return i, ok
}

// Register places fd into a free slot and returns its index. Registering
// an fd twice returns the existing slot.
func (t *FileTable) Register(fd int32) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if i, ok := t.index[fd]; ok {
		return i, nil
	}
	if len(t.free) == 0 {
		return 0, ErrFileTableFull
	}

	slot := t.free[len(t.free)-1]
	t.slots[slot] = fd
	if _, err := t.ring.RegisterFilesUpdate(uint32(slot), t.slots[slot:slot+1]); err != nil {
		t.slots[slot] = -1
		return 0, err
	}

	t.free = t.free[:len(t.free)-1]
	t.index[fd] = slot
	return slot, nil
}

// RegisterFile is Register for an *os.File.
func (t *FileTable) RegisterFile(file *os.File) (int, error) {
	return t.Register(int32(file.Fd()))
}

// Unregister clears fd's slot and makes it available again. The caller
// must have drained every in-flight entry referencing the slot first.
func (t *FileTable) Unregister(fd int32) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	slot, ok := t.index[fd]
	if !ok {
		return ErrFileNotRegistered
	}

	t.slots[slot] = -1
	if _, err := t.ring.RegisterFilesUpdate(uint32(slot), t.slots[slot:slot+1]); err != nil {
		t.slots[slot] = fd
		return err
	}

	delete(t.index, fd)
	t.free = append(t.free, slot)
	return nil
}

// FileTable returns the table preallocated with WithFileTable, or
// ErrNoFileTable when the option was not used.
func (r *Ring) FileTable() (*FileTable, error) {
	if r.fileTable == nil {
		return nil, ErrNoFileTable
	}
	return r.fileTable, nil
}
