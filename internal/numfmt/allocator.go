package numfmt

import (
	apperrors "github.com/agbru/numfmt/internal/errors"
)

// HeapAllocator allocates buffers from the Go heap. It never fails for
// non-negative sizes.
type HeapAllocator struct{}

// Alloc returns make([]byte, 0, size).
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, apperrors.AllocationError{Requested: size}
	}
	return make([]byte, 0, size), nil
}

// LimitedAllocator refuses any buffer larger than Limit bytes. A Limit of
// zero or less means no limit.
type LimitedAllocator struct {
	Limit int
}

// Alloc returns a heap buffer, or an apperrors.AllocationError when size
// exceeds the limit.
func (a LimitedAllocator) Alloc(size int) ([]byte, error) {
	if a.Limit > 0 && size > a.Limit {
		return nil, apperrors.AllocationError{Requested: size, Limit: a.Limit}
	}
	return HeapAllocator{}.Alloc(size)
}
