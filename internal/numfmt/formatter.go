package numfmt

import (
	"fmt"
	"unsafe"

	apperrors "github.com/agbru/numfmt/internal/errors"
)

// Formatter performs the text-producing conversions using a configurable
// Allocator and reports each one to an Observer. A Formatter is immutable
// after construction and safe for concurrent use.
type Formatter struct {
	alloc    Allocator
	observer Observer
	// owned is set when alloc is a built-in allocator whose buffers are
	// never reused.
	owned bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithAllocator sets the allocator used for output buffers.
func WithAllocator(a Allocator) Option {
	return func(f *Formatter) {
		if a != nil {
			f.alloc = a
			f.owned = isBuiltinAllocator(a)
		}
	}
}

// WithObserver sets the observer notified after every text conversion.
func WithObserver(o Observer) Option {
	return func(f *Formatter) {
		if o != nil {
			f.observer = o
		}
	}
}

// WithMaxBuffer limits output buffers to limit bytes. Zero disables the limit.
func WithMaxBuffer(limit int) Option {
	return WithAllocator(LimitedAllocator{Limit: limit})
}

// New creates a Formatter. Without options it uses HeapAllocator and no
// observer.
func New(opts ...Option) *Formatter {
	f := &Formatter{alloc: HeapAllocator{}, observer: nopObserver{}, owned: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func isBuiltinAllocator(a Allocator) bool {
	switch a.(type) {
	case HeapAllocator, *HeapAllocator, LimitedAllocator, *LimitedAllocator:
		return true
	}
	return false
}

var defaultFormatter = New()

// Default returns the shared heap-backed Formatter used by the package-level
// functions.
func Default() *Formatter { return defaultFormatter }

// build obtains a buffer of exactly size bytes, fills it with write and hands
// the bytes to the caller as a string. write must produce exactly size bytes.
func (f *Formatter) build(op Op, size int, write func(dst []byte) []byte) (string, error) {
	buf, err := f.alloc.Alloc(size)
	if err == nil && cap(buf) < size {
		err = apperrors.AllocationError{Requested: size, Limit: cap(buf)}
	}
	if err != nil {
		err = apperrors.ConversionError{Op: op.String(), Cause: err}
		f.observer.ObserveConversion(op, size, err)
		return "", err
	}

	buf = write(buf[:0])
	if len(buf) != size {
		panic(fmt.Sprintf("numfmt: %s measured %d bytes but built %d", op, size, len(buf)))
	}
	f.observer.ObserveConversion(op, size, nil)

	if !f.owned {
		return string(buf), nil
	}
	// Built-in allocators hand out fresh heap buffers that nothing else
	// references, so the string can alias the buffer.
	return unsafe.String(unsafe.SliceData(buf), len(buf)), nil
}
