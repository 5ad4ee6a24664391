//go:generate mockgen -source=interfaces.go -destination=mocks/mock_numfmt.go -package=mocks

package numfmt

// Allocator hands out output buffers. Alloc returns a zero-length slice with
// capacity of at least size bytes, or an error when the buffer cannot be
// provided. The caller takes exclusive ownership of the returned slice.
//
// Buffers from allocators other than HeapAllocator and LimitedAllocator are
// copied into the returned string, so a pooling Allocator may reuse a buffer
// once the conversion that requested it has returned.
type Allocator interface {
	Alloc(size int) ([]byte, error)
}

// Observer is notified once per text-producing conversion with the
// operation, the measured output size and the resulting error (nil on
// success).
type Observer interface {
	ObserveConversion(op Op, size int, err error)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(op Op, size int, err error)

// ObserveConversion calls f.
func (f ObserverFunc) ObserveConversion(op Op, size int, err error) { f(op, size, err) }

// nopObserver discards all observations.
type nopObserver struct{}

func (nopObserver) ObserveConversion(Op, int, error) {}
