// Package numfmt converts 64-bit integers and doubles to their canonical
// text forms and between each other.
//
// Text-producing operations measure the exact output length first, obtain a
// buffer of exactly that capacity from an Allocator, and then build the text
// into it. The only way they can fail is the Allocator refusing the request,
// which is reported as an error wrapping apperrors.AllocationError.
//
// Integer text is plain decimal. Float text is fixed-point with six
// fractional digits, rounded half-to-even from the exact binary value;
// NaN and the infinities are written as "nan", "inf" and "-inf". Sequences
// are written as "[a, b, c]" and the empty sequence as "[]".
//
// All functions are safe for concurrent use.
package numfmt
