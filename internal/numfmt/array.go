package numfmt

import (
	"fmt"

	apperrors "github.com/agbru/numfmt/internal/errors"
)

// Separator is written between consecutive sequence elements.
const Separator = ", "

// joinedWidth returns the exact length of "[" + e0 + ", " + ... + "]".
func joinedWidth[T any](values []T, width func(T) int) int {
	n := 2
	if len(values) > 1 {
		n += len(Separator) * (len(values) - 1)
	}
	for _, v := range values {
		n += width(v)
	}
	return n
}

func appendJoined[T any](dst []byte, values []T, appendElem func([]byte, T) []byte) []byte {
	dst = append(dst, '[')
	for i, v := range values {
		if i > 0 {
			dst = append(dst, Separator...)
		}
		dst = appendElem(dst, v)
	}
	return append(dst, ']')
}

// window returns the first count elements of values. A nil slice or a
// non-positive count selects nothing.
func window[T any](values []T, count int) ([]T, error) {
	if values == nil || count <= 0 {
		return nil, nil
	}
	if count > len(values) {
		return nil, apperrors.ValidationError{
			Field:   "count",
			Message: fmt.Sprintf("%d exceeds sequence length %d", count, len(values)),
		}
	}
	return values[:count], nil
}

// ArrayToStrInt returns values as "[v0, v1, ...]" with each element in
// ToStrInt form. An empty or nil slice yields "[]".
func (f *Formatter) ArrayToStrInt(values []int64) (string, error) {
	return f.build(OpArrayToStrInt, joinedWidth(values, IntWidth), func(dst []byte) []byte {
		return appendJoined(dst, values, AppendInt)
	})
}

// ArrayToStrIntN formats the first count elements of values.
func (f *Formatter) ArrayToStrIntN(values []int64, count int) (string, error) {
	w, err := window(values, count)
	if err != nil {
		return "", apperrors.ConversionError{Op: OpArrayToStrInt.String(), Cause: err}
	}
	return f.ArrayToStrInt(w)
}

// ArrayToStrFloat returns values as "[v0, v1, ...]" with each element in
// ToStrFloat form. An empty or nil slice yields "[]".
func (f *Formatter) ArrayToStrFloat(values []float64) (string, error) {
	return f.build(OpArrayToStrFloat, joinedWidth(values, FloatWidth), func(dst []byte) []byte {
		return appendJoined(dst, values, AppendFloat)
	})
}

// ArrayToStrFloatN formats the first count elements of values.
func (f *Formatter) ArrayToStrFloatN(values []float64, count int) (string, error) {
	w, err := window(values, count)
	if err != nil {
		return "", apperrors.ConversionError{Op: OpArrayToStrFloat.String(), Cause: err}
	}
	return f.ArrayToStrFloat(w)
}

// ArrayToStrInt formats values with the default Formatter.
func ArrayToStrInt(values []int64) (string, error) {
	return defaultFormatter.ArrayToStrInt(values)
}

// ArrayToStrIntN formats the first count elements with the default Formatter.
func ArrayToStrIntN(values []int64, count int) (string, error) {
	return defaultFormatter.ArrayToStrIntN(values, count)
}

// ArrayToStrFloat formats values with the default Formatter.
func ArrayToStrFloat(values []float64) (string, error) {
	return defaultFormatter.ArrayToStrFloat(values)
}

// ArrayToStrFloatN formats the first count elements with the default Formatter.
func ArrayToStrFloatN(values []float64, count int) (string, error) {
	return defaultFormatter.ArrayToStrFloatN(values, count)
}
