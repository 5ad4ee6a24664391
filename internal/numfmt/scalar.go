package numfmt

import (
	"errors"
	"math"
	"strconv"

	apperrors "github.com/agbru/numfmt/internal/errors"
)

// FloatDecimals is the number of fractional digits in float text.
const FloatDecimals = 6

// maxFloatWidth bounds the fixed-point text of any float64: sign, 309
// integer digits, the point and the fractional digits.
const maxFloatWidth = 1 + 309 + 1 + FloatDecimals

// twoPow63 is 2^63, the first double above the int64 range.
const twoPow63 = float64(1 << 63)

// ErrOutOfRange is returned by ToIntChecked for NaN and for values whose
// truncation does not fit in an int64.
var ErrOutOfRange = errors.New("value out of int64 range")

// IntWidth returns the length in bytes of the decimal text of v.
func IntWidth(v int64) int {
	n := 1
	u := uint64(v)
	if v < 0 {
		n++
		u = -u
	}
	for u >= 10 {
		u /= 10
		n++
	}
	return n
}

// AppendInt appends the decimal text of v to dst.
func AppendInt(dst []byte, v int64) []byte {
	return strconv.AppendInt(dst, v, 10)
}

// FloatWidth returns the length in bytes of the fixed-point text of v.
func FloatWidth(v float64) int {
	var scratch [maxFloatWidth]byte
	return len(AppendFloat(scratch[:0], v))
}

// AppendFloat appends the fixed-point text of v with six fractional digits
// to dst. NaN is written as "nan" and the infinities as "inf" and "-inf".
func AppendFloat(dst []byte, v float64) []byte {
	switch {
	case math.IsNaN(v):
		return append(dst, "nan"...)
	case math.IsInf(v, 1):
		return append(dst, "inf"...)
	case math.IsInf(v, -1):
		return append(dst, "-inf"...)
	}
	return strconv.AppendFloat(dst, v, 'f', FloatDecimals, 64)
}

// ToStrInt returns the decimal text of value.
func (f *Formatter) ToStrInt(value int64) (string, error) {
	return f.build(OpToStrInt, IntWidth(value), func(dst []byte) []byte {
		return AppendInt(dst, value)
	})
}

// ToStrFloat returns the fixed-point text of value with six fractional digits.
func (f *Formatter) ToStrFloat(value float64) (string, error) {
	return f.build(OpToStrFloat, FloatWidth(value), func(dst []byte) []byte {
		return AppendFloat(dst, value)
	})
}

// ToStrInt formats value with the default Formatter.
func ToStrInt(value int64) (string, error) { return defaultFormatter.ToStrInt(value) }

// ToStrFloat formats value with the default Formatter.
func ToStrFloat(value float64) (string, error) { return defaultFormatter.ToStrFloat(value) }

// ToInt truncates value toward zero. NaN yields 0; values at or beyond the
// int64 range (including the infinities) saturate to math.MaxInt64 or
// math.MinInt64.
func ToInt(value float64) int64 {
	switch {
	case math.IsNaN(value):
		return 0
	case value >= twoPow63:
		return math.MaxInt64
	case value < -twoPow63:
		return math.MinInt64
	}
	return int64(value)
}

// ToIntChecked truncates value toward zero, returning an error wrapping
// ErrOutOfRange instead of saturating.
func ToIntChecked(value float64) (int64, error) {
	if math.IsNaN(value) || value >= twoPow63 || value < -twoPow63 {
		return 0, apperrors.ConversionError{
			Op:    OpToInt.String(),
			Cause: apperrors.WrapError(ErrOutOfRange, "%s", strconv.FormatFloat(value, 'g', -1, 64)),
		}
	}
	return int64(value), nil
}

// ToFloat returns the double nearest to value. The conversion is exact for
// |value| <= 2^53.
func ToFloat(value int64) float64 {
	return float64(value)
}
