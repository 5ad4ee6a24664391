package orchestration

import (
	"strconv"
	"time"

	"github.com/agbru/numfmt/internal/numfmt"
)

// Result is the outcome of one Request.
type Result struct {
	Request Request
	// Text holds the output of text-producing operations.
	Text string
	// Int holds the output of to_int.
	Int int64
	// Float holds the output of to_float.
	Float float64
	// Duration is the time taken by the conversion.
	Duration time.Duration
	// Err is non-nil when the conversion failed.
	Err error
}

// Value renders the result as a single line of text. Failed results render
// as the empty string.
func (r Result) Value() string {
	if r.Err != nil {
		return ""
	}
	switch r.Request.Op {
	case numfmt.OpToInt:
		return strconv.FormatInt(r.Int, 10)
	case numfmt.OpToFloat:
		return string(numfmt.AppendFloat(nil, r.Float))
	}
	return r.Text
}

// Convert runs req against f. Scalar operations that take a single value
// read the first element of the matching slice.
func Convert(f *numfmt.Formatter, req Request) Result {
	start := time.Now()
	res := Result{Request: req}

	switch req.Op {
	case numfmt.OpToStrInt:
		res.Text, res.Err = f.ToStrInt(first(req.Ints))
	case numfmt.OpToStrFloat:
		res.Text, res.Err = f.ToStrFloat(first(req.Floats))
	case numfmt.OpArrayToStrInt:
		res.Text, res.Err = f.ArrayToStrInt(req.Ints)
	case numfmt.OpArrayToStrFloat:
		res.Text, res.Err = f.ArrayToStrFloat(req.Floats)
	case numfmt.OpToInt:
		res.Int = numfmt.ToInt(first(req.Floats))
	case numfmt.OpToFloat:
		res.Float = numfmt.ToFloat(first(req.Ints))
	default:
		_, res.Err = ParseOp(req.Op.String())
	}

	res.Duration = time.Since(start)
	return res
}

func first[T any](values []T) T {
	var zero T
	if len(values) == 0 {
		return zero
	}
	return values[0]
}
