package orchestration

import (
	"fmt"
	"strconv"
	"strings"

	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/numfmt"
)

// OpToStr is the overloaded scalar formatting request. It resolves to
// to_str_int when its argument is an integer and to to_str_float otherwise.
const OpToStr = "to_str"

// Request is one conversion to perform.
type Request struct {
	Op     numfmt.Op
	Ints   []int64
	Floats []float64
	// Line is the 1-based source line for batch input, 0 otherwise.
	Line int
}

// String renders the request in the same "op v1 v2 ..." form ParseLine accepts.
func (r Request) String() string {
	var sb strings.Builder
	sb.WriteString(r.Op.String())
	for _, v := range r.Ints {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatInt(v, 10))
	}
	for _, v := range r.Floats {
		sb.WriteByte(' ')
		sb.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	return sb.String()
}

// Len returns the number of values carried by the request.
func (r Request) Len() int { return len(r.Ints) + len(r.Floats) }

// ParseOp resolves an operation name. Names are case-insensitive and may use
// '-' in place of '_'.
func ParseOp(name string) (numfmt.Op, error) {
	op := numfmt.Op(normalizeOpName(name))
	if !op.Valid() {
		return "", apperrors.ValidationError{Field: "op", Message: fmt.Sprintf("unknown operation %q", name)}
	}
	return op, nil
}

func normalizeOpName(name string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "-", "_")
}

// ParseRequest builds a request for op from textual arguments. Scalar
// operations take exactly one argument; array operations take any number.
func ParseRequest(op string, args []string) (Request, error) {
	if normalizeOpName(op) == OpToStr {
		if len(args) != 1 {
			return Request{}, arityError(OpToStr, len(args))
		}
		if _, err := strconv.ParseInt(strings.TrimSuffix(args[0], ","), 10, 64); err == nil {
			return ParseRequest(numfmt.OpToStrInt.String(), args)
		}
		return ParseRequest(numfmt.OpToStrFloat.String(), args)
	}

	parsed, err := ParseOp(op)
	if err != nil {
		return Request{}, err
	}
	req := Request{Op: parsed}

	switch parsed {
	case numfmt.OpToStrInt, numfmt.OpToFloat:
		if len(args) != 1 {
			return Request{}, arityError(parsed.String(), len(args))
		}
		req.Ints, err = parseInts(args)
	case numfmt.OpToStrFloat, numfmt.OpToInt:
		if len(args) != 1 {
			return Request{}, arityError(parsed.String(), len(args))
		}
		req.Floats, err = parseFloats(args)
	case numfmt.OpArrayToStrInt:
		req.Ints, err = parseInts(args)
	case numfmt.OpArrayToStrFloat:
		req.Floats, err = parseFloats(args)
	}
	if err != nil {
		return Request{}, err
	}
	return req, nil
}

// ParseLine parses a whitespace-separated "op v1 v2 ..." line.
func ParseLine(line string) (Request, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Request{}, apperrors.ValidationError{Field: "op", Message: "empty request"}
	}
	return ParseRequest(fields[0], fields[1:])
}

func arityError(op string, got int) error {
	return apperrors.ValidationError{Field: "args", Message: fmt.Sprintf("%s takes exactly one value, got %d", op, got)}
}

func parseInts(args []string) ([]int64, error) {
	out := make([]int64, len(args))
	for i, a := range args {
		v, err := strconv.ParseInt(strings.TrimSuffix(a, ","), 10, 64)
		if err != nil {
			return nil, apperrors.ValidationError{Field: "value", Message: fmt.Sprintf("%q is not a 64-bit integer", a)}
		}
		out[i] = v
	}
	return out, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(strings.TrimSuffix(a, ","), 64)
		if err != nil {
			return nil, apperrors.ValidationError{Field: "value", Message: fmt.Sprintf("%q is not a number", a)}
		}
		out[i] = v
	}
	return out, nil
}
