package tui

import (
	"strconv"
	"strings"

	"github.com/agbru/numfmt/internal/numfmt"
	"github.com/agbru/numfmt/internal/orchestration"
)

// expandLine turns an input line into conversion requests. A line starting
// with an operation name is a single request. Otherwise the line is a list
// of numbers and every applicable conversion is requested: integer lists get
// the integer operations, anything else the floating-point ones. Scalar
// operations are only added for a single value.
func expandLine(line string) ([]orchestration.Request, error) {
	fields := strings.Fields(strings.ReplaceAll(line, ",", " "))
	if len(fields) == 0 {
		return nil, nil
	}
	if _, err := orchestration.ParseOp(fields[0]); err == nil || strings.EqualFold(fields[0], orchestration.OpToStr) {
		req, err := orchestration.ParseRequest(fields[0], fields[1:])
		if err != nil {
			return nil, err
		}
		return []orchestration.Request{req}, nil
	}

	var ops []numfmt.Op
	switch {
	case allInts(fields) && len(fields) == 1:
		ops = []numfmt.Op{numfmt.OpToStrInt, numfmt.OpArrayToStrInt, numfmt.OpToFloat}
	case allInts(fields):
		ops = []numfmt.Op{numfmt.OpArrayToStrInt}
	case len(fields) == 1:
		ops = []numfmt.Op{numfmt.OpToStrFloat, numfmt.OpArrayToStrFloat, numfmt.OpToInt}
	default:
		ops = []numfmt.Op{numfmt.OpArrayToStrFloat}
	}

	reqs := make([]orchestration.Request, 0, len(ops))
	for _, op := range ops {
		req, err := orchestration.ParseRequest(op.String(), fields)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func allInts(fields []string) bool {
	for _, f := range fields {
		if _, err := strconv.ParseInt(f, 10, 64); err != nil {
			return false
		}
	}
	return true
}
