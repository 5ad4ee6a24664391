package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/agbru/numfmt/internal/orchestration"
)

// MaxBatchLineBytes bounds the length of one batch input line.
const MaxBatchLineBytes = 1 << 20

// ReadRequests parses one "op v1 v2 ..." request per line. Blank lines and
// lines starting with '#' are skipped; text after a '#' is a comment. The
// first invalid line aborts parsing with an error naming its line number.
func ReadRequests(r io.Reader) ([]orchestration.Request, error) {
	var reqs []orchestration.Request
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), MaxBatchLineBytes)

	for lineNo := 1; sc.Scan(); lineNo++ {
		line := sc.Text()
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		req, err := orchestration.ParseLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		req.Line = lineNo
		reqs = append(reqs, req)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading batch input: %w", err)
	}
	return reqs, nil
}
