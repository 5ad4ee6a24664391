package cli

import (
	"errors"
	"strings"
	"testing"

	apperrors "github.com/agbru/numfmt/internal/errors"
	"github.com/agbru/numfmt/internal/numfmt"
)

func TestReadRequests(t *testing.T) {
	t.Parallel()
	input := `# sample batch
to_str_int 42

array_to_str_int 1, -2, 3   # trailing comment
array-to-str-float
to_str 2.5
`
	reqs, err := ReadRequests(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRequests: %v", err)
	}
	if len(reqs) != 4 {
		t.Fatalf("got %d requests, want 4", len(reqs))
	}

	tests := []struct {
		op   numfmt.Op
		line int
		n    int
	}{
		{numfmt.OpToStrInt, 2, 1},
		{numfmt.OpArrayToStrInt, 4, 3},
		{numfmt.OpArrayToStrFloat, 5, 0},
		{numfmt.OpToStrFloat, 6, 1},
	}
	for i, tt := range tests {
		if reqs[i].Op != tt.op || reqs[i].Line != tt.line || reqs[i].Len() != tt.n {
			t.Errorf("request %d = %+v, want op %s line %d with %d values", i, reqs[i], tt.op, tt.line, tt.n)
		}
	}
}

func TestReadRequestsErrors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"unknown op", "to_str_int 1\nto_hex 2\n", "line 2"},
		{"bad value", "array_to_str_int 1 x\n", "line 1"},
		{"arity", "# c\n\nto_int 1 2\n", "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadRequests(strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.HasPrefix(err.Error(), tt.line) {
				t.Errorf("error = %q, want prefix %q", err, tt.line)
			}
			var verr apperrors.ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error should wrap a ValidationError, got %T", err)
			}
		})
	}
}

func TestReadRequestsEmpty(t *testing.T) {
	t.Parallel()
	reqs, err := ReadRequests(strings.NewReader("\n# only comments\n   \n"))
	if err != nil || len(reqs) != 0 {
		t.Errorf("ReadRequests = %v, %v; want no requests", reqs, err)
	}
}
