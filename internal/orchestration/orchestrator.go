package orchestration

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/numfmt/internal/numfmt"
)

const tracerName = "github.com/agbru/numfmt/internal/orchestration"

// ProgressBufferSize bounds the progress channel. Updates are sent without
// blocking, so a slow reporter only loses intermediate counts.
const ProgressBufferSize = 64

// ExecuteConversions runs every request against f with at most concurrency
// conversions in flight (unbounded when concurrency <= 0).
//
// Results are returned in request order. Requests that had not started when
// ctx was canceled carry the context error. Each conversion runs inside its
// own trace span.
func ExecuteConversions(ctx context.Context, f *numfmt.Formatter, reqs []Request, concurrency int, progressReporter ProgressReporter, out io.Writer) []Result {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, "ExecuteConversions",
		trace.WithAttributes(
			attribute.Int("numfmt.requests", len(reqs)),
			attribute.Int("numfmt.concurrency", concurrency),
		))
	defer span.End()

	g, gctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}

	results := make([]Result, len(reqs))
	progressChan := make(chan ProgressUpdate, min(len(reqs)+1, ProgressBufferSize))

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(reqs), out)

	var completed atomic.Int64
	for i, req := range reqs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i] = Result{Request: req, Err: err}
			} else {
				results[i] = convertTraced(gctx, tracer, f, req)
			}
			update := ProgressUpdate{Completed: int(completed.Add(1)), Total: len(reqs)}
			select {
			case progressChan <- update:
			default:
			}
			return nil
		})
	}

	g.Wait()
	close(progressChan)
	displayWg.Wait()

	summary := Summarize(results)
	span.SetAttributes(attribute.Int("numfmt.failed", summary.Failed))
	if summary.FirstErr != nil {
		span.SetStatus(codes.Error, summary.FirstErr.Error())
	}
	return results
}

func convertTraced(ctx context.Context, tracer trace.Tracer, f *numfmt.Formatter, req Request) Result {
	_, span := tracer.Start(ctx, "numfmt."+req.Op.String(),
		trace.WithAttributes(
			attribute.String("numfmt.op", req.Op.String()),
			attribute.Int("numfmt.values", req.Len()),
		))
	defer span.End()

	res := Convert(f, req)
	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
	} else if req.Op.ProducesText() {
		span.SetAttributes(attribute.Int("numfmt.output_bytes", len(res.Text)))
	}
	return res
}

// Summary aggregates the outcome of a batch.
type Summary struct {
	Total     int
	Succeeded int
	Failed    int
	// FirstErr is the error of the earliest failed request, in request order.
	FirstErr error
	// Busy is the sum of the individual conversion durations.
	Busy time.Duration
}

// Summarize counts successes and failures in results.
func Summarize(results []Result) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		s.Busy += r.Duration
		if r.Err != nil {
			s.Failed++
			if s.FirstErr == nil {
				s.FirstErr = r.Err
			}
			continue
		}
		s.Succeeded++
	}
	return s
}
