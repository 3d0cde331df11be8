// Package batch checks many candidate strings against one compiled grammar
// in parallel. The recognizer is shared read-only and every check builds its
// own table, so no locking is needed.
package batch

import (
	"context"
	"time"

	"rulematch/internal/grammar"
	"rulematch/internal/observability"

	"golang.org/x/sync/errgroup"
)

// Recognizer is the part of cyk.Recognizer a batch needs.
type Recognizer interface {
	Recognizes(start grammar.ID, input string) bool
}

type Result struct {
	// Matched is aligned with the candidates passed to Run.
	Matched []bool
	Count   int
}

// Run checks every candidate with at most workers goroutines. A workers
// value below 1 means one. Candidates not started before ctx is cancelled
// are skipped and ctx's error is returned.
func Run(ctx context.Context, rec Recognizer, start grammar.ID, candidates []string, workers int) (*Result, error) {
	if workers < 1 {
		workers = 1
	}
	res := &Result{Matched: make([]bool, len(candidates))}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, in := range candidates {
		if gctx.Err() != nil {
			break
		}
		i, in := i, in
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			began := time.Now()
			ok := rec.Recognizes(start, in)
			observability.RecognitionDuration.Observe(time.Since(began).Seconds())
			if ok {
				observability.RecognitionsTotal.WithLabelValues(observability.ResultMatch).Inc()
			} else {
				observability.RecognitionsTotal.WithLabelValues(observability.ResultNoMatch).Inc()
			}
			res.Matched[i] = ok
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, ok := range res.Matched {
		if ok {
			res.Count++
		}
	}
	return res, nil
}
