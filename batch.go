package mrf

import (
	"context"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
)

// Runner runs the pipeline for one url. *Pipeline implements it.
type Runner interface {
	Run(ctx context.Context, url string) (*Result, error)
}

// Outcome is the result of one url in a Batch.
type Outcome struct {
	URL    string
	Result *Result
	Err    error
}

// Outcomes are in the order the urls were given.
type Outcomes []Outcome

// Err combines the errors of all failed runs, or returns nil.
func (oo Outcomes) Err() error {
	var merr *multierror.Error
	for _, o := range oo {
		if o.Err != nil {
			merr = multierror.Append(merr, o.Err)
		}
	}
	return merr.ErrorOrNil()
}

// Batch runs a Runner over many urls with at most Workers runs in
// flight. Workers below 1 means 1.
type Batch struct {
	Runner  Runner
	Workers int
}

// Run runs every url to completion, regardless of failures, and
// returns one Outcome per url.
func (b *Batch) Run(ctx context.Context, urls []string) Outcomes {
	workers := b.Workers
	if workers < 1 {
		workers = 1
	}
	out := make(Outcomes, len(urls))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, url := range urls {
		i, url := i, url
		g.Go(func() error {
			res, err := b.Runner.Run(ctx, url)
			out[i] = Outcome{URL: url, Result: res, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return out
}
