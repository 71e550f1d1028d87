package mrf

import (
	"context"

	"github.com/mrftool/mrf/archive"
	"github.com/mrftool/mrf/fetch"
	"github.com/mrftool/mrf/logging"
)

// Fetcher downloads a url into memory. *fetch.Fetcher implements it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*fetch.Payload, error)
}

// Result is the outcome of a Pipeline run.
type Result struct {
	URL      string
	Kind     archive.Kind
	Member   string // archive-internal name (ZIP) or url base name without extension (GZIP)
	Value    any
	Encoding string
	Decoded  bool // false if no encoding produced json; Value is nil
}

// Pipeline fetches, classifies and extracts a single url per Run.
// A Pipeline holds no per-run state and may be used concurrently.
type Pipeline struct {
	Fetcher   Fetcher
	Extractor *archive.Extractor
	Log       logging.Logger
}

// Run downloads url and returns its decoded json member.
// Errors are *PipelineError; nothing is retried and a failed extraction
// is not attempted under the other archive kind.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	log := logging.OrNop(p.Log)
	fail := func(op Op, err error) (*Result, error) {
		perr := &PipelineError{Op: op, URL: url, Err: err}
		log.Error(perr.Error(), "url", url, "op", op.String())
		return nil, perr
	}

	payload, err := p.Fetcher.Fetch(ctx, url)
	if err != nil {
		return fail(OpDownload, err)
	}
	if len(payload.Data) == 0 {
		return fail(OpClassification, ErrEmptyPayload)
	}

	kind := archive.Classify(payload.ContentType, payload.Data)
	log.Info("extracting", "url", url, "kind", kind.String())

	x := p.Extractor
	if x == nil {
		x = &archive.Extractor{Log: p.Log}
	}
	res, err := x.Extract(payload.Data, kind, fetch.BaseName(url))
	if err != nil {
		return fail(OpExtraction, err)
	}
	if !res.Decoded {
		log.Error("unable to decode json member", "url", url, "member", res.Name)
	}
	return &Result{
		URL:      url,
		Kind:     kind,
		Member:   res.Name,
		Value:    res.Value,
		Encoding: res.Encoding,
		Decoded:  res.Decoded,
	}, nil
}
