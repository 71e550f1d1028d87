// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fetch downloads a remote resource into memory.
//
// The body is read in fixed-size chunks and progress is reported as it
// arrives; the whole body is returned only once it is complete.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/mrftool/mrf/logging"
)

// ChunkSize is the default number of bytes read from the body at a time.
const ChunkSize = 8200

// Error is the only error returned by Fetch.
// StatusCode is zero unless the server answered with a non-2xx status.
type Error struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	return fmt.Sprintf("error downloading file from %s: %v", e.URL, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Payload is a fully downloaded response body.
// DeclaredSize is the Content-Length sent by the server, -1 if unknown.
type Payload struct {
	URL          string
	Data         []byte
	ContentType  string
	DeclaredSize int64
}

// Fetcher performs streaming GET requests.
// The zero value uses http.DefaultClient, ChunkSize and no progress.
type Fetcher struct {
	Client    *http.Client
	Progress  ProgressFunc
	Log       logging.Logger
	ChunkSize int
}

// Fetch downloads rawURL. It never returns partial data: on any failure
// the returned error is an *Error and the Payload is nil.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Payload, error) {
	p, err := f.fetch(ctx, rawURL)
	if err != nil {
		return nil, &Error{URL: rawURL, StatusCode: statusOf(err), Err: err}
	}
	return p, nil
}

type statusError int

func (e statusError) Error() string {
	return fmt.Sprintf("%d %s", int(e), http.StatusText(int(e)))
}

func statusOf(err error) int {
	if s, ok := err.(statusError); ok {
		return int(s)
	}
	return 0
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (*Payload, error) {
	log := logging.OrNop(f.Log)
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError(resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	log.Info("file type", "url", rawURL, "content_type", contentType)
	log.Info("file size", "url", rawURL, "bytes", resp.ContentLength)

	progress := f.Progress
	if progress == nil {
		progress = NoProgress
	}
	bar := progress(resp.ContentLength, "Downloading "+BaseName(rawURL))

	var buf bytes.Buffer
	if resp.ContentLength > 0 {
		buf.Grow(int(resp.ContentLength))
	}
	size := f.ChunkSize
	if size <= 0 {
		size = ChunkSize
	}
	chunk := make([]byte, size)
	for {
		n, err := resp.Body.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			_, _ = bar.Write(chunk[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = bar.Finish()
			return nil, err
		}
	}
	_ = bar.Finish()

	return &Payload{
		URL:          rawURL,
		Data:         buf.Bytes(),
		ContentType:  contentType,
		DeclaredSize: resp.ContentLength,
	}, nil
}

// BaseName returns the last path segment of rawURL, ignoring any query
// or fragment.
func BaseName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Path == "" {
		return rawURL
	}
	return path.Base(u.Path)
}
