// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mrf

import (
	"errors"
	"fmt"
)

// Op names the pipeline stage that failed.
type Op int

const (
	OpDownload Op = iota + 1
	OpClassification
	OpExtraction
)

func (op Op) String() string {
	switch op {
	case OpDownload:
		return "download"
	case OpClassification:
		return "classification"
	case OpExtraction:
		return "extraction"
	}
	return fmt.Sprintf("Op(%d)", int(op))
}

// ErrEmptyPayload is returned, wrapped in a PipelineError, when the
// server sent no bytes to classify.
var ErrEmptyPayload = errors.New("empty payload")

// PipelineError is the error type returned by Pipeline.Run.
//
// Err is the stage's own error and is never rewritten, so that
// errors.As finds a *fetch.Error or *archive.Error underneath.
type PipelineError struct {
	Op  Op
	URL string
	Err error
}

func (e *PipelineError) Error() string {
	return fmt.Sprintf("%s failed for %q: %v", e.Op, e.URL, e.Err)
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

// IsOp reports whether err is a PipelineError for stage op.
func IsOp(err error, op Op) bool {
	var perr *PipelineError
	return errors.As(err, &perr) && perr.Op == op
}
