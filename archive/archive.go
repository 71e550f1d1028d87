// Package archive extracts the single json document carried by a ZIP or
// GZIP payload.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"

	"github.com/mrftool/mrf/decode"
	"github.com/mrftool/mrf/logging"
)

var (
	// ErrNonJSONMember reports a ZIP member without the json suffix.
	ErrNonJSONMember = errors.New("non-json member")

	// ErrMemberCount reports a ZIP without exactly one json member.
	ErrMemberCount = errors.New("json member count")

	// ErrCorrupt reports a container that could not be read.
	ErrCorrupt = errors.New("corrupt archive")
)

// Error is returned by Extract. Err is one of the sentinel errors above,
// possibly wrapping the reader's error.
type Error struct {
	Format Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s: %s", e.Format, e.Reason)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func corrupt(k Kind, err error) *Error {
	return &Error{k, fmt.Sprintf("error reading %s archive: %v", k, err), fmt.Errorf("%w: %v", ErrCorrupt, err)}
}

// --

// Result is the outcome of a successful extraction.
//
// Decoded is false when the member was read but no encoding produced
// json; Value is nil in that case.
type Result struct {
	Name     string
	Value    any
	Encoding string
	Decoded  bool
}

// Extractor locates the json member of an archive and decodes it.
// The zero value uses a default decode.Decoder and no logging.
type Extractor struct {
	Decoder *decode.Decoder
	Log     logging.Logger
}

// Extract reads the json member of data, which is a container of kind k.
// name is the payload's original name; for GZIP the member name is
// derived from it with MemberName.
func (e *Extractor) Extract(data []byte, k Kind, name string) (*Result, error) {
	var (
		member string
		raw    []byte
		err    error
	)
	switch k {
	case GZIP:
		member = MemberName(name)
		raw, err = gunzip(data)
	case ZIP:
		member, raw, err = unzip(data)
	default:
		err = &Error{k, "unsupported archive kind", ErrCorrupt}
	}
	if err != nil {
		logging.OrNop(e.Log).Error("extraction failed", "format", k.String(), "error", err.Error())
		return nil, err
	}

	d := e.Decoder
	if d == nil {
		d = &decode.Decoder{Log: e.Log}
	}
	v, enc, ok := d.Decode(raw)
	return &Result{Name: member, Value: v, Encoding: enc, Decoded: ok}, nil
}

func gunzip(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, corrupt(GZIP, err)
	}
	defer r.Close()
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, corrupt(GZIP, err)
	}
	return raw, nil
}

// unzip returns the name and content of the only member of data.
// Any member without the json suffix is rejected before members are counted.
func unzip(data []byte) (string, []byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, corrupt(ZIP, err)
	}

	var others, jsons []*zip.File
	for _, f := range zr.File {
		if IsJSONName(f.Name) {
			jsons = append(jsons, f)
		} else {
			others = append(others, f)
		}
	}
	if len(others) > 0 {
		names := make([]string, len(others))
		for i, f := range others {
			names[i] = f.Name
		}
		reason := fmt.Sprintf("found non-json files inside the zip archive: [%s]", strings.Join(names, ", "))
		return "", nil, &Error{ZIP, reason, ErrNonJSONMember}
	}
	if len(jsons) != 1 {
		reason := fmt.Sprintf("expected exactly one json file inside the zip archive, found %d files", len(jsons))
		return "", nil, &Error{ZIP, reason, ErrMemberCount}
	}

	f := jsons[0]
	rc, err := f.Open()
	if err != nil {
		return "", nil, corrupt(ZIP, err)
	}
	defer rc.Close()
	raw, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, corrupt(ZIP, err)
	}
	return f.Name, raw, nil
}
