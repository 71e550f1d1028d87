package validate

import (
	"fmt"
	"os"

	"github.com/mrftool/mrf/logging"
)

// Status classifies the outcome of a check.
type Status int

const (
	StatusValid       Status = iota // no violations
	StatusInvalid                   // violations found and reported
	StatusRecoverable               // validation ran but the report could not be written
	StatusFatal                     // input or schema could not be loaded or compiled
)

func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	case StatusRecoverable:
		return "recoverable"
	case StatusFatal:
		return "fatal"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Outcome is the result of a check. Err is set for StatusRecoverable
// and StatusFatal.
type Outcome struct {
	Status  Status
	Summary *Summary
	Report  string // path of the written report, if any
	Err     error
}

// Reporter validates documents and writes one report per document.
type Reporter struct {
	Validator *Validator
	Dir       string
	NoLimit   bool
	Log       logging.Logger
}

// Report validates instance and writes the report for name, replacing
// any earlier report for it.
func (r *Reporter) Report(name string, instance any) Outcome {
	log := logging.OrNop(r.Log)
	log.Info("validation process started", "file", name)

	vv, err := r.Validator.Validate(instance)
	if err != nil {
		log.Error("unexpected validation error", "file", name, "error", err.Error())
		return Outcome{Status: StatusRecoverable, Err: err}
	}
	limit := DefaultLimit
	if r.NoLimit {
		limit = 0
	}
	s := Summarize(vv, limit)
	if s.Truncated() {
		log.Info("error limit reached", "file", name, "limit", limit, "total", s.Total)
	}

	status := StatusInvalid
	if s.Valid() {
		log.Info("input json is valid", "file", name)
		status = StatusValid
	}

	path := ReportPath(r.Dir, name)
	if err := writeReportFile(r.Dir, path, s); err != nil {
		log.Error("unable to write report", "path", path, "error", err.Error())
		return Outcome{Status: StatusRecoverable, Summary: s, Err: err}
	}
	log.Info("report written", "path", path, "groups", len(s.Groups), "violations", s.Total)
	return Outcome{Status: status, Summary: s, Report: path}
}

func writeReportFile(dir, path string, s *Summary) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteReport(f, s); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// --

// Request names the files of a local check.
type Request struct {
	File       string
	Schema     string
	ReportsDir string
	NoLimit    bool
	Options    []Option
	Log        logging.Logger
}

// Check loads the instance and schema of req, validates and writes the
// report under req.ReportsDir.
func Check(req Request) Outcome {
	log := logging.OrNop(req.Log)

	instance, err := LoadDocument(req.File)
	if err != nil {
		log.Error("error loading json file", "error", err.Error())
		return Outcome{Status: StatusFatal, Err: err}
	}
	v, err := New(req.Schema, req.Options...)
	if err != nil {
		log.Error("error loading schema file", "error", err.Error())
		return Outcome{Status: StatusFatal, Err: err}
	}

	r := Reporter{Validator: v, Dir: req.ReportsDir, NoLimit: req.NoLimit, Log: req.Log}
	return r.Report(req.File, instance)
}
