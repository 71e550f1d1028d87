package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"

	"github.com/mrftool/mrf"
	"github.com/mrftool/mrf/archive"
	"github.com/mrftool/mrf/decode"
	"github.com/mrftool/mrf/fetch"
	"github.com/mrftool/mrf/logging"
	"github.com/mrftool/mrf/validate"
)

var errUndecodable = errors.New("no encoding produced json")

func (a *app) fetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch <url>...",
		Short: "Download zip or gzip archives and extract their json document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, urls []string) error {
			start := time.Now()
			err := a.fetch(cmd, urls)
			a.log.Info("entire program completed", "seconds", fmt.Sprintf("%.2f", time.Since(start).Seconds()))
			return err
		},
	}
	f := cmd.Flags()
	f.String("out-dir", ".", "directory extracted json files are written to")
	f.Int("workers", 1, "number of downloads in flight")
	f.Duration("timeout", 0, "per-download timeout, 0 for none")
	f.Bool("progress", true, "show a progress bar while downloading")
	f.String("decode-policy", decode.StopOnParseError.String(), "on json parse failure: stop-on-parse-error or try-all")
	f.String("schema", "", "validate each document against this json schema")
	f.Bool("no-limit", false, "disable error limit")
	f.String("reports-dir", "reports", "directory reports are written to")
	f.Bool("ecma-regex", false, "use ECMAScript regular expressions for patterns")
	return cmd
}

func (a *app) fetch(cmd *cobra.Command, urls []string) error {
	policy, err := decode.ParsePolicy(a.conf.GetString("decode-policy"))
	if err != nil {
		return err
	}

	var reporter *validate.Reporter
	if schema := a.conf.GetString("schema"); schema != "" {
		v, err := validate.New(schema, a.validateOptions()...)
		if err != nil {
			a.log.Error("error loading schema file", "error", err.Error())
			return &exitError{1, err}
		}
		reporter = &validate.Reporter{
			Validator: v,
			Dir:       a.conf.GetString("reports-dir"),
			NoLimit:   a.conf.GetBool("no-limit"),
			Log:       logging.Component(a.log, "validate"),
		}
	}

	workers := a.conf.GetInt("workers")
	progress := fetch.NoProgress
	if a.conf.GetBool("progress") && workers <= 1 {
		progress = fetch.ProgressBar(a.stderr)
	}
	p := &mrf.Pipeline{
		Fetcher: &fetch.Fetcher{
			Client:   &http.Client{Timeout: a.conf.GetDuration("timeout")},
			Progress: progress,
			Log:      logging.Component(a.log, "fetch"),
		},
		Extractor: &archive.Extractor{
			Decoder: &decode.Decoder{Policy: policy, Log: logging.Component(a.log, "decode")},
			Log:     logging.Component(a.log, "archive"),
		},
		Log: logging.Component(a.log, "pipeline"),
	}

	outcomes := (&mrf.Batch{Runner: p, Workers: workers}).Run(cmd.Context(), urls)

	outDir := a.conf.GetString("out-dir")
	code := 0
	var failed *multierror.Error
	if err := outcomes.Err(); err != nil {
		failed = multierror.Append(failed, err)
	}
	for _, o := range outcomes {
		if o.Err != nil {
			continue
		}
		res := o.Result
		if !res.Decoded {
			failed = multierror.Append(failed, fmt.Errorf("%s: %s: %w", res.URL, res.Member, errUndecodable))
			continue
		}
		path, err := writeMember(outDir, res)
		if err != nil {
			a.log.Error("unable to write json", "url", res.URL, "error", err.Error())
			failed = multierror.Append(failed, err)
			continue
		}
		a.log.Info("json written", "url", res.URL, "path", path, "encoding", res.Encoding)

		if reporter == nil {
			continue
		}
		out := reporter.Report(res.Member, res.Value)
		if out.Status == validate.StatusRecoverable && code == 0 {
			code = 2
		}
	}
	if err := failed.ErrorOrNil(); err != nil {
		return &exitError{1, err}
	}
	if code != 0 {
		return &exitError{code, errors.New("some reports could not be written")}
	}
	return nil
}

// writeMember writes the decoded document to dir under the member's
// base name and returns the path.
func writeMember(dir string, res *mrf.Result) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filepath.Base(res.Member))
	b, err := json.Marshal(res.Value)
	if err != nil {
		return "", err
	}
	return path, os.WriteFile(path, b, 0o644)
}
