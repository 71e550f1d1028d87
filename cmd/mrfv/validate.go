package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrftool/mrf/logging"
	"github.com/mrftool/mrf/validate"
)

func (a *app) validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate --file <json-file> --schema <json-schema>",
		Short: "Validate a json file against a schema and write a report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			out := validate.Check(validate.Request{
				File:       a.conf.GetString("file"),
				Schema:     a.conf.GetString("schema"),
				ReportsDir: a.conf.GetString("reports-dir"),
				NoLimit:    a.conf.GetBool("no-limit"),
				Options:    a.validateOptions(),
				Log:        logging.Component(a.log, "validate"),
			})
			a.log.Info("entire program completed", "seconds", fmt.Sprintf("%.2f", time.Since(start).Seconds()))
			return a.exitFor(out)
		},
	}
	f := cmd.Flags()
	f.String("file", "", "path to the json file")
	f.String("schema", "", "path to the json schema file")
	f.Bool("no-limit", false, "disable error limit")
	f.String("reports-dir", "reports", "directory reports are written to")
	f.Bool("ecma-regex", false, "use ECMAScript regular expressions for patterns")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("schema")
	return cmd
}

func (a *app) validateOptions() []validate.Option {
	var opts []validate.Option
	if a.conf.GetBool("ecma-regex") {
		opts = append(opts, validate.WithECMARegexp())
	}
	return opts
}

// exitFor maps an outcome to the command's result. Invalid documents are
// reported, not failed.
func (a *app) exitFor(out validate.Outcome) error {
	switch out.Status {
	case validate.StatusFatal:
		return &exitError{1, out.Err}
	case validate.StatusRecoverable:
		return &exitError{2, out.Err}
	}
	a.log.Info("your validation report is ready", "path", out.Report, "status", out.Status.String())
	return nil
}
