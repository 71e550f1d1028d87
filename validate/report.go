package validate

import (
	"bufio"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

const (
	separator   = "------------------------------"
	limitMarker = "*********WARNING: ERROR LIMIT REACHED!*********"
	validLine   = "Input JSON is Valid"
)

// ReportPath returns the report file for input inside dir:
// "<dir>/<base name of input>_report.txt".
func ReportPath(dir, input string) string {
	return filepath.Join(dir, filepath.Base(input)+"_report.txt")
}

// WriteReport writes s as plain text blocks:
//
//	------------------------------
//	Error: <message>
//	Location: <schema location>
//	Schema: <subschema>
//	Count: <n>
//	------------------------------
//
// followed by the limit marker if s is truncated. A valid summary gets a
// single block saying so.
func WriteReport(w io.Writer, s *Summary) error {
	bw := bufio.NewWriter(w)
	for _, g := range s.Groups {
		fmt.Fprintln(bw, separator)
		fmt.Fprintf(bw, "Error: %s\n", oneLine(g.Message))
		fmt.Fprintf(bw, "Location: %s\n", g.Location)
		fmt.Fprintf(bw, "Schema: %s\n", g.Schema)
		fmt.Fprintf(bw, "Count: %d\n", g.Count)
		fmt.Fprintln(bw, separator)
	}
	if s.Truncated() {
		fmt.Fprintln(bw, limitMarker)
	}
	if s.Valid() {
		fmt.Fprintln(bw, separator)
		fmt.Fprintln(bw, validLine)
		fmt.Fprintln(bw, separator)
	}
	return bw.Flush()
}

// oneLine keeps multi-line messages inside their block.
func oneLine(s string) string {
	return strings.ReplaceAll(s, "\n", " ")
}
