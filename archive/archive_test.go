package archive

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

type member struct {
	name, body string
}

func zipOf(t *testing.T, members ...member) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, m := range members {
		w, err := zw.Create(m.name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write([]byte(m.body)); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func gzipOf(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(body)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractZipSingleMember(t *testing.T) {
	data := zipOf(t, member{"in-network.json", `{"reporting_entity_name": "acme"}`})
	var e Extractor
	res, err := e.Extract(data, ZIP, "ignored.zip")
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{
		Name:     "in-network.json",
		Value:    map[string]any{"reporting_entity_name": "acme"},
		Encoding: "utf-8",
		Decoded:  true,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractZipRejects(t *testing.T) {
	tests := []struct {
		name    string
		members []member
		want    error
		msg     string
	}{
		{
			name:    "json plus readme",
			members: []member{{"a.json", `{}`}, {"README.txt", "hi"}},
			want:    ErrNonJSONMember,
			msg:     "README.txt",
		},
		{
			name:    "only non-json",
			members: []member{{"a.csv", "x,y"}},
			want:    ErrNonJSONMember,
			msg:     "a.csv",
		},
		{
			name:    "two json",
			members: []member{{"a.json", `{}`}, {"b.json", `{}`}},
			want:    ErrMemberCount,
			msg:     "found 2 files",
		},
		{
			name: "empty",
			want: ErrMemberCount,
			msg:  "found 0 files",
		},
		{
			name:    "directory entry",
			members: []member{{"dir/", ""}, {"dir/a.json", `{}`}},
			want:    ErrNonJSONMember,
			msg:     "dir/",
		},
	}
	for _, test := range tests {
		var e Extractor
		_, err := e.Extract(zipOf(t, test.members...), ZIP, "x.zip")
		if !errors.Is(err, test.want) {
			t.Errorf("%s: got %v, want %v", test.name, err, test.want)
			continue
		}
		var aerr *Error
		if !errors.As(err, &aerr) || aerr.Format != ZIP {
			t.Errorf("%s: got %T, want *Error for zip", test.name, err)
		}
		if !strings.Contains(err.Error(), test.msg) {
			t.Errorf("%s: message %q does not mention %q", test.name, err, test.msg)
		}
	}
}

func TestExtractCorrupt(t *testing.T) {
	gz := gzipOf(t, `{"a": 1}`)
	tests := []struct {
		name string
		kind Kind
		data []byte
	}{
		{"not a zip", ZIP, []byte("this is plain text")},
		{"truncated zip", ZIP, zipOf(t, member{"a.json", `{}`})[:20]},
		{"not a gzip", GZIP, []byte("plain")},
		{"truncated gzip", GZIP, gz[:len(gz)-6]},
	}
	for _, test := range tests {
		var e Extractor
		_, err := e.Extract(test.data, test.kind, "a.json.gz")
		if !errors.Is(err, ErrCorrupt) {
			t.Errorf("%s: got %v, want ErrCorrupt", test.name, err)
		}
		if errors.Is(err, ErrMemberCount) || errors.Is(err, ErrNonJSONMember) {
			t.Errorf("%s: corrupt container reported as content error: %v", test.name, err)
		}
	}
}

func TestExtractGzipLatin1(t *testing.T) {
	data := gzipOf(t, "{\"plan\": \"se\xf1or\"}")
	var e Extractor
	res, err := e.Extract(data, GZIP, "data.json.gz")
	if err != nil {
		t.Fatal(err)
	}
	want := &Result{
		Name:     "data.json",
		Value:    map[string]any{"plan": "señor"},
		Encoding: "latin-1",
		Decoded:  true,
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("Extract mismatch (-want +got):\n%s", diff)
	}
}

func TestExtractUndecodable(t *testing.T) {
	data := zipOf(t, member{"a.json", `{"broken": `})
	var e Extractor
	res, err := e.Extract(data, ZIP, "a.zip")
	if err != nil {
		t.Fatal(err)
	}
	if res.Decoded || res.Value != nil || res.Name != "a.json" {
		t.Errorf("got %+v, want undecoded a.json", res)
	}
}

func TestClassify(t *testing.T) {
	gz := []byte{0x1f, 0x8b, 0x08, 0x00}
	tests := []struct {
		contentType string
		data        []byte
		want        Kind
	}{
		{"application/x-gzip", []byte("PK\x03\x04"), GZIP},
		{"application/gzip", nil, GZIP},
		{"Application/X-GZIP; charset=binary", nil, GZIP},
		{"", gz, GZIP},
		{"application/octet-stream", gz, GZIP},
		{"application/zip", []byte("PK\x03\x04"), ZIP},
		{"", []byte{0x1f, 0x8b}, ZIP},
		{"", nil, ZIP},
	}
	for _, test := range tests {
		if got := Classify(test.contentType, test.data); got != test.want {
			t.Errorf("Classify(%q, % x): got %v, want %v", test.contentType, test.data, got, test.want)
		}
	}
}

func TestMemberName(t *testing.T) {
	tests := []struct{ input, want string }{
		{"data.json.gz", "data.json"},
		{"data.gz", "data"},
		{"data", "data"},
		{"2024-01_in-network.json.gzip", "2024-01_in-network.json"},
	}
	for _, test := range tests {
		if got := MemberName(test.input); got != test.want {
			t.Errorf("MemberName(%q): got %q, want %q", test.input, got, test.want)
		}
	}
}

func TestKindString(t *testing.T) {
	tests := []struct {
		k    Kind
		want string
	}{
		{GZIP, "gzip"},
		{ZIP, "zip"},
		{Kind(0), "Kind(0)"},
	}
	for _, test := range tests {
		if got := test.k.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}
