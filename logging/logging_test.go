package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestComponentField(t *testing.T) {
	var buf bytes.Buffer
	log := Component(Zerolog(New(&buf, zerolog.InfoLevel, "json")), "fetch")
	log.Info("hello", "url", "http://example.com/a.zip", "size", 12)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("output is not a json line: %v: %s", err, buf.String())
	}
	tests := []struct {
		key  string
		want any
	}{
		{"component", "fetch"},
		{"message", "hello"},
		{"level", "info"},
		{"url", "http://example.com/a.zip"},
		{"size", float64(12)},
	}
	for _, test := range tests {
		if got := line[test.key]; got != test.want {
			t.Errorf("%s: got %v, want %v", test.key, got, test.want)
		}
	}
}

func TestTextFormat(t *testing.T) {
	var buf bytes.Buffer
	log := Zerolog(New(&buf, zerolog.InfoLevel, "text"))
	log.Error("boom", "reason", "bad")

	out := buf.String()
	for _, want := range []string{"ERR", "boom", "reason=bad"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output, got: %s", want, out)
		}
	}
}

func TestLevelFilter(t *testing.T) {
	var buf bytes.Buffer
	log := Zerolog(New(&buf, zerolog.ErrorLevel, "json"))
	log.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("info line written at error level: %s", buf.String())
	}
	log.Error("kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Errorf("error line missing: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
		ok    bool
	}{
		{"", zerolog.InfoLevel, true},
		{"info", zerolog.InfoLevel, true},
		{"ERROR", zerolog.ErrorLevel, true},
		{"debug", zerolog.DebugLevel, true},
		{"loud", zerolog.NoLevel, false},
	}
	for _, test := range tests {
		got, err := ParseLevel(test.input)
		if (err == nil) != test.ok {
			t.Errorf("ParseLevel(%q): err=%v, want ok=%v", test.input, err, test.ok)
			continue
		}
		if got != test.want {
			t.Errorf("ParseLevel(%q): got %v, want %v", test.input, got, test.want)
		}
	}
}

func TestNop(t *testing.T) {
	OrNop(nil).Info("nothing")
	Component(Nop(), "x").Error("nothing")
}
