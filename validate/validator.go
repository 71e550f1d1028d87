// Package validate checks json documents against a json-schema and
// summarizes the violations into a plain-text report.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	gourl "net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// SchemaError is returned when the schema does not compile.
type SchemaError struct {
	URL string
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("json-schema %q compilation failed: %v", e.URL, e.Err)
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// Violation is a single validation failure.
type Violation struct {
	Message          string
	InstanceLocation string // json pointer into the instance
	SchemaLocation   string // "#" followed by the json pointer of the failing subschema
	Schema           string // the failing subschema as compact json
}

type options struct {
	draft *jsonschema.Draft
	ecma  bool
	lang  language.Tag
}

// Option configures a Validator.
type Option func(*options)

// WithDraft sets the draft used when the schema has no "$schema".
// The default is draft-07.
func WithDraft(d *jsonschema.Draft) Option {
	return func(o *options) { o.draft = d }
}

// WithECMARegexp compiles "pattern" and "patternProperties" with
// ECMAScript regular expressions.
func WithECMARegexp() Option {
	return func(o *options) { o.ecma = true }
}

// WithLanguage sets the language of violation messages.
func WithLanguage(tag language.Tag) Option {
	return func(o *options) { o.lang = tag }
}

// Validator holds a compiled schema. It is safe for concurrent use.
type Validator struct {
	schema  *jsonschema.Schema
	docs    map[string]any
	printer *message.Printer
}

// New compiles the schema file at path.
func New(path string, opts ...Option) (*Validator, error) {
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	url, err := FileURL(path)
	if err != nil {
		return nil, &LoadError{path, err}
	}
	return NewFromDocument(url, doc, opts...)
}

// NewFromDocument compiles doc, which is registered under url so that
// relative references resolve against it.
func NewFromDocument(url string, doc any, opts ...Option) (*Validator, error) {
	o := options{draft: jsonschema.Draft7, lang: language.English}
	for _, opt := range opts {
		opt(&o)
	}

	docs := map[string]any{url: doc}
	c := jsonschema.NewCompiler()
	c.DefaultDraft(o.draft)
	c.UseLoader(jsonschema.SchemeURLLoader{"file": fileLoader{docs}})
	if o.ecma {
		c.UseRegexpEngine(ecmaCompile)
	}
	if err := c.AddResource(url, doc); err != nil {
		return nil, &SchemaError{url, err}
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, &SchemaError{url, err}
	}
	return &Validator{
		schema:  sch,
		docs:    docs,
		printer: message.NewPrinter(o.lang),
	}, nil
}

// Validate returns the violations of instance, or nil if it is valid.
// Violations are ordered by instance location, then schema location.
func (v *Validator) Validate(instance any) ([]Violation, error) {
	err := v.schema.Validate(instance)
	if err == nil {
		return nil, nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return nil, err
	}

	var vv []Violation
	for _, leaf := range leaves(verr, nil) {
		vv = append(vv, v.violation(leaf))
	}
	sort.SliceStable(vv, func(i, j int) bool {
		if vv[i].InstanceLocation != vv[j].InstanceLocation {
			return vv[i].InstanceLocation < vv[j].InstanceLocation
		}
		return vv[i].SchemaLocation < vv[j].SchemaLocation
	})
	return vv, nil
}

// leaves collects the errors reported for individual keywords,
// descending through wrappers that only group the errors of subschemas.
// anyOf, oneOf and not are reported as one error each.
func leaves(e *jsonschema.ValidationError, out []*jsonschema.ValidationError) []*jsonschema.ValidationError {
	switch e.ErrorKind.(type) {
	case *kind.Schema, *kind.Group, *kind.Reference, *kind.AllOf:
		if len(e.Causes) > 0 {
			for _, c := range e.Causes {
				out = leaves(c, out)
			}
			return out
		}
	}
	return append(out, e)
}

func (v *Validator) violation(e *jsonschema.ValidationError) Violation {
	base, frag, _ := strings.Cut(e.SchemaURL, "#")
	loc := "#" + frag
	text := e.SchemaURL
	if doc, ok := v.docs[base]; ok {
		if sub, ok := lookup(doc, frag); ok {
			if b, err := json.Marshal(sub); err == nil {
				text = string(b)
			}
		}
	}
	return Violation{
		Message:          e.ErrorKind.LocalizedString(v.printer),
		InstanceLocation: pointer(e.InstanceLocation),
		SchemaLocation:   loc,
		Schema:           text,
	}
}

// pointer joins tokens into a json pointer.
func pointer(tokens []string) string {
	var b strings.Builder
	for _, tok := range tokens {
		b.WriteByte('/')
		tok = strings.ReplaceAll(tok, "~", "~0")
		b.WriteString(strings.ReplaceAll(tok, "/", "~1"))
	}
	return b.String()
}

// lookup resolves the json pointer in url fragment frag against doc.
func lookup(doc any, frag string) (any, bool) {
	frag, err := gourl.PathUnescape(frag)
	if err != nil {
		return nil, false
	}
	if frag == "" {
		return doc, true
	}
	if !strings.HasPrefix(frag, "/") {
		return nil, false
	}
	v := doc
	for _, tok := range strings.Split(frag[1:], "/") {
		tok = strings.ReplaceAll(tok, "~1", "/")
		tok = strings.ReplaceAll(tok, "~0", "~")
		switch t := v.(type) {
		case map[string]any:
			var ok bool
			if v, ok = t[tok]; !ok {
				return nil, false
			}
		case []any:
			i, err := strconv.Atoi(tok)
			if err != nil || i < 0 || i >= len(t) {
				return nil, false
			}
			v = t[i]
		default:
			return nil, false
		}
	}
	return v, true
}
