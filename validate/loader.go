package validate

import (
	"fmt"
	gourl "net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"gopkg.in/yaml.v3"
)

// LoadError is returned when a document cannot be read or parsed.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("error loading %q: %v", e.Path, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// LoadDocument reads the json document at path. Files ending in
// ".yaml" or ".yml" are read as yaml.
//
// Numbers in json documents are kept as json.Number.
func LoadDocument(path string) (any, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{path, err}
	}
	defer f.Close()

	var doc any
	if isYAML(path) {
		err = yaml.NewDecoder(f).Decode(&doc)
	} else {
		doc, err = jsonschema.UnmarshalJSON(f)
	}
	if err != nil {
		return nil, &LoadError{path, err}
	}
	return doc, nil
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// FileURL converts path to an absolute file url.
func FileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	u := gourl.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	if !strings.HasPrefix(u.Path, "/") {
		u.Path = "/" + u.Path
	}
	return u.String(), nil
}

// --

// fileLoader loads schemas referenced through $ref from disk and
// remembers them so that failing subschemas can be rendered.
type fileLoader struct {
	docs map[string]any
}

func (l fileLoader) Load(url string) (any, error) {
	path, err := jsonschema.FileLoader{}.ToFile(url)
	if err != nil {
		return nil, err
	}
	doc, err := LoadDocument(path)
	if err != nil {
		return nil, err
	}
	l.docs[url] = doc
	return doc, nil
}
