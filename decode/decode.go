// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package decode turns raw member bytes into a json value by trying a
// fixed, ordered list of text encodings.
package decode

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
	"golang.org/x/text/transform"

	"github.com/mrftool/mrf/logging"
)

// An Encoding converts bytes in some character encoding to UTF-8.
// Decode must return an error if data is not a valid byte sequence
// for the encoding.
type Encoding struct {
	Name   string
	Decode func(data []byte) ([]byte, error)
}

// Names of the built-in encodings.
const (
	UTF8    = "utf-8"
	Latin1  = "latin-1"
	UTF16   = "utf-16"
	UTF16BE = "utf-16be"
	UTF32   = "utf-32"
)

var (
	mu        sync.RWMutex
	encodings = map[string]Encoding{
		UTF8:    {UTF8, validUTF8},
		Latin1:  {Latin1, transformer(charmap.ISO8859_1, 1)},
		UTF16:   {UTF16, transformer(unicode.UTF16(unicode.LittleEndian, unicode.UseBOM), 2)},
		UTF16BE: {UTF16BE, transformer(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), 2)},
		UTF32:   {UTF32, transformer(utf32.UTF32(utf32.LittleEndian, utf32.UseBOM), 4)},
	}
)

// Register registers Encoding e under e.Name, replacing any existing one.
func Register(e Encoding) {
	mu.Lock()
	defer mu.Unlock()
	encodings[e.Name] = e
}

// Lookup returns the Encoding registered under name, if found.
func Lookup(name string) (Encoding, bool) {
	mu.RLock()
	defer mu.RUnlock()
	e, ok := encodings[name]
	return e, ok
}

// DefaultEncodings returns the encodings in the order they are attempted.
func DefaultEncodings() []Encoding {
	var ee []Encoding
	for _, name := range []string{UTF8, Latin1, UTF16, UTF16BE, UTF32} {
		e, _ := Lookup(name)
		ee = append(ee, e)
	}
	return ee
}

func validUTF8(data []byte) ([]byte, error) {
	out, _, err := transform.Bytes(encoding.UTF8Validator, data)
	return out, err
}

// transformer decodes with enc after checking data is a whole number
// of code units.
func transformer(enc encoding.Encoding, unit int) func([]byte) ([]byte, error) {
	return func(data []byte) ([]byte, error) {
		if len(data)%unit != 0 {
			return nil, fmt.Errorf("truncated data: %d bytes is not a multiple of %d", len(data), unit)
		}
		return enc.NewDecoder().Bytes(data)
	}
}

// --

// Policy decides what happens when text decodes under an encoding but
// does not parse as json.
type Policy int

const (
	// StopOnParseError gives up on the first json parse failure.
	StopOnParseError Policy = iota

	// TryAll moves on to the next encoding after a json parse failure.
	TryAll
)

func (p Policy) String() string {
	switch p {
	case StopOnParseError:
		return "stop-on-parse-error"
	case TryAll:
		return "try-all"
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// ParsePolicy parses the String form of a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "stop-on-parse-error":
		return StopOnParseError, nil
	case "try-all":
		return TryAll, nil
	}
	return 0, fmt.Errorf("invalid decode policy %q", s)
}

// --

// Decoder tries Encodings in order. The zero value uses DefaultEncodings,
// StopOnParseError and no logging.
//
// A Decoder is not modified by Decode and may be shared between goroutines.
type Decoder struct {
	Encodings []Encoding
	Policy    Policy
	Log       logging.Logger
}

// Decode returns the json value of data under the first encoding that
// both decodes data and parses as json, along with the encoding's name.
// ok is false when no encoding produced json; that is not an error.
func (d *Decoder) Decode(data []byte) (v any, enc string, ok bool) {
	log := logging.OrNop(d.Log)
	ee := d.Encodings
	if len(ee) == 0 {
		ee = DefaultEncodings()
	}
	for _, e := range ee {
		log.Info("decoding data", "encoding", e.Name)
		text, err := e.Decode(data)
		if err != nil {
			continue
		}
		val, err := jsonschema.UnmarshalJSON(bytes.NewReader(text))
		if err != nil {
			log.Error("error decoding json data", "encoding", e.Name, "error", err.Error())
			if d.Policy == TryAll {
				continue
			}
			return nil, "", false
		}
		return val, e.Name, true
	}
	log.Error("unable to decode data")
	return nil, "", false
}
