// Copyright 2017 Santhosh Kumar Tekuri. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package archive

import (
	"bytes"
	"fmt"
	"path"
	"strings"
)

// Kind is the container format of a downloaded payload.
type Kind int

const (
	GZIP Kind = iota + 1
	ZIP
)

func (k Kind) String() string {
	switch k {
	case GZIP:
		return "gzip"
	case ZIP:
		return "zip"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

var gzipMagic = []byte{0x1f, 0x8b, 0x08}

// Classify returns GZIP when contentType names gzip or data starts with
// the gzip signature. Everything else is assumed to be ZIP.
func Classify(contentType string, data []byte) Kind {
	if strings.Contains(strings.ToLower(contentType), "gzip") || bytes.HasPrefix(data, gzipMagic) {
		return GZIP
	}
	return ZIP
}

// IsJSONName tells whether an archive member name carries the json suffix.
func IsJSONName(name string) bool {
	return strings.HasSuffix(name, ".json")
}

// MemberName strips the final extension from name, so that
// "data.json.gz" becomes "data.json".
func MemberName(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}
