package mimetypes

import (
	"mime"

	"github.com/gabriel-vasile/mimetype"
)

type MIME string

const (
	Unknown   MIME = "unknown"
	TextPlain MIME = "text/plain"
	TextCSV   MIME = "text/csv"
	TextTSV   MIME = "text/tab-separated-values"
)

// Matches compares a detected media type, parameters ignored, with the expected one.
func Matches(detected string, expected MIME) bool {
	mt, _, err := mime.ParseMediaType(detected)
	if err != nil {
		return false
	}
	return mt == string(expected)
}

// IsText reports whether the detected type, or one of its ancestors, is a
// plain-text format a comment file can be read from.
func IsText(detected *mimetype.MIME) bool {
	for mt := detected; mt != nil; mt = mt.Parent() {
		for _, expected := range []MIME{TextPlain, TextCSV, TextTSV} {
			if Matches(mt.String(), expected) {
				return true
			}
		}
	}
	return false
}
