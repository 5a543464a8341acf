// Package svg pulls an SVG document out of free-form model output.
package svg

import (
	"errors"
	"fmt"
	"regexp"
	"unicode/utf8"
)

// ErrNoSVGFound is returned (wrapped in *ExtractionError) when the text holds
// no <svg ...>...</svg> block.
var ErrNoSVGFound = errors.New("no svg found")

// excerptLimit bounds how much of the offending text an ExtractionError keeps.
const excerptLimit = 256

// First <svg up to the first </svg> after it. Not nesting aware.
var svgPattern = regexp.MustCompile(`(?i)<svg[\s\S]*?</svg>`)

// Document is an SVG fragment that was pattern-matched out of model text.
// It starts with <svg and ends with </svg>; XML validity is not checked.
type Document struct {
	source string
}

func (d Document) String() string { return d.source }

func (d Document) Bytes() []byte { return []byte(d.source) }

func (d Document) Len() int { return len(d.source) }

// ExtractionError reports that no SVG could be extracted. Excerpt holds a
// bounded prefix of the text that was scanned.
type ExtractionError struct {
	Excerpt   string
	Truncated bool
}

func (e *ExtractionError) Error() string {
	suffix := ""
	if e.Truncated {
		suffix = "..."
	}
	return fmt.Sprintf("could not extract svg from provided text: %q%s", e.Excerpt, suffix)
}

func (e *ExtractionError) Unwrap() error { return ErrNoSVGFound }

// Extract returns the first <svg>...</svg> block of text, byte for byte.
func Extract(text string) (Document, error) {
	loc := svgPattern.FindStringIndex(text)
	if loc == nil {
		excerpt, truncated := boundedPrefix(text, excerptLimit)
		return Document{}, &ExtractionError{Excerpt: excerpt, Truncated: truncated}
	}
	return Document{source: text[loc[0]:loc[1]]}, nil
}

func boundedPrefix(s string, limit int) (string, bool) {
	if utf8.RuneCountInString(s) <= limit {
		return s, false
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i], true
		}
		n++
	}
	return s, false
}
