// Package render turns extracted SVG documents into PNG images through an
// ordered chain of renderer backends, falling back to the SVG itself.
package render

import (
	"context"

	"house-design-backend/internal/svg"
)

// Backend names, also used as metric labels and in config.
const (
	NativeName  = "native"
	DrawingName = "drawing"
	BrowserName = "browser"
)

// Backend converts an SVG document into PNG bytes.
type Backend interface {
	Name() string
	Render(ctx context.Context, doc svg.Document, opts Options) ([]byte, error)
}

// Options requests an output size. Zero means "use the intrinsic size"; when
// only one side is set the other is scaled to keep the aspect ratio.
type Options struct {
	Width  int
	Height int
}

// Format tags which variant a Result holds.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Result is the outcome of a conversion: either a rasterized PNG or the
// original SVG as a fallback.
type Result struct {
	Format  Format
	PNG     []byte
	Width   int
	Height  int
	Backend string
	SVG     string
}

func (r Result) IsFallback() bool { return r.Format == FormatSVG }

func pngResult(backend string, data []byte, width, height int) Result {
	return Result{Format: FormatPNG, PNG: data, Width: width, Height: height, Backend: backend}
}

func svgFallback(doc svg.Document) Result {
	return Result{Format: FormatSVG, SVG: doc.String()}
}
