package render

import (
	"context"
	"io"

	"house-design-backend/internal/svg"
	"house-design-backend/pkg/logger"

	"github.com/spf13/afero"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"
)

// DrawingRenderer parses the SVG from a transient file into a canvas drawing,
// rescales it and rasterizes the drawing.
type DrawingRenderer struct {
	fs         afero.Fs
	tempDir    string
	resolution canvas.Resolution
	parse      func(io.Reader) (*canvas.Canvas, error)
}

func NewDrawingRenderer(fs afero.Fs, tempDir string, dpi float64) *DrawingRenderer {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if dpi <= 0 {
		dpi = 96
	}
	return &DrawingRenderer{
		fs:         fs,
		tempDir:    tempDir,
		resolution: canvas.DPI(dpi),
		parse:      canvas.ParseSVG,
	}
}

func (r *DrawingRenderer) Name() string { return DrawingName }

func (r *DrawingRenderer) Render(ctx context.Context, doc svg.Document, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newRenderError(DrawingName, "render", KindTimeout, err)
	}

	tmp, err := createTempFile(r.fs, r.tempDir, "floorplan-*.svg", doc.Bytes())
	if err != nil {
		return nil, newRenderError(DrawingName, "write", KindIO, err)
	}
	defer func() {
		if err := tmp.Release(); err != nil {
			logger.Warnf("drawing renderer: failed to remove %s: %v", tmp.Path(), err)
		}
	}()

	drawing, err := r.load(tmp.Path())
	if err != nil {
		return nil, newRenderError(DrawingName, "parse", KindRejected, err)
	}

	// intrinsic size in pixels at the configured resolution
	dpmm := r.resolution.DPMM()
	origW, origH := drawing.W*dpmm, drawing.H*dpmm
	if origW <= 0 || origH <= 0 {
		return nil, newRenderError(DrawingName, "scale", KindRejected, ErrNoIntrinsicSize)
	}

	sx, sy := scaleFactors(origW, origH, opts)
	if sx != 1 || sy != 1 {
		drawing.Transform(canvas.Identity.Scale(sx, sy))
		drawing.W *= sx
		drawing.H *= sy
	}

	img := rasterizer.Draw(drawing, r.resolution, canvas.DefaultColorSpace)
	return encodeOrFail(DrawingName, img)
}

func (r *DrawingRenderer) load(path string) (*canvas.Canvas, error) {
	f, err := r.fs.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return r.parse(f)
}
