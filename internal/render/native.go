package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"regexp"

	"house-design-backend/internal/svg"
	"house-design-backend/pkg/logger"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// NativeRenderer rasterizes SVG in-process with oksvg/rasterx.
//
// Parsing is attempted twice: first as SVG, then as a generic image blob whose
// format image.Decode detects on its own. Only when both fail is the input
// rejected, with the SVG error reported.
type NativeRenderer struct {
	errorMode oksvg.ErrorMode
}

func NewNativeRenderer(errorMode string) *NativeRenderer {
	return &NativeRenderer{errorMode: parseErrorMode(errorMode)}
}

func parseErrorMode(mode string) oksvg.ErrorMode {
	switch mode {
	case "ignore":
		return oksvg.IgnoreErrorMode
	case "warn":
		return oksvg.WarnErrorMode
	default:
		return oksvg.StrictErrorMode
	}
}

func (r *NativeRenderer) Name() string { return NativeName }

func (r *NativeRenderer) Render(ctx context.Context, doc svg.Document, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, newRenderError(NativeName, "render", KindTimeout, err)
	}

	data := doc.Bytes()

	img, svgErr := r.rasterizeSVG(data, opts)
	if svgErr == nil {
		return encodeOrFail(NativeName, img)
	}
	logger.Debugf("native renderer: svg parse failed, retrying as image blob: %v", svgErr)

	img, blobErr := decodeBlob(data, opts)
	if blobErr == nil {
		return encodeOrFail(NativeName, img)
	}

	return nil, newRenderError(NativeName, "parse", KindRejected, svgErr)
}

// oksvg stops reading the root element at a percentage width or height, so
// the viewBox after it is lost.
var percentSize = regexp.MustCompile(`(?i)\s(?:width|height)\s*=\s*["']\s*[0-9.]+\s*%\s*["']`)

// stripPercentSize drops percentage width/height attributes from the root
// <svg> tag and leaves the rest of the document untouched.
func stripPercentSize(data []byte) []byte {
	start := bytes.Index(bytes.ToLower(data), []byte("<svg"))
	if start < 0 {
		return data
	}
	end := bytes.IndexByte(data[start:], '>')
	if end < 0 {
		return data
	}
	end += start

	tag := percentSize.ReplaceAll(data[start:end], nil)
	if len(tag) == end-start {
		return data
	}
	out := make([]byte, 0, len(data))
	out = append(out, data[:start]...)
	out = append(out, tag...)
	return append(out, data[end:]...)
}

func (r *NativeRenderer) rasterizeSVG(data []byte, opts Options) (image.Image, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(stripPercentSize(data)), r.errorMode)
	if err != nil {
		return nil, err
	}

	w, h, err := targetSize(icon.ViewBox.W, icon.ViewBox.H, opts)
	if err != nil {
		return nil, err
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	raster := rasterx.NewDasher(w, h, scanner)
	icon.Draw(raster, 1.0)

	return img, nil
}

// decodeBlob is the second attempt: let the registered image decoders sniff
// the format.
func decodeBlob(data []byte, opts Options) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if b := img.Bounds(); b.Empty() {
		return nil, errors.New("decoded image is empty")
	}
	return resizeImage(img, opts), nil
}

func encodeOrFail(backend string, img image.Image) ([]byte, error) {
	data, err := encodePNG(img)
	if err != nil {
		return nil, newRenderError(backend, "encode", KindEncode, err)
	}
	return data, nil
}
