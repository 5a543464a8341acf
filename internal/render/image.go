package render

import (
	"bytes"
	"image"
	"image/png"
	"math"

	"golang.org/x/image/draw"
)

// targetSize resolves the requested output size against an intrinsic size.
func targetSize(intrinsicW, intrinsicH float64, opts Options) (int, int, error) {
	if opts.Width > 0 && opts.Height > 0 {
		return opts.Width, opts.Height, nil
	}
	if intrinsicW <= 0 || intrinsicH <= 0 {
		return 0, 0, ErrNoIntrinsicSize
	}

	switch {
	case opts.Width > 0:
		return opts.Width, roundPositive(float64(opts.Width) * intrinsicH / intrinsicW), nil
	case opts.Height > 0:
		return roundPositive(float64(opts.Height) * intrinsicW / intrinsicH), opts.Height, nil
	default:
		return roundPositive(intrinsicW), roundPositive(intrinsicH), nil
	}
}

// scaleFactors returns per-axis scale factors. With only one side requested
// the scale is uniform.
func scaleFactors(origW, origH float64, opts Options) (float64, float64) {
	sx, sy := 1.0, 1.0
	if opts.Width > 0 && origW > 0 {
		sx = float64(opts.Width) / origW
	}
	if opts.Height > 0 && origH > 0 {
		sy = float64(opts.Height) / origH
	}

	switch {
	case opts.Width > 0 && opts.Height > 0:
		return sx, sy
	case opts.Width > 0:
		return sx, sx
	case opts.Height > 0:
		return sy, sy
	default:
		return 1, 1
	}
}

func roundPositive(v float64) int {
	n := int(math.Round(v))
	if n < 1 {
		return 1
	}
	return n
}

// resizeImage scales img to the requested size, or returns it unchanged when
// no size is requested.
func resizeImage(img image.Image, opts Options) image.Image {
	if opts.Width <= 0 && opts.Height <= 0 {
		return img
	}
	b := img.Bounds()
	w, h, err := targetSize(float64(b.Dx()), float64(b.Dy()), opts)
	if err != nil || (w == b.Dx() && h == b.Dy()) {
		return img
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
