package imagegen

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"

	"house-design-backend/internal/model"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

var (
	ErrUnknownService = errors.New("Invalid service name")
	ErrEmptyImage     = errors.New("provider returned no image data")
	ErrUndecodable    = errors.New("provider returned data that is not an image")
)

// UpstreamError is a non-2xx answer from an image provider.
type UpstreamError struct {
	Service    string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s image provider returned status %d: %s", e.Service, e.StatusCode, e.Body)
}

// Generator turns a text prompt into a PNG image.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string) ([]byte, error)
}

// HousePrompt builds the text-to-image prompt for a house.
func HousePrompt(req model.GenerationRequest, bathrooms int) string {
	return fmt.Sprintf("A %s with a total area of %g square meters, %d floors, %d rooms, %d bathrooms, and %s. "+
		"The house should have a realistic architectural design.",
		req.HouseType(), req.PlotSize(), req.FloorCount(), req.RoomCount(), bathrooms, req.PreferencesText())
}

// normalizePNG re-encodes whatever raster the provider returned as PNG.
func normalizePNG(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, ErrEmptyImage
	}
	if bytes.HasPrefix(data, pngSignature) {
		if _, err := png.DecodeConfig(bytes.NewReader(data)); err == nil {
			return data, nil
		}
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")
