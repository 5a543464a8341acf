package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"

	"house-design-backend/internal/config"
	"house-design-backend/internal/imagegen"
	"house-design-backend/internal/model"
	"house-design-backend/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	name   string
	data   []byte
	err    error
	prompt string
}

func (g *stubGenerator) Name() string { return g.name }

func (g *stubGenerator) Generate(_ context.Context, prompt string) ([]byte, error) {
	g.prompt = prompt
	return g.data, g.err
}

type stubRegistry map[string]imagegen.Generator

func (r stubRegistry) Get(name string) (imagegen.Generator, error) {
	if name == "" {
		name = "hf"
	}
	g, ok := r[name]
	if !ok {
		return nil, imagegen.ErrUnknownService
	}
	return g, nil
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))))
	return buf.Bytes()
}

func validImageRequest() model.HouseImageRequest {
	return model.HouseImageRequest{
		HouseType:    "bungalow",
		TotalArea:    150,
		NumFloors:    1,
		NumRooms:     3,
		NumBathrooms: 2,
	}
}

func TestGenerateHouseImageStoresAndEncodes(t *testing.T) {
	data := tinyPNG(t)
	gen := &stubGenerator{name: "hf", data: data}
	store := storage.NewMemoryStorage()
	svc := NewImageService(stubRegistry{"hf": gen}, store, "/api/v1/get-image/")

	resp, err := svc.GenerateHouseImage(context.Background(), validImageRequest())
	require.NoError(t, err)

	assert.Equal(t, "Image generated successfully!", resp.Message)
	assert.Equal(t, "png", resp.Format)
	assert.Equal(t, "hf", resp.Service)
	assert.Equal(t, base64.StdEncoding.EncodeToString(data), resp.ImageBase64)
	assert.True(t, strings.HasPrefix(resp.Filename, "A_bungalow_with_a_total_area_of_150_square_meters_"))
	assert.Equal(t, "/api/v1/get-image/"+resp.Filename, resp.ImagePath)
	assert.Contains(t, gen.prompt, "2 bathrooms")

	stored, err := svc.GetImage(resp.Filename)
	require.NoError(t, err)
	assert.Equal(t, data, stored)

	list, err := svc.ListImages()
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestGenerateHouseImageValidation(t *testing.T) {
	svc := NewImageService(stubRegistry{}, storage.NewMemoryStorage(), "/img")

	req := validImageRequest()
	req.TotalArea = 0
	_, err := svc.GenerateHouseImage(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidSpecification)

	req = validImageRequest()
	req.NumBathrooms = -1
	_, err = svc.GenerateHouseImage(context.Background(), req)
	assert.ErrorIs(t, err, model.ErrInvalidSpecification)
}

func TestGenerateHouseImageUnknownService(t *testing.T) {
	svc := NewImageService(stubRegistry{}, storage.NewMemoryStorage(), "/img")

	req := validImageRequest()
	req.Service = "dalle"
	_, err := svc.GenerateHouseImage(context.Background(), req)
	assert.ErrorIs(t, err, imagegen.ErrUnknownService)
}

func TestGenerateHouseImageProviderFailure(t *testing.T) {
	gen := &stubGenerator{name: "hf", err: errors.New("model loading")}
	store := storage.NewMemoryStorage()
	svc := NewImageService(stubRegistry{"hf": gen}, store, "/img")

	_, err := svc.GenerateHouseImage(context.Background(), validImageRequest())
	assert.ErrorIs(t, err, ErrGenerationFailed)

	list, err := store.ListImages()
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestNewStorage(t *testing.T) {
	store, err := NewStorage(config.StorageConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &storage.MemoryStorage{}, store)

	store, err = NewStorage(config.StorageConfig{Type: "disk", DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &storage.DiskStorage{}, store)
}
