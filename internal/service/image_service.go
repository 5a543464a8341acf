package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"house-design-backend/internal/config"
	"house-design-backend/internal/imagegen"
	"house-design-backend/internal/metrics"
	"house-design-backend/internal/model"
	"house-design-backend/internal/storage"
	"house-design-backend/pkg/logger"
)

const imageMessage = "Image generated successfully!"

// GeneratorRegistry resolves an image provider by service name.
type GeneratorRegistry interface {
	Get(name string) (imagegen.Generator, error)
}

type ImageService struct {
	generators GeneratorRegistry
	store      storage.Storage
	imageRoute string
}

// NewImageService serves stored images under imageRoute, e.g. "/api/v1/get-image".
func NewImageService(generators GeneratorRegistry, store storage.Storage, imageRoute string) *ImageService {
	return &ImageService{
		generators: generators,
		store:      store,
		imageRoute: strings.TrimRight(imageRoute, "/"),
	}
}

// NewStorage 根据配置选择存储实现
func NewStorage(cfg config.StorageConfig) (storage.Storage, error) {
	var store storage.Storage

	if cfg.Type == "disk" {
		store = storage.NewDiskStorage(cfg.DataDir, cfg.CacheTTL)
	} else {
		store = storage.NewMemoryStorage()
	}

	if err := store.Init(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *ImageService) GenerateHouseImage(ctx context.Context, req model.HouseImageRequest) (*model.HouseImageResponse, error) {
	spec, err := req.ToGenerationRequest()
	if err != nil {
		return nil, err
	}

	gen, err := s.generators.Get(req.Service)
	if err != nil {
		return nil, err
	}

	prompt := imagegen.HousePrompt(spec, req.NumBathrooms)
	log := logger.WithFields(logger.Fields{"service": gen.Name()})
	log.Debugf("image prompt: %s", prompt)

	data, err := gen.Generate(ctx, prompt)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("image", "provider_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	stored, err := s.store.SaveImage(storage.NewImageName(prompt), data)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("image", "storage_error").Inc()
		return nil, fmt.Errorf("failed to store generated image: %w", err)
	}

	log.WithField("filename", stored.Name).Info("house image generated")
	metrics.GenerationRequests.WithLabelValues("image", model.StatusSuccess).Inc()

	return &model.HouseImageResponse{
		Message:     imageMessage,
		Format:      "png",
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		Filename:    stored.Name,
		ImagePath:   s.imageRoute + "/" + stored.Name,
		Service:     gen.Name(),
	}, nil
}

func (s *ImageService) GetImage(name string) ([]byte, error) {
	return s.store.GetImage(name)
}

func (s *ImageService) ListImages() ([]*model.StoredImage, error) {
	return s.store.ListImages()
}
