package storage

import (
	"sort"
	"sync"
	"time"

	"house-design-backend/internal/model"
)

type memoryImage struct {
	data      []byte
	createdAt time.Time
}

type MemoryStorage struct {
	images map[string]memoryImage
	mu     sync.RWMutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		images: make(map[string]memoryImage),
	}
}

func (m *MemoryStorage) Init() error {
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}

func (m *MemoryStorage) SaveImage(name string, data []byte) (*model.StoredImage, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	img := memoryImage{data: append([]byte(nil), data...), createdAt: time.Now()}
	m.images[name] = img

	return &model.StoredImage{Name: name, Size: int64(len(data)), CreatedAt: img.createdAt}, nil
}

func (m *MemoryStorage) GetImage(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	img, exists := m.images[name]
	if !exists {
		return nil, ErrImageNotFound
	}
	return append([]byte(nil), img.data...), nil
}

func (m *MemoryStorage) ListImages() ([]*model.StoredImage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	images := make([]*model.StoredImage, 0, len(m.images))
	for name, img := range m.images {
		images = append(images, &model.StoredImage{
			Name:      name,
			Size:      int64(len(img.data)),
			CreatedAt: img.createdAt,
		})
	}

	sort.Slice(images, func(i, j int) bool {
		if images[i].CreatedAt.Equal(images[j].CreatedAt) {
			return images[i].Name < images[j].Name
		}
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})

	return images, nil
}

func (m *MemoryStorage) DeleteImage(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.images[name]; !exists {
		return ErrImageNotFound
	}
	delete(m.images, name)
	return nil
}
