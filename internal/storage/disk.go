package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"house-design-backend/internal/model"
	"house-design-backend/pkg/logger"

	"github.com/patrickmn/go-cache"
)

type DiskStorage struct {
	dataDir string
	mu      sync.RWMutex
	cache   *cache.Cache
}

func NewDiskStorage(dataDir string, cacheTTL time.Duration) *DiskStorage {
	if cacheTTL <= 0 {
		cacheTTL = cache.NoExpiration
	}
	return &DiskStorage{
		dataDir: dataDir,
		cache:   cache.New(cacheTTL, 2*cacheTTL),
	}
}

func (d *DiskStorage) Init() error {
	if err := os.MkdirAll(d.dataDir, 0755); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}

	// 清理上次异常退出遗留的临时文件
	leftovers, err := filepath.Glob(filepath.Join(d.dataDir, "*.tmp"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageInit, err)
	}
	for _, path := range leftovers {
		if err := os.Remove(path); err != nil {
			logger.Warnf("Failed to remove stale temp file %s: %v", path, err)
		}
	}

	logger.Infof("Disk storage initialized at %s", d.dataDir)
	return nil
}

func (d *DiskStorage) imagePath(name string) string {
	return filepath.Join(d.dataDir, name)
}

func (d *DiskStorage) SaveImage(name string, data []byte) (*model.StoredImage, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrInvalidData
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	path := d.imagePath(name)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0644); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache.SetDefault(name, data)

	return &model.StoredImage{
		Name:      name,
		Size:      int64(len(data)),
		CreatedAt: time.Now(),
	}, nil
}

func (d *DiskStorage) GetImage(name string) ([]byte, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	if cached, ok := d.cache.Get(name); ok {
		return cached.([]byte), nil
	}

	d.mu.RLock()
	data, err := os.ReadFile(d.imagePath(name))
	d.mu.RUnlock()
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrImageNotFound
		}
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache.SetDefault(name, data)
	return data, nil
}

func (d *DiskStorage) ListImages() ([]*model.StoredImage, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	entries, err := os.ReadDir(d.dataDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	images := make([]*model.StoredImage, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || ValidateName(entry.Name()) != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.Errorf("Failed to stat image %s: %v", entry.Name(), err)
			continue
		}
		images = append(images, &model.StoredImage{
			Name:      entry.Name(),
			Size:      info.Size(),
			CreatedAt: info.ModTime(),
		})
	}

	sort.Slice(images, func(i, j int) bool {
		return images[i].CreatedAt.After(images[j].CreatedAt)
	})

	return images, nil
}

func (d *DiskStorage) DeleteImage(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if err := os.Remove(d.imagePath(name)); err != nil {
		if os.IsNotExist(err) {
			return ErrImageNotFound
		}
		return fmt.Errorf("%w: %v", ErrFileOperation, err)
	}

	d.cache.Delete(name)
	return nil
}

func (d *DiskStorage) Close() error {
	d.cache.Flush()
	return nil
}
