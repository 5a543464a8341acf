package storage

import (
	"house-design-backend/internal/model"
)

type Storage interface {
	// 图片管理
	SaveImage(name string, data []byte) (*model.StoredImage, error)
	GetImage(name string) ([]byte, error)
	ListImages() ([]*model.StoredImage, error)
	DeleteImage(name string) error

	// 存储管理
	Init() error
	Close() error
}
