package model

import "time"

const (
	StatusSuccess             = "success"
	StatusSuccessWithFallback = "success_with_fallback"
)

// DesignResponse is returned by the floor plan endpoint. SVGContent is always
// set so clients keep the vector source even when a PNG was produced.
type DesignResponse struct {
	Message     string `json:"message"`
	Status      string `json:"status"`
	Format      string `json:"format"` // "png" | "svg"
	ImageBase64 string `json:"image_base64"`
	SVGContent  string `json:"svg_content"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	Backend     string `json:"backend,omitempty"` // 成功栅格化的渲染器
}

// HouseImageResponse is returned by the text-to-image endpoint.
type HouseImageResponse struct {
	Message     string `json:"message"`
	Format      string `json:"format"`
	ImageBase64 string `json:"image_base64"`
	Filename    string `json:"filename"`
	ImagePath   string `json:"image_path"`
	Service     string `json:"service"`
}

// StoredImage describes an image kept by the image store.
type StoredImage struct {
	Name      string    `json:"name"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

type ErrorResponse struct {
	Detail string `json:"detail"`
}
