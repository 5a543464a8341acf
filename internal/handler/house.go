package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"house-design-backend/internal/imagegen"
	"house-design-backend/internal/middleware"
	"house-design-backend/internal/model"
	"house-design-backend/internal/storage"
	"house-design-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

const (
	homeMessage         = "AI HOME DESIGN GENERATOR: v0.0.1"
	generationFailedMsg = "Failed to generate image. Please try again later."
	imageNotFoundMsg    = "Image not found."
)

type FloorPlanService interface {
	GenerateFloorPlan(ctx context.Context, req model.GenerationRequest) (*model.DesignResponse, error)
}

type ImageService interface {
	GenerateHouseImage(ctx context.Context, req model.HouseImageRequest) (*model.HouseImageResponse, error)
	GetImage(name string) ([]byte, error)
	ListImages() ([]*model.StoredImage, error)
}

type HouseHandler struct {
	floorPlans FloorPlanService
	images     ImageService
}

func NewHouseHandler(floorPlans FloorPlanService, images ImageService) *HouseHandler {
	return &HouseHandler{
		floorPlans: floorPlans,
		images:     images,
	}
}

func (h *HouseHandler) Home(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": homeMessage})
}

func (h *HouseHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().Unix(),
	})
}

func requestLogger(c *gin.Context) *logger.Entry {
	return logger.WithFields(logger.Fields{
		"request_id": c.GetString(middleware.RequestIDKey),
		"path":       c.FullPath(),
	})
}

func abortWithDetail(c *gin.Context, status int, detail string) {
	c.AbortWithStatusJSON(status, model.ErrorResponse{Detail: detail})
}

// GenerateHouseSVG 生成户型平面图：模型 → 提取SVG → 栅格化 → 组装响应
func (h *HouseHandler) GenerateHouseSVG(c *gin.Context) {
	var req model.FloorPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	spec, err := req.ToGenerationRequest()
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.floorPlans.GenerateFloorPlan(c.Request.Context(), spec)
	if err != nil {
		requestLogger(c).Errorf("floor plan generation failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, generationFailedMsg)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GenerateHouseImage 文生图：根据房屋参数生成效果图
func (h *HouseHandler) GenerateHouseImage(c *gin.Context) {
	var req model.HouseImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.images.GenerateHouseImage(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, resp)
	case errors.Is(err, model.ErrInvalidSpecification), errors.Is(err, imagegen.ErrUnknownService):
		abortWithDetail(c, http.StatusBadRequest, err.Error())
	default:
		requestLogger(c).Errorf("house image generation failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, generationFailedMsg)
	}
}

func (h *HouseHandler) GetImage(c *gin.Context) {
	data, err := h.images.GetImage(c.Param("filename"))
	switch {
	case err == nil:
		c.Data(http.StatusOK, "image/png", data)
	case errors.Is(err, storage.ErrImageNotFound), errors.Is(err, storage.ErrInvalidName):
		abortWithDetail(c, http.StatusNotFound, imageNotFoundMsg)
	default:
		requestLogger(c).Errorf("failed to read image: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "Failed to read image.")
	}
}

func (h *HouseHandler) ListImages(c *gin.Context) {
	images, err := h.images.ListImages()
	if err != nil {
		requestLogger(c).Errorf("failed to list images: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "Failed to list images.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"images": images,
		"total":  len(images),
	})
}
