package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"house-design-backend/internal/metrics"
	"house-design-backend/internal/model"
	"house-design-backend/internal/render"
	"house-design-backend/internal/svg"
	"house-design-backend/pkg/logger"
)

const floorPlanMessage = "successfully generated the map"

// PlanGenerator produces the raw model answer for a house specification.
type PlanGenerator interface {
	GeneratePlan(ctx context.Context, req model.GenerationRequest) (string, error)
}

// ImageConverter rasterizes an extracted SVG, falling back to the SVG itself.
type ImageConverter interface {
	ConvertToImage(ctx context.Context, doc svg.Document) render.Result
}

type DesignService struct {
	plans     PlanGenerator
	converter ImageConverter
}

func NewDesignService(plans PlanGenerator, converter ImageConverter) *DesignService {
	return &DesignService{plans: plans, converter: converter}
}

// GenerateFloorPlan runs model → extract → convert → assemble.
func (s *DesignService) GenerateFloorPlan(ctx context.Context, req model.GenerationRequest) (*model.DesignResponse, error) {
	text, err := s.plans.GeneratePlan(ctx, req)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("svg", "model_error").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	doc, err := svg.Extract(text)
	if err != nil {
		metrics.GenerationRequests.WithLabelValues("svg", "no_svg").Inc()
		return nil, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	result := s.converter.ConvertToImage(ctx, doc)
	resp := Assemble(result, doc)

	logger.WithFields(logger.Fields{
		"status":  resp.Status,
		"format":  resp.Format,
		"backend": resp.Backend,
		"svg_len": doc.Len(),
	}).Info("floor plan generated")
	metrics.GenerationRequests.WithLabelValues("svg", resp.Status).Inc()

	return &resp, nil
}

// Assemble builds the client payload. The raw SVG is always included; the
// base64 field holds the PNG or, on fallback, the UTF-8 bytes of the SVG.
func Assemble(result render.Result, source svg.Document) model.DesignResponse {
	resp := model.DesignResponse{
		Message:    floorPlanMessage,
		SVGContent: source.String(),
	}

	if result.IsFallback() {
		resp.Status = model.StatusSuccessWithFallback
		resp.Format = string(render.FormatSVG)
		resp.ImageBase64 = base64.StdEncoding.EncodeToString([]byte(result.SVG))
		return resp
	}

	resp.Status = model.StatusSuccess
	resp.Format = string(render.FormatPNG)
	resp.ImageBase64 = base64.StdEncoding.EncodeToString(result.PNG)
	resp.Width = result.Width
	resp.Height = result.Height
	resp.Backend = result.Backend
	return resp
}
