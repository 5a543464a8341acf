package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"house-design-backend/internal/imagegen"
	"house-design-backend/internal/model"
	"house-design-backend/internal/service"
	"house-design-backend/internal/storage"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubFloorPlans struct {
	resp  *model.DesignResponse
	err   error
	calls int
	got   model.GenerationRequest
}

func (s *stubFloorPlans) GenerateFloorPlan(_ context.Context, req model.GenerationRequest) (*model.DesignResponse, error) {
	s.calls++
	s.got = req
	return s.resp, s.err
}

type stubImages struct {
	resp   *model.HouseImageResponse
	err    error
	images map[string][]byte
}

func (s *stubImages) GenerateHouseImage(_ context.Context, req model.HouseImageRequest) (*model.HouseImageResponse, error) {
	if _, err := req.ToGenerationRequest(); err != nil {
		return nil, err
	}
	return s.resp, s.err
}

func (s *stubImages) GetImage(name string) ([]byte, error) {
	if err := storage.ValidateName(name); err != nil {
		return nil, err
	}
	data, ok := s.images[name]
	if !ok {
		return nil, storage.ErrImageNotFound
	}
	return data, nil
}

func (s *stubImages) ListImages() ([]*model.StoredImage, error) {
	out := make([]*model.StoredImage, 0, len(s.images))
	for name, data := range s.images {
		out = append(out, &model.StoredImage{Name: name, Size: int64(len(data))})
	}
	return out, nil
}

func setupRouter(h *HouseHandler) *gin.Engine {
	r := gin.New()
	r.GET("/", h.Home)
	r.GET("/health", h.Health)
	api := r.Group("/api/v1")
	api.POST("/generate-house-svg", h.GenerateHouseSVG)
	api.POST("/generate-house-image", h.GenerateHouseImage)
	api.GET("/get-image/:filename", h.GetImage)
	api.GET("/images", h.ListImages)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func detail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Detail
}

func TestHome(t *testing.T) {
	r := setupRouter(NewHouseHandler(&stubFloorPlans{}, &stubImages{}))

	w := do(r, http.MethodGet, "/", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"AI HOME DESIGN GENERATOR: v0.0.1"}`, w.Body.String())

	w = do(r, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestGenerateHouseSVG(t *testing.T) {
	plans := &stubFloorPlans{resp: &model.DesignResponse{
		Message:     "successfully generated the map",
		Status:      model.StatusSuccessWithFallback,
		Format:      "svg",
		ImageBase64: "PHN2Zz48L3N2Zz4=",
		SVGContent:  "<svg></svg>",
	}}
	r := setupRouter(NewHouseHandler(plans, &stubImages{}))

	w := do(r, http.MethodPost, "/api/v1/generate-house-svg",
		`{"house_type":"modern","num_marla":5,"num_floors":2,"num_bedrooms":3,"additional_preferences":["garden"]}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.DesignResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "svg", resp.Format)
	assert.Equal(t, "<svg></svg>", resp.SVGContent)
	assert.Equal(t, 5.0, plans.got.PlotSize())
	assert.Equal(t, []string{"garden"}, plans.got.Preferences())
}

func TestGenerateHouseSVGValidation(t *testing.T) {
	plans := &stubFloorPlans{}
	r := setupRouter(NewHouseHandler(plans, &stubImages{}))

	w := do(r, http.MethodPost, "/api/v1/generate-house-svg",
		`{"house_type":"modern","num_marla":0,"num_floors":2,"num_bedrooms":3}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid input values. All fields must be positive numbers.", detail(t, w))

	w = do(r, http.MethodPost, "/api/v1/generate-house-svg", `{"num_marla":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, 0, plans.calls)
}

func TestGenerateHouseSVGFailure(t *testing.T) {
	plans := &stubFloorPlans{err: errors.Join(service.ErrGenerationFailed, errors.New("no svg"))}
	r := setupRouter(NewHouseHandler(plans, &stubImages{}))

	w := do(r, http.MethodPost, "/api/v1/generate-house-svg",
		`{"house_type":"modern","num_marla":5,"num_floors":2,"num_bedrooms":3}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate image. Please try again later.", detail(t, w))
}

func TestGenerateHouseImage(t *testing.T) {
	images := &stubImages{resp: &model.HouseImageResponse{
		Message:  "Image generated successfully!",
		Format:   "png",
		Filename: "a.png",
	}}
	r := setupRouter(NewHouseHandler(&stubFloorPlans{}, images))
	body := `{"house_type":"villa","total_area":120,"num_floors":2,"num_rooms":4,"num_bathrooms":2}`

	w := do(r, http.MethodPost, "/api/v1/generate-house-image", body)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"filename":"a.png"`)

	w = do(r, http.MethodPost, "/api/v1/generate-house-image",
		`{"house_type":"villa","total_area":-1,"num_floors":2,"num_rooms":4,"num_bathrooms":2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	images.resp, images.err = nil, imagegen.ErrUnknownService
	w = do(r, http.MethodPost, "/api/v1/generate-house-image", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid service name", detail(t, w))

	images.err = errors.New("provider down")
	w = do(r, http.MethodPost, "/api/v1/generate-house-image", body)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Failed to generate image. Please try again later.", detail(t, w))
}

func TestGetImage(t *testing.T) {
	images := &stubImages{images: map[string][]byte{"house.png": []byte("\x89PNG")}}
	r := setupRouter(NewHouseHandler(&stubFloorPlans{}, images))

	w := do(r, http.MethodGet, "/api/v1/get-image/house.png", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.Equal(t, "\x89PNG", w.Body.String())

	w = do(r, http.MethodGet, "/api/v1/get-image/missing.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Image not found.", detail(t, w))

	w = do(r, http.MethodGet, "/api/v1/get-image/..%2Fsecret.png", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListImages(t *testing.T) {
	images := &stubImages{images: map[string][]byte{"a.png": []byte("a"), "b.png": []byte("bb")}}
	r := setupRouter(NewHouseHandler(&stubFloorPlans{}, images))

	w := do(r, http.MethodGet, "/api/v1/images", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Images []model.StoredImage `json:"images"`
		Total  int                 `json:"total"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Total)
	assert.Len(t, body.Images, 2)
}
