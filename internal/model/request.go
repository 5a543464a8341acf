package model

// FloorPlanRequest 户型平面图（SVG）生成请求
type FloorPlanRequest struct {
	HouseType             string   `json:"house_type" binding:"required"`
	NumMarla              float64  `json:"num_marla"`
	NumFloors             int      `json:"num_floors"`
	NumBedrooms           int      `json:"num_bedrooms"`
	AdditionalPreferences []string `json:"additional_preferences"`
}

func (r FloorPlanRequest) ToGenerationRequest() (GenerationRequest, error) {
	return NewGenerationRequest(r.HouseType, r.NumMarla, r.NumFloors, r.NumBedrooms, r.AdditionalPreferences)
}

// HouseImageRequest 房屋效果图（文生图）生成请求
type HouseImageRequest struct {
	HouseType             string   `json:"house_type" binding:"required"`
	TotalArea             float64  `json:"total_area"`
	NumFloors             int      `json:"num_floors"`
	NumRooms              int      `json:"num_rooms"`
	NumBathrooms          int      `json:"num_bathrooms"`
	AdditionalPreferences []string `json:"additional_preferences"`
	Service               string   `json:"service"` // 可选，默认使用配置中的 image.default_service
}

func (r HouseImageRequest) ToGenerationRequest() (GenerationRequest, error) {
	if r.NumBathrooms < 0 {
		return GenerationRequest{}, ErrInvalidSpecification
	}
	return NewGenerationRequest(r.HouseType, r.TotalArea, r.NumFloors, r.NumRooms, r.AdditionalPreferences)
}
