package model

import (
	"errors"
	"strings"
)

// ErrInvalidSpecification is returned when a numeric field is not strictly
// positive.
var ErrInvalidSpecification = errors.New("Invalid input values. All fields must be positive numbers.")

// GenerationRequest is the validated house specification passed to the
// generation pipeline. Build it with NewGenerationRequest; it is not modified
// afterwards.
type GenerationRequest struct {
	houseType   string
	plotSize    float64
	floorCount  int
	roomCount   int
	preferences []string
}

func NewGenerationRequest(houseType string, plotSize float64, floors, rooms int, preferences []string) (GenerationRequest, error) {
	if plotSize <= 0 || floors <= 0 || rooms <= 0 {
		return GenerationRequest{}, ErrInvalidSpecification
	}

	prefs := make([]string, 0, len(preferences))
	for _, p := range preferences {
		if p = strings.TrimSpace(p); p != "" {
			prefs = append(prefs, p)
		}
	}

	return GenerationRequest{
		houseType:   strings.TrimSpace(houseType),
		plotSize:    plotSize,
		floorCount:  floors,
		roomCount:   rooms,
		preferences: prefs,
	}, nil
}

func (r GenerationRequest) HouseType() string { return r.houseType }
func (r GenerationRequest) PlotSize() float64 { return r.plotSize }
func (r GenerationRequest) FloorCount() int   { return r.floorCount }
func (r GenerationRequest) RoomCount() int    { return r.roomCount }

// Preferences returns a copy of the preference list.
func (r GenerationRequest) Preferences() []string {
	return append([]string(nil), r.preferences...)
}

// PreferencesText joins the preferences for prompt templates.
func (r GenerationRequest) PreferencesText() string {
	if len(r.preferences) == 0 {
		return "no additional features"
	}
	return strings.Join(r.preferences, ", ")
}
