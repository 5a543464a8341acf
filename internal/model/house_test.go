package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGenerationRequest(t *testing.T) {
	prefs := []string{" garden ", "", "balcony"}
	req, err := NewGenerationRequest(" modern ", 5, 2, 3, prefs)
	require.NoError(t, err)

	assert.Equal(t, "modern", req.HouseType())
	assert.Equal(t, 5.0, req.PlotSize())
	assert.Equal(t, 2, req.FloorCount())
	assert.Equal(t, 3, req.RoomCount())
	assert.Equal(t, []string{"garden", "balcony"}, req.Preferences())
	assert.Equal(t, "garden, balcony", req.PreferencesText())

	// the request keeps its own copy
	prefs[0] = "pool"
	out := req.Preferences()
	out[1] = "changed"
	assert.Equal(t, []string{"garden", "balcony"}, req.Preferences())
}

func TestNewGenerationRequestRejectsNonPositive(t *testing.T) {
	cases := []struct {
		plot          float64
		floors, rooms int
	}{
		{0, 1, 1},
		{-3, 1, 1},
		{5, 0, 1},
		{5, 1, 0},
		{5, -1, 2},
	}
	for _, tc := range cases {
		_, err := NewGenerationRequest("house", tc.plot, tc.floors, tc.rooms, nil)
		assert.ErrorIs(t, err, ErrInvalidSpecification)
	}
}

func TestPreferencesTextDefault(t *testing.T) {
	req, err := NewGenerationRequest("cabin", 1, 1, 1, nil)
	require.NoError(t, err)
	assert.Equal(t, "no additional features", req.PreferencesText())
}

func TestHouseImageRequestBathrooms(t *testing.T) {
	req := HouseImageRequest{HouseType: "villa", TotalArea: 100, NumFloors: 1, NumRooms: 2}
	_, err := req.ToGenerationRequest()
	assert.NoError(t, err)

	req.NumBathrooms = -1
	_, err = req.ToGenerationRequest()
	assert.ErrorIs(t, err, ErrInvalidSpecification)
}
