package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDraftFromPropertyPrefillsEveryField(t *testing.T) {
	p := Property{
		ID:            "7",
		Name:          "Casa Azul",
		Type:          "casa",
		Price:         250000,
		Area:          120.5,
		Bedrooms:      3,
		Bathrooms:     2,
		ParkingSpaces: 1,
		Address:       "Calle 1",
		Description:   "Cerca del parque",
		Latitude:      4.6,
		Longitude:     -74.1,
		MainImageURL:  "https://example.com/a.jpg",
		ImageURLs:     []string{"https://example.com/b.jpg"},
	}

	d := DraftFromProperty(p)

	assert.Equal(t, "Casa Azul", d.Name)
	assert.Equal(t, "casa", d.Type)
	assert.Equal(t, "250000", d.Price)
	assert.Equal(t, "120.5", d.Area)
	assert.Equal(t, "3", d.Bedrooms)
	assert.Equal(t, "2", d.Bathrooms)
	assert.Equal(t, "1", d.ParkingSpaces)
	assert.Equal(t, "4.6", d.Latitude)
	assert.Equal(t, "-74.1", d.Longitude)
	assert.Equal(t, []string{"https://example.com/b.jpg"}, d.ImageURLs)

	d.ImageURLs[0] = "changed"
	assert.Equal(t, "https://example.com/b.jpg", p.ImageURLs[0], "draft must not alias the property")
}

func TestNewPropertyDraftDefaults(t *testing.T) {
	d := NewPropertyDraft()
	assert.Equal(t, "", d.Name)
	assert.NotNil(t, d.ImageURLs)
	assert.Empty(t, d.ImageURLs)
}

func TestDraftAtFillsCoordinates(t *testing.T) {
	d := DraftAt(GeoPoint{Latitude: 4.6097, Longitude: -74.0817})
	assert.Equal(t, "4.6097", d.Latitude)
	assert.Equal(t, "-74.0817", d.Longitude)
	assert.Equal(t, "", d.Name)
}

func TestPropertyDraftSet(t *testing.T) {
	d := NewPropertyDraft()
	require.NoError(t, d.Set(FormParkingSpaces, "2"))
	require.NoError(t, d.Set(FormMainImageURL, "https://example.com/x.png"))
	assert.Equal(t, "2", d.ParkingSpaces)
	assert.Equal(t, "https://example.com/x.png", d.MainImageURL)

	assert.ErrorIs(t, d.Set(FormField("color"), "red"), ErrUnknownFormField)
}

func TestPropertyTypeIsKnown(t *testing.T) {
	assert.True(t, PropertyTypeWarehouse.IsKnown())
	assert.True(t, PropertyType("House").IsKnown())
	assert.False(t, PropertyType("casa").IsKnown())
}

func TestSelectionStateIsAddingProperty(t *testing.T) {
	assert.True(t, SelectionState{Mode: ModePlacingProperty}.IsAddingProperty())
	assert.False(t, SelectionState{Mode: ModeBrowsing}.IsAddingProperty())
	assert.False(t, SelectionState{Mode: ModeEditingExisting}.IsAddingProperty())
}
