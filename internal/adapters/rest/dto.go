package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"property-map/internal/core/domain"
)

// formValue - значение поля формы. Браузер может прислать и строку, и число.
type formValue string

func (v *formValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = formValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("form value must be a string or a number: %w", err)
	}
	*v = formValue(n.String())
	return nil
}

// PropertyDraftRequest - тело POST /placement/submit и /edit/submit.
type PropertyDraftRequest struct {
	Name          formValue `json:"name"`
	Description   formValue `json:"description"`
	Type          formValue `json:"type"`
	Price         formValue `json:"price"`
	Area          formValue `json:"area"`
	Latitude      formValue `json:"latitude"`
	Longitude     formValue `json:"longitude"`
	Address       formValue `json:"address"`
	Bedrooms      formValue `json:"bedrooms"`
	Bathrooms     formValue `json:"bathrooms"`
	ParkingSpaces formValue `json:"parkingSpaces"`
	MainImageURL  formValue `json:"mainImageUrl"`
	ImageURLs     []string  `json:"imageUrls"`
}

func (r PropertyDraftRequest) toDomain() domain.PropertyDraft {
	images := r.ImageURLs
	if images == nil {
		images = []string{}
	}
	return domain.PropertyDraft{
		Name:          string(r.Name),
		Description:   string(r.Description),
		Type:          string(r.Type),
		Price:         string(r.Price),
		Area:          string(r.Area),
		Latitude:      string(r.Latitude),
		Longitude:     string(r.Longitude),
		Address:       string(r.Address),
		Bedrooms:      string(r.Bedrooms),
		Bathrooms:     string(r.Bathrooms),
		ParkingSpaces: string(r.ParkingSpaces),
		MainImageURL:  string(r.MainImageURL),
		ImageURLs:     images,
	}
}

// FilterDraftRequest - тело PUT /filters.
type FilterDraftRequest struct {
	Type      formValue `json:"type"`
	MinPrice  formValue `json:"minPrice"`
	MaxPrice  formValue `json:"maxPrice"`
	MinArea   formValue `json:"minArea"`
	MaxArea   formValue `json:"maxArea"`
	Bedrooms  formValue `json:"bedrooms"`
	Bathrooms formValue `json:"bathrooms"`
}

func (r FilterDraftRequest) toDomain() domain.FilterDraft {
	return domain.FilterDraft{
		Type:      string(r.Type),
		MinPrice:  string(r.MinPrice),
		MaxPrice:  string(r.MaxPrice),
		MinArea:   string(r.MinArea),
		MaxArea:   string(r.MaxArea),
		Bedrooms:  string(r.Bedrooms),
		Bathrooms: string(r.Bathrooms),
	}
}

// MapClickRequest - тело POST /map/click.
type MapClickRequest struct {
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`
}

// MapClickResponse - принят ли клик и новое состояние.
type MapClickResponse struct {
	Accepted bool               `json:"accepted"`
	State    domain.SessionView `json:"state"`
}

// PageRequest - тело PUT /page.
type PageRequest struct {
	Page int `json:"page"`
}

// DeleteResponse - результат DELETE /properties/{id}.
type DeleteResponse struct {
	Deleted bool               `json:"deleted"`
	State   domain.SessionView `json:"state"`
}

// ErrorResponse - тело ответа с ошибкой проверки формы.
type ErrorResponse struct {
	Error  string      `json:"error"`
	Fields interface{} `json:"fields,omitempty"`
}
