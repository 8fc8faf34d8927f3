package property_api_client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"property-map/internal/core/domain"
)

// flexibleID принимает id и строкой, и числом: разные бэкенды отдают его по-разному.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("property id must be a string or a number: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}

// flexibleNumber принимает число, числовую строку ("100000.00" из decimal-колонок) или null.
// Все остальное читается как 0, чтобы одна запись не ломала разбор всего списка.
type flexibleNumber float64

func (n *flexibleNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = flexibleNumber(domain.ParseOrZero(s))
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		v = 0
	}
	*n = flexibleNumber(v)
	return nil
}

// PropertyResponse - объект в ответе бэкенда.
// Целые поля читаются как числа с плавающей точкой, чтобы "3.0" не ломало разбор.
type PropertyResponse struct {
	ID            flexibleID     `json:"id"`
	Name          string         `json:"name"`
	Type          string         `json:"type"`
	Price         flexibleNumber `json:"price"`
	Area          flexibleNumber `json:"area"`
	Bedrooms      flexibleNumber `json:"bedrooms"`
	Bathrooms     flexibleNumber `json:"bathrooms"`
	ParkingSpaces flexibleNumber `json:"parkingSpaces"`
	Address       string         `json:"address"`
	Description   string         `json:"description"`
	Latitude      flexibleNumber `json:"latitude"`
	Longitude     flexibleNumber `json:"longitude"`
	MainImageURL  string         `json:"mainImageUrl"`
	ImageURLs     []string       `json:"imageUrls"`
}

func (r PropertyResponse) toDomain() domain.Property {
	images := r.ImageURLs
	if images == nil {
		images = []string{}
	}
	return domain.Property{
		ID:            domain.PropertyID(r.ID),
		Name:          r.Name,
		Type:          domain.PropertyType(r.Type),
		Price:         float64(r.Price),
		Area:          float64(r.Area),
		Bedrooms:      domain.TruncOrZero(float64(r.Bedrooms)),
		Bathrooms:     domain.TruncOrZero(float64(r.Bathrooms)),
		ParkingSpaces: domain.TruncOrZero(float64(r.ParkingSpaces)),
		Address:       r.Address,
		Description:   r.Description,
		Latitude:      float64(r.Latitude),
		Longitude:     float64(r.Longitude),
		MainImageURL:  r.MainImageURL,
		ImageURLs:     images,
	}
}

// PropertyRequest - тело POST/PUT /properties.
type PropertyRequest struct {
	Name          string   `json:"name"`
	Type          string   `json:"type"`
	Price         float64  `json:"price"`
	Area          float64  `json:"area"`
	Bedrooms      int      `json:"bedrooms"`
	Bathrooms     int      `json:"bathrooms"`
	ParkingSpaces int      `json:"parkingSpaces"`
	Address       string   `json:"address"`
	Description   string   `json:"description"`
	Latitude      float64  `json:"latitude"`
	Longitude     float64  `json:"longitude"`
	MainImageURL  string   `json:"mainImageUrl"`
	ImageURLs     []string `json:"imageUrls"`
}

func newPropertyRequest(in domain.PropertyInput) PropertyRequest {
	images := in.ImageURLs
	if images == nil {
		images = []string{}
	}
	return PropertyRequest{
		Name:          in.Name,
		Type:          string(in.Type),
		Price:         in.Price,
		Area:          in.Area,
		Bedrooms:      in.Bedrooms,
		Bathrooms:     in.Bathrooms,
		ParkingSpaces: in.ParkingSpaces,
		Address:       in.Address,
		Description:   in.Description,
		Latitude:      in.Latitude,
		Longitude:     in.Longitude,
		MainImageURL:  in.MainImageURL,
		ImageURLs:     images,
	}
}

// listingEnvelope - ответ вида {"items": [...], "total": n}.
type listingEnvelope struct {
	Items []PropertyResponse `json:"items"`
	Total *float64           `json:"total"`
}
