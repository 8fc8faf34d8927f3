package domain

import "strings"

// PropertyID - непрозрачный идентификатор, который назначает сервер.
type PropertyID string

// PropertyType - тип объекта недвижимости.
type PropertyType string

const (
	PropertyTypeHouse     PropertyType = "house"
	PropertyTypeApartment PropertyType = "apartment"
	PropertyTypeOffice    PropertyType = "office"
	PropertyTypeRetail    PropertyType = "retail"
	PropertyTypeFarm      PropertyType = "farm"
	PropertyTypeWarehouse PropertyType = "warehouse"
)

// KnownPropertyTypes - варианты для выпадающего списка.
// Модель не отклоняет другие значения, они уходят на сервер как есть.
var KnownPropertyTypes = []PropertyType{
	PropertyTypeHouse,
	PropertyTypeApartment,
	PropertyTypeOffice,
	PropertyTypeRetail,
	PropertyTypeFarm,
	PropertyTypeWarehouse,
}

// IsKnown сообщает, входит ли тип в KnownPropertyTypes.
func (t PropertyType) IsKnown() bool {
	for _, known := range KnownPropertyTypes {
		if strings.EqualFold(string(known), string(t)) {
			return true
		}
	}
	return false
}

// GeoPoint - координаты в WGS 84.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
}

// Property - объявление, как его вернул сервер.
type Property struct {
	ID            PropertyID
	Name          string
	Type          PropertyType
	Price         float64
	Area          float64
	Bedrooms      int
	Bathrooms     int
	ParkingSpaces int
	Address       string
	Description   string
	Latitude      float64
	Longitude     float64
	MainImageURL  string
	ImageURLs     []string
}

// Location возвращает координаты объекта.
func (p Property) Location() GeoPoint {
	return GeoPoint{Latitude: p.Latitude, Longitude: p.Longitude}
}

// PropertyInput - нормализованный черновик, который отправляется на сервер (без ID).
type PropertyInput struct {
	Name          string
	Type          PropertyType
	Price         float64
	Area          float64
	Bedrooms      int
	Bathrooms     int
	ParkingSpaces int
	Address       string
	Description   string
	Latitude      float64
	Longitude     float64
	MainImageURL  string
	ImageURLs     []string
}
