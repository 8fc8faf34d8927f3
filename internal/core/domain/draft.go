package domain

import (
	"fmt"
	"strconv"
)

// FormField - имя поля формы объекта (совпадает с JSON-именем на сервере).
type FormField string

const (
	FormName          FormField = "name"
	FormDescription   FormField = "description"
	FormType          FormField = "type"
	FormPrice         FormField = "price"
	FormArea          FormField = "area"
	FormLatitude      FormField = "latitude"
	FormLongitude     FormField = "longitude"
	FormAddress       FormField = "address"
	FormBedrooms      FormField = "bedrooms"
	FormBathrooms     FormField = "bathrooms"
	FormParkingSpaces FormField = "parkingSpaces"
	FormMainImageURL  FormField = "mainImageUrl"
)

// PropertyDraft - содержимое формы объекта в том виде, в каком его ввел пользователь.
type PropertyDraft struct {
	Name          string
	Description   string
	Type          string
	Price         string
	Area          string
	Latitude      string
	Longitude     string
	Address       string
	Bedrooms      string
	Bathrooms     string
	ParkingSpaces string
	MainImageURL  string
	ImageURLs     []string
}

// NewPropertyDraft возвращает черновик со значениями по умолчанию.
func NewPropertyDraft() PropertyDraft {
	return PropertyDraft{ImageURLs: []string{}}
}

// DraftFromProperty заполняет форму редактирования существующего объекта.
func DraftFromProperty(p Property) PropertyDraft {
	d := NewPropertyDraft()
	d.Name = p.Name
	d.Description = p.Description
	d.Type = string(p.Type)
	d.Price = FormatNumber(p.Price)
	d.Area = FormatNumber(p.Area)
	d.Latitude = FormatNumber(p.Latitude)
	d.Longitude = FormatNumber(p.Longitude)
	d.Address = p.Address
	d.Bedrooms = strconv.Itoa(p.Bedrooms)
	d.Bathrooms = strconv.Itoa(p.Bathrooms)
	d.ParkingSpaces = strconv.Itoa(p.ParkingSpaces)
	d.MainImageURL = p.MainImageURL
	if p.ImageURLs != nil {
		d.ImageURLs = append([]string{}, p.ImageURLs...)
	}
	return d
}

// DraftAt заполняет координаты новой формы точкой на карте.
func DraftAt(point GeoPoint) PropertyDraft {
	d := NewPropertyDraft()
	d.Latitude = FormatNumber(point.Latitude)
	d.Longitude = FormatNumber(point.Longitude)
	return d
}

// Set меняет одно текстовое поле формы.
func (d *PropertyDraft) Set(f FormField, value string) error {
	switch f {
	case FormName:
		d.Name = value
	case FormDescription:
		d.Description = value
	case FormType:
		d.Type = value
	case FormPrice:
		d.Price = value
	case FormArea:
		d.Area = value
	case FormLatitude:
		d.Latitude = value
	case FormLongitude:
		d.Longitude = value
	case FormAddress:
		d.Address = value
	case FormBedrooms:
		d.Bedrooms = value
	case FormBathrooms:
		d.Bathrooms = value
	case FormParkingSpaces:
		d.ParkingSpaces = value
	case FormMainImageURL:
		d.MainImageURL = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormField, string(f))
	}
	return nil
}
