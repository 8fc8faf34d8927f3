package usecase

import (
	"net/url"
	"property-map/internal/core/domain"
	"strings"
	"sync"
)

const placeholderImageBase = "https://via.placeholder.com/800x600?text="

// uriComponentReplacer доводит url.QueryEscape до поведения encodeURIComponent.
var uriComponentReplacer = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// PlaceholderImageURL - картинка по умолчанию, подписанная типом объекта.
func PlaceholderImageURL(propertyType string) string {
	text := propertyType
	if text == "" {
		text = "Property"
	}
	return placeholderImageBase + uriComponentReplacer.Replace(url.QueryEscape(text))
}

// PropertyFormModel - черновик формы объекта.
// Обязательные поля здесь не проверяются: это делает слой ввода.
type PropertyFormModel struct {
	mu        sync.Mutex
	draft     domain.PropertyDraft
	editingID *domain.PropertyID
}

// NewPropertyForm - пустая форма нового объекта.
func NewPropertyForm() *PropertyFormModel {
	return &PropertyFormModel{draft: domain.NewPropertyDraft()}
}

// EditPropertyForm - форма, заполненная данными существующего объекта.
func EditPropertyForm(p domain.Property) *PropertyFormModel {
	id := p.ID
	return &PropertyFormModel{draft: domain.DraftFromProperty(p), editingID: &id}
}

// PlacementPropertyForm - форма нового объекта с координатами точки на карте.
func PlacementPropertyForm(at domain.GeoPoint) *PropertyFormModel {
	return &PropertyFormModel{draft: domain.DraftAt(at)}
}

func (f *PropertyFormModel) Draft() domain.PropertyDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	d := f.draft
	d.ImageURLs = append([]string{}, f.draft.ImageURLs...)
	return d
}

func (f *PropertyFormModel) Set(field domain.FormField, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft.Set(field, value)
}

// Replace подменяет черновик целиком. nil-список картинок становится пустым.
func (f *PropertyFormModel) Replace(draft domain.PropertyDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if draft.ImageURLs == nil {
		draft.ImageURLs = []string{}
	}
	f.draft = draft
}

// MoveTo переписывает координаты черновика.
func (f *PropertyFormModel) MoveTo(at domain.GeoPoint) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft.Latitude = domain.FormatNumber(at.Latitude)
	f.draft.Longitude = domain.FormatNumber(at.Longitude)
}

func (f *PropertyFormModel) IsEditing() bool {
	return f.EditingID() != nil
}

func (f *PropertyFormModel) EditingID() *domain.PropertyID {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editingID == nil {
		return nil
	}
	id := *f.editingID
	return &id
}

// Submit нормализует черновик для отправки на сервер.
func (f *PropertyFormModel) Submit() domain.PropertyInput {
	return NormalizeDraft(f.Draft())
}

// NormalizeDraft - "разобрать или ноль" для числовых полей и значения по умолчанию для картинок.
// Неверный числовой ввод молча становится 0, ошибок здесь нет.
func NormalizeDraft(d domain.PropertyDraft) domain.PropertyInput {
	input := domain.PropertyInput{
		Name:          d.Name,
		Type:          domain.PropertyType(d.Type),
		Price:         domain.ParseOrZero(d.Price),
		Area:          domain.ParseOrZero(d.Area),
		Bedrooms:      domain.ParseIntOrZero(d.Bedrooms),
		Bathrooms:     domain.ParseIntOrZero(d.Bathrooms),
		ParkingSpaces: domain.ParseIntOrZero(d.ParkingSpaces),
		Address:       d.Address,
		Description:   d.Description,
		Latitude:      domain.ParseOrZero(d.Latitude),
		Longitude:     domain.ParseOrZero(d.Longitude),
		MainImageURL:  d.MainImageURL,
		ImageURLs:     d.ImageURLs,
	}
	if input.MainImageURL == "" {
		input.MainImageURL = PlaceholderImageURL(d.Type)
	}
	if input.ImageURLs == nil {
		input.ImageURLs = []string{}
	}
	return input
}
