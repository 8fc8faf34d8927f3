package domain

import (
	"fmt"
	"strings"
)

// FilterField - имя поля фильтра, совпадает с именем query-параметра.
type FilterField string

const (
	FilterType      FilterField = "type"
	FilterMinPrice  FilterField = "minPrice"
	FilterMaxPrice  FilterField = "maxPrice"
	FilterMinArea   FilterField = "minArea"
	FilterMaxArea   FilterField = "maxArea"
	FilterBedrooms  FilterField = "bedrooms"
	FilterBathrooms FilterField = "bathrooms"
)

// FilterFields - все поля фильтра в порядке формы.
var FilterFields = []FilterField{
	FilterType,
	FilterMinPrice,
	FilterMaxPrice,
	FilterMinArea,
	FilterMaxArea,
	FilterBedrooms,
	FilterBathrooms,
}

// IsNumeric сообщает, приводится ли поле к числу при отправке.
func (f FilterField) IsNumeric() bool {
	return f != FilterType
}

// FilterDraft - "сырой" ввод пользователя в форме поиска. Пустая строка = не задано.
type FilterDraft struct {
	Type      string
	MinPrice  string
	MaxPrice  string
	MinArea   string
	MaxArea   string
	Bedrooms  string
	Bathrooms string
}

func (d *FilterDraft) field(f FilterField) (*string, error) {
	switch f {
	case FilterType:
		return &d.Type, nil
	case FilterMinPrice:
		return &d.MinPrice, nil
	case FilterMaxPrice:
		return &d.MaxPrice, nil
	case FilterMinArea:
		return &d.MinArea, nil
	case FilterMaxArea:
		return &d.MaxArea, nil
	case FilterBedrooms:
		return &d.Bedrooms, nil
	case FilterBathrooms:
		return &d.Bathrooms, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFilterField, string(f))
}

// Set меняет одно поле черновика.
func (d *FilterDraft) Set(f FilterField, value string) error {
	ptr, err := d.field(f)
	if err != nil {
		return err
	}
	*ptr = value
	return nil
}

// Get возвращает значение поля черновика (пустая строка для неизвестного поля).
func (d FilterDraft) Get(f FilterField) string {
	ptr, err := d.field(f)
	if err != nil {
		return ""
	}
	return *ptr
}

// Criteria очищает черновик: пустые поля выбрасываются, числовые приводятся к числу.
// Нечисловой ввод ("abc") тоже выбрасывается, а не отправляется как 0.
func (d FilterDraft) Criteria() FilterCriteria {
	var c FilterCriteria
	if t := strings.TrimSpace(d.Type); t != "" {
		pt := PropertyType(t)
		c.Type = &pt
	}
	c.MinPrice = optionalNumber(d.MinPrice)
	c.MaxPrice = optionalNumber(d.MaxPrice)
	c.MinArea = optionalNumber(d.MinArea)
	c.MaxArea = optionalNumber(d.MaxArea)
	c.Bedrooms = optionalNumber(d.Bedrooms)
	c.Bathrooms = optionalNumber(d.Bathrooms)
	return c
}

func optionalNumber(raw string) *float64 {
	v, ok := parseNumber(raw)
	if !ok {
		return nil
	}
	return &v
}

// FilterCriteria - разреженный набор ограничений поиска. nil = не задано.
type FilterCriteria struct {
	Type      *PropertyType
	MinPrice  *float64
	MaxPrice  *float64
	MinArea   *float64
	MaxArea   *float64
	Bedrooms  *float64 // минимум
	Bathrooms *float64 // минимум
}

// FilterValue - одно заданное ограничение в текстовом виде.
type FilterValue struct {
	Field FilterField
	Value string
}

// Values возвращает только заданные поля в порядке FilterFields.
func (c FilterCriteria) Values() []FilterValue {
	var values []FilterValue
	if c.Type != nil {
		values = append(values, FilterValue{Field: FilterType, Value: string(*c.Type)})
	}
	numbers := []struct {
		field FilterField
		value *float64
	}{
		{FilterMinPrice, c.MinPrice},
		{FilterMaxPrice, c.MaxPrice},
		{FilterMinArea, c.MinArea},
		{FilterMaxArea, c.MaxArea},
		{FilterBedrooms, c.Bedrooms},
		{FilterBathrooms, c.Bathrooms},
	}
	for _, n := range numbers {
		if n.value != nil {
			values = append(values, FilterValue{Field: n.field, Value: FormatNumber(*n.value)})
		}
	}
	return values
}

// IsEmpty - true, если не задано ни одно ограничение.
func (c FilterCriteria) IsEmpty() bool {
	return len(c.Values()) == 0
}
