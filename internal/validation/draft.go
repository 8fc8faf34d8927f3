package validation

import (
	"errors"
	"fmt"
	"property-map/internal/core/domain"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// В ошибках используются имена полей формы, а не Go-имена
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	// number принимает то же, что и разбор числовых полей формы: ".5", "1e3", "12."
	_ = v.RegisterValidation("number", func(fl validator.FieldLevel) bool {
		return domain.IsNumber(fl.Field().String())
	})
	return v
}

// propertyForm - то, что браузер или консоль прислали из формы объекта.
type propertyForm struct {
	Name          string `form:"name" validate:"required"`
	Type          string `form:"type" validate:"required"`
	Address       string `form:"address" validate:"required"`
	Description   string `form:"description" validate:"required"`
	Price         string `form:"price" validate:"omitempty,number"`
	Area          string `form:"area" validate:"omitempty,number"`
	Latitude      string `form:"latitude" validate:"omitempty,number"`
	Longitude     string `form:"longitude" validate:"omitempty,number"`
	Bedrooms      string `form:"bedrooms" validate:"omitempty,number"`
	Bathrooms     string `form:"bathrooms" validate:"omitempty,number"`
	ParkingSpaces string `form:"parkingSpaces" validate:"omitempty,number"`
	MainImageURL  string `form:"mainImageUrl" validate:"omitempty,url"`
}

// Текстовые поля, которые при установке метки можно оставить пустыми: их заполнят значения по умолчанию.
var placementOptional = []string{"Name", "Type", "Address", "Description"}

// FieldError - одна проблема в форме.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// DraftError - форма не прошла проверку.
type DraftError struct {
	Fields []FieldError
}

func (e *DraftError) Error() string {
	names := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		names[i] = f.Field
	}
	return fmt.Sprintf("invalid property form: %s", strings.Join(names, ", "))
}

// CheckPropertyDraft проверяет форму создания или редактирования объекта.
func CheckPropertyDraft(d domain.PropertyDraft) error {
	return toDraftError(validate.Struct(formOf(d)))
}

// CheckPlacementDraft проверяет форму новой метки на карте, где текстовые поля необязательны.
func CheckPlacementDraft(d domain.PropertyDraft) error {
	return toDraftError(validate.StructExcept(formOf(d), placementOptional...))
}

func formOf(d domain.PropertyDraft) propertyForm {
	return propertyForm{
		Name:          strings.TrimSpace(d.Name),
		Type:          strings.TrimSpace(d.Type),
		Address:       strings.TrimSpace(d.Address),
		Description:   strings.TrimSpace(d.Description),
		Price:         strings.TrimSpace(d.Price),
		Area:          strings.TrimSpace(d.Area),
		Latitude:      strings.TrimSpace(d.Latitude),
		Longitude:     strings.TrimSpace(d.Longitude),
		Bedrooms:      strings.TrimSpace(d.Bedrooms),
		Bathrooms:     strings.TrimSpace(d.Bathrooms),
		ParkingSpaces: strings.TrimSpace(d.ParkingSpaces),
		MainImageURL:  strings.TrimSpace(d.MainImageURL),
	}
}

func toDraftError(err error) error {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	details := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		var message string
		switch fe.Tag() {
		case "required":
			message = fmt.Sprintf("Field '%s' is required", fe.Field())
		case "number":
			message = fmt.Sprintf("Field '%s' must be a number", fe.Field())
		case "url":
			message = fmt.Sprintf("Field '%s' must be a valid URL", fe.Field())
		default:
			message = fmt.Sprintf("Field validation for '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		}
		details = append(details, FieldError{
			Field:   fe.Field(),
			Message: message,
			Code:    "validation_" + fe.Tag(),
		})
	}
	return &DraftError{Fields: details}
}
