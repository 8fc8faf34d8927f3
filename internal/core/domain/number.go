package domain

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber разбирает пользовательский ввод как число.
// Пустая строка, пробелы, NaN и бесконечности считаются нечисловыми.
func parseNumber(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// IsNumber сообщает, даст ли ParseOrZero для строки настоящее число, а не 0 по умолчанию.
func IsNumber(raw string) bool {
	_, ok := parseNumber(raw)
	return ok
}

// ParseOrZero - "разобрать или ноль": нечисловой ввод превращается в 0.
func ParseOrZero(raw string) float64 {
	v, _ := parseNumber(raw)
	return v
}

// ParseIntOrZero - то же для целых полей, дробная часть отбрасывается.
func ParseIntOrZero(raw string) int {
	return TruncOrZero(ParseOrZero(raw))
}

// TruncOrZero отбрасывает дробную часть. Значения вне диапазона int считаются нечисловыми.
func TruncOrZero(v float64) int {
	t := math.Trunc(v)
	if math.IsNaN(t) || t < math.MinInt || t >= math.MaxInt {
		return 0
	}
	return int(t)
}

// FormatNumber печатает число в кратчайшей форме ("12.5", "3").
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
