package property_api_client

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"property-map/internal/contracts"
	"property-map/internal/core/domain"
)

var errUnexpectedShape = errors.New("unexpected listing response shape")

type keyedEntry struct {
	key   string
	value json.RawMessage
}

// decodeListing определяет форму ответа со списком и приводит ее к domain.ListingResponse.
// skipped - сколько значений объекта-словаря прошли проверку схемой, но не разобрались как объект.
func decodeListing(body []byte) (resp *domain.ListingResponse, skipped int, err error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, 0, fmt.Errorf("%w: empty body", errUnexpectedShape)
	}

	switch trimmed[0] {
	case '[':
		var items []PropertyResponse
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, 0, fmt.Errorf("failed to decode property list: %w", err)
		}
		return &domain.ListingResponse{Shape: domain.ShapeList, Items: toDomainList(items)}, 0, nil
	case '{':
		return decodeObject(trimmed)
	}
	return nil, 0, fmt.Errorf("%w: body starts with %q", errUnexpectedShape, trimmed[0])
}

func decodeObject(body []byte) (*domain.ListingResponse, int, error) {
	entries, err := orderedEntries(body)
	if err != nil {
		return nil, 0, err
	}

	for _, e := range entries {
		if e.key == "items" {
			return decodeEnvelope(body)
		}
	}

	// Запасной путь: значения, похожие на записи (есть id), в порядке ключей
	items := []domain.Property{}
	skipped := 0
	for _, e := range entries {
		var v interface{}
		if err := json.Unmarshal(e.value, &v); err != nil {
			return nil, 0, fmt.Errorf("failed to decode value of key %q: %w", e.key, err)
		}
		if contracts.Validate(contracts.SchemaListingRecord, v) != nil {
			continue
		}
		var record PropertyResponse
		if err := json.Unmarshal(e.value, &record); err != nil {
			skipped++
			continue
		}
		items = append(items, record.toDomain())
	}
	return &domain.ListingResponse{Shape: domain.ShapeKeyed, Items: items}, skipped, nil
}

func decodeEnvelope(body []byte) (*domain.ListingResponse, int, error) {
	if err := contracts.ValidateJSON(contracts.SchemaListingEnvelope, body); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", errUnexpectedShape, err)
	}
	var envelope listingEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, 0, fmt.Errorf("failed to decode listing envelope: %w", err)
	}

	resp := &domain.ListingResponse{Shape: domain.ShapeItems, Items: toDomainList(envelope.Items)}
	// total = 0 не меняет число страниц
	if envelope.Total != nil && *envelope.Total > 0 {
		total := int64(*envelope.Total)
		resp.Total = &total
	}
	return resp, 0, nil
}

// orderedEntries читает пары ключ-значение верхнего уровня в порядке следования в теле.
func orderedEntries(body []byte) ([]keyedEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("failed to read listing object: %w", err)
	}

	var entries []keyedEntry
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("failed to read listing key: %w", err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: non-string key %v", errUnexpectedShape, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("failed to read value of key %q: %w", key, err)
		}
		entries = append(entries, keyedEntry{key: key, value: value})
	}
	return entries, nil
}

func toDomainList(items []PropertyResponse) []domain.Property {
	result := make([]domain.Property, len(items))
	for i, dto := range items {
		result[i] = dto.toDomain()
	}
	return result
}
