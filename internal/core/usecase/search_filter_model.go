package usecase

import (
	"context"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// SearchFilterModel хранит черновик фильтра и превращает его в запрос поиска.
type SearchFilterModel struct {
	store *PropertyStore

	mu    sync.Mutex
	draft domain.FilterDraft
}

func NewSearchFilterModel(store *PropertyStore) *SearchFilterModel {
	return &SearchFilterModel{store: store}
}

// Draft возвращает копию черновика.
func (m *SearchFilterModel) Draft() domain.FilterDraft {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft
}

// Set меняет одно поле черновика.
func (m *SearchFilterModel) Set(field domain.FilterField, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.draft.Set(field, value)
}

// Replace подменяет черновик целиком (форма прислала все поля сразу).
func (m *SearchFilterModel) Replace(draft domain.FilterDraft) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.draft = draft
}

// Submit очищает черновик и отправляет критерии в PropertyStore.Search.
func (m *SearchFilterModel) Submit(ctx context.Context) (domain.FilterCriteria, error) {
	criteria := m.Draft().Criteria()

	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SearchFilterModel",
		"method":    "Submit",
	})
	fields := port.Fields{}
	for _, v := range criteria.Values() {
		fields[string(v.Field)] = v.Value
	}
	logger.Debug("Submitting search criteria", fields)

	return criteria, m.store.Search(ctx, criteria)
}

// Clear сбрасывает черновик и заново загружает список без фильтров.
func (m *SearchFilterModel) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.draft = domain.FilterDraft{}
	m.mu.Unlock()

	contextkeys.LoggerFromContext(ctx).Debug("Filters cleared", port.Fields{"component": "SearchFilterModel"})
	return m.store.Load(ctx)
}
