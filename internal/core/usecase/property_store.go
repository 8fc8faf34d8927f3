package usecase

import (
	"context"
	"fmt"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// Сообщения, которые пользователь видит вместо списка.
// Вид ошибки не различается: все сводится к одному сообщению на операцию.
const (
	MsgLoadError   = "Error loading properties"
	MsgSearchError = "Error searching properties"
	MsgCreateError = "Error creating property"
	MsgUpdateError = "Error updating property"
	MsgDeleteError = "Error deleting property"

	DeletePrompt = "Are you sure you want to delete this property?"
)

// ChangeFunc вызывается после каждого изменения состояния хранилища.
type ChangeFunc func(ctx context.Context, reason string)

// PropertyStore - единственный источник правды для списка и карты.
type PropertyStore struct {
	repo      port.PropertyRepositoryPort
	confirmer port.ConfirmerPort
	pageSize  int

	mu         sync.Mutex
	properties []domain.Property
	lastLoaded []domain.Property // последняя успешная загрузка, ее показывает карта
	errMsg     string
	busy       int
	ticket     uint64 // номер последнего выданного запроса списка
	totalPages int
	onChange   ChangeFunc
}

// NewPropertyStore - конструктор.
func NewPropertyStore(repo port.PropertyRepositoryPort, confirmer port.ConfirmerPort, pageSize int) *PropertyStore {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &PropertyStore{
		repo:       repo,
		confirmer:  confirmer,
		pageSize:   pageSize,
		properties: []domain.Property{},
		lastLoaded: []domain.Property{},
		totalPages: 1,
	}
}

// OnChange подписывает единственного слушателя изменений.
func (s *PropertyStore) OnChange(fn ChangeFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Load загружает все объекты и целиком заменяет коллекцию.
func (s *PropertyStore) Load(ctx context.Context) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyStore",
		"method":    "Load",
	})

	ticket, release := s.beginListing(ctx)
	defer release()

	resp, err := s.repo.List(ctx)
	if err != nil {
		logger.Error("Failed to load properties", err, nil)
		if s.failListing(ctx, ticket, MsgLoadError) {
			return fmt.Errorf("failed to load properties: %w", err)
		}
		return nil
	}

	if !s.applyListing(ctx, ticket, resp, false, "loaded") {
		logger.Debug("Stale load response discarded", port.Fields{"ticket": ticket})
		return nil
	}
	logger.Info("Properties loaded", port.Fields{"count": len(resp.Items), "shape": string(resp.Shape)})
	return nil
}

// Search отправляет критерии и заменяет коллекцию результатом.
func (s *PropertyStore) Search(ctx context.Context, criteria domain.FilterCriteria) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":    "PropertyStore",
		"method":       "Search",
		"filter_count": len(criteria.Values()),
	})

	ticket, release := s.beginListing(ctx)
	defer release()

	resp, err := s.repo.Search(ctx, criteria)
	if err != nil {
		logger.Error("Failed to search properties", err, nil)
		if s.failListing(ctx, ticket, MsgSearchError) {
			return fmt.Errorf("failed to search properties: %w", err)
		}
		return nil
	}

	if !s.applyListing(ctx, ticket, resp, true, "searched") {
		logger.Debug("Stale search response discarded", port.Fields{"ticket": ticket})
		return nil
	}
	logger.Info("Search finished", port.Fields{"count": len(resp.Items)})
	return nil
}

// Create создает объект, сразу добавляет его в начало списка и перезагружает коллекцию.
// Ошибка перезагрузки остается в состоянии хранилища и не считается ошибкой создания.
func (s *PropertyStore) Create(ctx context.Context, input domain.PropertyInput) (*domain.Property, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "PropertyStore",
		"method":    "Create",
	})

	release := s.beginMutation(ctx)
	defer release()

	created, err := s.repo.Create(ctx, input)
	if err != nil {
		logger.Error("Failed to create property", err, nil)
		s.setError(ctx, MsgCreateError)
		return nil, fmt.Errorf("failed to create property: %w", err)
	}
	logger.Info("Property created", port.Fields{"property_id": string(created.ID)})

	s.prepend(ctx, *created)

	if err := s.Load(ctx); err != nil {
		logger.Warn("Reload after create failed", port.Fields{"error": err.Error()})
	}
	return created, nil
}

// Update отправляет изменения существующего объекта и перезагружает коллекцию.
func (s *PropertyStore) Update(ctx context.Context, id domain.PropertyID, input domain.PropertyInput) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyStore",
		"method":      "Update",
		"property_id": string(id),
	})

	release := s.beginMutation(ctx)
	defer release()

	if _, err := s.repo.Update(ctx, id, input); err != nil {
		logger.Error("Failed to update property", err, nil)
		s.setError(ctx, MsgUpdateError)
		return fmt.Errorf("failed to update property %s: %w", id, err)
	}
	logger.Info("Property updated", nil)

	if err := s.Load(ctx); err != nil {
		logger.Warn("Reload after update failed", port.Fields{"error": err.Error()})
	}
	return nil
}

// Remove спрашивает подтверждение и только после согласия удаляет объект.
func (s *PropertyStore) Remove(ctx context.Context, id domain.PropertyID) error {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component":   "PropertyStore",
		"method":      "Remove",
		"property_id": string(id),
	})

	if !s.confirmer.Confirm(ctx, DeletePrompt) {
		logger.Info("Delete was not confirmed", nil)
		return domain.ErrDeleteNotConfirmed
	}

	release := s.beginMutation(ctx)
	defer release()

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("Failed to delete property", err, nil)
		s.setError(ctx, MsgDeleteError)
		return fmt.Errorf("failed to delete property %s: %w", id, err)
	}
	logger.Info("Property deleted", nil)

	if err := s.Load(ctx); err != nil {
		logger.Warn("Reload after delete failed", port.Fields{"error": err.Error()})
	}
	return nil
}

// Properties возвращает копию текущей коллекции.
func (s *PropertyStore) Properties() []domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Property{}, s.properties...)
}

// MapProperties возвращает коллекцию последней успешной загрузки.
func (s *PropertyStore) MapProperties() []domain.Property {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Property{}, s.lastLoaded...)
}

// Find ищет объект по ID сначала в списке, затем среди меток карты.
func (s *PropertyStore) Find(id domain.PropertyID) (domain.Property, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, collection := range [][]domain.Property{s.properties, s.lastLoaded} {
		for _, p := range collection {
			if p.ID == id {
				return p, true
			}
		}
	}
	return domain.Property{}, false
}

func (s *PropertyStore) Error() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errMsg
}

func (s *PropertyStore) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy > 0
}

func (s *PropertyStore) TotalPages() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalPages
}

// --- внутренние помощники ---

// beginMutation поднимает флаг занятости и сбрасывает прошлую ошибку.
// Возвращенная функция обязательно вызывается через defer.
func (s *PropertyStore) beginMutation(ctx context.Context) func() {
	s.mu.Lock()
	s.busy++
	s.errMsg = ""
	s.mu.Unlock()
	s.changed(ctx, "busy")

	return func() {
		s.mu.Lock()
		s.busy--
		s.mu.Unlock()
		s.changed(ctx, "idle")
	}
}

// beginListing выдает новый номер запроса: ответ на более старый номер будет отброшен.
func (s *PropertyStore) beginListing(ctx context.Context) (uint64, func()) {
	release := s.beginMutation(ctx)
	s.mu.Lock()
	s.ticket++
	ticket := s.ticket
	s.mu.Unlock()
	return ticket, release
}

// applyListing заменяет коллекцию. Число страниц берется только из ответа поиска (withTotal).
func (s *PropertyStore) applyListing(ctx context.Context, ticket uint64, resp *domain.ListingResponse, withTotal bool, reason string) bool {
	s.mu.Lock()
	if ticket != s.ticket {
		s.mu.Unlock()
		return false
	}
	items := uniqueByID(resp.Items)
	s.properties = items
	s.lastLoaded = append([]domain.Property{}, items...)
	if withTotal && resp.Total != nil {
		s.totalPages = pagesFor(*resp.Total, s.pageSize)
	}
	s.mu.Unlock()

	s.changed(ctx, reason)
	return true
}

// failListing очищает коллекцию (карта продолжает показывать lastLoaded).
func (s *PropertyStore) failListing(ctx context.Context, ticket uint64, msg string) bool {
	s.mu.Lock()
	if ticket != s.ticket {
		s.mu.Unlock()
		return false
	}
	s.errMsg = msg
	s.properties = []domain.Property{}
	s.mu.Unlock()

	s.changed(ctx, "failed")
	return true
}

func (s *PropertyStore) setError(ctx context.Context, msg string) {
	s.mu.Lock()
	s.errMsg = msg
	s.mu.Unlock()
	s.changed(ctx, "failed")
}

func (s *PropertyStore) prepend(ctx context.Context, p domain.Property) {
	s.mu.Lock()
	s.properties = uniqueByID(append([]domain.Property{p}, s.properties...))
	s.lastLoaded = uniqueByID(append([]domain.Property{p}, s.lastLoaded...))
	s.mu.Unlock()
	s.changed(ctx, "created")
}

func (s *PropertyStore) changed(ctx context.Context, reason string) {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn(ctx, reason)
	}
}

// uniqueByID оставляет первое вхождение каждого ID, порядок сохраняется.
func uniqueByID(items []domain.Property) []domain.Property {
	seen := make(map[domain.PropertyID]struct{}, len(items))
	result := make([]domain.Property, 0, len(items))
	for _, p := range items {
		if _, dup := seen[p.ID]; dup {
			continue
		}
		seen[p.ID] = struct{}{}
		result = append(result, p)
	}
	return result
}

func pagesFor(total int64, pageSize int) int {
	if total <= 0 {
		return 1
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
