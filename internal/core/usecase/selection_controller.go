package usecase

import (
	"context"
	"fmt"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// Значения по умолчанию для новой метки, если пользователь оставил поля пустыми.
const (
	DefaultPlacementName    = "New Property"
	DefaultPlacementAddress = "Address not specified"
	DefaultPlacementType    = domain.PropertyTypeHouse
)

// SelectionController - конечный автомат режимов экрана:
// Browsing -> PlacingProperty -> Browsing и Browsing -> EditingExisting -> Browsing.
type SelectionController struct {
	store *PropertyStore

	mu       sync.Mutex
	state    domain.SelectionState
	form     *PropertyFormModel
	onChange ChangeFunc
}

func NewSelectionController(store *PropertyStore) *SelectionController {
	return &SelectionController{
		store: store,
		state: domain.SelectionState{Mode: domain.ModeBrowsing},
	}
}

// OnChange подписывает слушателя изменений.
func (c *SelectionController) OnChange(fn ChangeFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// State возвращает копию состояния.
func (c *SelectionController) State() domain.SelectionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return copyState(c.state)
}

// Form возвращает открытую форму или nil.
func (c *SelectionController) Form() *PropertyFormModel {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.form
}

// StartPlacement включает режим установки метки. Повторный вызов ничего не меняет.
func (c *SelectionController) StartPlacement(ctx context.Context) error {
	c.mu.Lock()
	switch c.state.Mode {
	case domain.ModePlacingProperty:
		c.mu.Unlock()
		return nil
	case domain.ModeBrowsing:
		c.state.Mode = domain.ModePlacingProperty
		c.state.PendingLocation = nil
		c.form = nil
	default:
		mode := c.state.Mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot start placement from %s", domain.ErrInvalidTransition, mode)
	}
	c.mu.Unlock()

	c.logger(ctx, "StartPlacement").Info("Placement mode started", nil)
	c.changed(ctx, "placement_started")
	return nil
}

// SetPendingLocation запоминает точку для нового объекта.
// Каждый следующий клик заменяет точку, а не добавляет новую.
// Вне режима установки клик игнорируется и возвращается false.
func (c *SelectionController) SetPendingLocation(ctx context.Context, at domain.GeoPoint) bool {
	c.mu.Lock()
	if c.state.Mode != domain.ModePlacingProperty {
		c.mu.Unlock()
		return false
	}
	point := at
	c.state.PendingLocation = &point
	if c.form == nil {
		c.form = PlacementPropertyForm(at)
	} else {
		c.form.MoveTo(at)
	}
	c.mu.Unlock()

	c.logger(ctx, "SetPendingLocation").Debug("Pending location replaced", port.Fields{
		"latitude":  at.Latitude,
		"longitude": at.Longitude,
	})
	c.changed(ctx, "pending_location")
	return true
}

// CancelPlacement выходит из режима установки и забывает точку.
func (c *SelectionController) CancelPlacement(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Mode != domain.ModePlacingProperty {
		mode := c.state.Mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot cancel placement from %s", domain.ErrInvalidTransition, mode)
	}
	c.toBrowsing(false)
	c.mu.Unlock()

	c.changed(ctx, "placement_cancelled")
	return nil
}

// SubmitPlacement создает объект в последней выбранной точке.
// При ошибке создания режим, точка и форма сохраняются, чтобы можно было повторить.
func (c *SelectionController) SubmitPlacement(ctx context.Context, draft domain.PropertyDraft) (*domain.Property, error) {
	logger := c.logger(ctx, "SubmitPlacement")

	c.mu.Lock()
	if c.state.Mode != domain.ModePlacingProperty {
		mode := c.state.Mode
		c.mu.Unlock()
		return nil, fmt.Errorf("%w: cannot submit placement from %s", domain.ErrInvalidTransition, mode)
	}
	if c.state.PendingLocation == nil {
		c.mu.Unlock()
		return nil, domain.ErrNoPendingLocation
	}
	at := *c.state.PendingLocation
	form := c.form
	c.mu.Unlock()

	form.Replace(draft)
	input := applyPlacementDefaults(form.Submit(), at)

	created, err := c.store.Create(ctx, input)
	if err != nil {
		logger.Warn("Placement submit failed, staying in placement mode", port.Fields{"error": err.Error()})
		return nil, err
	}

	c.mu.Lock()
	if c.state.Mode == domain.ModePlacingProperty {
		c.toBrowsing(false)
	}
	c.mu.Unlock()

	logger.Info("Property placed", port.Fields{"property_id": string(created.ID)})
	c.changed(ctx, "placement_submitted")
	return created, nil
}

// BeginEdit выбирает объект и открывает форму редактирования.
func (c *SelectionController) BeginEdit(ctx context.Context, id domain.PropertyID) error {
	p, ok := c.store.Find(id)
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, id)
	}

	c.mu.Lock()
	if c.state.Mode != domain.ModeBrowsing {
		mode := c.state.Mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot edit from %s", domain.ErrInvalidTransition, mode)
	}
	c.state.Mode = domain.ModeEditingExisting
	c.state.SelectedID = &p.ID
	c.form = EditPropertyForm(p)
	c.mu.Unlock()

	c.logger(ctx, "BeginEdit").Info("Editing property", port.Fields{"property_id": string(id)})
	c.changed(ctx, "edit_started")
	return nil
}

// SubmitEdit отправляет изменения. После успеха выбор сбрасывается.
func (c *SelectionController) SubmitEdit(ctx context.Context, draft domain.PropertyDraft) error {
	c.mu.Lock()
	if c.state.Mode != domain.ModeEditingExisting || c.form == nil {
		mode := c.state.Mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot submit edit from %s", domain.ErrInvalidTransition, mode)
	}
	form := c.form
	c.mu.Unlock()

	id := form.EditingID()
	form.Replace(draft)
	if err := c.store.Update(ctx, *id, form.Submit()); err != nil {
		return err
	}

	c.mu.Lock()
	if c.state.Mode == domain.ModeEditingExisting {
		c.toBrowsing(true)
	}
	c.mu.Unlock()

	c.changed(ctx, "edit_submitted")
	return nil
}

// CancelEdit закрывает форму без сохранения.
func (c *SelectionController) CancelEdit(ctx context.Context) error {
	c.mu.Lock()
	if c.state.Mode != domain.ModeEditingExisting {
		mode := c.state.Mode
		c.mu.Unlock()
		return fmt.Errorf("%w: cannot cancel edit from %s", domain.ErrInvalidTransition, mode)
	}
	c.toBrowsing(false)
	c.mu.Unlock()

	c.changed(ctx, "edit_cancelled")
	return nil
}

// Select выбирает объект независимо от режима. Неизвестный ID игнорируется.
func (c *SelectionController) Select(ctx context.Context, id domain.PropertyID) (domain.Property, bool) {
	p, ok := c.store.Find(id)
	if !ok {
		c.logger(ctx, "Select").Debug("Select ignored, unknown property", port.Fields{"property_id": string(id)})
		return domain.Property{}, false
	}

	c.mu.Lock()
	c.state.SelectedID = &p.ID
	c.mu.Unlock()

	c.changed(ctx, "selected")
	return p, true
}

// toBrowsing вызывается под мьютексом.
func (c *SelectionController) toBrowsing(clearSelection bool) {
	c.state.Mode = domain.ModeBrowsing
	c.state.PendingLocation = nil
	c.form = nil
	if clearSelection {
		c.state.SelectedID = nil
	}
}

func (c *SelectionController) changed(ctx context.Context, reason string) {
	c.mu.Lock()
	fn := c.onChange
	c.mu.Unlock()
	if fn != nil {
		fn(ctx, reason)
	}
}

func (c *SelectionController) logger(ctx context.Context, method string) port.LoggerPort {
	return contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "SelectionController",
		"method":    method,
	})
}

// applyPlacementDefaults берет координаты из точки на карте и заполняет пустые поля.
func applyPlacementDefaults(input domain.PropertyInput, at domain.GeoPoint) domain.PropertyInput {
	input.Latitude = at.Latitude
	input.Longitude = at.Longitude
	if input.Type == "" {
		input.Type = DefaultPlacementType
	}
	if input.Name == "" {
		input.Name = DefaultPlacementName
	}
	if input.Address == "" {
		input.Address = DefaultPlacementAddress
	}
	return input
}

func copyState(s domain.SelectionState) domain.SelectionState {
	out := domain.SelectionState{Mode: s.Mode}
	if s.SelectedID != nil {
		id := *s.SelectedID
		out.SelectedID = &id
	}
	if s.PendingLocation != nil {
		at := *s.PendingLocation
		out.PendingLocation = &at
	}
	return out
}
