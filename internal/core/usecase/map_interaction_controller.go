package usecase

import (
	"context"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// Центр карты по умолчанию - Богота.
var DefaultViewport = domain.Viewport{
	Center: domain.GeoPoint{Latitude: 4.6097, Longitude: -74.0817},
	Zoom:   13,
}

// MapInteractionController переводит события карты в команды SelectionController.
type MapInteractionController struct {
	selection *SelectionController

	mu       sync.Mutex
	viewport domain.Viewport
	onChange ChangeFunc
}

func NewMapInteractionController(selection *SelectionController, initial domain.Viewport) *MapInteractionController {
	if initial.Zoom <= 0 {
		initial.Zoom = DefaultViewport.Zoom
	}
	return &MapInteractionController{
		selection: selection,
		viewport:  initial,
	}
}

func (m *MapInteractionController) OnChange(fn ChangeFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

func (m *MapInteractionController) Viewport() domain.Viewport {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewport
}

// OnMapClick - клик по пустому месту карты. Имеет смысл только в режиме установки метки.
func (m *MapInteractionController) OnMapClick(ctx context.Context, at domain.GeoPoint) bool {
	accepted := m.selection.SetPendingLocation(ctx, at)
	if !accepted {
		contextkeys.LoggerFromContext(ctx).Debug("Map click ignored outside placement mode", port.Fields{
			"component": "MapInteractionController",
		})
	}
	return accepted
}

// OnMarkerClick выбирает объект и центрирует на нем карту в любом режиме.
func (m *MapInteractionController) OnMarkerClick(ctx context.Context, id domain.PropertyID) bool {
	p, ok := m.selection.Select(ctx, id)
	if !ok {
		return false
	}

	m.mu.Lock()
	m.viewport.Center = p.Location()
	m.mu.Unlock()

	m.changed(ctx, "recentred")
	return true
}

func (m *MapInteractionController) changed(ctx context.Context, reason string) {
	m.mu.Lock()
	fn := m.onChange
	m.mu.Unlock()
	if fn != nil {
		fn(ctx, reason)
	}
}
