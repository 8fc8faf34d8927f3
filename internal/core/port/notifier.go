package port

import (
	"context"
	"property-map/internal/core/domain"
)

const EventStateChanged = "state_changed"

// StateEvent - уведомление о том, что состояние экрана изменилось и его нужно перерисовать.
type StateEvent struct {
	Type   string
	Reason string
	View   domain.SessionView
}

// StateNotifierPort доставляет события отрисовщикам (браузеру, консоли).
type StateNotifierPort interface {
	Notify(ctx context.Context, event StateEvent)
}
