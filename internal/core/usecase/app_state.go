package usecase

import (
	"context"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"
)

// AppState - состояние всего экрана одной сессии.
// Собирает хранилище, фильтр, автомат выбора и карту и рассылает снимки экрана после каждого изменения.
type AppState struct {
	Store     *PropertyStore
	Filter    *SearchFilterModel
	Selection *SelectionController
	Map       *MapInteractionController

	notifier port.StateNotifierPort

	mu          sync.Mutex
	currentPage int
}

// NewAppState связывает компоненты между собой. notifier может быть nil.
func NewAppState(store *PropertyStore, notifier port.StateNotifierPort, viewport domain.Viewport) *AppState {
	selection := NewSelectionController(store)
	a := &AppState{
		Store:       store,
		Filter:      NewSearchFilterModel(store),
		Selection:   selection,
		Map:         NewMapInteractionController(selection, viewport),
		notifier:    notifier,
		currentPage: 1,
	}
	store.OnChange(a.publish)
	selection.OnChange(a.publish)
	a.Map.OnChange(a.publish)
	return a
}

// Start - первая загрузка списка при открытии экрана.
func (a *AppState) Start(ctx context.Context) error {
	return a.Store.Load(ctx)
}

// SetPage переключает страницу и перезагружает список.
// Номер ограничивается диапазоном [1, TotalPages].
func (a *AppState) SetPage(ctx context.Context, page int) error {
	total := a.Store.TotalPages()
	if page < 1 {
		page = 1
	}
	if page > total {
		page = total
	}

	a.mu.Lock()
	same := a.currentPage == page
	a.currentPage = page
	a.mu.Unlock()

	if same {
		return nil
	}
	contextkeys.LoggerFromContext(ctx).Debug("Page changed", port.Fields{
		"component": "AppState",
		"page":      page,
	})
	return a.Store.Load(ctx)
}

func (a *AppState) CurrentPage() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.currentPage
}

// Snapshot собирает снимок экрана: карточки, метки, форму, фильтр и служебные флаги.
func (a *AppState) Snapshot() domain.SessionView {
	state := a.Selection.State()
	properties := a.Store.Properties()
	busy := a.Store.Busy()
	errMsg := a.Store.Error()
	viewport := a.Map.Viewport()

	markers, clusters := buildMarkers(a.Store.MapProperties(), state.SelectedID)

	view := domain.SessionView{
		Mode:       state.Mode,
		SelectedID: state.SelectedID,
		Viewport: domain.ViewportView{
			Latitude:  viewport.Center.Latitude,
			Longitude: viewport.Center.Longitude,
			Zoom:      viewport.Zoom,
		},
		Cards:       buildCards(properties, state.SelectedID),
		Markers:     markers,
		Clusters:    clusters,
		Pending:     buildPending(state),
		Form:        buildForm(a.Selection.Form()),
		Filter:      filterFields(a.Filter.Draft()),
		Busy:        busy,
		Error:       errMsg,
		CurrentPage: a.CurrentPage(),
		TotalPages:  a.Store.TotalPages(),
	}
	if len(view.Cards) == 0 && !busy && errMsg == "" {
		view.EmptyMessage = EmptyListMessage
	}
	return view
}

// publish рассылает свежий снимок. Вызывается без удержания мьютексов компонентов.
func (a *AppState) publish(ctx context.Context, reason string) {
	if a.notifier == nil {
		return
	}
	view := a.Snapshot()

	contextkeys.LoggerFromContext(ctx).Debug("Publishing state", port.Fields{
		"component": "AppState",
		"reason":    reason,
		"mode":      string(view.Mode),
		"selected":  describeSelection(a.Selection.State()),
	})
	a.notifier.Notify(ctx, port.StateEvent{
		Type:   port.EventStateChanged,
		Reason: reason,
		View:   view,
	})
}
