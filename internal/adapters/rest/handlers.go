package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"property-map/internal/adapters/notifier"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"property-map/internal/core/usecase"
	"property-map/internal/validation"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

const keepAliveInterval = 15 * time.Second

// SessionHandler - HTTP-обертка над AppState одной сессии.
type SessionHandler struct {
	app      *usecase.AppState
	notifier *notifier.SSENotifier
}

func NewSessionHandler(app *usecase.AppState, notifier *notifier.SSENotifier) *SessionHandler {
	return &SessionHandler{app: app, notifier: notifier}
}

// GetState - GET /state
func (h *SessionHandler) GetState(w http.ResponseWriter, r *http.Request) {
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// Subscribe - GET /events. Первым сообщением приходит текущее состояние.
func (h *SessionHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	logger := contextkeys.LoggerFromContext(r.Context()).WithFields(port.Fields{"handler": "Subscribe"})

	flusher, ok := w.(http.Flusher)
	if !ok {
		WriteJSONError(w, http.StatusInternalServerError, "Streaming is not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	clientID, clientChan := h.notifier.AddClient()
	defer h.notifier.RemoveClient(clientID)

	handlerLogger := logger.WithFields(port.Fields{"client_id": clientID.String()})
	handlerLogger.Info("New client subscribing to SSE events", nil)

	initial, err := notifier.FormatEvent(port.StateEvent{
		Type:   port.EventStateChanged,
		Reason: "connected",
		View:   h.app.Snapshot(),
	})
	if err != nil {
		handlerLogger.Error("Failed to marshal initial state", err, nil)
		return
	}
	if _, err := w.Write(initial); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(keepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case data := <-clientChan:
			if _, err := w.Write(data); err != nil {
				handlerLogger.Error("Error writing to client, closing SSE connection", err, nil)
				return
			}
			flusher.Flush()

		case <-ticker.C:
			// Строка-комментарий держит соединение открытым, браузер ее игнорирует
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			handlerLogger.Info("SSE client disconnected.", nil)
			return
		}
	}
}

// Reload - POST /properties/reload
func (h *SessionHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Store.Load(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// PutFilters - PUT /filters, черновик фильтра целиком.
func (h *SessionHandler) PutFilters(w http.ResponseWriter, r *http.Request) {
	var req FilterDraftRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.app.Filter.Replace(req.toDomain())
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// SubmitFilters - POST /filters/submit. Тело необязательно: если оно есть, сначала заменяет черновик.
func (h *SessionHandler) SubmitFilters(w http.ResponseWriter, r *http.Request) {
	var req FilterDraftRequest
	present, ok := h.decodeOptional(w, r, &req)
	if !ok {
		return
	}
	if present {
		h.app.Filter.Replace(req.toDomain())
	}
	if _, err := h.app.Filter.Submit(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// ClearFilters - POST /filters/clear
func (h *SessionHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Filter.Clear(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// StartPlacement - POST /placement/start
func (h *SessionHandler) StartPlacement(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Selection.StartPlacement(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// CancelPlacement - POST /placement/cancel
func (h *SessionHandler) CancelPlacement(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Selection.CancelPlacement(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// SubmitPlacement - POST /placement/submit
func (h *SessionHandler) SubmitPlacement(w http.ResponseWriter, r *http.Request) {
	var req PropertyDraftRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft := req.toDomain()
	if err := validation.CheckPlacementDraft(draft); err != nil {
		h.writeError(w, r, err)
		return
	}
	if _, err := h.app.Selection.SubmitPlacement(r.Context(), draft); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusCreated, h.app.Snapshot())
}

// MapClick - POST /map/click
func (h *SessionHandler) MapClick(w http.ResponseWriter, r *http.Request) {
	var req MapClickRequest
	if !h.decode(w, r, &req) {
		return
	}
	if req.Latitude == nil || req.Longitude == nil {
		WriteJSONError(w, http.StatusBadRequest, "latitude and longitude are required")
		return
	}
	accepted := h.app.Map.OnMapClick(r.Context(), domain.GeoPoint{Latitude: *req.Latitude, Longitude: *req.Longitude})
	RespondWithJSON(w, http.StatusOK, MapClickResponse{Accepted: accepted, State: h.app.Snapshot()})
}

// MarkerClick - POST /markers/{propertyID}/click. Неизвестный ID не ошибка, просто ничего не меняется.
func (h *SessionHandler) MarkerClick(w http.ResponseWriter, r *http.Request) {
	id := domain.PropertyID(chi.URLParam(r, "propertyID"))
	h.app.Map.OnMarkerClick(r.Context(), id)
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// BeginEdit - POST /properties/{propertyID}/edit
func (h *SessionHandler) BeginEdit(w http.ResponseWriter, r *http.Request) {
	id := domain.PropertyID(chi.URLParam(r, "propertyID"))
	if err := h.app.Selection.BeginEdit(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// SubmitEdit - POST /edit/submit
func (h *SessionHandler) SubmitEdit(w http.ResponseWriter, r *http.Request) {
	var req PropertyDraftRequest
	if !h.decode(w, r, &req) {
		return
	}
	draft := req.toDomain()
	if err := validation.CheckPropertyDraft(draft); err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.app.Selection.SubmitEdit(r.Context(), draft); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// CancelEdit - POST /edit/cancel
func (h *SessionHandler) CancelEdit(w http.ResponseWriter, r *http.Request) {
	if err := h.app.Selection.CancelEdit(r.Context()); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// DeleteProperty - DELETE /properties/{propertyID}?confirm=true|false
func (h *SessionHandler) DeleteProperty(w http.ResponseWriter, r *http.Request) {
	id := domain.PropertyID(chi.URLParam(r, "propertyID"))

	confirmed := false
	if raw := r.URL.Query().Get("confirm"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			WriteJSONError(w, http.StatusBadRequest, "confirm must be true or false")
			return
		}
		confirmed = v
	}

	ctx := contextkeys.ContextWithConfirmation(r.Context(), confirmed)
	err := h.app.Store.Remove(ctx, id)
	if errors.Is(err, domain.ErrDeleteNotConfirmed) {
		RespondWithJSON(w, http.StatusOK, DeleteResponse{Deleted: false, State: h.app.Snapshot()})
		return
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, DeleteResponse{Deleted: true, State: h.app.Snapshot()})
}

// SetPage - PUT /page
func (h *SessionHandler) SetPage(w http.ResponseWriter, r *http.Request) {
	var req PageRequest
	if !h.decode(w, r, &req) {
		return
	}
	if err := h.app.SetPage(r.Context(), req.Page); err != nil {
		h.writeError(w, r, err)
		return
	}
	RespondWithJSON(w, http.StatusOK, h.app.Snapshot())
}

// decode читает JSON-тело. При ошибке сам отвечает 400 и возвращает false.
func (h *SessionHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}
	contextkeys.LoggerFromContext(r.Context()).Warn("Failed to decode request body", port.Fields{"error": err.Error()})
	WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
	return false
}

// decodeOptional - как decode, но пустое тело допустимо. present = тело было.
func (h *SessionHandler) decodeOptional(w http.ResponseWriter, r *http.Request, dst interface{}) (present bool, ok bool) {
	err := json.NewDecoder(r.Body).Decode(dst)
	switch {
	case err == nil:
		return true, true
	case errors.Is(err, io.EOF):
		return false, true
	}
	contextkeys.LoggerFromContext(r.Context()).Warn("Failed to decode request body", port.Fields{"error": err.Error()})
	WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
	return false, false
}

// writeError переводит ошибки ядра в HTTP-статусы.
func (h *SessionHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	logger := contextkeys.LoggerFromContext(r.Context())

	var draftErr *validation.DraftError
	switch {
	case errors.As(err, &draftErr):
		logger.Warn("Property form rejected", port.Fields{"error": err.Error()})
		RespondWithJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid property form", Fields: draftErr.Fields})
	case errors.Is(err, domain.ErrUnknownFilterField), errors.Is(err, domain.ErrUnknownFormField):
		WriteJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		WriteJSONError(w, http.StatusNotFound, "Property not found")
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrNoPendingLocation):
		logger.Warn("Rejected state transition", port.Fields{"error": err.Error()})
		WriteJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrNetworkFailure):
		// Пользователь видит сообщение хранилища, подробности остаются в логе
		message := h.app.Store.Error()
		if message == "" {
			message = "Property service is unavailable"
		}
		WriteJSONError(w, http.StatusBadGateway, message)
	default:
		logger.Error("Unexpected error", err, nil)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}
