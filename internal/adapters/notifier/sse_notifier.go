package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"property-map/internal/contextkeys"
	"property-map/internal/core/domain"
	"property-map/internal/core/port"
	"sync"

	"github.com/google/uuid"
)

// ClientChannel - канал, через который события уходят одному подключенному браузеру.
type ClientChannel chan []byte

const (
	eventBufferSize  = 100
	clientBufferSize = 16
)

type eventWithContext struct {
	ctx   context.Context
	event port.StateEvent
}

// statePayload - тело data: в SSE-сообщении.
type statePayload struct {
	Reason string             `json:"reason"`
	View   domain.SessionView `json:"view"`
}

// SSENotifier рассылает снимки экрана всем открытым вкладкам сессии.
type SSENotifier struct {
	clients map[uuid.UUID]ClientChannel
	mu      sync.RWMutex

	eventChan chan eventWithContext
	done      chan struct{}
	closeOnce sync.Once

	logger port.LoggerPort
}

var _ port.StateNotifierPort = (*SSENotifier)(nil)

// NewSSENotifier создает нотификатор и запускает диспетчер. Остановка - Close.
func NewSSENotifier(baseLogger port.LoggerPort) *SSENotifier {
	n := &SSENotifier{
		clients:   make(map[uuid.UUID]ClientChannel),
		eventChan: make(chan eventWithContext, eventBufferSize),
		done:      make(chan struct{}),
		logger:    baseLogger.WithFields(port.Fields{"component": "SSENotifier"}),
	}
	go n.dispatcher()
	return n
}

func (n *SSENotifier) dispatcher() {
	n.logger.Debug("Notifier dispatcher started.", nil)
	for {
		select {
		case <-n.done:
			n.logger.Debug("Notifier dispatcher stopped.", nil)
			return
		case pkg := <-n.eventChan:
			n.dispatch(pkg)
		}
	}
}

func (n *SSENotifier) dispatch(pkg eventWithContext) {
	eventLogger := contextkeys.LoggerFromContext(pkg.ctx).WithFields(port.Fields{
		"component":  "SSENotifier.dispatcher",
		"event_type": pkg.event.Type,
		"reason":     pkg.event.Reason,
	})

	message, err := FormatEvent(pkg.event)
	if err != nil {
		eventLogger.Error("Failed to marshal event", err, nil)
		return
	}

	n.mu.RLock()
	defer n.mu.RUnlock()

	if len(n.clients) == 0 {
		eventLogger.Debug("No active clients, event dropped.", nil)
		return
	}
	for id, ch := range n.clients {
		// Медленный клиент пропускает событие: следующий снимок все равно полный
		select {
		case ch <- message:
		default:
			eventLogger.Warn("Client channel is full, skipping.", port.Fields{"client_id": id.String()})
		}
	}
}

// FormatEvent превращает событие в сообщение SSE.
func FormatEvent(event port.StateEvent) ([]byte, error) {
	data, err := json.Marshal(statePayload{Reason: event.Reason, View: event.View})
	if err != nil {
		return nil, err
	}
	return []byte(fmt.Sprintf("event: %s\ndata: %s\n\n", event.Type, data)), nil
}

// Notify кладет событие в очередь диспетчера. После Close события выбрасываются.
func (n *SSENotifier) Notify(ctx context.Context, event port.StateEvent) {
	select {
	case <-n.done:
	case n.eventChan <- eventWithContext{ctx: ctx, event: event}:
	}
}

// AddClient регистрирует новое SSE-соединение.
func (n *SSENotifier) AddClient() (uuid.UUID, ClientChannel) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := uuid.New()
	ch := make(ClientChannel, clientBufferSize)
	n.clients[id] = ch

	n.logger.Info("Client connected", port.Fields{
		"client_id":         id.String(),
		"total_connections": len(n.clients),
	})
	return id, ch
}

// RemoveClient вызывается хендлером, когда браузер закрыл соединение.
func (n *SSENotifier) RemoveClient(id uuid.UUID) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, found := n.clients[id]; !found {
		return
	}
	delete(n.clients, id)
	n.logger.Info("Client disconnected", port.Fields{
		"client_id":             id.String(),
		"remaining_connections": len(n.clients),
	})
}

// ClientCount - число открытых соединений.
func (n *SSENotifier) ClientCount() int {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return len(n.clients)
}

// Close останавливает диспетчер. Повторный вызов безопасен.
func (n *SSENotifier) Close() {
	n.closeOnce.Do(func() { close(n.done) })
}
