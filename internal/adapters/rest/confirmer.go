package rest

import (
	"context"
	"property-map/internal/contextkeys"
	"property-map/internal/core/port"
)

// RequestConfirmer отвечает на вопрос об удалении тем, что браузер прислал в запросе (?confirm=true).
// Диалог показывает сам браузер, сюда приходит только его результат.
type RequestConfirmer struct{}

var _ port.ConfirmerPort = RequestConfirmer{}

func (RequestConfirmer) Confirm(ctx context.Context, prompt string) bool {
	granted := contextkeys.ConfirmationFromContext(ctx)
	contextkeys.LoggerFromContext(ctx).Debug("Delete confirmation read from request", port.Fields{
		"prompt":  prompt,
		"granted": granted,
	})
	return granted
}
