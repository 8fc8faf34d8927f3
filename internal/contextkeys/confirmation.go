package contextkeys

import "context"

type confirmationKeyType struct{}

var confirmationKey = confirmationKeyType{}

// ContextWithConfirmation сохраняет ответ пользователя на вопрос об удалении,
// пришедший вместе с запросом.
func ContextWithConfirmation(ctx context.Context, granted bool) context.Context {
	return context.WithValue(ctx, confirmationKey, granted)
}

// ConfirmationFromContext - false, если ответа в контексте нет.
func ConfirmationFromContext(ctx context.Context) bool {
	granted, ok := ctx.Value(confirmationKey).(bool)
	return ok && granted
}
