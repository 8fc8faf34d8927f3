package port

import "context"

// ConfirmerPort - блокирующий вопрос "да/нет" пользователю.
// Любой ответ, кроме явного согласия, считается отказом.
type ConfirmerPort interface {
	Confirm(ctx context.Context, prompt string) bool
}
