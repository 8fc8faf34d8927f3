package domain

import "errors"

var (
	// ErrNetworkFailure - ошибка транспорта или ответ сервера не 2xx.
	// Других видов ошибок на границе репозитория нет.
	ErrNetworkFailure = errors.New("network failure")

	ErrNotFound           = errors.New("property not found in store")
	ErrInvalidTransition  = errors.New("invalid selection transition")
	ErrNoPendingLocation  = errors.New("no pending location to place the property at")
	ErrDeleteNotConfirmed = errors.New("delete was not confirmed")
	ErrUnknownFilterField = errors.New("unknown filter field")
	ErrUnknownFormField   = errors.New("unknown form field")
)
