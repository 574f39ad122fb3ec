package services

import "errors"

// Общие ошибки сервисного слоя; маппинг в HTTP статусы в handlers.
var (
	// Ресурс не найден
	ErrNotFound           = errors.New("requested resource not found")
	ErrCatalogNotFound    = errors.New("catalog not found")
	ErrTournamentNotFound = errors.New("tournament session not found")

	// Ошибки валидации
	ErrValidationFailed = errors.New("validation failed")

	// Токен записи турнира
	ErrInvalidToken = errors.New("invalid or missing session token")

	// Экспорт в объектное хранилище не настроен
	ErrExportDisabled = errors.New("catalog export storage is not configured")
)
