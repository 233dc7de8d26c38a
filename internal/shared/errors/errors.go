// Package errors содержит общие доменные ошибки приложения.
//
// Эти ошибки используются в service, repository и storage слоях
// и маппятся на HTTP-статусы в api слое.
package errors

import (
	"errors"
	"fmt"
)

var (
	// Входные данные невалидны (пустые поля, неправильный формат и т.п.)
	ErrInvalidInput = errors.New("invalid input")
	// Неверные учётные данные. Одна и та же ошибка для неизвестного email и неверного пароля
	ErrInvalidCredentials = errors.New("invalid credentials")
	// Получена непредвиденная ошибка
	ErrInternal = errors.New("internal error")
	// Полученные JSON данные с ошибками
	ErrBadJSON = errors.New("bad json")
	// Неавторизован (нет токена, токен невалиден, истёк или отозван)
	ErrUnauthorized = errors.New("not authorized")
	// Пользователь аутентифицирован, но ресурс принадлежит другому владельцу
	ErrForbidden = errors.New("forbidden")
	// Ресурс уже существует (например email или username уже заняты)
	ErrAlreadyExists = errors.New("email or username already taken")
	// Ресурс не найден
	ErrNotFound = errors.New("not found")
)

// только для загрузок
var (
	// файл слишком большой или не является разрешённым изображением
	ErrUploadRejected = errors.New("only jpeg, jpg, png and webp images up to 5MB are allowed")
	ErrUserIDEmpty    = errors.New("user id cannot be empty")
)

// Invalid оборачивает ErrInvalidInput уточнением, которое уйдёт клиенту в message.
// errors.Is(err, ErrInvalidInput) для результата остаётся true.
func Invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
