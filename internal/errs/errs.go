// Package errs определяет доменные ошибки бизнес-логики и их
// отображение в HTTP-статусы. Обработчики проверяют ошибки через
// errors.Is с сентинелами и отдают клиенту сообщение ошибки как есть.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Сентинелы для классификации доменных ошибок.
var (
	// ErrNotFound — запрошенная сущность не существует.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists — попытка повторно создать уникальную связь.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation — входные данные нарушают ограничения модели.
	ErrValidation = errors.New("validation failed")
	// ErrPermission — операция доступна только автору ресурса.
	ErrPermission = errors.New("permission denied")
	// ErrSelfReference — попытка подписаться на самого себя.
	ErrSelfReference = errors.New("self reference")
	// ErrShortLinkTaken — сгенерированный токен короткой ссылки уже
	// занят; генерацию следует повторить.
	ErrShortLinkTaken = errors.New("short link token taken")
)

// Error связывает пользовательское сообщение с одним из сентинелов.
type Error struct {
	Kind    error  // один из сентинелов выше
	Message string // текст для показа пользователю
}

func (e *Error) Error() string { return e.Message }

// Unwrap позволяет errors.Is находить сентинел.
func (e *Error) Unwrap() error { return e.Kind }

// NotFound возвращает ошибку "не найдено" с заданным сообщением.
func NotFound(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// AlreadyExists возвращает ошибку дубликата уникальной связи.
func AlreadyExists(format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Validation возвращает ошибку валидации входных данных.
func Validation(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// Permission возвращает ошибку прав доступа.
func Permission(format string, args ...any) error {
	return &Error{Kind: ErrPermission, Message: fmt.Sprintf(format, args...)}
}

// SelfReference возвращает ошибку подписки на самого себя.
func SelfReference(format string, args ...any) error {
	return &Error{Kind: ErrSelfReference, Message: fmt.Sprintf(format, args...)}
}

// HTTPStatus подбирает HTTP-статус для доменной ошибки.
// Дубликаты и самоподписка отдаются как 400: так ведёт себя
// существующий API, и клиенты на это рассчитывают.
func HTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPermission):
		return http.StatusForbidden
	case errors.Is(err, ErrAlreadyExists),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrSelfReference):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// IsDomain сообщает, относится ли ошибка к доменным (показываемым клиенту).
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e)
}
