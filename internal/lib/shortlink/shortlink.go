// Package shortlink генерирует токены коротких ссылок на рецепты.
//
// Токен — компактный URL-безопасный nanoid. Уникальность гарантирует
// уникальный индекс в базе; при коллизии вставки генерация повторяется
// ограниченное число раз на стороне вызывающего кода.
package shortlink

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// TokenLength — длина токена короткой ссылки. 10 символов алфавита
// nanoid дают достаточно энтропии, чтобы коллизии оставались
// событием уровня повторной генерации, а не проектной проблемой.
const TokenLength = 10

// NewToken возвращает новый случайный токен короткой ссылки.
func NewToken() (string, error) {
	token, err := gonanoid.New(TokenLength)
	if err != nil {
		return "", fmt.Errorf("shortlink.NewToken: %w", err)
	}
	return token, nil
}
