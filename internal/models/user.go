// Package models содержит доменные структуры рецептурной платформы:
// пользователей, подписки, рецепты, справочники тегов и ингредиентов,
// а также вспомогательные Dummy-типы для приёма данных из JSON-запросов.
package models

import "time"

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID          string    // Уникальный идентификатор пользователя (uuid)
	Email        string    // Электронная почта (уникальная)
	Username     string    // Имя пользователя (уникальное)
	FirstName    string    // Имя
	LastName     string    // Фамилия
	PasswordHash string    // Хэш пароля пользователя
	Avatar       *string   // Ссылка на аватар, nil — аватар не задан
	CreatedAt    time.Time // Дата регистрации
}

// Subscription представляет направленную связь "подписчик — автор".
type Subscription struct {
	ID            int    // Идентификатор записи
	SubscriberUID string // Кто подписан
	AuthorUID     string // На кого подписан
}

// DummyRegister используется для приёма данных регистрации из JSON-запроса.
type DummyRegister struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,alphanum"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// DummyAvatar используется для приёма нового аватара из JSON-запроса.
type DummyAvatar struct {
	Avatar string `json:"avatar" validate:"required"`
}

// UserView — проекция пользователя для выдачи наружу.
// IsSubscribed вычисляется относительно пользователя, сделавшего запрос.
type UserView struct {
	UID          string  `json:"id"`
	Email        string  `json:"email"`
	Username     string  `json:"username"`
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	IsSubscribed bool    `json:"is_subscribed"`
	Avatar       *string `json:"avatar"`
}

// AuthorView — проекция автора в списке подписок:
// данные пользователя плюс счётчик рецептов и превью первых рецептов.
type AuthorView struct {
	UserView
	RecipesCount int             `json:"recipes_count"`
	Recipes      []RecipeSummary `json:"recipes"`
}
