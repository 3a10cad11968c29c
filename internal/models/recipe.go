package models

import "time"

// Recipe — основная модель рецепта, используемая в бизнес-логике
// и хранилище. Строки ингредиентов принадлежат рецепту и живут
// ровно столько же, сколько он сам.
type Recipe struct {
	ID          int                // Идентификатор рецепта
	AuthorUID   string             // Автор рецепта
	Name        string             // Название
	Text        string             // Описание приготовления
	CookingTime int                // Время приготовления в минутах (> 0)
	Image       string             // Ссылка на изображение
	ShortLink   string             // Уникальный токен короткой ссылки
	CreatedAt   time.Time          // Дата публикации
	Tags        []Tag              // Набор тегов (непустой)
	Ingredients []RecipeIngredient // Строки ингредиентов
}

// RecipeIngredient — строка рецепта: ингредиент и его количество.
// В пределах одного рецепта ингредиент встречается не более одного раза.
type RecipeIngredient struct {
	IngredientID    int    `json:"id"`
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Amount          int    `json:"amount"`
}

// DummyRecipe используется для приёма рецепта из JSON-запроса,
// прежде чем конвертировать его в Recipe. Теги и ингредиенты приходят
// идентификаторами и проверяются по справочникам.
type DummyRecipe struct {
	Name        string                  `json:"name" validate:"required"`
	Text        string                  `json:"text" validate:"required"`
	CookingTime int                     `json:"cooking_time" validate:"required,gt=0"`
	Image       string                  `json:"image"`
	TagIDs      []int                   `json:"tags" validate:"required,min=1"`
	Ingredients []DummyRecipeIngredient `json:"ingredients" validate:"required,min=1,dive"`
}

// DummyRecipeIngredient — строка ингредиента из JSON-запроса.
type DummyRecipeIngredient struct {
	ID     int `json:"id" validate:"required"`
	Amount int `json:"amount" validate:"required,gt=0"`
}

// RecipeView — полная проекция рецепта для выдачи наружу.
type RecipeView struct {
	ID                int                `json:"id"`
	Author            UserView           `json:"author"`
	Name              string             `json:"name"`
	Text              string             `json:"text"`
	CookingTime       int                `json:"cooking_time"`
	Image             string             `json:"image"`
	Tags              []Tag              `json:"tags"`
	Ingredients       []RecipeIngredient `json:"ingredients"`
	IsFavorited       bool               `json:"is_favorited"`
	IsInShoppingCart  bool               `json:"is_in_shopping_cart"`
	CreatedAt         time.Time          `json:"created_at"`
}

// RecipeSummary — краткая проекция рецепта, встраиваемая в другие
// ответы: элементы избранного, корзины, превью рецептов автора.
type RecipeSummary struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// ShoppingListItem — строка агрегированного списка покупок:
// ингредиент с просуммированным по всем рецептам корзины количеством.
type ShoppingListItem struct {
	Name            string // Название ингредиента
	Total           int    // Суммарное количество
	MeasurementUnit string // Единица измерения
}
