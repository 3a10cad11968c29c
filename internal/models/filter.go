package models

// RecipeFilter представляет параметры фильтрации списка рецептов,
// которые передаются в слой доступа к данным. Nil-поля означают
// отсутствие соответствующего фильтра.
type RecipeFilter struct {
	AuthorUID      *string  // Рецепты конкретного автора
	TagSlugs       []string // Рецепты, имеющие хотя бы один из тегов
	FavoritedBy    *string  // Рецепты из избранного пользователя
	InShoppingCart *string  // Рецепты из корзины пользователя
}
