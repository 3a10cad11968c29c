package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

func TestStorage_RegisterUserUniqueness(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	user := models.User{
		UID:          uuid.New().String(),
		Email:        "marusya@example.com",
		Username:     "marusya",
		FirstName:    "Маруся",
		LastName:     "Котова",
		PasswordHash: "hashedpassword",
	}

	uid, err := storage.RegisterUser(ctx, user)
	require.NoError(t, err)
	assert.NotEmpty(t, uid)

	duplicate := user
	duplicate.UID = uuid.New().String()
	_, err = storage.RegisterUser(ctx, duplicate)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAlreadyExists))
}

func TestStorage_CreateSubscription(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	subscriberUID := factory.CreateUser(t, "subscriber", "sub@example.com")
	authorUID := factory.CreateUser(t, "author", "author@example.com")

	id, err := storage.CreateSubscription(ctx, subscriberUID, authorUID)
	require.NoError(t, err)
	assert.Greater(t, id, 0)

	t.Run("повторная подписка", func(t *testing.T) {
		_, err := storage.CreateSubscription(ctx, subscriberUID, authorUID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrAlreadyExists))
	})

	t.Run("подписка на себя", func(t *testing.T) {
		_, err := storage.CreateSubscription(ctx, subscriberUID, subscriberUID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrSelfReference))
	})

	t.Run("несуществующий автор", func(t *testing.T) {
		_, err := storage.CreateSubscription(ctx, subscriberUID, uuid.New().String())
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("удаление подписки", func(t *testing.T) {
		require.NoError(t, storage.DeleteSubscription(ctx, subscriberUID, authorUID))

		err := storage.DeleteSubscription(ctx, subscriberUID, authorUID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})
}

func TestStorage_Memberships(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "marusya", "marusya@example.com")
	tagID := factory.CreateTag(t, "Ужин", "dinner")
	ingredientID := factory.CreateIngredient(t, "картофель", "г")
	recipeID := factory.CreateRecipe(t, userUID, "Борщ", "aaaaa11111",
		[]int{tagID}, map[int]int{ingredientID: 300})

	t.Run("добавление в избранное", func(t *testing.T) {
		_, err := storage.AddFavorite(ctx, userUID, recipeID)
		require.NoError(t, err)

		exists, err := storage.IsFavorite(ctx, userUID, recipeID)
		require.NoError(t, err)
		assert.True(t, exists)

		_, err = storage.AddFavorite(ctx, userUID, recipeID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrAlreadyExists))
	})

	t.Run("несуществующий рецепт", func(t *testing.T) {
		_, err := storage.AddFavorite(ctx, userUID, 9999)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
	})

	t.Run("удаление отсутствующей пары", func(t *testing.T) {
		err := storage.RemoveShoppingCart(ctx, userUID, recipeID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))

		exists, err := storage.IsInShoppingCart(ctx, userUID, recipeID)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestStorage_ListShoppingItems(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	userUID := factory.CreateUser(t, "marusya", "marusya@example.com")
	tagID := factory.CreateTag(t, "Ужин", "dinner")
	potatoID := factory.CreateIngredient(t, "картофель", "г")
	saltID := factory.CreateIngredient(t, "соль", "г")

	// Общий ингредиент двух рецептов должен суммироваться
	firstID := factory.CreateRecipe(t, userUID, "Борщ", "aaaaa11111",
		[]int{tagID}, map[int]int{potatoID: 300, saltID: 5})
	secondID := factory.CreateRecipe(t, userUID, "Пюре", "bbbbb22222",
		[]int{tagID}, map[int]int{potatoID: 200})

	_, err := storage.AddShoppingCart(ctx, userUID, firstID)
	require.NoError(t, err)
	_, err = storage.AddShoppingCart(ctx, userUID, secondID)
	require.NoError(t, err)

	items, err := storage.ListShoppingItems(ctx, userUID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, models.ShoppingListItem{Name: "картофель", Total: 500, MeasurementUnit: "г"}, items[0])
	assert.Equal(t, models.ShoppingListItem{Name: "соль", Total: 5, MeasurementUnit: "г"}, items[1])

	t.Run("пустая корзина", func(t *testing.T) {
		otherUID := factory.CreateUser(t, "guest", "guest@example.com")
		items, err := storage.ListShoppingItems(ctx, otherUID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestStorage_DeleteRecipeCascade(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	verify := NewTestVerification(storage)

	authorUID := factory.CreateUser(t, "author", "author@example.com")
	otherUID := factory.CreateUser(t, "other", "other@example.com")
	tagID := factory.CreateTag(t, "Ужин", "dinner")
	ingredientID := factory.CreateIngredient(t, "картофель", "г")
	recipeID := factory.CreateRecipe(t, authorUID, "Борщ", "aaaaa11111",
		[]int{tagID}, map[int]int{ingredientID: 300})

	_, err := storage.AddFavorite(ctx, otherUID, recipeID)
	require.NoError(t, err)
	_, err = storage.AddShoppingCart(ctx, otherUID, recipeID)
	require.NoError(t, err)

	require.NoError(t, storage.DeleteRecipe(ctx, recipeID))

	verify.VerifyRecipeDeleted(t, recipeID)
	verify.VerifyRowCount(t, "favorites", recipeID, 0)
	verify.VerifyRowCount(t, "shopping_carts", recipeID, 0)
	verify.VerifyRowCount(t, "recipe_ingredients", recipeID, 0)
	verify.VerifyRowCount(t, "recipe_tags", recipeID, 0)
}

func TestStorage_ListIngredientsPrefix(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	factory.CreateIngredient(t, "картофель", "г")
	factory.CreateIngredient(t, "соль", "г")

	t.Run("поиск по префиксу", func(t *testing.T) {
		items, err := storage.ListIngredients(ctx, "кар")
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "картофель", items[0].Name)
	})

	t.Run("без фильтра возвращается все", func(t *testing.T) {
		items, err := storage.ListIngredients(ctx, "")
		require.NoError(t, err)
		assert.Len(t, items, 2)
	})

	t.Run("метасимволы LIKE ищутся буквально", func(t *testing.T) {
		items, err := storage.ListIngredients(ctx, "%")
		require.NoError(t, err)
		assert.Empty(t, items)

		items, err = storage.ListIngredients(ctx, "_")
		require.NoError(t, err)
		assert.Empty(t, items)
	})
}

func TestStorage_UpdateRecipeRollback(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "author", "author@example.com")
	tagID := factory.CreateTag(t, "Ужин", "dinner")
	ingredientID := factory.CreateIngredient(t, "картофель", "г")
	recipeID := factory.CreateRecipe(t, authorUID, "Борщ", "aaaaa11111",
		[]int{tagID}, map[int]int{ingredientID: 300})

	verifyUnchanged := func(t *testing.T) {
		recipe, err := storage.GetRecipe(ctx, recipeID)
		require.NoError(t, err)
		assert.Equal(t, "Борщ", recipe.Name)
		require.Len(t, recipe.Ingredients, 1)
		assert.Equal(t, ingredientID, recipe.Ingredients[0].IngredientID)
		assert.Equal(t, 300, recipe.Ingredients[0].Amount)
		require.Len(t, recipe.Tags, 1)
	}

	t.Run("несуществующий ингредиент откатывает транзакцию", func(t *testing.T) {
		err := storage.UpdateRecipe(ctx, &models.Recipe{
			ID:          recipeID,
			Name:        "Новое имя",
			Text:        "Новый текст",
			CookingTime: 10,
			Tags:        []models.Tag{{ID: tagID}},
			Ingredients: []models.RecipeIngredient{{IngredientID: 9999, Amount: 100}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrNotFound))
		verifyUnchanged(t)
	})

	t.Run("нулевое количество откатывает транзакцию", func(t *testing.T) {
		err := storage.UpdateRecipe(ctx, &models.Recipe{
			ID:          recipeID,
			Name:        "Новое имя",
			Text:        "Новый текст",
			CookingTime: 10,
			Tags:        []models.Tag{{ID: tagID}},
			Ingredients: []models.RecipeIngredient{{IngredientID: ingredientID, Amount: 0}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errs.ErrValidation))
		verifyUnchanged(t)
	})
}

func TestStorage_GetRecipeIDByShortLink(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)
	authorUID := factory.CreateUser(t, "author", "author@example.com")
	tagID := factory.CreateTag(t, "Ужин", "dinner")
	ingredientID := factory.CreateIngredient(t, "картофель", "г")
	recipeID := factory.CreateRecipe(t, authorUID, "Борщ", "aaaaa11111",
		[]int{tagID}, map[int]int{ingredientID: 300})

	got, err := storage.GetRecipeIDByShortLink(ctx, "aaaaa11111")
	require.NoError(t, err)
	assert.Equal(t, recipeID, got)

	_, err = storage.GetRecipeIDByShortLink(ctx, "missing000")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestStorage_ListRecipesFilters(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	ctx := context.Background()
	factory := NewTestDataFactory(storage)

	authorUID := factory.CreateUser(t, "author", "author@example.com")
	readerUID := factory.CreateUser(t, "reader", "reader@example.com")
	dinnerID := factory.CreateTag(t, "Ужин", "dinner")
	lunchID := factory.CreateTag(t, "Обед", "lunch")
	ingredientID := factory.CreateIngredient(t, "картофель", "г")

	borschID := factory.CreateRecipe(t, authorUID, "Борщ", "aaaaa11111",
		[]int{dinnerID}, map[int]int{ingredientID: 300})
	factory.CreateRecipe(t, readerUID, "Пюре", "bbbbb22222",
		[]int{lunchID}, map[int]int{ingredientID: 200})

	_, err := storage.AddFavorite(ctx, readerUID, borschID)
	require.NoError(t, err)

	t.Run("без фильтров", func(t *testing.T) {
		recipes, err := storage.ListRecipes(ctx, models.RecipeFilter{}, 10, 0)
		require.NoError(t, err)
		assert.Len(t, recipes, 2)

		total, err := storage.CountRecipes(ctx, models.RecipeFilter{})
		require.NoError(t, err)
		assert.Equal(t, 2, total)
	})

	t.Run("фильтр по тегу", func(t *testing.T) {
		recipes, err := storage.ListRecipes(ctx, models.RecipeFilter{TagSlugs: []string{"dinner"}}, 10, 0)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, "Борщ", recipes[0].Name)
	})

	t.Run("фильтр по автору", func(t *testing.T) {
		recipes, err := storage.ListRecipes(ctx, models.RecipeFilter{AuthorUID: &authorUID}, 10, 0)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, authorUID, recipes[0].AuthorUID)
	})

	t.Run("фильтр по избранному", func(t *testing.T) {
		recipes, err := storage.ListRecipes(ctx, models.RecipeFilter{FavoritedBy: &readerUID}, 10, 0)
		require.NoError(t, err)
		require.Len(t, recipes, 1)
		assert.Equal(t, borschID, recipes[0].ID)
	})

	t.Run("рецепт приходит со связями", func(t *testing.T) {
		recipe, err := storage.GetRecipe(ctx, borschID)
		require.NoError(t, err)
		require.Len(t, recipe.Tags, 1)
		assert.Equal(t, "dinner", recipe.Tags[0].Slug)
		require.Len(t, recipe.Ingredients, 1)
		assert.Equal(t, "картофель", recipe.Ingredients[0].Name)
		assert.Equal(t, 300, recipe.Ingredients[0].Amount)
	})
}
