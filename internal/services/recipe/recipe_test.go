package services_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
	services "github.com/marusyakotova/foodgram-backend/internal/services/recipe"
)

// Мок для RecipeRepository
type RecipeRepoMock struct {
	mock.Mock
}

func (m *RecipeRepoMock) CreateRecipe(ctx context.Context, r *models.Recipe) (int, error) {
	args := m.Called(ctx, r)
	return args.Int(0), args.Error(1)
}

func (m *RecipeRepoMock) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *RecipeRepoMock) DeleteRecipe(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *RecipeRepoMock) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

func (m *RecipeRepoMock) ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Recipe), args.Error(1)
}

func (m *RecipeRepoMock) CountRecipes(ctx context.Context, filter models.RecipeFilter) (int, error) {
	args := m.Called(ctx, filter)
	return args.Int(0), args.Error(1)
}

func (m *RecipeRepoMock) GetRecipeIDByShortLink(ctx context.Context, token string) (int, error) {
	args := m.Called(ctx, token)
	return args.Int(0), args.Error(1)
}

func (m *RecipeRepoMock) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tag), args.Error(1)
}

func (m *RecipeRepoMock) GetIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ingredient), args.Error(1)
}

func (m *RecipeRepoMock) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *RecipeRepoMock) IsSubscribed(ctx context.Context, subscriberUID, authorUID string) (bool, error) {
	args := m.Called(ctx, subscriberUID, authorUID)
	return args.Bool(0), args.Error(1)
}

func (m *RecipeRepoMock) IsFavorite(ctx context.Context, userUID string, recipeID int) (bool, error) {
	args := m.Called(ctx, userUID, recipeID)
	return args.Bool(0), args.Error(1)
}

func (m *RecipeRepoMock) IsInShoppingCart(ctx context.Context, userUID string, recipeID int) (bool, error) {
	args := m.Called(ctx, userUID, recipeID)
	return args.Bool(0), args.Error(1)
}

// Мок для Cache
type CacheMock struct {
	mock.Mock
}

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	args := m.Called(key, value, expiration)
	return args.Error(0)
}

func (m *CacheMock) Invalidate(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

// noopCache пропускает все обращения мимо кеша.
func noopCache() *CacheMock {
	c := new(CacheMock)
	c.On("Get", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	c.On("Set", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("Invalidate", mock.Anything).Return(nil).Maybe()
	return c
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

const authorUID = "11111111-1111-1111-1111-111111111111"

func validRequest() models.DummyRecipe {
	return models.DummyRecipe{
		Name:        "Борщ",
		Text:        "Варить 90 минут.",
		CookingTime: 90,
		Image:       "/media/borsch.png",
		TagIDs:      []int{1},
		Ingredients: []models.DummyRecipeIngredient{{ID: 1, Amount: 500}},
	}
}

func setupCatalog(repo *RecipeRepoMock) {
	repo.On("GetTag", mock.Anything, 1).
		Return(&models.Tag{ID: 1, Name: "Обед", Slug: "dinner"}, nil).Maybe()
	repo.On("GetIngredient", mock.Anything, 1).
		Return(&models.Ingredient{ID: 1, Name: "картофель", MeasurementUnit: "г"}, nil).Maybe()
}

func TestRecipeService_CreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(req *models.DummyRecipe)
		errMsg string
	}{
		{
			name:   "нулевое время приготовления",
			mutate: func(req *models.DummyRecipe) { req.CookingTime = 0 },
			errMsg: "Время приготовления должно быть больше 0.",
		},
		{
			name:   "без тегов",
			mutate: func(req *models.DummyRecipe) { req.TagIDs = nil },
			errMsg: "Нужно выбрать хотя бы один тег.",
		},
		{
			name:   "без ингредиентов",
			mutate: func(req *models.DummyRecipe) { req.Ingredients = nil },
			errMsg: "Нужно добавить хотя бы один ингредиент.",
		},
		{
			name:   "повторяющиеся теги",
			mutate: func(req *models.DummyRecipe) { req.TagIDs = []int{1, 1} },
			errMsg: "Теги не должны повторяться.",
		},
		{
			name: "повторяющиеся ингредиенты",
			mutate: func(req *models.DummyRecipe) {
				req.Ingredients = []models.DummyRecipeIngredient{{ID: 1, Amount: 100}, {ID: 1, Amount: 200}}
			},
			errMsg: "Ингредиенты не должны повторяться.",
		},
		{
			name: "неположительное количество",
			mutate: func(req *models.DummyRecipe) {
				req.Ingredients = []models.DummyRecipeIngredient{{ID: 1, Amount: 0}}
			},
			errMsg: "Количество ингредиента должно быть больше 0.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RecipeRepoMock)
			setupCatalog(repo)
			svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

			req := validRequest()
			tt.mutate(&req)

			_, err := svc.Create(context.Background(), authorUID, req)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errs.ErrValidation))
			assert.Equal(t, tt.errMsg, err.Error())
			repo.AssertNotCalled(t, "CreateRecipe", mock.Anything, mock.Anything)
		})
	}
}

func TestRecipeService_CreateUnknownCatalogEntries(t *testing.T) {
	t.Run("несуществующий тег", func(t *testing.T) {
		repo := new(RecipeRepoMock)
		repo.On("GetTag", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()
		svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

		req := validRequest()
		req.TagIDs = []int{99}

		_, err := svc.Create(context.Background(), authorUID, req)
		require.Error(t, err)
		assert.Equal(t, "Указан несуществующий тег.", err.Error())
	})

	t.Run("несуществующий ингредиент", func(t *testing.T) {
		repo := new(RecipeRepoMock)
		setupCatalog(repo)
		repo.On("GetIngredient", mock.Anything, 99).Return(nil, errs.ErrNotFound).Once()
		svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

		req := validRequest()
		req.Ingredients = []models.DummyRecipeIngredient{{ID: 99, Amount: 100}}

		_, err := svc.Create(context.Background(), authorUID, req)
		require.Error(t, err)
		assert.Equal(t, "Указан несуществующий ингредиент.", err.Error())
	})
}

func TestRecipeService_CreateShortLinkRetry(t *testing.T) {
	repo := new(RecipeRepoMock)
	setupCatalog(repo)
	// первые две вставки натыкаются на занятый токен, третья проходит
	repo.On("CreateRecipe", mock.Anything, mock.Anything).
		Return(0, errs.ErrShortLinkTaken).Twice()
	repo.On("CreateRecipe", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
		return r.ShortLink != ""
	})).Return(7, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	id, err := svc.Create(context.Background(), authorUID, validRequest())
	require.NoError(t, err)
	assert.Equal(t, 7, id)
	repo.AssertExpectations(t)
}

func TestRecipeService_CreateShortLinkExhausted(t *testing.T) {
	repo := new(RecipeRepoMock)
	setupCatalog(repo)
	repo.On("CreateRecipe", mock.Anything, mock.Anything).
		Return(0, errs.ErrShortLinkTaken).Times(3)
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	_, err := svc.Create(context.Background(), authorUID, validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrShortLinkTaken))
	repo.AssertExpectations(t)
}

func TestRecipeService_UpdatePermission(t *testing.T) {
	repo := new(RecipeRepoMock)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: "someone-else"}, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	err := svc.Update(context.Background(), 7, authorUID, validRequest())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPermission))
	assert.Equal(t, "Изменять рецепт может только его автор.", err.Error())
	repo.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything)
}

func TestRecipeService_UpdateValidation(t *testing.T) {
	repo := new(RecipeRepoMock)
	setupCatalog(repo)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: authorUID, ShortLink: "abcde12345"}, nil).Once()
	cache := new(CacheMock)
	svc := services.NewRecipeService(repo, cache, newNoopLogger(), "http://localhost:8080/s")

	req := validRequest()
	req.Ingredients = []models.DummyRecipeIngredient{{ID: 1, Amount: 0}}

	err := svc.Update(context.Background(), 7, authorUID, req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrValidation))
	assert.Equal(t, "Количество ингредиента должно быть больше 0.", err.Error())
	// Прежние строки рецепта не трогаются: до хранилища запрос не доходит
	repo.AssertNotCalled(t, "UpdateRecipe", mock.Anything, mock.Anything)
	cache.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestRecipeService_UpdateKeepsShortLink(t *testing.T) {
	repo := new(RecipeRepoMock)
	setupCatalog(repo)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: authorUID, ShortLink: "abcde12345"}, nil).Once()
	repo.On("UpdateRecipe", mock.Anything, mock.MatchedBy(func(r *models.Recipe) bool {
		return r.ID == 7 && r.ShortLink == "abcde12345"
	})).Return(nil).Once()
	cache := new(CacheMock)
	cache.On("Invalidate", "recipe:7").Return(nil).Once()
	svc := services.NewRecipeService(repo, cache, newNoopLogger(), "http://localhost:8080/s")

	err := svc.Update(context.Background(), 7, authorUID, validRequest())
	require.NoError(t, err)
	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestRecipeService_DeletePermission(t *testing.T) {
	repo := new(RecipeRepoMock)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: "someone-else"}, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	err := svc.Delete(context.Background(), 7, authorUID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrPermission))
	repo.AssertNotCalled(t, "DeleteRecipe", mock.Anything, mock.Anything)
}

func TestRecipeService_GetAnonymous(t *testing.T) {
	repo := new(RecipeRepoMock)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: authorUID, Name: "Борщ"}, nil).Once()
	repo.On("GetUser", mock.Anything, authorUID).
		Return(&models.User{UID: authorUID, Username: "author"}, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	view, err := svc.Get(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, "Борщ", view.Name)
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	// флаги членства для анонима не запрашиваются
	repo.AssertNotCalled(t, "IsFavorite", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "IsInShoppingCart", mock.Anything, mock.Anything, mock.Anything)
}

func TestRecipeService_GetWithMembershipFlags(t *testing.T) {
	requester := "33333333-3333-3333-3333-333333333333"
	repo := new(RecipeRepoMock)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, AuthorUID: authorUID, Name: "Борщ"}, nil).Once()
	repo.On("GetUser", mock.Anything, authorUID).
		Return(&models.User{UID: authorUID, Username: "author"}, nil).Once()
	repo.On("IsSubscribed", mock.Anything, requester, authorUID).Return(true, nil).Once()
	repo.On("IsFavorite", mock.Anything, requester, 7).Return(true, nil).Once()
	repo.On("IsInShoppingCart", mock.Anything, requester, 7).Return(false, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	view, err := svc.Get(context.Background(), 7, requester)
	require.NoError(t, err)
	assert.True(t, view.Author.IsSubscribed)
	assert.True(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	repo.AssertExpectations(t)
}

func TestRecipeService_GetLink(t *testing.T) {
	repo := new(RecipeRepoMock)
	repo.On("GetRecipe", mock.Anything, 7).
		Return(&models.Recipe{ID: 7, ShortLink: "abcde12345"}, nil).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	link, err := svc.GetLink(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/s/abcde12345", link)
}

func TestRecipeService_ResolveShortLink(t *testing.T) {
	repo := new(RecipeRepoMock)
	repo.On("GetRecipeIDByShortLink", mock.Anything, "abcde12345").Return(7, nil).Once()
	repo.On("GetRecipeIDByShortLink", mock.Anything, "missing").
		Return(0, errs.ErrNotFound).Once()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	id, err := svc.ResolveShortLink(context.Background(), "abcde12345")
	require.NoError(t, err)
	assert.Equal(t, 7, id)

	_, err = svc.ResolveShortLink(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestRecipeService_List(t *testing.T) {
	repo := new(RecipeRepoMock)
	filter := models.RecipeFilter{TagSlugs: []string{"dinner"}}
	repo.On("CountRecipes", mock.Anything, filter).Return(2, nil).Once()
	repo.On("ListRecipes", mock.Anything, filter, 6, 0).
		Return([]*models.Recipe{
			{ID: 2, AuthorUID: authorUID, Name: "Окрошка"},
			{ID: 1, AuthorUID: authorUID, Name: "Борщ"},
		}, nil).Once()
	repo.On("GetUser", mock.Anything, authorUID).
		Return(&models.User{UID: authorUID, Username: "author"}, nil).Twice()
	svc := services.NewRecipeService(repo, noopCache(), newNoopLogger(), "http://localhost:8080/s")

	views, total, err := svc.List(context.Background(), filter, "", 6, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, views, 2)
	assert.Equal(t, "Окрошка", views[0].Name)
	repo.AssertExpectations(t)
}
