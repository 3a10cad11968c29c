// Package services содержит бизнес-логику работы с рецептами:
// создание, изменение, удаление, выдачу карточек и списков,
// а также короткие ссылки. Карточки рецептов кешируются.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/lib/shortlink"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Число попыток подобрать свободный токен короткой ссылки.
const maxShortLinkAttempts = 3

// RecipeRepository определяет методы хранилища, нужные сервису рецептов.
type RecipeRepository interface {
	// CreateRecipe атомарно вставляет рецепт со связями и возвращает ID.
	CreateRecipe(ctx context.Context, r *models.Recipe) (int, error)
	// UpdateRecipe атомарно заменяет поля и связи рецепта.
	UpdateRecipe(ctx context.Context, r *models.Recipe) error
	// DeleteRecipe удаляет рецепт с каскадом по связям и членствам.
	DeleteRecipe(ctx context.Context, id int) error
	// GetRecipe возвращает рецепт с тегами и строками ингредиентов.
	GetRecipe(ctx context.Context, id int) (*models.Recipe, error)
	// ListRecipes возвращает страницу рецептов по фильтру.
	ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error)
	// CountRecipes возвращает общее число рецептов по фильтру.
	CountRecipes(ctx context.Context, filter models.RecipeFilter) (int, error)
	// GetRecipeIDByShortLink возвращает ID рецепта по токену.
	GetRecipeIDByShortLink(ctx context.Context, token string) (int, error)
	// GetTag возвращает тег по ID.
	GetTag(ctx context.Context, id int) (*models.Tag, error)
	// GetIngredient возвращает ингредиент по ID.
	GetIngredient(ctx context.Context, id int) (*models.Ingredient, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// IsSubscribed сообщает о наличии подписки.
	IsSubscribed(ctx context.Context, subscriberUID, authorUID string) (bool, error)
	// IsFavorite сообщает о членстве рецепта в избранном пользователя.
	IsFavorite(ctx context.Context, userUID string, recipeID int) (bool, error)
	// IsInShoppingCart сообщает о членстве рецепта в корзине пользователя.
	IsInShoppingCart(ctx context.Context, userUID string, recipeID int) (bool, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	// Get пытается получить значение из кеша по ключу.
	Get(key string, result any) (bool, error)
	// Set сохраняет значение в кеш с временем жизни.
	Set(key string, value any, expiration time.Duration) error
	// Invalidate удаляет значение из кеша по ключу.
	Invalidate(key string) error
}

// RecipeService реализует бизнес-логику работы с рецептами.
type RecipeService struct {
	repo             RecipeRepository
	cache            Cache
	log              *slog.Logger
	shortLinkBaseURL string
}

// NewRecipeService создает новый экземпляр RecipeService.
func NewRecipeService(repo RecipeRepository, cache Cache, log *slog.Logger, shortLinkBaseURL string) *RecipeService {
	return &RecipeService{
		repo:             repo,
		cache:            cache,
		log:              log,
		shortLinkBaseURL: shortLinkBaseURL,
	}
}

// buildRecipe валидирует DummyRecipe и собирает доменный Recipe:
// резолвит теги и ингредиенты по справочникам, отсекает дубликаты
// и неположительные количества до какой-либо записи в хранилище.
func (s *RecipeService) buildRecipe(ctx context.Context, authorUID string, req models.DummyRecipe) (*models.Recipe, error) {
	if req.CookingTime <= 0 {
		return nil, errs.Validation("Время приготовления должно быть больше 0.")
	}
	if len(req.TagIDs) == 0 {
		return nil, errs.Validation("Нужно выбрать хотя бы один тег.")
	}
	if len(req.Ingredients) == 0 {
		return nil, errs.Validation("Нужно добавить хотя бы один ингредиент.")
	}

	seenTags := make(map[int]bool, len(req.TagIDs))
	tags := make([]models.Tag, 0, len(req.TagIDs))
	for _, tagID := range req.TagIDs {
		if seenTags[tagID] {
			return nil, errs.Validation("Теги не должны повторяться.")
		}
		seenTags[tagID] = true

		tag, err := s.repo.GetTag(ctx, tagID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.Validation("Указан несуществующий тег.")
			}
			return nil, err
		}
		tags = append(tags, *tag)
	}

	seenIngredients := make(map[int]bool, len(req.Ingredients))
	items := make([]models.RecipeIngredient, 0, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if line.Amount <= 0 {
			return nil, errs.Validation("Количество ингредиента должно быть больше 0.")
		}
		if seenIngredients[line.ID] {
			return nil, errs.Validation("Ингредиенты не должны повторяться.")
		}
		seenIngredients[line.ID] = true

		ingredient, err := s.repo.GetIngredient(ctx, line.ID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.Validation("Указан несуществующий ингредиент.")
			}
			return nil, err
		}
		items = append(items, models.RecipeIngredient{
			IngredientID:    ingredient.ID,
			Name:            ingredient.Name,
			MeasurementUnit: ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	return &models.Recipe{
		AuthorUID:   authorUID,
		Name:        req.Name,
		Text:        req.Text,
		CookingTime: req.CookingTime,
		Image:       req.Image,
		Tags:        tags,
		Ingredients: items,
	}, nil
}

// Create создает новый рецепт и возвращает его ID. Токен короткой
// ссылки подбирается заново при коллизии, но не более
// maxShortLinkAttempts раз.
func (s *RecipeService) Create(ctx context.Context, authorUID string, req models.DummyRecipe) (int, error) {
	recipe, err := s.buildRecipe(ctx, authorUID, req)
	if err != nil {
		return 0, err
	}

	var id int
	for attempt := 1; ; attempt++ {
		token, err := shortlink.NewToken()
		if err != nil {
			return 0, err
		}
		recipe.ShortLink = token

		id, err = s.repo.CreateRecipe(ctx, recipe)
		if err == nil {
			break
		}
		if errors.Is(err, errs.ErrShortLinkTaken) && attempt < maxShortLinkAttempts {
			s.log.Warn("short link collision, retrying", slog.Int("attempt", attempt))
			continue
		}
		return 0, err
	}

	s.log.Info("created new recipe", slog.Int("id", id), slog.String("author_uid", authorUID))
	return id, nil
}

// Update заменяет поля, теги и строки ингредиентов рецепта целиком.
// Изменять рецепт может только его автор. При ошибке валидации прежние
// строки остаются нетронутыми.
func (s *RecipeService) Update(ctx context.Context, recipeID int, authorUID string, req models.DummyRecipe) error {
	existing, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Рецепт не найден.")
		}
		return err
	}
	if existing.AuthorUID != authorUID {
		return errs.Permission("Изменять рецепт может только его автор.")
	}

	recipe, err := s.buildRecipe(ctx, authorUID, req)
	if err != nil {
		return err
	}
	recipe.ID = recipeID
	recipe.ShortLink = existing.ShortLink

	if err := s.repo.UpdateRecipe(ctx, recipe); err != nil {
		return err
	}
	s.invalidateCache(recipeID)
	s.log.Info("updated recipe", slog.Int("id", recipeID))
	return nil
}

// Delete удаляет рецепт вместе со строками ингредиентов и членством
// во всех избранных и корзинах. Удалять рецепт может только его автор.
func (s *RecipeService) Delete(ctx context.Context, recipeID int, authorUID string) error {
	existing, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Рецепт не найден.")
		}
		return err
	}
	if existing.AuthorUID != authorUID {
		return errs.Permission("Удалять рецепт может только его автор.")
	}

	if err := s.repo.DeleteRecipe(ctx, recipeID); err != nil {
		return err
	}
	s.invalidateCache(recipeID)
	s.log.Info("deleted recipe", slog.Int("id", recipeID))
	return nil
}

// Get возвращает полную проекцию рецепта относительно запрашивающего.
// Сам рецепт читается через кеш, флаги избранного и корзины
// вычисляются на каждый запрос.
func (s *RecipeService) Get(ctx context.Context, recipeID int, requesterUID string) (*models.RecipeView, error) {
	var recipe *models.Recipe
	cacheKey := fmt.Sprintf("recipe:%d", recipeID)
	found, err := s.cache.Get(cacheKey, &recipe)
	if err != nil {
		s.log.Warn("failed to read recipe from cache", slog.String("key", cacheKey), slog.Any("err", err))
		found = false
	}
	if !found {
		recipe, err = s.repo.GetRecipe(ctx, recipeID)
		if err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				return nil, errs.NotFound("Рецепт не найден.")
			}
			return nil, err
		}
		if err := s.cache.Set(cacheKey, recipe, time.Hour); err != nil {
			s.log.Warn("failed to cache recipe", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return s.recipeView(ctx, recipe, requesterUID)
}

// List возвращает страницу полных проекций рецептов по фильтру
// и общее число рецептов, подходящих под фильтр.
func (s *RecipeService) List(ctx context.Context, filter models.RecipeFilter, requesterUID string, limit, offset int) ([]models.RecipeView, int, error) {
	total, err := s.repo.CountRecipes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	recipes, err := s.repo.ListRecipes(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]models.RecipeView, 0, len(recipes))
	for _, recipe := range recipes {
		view, err := s.recipeView(ctx, recipe, requesterUID)
		if err != nil {
			return nil, 0, err
		}
		views = append(views, *view)
	}
	return views, total, nil
}

// GetLink возвращает короткую ссылку существующего рецепта.
func (s *RecipeService) GetLink(ctx context.Context, recipeID int) (string, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.NotFound("Рецепт не найден.")
		}
		return "", err
	}
	return s.shortLinkBaseURL + "/" + recipe.ShortLink, nil
}

// ResolveShortLink возвращает канонический ID рецепта по токену
// короткой ссылки.
func (s *RecipeService) ResolveShortLink(ctx context.Context, token string) (int, error) {
	id, err := s.repo.GetRecipeIDByShortLink(ctx, token)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return 0, errs.NotFound("Рецепт не найден.")
		}
		return 0, err
	}
	return id, nil
}

// recipeView собирает полную проекцию рецепта: автора с признаком
// подписки и флаги членства в избранном и корзине запрашивающего.
func (s *RecipeService) recipeView(ctx context.Context, recipe *models.Recipe, requesterUID string) (*models.RecipeView, error) {
	author, err := s.repo.GetUser(ctx, recipe.AuthorUID)
	if err != nil {
		return nil, err
	}

	view := &models.RecipeView{
		ID: recipe.ID,
		Author: models.UserView{
			UID:       author.UID,
			Email:     author.Email,
			Username:  author.Username,
			FirstName: author.FirstName,
			LastName:  author.LastName,
			Avatar:    author.Avatar,
		},
		Name:        recipe.Name,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
		Image:       recipe.Image,
		Tags:        recipe.Tags,
		Ingredients: recipe.Ingredients,
		CreatedAt:   recipe.CreatedAt,
	}

	if requesterUID == "" {
		return view, nil
	}

	if requesterUID != author.UID {
		subscribed, err := s.repo.IsSubscribed(ctx, requesterUID, author.UID)
		if err != nil {
			return nil, err
		}
		view.Author.IsSubscribed = subscribed
	}
	favorited, err := s.repo.IsFavorite(ctx, requesterUID, recipe.ID)
	if err != nil {
		return nil, err
	}
	view.IsFavorited = favorited
	inCart, err := s.repo.IsInShoppingCart(ctx, requesterUID, recipe.ID)
	if err != nil {
		return nil, err
	}
	view.IsInShoppingCart = inCart
	return view, nil
}

// invalidateCache удаляет карточку рецепта из кеша.
func (s *RecipeService) invalidateCache(recipeID int) {
	cacheKey := fmt.Sprintf("recipe:%d", recipeID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to invalidate recipe cache", slog.String("key", cacheKey), slog.Any("err", err))
	}
}
