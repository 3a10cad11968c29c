// Package services содержит бизнес-логику двух множеств
// "пользователь — рецепт": избранного и корзины покупок, а также
// агрегатор списка покупок, который строится по содержимому корзины.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// MembershipRepository определяет методы хранилища для избранного,
// корзины и агрегатора списка покупок.
type MembershipRepository interface {
	// GetRecipe возвращает рецепт по ID.
	GetRecipe(ctx context.Context, id int) (*models.Recipe, error)
	// AddFavorite добавляет рецепт в избранное пользователя.
	AddFavorite(ctx context.Context, userUID string, recipeID int) (int, error)
	// RemoveFavorite удаляет рецепт из избранного пользователя.
	RemoveFavorite(ctx context.Context, userUID string, recipeID int) error
	// IsFavorite сообщает о членстве рецепта в избранном.
	IsFavorite(ctx context.Context, userUID string, recipeID int) (bool, error)
	// AddShoppingCart добавляет рецепт в корзину пользователя.
	AddShoppingCart(ctx context.Context, userUID string, recipeID int) (int, error)
	// RemoveShoppingCart удаляет рецепт из корзины пользователя.
	RemoveShoppingCart(ctx context.Context, userUID string, recipeID int) error
	// IsInShoppingCart сообщает о членстве рецепта в корзине.
	IsInShoppingCart(ctx context.Context, userUID string, recipeID int) (bool, error)
	// ListShoppingItems агрегирует ингредиенты рецептов из корзины.
	ListShoppingItems(ctx context.Context, userUID string) ([]models.ShoppingListItem, error)
}

// MembershipService реализует операции избранного и корзины покупок.
type MembershipService struct {
	repo MembershipRepository
	log  *slog.Logger
}

// NewMembershipService создает новый экземпляр MembershipService.
func NewMembershipService(repo MembershipRepository, log *slog.Logger) *MembershipService {
	return &MembershipService{
		repo: repo,
		log:  log,
	}
}

// getRecipe возвращает рецепт или доменную ошибку "не найдено".
func (s *MembershipService) getRecipe(ctx context.Context, recipeID int) (*models.Recipe, error) {
	recipe, err := s.repo.GetRecipe(ctx, recipeID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Рецепт не найден.")
		}
		return nil, err
	}
	return recipe, nil
}

// summary собирает краткую проекцию рецепта для ответа.
func summary(recipe *models.Recipe) *models.RecipeSummary {
	return &models.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.Image,
		CookingTime: recipe.CookingTime,
	}
}

// AddFavorite добавляет рецепт в избранное пользователя и возвращает
// краткую проекцию рецепта. Повторное добавление отклоняется,
// существующая запись не меняется.
func (s *MembershipService) AddFavorite(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.AddFavorite(ctx, userUID, recipeID); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.AlreadyExists("%s уже в избранном.", recipe.Name)
		}
		return nil, err
	}
	s.log.Info("recipe added to favorites",
		slog.String("user_uid", userUID), slog.Int("recipe_id", recipeID))
	return summary(recipe), nil
}

// RemoveFavorite удаляет рецепт из избранного пользователя.
// Отсутствие рецепта в избранном — ошибка уровня запроса, состояние
// не меняется.
func (s *MembershipService) RemoveFavorite(ctx context.Context, userUID string, recipeID int) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveFavorite(ctx, userUID, recipeID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.AlreadyExists("%s удален из избранного.", recipe.Name)
		}
		return err
	}
	s.log.Info("recipe removed from favorites",
		slog.String("user_uid", userUID), slog.Int("recipe_id", recipeID))
	return nil
}

// IsFavorite сообщает, находится ли рецепт в избранном пользователя.
func (s *MembershipService) IsFavorite(ctx context.Context, userUID string, recipeID int) (bool, error) {
	return s.repo.IsFavorite(ctx, userUID, recipeID)
}

// AddToShoppingCart добавляет рецепт в корзину пользователя
// и возвращает краткую проекцию рецепта.
func (s *MembershipService) AddToShoppingCart(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error) {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.AddShoppingCart(ctx, userUID, recipeID); err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return nil, errs.AlreadyExists("%s уже добавлен.", recipe.Name)
		}
		return nil, err
	}
	s.log.Info("recipe added to shopping cart",
		slog.String("user_uid", userUID), slog.Int("recipe_id", recipeID))
	return summary(recipe), nil
}

// RemoveFromShoppingCart удаляет рецепт из корзины пользователя.
func (s *MembershipService) RemoveFromShoppingCart(ctx context.Context, userUID string, recipeID int) error {
	recipe, err := s.getRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	if err := s.repo.RemoveShoppingCart(ctx, userUID, recipeID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.AlreadyExists("%s удален из списка покупок.", recipe.Name)
		}
		return err
	}
	s.log.Info("recipe removed from shopping cart",
		slog.String("user_uid", userUID), slog.Int("recipe_id", recipeID))
	return nil
}

// IsInShoppingCart сообщает, находится ли рецепт в корзине пользователя.
func (s *MembershipService) IsInShoppingCart(ctx context.Context, userUID string, recipeID int) (bool, error) {
	return s.repo.IsInShoppingCart(ctx, userUID, recipeID)
}

// SetOps — общий контракт одного множества "пользователь — рецепт".
// Обработчики добавления и удаления не знают, с каким из двух
// отношений работают: конкретное множество выбирает маршрутизатор.
type SetOps interface {
	Add(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error)
	Remove(ctx context.Context, userUID string, recipeID int) error
}

type favoriteOps struct{ s *MembershipService }

func (o favoriteOps) Add(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error) {
	return o.s.AddFavorite(ctx, userUID, recipeID)
}

func (o favoriteOps) Remove(ctx context.Context, userUID string, recipeID int) error {
	return o.s.RemoveFavorite(ctx, userUID, recipeID)
}

type cartOps struct{ s *MembershipService }

func (o cartOps) Add(ctx context.Context, userUID string, recipeID int) (*models.RecipeSummary, error) {
	return o.s.AddToShoppingCart(ctx, userUID, recipeID)
}

func (o cartOps) Remove(ctx context.Context, userUID string, recipeID int) error {
	return o.s.RemoveFromShoppingCart(ctx, userUID, recipeID)
}

// Favorites возвращает операции множества избранного.
func (s *MembershipService) Favorites() SetOps {
	return favoriteOps{s: s}
}

// ShoppingCart возвращает операции множества корзины покупок.
func (s *MembershipService) ShoppingCart() SetOps {
	return cartOps{s: s}
}

// BuildShoppingList строит текстовый список покупок по корзине
// пользователя: по одной строке "название - количество (единица)" на
// ингредиент, суммарно по всем рецептам корзины. Пустая корзина даёт
// пустой текст. Операция только читает и при неизменной корзине
// повторный вызов возвращает байт-в-байт тот же результат.
func (s *MembershipService) BuildShoppingList(ctx context.Context, userUID string) (string, error) {
	items, err := s.repo.ListShoppingItems(ctx, userUID)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(items))
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s - %d (%s)", item.Name, item.Total, item.MeasurementUnit))
	}
	return strings.Join(lines, "\n"), nil
}
