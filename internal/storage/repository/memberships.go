package repository

import (
	"context"
	"fmt"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// Имена таблиц двух множеств "пользователь — рецепт". Контракт у них
// общий, различается только отношение.
const (
	favoritesTable     = "favorites"
	shoppingCartsTable = "shopping_carts"
)

// addMembership вставляет пару (пользователь, рецепт) в таблицу отношения.
// Повторная вставка пары — errs.ErrAlreadyExists, несуществующий
// рецепт — errs.ErrNotFound. Проверка и вставка атомарны: их делает
// уникальное ограничение схемы.
func (s *Storage) addMembership(ctx context.Context, table, userUID string, recipeID int) (int, error) {
	op := "storage.addMembership." + table
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (user_uid, recipe_id) VALUES ($1, $2) RETURNING id`, table)
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, userUID, recipeID).Scan(&newID); err != nil {
		if isUniqueViolation(err, "") {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// removeMembership удаляет пару (пользователь, рецепт) из таблицы
// отношения. Отсутствующая пара — errs.ErrNotFound, состояние при
// этом не меняется.
func (s *Storage) removeMembership(ctx context.Context, table, userUID string, recipeID int) error {
	op := "storage.removeMembership." + table
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(`DELETE FROM %s WHERE user_uid = $1 AND recipe_id = $2`, table)
	result, err := s.DB.ExecContext(ctx, query, userUID, recipeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}
	return nil
}

// containsMembership сообщает, состоит ли пара (пользователь, рецепт)
// в таблице отношения. Запрос только читает, побочных эффектов нет.
func (s *Storage) containsMembership(ctx context.Context, table, userUID string, recipeID int) (bool, error) {
	op := "storage.containsMembership." + table
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := fmt.Sprintf(
		`SELECT EXISTS (SELECT 1 FROM %s WHERE user_uid = $1 AND recipe_id = $2)`, table)
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, userUID, recipeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// AddFavorite добавляет рецепт в избранное пользователя.
func (s *Storage) AddFavorite(ctx context.Context, userUID string, recipeID int) (int, error) {
	return s.addMembership(ctx, favoritesTable, userUID, recipeID)
}

// RemoveFavorite удаляет рецепт из избранного пользователя.
func (s *Storage) RemoveFavorite(ctx context.Context, userUID string, recipeID int) error {
	return s.removeMembership(ctx, favoritesTable, userUID, recipeID)
}

// IsFavorite сообщает, находится ли рецепт в избранном пользователя.
func (s *Storage) IsFavorite(ctx context.Context, userUID string, recipeID int) (bool, error) {
	return s.containsMembership(ctx, favoritesTable, userUID, recipeID)
}

// AddShoppingCart добавляет рецепт в корзину пользователя.
func (s *Storage) AddShoppingCart(ctx context.Context, userUID string, recipeID int) (int, error) {
	return s.addMembership(ctx, shoppingCartsTable, userUID, recipeID)
}

// RemoveShoppingCart удаляет рецепт из корзины пользователя.
func (s *Storage) RemoveShoppingCart(ctx context.Context, userUID string, recipeID int) error {
	return s.removeMembership(ctx, shoppingCartsTable, userUID, recipeID)
}

// IsInShoppingCart сообщает, находится ли рецепт в корзине пользователя.
func (s *Storage) IsInShoppingCart(ctx context.Context, userUID string, recipeID int) (bool, error) {
	return s.containsMembership(ctx, shoppingCartsTable, userUID, recipeID)
}

// ListShoppingItems агрегирует строки ингредиентов всех рецептов из
// корзины пользователя: группирует по ингредиенту и суммирует
// количество. Сортировка по имени делает выдачу детерминированной.
func (s *Storage) ListShoppingItems(ctx context.Context, userUID string) ([]models.ShoppingListItem, error) {
	const op = "storage.ListShoppingItems"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT i.name, SUM(ri.amount) AS total, i.measurement_unit
			  FROM recipe_ingredients ri
			  JOIN shopping_carts sc ON sc.recipe_id = ri.recipe_id
			  JOIN ingredients i ON i.id = ri.ingredient_id
			  WHERE sc.user_uid = $1
			  GROUP BY i.name, i.measurement_unit
			  ORDER BY i.name`
	rows, err := s.DB.QueryContext(ctx, query, userUID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ShoppingListItem
	for rows.Next() {
		var item models.ShoppingListItem
		if err := rows.Scan(&item.Name, &item.Total, &item.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
