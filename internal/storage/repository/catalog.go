package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// likeEscaper экранирует метасимволы LIKE в пользовательском вводе,
// чтобы фильтр по имени оставался поиском по префиксу.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ListTags возвращает все теги справочника.
func (s *Storage) ListTags(ctx context.Context) ([]models.Tag, error) {
	const op = "storage.ListTags"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, slug FROM tags ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetTag возвращает тег по его ID.
func (s *Storage) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	const op = "storage.GetTag"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, slug FROM tags WHERE id = $1`
	var t models.Tag
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&t.ID, &t.Name, &t.Slug); err != nil {
		return nil, wrapNoRows(op, err)
	}
	return &t, nil
}

// ListIngredients возвращает ингредиенты справочника, опционально
// отфильтрованные по префиксу имени без учёта регистра.
func (s *Storage) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	const op = "storage.ListIngredients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, measurement_unit
			  FROM ingredients
			  WHERE ($1 = '' OR name ILIKE $1 || '%')
			  ORDER BY name`
	rows, err := s.DB.QueryContext(ctx, query, likeEscaper.Replace(namePrefix))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.Ingredient
	for rows.Next() {
		var i models.Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetIngredient возвращает ингредиент по его ID.
func (s *Storage) GetIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	const op = "storage.GetIngredient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, measurement_unit FROM ingredients WHERE id = $1`
	var i models.Ingredient
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&i.ID, &i.Name, &i.MeasurementUnit); err != nil {
		return nil, wrapNoRows(op, err)
	}
	return &i, nil
}
