package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// CreateRecipe атомарно вставляет рецепт вместе со строками
// ингредиентов и связями с тегами и возвращает его ID. Частично
// записанный рецепт наблюдать невозможно: всё происходит в одной
// транзакции. Занятый токен короткой ссылки — errs.ErrShortLinkTaken,
// неизвестный тег или ингредиент — errs.ErrNotFound.
func (s *Storage) CreateRecipe(ctx context.Context, r *models.Recipe) (int, error) {
	const op = "storage.CreateRecipe"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `INSERT INTO recipes (author_uid, name, text, cooking_time, image, short_link)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	if err := tx.QueryRowContext(ctx, query,
		r.AuthorUID, r.Name, r.Text, r.CookingTime, r.Image, r.ShortLink).Scan(&newID); err != nil {
		if isUniqueViolation(err, "recipes_short_link_key") {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrShortLinkTaken)
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrValidation)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := insertRecipeRelations(ctx, tx, newID, r); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// UpdateRecipe атомарно обновляет поля рецепта и полностью заменяет
// его строки ингредиентов и набор тегов. Слияния нет: старые строки
// удаляются, новые вставляются в той же транзакции.
func (s *Storage) UpdateRecipe(ctx context.Context, r *models.Recipe) error {
	const op = "storage.UpdateRecipe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `UPDATE recipes
			  SET name = $1, text = $2, cooking_time = $3, image = $4
			  WHERE id = $5`
	result, err := tx.ExecContext(ctx, query, r.Name, r.Text, r.CookingTime, r.Image, r.ID)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("%s: %w", op, errs.ErrValidation)
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%s: %w", op, errs.ErrNotFound)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, r.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM recipe_tags WHERE recipe_id = $1`, r.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := insertRecipeRelations(ctx, tx, r.ID, r); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// insertRecipeRelations вставляет связи рецепта с тегами и строки
// ингредиентов в рамках открытой транзакции.
func insertRecipeRelations(ctx context.Context, tx *sql.Tx, recipeID int, r *models.Recipe) error {
	for _, tag := range r.Tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_tags (recipe_id, tag_id) VALUES ($1, $2)`,
			recipeID, tag.ID); err != nil {
			if isForeignKeyViolation(err) {
				return errs.ErrNotFound
			}
			return err
		}
	}
	for _, item := range r.Ingredients {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount) VALUES ($1, $2, $3)`,
			recipeID, item.IngredientID, item.Amount); err != nil {
			if isForeignKeyViolation(err) {
				return errs.ErrNotFound
			}
			if isUniqueViolation(err, "recipe_ingredients_pair_unique") || isCheckViolation(err) {
				return errs.ErrValidation
			}
			return err
		}
	}
	return nil
}

// DeleteRecipe удаляет рецепт и каскадом — его строки ингредиентов,
// связи с тегами и членство во всех избранных и корзинах. Каскад
// выполняется явными DELETE в одной транзакции.
func (s *Storage) DeleteRecipe(ctx context.Context, id int) error {
	const op = "storage.DeleteRecipe"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, query := range []string{
		`DELETE FROM favorites WHERE recipe_id = $1`,
		`DELETE FROM shopping_carts WHERE recipe_id = $1`,
		`DELETE FROM recipe_ingredients WHERE recipe_id = $1`,
		`DELETE FROM recipe_tags WHERE recipe_id = $1`,
	} {
		if _, err := tx.ExecContext(ctx, query, id); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM recipes WHERE id = $1`, id)
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

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetRecipe возвращает рецепт с тегами и строками ингредиентов.
func (s *Storage) GetRecipe(ctx context.Context, id int) (*models.Recipe, error) {
	const op = "storage.GetRecipe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, author_uid, name, text, cooking_time, image, short_link, created_at
			  FROM recipes WHERE id = $1`
	var r models.Recipe
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.AuthorUID, &r.Name,
		&r.Text, &r.CookingTime, &r.Image, &r.ShortLink, &r.CreatedAt); err != nil {
		return nil, wrapNoRows(op, err)
	}
	if err := s.loadRecipeRelations(ctx, &r); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &r, nil
}

// loadRecipeRelations догружает теги и строки ингредиентов рецепта.
func (s *Storage) loadRecipeRelations(ctx context.Context, r *models.Recipe) error {
	tagRows, err := s.DB.QueryContext(ctx,
		`SELECT t.id, t.name, t.slug
		 FROM recipe_tags rt
		 JOIN tags t ON t.id = rt.tag_id
		 WHERE rt.recipe_id = $1
		 ORDER BY t.id`, r.ID)
	if err != nil {
		return err
	}
	defer func() {
		_ = tagRows.Close()
	}()
	for tagRows.Next() {
		var t models.Tag
		if err := tagRows.Scan(&t.ID, &t.Name, &t.Slug); err != nil {
			return err
		}
		r.Tags = append(r.Tags, t)
	}
	if err := tagRows.Err(); err != nil {
		return err
	}

	itemRows, err := s.DB.QueryContext(ctx,
		`SELECT ri.ingredient_id, i.name, i.measurement_unit, ri.amount
		 FROM recipe_ingredients ri
		 JOIN ingredients i ON i.id = ri.ingredient_id
		 WHERE ri.recipe_id = $1
		 ORDER BY ri.id`, r.ID)
	if err != nil {
		return err
	}
	defer func() {
		_ = itemRows.Close()
	}()
	for itemRows.Next() {
		var item models.RecipeIngredient
		if err := itemRows.Scan(&item.IngredientID, &item.Name, &item.MeasurementUnit, &item.Amount); err != nil {
			return err
		}
		r.Ingredients = append(r.Ingredients, item)
	}
	return itemRows.Err()
}

// buildRecipeFilter собирает WHERE-условия и аргументы запроса
// по заданному фильтру списка рецептов.
func buildRecipeFilter(filter models.RecipeFilter) (string, []any) {
	var conditions []string
	var args []any

	next := func(arg any) string {
		args = append(args, arg)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.AuthorUID != nil {
		conditions = append(conditions, fmt.Sprintf("r.author_uid = %s", next(*filter.AuthorUID)))
	}
	if filter.FavoritedBy != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM favorites f WHERE f.recipe_id = r.id AND f.user_uid = %s)",
			next(*filter.FavoritedBy)))
	}
	if filter.InShoppingCart != nil {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM shopping_carts sc WHERE sc.recipe_id = r.id AND sc.user_uid = %s)",
			next(*filter.InShoppingCart)))
	}
	if len(filter.TagSlugs) > 0 {
		placeholders := make([]string, 0, len(filter.TagSlugs))
		for _, slug := range filter.TagSlugs {
			placeholders = append(placeholders, next(slug))
		}
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id "+
				"WHERE rt.recipe_id = r.id AND t.slug IN (%s))",
			strings.Join(placeholders, ", ")))
	}

	if len(conditions) == 0 {
		return "", args
	}
	return "WHERE " + strings.Join(conditions, " AND "), args
}

// ListRecipes возвращает страницу рецептов по фильтру, новые первыми.
// Порядок фиксирован (created_at, затем id), чтобы страницы были
// воспроизводимыми.
func (s *Storage) ListRecipes(ctx context.Context, filter models.RecipeFilter, limit, offset int) ([]*models.Recipe, error) {
	const op = "storage.ListRecipes"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildRecipeFilter(filter)
	query := fmt.Sprintf(
		`SELECT r.id, r.author_uid, r.name, r.text, r.cooking_time, r.image, r.short_link, r.created_at
		 FROM recipes r
		 %s
		 ORDER BY r.created_at DESC, r.id DESC
		 LIMIT $%d OFFSET $%d`, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Recipe
	for rows.Next() {
		var r models.Recipe
		if err := rows.Scan(&r.ID, &r.AuthorUID, &r.Name, &r.Text, &r.CookingTime,
			&r.Image, &r.ShortLink, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, r := range result {
		if err := s.loadRecipeRelations(ctx, r); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return result, nil
}

// CountRecipes возвращает общее число рецептов по фильтру.
func (s *Storage) CountRecipes(ctx context.Context, filter models.RecipeFilter) (int, error) {
	const op = "storage.CountRecipes"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	where, args := buildRecipeFilter(filter)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM recipes r %s`, where)

	var count int
	if err := s.DB.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CountRecipesByAuthor возвращает число рецептов автора.
func (s *Storage) CountRecipesByAuthor(ctx context.Context, authorUID string) (int, error) {
	const op = "storage.CountRecipesByAuthor"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var count int
	query := `SELECT COUNT(*) FROM recipes WHERE author_uid = $1`
	if err := s.DB.QueryRowContext(ctx, query, authorUID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// ListAuthorRecipeSummaries возвращает первые limit рецептов автора
// в кратком виде, новые первыми.
func (s *Storage) ListAuthorRecipeSummaries(ctx context.Context, authorUID string, limit int) ([]models.RecipeSummary, error) {
	const op = "storage.ListAuthorRecipeSummaries"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, name, image, cooking_time
			  FROM recipes
			  WHERE author_uid = $1
			  ORDER BY created_at DESC, id DESC
			  LIMIT $2`
	rows, err := s.DB.QueryContext(ctx, query, authorUID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.RecipeSummary
	for rows.Next() {
		var summary models.RecipeSummary
		if err := rows.Scan(&summary.ID, &summary.Name, &summary.Image, &summary.CookingTime); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetRecipeIDByShortLink возвращает ID рецепта по токену короткой ссылки.
func (s *Storage) GetRecipeIDByShortLink(ctx context.Context, token string) (int, error) {
	const op = "storage.GetRecipeIDByShortLink"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var id int
	query := `SELECT id FROM recipes WHERE short_link = $1`
	if err := s.DB.QueryRowContext(ctx, query, token).Scan(&id); err != nil {
		return 0, wrapNoRows(op, err)
	}
	return id, nil
}
