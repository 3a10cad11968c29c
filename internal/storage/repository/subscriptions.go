package repository

import (
	"context"
	"fmt"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// CreateSubscription вставляет связь "подписчик — автор" и возвращает её ID.
// Повторная вставка той же пары не создаёт дубликата: уникальное
// ограничение схемы транслируется в errs.ErrAlreadyExists.
func (s *Storage) CreateSubscription(ctx context.Context, subscriberUID, authorUID string) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (subscriber_uid, author_uid)
			  VALUES ($1, $2)
			  RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, subscriberUID, authorUID).Scan(&newID); err != nil {
		if isUniqueViolation(err, "subscriptions_pair_unique") {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrAlreadyExists)
		}
		if isForeignKeyViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrNotFound)
		}
		if isCheckViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, errs.ErrSelfReference)
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// DeleteSubscription удаляет связь "подписчик — автор".
// Отсутствующая связь — errs.ErrNotFound.
func (s *Storage) DeleteSubscription(ctx context.Context, subscriberUID, authorUID string) error {
	const op = "storage.DeleteSubscription"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE subscriber_uid = $1 AND author_uid = $2`
	result, err := s.DB.ExecContext(ctx, query, subscriberUID, authorUID)
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

// IsSubscribed сообщает, подписан ли subscriberUID на authorUID.
func (s *Storage) IsSubscribed(ctx context.Context, subscriberUID, authorUID string) (bool, error) {
	const op = "storage.IsSubscribed"
	select {
	case <-ctx.Done():
		return false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT EXISTS (
				  SELECT 1 FROM subscriptions
				  WHERE subscriber_uid = $1 AND author_uid = $2)`
	var exists bool
	if err := s.DB.QueryRowContext(ctx, query, subscriberUID, authorUID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CountSubscribedAuthors возвращает общее число авторов, на которых
// подписан пользователь, без учёта пагинации.
func (s *Storage) CountSubscribedAuthors(ctx context.Context, subscriberUID string) (int, error) {
	const op = "storage.CountSubscribedAuthors"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM subscriptions WHERE subscriber_uid = $1`
	var total int
	if err := s.DB.QueryRowContext(ctx, query, subscriberUID).Scan(&total); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return total, nil
}

// ListSubscribedAuthors возвращает авторов, на которых подписан
// пользователь, в порядке оформления подписки, с пагинацией.
func (s *Storage) ListSubscribedAuthors(ctx context.Context, subscriberUID string, limit, offset int) ([]*models.User, error) {
	const op = "storage.ListSubscribedAuthors"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT u.uid, u.email, u.username, u.first_name, u.last_name, u.password_hash, u.avatar, u.created_at
			  FROM subscriptions s
			  JOIN users u ON u.uid = s.author_uid
			  WHERE s.subscriber_uid = $1
			  ORDER BY s.id
			  LIMIT $2 OFFSET $3`
	rows, err := s.DB.QueryContext(ctx, query, subscriberUID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.User
	for rows.Next() {
		var u models.User
		if err := rows.Scan(&u.UID, &u.Email, &u.Username, &u.FirstName, &u.LastName,
			&u.PasswordHash, &u.Avatar, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
