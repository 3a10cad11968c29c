// Package services содержит бизнес-логику профилей пользователей
// и графа подписок "подписчик — автор".
package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// UserRepository определяет методы хранилища, нужные сервису пользователей.
type UserRepository interface {
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
	// UpdateAvatar устанавливает новую ссылку на аватар.
	UpdateAvatar(ctx context.Context, userUID, avatar string) error
	// DeleteAvatar сбрасывает аватар.
	DeleteAvatar(ctx context.Context, userUID string) error
	// CreateSubscription создаёт связь "подписчик — автор".
	CreateSubscription(ctx context.Context, subscriberUID, authorUID string) (int, error)
	// DeleteSubscription удаляет связь "подписчик — автор".
	DeleteSubscription(ctx context.Context, subscriberUID, authorUID string) error
	// IsSubscribed сообщает о наличии подписки.
	IsSubscribed(ctx context.Context, subscriberUID, authorUID string) (bool, error)
	// ListSubscribedAuthors возвращает авторов пользователя с пагинацией.
	ListSubscribedAuthors(ctx context.Context, subscriberUID string, limit, offset int) ([]*models.User, error)
	// CountSubscribedAuthors возвращает общее число подписок пользователя.
	CountSubscribedAuthors(ctx context.Context, subscriberUID string) (int, error)
	// CountRecipesByAuthor возвращает число рецептов автора.
	CountRecipesByAuthor(ctx context.Context, authorUID string) (int, error)
	// ListAuthorRecipeSummaries возвращает первые рецепты автора в кратком виде.
	ListAuthorRecipeSummaries(ctx context.Context, authorUID string, limit int) ([]models.RecipeSummary, error)
}

// UserService реализует операции над профилями и подписками.
type UserService struct {
	repo UserRepository
	log  *slog.Logger
}

// NewUserService создает новый экземпляр UserService.
func NewUserService(repo UserRepository, log *slog.Logger) *UserService {
	return &UserService{
		repo: repo,
		log:  log,
	}
}

// userView собирает проекцию пользователя относительно запрашивающего.
// Пустой requesterUID означает анонимный запрос: is_subscribed = false.
func (s *UserService) userView(ctx context.Context, user *models.User, requesterUID string) (models.UserView, error) {
	view := models.UserView{
		UID:       user.UID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Avatar:    user.Avatar,
	}
	if requesterUID == "" || requesterUID == user.UID {
		return view, nil
	}
	subscribed, err := s.repo.IsSubscribed(ctx, requesterUID, user.UID)
	if err != nil {
		return models.UserView{}, err
	}
	view.IsSubscribed = subscribed
	return view, nil
}

// GetProfile возвращает проекцию пользователя по UID.
func (s *UserService) GetProfile(ctx context.Context, userUID, requesterUID string) (*models.UserView, error) {
	user, err := s.repo.GetUser(ctx, userUID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Пользователь не найден.")
		}
		return nil, err
	}
	view, err := s.userView(ctx, user, requesterUID)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

// SetAvatar обновляет аватар пользователя.
func (s *UserService) SetAvatar(ctx context.Context, userUID, avatar string) error {
	if err := s.repo.UpdateAvatar(ctx, userUID, avatar); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Пользователь не найден.")
		}
		return err
	}
	s.log.Info("avatar updated", slog.String("user_uid", userUID))
	return nil
}

// DeleteAvatar удаляет аватар пользователя.
func (s *UserService) DeleteAvatar(ctx context.Context, userUID string) error {
	if err := s.repo.DeleteAvatar(ctx, userUID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Пользователь не найден.")
		}
		return err
	}
	s.log.Info("avatar removed", slog.String("user_uid", userUID))
	return nil
}

// Subscribe подписывает subscriberUID на автора authorUID и возвращает
// проекцию автора со счётчиком рецептов и превью первых recipesLimit
// рецептов. Самоподписка и повторная подписка отклоняются, существующая
// связь при этом не меняется.
func (s *UserService) Subscribe(ctx context.Context, subscriberUID, authorUID string, recipesLimit int) (*models.AuthorView, error) {
	if subscriberUID == authorUID {
		return nil, errs.SelfReference("Вы не можете подписаться на себя.")
	}

	author, err := s.repo.GetUser(ctx, authorUID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Пользователь не найден.")
		}
		return nil, err
	}

	if _, err := s.repo.CreateSubscription(ctx, subscriberUID, authorUID); err != nil {
		switch {
		case errors.Is(err, errs.ErrAlreadyExists):
			return nil, errs.AlreadyExists("Вы уже подписаны на этого автора.")
		case errors.Is(err, errs.ErrSelfReference):
			return nil, errs.SelfReference("Вы не можете подписаться на себя.")
		default:
			return nil, err
		}
	}
	s.log.Info("subscription created",
		slog.String("subscriber_uid", subscriberUID), slog.String("author_uid", authorUID))

	return s.authorView(ctx, author, recipesLimit)
}

// Unsubscribe удаляет подписку subscriberUID на автора authorUID.
func (s *UserService) Unsubscribe(ctx context.Context, subscriberUID, authorUID string) error {
	if _, err := s.repo.GetUser(ctx, authorUID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Пользователь не найден.")
		}
		return err
	}
	if err := s.repo.DeleteSubscription(ctx, subscriberUID, authorUID); err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return errs.NotFound("Вы не подписаны на этого автора.")
		}
		return err
	}
	s.log.Info("subscription removed",
		slog.String("subscriber_uid", subscriberUID), slog.String("author_uid", authorUID))
	return nil
}

// ListSubscriptions возвращает страницу авторов, на которых подписан
// пользователь, в порядке оформления подписки, и общее число подписок.
func (s *UserService) ListSubscriptions(ctx context.Context, subscriberUID string, limit, offset, recipesLimit int) ([]models.AuthorView, int, error) {
	authors, err := s.repo.ListSubscribedAuthors(ctx, subscriberUID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.repo.CountSubscribedAuthors(ctx, subscriberUID)
	if err != nil {
		return nil, 0, err
	}

	result := make([]models.AuthorView, 0, len(authors))
	for _, author := range authors {
		view, err := s.authorView(ctx, author, recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, *view)
	}
	return result, total, nil
}

// authorView собирает проекцию автора: пользователь, счётчик рецептов
// и превью первых recipesLimit рецептов. В контексте подписок
// is_subscribed всегда true.
func (s *UserService) authorView(ctx context.Context, author *models.User, recipesLimit int) (*models.AuthorView, error) {
	count, err := s.repo.CountRecipesByAuthor(ctx, author.UID)
	if err != nil {
		return nil, err
	}
	recipes, err := s.repo.ListAuthorRecipeSummaries(ctx, author.UID, recipesLimit)
	if err != nil {
		return nil, err
	}
	return &models.AuthorView{
		UserView: models.UserView{
			UID:          author.UID,
			Email:        author.Email,
			Username:     author.Username,
			FirstName:    author.FirstName,
			LastName:     author.LastName,
			IsSubscribed: true,
			Avatar:       author.Avatar,
		},
		RecipesCount: count,
		Recipes:      recipes,
	}, nil
}
