// Package services содержит логику бизнес-уровня для работы
// с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/lib/jwt"
	"github.com/marusyakotova/foodgram-backend/internal/lib/password"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// RegisterUser сохраняет нового пользователя и возвращает его UID.
	RegisterUser(ctx context.Context, user models.User) (string, error)

	// GetUserByUsername возвращает пользователя по имени или ошибку, если не найден.
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
	}
}

// Register создает нового пользователя с хэшированием пароля.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (string, error) {
	hashed, err := password.GetHash(req.Password)
	if err != nil {
		return "", err
	}
	user := models.User{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: hashed,
	}
	uid, err := s.users.RegisterUser(ctx, user)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			return "", errs.AlreadyExists("Пользователь с таким именем или почтой уже зарегистрирован.")
		}
		return "", err
	}
	return uid, nil
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		return "", errors.New("invalid credentials")
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", errors.New("invalid credentials")
	}
	return s.jwtMaker.GenerateToken(user.Username, user.UID)
}

// ValidateToken проверяет JWT и возвращает username и uid пользователя.
func (s *AuthService) ValidateToken(_ context.Context, token string) (username, userUID string, valid bool, err error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return "", "", false, err
	}
	return claims.Username, claims.UserUID, true, nil
}
