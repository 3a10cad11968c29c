// Package services содержит бизнес-логику справочников тегов
// и ингредиентов. Данные неизменяемые, операции только читающие.
package services

import (
	"context"
	"errors"

	"github.com/marusyakotova/foodgram-backend/internal/errs"
	"github.com/marusyakotova/foodgram-backend/internal/models"
)

// CatalogRepository определяет методы хранилища справочных данных.
type CatalogRepository interface {
	// ListTags возвращает все теги.
	ListTags(ctx context.Context) ([]models.Tag, error)
	// GetTag возвращает тег по ID.
	GetTag(ctx context.Context, id int) (*models.Tag, error)
	// ListIngredients возвращает ингредиенты с фильтром по префиксу имени.
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	// GetIngredient возвращает ингредиент по ID.
	GetIngredient(ctx context.Context, id int) (*models.Ingredient, error)
}

// CatalogService отдаёт справочные данные тегов и ингредиентов.
type CatalogService struct {
	repo CatalogRepository
}

// NewCatalogService создает новый экземпляр CatalogService.
func NewCatalogService(repo CatalogRepository) *CatalogService {
	return &CatalogService{repo: repo}
}

// ListTags возвращает все теги справочника.
func (s *CatalogService) ListTags(ctx context.Context) ([]models.Tag, error) {
	return s.repo.ListTags(ctx)
}

// GetTag возвращает тег по ID.
func (s *CatalogService) GetTag(ctx context.Context, id int) (*models.Tag, error) {
	tag, err := s.repo.GetTag(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Тег не найден.")
		}
		return nil, err
	}
	return tag, nil
}

// ListIngredients возвращает ингредиенты, отфильтрованные по префиксу имени.
func (s *CatalogService) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	return s.repo.ListIngredients(ctx, namePrefix)
}

// GetIngredient возвращает ингредиент по ID.
func (s *CatalogService) GetIngredient(ctx context.Context, id int) (*models.Ingredient, error) {
	ingredient, err := s.repo.GetIngredient(ctx, id)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("Ингредиент не найден.")
		}
		return nil, err
	}
	return ingredient, nil
}
