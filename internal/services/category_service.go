package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/dto"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("a category with this name already exists")
	ErrCategoryInUse         = errors.New("category is used by transactions or budgets")
)

// CategoryService manages the categories of each user. Names are unique per
// user regardless of case; a category cannot be deleted while referenced.
type CategoryService struct {
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	analytics       AnalyticsServiceInterface
	audit           AuditLoggerInterface
	logger          *slog.Logger
}

func NewCategoryService(
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	analytics AnalyticsServiceInterface,
	audit AuditLoggerInterface,
	logger *slog.Logger,
) CategoryServiceInterface {
	return &CategoryService{
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		analytics:       analytics,
		audit:           audit,
		logger:          logger,
	}
}

// List returns the user's categories, creating the defaults for a user who has none.
func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]models.Category, error) {
	categories, err := s.categoryRepo.List(userID)
	if err != nil {
		return nil, err
	}
	if len(categories) > 0 {
		return categories, nil
	}

	if err := s.categoryRepo.EnsureDefaults(userID); err != nil {
		s.logger.WarnContext(ctx, "failed to create default categories", "error", err, "user_id", userID)
		return categories, nil
	}
	return s.categoryRepo.List(userID)
}

func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	category := &models.Category{
		UserID: userID,
		Name:   req.Name,
		Color:  req.Color,
		Icon:   req.Icon,
	}

	if err := s.ensureUniqueName(userID, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	if err := s.categoryRepo.Create(category); err != nil {
		if errors.Is(err, repositories.ErrCategoryAlreadyExists) {
			return nil, ErrCategoryAlreadyExists
		}
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.changed(ctx, userID, category.ID, "create")
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.CategoryRequest) (*models.Category, error) {
	category, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUniqueName(userID, req.Name, id); err != nil {
		return nil, err
	}

	category.Name = req.Name
	if req.Color != "" {
		category.Color = req.Color
	}
	if req.Icon != "" {
		category.Icon = req.Icon
	}

	if err := s.categoryRepo.Update(category); err != nil {
		switch {
		case errors.Is(err, repositories.ErrCategoryAlreadyExists):
			return nil, ErrCategoryAlreadyExists
		case errors.Is(err, repositories.ErrCategoryNotFound):
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to update category: %w", err)
	}

	s.changed(ctx, userID, id, "update")
	return category, nil
}

// Delete removes an unreferenced category
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.get(userID, id); err != nil {
		return err
	}

	txCount, err := s.transactionRepo.CountByCategory(userID, id)
	if err != nil {
		return err
	}
	budgetCount, err := s.budgetRepo.CountByCategory(userID, id)
	if err != nil {
		return err
	}
	if txCount > 0 || budgetCount > 0 {
		return fmt.Errorf("%w: %d transactions, %d budgets", ErrCategoryInUse, txCount, budgetCount)
	}

	if err := s.categoryRepo.Delete(userID, id); err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("failed to delete category: %w", err)
	}

	s.changed(ctx, userID, id, "delete")
	return nil
}

func (s *CategoryService) get(userID, id uuid.UUID) (*models.Category, error) {
	category, err := s.categoryRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) ensureUniqueName(userID uuid.UUID, name string, excludeID uuid.UUID) error {
	existing, err := s.categoryRepo.GetByName(userID, name)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return ErrCategoryAlreadyExists
	}
	return nil
}

func (s *CategoryService) changed(ctx context.Context, userID, categoryID uuid.UUID, operation string) {
	if s.analytics != nil {
		s.analytics.Invalidate(userID)
	}
	if s.audit != nil {
		s.audit.LogCategoryChanged(ctx, userID, categoryID, operation)
	}
}
