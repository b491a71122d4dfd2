package repositories

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrBudgetNotFound      = errors.New("budget not found")
	ErrBudgetAlreadyExists = errors.New("budget already exists for category")
)

type BudgetRepository struct {
	db *gorm.DB
}

func NewBudgetRepository(db *gorm.DB) BudgetRepositoryInterface {
	return &BudgetRepository{db: db}
}

func (r *BudgetRepository) Create(budget *models.Budget) error {
	if budget == nil {
		return errors.New("budget cannot be nil")
	}

	if err := r.db.Omit("Category").Create(budget).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrBudgetAlreadyExists
		}
		return fmt.Errorf("failed to create budget: %w", err)
	}

	return r.db.Preload("Category").First(budget, "id = ?", budget.ID).Error
}

func (r *BudgetRepository) find(query *gorm.DB) (*models.Budget, error) {
	var budget models.Budget
	if err := query.Preload("Category").First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}
	return &budget, nil
}

func (r *BudgetRepository) GetByID(userID, id uuid.UUID) (*models.Budget, error) {
	return r.find(r.db.Where("id = ? AND user_id = ?", id, userID))
}

func (r *BudgetRepository) GetByCategory(userID, categoryID uuid.UUID) (*models.Budget, error) {
	return r.find(r.db.Where("category_id = ? AND user_id = ?", categoryID, userID))
}

func (r *BudgetRepository) List(userID uuid.UUID) ([]models.Budget, error) {
	budgets := make([]models.Budget, 0)
	err := r.db.Preload("Category").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&budgets).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	return budgets, nil
}

// UpdateLimit changes the limit only; the category of a budget never changes.
func (r *BudgetRepository) UpdateLimit(userID, id uuid.UUID, limit decimal.Decimal) error {
	if !limit.IsPositive() {
		return models.ErrInvalidBudgetLimit
	}

	result := r.db.Model(&models.Budget{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(map[string]interface{}{
			"limit_amount": limit,
			"updated_at":   time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Budget{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete budget: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBudgetNotFound
	}
	return nil
}

func (r *BudgetRepository) CountByCategory(userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Budget{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count budgets: %w", err)
	}
	return count, nil
}
