package repositories

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryAlreadyExists = errors.New("category already exists")
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}

	if err := r.db.Create(category).Error; err != nil {
		if isDuplicateKeyError(err) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

func (r *CategoryRepository) GetByID(userID, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &category, nil
}

// GetByName matches case-insensitively.
func (r *CategoryRepository) GetByName(userID uuid.UUID, name string) (*models.Category, error) {
	var category models.Category
	err := r.db.Where("user_id = ? AND name_key = ?", userID, models.CategoryNameKey(name)).
		First(&category).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("failed to get category by name: %w", err)
	}
	return &category, nil
}

func (r *CategoryRepository) List(userID uuid.UUID) ([]models.Category, error) {
	categories := make([]models.Category, 0)
	err := r.db.Where("user_id = ?", userID).
		Order("created_at ASC").Order("name_key ASC").
		Find(&categories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (r *CategoryRepository) Update(category *models.Category) error {
	if category == nil {
		return errors.New("category cannot be nil")
	}
	category.ApplyDefaults()
	if err := category.Validate(); err != nil {
		return err
	}

	result := r.db.Model(category).
		Where("user_id = ?", category.UserID).
		Updates(map[string]interface{}{
			"name":       category.Name,
			"name_key":   category.NameKey,
			"color":      category.Color,
			"icon":       category.Icon,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return ErrCategoryAlreadyExists
		}
		return fmt.Errorf("failed to update category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Category{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete category: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// EnsureDefaults seeds the default categories for a user who has none.
func (r *CategoryRepository) EnsureDefaults(userID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Category{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to count categories: %w", err)
		}
		if count > 0 {
			return nil
		}

		defaults := models.DefaultCategories(userID)
		if err := tx.Create(&defaults).Error; err != nil {
			return fmt.Errorf("failed to create default categories: %w", err)
		}
		return nil
	})
}
