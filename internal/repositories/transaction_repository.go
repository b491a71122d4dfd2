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

var ErrTransactionNotFound = errors.New("transaction not found")

const batchSize = 200

// TransactionRepository handles database operations for ledger entries
type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepositoryInterface {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}

	if err := r.db.Omit("Category").Create(transaction).Error; err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return r.db.Preload("Category").First(transaction, "id = ?", transaction.ID).Error
}

// CreateBatch inserts transactions in one database transaction.
func (r *TransactionRepository) CreateBatch(transactions []models.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Category").CreateInBatches(transactions, batchSize).Error; err != nil {
			return fmt.Errorf("failed to create transactions: %w", err)
		}
		return nil
	})
}

func (r *TransactionRepository) GetByID(userID, id uuid.UUID) (*models.Transaction, error) {
	var transaction models.Transaction
	err := r.db.Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&transaction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &transaction, nil
}

// List returns the user's transactions matching filters, newest first.
// Callers re-sort with finance.FilterSort when another order is requested.
func (r *TransactionRepository) List(userID uuid.UUID, filters models.TransactionFilters) ([]models.Transaction, error) {
	query := r.db.Preload("Category").Where("user_id = ?", userID)

	if filters.StartDate != nil {
		query = query.Where("date >= ?", *filters.StartDate)
	}
	if filters.EndDate != nil {
		query = query.Where("date < ?", *filters.EndDate)
	}
	if filters.CategoryID != nil {
		query = query.Where("category_id = ?", *filters.CategoryID)
	}
	if filters.Type != "" {
		query = query.Where("type = ?", filters.Type)
	}
	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}

	transactions := make([]models.Transaction, 0)
	if err := query.Order("date DESC").Order("created_at DESC").Find(&transactions).Error; err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

func (r *TransactionRepository) Update(transaction *models.Transaction) error {
	if transaction == nil {
		return errors.New("transaction cannot be nil")
	}
	if err := transaction.Validate(); err != nil {
		return err
	}

	result := r.db.Model(transaction).
		Where("user_id = ?", transaction.UserID).
		Updates(map[string]interface{}{
			"date":        transaction.Date,
			"description": transaction.Description,
			"category_id": transaction.CategoryID,
			"type":        transaction.Type,
			"amount":      transaction.Amount,
			"updated_at":  time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}

	return r.db.Preload("Category").First(transaction, "id = ?", transaction.ID).Error
}

func (r *TransactionRepository) Delete(userID, id uuid.UUID) error {
	result := r.db.Where("id = ? AND user_id = ?", id, userID).Delete(&models.Transaction{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete transaction: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) CountByCategory(userID, categoryID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// SumExpensesByCategory adds up expense amounts of one category in [from, to).
func (r *TransactionRepository) SumExpensesByCategory(userID, categoryID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND category_id = ? AND type = ?", userID, categoryID, models.TransactionTypeExpense).
		Where("date >= ? AND date < ?", from, to).
		Pluck("amount", &amounts).Error
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum expenses: %w", err)
	}

	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *TransactionRepository) ExistsByExternalID(userID uuid.UUID, externalID string) (bool, error) {
	if externalID == "" {
		return false, nil
	}

	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("user_id = ? AND external_id = ?", userID, externalID).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up external id: %w", err)
	}
	return count > 0, nil
}
