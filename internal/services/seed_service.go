package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/logging"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

const (
	seedBatchSize = 100
	MaxSeedMonths = 24
)

var ErrInvalidSeedMonths = errors.New("months must be between 1 and 24")

type SeedService struct {
	categoryRepo repositories.CategoryRepositoryInterface
	txRepo       repositories.TransactionRepositoryInterface
	budgetRepo   repositories.BudgetRepositoryInterface
	generator    DemoDataGeneratorInterface
	analytics    AnalyticsServiceInterface
	logger       *slog.Logger
	now          func() time.Time
}

func NewSeedService(
	categoryRepo repositories.CategoryRepositoryInterface,
	txRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	generator DemoDataGeneratorInterface,
	analytics AnalyticsServiceInterface,
	logger *slog.Logger,
) *SeedService {
	return &SeedService{
		categoryRepo: categoryRepo,
		txRepo:       txRepo,
		budgetRepo:   budgetRepo,
		generator:    generator,
		analytics:    analytics,
		logger:       logging.WithComponent(logger, "seed"),
		now:          time.Now,
	}
}

// Seed creates the default categories when missing, inserts generated
// transactions in batches and adds a budget to every default category that
// has none. progress may be nil.
func (s *SeedService) Seed(ctx context.Context, userID uuid.UUID, months int, progress func(done, total int)) (*dto.SeedResult, error) {
	if months < 1 || months > MaxSeedMonths {
		return nil, ErrInvalidSeedMonths
	}

	if err := s.categoryRepo.EnsureDefaults(userID); err != nil {
		return nil, fmt.Errorf("failed to create default categories: %w", err)
	}
	categories, err := s.categoryRepo.List(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	now := s.now().UTC()
	txs := s.generator.GenerateTransactions(userID, categories, months, now)
	result := &dto.SeedResult{Months: months}

	for start := 0; start < len(txs); start += seedBatchSize {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		end := min(start+seedBatchSize, len(txs))
		if err := s.txRepo.CreateBatch(txs[start:end]); err != nil {
			return result, fmt.Errorf("failed to insert transactions: %w", err)
		}
		result.Transactions = end
		if progress != nil {
			progress(end, len(txs))
		}
	}

	for _, b := range s.generator.GenerateBudgets(userID, categories, now) {
		if _, err := s.budgetRepo.GetByCategory(userID, b.CategoryID); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrBudgetNotFound) {
			return result, fmt.Errorf("failed to check budget: %w", err)
		}
		budget := b
		if err := s.budgetRepo.Create(&budget); err != nil {
			return result, fmt.Errorf("failed to create budget: %w", err)
		}
		result.Budgets++
	}

	s.analytics.Invalidate(userID)
	s.logger.InfoContext(ctx, "seeded demo data",
		slog.String(logging.KeyUserID, userID.String()),
		slog.Int("transactions", result.Transactions),
		slog.Int("budgets", result.Budgets),
		slog.Int("months", months),
	)
	return result, nil
}
