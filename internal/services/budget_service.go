package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/finance"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrBudgetNotFound       = errors.New("budget not found")
	ErrBudgetAlreadyExists  = errors.New("a budget already exists for this category")
	ErrBudgetCategoryLocked = errors.New("the category of a budget cannot be changed")
)

// BudgetService manages monthly category limits. Spent is derived from the
// current month's expenses on every read and never stored.
type BudgetService struct {
	budgetRepo      repositories.BudgetRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	transactionRepo repositories.TransactionRepositoryInterface
	analytics       AnalyticsServiceInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewBudgetService(
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	transactionRepo repositories.TransactionRepositoryInterface,
	analytics AnalyticsServiceInterface,
	logger *slog.Logger,
) *BudgetService {
	return &BudgetService{
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		transactionRepo: transactionRepo,
		analytics:       analytics,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock replaces the clock used for the current month.
func (s *BudgetService) WithClock(now func() time.Time) *BudgetService {
	s.now = now
	return s
}

func (s *BudgetService) List(ctx context.Context, userID uuid.UUID) ([]dto.BudgetResponse, error) {
	budgets, err := s.budgetRepo.List(userID)
	if err != nil {
		return nil, err
	}

	comparisons, err := s.compare(userID, budgets)
	if err != nil {
		return nil, err
	}

	out := make([]dto.BudgetResponse, 0, len(budgets))
	for i := range budgets {
		out = append(out, dto.NewBudgetResponse(&budgets[i], comparisons[i]))
	}
	return out, nil
}

// compare loads the current month's expenses once and compares every budget with them.
func (s *BudgetService) compare(userID uuid.UUID, budgets []models.Budget) ([]finance.BudgetComparison, error) {
	if len(budgets) == 0 {
		return []finance.BudgetComparison{}, nil
	}

	now := s.now()
	start := finance.StartOfMonth(now)
	end := start.AddDate(0, 1, 0)

	expenses, err := s.transactionRepo.List(userID, models.TransactionFilters{
		StartDate: &start,
		EndDate:   &end,
		Type:      models.TransactionTypeExpense,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	return finance.BudgetVsActual(toFinanceTransactions(expenses), toFinanceBudgets(budgets), now), nil
}

func (s *BudgetService) respond(userID uuid.UUID, budget *models.Budget) (*dto.BudgetResponse, error) {
	comparisons, err := s.compare(userID, []models.Budget{*budget})
	if err != nil {
		return nil, err
	}
	resp := dto.NewBudgetResponse(budget, comparisons[0])
	return &resp, nil
}

// Create adds a budget; each category has at most one
func (s *BudgetService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateBudgetRequest) (*dto.BudgetResponse, error) {
	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		return nil, ErrCategoryNotFound
	}
	category, err := s.categoryRepo.GetByID(userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}

	if _, err := s.budgetRepo.GetByCategory(userID, categoryID); err == nil {
		return nil, ErrBudgetAlreadyExists
	} else if !errors.Is(err, repositories.ErrBudgetNotFound) {
		return nil, err
	}

	budget := &models.Budget{
		UserID:     userID,
		CategoryID: category.ID,
		Limit:      req.Limit,
		StartDate:  finance.StartOfMonth(s.now()),
	}
	if req.StartDate != "" {
		start, ok := finance.ParseDate(req.StartDate)
		if !ok {
			return nil, fmt.Errorf("%w: startDate %q", ErrInvalidDate, req.StartDate)
		}
		budget.StartDate = start
	}

	if err := s.budgetRepo.Create(budget); err != nil {
		if errors.Is(err, repositories.ErrBudgetAlreadyExists) {
			return nil, ErrBudgetAlreadyExists
		}
		return nil, fmt.Errorf("failed to create budget: %w", err)
	}
	budget.Category = *category

	s.invalidate(userID)
	s.logger.InfoContext(ctx, "budget created", "user_id", userID, "budget_id", budget.ID, "category_id", category.ID)

	return s.respond(userID, budget)
}

// UpdateLimit changes the limit; the category stays fixed
func (s *BudgetService) UpdateLimit(ctx context.Context, userID, id uuid.UUID, req *dto.UpdateBudgetRequest) (*dto.BudgetResponse, error) {
	budget, err := s.get(userID, id)
	if err != nil {
		return nil, err
	}

	if req.Category != "" && req.Category != budget.CategoryID.String() {
		return nil, ErrBudgetCategoryLocked
	}

	if err := s.budgetRepo.UpdateLimit(userID, id, req.Limit); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	budget.Limit = req.Limit

	s.invalidate(userID)
	return s.respond(userID, budget)
}

func (s *BudgetService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.budgetRepo.Delete(userID, id); err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return ErrBudgetNotFound
		}
		return err
	}
	s.invalidate(userID)
	return nil
}

func (s *BudgetService) Summary(ctx context.Context, userID uuid.UUID) (*dto.BudgetSummaryResponse, error) {
	budgets, err := s.budgetRepo.List(userID)
	if err != nil {
		return nil, err
	}
	comparisons, err := s.compare(userID, budgets)
	if err != nil {
		return nil, err
	}

	summary := dto.NewBudgetSummaryResponse(finance.SummarizeBudgets(comparisons))
	return &summary, nil
}

func (s *BudgetService) get(userID, id uuid.UUID) (*models.Budget, error) {
	budget, err := s.budgetRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrBudgetNotFound) {
			return nil, ErrBudgetNotFound
		}
		return nil, err
	}
	return budget, nil
}

func (s *BudgetService) invalidate(userID uuid.UUID) {
	if s.analytics != nil {
		s.analytics.Invalidate(userID)
	}
}
