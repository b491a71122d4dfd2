package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/events"
	"fintrack/internal/finance"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
)

var (
	ErrTransactionNotFound    = errors.New("transaction not found")
	ErrInvalidDate            = errors.New("invalid date")
	ErrInvalidTransactionType = errors.New("transaction type must be income or expense")
	ErrDuplicateTransaction   = errors.New("transaction was already imported")
)

// TransactionDependencies groups the collaborators of TransactionService.
// Publisher, Breaker, Analytics, Metrics and Audit are optional.
type TransactionDependencies struct {
	TransactionRepo repositories.TransactionRepositoryInterface
	CategoryRepo    repositories.CategoryRepositoryInterface
	BudgetRepo      repositories.BudgetRepositoryInterface
	SettingsRepo    repositories.SettingsRepositoryInterface
	Publisher       events.Publisher
	Breaker         CircuitBreakerInterface
	Analytics       AnalyticsServiceInterface
	Metrics         MetricsRecorderInterface
	Audit           AuditLoggerInterface
	Now             func() time.Time
}

// TransactionService owns the ledger of each user. Expense writes check the
// category's budget and publish an alert when it is exceeded.
type TransactionService struct {
	TransactionDependencies
	logger *slog.Logger
}

func NewTransactionService(deps TransactionDependencies, logger *slog.Logger) *TransactionService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Publisher == nil {
		deps.Publisher = events.NoopPublisher{}
	}
	if deps.Breaker == nil {
		deps.Breaker = NewCircuitBreaker(DefaultCircuitBreakerConfig())
	}
	return &TransactionService{TransactionDependencies: deps, logger: logger}
}

// List applies the repository filters, then orders with finance.FilterSort.
// Explicit startDate/endDate win over range; endDate includes its whole day.
// A category or type value that can never match yields an empty list.
func (s *TransactionService) List(ctx context.Context, userID uuid.UUID, query *dto.TransactionListQuery) ([]models.Transaction, error) {
	if query == nil {
		query = &dto.TransactionListQuery{}
	}

	filters, matchable, err := s.buildFilters(query)
	if err != nil {
		return nil, err
	}
	if !matchable {
		return []models.Transaction{}, nil
	}

	sortKey := finance.ParseSortKey(query.Sort)
	limit := filters.Limit
	if sortKey != finance.SortDateNewest {
		// limit after re-sorting, not before
		filters.Limit = 0
	}

	rows, err := s.TransactionRepo.List(userID, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	byID := make(map[string]models.Transaction, len(rows))
	for _, row := range rows {
		byID[row.ID.String()] = row
	}

	sorted := finance.FilterSort(toFinanceTransactions(rows), finance.Query{Sort: sortKey})
	out := make([]models.Transaction, 0, len(sorted))
	for _, tx := range sorted {
		out = append(out, byID[tx.ID])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *TransactionService) buildFilters(query *dto.TransactionListQuery) (models.TransactionFilters, bool, error) {
	filters := models.TransactionFilters{Limit: query.Limit}

	switch {
	case query.StartDate != "" || query.EndDate != "":
		if query.StartDate != "" {
			start, ok := finance.ParseDate(query.StartDate)
			if !ok {
				return filters, false, fmt.Errorf("%w: startDate %q", ErrInvalidDate, query.StartDate)
			}
			filters.StartDate = &start
		}
		if query.EndDate != "" {
			end, ok := finance.ParseDate(query.EndDate)
			if !ok {
				return filters, false, fmt.Errorf("%w: endDate %q", ErrInvalidDate, query.EndDate)
			}
			end = end.Truncate(24 * time.Hour).AddDate(0, 0, 1)
			filters.EndDate = &end
		}
	case query.Range != "":
		r := finance.ResolveRange(query.Range, s.Now())
		filters.StartDate = &r.Start
		filters.EndDate = &r.End
	}

	if c := strings.TrimSpace(query.Category); c != "" && c != finance.AllCategories {
		id, err := uuid.Parse(c)
		if err != nil {
			return filters, false, nil
		}
		filters.CategoryID = &id
	}

	if t := strings.TrimSpace(query.Type); t != "" && t != finance.AllTypes {
		parsed, ok := finance.ParseType(t)
		if !ok {
			return filters, false, nil
		}
		filters.Type = string(parsed)
	}

	return filters, true, nil
}

func (s *TransactionService) Get(ctx context.Context, userID, id uuid.UUID) (*models.Transaction, error) {
	tx, err := s.TransactionRepo.GetByID(userID, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, err
	}
	return tx, nil
}

func (s *TransactionService) Create(ctx context.Context, userID uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	tx := &models.Transaction{UserID: userID, ExternalID: strings.TrimSpace(req.ExternalID)}
	if err := s.apply(userID, tx, req); err != nil {
		return nil, err
	}

	if tx.ExternalID != "" {
		exists, err := s.TransactionRepo.ExistsByExternalID(userID, tx.ExternalID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateTransaction
		}
	}

	if err := s.TransactionRepo.Create(tx); err != nil {
		return nil, fmt.Errorf("failed to create transaction: %w", err)
	}

	operation := "create"
	if tx.ExternalID != "" {
		operation = "import"
	}
	s.afterWrite(ctx, tx, operation)
	return tx, nil
}

// Update replaces every field of an existing transaction
func (s *TransactionService) Update(ctx context.Context, userID, id uuid.UUID, req *dto.TransactionRequest) (*models.Transaction, error) {
	tx, err := s.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(userID, tx, req); err != nil {
		return nil, err
	}

	if err := s.TransactionRepo.Update(tx); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to update transaction: %w", err)
	}

	s.afterWrite(ctx, tx, "update")
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.TransactionRepo.Delete(userID, id); err != nil {
		if errors.Is(err, repositories.ErrTransactionNotFound) {
			return ErrTransactionNotFound
		}
		return err
	}

	s.invalidate(userID)
	s.count("delete", "")
	if s.Audit != nil {
		s.Audit.LogTransactionWritten(ctx, userID, id, "delete")
	}
	return nil
}

// apply copies req onto tx after checking the date, the type and category ownership.
func (s *TransactionService) apply(userID uuid.UUID, tx *models.Transaction, req *dto.TransactionRequest) error {
	date, ok := finance.ParseDate(req.Date)
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidDate, req.Date)
	}
	txType, ok := finance.ParseType(req.Type)
	if !ok {
		return ErrInvalidTransactionType
	}

	tx.Date = date
	tx.Description = strings.TrimSpace(req.Description)
	tx.Type = string(txType)
	tx.Amount = req.Amount.Abs()
	tx.CategoryID = nil
	tx.Category = nil

	if req.Category == "" {
		return nil
	}

	categoryID, err := uuid.Parse(req.Category)
	if err != nil {
		return ErrCategoryNotFound
	}
	category, err := s.CategoryRepo.GetByID(userID, categoryID)
	if err != nil {
		if errors.Is(err, repositories.ErrCategoryNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	tx.CategoryID = &category.ID
	tx.Category = category
	return nil
}

func (s *TransactionService) afterWrite(ctx context.Context, tx *models.Transaction, operation string) {
	s.invalidate(tx.UserID)
	s.count(operation, tx.Type)
	if s.Audit != nil {
		s.Audit.LogTransactionWritten(ctx, tx.UserID, tx.ID, operation)
	}

	if tx.IsExpense() && tx.CategoryID != nil {
		s.checkBudget(ctx, tx)
	}
}

// checkBudget compares the category's spending in the budget window with the
// limit and publishes a budget alert when the user has alerts enabled.
func (s *TransactionService) checkBudget(ctx context.Context, tx *models.Transaction) {
	budget, err := s.BudgetRepo.GetByCategory(tx.UserID, *tx.CategoryID)
	if err != nil {
		if !errors.Is(err, repositories.ErrBudgetNotFound) {
			s.logger.WarnContext(ctx, "failed to load budget", "error", err, "user_id", tx.UserID)
		}
		return
	}

	now := s.Now()
	window := toFinanceBudget(*budget).ActiveWindow(now)
	if !window.Contains(tx.Date) {
		return
	}

	spent, err := s.TransactionRepo.SumExpensesByCategory(tx.UserID, budget.CategoryID, window.Start, window.End)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to sum budget spending", "error", err, "budget_id", budget.ID)
		return
	}
	if !spent.GreaterThan(budget.Limit) {
		return
	}

	if s.Audit != nil {
		s.Audit.LogBudgetExceeded(ctx, tx.UserID, budget.ID, budget.Limit.StringFixed(2), spent.StringFixed(2))
	}

	notifications, err := s.SettingsRepo.GetNotifications(tx.UserID)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load notification settings", "error", err, "user_id", tx.UserID)
		return
	}
	if !notifications.BudgetAlerts {
		s.countAlert("disabled")
		return
	}

	categoryName := budget.Category.Name
	if categoryName == "" && tx.Category != nil {
		categoryName = tx.Category.Name
	}

	s.publish(ctx, events.BudgetAlert{
		UserID:       tx.UserID,
		BudgetID:     budget.ID,
		CategoryID:   budget.CategoryID,
		CategoryName: categoryName,
		Limit:        budget.Limit,
		Spent:        spent,
		OccurredAt:   now.UTC(),
	})
}

func (s *TransactionService) publish(ctx context.Context, alert events.BudgetAlert) {
	defer s.recordBreakerState()

	if s.Breaker.IsOpen() {
		s.countAlert("skipped")
		s.logger.WarnContext(ctx, "budget alert skipped, publisher circuit open", "budget_id", alert.BudgetID)
		return
	}

	start := time.Now()
	err := s.Publisher.PublishBudgetAlert(ctx, alert)
	if s.Metrics != nil {
		s.Metrics.RecordProcessingTime(MetricPublishDuration, time.Since(start))
	}
	if err != nil {
		s.Breaker.RecordFailure()
		s.countAlert("failed")
		s.logger.WarnContext(ctx, "failed to publish budget alert", "error", err, "budget_id", alert.BudgetID)
		return
	}

	s.Breaker.RecordSuccess()
	s.countAlert("published")
}

func (s *TransactionService) recordBreakerState() {
	if s.Metrics == nil {
		return
	}
	s.Metrics.RecordGauge(MetricCircuitBreakerState, float64(s.Breaker.GetState()), map[string]string{"service": "events"})
}

func (s *TransactionService) invalidate(userID uuid.UUID) {
	if s.Analytics != nil {
		s.Analytics.Invalidate(userID)
	}
}

func (s *TransactionService) count(operation, txType string) {
	if s.Metrics == nil {
		return
	}
	name := MetricTransactionWritten
	if operation == "import" {
		name = MetricTransactionImported
	}
	s.Metrics.IncrementCounter(name, map[string]string{"operation": operation, "type": txType})
}

func (s *TransactionService) countAlert(status string) {
	if s.Metrics != nil {
		s.Metrics.IncrementCounter(MetricBudgetAlert, map[string]string{"status": status})
	}
}
