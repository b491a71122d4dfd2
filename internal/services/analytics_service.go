package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/cache"
	"fintrack/internal/finance"
	"fintrack/internal/models"
	"fintrack/internal/repositories"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultAnalyticsRange = finance.RangeLast30Days

	DefaultAnalyticsCacheSize = 512
	DefaultAnalyticsCacheTTL  = time.Minute
)

// AnalyticsService loads a user's ledger and runs the finance aggregates over
// it. Results are cached per user, range and top-N until the user writes.
type AnalyticsService struct {
	transactionRepo repositories.TransactionRepositoryInterface
	budgetRepo      repositories.BudgetRepositoryInterface
	categoryRepo    repositories.CategoryRepositoryInterface
	cache           *cache.LRUCache[*finance.Summary]
	metrics         MetricsRecorderInterface
	logger          *slog.Logger
	now             func() time.Time
}

func NewAnalyticsService(
	transactionRepo repositories.TransactionRepositoryInterface,
	budgetRepo repositories.BudgetRepositoryInterface,
	categoryRepo repositories.CategoryRepositoryInterface,
	summaries *cache.LRUCache[*finance.Summary],
	metrics MetricsRecorderInterface,
	logger *slog.Logger,
) *AnalyticsService {
	if summaries == nil {
		summaries = cache.NewLRUCache[*finance.Summary](DefaultAnalyticsCacheSize, DefaultAnalyticsCacheTTL)
	}
	return &AnalyticsService{
		transactionRepo: transactionRepo,
		budgetRepo:      budgetRepo,
		categoryRepo:    categoryRepo,
		cache:           summaries,
		metrics:         metrics,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock replaces the clock that anchors ranges and budget windows.
func (s *AnalyticsService) WithClock(now func() time.Time) *AnalyticsService {
	s.now = now
	return s
}

// Summarize returns every aggregate for rangeName. An empty name means the
// last 30 days; unknown names resolve like finance.ResolveRange does.
func (s *AnalyticsService) Summarize(ctx context.Context, userID uuid.UUID, rangeName string, topN int) (*finance.Summary, error) {
	if rangeName == "" {
		rangeName = DefaultAnalyticsRange
	}
	if topN <= 0 {
		topN = finance.DefaultTopN
	}

	now := s.now()
	current := finance.ResolveRange(rangeName, now)

	key := fmt.Sprintf("%s%s:%d", userPrefix(userID), current.Name, topN)
	if summary, ok := s.cache.Get(key); ok {
		s.count(MetricCacheHit)
		return summary, nil
	}
	s.count(MetricCacheMiss)

	start := time.Now()

	// one read covers the range, the previous period and the budget months
	from := current.Previous().Start
	if month := finance.StartOfMonth(now).AddDate(0, -1, 0); month.Before(from) {
		from = month
	}
	to := current.End
	if monthEnd := finance.StartOfMonth(now).AddDate(0, 1, 0); monthEnd.After(to) {
		to = monthEnd
	}

	var (
		transactions []models.Transaction
		budgets      []models.Budget
		categories   []models.Category
	)

	// repository reads take no context, so a failed read cannot cancel its siblings
	var g errgroup.Group
	g.Go(func() error {
		var err error
		transactions, err = s.transactionRepo.List(userID, models.TransactionFilters{StartDate: &from, EndDate: &to})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.budgetRepo.List(userID)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.categoryRepo.List(userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load analytics data: %w", err)
	}

	summary := finance.Summarize(s.resolve(transactions, categories), toFinanceBudgets(budgets), now, finance.SummaryOptions{
		Range: &current,
		TopN:  topN,
	})

	s.cache.Set(key, &summary)

	elapsed := time.Since(start)
	if s.metrics != nil {
		s.metrics.RecordProcessingTime(MetricAnalyticsDuration, elapsed)
	}
	s.logger.DebugContext(ctx, "analytics summary computed",
		"user_id", userID,
		"range", current.Name,
		"transactions", len(transactions),
		"budgets", len(budgets),
		"duration_ms", elapsed.Milliseconds())

	return &summary, nil
}

// resolve maps rows to finance transactions, resolving bare category ids
// against the user's categories.
func (s *AnalyticsService) resolve(rows []models.Transaction, categories []models.Category) []finance.Transaction {
	index := make(map[string]finance.Category, len(categories))
	for _, c := range categories {
		index[c.ID.String()] = toFinanceCategory(c)
	}

	txs := toFinanceTransactions(rows)
	for i, tx := range txs {
		if tx.Category.IsZero() || tx.Category.IsResolved() {
			continue
		}
		if c, ok := index[tx.Category.ID()]; ok {
			txs[i].Category = finance.Resolved(c)
		}
	}
	return txs
}

// Invalidate drops every cached summary of the user.
func (s *AnalyticsService) Invalidate(userID uuid.UUID) {
	s.cache.DeletePrefix(userPrefix(userID))
}

func (s *AnalyticsService) count(name string) {
	if s.metrics != nil {
		s.metrics.IncrementCounter(name, nil)
	}
}

func userPrefix(userID uuid.UUID) string {
	return userID.String() + ":"
}
