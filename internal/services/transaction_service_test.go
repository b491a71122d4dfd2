package services

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/events"
	"fintrack/internal/events/event_mocks"
	"fintrack/internal/models"
	"fintrack/internal/repositories"
	"fintrack/internal/repositories/repository_mocks"
	"fintrack/internal/services/service_mocks"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionServiceTestSuite struct {
	suite.Suite
	ctrl         *gomock.Controller
	txRepo       *repository_mocks.MockTransactionRepositoryInterface
	categoryRepo *repository_mocks.MockCategoryRepositoryInterface
	budgetRepo   *repository_mocks.MockBudgetRepositoryInterface
	settingsRepo *repository_mocks.MockSettingsRepositoryInterface
	publisher    *event_mocks.MockPublisher
	analytics    *service_mocks.MockAnalyticsServiceInterface
	metrics      *service_mocks.MockMetricsRecorderInterface
	audit        *service_mocks.MockAuditLoggerInterface
	breaker      *CircuitBreaker
	service      *TransactionService

	ctx      context.Context
	userID   uuid.UUID
	now      time.Time
	category *models.Category
}

func (s *TransactionServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.txRepo = repository_mocks.NewMockTransactionRepositoryInterface(s.ctrl)
	s.categoryRepo = repository_mocks.NewMockCategoryRepositoryInterface(s.ctrl)
	s.budgetRepo = repository_mocks.NewMockBudgetRepositoryInterface(s.ctrl)
	s.settingsRepo = repository_mocks.NewMockSettingsRepositoryInterface(s.ctrl)
	s.publisher = event_mocks.NewMockPublisher(s.ctrl)
	s.analytics = service_mocks.NewMockAnalyticsServiceInterface(s.ctrl)
	s.metrics = service_mocks.NewMockMetricsRecorderInterface(s.ctrl)
	s.audit = service_mocks.NewMockAuditLoggerInterface(s.ctrl)
	s.breaker = NewCircuitBreaker(CircuitBreakerConfig{MaxFailures: 1, ResetTimeout: time.Minute, HalfOpenMaxSucc: 1})

	s.metrics.EXPECT().IncrementCounter(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordProcessingTime(gomock.Any(), gomock.Any()).AnyTimes()
	s.metrics.EXPECT().RecordGauge(gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.audit.EXPECT().LogTransactionWritten(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()
	s.audit.EXPECT().LogBudgetExceeded(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).AnyTimes()

	s.ctx = context.Background()
	s.userID = uuid.New()
	s.now = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	s.category = &models.Category{ID: uuid.New(), UserID: s.userID, Name: "Food", Color: "#34D399"}

	s.service = NewTransactionService(TransactionDependencies{
		TransactionRepo: s.txRepo,
		CategoryRepo:    s.categoryRepo,
		BudgetRepo:      s.budgetRepo,
		SettingsRepo:    s.settingsRepo,
		Publisher:       s.publisher,
		Breaker:         s.breaker,
		Analytics:       s.analytics,
		Metrics:         s.metrics,
		Audit:           s.audit,
		Now:             func() time.Time { return s.now },
	}, slog.Default())
}

func (s *TransactionServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestTransactionServiceSuite(t *testing.T) {
	suite.Run(t, new(TransactionServiceTestSuite))
}

func (s *TransactionServiceTestSuite) expenseRequest(amount int64) *dto.TransactionRequest {
	return &dto.TransactionRequest{
		Date:        "2024-03-10",
		Description: gofakeit.Sentence(3),
		Category:    s.category.ID.String(),
		Type:        "Expense",
		Amount:      decimal.NewFromInt(amount),
	}
}

func (s *TransactionServiceTestSuite) budget(limit int64) *models.Budget {
	return &models.Budget{
		ID:         uuid.New(),
		UserID:     s.userID,
		CategoryID: s.category.ID,
		Limit:      decimal.NewFromInt(limit),
		StartDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:   *s.category,
	}
}

func (s *TransactionServiceTestSuite) TestCreate_IncomeSkipsBudgetCheck() {
	req := &dto.TransactionRequest{Date: "2024-03-01", Description: " Salary ", Type: "INCOME", Amount: decimal.NewFromInt(-2500)}

	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)

	tx, err := s.service.Create(s.ctx, s.userID, req)

	s.Require().NoError(err)
	s.Equal(models.TransactionTypeIncome, tx.Type)
	s.Equal("Salary", tx.Description)
	s.True(tx.Amount.Equal(decimal.NewFromInt(2500)))
	s.Nil(tx.CategoryID)
	s.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), tx.Date)
}

func (s *TransactionServiceTestSuite) TestCreate_ExpenseUnderBudget() {
	budget := s.budget(300)

	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(budget, nil)
	s.txRepo.EXPECT().SumExpensesByCategory(s.userID, s.category.ID,
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	).Return(decimal.NewFromInt(120), nil)

	tx, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(40))

	s.Require().NoError(err)
	s.Equal(s.category.ID, *tx.CategoryID)
	s.Equal(s.category, tx.Category)
}

func (s *TransactionServiceTestSuite) TestCreate_ExpenseOverBudgetPublishesAlert() {
	budget := s.budget(300)

	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(budget, nil)
	s.txRepo.EXPECT().SumExpensesByCategory(s.userID, s.category.ID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(350), nil)
	s.settingsRepo.EXPECT().GetNotifications(s.userID).Return(&models.NotificationSettings{BudgetAlerts: true}, nil)
	s.publisher.EXPECT().PublishBudgetAlert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, alert events.BudgetAlert) error {
		s.Equal(budget.ID, alert.BudgetID)
		s.Equal("Food", alert.CategoryName)
		s.True(alert.Overspend().Equal(decimal.NewFromInt(50)))
		s.Equal(s.now, alert.OccurredAt)
		return nil
	})

	_, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(80))

	s.NoError(err)
	s.Equal(StateClosed, s.breaker.GetState())
}

func (s *TransactionServiceTestSuite) TestCreate_AlertsDisabled() {
	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(s.budget(100), nil)
	s.txRepo.EXPECT().SumExpensesByCategory(s.userID, s.category.ID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(150), nil)
	s.settingsRepo.EXPECT().GetNotifications(s.userID).Return(&models.NotificationSettings{BudgetAlerts: false}, nil)

	_, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(60))

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestCreate_PublishFailureOpensBreaker() {
	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil).Times(2)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil).Times(2)
	s.analytics.EXPECT().Invalidate(s.userID).Times(2)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(s.budget(100), nil).Times(2)
	s.txRepo.EXPECT().SumExpensesByCategory(s.userID, s.category.ID, gomock.Any(), gomock.Any()).Return(decimal.NewFromInt(150), nil).Times(2)
	s.settingsRepo.EXPECT().GetNotifications(s.userID).Return(&models.NotificationSettings{BudgetAlerts: true}, nil).Times(2)
	s.publisher.EXPECT().PublishBudgetAlert(gomock.Any(), gomock.Any()).Return(errors.New("broker down")).Times(1)

	_, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(60))
	s.NoError(err)
	s.Equal(StateOpen, s.breaker.GetState())

	// open breaker: the second alert is skipped
	_, err = s.service.Create(s.ctx, s.userID, s.expenseRequest(10))
	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestCreate_ExpenseOutsideBudgetWindow() {
	req := s.expenseRequest(500)
	req.Date = "2024-02-20"

	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(s.budget(100), nil)

	_, err := s.service.Create(s.ctx, s.userID, req)

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestCreate_NoBudget() {
	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(s.category, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)
	s.budgetRepo.EXPECT().GetByCategory(s.userID, s.category.ID).Return(nil, repositories.ErrBudgetNotFound)

	_, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(5))

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestCreate_ValidationErrors() {
	bad := s.expenseRequest(10)
	bad.Date = "10/03/2024"
	_, err := s.service.Create(s.ctx, s.userID, bad)
	s.ErrorIs(err, ErrInvalidDate)

	bad = s.expenseRequest(10)
	bad.Type = "transfer"
	_, err = s.service.Create(s.ctx, s.userID, bad)
	s.ErrorIs(err, ErrInvalidTransactionType)

	bad = s.expenseRequest(10)
	bad.Category = "groceries"
	_, err = s.service.Create(s.ctx, s.userID, bad)
	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *TransactionServiceTestSuite) TestCreate_ForeignCategory() {
	s.categoryRepo.EXPECT().GetByID(s.userID, s.category.ID).Return(nil, repositories.ErrCategoryNotFound)

	_, err := s.service.Create(s.ctx, s.userID, s.expenseRequest(10))

	s.ErrorIs(err, ErrCategoryNotFound)
}

func (s *TransactionServiceTestSuite) TestCreate_DuplicateExternalID() {
	req := &dto.TransactionRequest{Date: "2024-03-02", Description: "Coffee", Type: "expense", Amount: decimal.NewFromInt(4), ExternalID: "FIT-1"}
	s.txRepo.EXPECT().ExistsByExternalID(s.userID, "FIT-1").Return(true, nil)

	_, err := s.service.Create(s.ctx, s.userID, req)

	s.ErrorIs(err, ErrDuplicateTransaction)
}

func (s *TransactionServiceTestSuite) TestCreate_ImportedTransaction() {
	req := &dto.TransactionRequest{Date: "2024-03-02", Description: "Coffee", Type: "expense", Amount: decimal.NewFromInt(4), ExternalID: "FIT-2"}
	s.txRepo.EXPECT().ExistsByExternalID(s.userID, "FIT-2").Return(false, nil)
	s.txRepo.EXPECT().Create(gomock.Any()).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)

	tx, err := s.service.Create(s.ctx, s.userID, req)

	s.Require().NoError(err)
	s.Equal("FIT-2", tx.ExternalID)
}

func (s *TransactionServiceTestSuite) TestUpdate() {
	id := uuid.New()
	existing := &models.Transaction{ID: id, UserID: s.userID, Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(10), CategoryID: &s.category.ID}
	req := &dto.TransactionRequest{Date: "2024-03-05", Description: "Refund", Type: "income", Amount: decimal.NewFromInt(25)}

	s.txRepo.EXPECT().GetByID(s.userID, id).Return(existing, nil)
	s.txRepo.EXPECT().Update(existing).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)

	tx, err := s.service.Update(s.ctx, s.userID, id, req)

	s.Require().NoError(err)
	s.Equal(models.TransactionTypeIncome, tx.Type)
	s.Nil(tx.CategoryID)
	s.Equal("Refund", tx.Description)
}

func (s *TransactionServiceTestSuite) TestUpdate_NotFound() {
	id := uuid.New()
	s.txRepo.EXPECT().GetByID(s.userID, id).Return(nil, repositories.ErrTransactionNotFound)

	_, err := s.service.Update(s.ctx, s.userID, id, s.expenseRequest(1))

	s.ErrorIs(err, ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestDelete() {
	id := uuid.New()
	s.txRepo.EXPECT().Delete(s.userID, id).Return(nil)
	s.analytics.EXPECT().Invalidate(s.userID)

	s.NoError(s.service.Delete(s.ctx, s.userID, id))
}

func (s *TransactionServiceTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	s.txRepo.EXPECT().Delete(s.userID, id).Return(repositories.ErrTransactionNotFound)

	s.ErrorIs(s.service.Delete(s.ctx, s.userID, id), ErrTransactionNotFound)
}

func (s *TransactionServiceTestSuite) TestList_RangeAndFilters() {
	s.txRepo.EXPECT().List(s.userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, error) {
		s.Equal(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), *f.StartDate)
		s.Equal(time.Date(2024, 3, 16, 0, 0, 0, 0, time.UTC), *f.EndDate)
		s.Equal(s.category.ID, *f.CategoryID)
		s.Equal(models.TransactionTypeExpense, f.Type)
		return []models.Transaction{}, nil
	})

	out, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{
		Range:    "Last 7 days",
		Category: s.category.ID.String(),
		Type:     "EXPENSE",
	})

	s.NoError(err)
	s.NotNil(out)
}

func (s *TransactionServiceTestSuite) TestList_ExplicitDatesWinOverRange() {
	s.txRepo.EXPECT().List(s.userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, error) {
		s.Equal(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.StartDate)
		s.Equal(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), *f.EndDate)
		s.Empty(f.Type)
		s.Nil(f.CategoryID)
		return nil, nil
	})

	_, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
		Range:     "This year",
		Category:  "All Categories",
		Type:      "All Types",
	})

	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestList_InvalidDate() {
	_, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{StartDate: "yesterday"})
	s.ErrorIs(err, ErrInvalidDate)
}

func (s *TransactionServiceTestSuite) TestList_UnmatchableFiltersReturnEmpty() {
	queries := []dto.TransactionListQuery{
		{Category: "Food"},
		{Type: "transfer"},
		{Range: "Last 30 days", Category: "not-an-id", Type: "expense"},
	}
	for _, q := range queries {
		q := q
		out, err := s.service.List(s.ctx, s.userID, &q)

		s.Require().NoError(err, "%+v", q)
		s.NotNil(out, "%+v", q)
		s.Empty(out, "%+v", q)
	}
}

func (s *TransactionServiceTestSuite) TestList_TypeFilterIsCaseInsensitive() {
	s.txRepo.EXPECT().List(s.userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, error) {
		s.Equal("income", f.Type)
		return nil, nil
	})

	_, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{Type: " Income "})
	s.NoError(err)
}

func (s *TransactionServiceTestSuite) TestList_SortsByAmountThenLimits() {
	rows := []models.Transaction{
		{ID: uuid.New(), Date: s.now.Add(-1 * time.Hour), Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(5)},
		{ID: uuid.New(), Date: s.now.Add(-2 * time.Hour), Type: models.TransactionTypeExpense, Amount: decimal.NewFromInt(50)},
		{ID: uuid.New(), Date: s.now.Add(-3 * time.Hour), Type: models.TransactionTypeIncome, Amount: decimal.NewFromInt(20)},
	}
	s.txRepo.EXPECT().List(s.userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, error) {
		s.Zero(f.Limit)
		return rows, nil
	})

	out, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{Sort: "amount_desc", Limit: 2})

	s.Require().NoError(err)
	s.Require().Len(out, 2)
	s.Equal(rows[1].ID, out[0].ID)
	s.Equal(rows[2].ID, out[1].ID)
}

func (s *TransactionServiceTestSuite) TestList_DefaultSortPassesLimitThrough() {
	s.txRepo.EXPECT().List(s.userID, gomock.Any()).DoAndReturn(func(_ uuid.UUID, f models.TransactionFilters) ([]models.Transaction, error) {
		s.Equal(10, f.Limit)
		return nil, nil
	})

	out, err := s.service.List(s.ctx, s.userID, &dto.TransactionListQuery{Limit: 10, Sort: "bogus"})

	s.NoError(err)
	s.Empty(out)
}
