package client

import (
	"context"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/finance"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Dashboard loads transactions, budgets and categories concurrently and
// computes the summary locally. An empty rangeName means the last 30 days.
func (c *Client) Dashboard(ctx context.Context, rangeName string, now time.Time) (*finance.Summary, error) {
	var (
		raws       []finance.RawTransaction
		budgets    []dto.BudgetResponse
		categories []dto.CategoryResponse
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raws, err = c.RawTransactions(gctx, dto.TransactionListQuery{})
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = c.Budgets(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	palette := make([]finance.Category, 0, len(categories))
	for _, cat := range categories {
		palette = append(palette, finance.Category{ID: cat.ID, Name: cat.Name, Color: cat.Color})
	}
	txs, dropped := finance.NormalizeAll(raws, palette)
	if dropped > 0 {
		c.logger.Warn("dropped malformed transactions", "count", dropped)
	}

	if rangeName == "" {
		rangeName = finance.RangeLast30Days
	}
	window := finance.ResolveRange(rangeName, now)

	summary := finance.Summarize(txs, toFinanceBudgets(budgets), now, finance.SummaryOptions{
		Range: &window,
		TopN:  finance.DefaultTopN,
	})
	return &summary, nil
}

func toFinanceBudgets(budgets []dto.BudgetResponse) []finance.Budget {
	out := make([]finance.Budget, 0, len(budgets))
	for _, b := range budgets {
		out = append(out, finance.Budget{
			ID:        b.ID,
			Category:  finance.Category{ID: b.Category.ID, Name: b.Category.Name, Color: b.Category.Color},
			Limit:     decimal.NewFromFloat(b.Limit),
			StartDate: b.StartDate,
		})
	}
	return out
}
