// Package report renders analytics as styled terminal text.
package report

import (
	"fmt"
	"strings"

	"fintrack/internal/dto"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	barWidth  = 20
	nameWidth = 16
)

// Options controls rendering. A zero Options renders in USD without the
// monthly table.
type Options struct {
	Currency    string
	ShowMonthly bool
}

var currencySymbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
	"JPY": "¥",
	"INR": "₹",
}

var printer = message.NewPrinter(language.English)

// FormatMoney renders v with thousands separators and two decimals.
func FormatMoney(v float64, currency string) string {
	currency = strings.ToUpper(currency)
	if currency == "" {
		currency = "USD"
	}
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	amount := printer.Sprintf("%.2f", v)
	if symbol, ok := currencySymbols[currency]; ok {
		return sign + symbol + amount
	}
	return sign + amount + " " + currency
}

// Bar draws a horizontal bar of width cells filled to percent (0..100).
// Values above 100 fill the bar.
func Bar(percent float64, width int) string {
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func formatChange(v float64, points bool) string {
	unit := "%"
	if points {
		unit = " pts"
	}
	text := fmt.Sprintf("%+.1f%s", v, unit)
	switch {
	case v > 0:
		return positiveStyle.Render(text)
	case v < 0:
		return negativeStyle.Render(text)
	}
	return subtleStyle.Render(text)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// Overview renders the dashboard: range, KPI boxes, top categories, budgets
// and recent transactions.
func Overview(o dto.AnalyticsOverview, opts Options) string {
	sections := []string{header(o.Range), kpis(o.KPIs, o.Change, opts.Currency)}

	if len(o.Top) > 0 {
		sections = append(sections, topCategories(o.Top, opts.Currency))
	}
	if len(o.Budgets) > 0 {
		sections = append(sections, budgets(o.Budgets, o.BudgetSummary, opts.Currency))
	}
	if opts.ShowMonthly && len(o.Monthly) > 0 {
		sections = append(sections, monthly(o.Monthly, opts.Currency))
	}
	sections = append(sections, recent(o.Recent, opts.Currency))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func header(r *dto.RangeResponse) string {
	if r == nil {
		return titleStyle.Render("All time")
	}
	// End is exclusive
	last := r.End.AddDate(0, 0, -1)
	return titleStyle.Render(r.Name) + " " +
		subtleStyle.Render(fmt.Sprintf("%s to %s", r.Start.Format("Jan 2, 2006"), last.Format("Jan 2, 2006")))
}

func kpiBox(label, value, change string) string {
	lines := []string{kpiLabelStyle.Render(label), kpiValueStyle.Render(value)}
	if change != "" {
		lines = append(lines, change)
	}
	return kpiBoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func kpis(k dto.KPIResponse, c dto.KPIChangeResponse, currency string) string {
	net := FormatMoney(k.NetBalance, currency)
	if k.NetBalance < 0 {
		net = negativeStyle.Render(net)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		kpiBox("Income", FormatMoney(k.TotalIncome, currency), formatChange(c.TotalIncome, false)),
		kpiBox("Expenses", FormatMoney(k.TotalExpenses, currency), formatChange(c.TotalExpenses, false)),
		kpiBox("Net balance", net, subtleStyle.Render(fmt.Sprintf("%d transactions", k.TransactionCount))),
		kpiBox("Savings rate", fmt.Sprintf("%.1f%%", k.SavingsRate), formatChange(c.SavingsRate, true)),
		kpiBox("Budget adherence", fmt.Sprintf("%.0f%%", k.BudgetAdherence), formatChange(c.BudgetAdherence, true)),
	)
}

func topCategories(top []dto.TopCategoryResponse, currency string) string {
	lines := []string{sectionStyle.Render("Top spending")}
	for _, t := range top {
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(t.Color)).Render(Bar(t.Percentage, barWidth))
		lines = append(lines, fmt.Sprintf("%-*s %s %5.1f%%  %s",
			nameWidth, truncate(t.Name, nameWidth), bar, t.Percentage, FormatMoney(t.Amount, currency)))
	}
	return strings.Join(lines, "\n")
}

func budgets(list []dto.BudgetComparisonResponse, summary dto.BudgetSummaryResponse, currency string) string {
	lines := []string{sectionStyle.Render("Budgets")}
	for _, b := range list {
		style := positiveStyle
		status := ""
		if b.Exceeded {
			style = negativeStyle
			status = negativeStyle.Render(" over by " + FormatMoney(b.Actual-b.Limit, currency))
		}
		lines = append(lines, fmt.Sprintf("%-*s %s %s / %s%s",
			nameWidth, truncate(b.Category, nameWidth), style.Render(Bar(b.Progress, barWidth)),
			FormatMoney(b.Actual, currency), FormatMoney(b.Limit, currency), status))
	}
	lines = append(lines, subtleStyle.Render(fmt.Sprintf("Total %s of %s spent, %s remaining",
		FormatMoney(summary.Spent, currency), FormatMoney(summary.TotalBudget, currency), FormatMoney(summary.Remaining, currency))))
	return strings.Join(lines, "\n")
}

func monthly(points []dto.MonthlyPointResponse, currency string) string {
	lines := []string{
		sectionStyle.Render("Monthly"),
		subtleStyle.Render(fmt.Sprintf("%-10s %14s %14s %14s", "Month", "Income", "Expenses", "Savings")),
	}
	for _, p := range points {
		savings := fmt.Sprintf("%14s", FormatMoney(p.Savings, currency))
		if p.Savings < 0 {
			savings = negativeStyle.Render(savings)
		}
		lines = append(lines, fmt.Sprintf("%-10s %14s %14s %s",
			p.Month, FormatMoney(p.Income, currency), FormatMoney(p.Expenses, currency), savings))
	}
	return strings.Join(lines, "\n")
}

func recent(txs []dto.TransactionResponse, currency string) string {
	lines := []string{sectionStyle.Render("Recent transactions")}
	if len(txs) == 0 {
		return strings.Join(append(lines, subtleStyle.Render("No transactions in this range")), "\n")
	}
	for _, t := range txs {
		category := "Uncategorized"
		if t.Category != nil && t.Category.Name != "" {
			category = t.Category.Name
		}
		amount := FormatMoney(t.Amount, currency)
		if t.Type == "expense" {
			amount = negativeStyle.Render("-" + amount)
		} else {
			amount = positiveStyle.Render("+" + amount)
		}
		lines = append(lines, fmt.Sprintf("%s  %-24s %-*s %s",
			t.Date.Format("2006-01-02"), truncate(t.Description, 24), nameWidth, truncate(category, nameWidth), amount))
	}
	return strings.Join(lines, "\n")
}
