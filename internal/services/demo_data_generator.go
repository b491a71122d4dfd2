package services

import (
	"time"

	"fintrack/internal/finance"
	"fintrack/internal/models"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type merchant struct {
	name     string
	category string
}

const (
	salaryDay       = 1
	rentDay         = 3
	billHour        = 14
	salaryHour      = 9
	maxDailyBuys    = 3
	minBalanceFloor = 50
)

// purchasePool are the day-to-day merchants, keyed by default category name.
var purchasePool = []merchant{
	{"Whole Foods Market", "Food"},
	{"Trader Joe's", "Food"},
	{"Starbucks", "Food"},
	{"Chipotle Mexican Grill", "Food"},
	{"Panera Bread", "Food"},
	{"Uber", "Transport"},
	{"Lyft", "Transport"},
	{"Shell", "Transport"},
	{"Metro Transit", "Transport"},
	{"Netflix", "Entertainment"},
	{"Spotify", "Entertainment"},
	{"AMC Theaters", "Entertainment"},
	{"Amazon.com", "Shopping"},
	{"Target", "Shopping"},
	{"IKEA", "Shopping"},
	{"Best Buy", "Shopping"},
}

var billPool = []merchant{
	{"Electric Company", "Utilities"},
	{"Internet Provider", "Utilities"},
	{"Water Department", "Utilities"},
	{"Phone Bill", "Utilities"},
}

var amountRanges = map[string][2]float64{
	"Food":          {6, 120},
	"Transport":     {8, 70},
	"Entertainment": {9, 60},
	"Shopping":      {15, 300},
	"Utilities":     {40, 160},
}

// demoBudgetLimits are the monthly limits GenerateBudgets creates.
var demoBudgetLimits = map[string]int64{
	"Food":          450,
	"Transport":     150,
	"Entertainment": 100,
	"Shopping":      300,
	"Utilities":     350,
}

// DemoDataGenerator builds a plausible ledger: a monthly salary, rent and
// utility bills, and one to three purchases a day. Expenses that would take
// the running balance below a small floor are skipped.
type DemoDataGenerator struct {
	faker *gofakeit.Faker
}

// NewDemoDataGenerator seeds the generator; seed 0 picks a random seed.
func NewDemoDataGenerator(seed uint64) DemoDataGeneratorInterface {
	return &DemoDataGenerator{faker: gofakeit.New(seed)}
}

func (g *DemoDataGenerator) GenerateTransactions(userID uuid.UUID, categories []models.Category, months int, now time.Time) []models.Transaction {
	if months <= 0 {
		months = 1
	}
	byName := indexByName(categories)
	salary := decimal.NewFromInt(int64(g.faker.IntRange(35, 60) * 100))
	rent := decimal.NewFromInt(int64(g.faker.IntRange(9, 16) * 100))
	employer := g.faker.Company()

	end := now.UTC()
	start := finance.StartOfMonth(end).AddDate(0, -(months - 1), 0)

	out := make([]models.Transaction, 0, months*70)
	balance := decimal.NewFromInt(minBalanceFloor)

	add := func(date time.Time, description, category, txType string, amount decimal.Decimal) {
		if date.After(end) {
			return
		}
		if txType == models.TransactionTypeExpense {
			if balance.Sub(amount).LessThan(decimal.NewFromInt(minBalanceFloor)) {
				return
			}
			balance = balance.Sub(amount)
		} else {
			balance = balance.Add(amount)
		}

		tx := models.Transaction{
			ID:          uuid.New(),
			UserID:      userID,
			Date:        date,
			Description: description,
			Type:        txType,
			Amount:      amount,
		}
		if c, ok := byName[models.CategoryNameKey(category)]; ok {
			id := c.ID
			tx.CategoryID = &id
		}
		out = append(out, tx)
	}

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if day.Day() == salaryDay {
			add(at(day, salaryHour), "Salary - "+employer, "Salary", models.TransactionTypeIncome, salary)
		}
		if day.Day() == rentDay {
			add(at(day, billHour), "Monthly rent", "Rent", models.TransactionTypeExpense, rent)
		}
		for _, bill := range billPool {
			// each bill lands on a fixed day derived from its name
			if day.Day() == 5+len(bill.name)%20 {
				add(at(day, billHour), "Bill Payment - "+bill.name, bill.category, models.TransactionTypeExpense, g.amount(bill.category))
			}
		}

		for i := g.faker.IntRange(1, maxDailyBuys); i > 0; i-- {
			m := purchasePool[g.faker.IntRange(0, len(purchasePool)-1)]
			when := at(day, g.faker.IntRange(7, 22)).Add(time.Duration(g.faker.IntRange(0, 59)) * time.Minute)
			add(when, "Purchase at "+m.name, m.category, models.TransactionTypeExpense, g.amount(m.category))
		}
	}

	return out
}

func (g *DemoDataGenerator) GenerateBudgets(userID uuid.UUID, categories []models.Category, now time.Time) []models.Budget {
	start := finance.StartOfMonth(now)
	out := make([]models.Budget, 0, len(demoBudgetLimits))
	for _, c := range categories {
		limit, ok := demoBudgetLimits[c.Name]
		if !ok {
			continue
		}
		out = append(out, models.Budget{
			UserID:     userID,
			CategoryID: c.ID,
			Limit:      decimal.NewFromInt(limit),
			StartDate:  start,
		})
	}
	return out
}

func (g *DemoDataGenerator) amount(category string) decimal.Decimal {
	r, ok := amountRanges[category]
	if !ok {
		r = [2]float64{10, 100}
	}
	return decimal.NewFromFloat(g.faker.Float64Range(r[0], r[1])).Round(2)
}

func indexByName(categories []models.Category) map[string]models.Category {
	idx := make(map[string]models.Category, len(categories))
	for _, c := range categories {
		idx[models.CategoryNameKey(c.Name)] = c
	}
	return idx
}

func at(day time.Time, hour int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}
