package importer

import (
	"strings"

	"fintrack/internal/models"

	"github.com/google/uuid"
)

const fuzzyThreshold = 0.7

type merchantPattern struct {
	category   string
	confidence float64
}

type keywordPattern struct {
	keywords   []string
	category   string
	confidence float64
}

// Categorizer suggests one of the default category names for a statement
// line. Merchant patterns are tried first, then keywords, then a fuzzy match
// on merchant names.
type Categorizer struct {
	merchants map[string]merchantPattern
	keywords  []keywordPattern
}

func NewCategorizer() *Categorizer {
	return &Categorizer{
		merchants: initMerchantPatterns(),
		keywords:  initKeywordPatterns(),
	}
}

// Categorize returns the suggested category name and a confidence in [0,1].
// Income lines only ever map to Salary.
func (c *Categorizer) Categorize(merchant, txType string) (string, float64) {
	if merchant == "" {
		return "", 0
	}
	normalized := normalizeForMatching(merchant)

	if txType == models.TransactionTypeIncome {
		for _, p := range c.keywords {
			if p.category == "Salary" && containsAny(normalized, p.keywords) {
				return p.category, p.confidence
			}
		}
		return "", 0
	}

	for pattern, m := range c.merchants {
		if strings.Contains(normalized, normalizeForMatching(pattern)) {
			return m.category, m.confidence
		}
	}

	for _, p := range c.keywords {
		if p.category != "Salary" && containsAny(normalized, p.keywords) {
			return p.category, p.confidence
		}
	}

	if match, score := c.fuzzyMatchMerchant(normalized); match != "" {
		m := c.merchants[match]
		return m.category, score * m.confidence
	}
	return "", 0
}

// Resolve maps a suggested category name onto the user's categories.
func Resolve(suggested string, categories []models.Category) *uuid.UUID {
	if suggested == "" {
		return nil
	}
	key := models.CategoryNameKey(suggested)
	for _, cat := range categories {
		if models.CategoryNameKey(cat.Name) == key {
			id := cat.ID
			return &id
		}
	}
	return nil
}

func (c *Categorizer) fuzzyMatchMerchant(input string) (string, float64) {
	var best string
	var bestScore float64
	for merchant := range c.merchants {
		score := calculateSimilarity(input, normalizeForMatching(merchant))
		if score > bestScore && score > fuzzyThreshold {
			best, bestScore = merchant, score
		}
	}
	return best, bestScore
}

func normalizeForMatching(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("'", "", ".", "", ",", "", "*", " ", "#", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

func containsAny(s string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(s, strings.ToLower(k)) {
			return true
		}
	}
	return false
}

func initMerchantPatterns() map[string]merchantPattern {
	return map[string]merchantPattern{
		"Whole Foods": {"Food", 0.95},
		"Trader Joe":  {"Food", 0.95},
		"Kroger":      {"Food", 0.95},
		"Safeway":     {"Food", 0.95},
		"Aldi":        {"Food", 0.95},
		"Costco":      {"Food", 0.90},
		"Starbucks":   {"Food", 0.95},
		"McDonald":    {"Food", 0.95},
		"Chipotle":    {"Food", 0.95},
		"Subway":      {"Food", 0.90},
		"Panera":      {"Food", 0.95},
		"Dunkin":      {"Food", 0.95},

		"Uber":    {"Transport", 0.95},
		"Lyft":    {"Transport", 0.95},
		"Shell":   {"Transport", 0.95},
		"Chevron": {"Transport", 0.95},
		"Exxon":   {"Transport", 0.95},
		"Metro":   {"Transport", 0.85},

		"Netflix": {"Entertainment", 0.95},
		"Spotify": {"Entertainment", 0.95},
		"AMC":     {"Entertainment", 0.95},
		"Hulu":    {"Entertainment", 0.95},
		"Disney":  {"Entertainment", 0.90},

		"Amazon":     {"Shopping", 0.95},
		"Target":     {"Shopping", 0.90},
		"Best Buy":   {"Shopping", 0.95},
		"Home Depot": {"Shopping", 0.95},
		"Ikea":       {"Shopping", 0.95},
		"Walmart":    {"Shopping", 0.90},

		"Verizon":  {"Utilities", 0.95},
		"AT&T":     {"Utilities", 0.95},
		"T-Mobile": {"Utilities", 0.95},
		"Comcast":  {"Utilities", 0.95},
		"PG&E":     {"Utilities", 0.95},
	}
}

func initKeywordPatterns() []keywordPattern {
	return []keywordPattern{
		{[]string{"direct deposit", "salary", "payroll", "paycheck", "wage"}, "Salary", 0.95},
		{[]string{"monthly rent", "rent payment", "landlord", "property management", "apartments"}, "Rent", 0.90},
		{[]string{"electric", "water dept", "water department", "internet", "gas company", "phone bill", "utility"}, "Utilities", 0.90},
		{[]string{"restaurant", "cafe", "coffee", "grocery", "market", "bakery", "pizza"}, "Food", 0.75},
		{[]string{"parking", "transit", "toll", "fuel", "taxi"}, "Transport", 0.75},
		{[]string{"cinema", "theater", "theatre", "concert", "steam games"}, "Entertainment", 0.75},
	}
}

// calculateSimilarity is 1 - levenshtein/maxLen.
func calculateSimilarity(s1, s2 string) float64 {
	if s1 == s2 {
		return 1
	}
	if len(s1) == 0 || len(s2) == 0 {
		return 0
	}
	maxLen := len(s1)
	if len(s2) > maxLen {
		maxLen = len(s2)
	}
	return 1 - float64(levenshteinDistance(s1, s2))/float64(maxLen)
}

func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
