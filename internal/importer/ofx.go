package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"fintrack/internal/dto"
	"fintrack/internal/logging"
	"fintrack/internal/models"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var (
	ErrEmptyStatement = errors.New("statement contains no transactions")

	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	openTagRegex  = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// Entry is one statement line ready to be posted. Merchant is the cleaned
// payee; SuggestedCategory is a default category name or empty.
type Entry struct {
	Request           dto.TransactionRequest
	Account           string
	Merchant          string
	SuggestedCategory string
	Confidence        float64
}

// Result is a parsed statement file.
type Result struct {
	Entries    []Entry
	Accounts   []string
	Duplicates int
}

type Parser struct {
	categorizer *Categorizer
	logger      *slog.Logger
}

func NewParser(categorizer *Categorizer, logger *slog.Logger) *Parser {
	if categorizer == nil {
		categorizer = NewCategorizer()
	}
	return &Parser{categorizer: categorizer, logger: logging.WithComponent(logger, "importer")}
}

// Parse reads an OFX or QFX statement. Transactions repeating a FITID already
// seen in the same file are dropped and counted in Duplicates.
func (p *Parser) Parse(ctx context.Context, r io.Reader) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read statement: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocess(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse statement: %w", err)
	}

	result := &Result{}
	seen := make(map[string]struct{})
	accounts := make(map[string]struct{})

	collect := func(account string, list *ofxgo.TransactionList) {
		if list == nil {
			return
		}
		if _, ok := accounts[account]; !ok && account != "" {
			accounts[account] = struct{}{}
			result.Accounts = append(result.Accounts, account)
		}
		for _, tx := range list.Transactions {
			entry, ok := p.convert(tx, account)
			if !ok {
				continue
			}
			if id := entry.Request.ExternalID; id != "" {
				if _, dup := seen[id]; dup {
					result.Duplicates++
					continue
				}
				seen[id] = struct{}{}
			}
			result.Entries = append(result.Entries, entry)
		}
	}

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			collect(string(stmt.BankAcctFrom.AcctID), stmt.BankTranList)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			collect(string(stmt.CCAcctFrom.AcctID), stmt.BankTranList)
		}
	}

	p.logger.InfoContext(ctx, "parsed statement",
		slog.Int("transactions", len(result.Entries)),
		slog.Int("accounts", len(result.Accounts)),
		slog.Int("duplicates", result.Duplicates),
	)

	if len(result.Entries) == 0 {
		return result, ErrEmptyStatement
	}
	return result, nil
}

func (p *Parser) convert(tx ofxgo.Transaction, account string) (Entry, bool) {
	amount, err := decimal.NewFromString(tx.TrnAmt.FloatString(2))
	if err != nil || amount.IsZero() {
		p.logger.Warn("skipping statement line", slog.String("fitid", string(tx.FiTID)), slog.String("amount", tx.TrnAmt.FloatString(2)))
		return Entry{}, false
	}

	txType := models.TransactionTypeIncome
	if amount.IsNegative() {
		txType = models.TransactionTypeExpense
	}

	merchant := merchantName(tx)
	description := merchant
	if description == "" {
		description = fmt.Sprint(tx.TrnType)
	}
	if len(description) > 255 {
		description = description[:255]
	}

	entry := Entry{
		Request: dto.TransactionRequest{
			Date:        tx.DtPosted.Time.UTC().Format(dateLayout),
			Description: description,
			Type:        txType,
			Amount:      amount.Abs(),
			ExternalID:  string(tx.FiTID),
		},
		Account:  account,
		Merchant: merchant,
	}
	entry.SuggestedCategory, entry.Confidence = p.categorizer.Categorize(merchant, txType)
	return entry, true
}

// merchantName prefers PAYEE, then NAME, then MEMO when NAME is generic.
// Card-network prefixes and a leading MM/DD are removed.
func merchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))
	if tx.Memo != "" && isGenericName(name) {
		name = strings.TrimSpace(string(tx.Memo))
	}

	upper := strings.ToUpper(name)
	for _, prefix := range []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	} {
		if strings.HasPrefix(upper, prefix) {
			name = name[len(prefix):]
			break
		}
	}

	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		if _, err := time.Parse("01/02", name[:5]); err == nil {
			name = strings.TrimSpace(name[6:])
		}
	}
	return name
}

func isGenericName(name string) bool {
	switch strings.ToUpper(name) {
	case "", "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}

// preprocess fixes formatting issues some banks emit: leading blank lines,
// mixed-case SEVERITY values and SGML tags missing their closing bracket.
func preprocess(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)
	return openTagRegex.ReplaceAllString(content, "$1>")
}
