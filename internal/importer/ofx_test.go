package importer

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ofxHeader = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
`

const bankStatement = ofxHeader + `<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>1234567890
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240101090000[0:GMT]
<TRNAMT>4200.00
<FITID>2024010101
<NAME>ACME CORP PAYROLL
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE STARBUCKS STORE 1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-25.50
<FITID>2024011501
<NAME>POS PURCHASE STARBUCKS STORE 1234
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240120120000[0:GMT]
<TRNAMT>-125.00
<FITID>2024012001
<NAME>DEBIT
<MEMO>Whole Foods Market
</STMTTRN>
<STMTTRN>
<TRNTYPE>CHECK
<DTPOSTED>20240125120000[0:GMT]
<TRNAMT>-500.00
<FITID>2024012501
<CHECKNUM>1234
<NAME>CHECK 1234
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

const cardStatement = ofxHeader + `<CREDITCARDMSGSRSV1>
<CCSTMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<CCSTMTRS>
<CURDEF>USD
<CCACCTFROM>
<ACCTID>4111111111111111
</CCACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240110120000[0:GMT]
<TRNAMT>-45.99
<FITID>CC2024011001
<NAME>AMAZON.COM*RT4Y7HG2
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-15.00
<FITID>CC2024011501
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>-500.00
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</CCSTMTRS>
</CCSTMTTRNRS>
</CREDITCARDMSGSRSV1>
</OFX>`

func newTestParser() *Parser {
	return NewParser(NewCategorizer(), slog.Default())
}

func TestParse_BankStatement(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), strings.NewReader(bankStatement))
	require.NoError(t, err)

	require.Len(t, result.Entries, 4)
	assert.Equal(t, 1, result.Duplicates)
	assert.Equal(t, []string{"1234567890"}, result.Accounts)

	salary := result.Entries[0]
	assert.Equal(t, models.TransactionTypeIncome, salary.Request.Type)
	assert.True(t, salary.Request.Amount.Equal(decimal.NewFromInt(4200)))
	assert.Equal(t, "2024-01-01", salary.Request.Date)
	assert.Equal(t, "2024010101", salary.Request.ExternalID)
	assert.Equal(t, "Salary", salary.SuggestedCategory)

	coffee := result.Entries[1]
	assert.Equal(t, models.TransactionTypeExpense, coffee.Request.Type)
	assert.True(t, coffee.Request.Amount.Equal(decimal.RequireFromString("25.50")))
	assert.Equal(t, "STARBUCKS STORE 1234", coffee.Request.Description)
	assert.Equal(t, "Food", coffee.SuggestedCategory)

	groceries := result.Entries[2]
	assert.Equal(t, "Whole Foods Market", groceries.Merchant)
	assert.Equal(t, "Food", groceries.SuggestedCategory)

	check := result.Entries[3]
	assert.Empty(t, check.SuggestedCategory)
	assert.Equal(t, "CHECK 1234", check.Request.Description)
}

func TestParse_CreditCardStatement(t *testing.T) {
	result, err := newTestParser().Parse(context.Background(), strings.NewReader(cardStatement))
	require.NoError(t, err)

	require.Len(t, result.Entries, 2)
	assert.Equal(t, "4111111111111111", result.Entries[0].Account)
	assert.Equal(t, "Shopping", result.Entries[0].SuggestedCategory)
	assert.Equal(t, "Entertainment", result.Entries[1].SuggestedCategory)
	for _, e := range result.Entries {
		assert.Equal(t, models.TransactionTypeExpense, e.Request.Type)
		assert.True(t, e.Request.Amount.IsPositive())
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"garbage", "not valid OFX"},
		{"empty", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestParser().Parse(context.Background(), strings.NewReader(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestPreprocess(t *testing.T) {
	in := "\n\n  OFXHEADER:100\n<SEVERITY>Info</SEVERITY>\n<CODE\n"
	out := preprocess(in)

	assert.True(t, strings.HasPrefix(out, "OFXHEADER"))
	assert.Contains(t, out, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, out, "<CODE>")
}

func TestIsGenericName(t *testing.T) {
	assert.True(t, isGenericName("debit"))
	assert.True(t, isGenericName(""))
	assert.False(t, isGenericName("Netflix"))
}
