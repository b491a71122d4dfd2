package finance

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type NormalizeTestSuite struct {
	suite.Suite
	categories []Category
}

func TestNormalizeTestSuite(t *testing.T) {
	suite.Run(t, new(NormalizeTestSuite))
}

func (s *NormalizeTestSuite) SetupTest() {
	s.categories = []Category{
		{ID: "c1", Name: "Food", Color: "#F87171"},
		{ID: "c2", Name: "Rent", Color: ""},
	}
}

func (s *NormalizeTestSuite) decode(body string) []RawTransaction {
	var raws []RawTransaction
	s.Require().NoError(json.Unmarshal([]byte(body), &raws))
	return raws
}

func (s *NormalizeTestSuite) TestCategoryShapes() {
	raws := s.decode(`[
		{"id":"t1","date":"2024-01-05","description":"a","category":"c1","type":"expense","amount":10},
		{"id":"t2","date":"2024-01-05","description":"b","category":{"id":"c9","name":"Fun","color":"#000000"},"type":"expense","amount":"5.50"},
		{"id":"t3","date":"2024-01-05","description":"c","category":null,"type":"income","amount":100},
		{"_id":"t4","date":"2024-01-05","description":"d","category":{"_id":"c2"},"type":"expense","amount":1},
		{"id":"t5","date":"2024-01-05","description":"e","category":"unknown","type":"expense","amount":1}
	]`)

	txs, dropped := NormalizeAll(raws, s.categories)
	s.Equal(0, dropped)
	s.Require().Len(txs, 5)

	s.True(txs[0].Category.IsResolved())
	s.Equal("Food", txs[0].Category.Name())
	s.Equal("#F87171", txs[0].Category.Color())

	s.True(txs[1].Category.IsResolved())
	s.Equal("c9", txs[1].Category.ID())
	s.True(txs[1].Amount.Equal(decimal.RequireFromString("5.50")))

	s.True(txs[2].Category.IsZero())

	s.Equal("t4", txs[3].ID)
	s.True(txs[3].Category.IsResolved())
	s.Equal("Rent", txs[3].Category.Name())

	s.False(txs[4].Category.IsResolved())
	s.Equal("unknown", txs[4].Category.ID())
}

func (s *NormalizeTestSuite) TestTypeIsCaseInsensitive() {
	raws := s.decode(`[
		{"id":"a","date":"2024-01-05","type":"Income","amount":1},
		{"id":"b","date":"2024-01-05","type":"EXPENSE","amount":1},
		{"id":"c","date":"2024-01-05","type":"transfer","amount":1}
	]`)

	txs, dropped := NormalizeAll(raws, nil)
	s.Equal(1, dropped)
	s.Require().Len(txs, 2)
	s.Equal(Income, txs[0].Type)
	s.Equal(Expense, txs[1].Type)
}

func (s *NormalizeTestSuite) TestAmountIsMadeNonNegative() {
	raws := s.decode(`[{"id":"a","date":"2024-01-05","type":"expense","amount":-42.5}]`)

	txs, _ := NormalizeAll(raws, nil)
	s.Require().Len(txs, 1)
	s.True(txs[0].Amount.Equal(decimal.RequireFromString("42.5")))
	s.True(txs[0].Signed().Equal(decimal.RequireFromString("-42.5")))
}

func (s *NormalizeTestSuite) TestInvalidAmountIsDropped() {
	raws := s.decode(`[
		{"id":"a","date":"2024-01-05","type":"expense","amount":"abc"},
		{"id":"b","date":"2024-01-05","type":"expense","amount":"12,50"}
	]`)

	txs, dropped := NormalizeAll(raws, nil)
	s.Empty(txs)
	s.Equal(2, dropped)
}

func (s *NormalizeTestSuite) TestMissingAmountIsZero() {
	raws := s.decode(`[
		{"id":"a","date":"2024-01-05","type":"expense","amount":null},
		{"id":"b","date":"2024-01-05","type":"income"}
	]`)

	txs, dropped := NormalizeAll(raws, nil)
	s.Zero(dropped)
	s.Require().Len(txs, 2)
	s.True(txs[0].Amount.IsZero())
	s.True(txs[1].Amount.IsZero())

	k := ComputeKPIs(txs, nil)
	s.True(k.NetBalance.IsZero())
	s.Equal(2, k.TransactionCount)
}

func (s *NormalizeTestSuite) TestInvalidDateIsKeptWithoutDate() {
	raws := s.decode(`[{"id":"a","date":"not a date","type":"expense","amount":3}]`)

	txs, dropped := NormalizeAll(raws, nil)
	s.Equal(0, dropped)
	s.Require().Len(txs, 1)
	s.False(txs[0].HasDate)
}

func TestParseDate(t *testing.T) {
	cases := map[string]time.Time{
		"2024-01-05":               time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		"2024-01-05T10:30:00Z":     time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		"2024-01-05T10:30:00.000Z": time.Date(2024, 1, 5, 10, 30, 0, 0, time.UTC),
		"2024-01-05T23:30:00-02:00": time.Date(2024, 1, 6, 1, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, ok := ParseDate(in)
		require.True(t, ok, in)
		assert.True(t, want.Equal(got), in)
		assert.Equal(t, time.UTC, got.Location())
	}

	_, ok := ParseDate("")
	assert.False(t, ok)
	_, ok = ParseDate("05/01/2024")
	assert.False(t, ok)
}

func TestCategoryRefJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(Resolved(Category{ID: "c1", Name: "Food", Color: "#fff"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","name":"Food","color":"#fff"}`, string(data))

	data, err = json.Marshal(Unresolved("c2"))
	require.NoError(t, err)
	assert.Equal(t, `"c2"`, string(data))

	data, err = json.Marshal(CategoryRef{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}
