package export

import (
	"bytes"
	"testing"
	"time"

	"finsmart/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, desc, amount, category string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Description: desc,
		Amount:      decimal.RequireFromString(amount),
		Category:    category,
	}
}

func TestCSV(t *testing.T) {
	got := CSV([]models.Transaction{
		tx("2023-08-01", "Grocery Shopping", "150", "Shopping"),
		tx("2023-08-02", "Restaurant", "-45.5", "Food"),
	})
	want := "Date,Description,Amount,Category\n" +
		"2023-08-01,\"Grocery Shopping\",150,Shopping\n" +
		"2023-08-02,\"Restaurant\",-45.5,Food"
	assert.Equal(t, want, got)
}

func TestCSVEmpty(t *testing.T) {
	assert.Equal(t, CSVHeader, CSV(nil))
}

func TestCSVEscapesQuotes(t *testing.T) {
	got := CSV([]models.Transaction{tx("2024-01-01", `The "Good" Diner`, "-12", "Food")})
	assert.Equal(t, CSVHeader+"\n2024-01-01,\"The \"\"Good\"\" Diner\",-12,Food", got)
}

func TestSummarize(t *testing.T) {
	totals := Summarize([]models.Transaction{
		tx("2024-01-01", "Salary", "2000", "Income"),
		tx("2024-01-02", "Rent", "-1200.50", "Housing"),
		tx("2024-01-03", "Lunch", "-9.50", "Food"),
	})
	assert.True(t, totals.Income.Equal(decimal.NewFromInt(2000)))
	assert.True(t, totals.Expenses.Equal(decimal.NewFromInt(-1210)))
	assert.Equal(t, "790.00", totals.Net().StringFixed(2))
}

func TestPDF(t *testing.T) {
	user := &models.User{Name: "Zoë", Email: "zoe@example.com"}
	doc, err := PDF(user, []models.Transaction{
		tx("2024-01-01", "Café au lait", "-4.20", "Food"),
		tx("2024-01-02", "A very long description that will certainly be cut short in the table", "10", "Other"),
	}, time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestPDFNoTransactions(t *testing.T) {
	doc, err := PDF(&models.User{Name: "Ann", Email: "ann@x.com"}, nil, time.Now())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdefgh", 4))
}
