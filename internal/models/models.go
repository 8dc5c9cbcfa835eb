package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as plain JSON numbers (-50, 150.5), not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the calendar date format used for transaction dates.
const DateLayout = "2006-01-02"

// User represents a registered account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transaction is a single income (positive amount) or expense (negative amount).
type Transaction struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Date        string          `json:"date"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Budget is a spending limit for a category over a free-text period.
type Budget struct {
	ID        int64           `json:"id"`
	UserID    int64           `json:"user_id"`
	Category  string          `json:"category"`
	Amount    decimal.Decimal `json:"amount"`
	Period    string          `json:"period"`
	CreatedAt time.Time       `json:"created_at"`
}

// Session binds an opaque token to a user until ExpiresAt.
type Session struct {
	Token     string    `json:"-"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SpendingRow is one (category, month) bucket of summed amounts.
type SpendingRow struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
	Month    string          `json:"month"`
}
