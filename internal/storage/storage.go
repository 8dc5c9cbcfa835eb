package storage

import (
	"context"
	"errors"
	"time"

	"finsmart/internal/models"

	"github.com/shopspring/decimal"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrDuplicateEmail indicates the users.email unique constraint rejected an insert.
var ErrDuplicateEmail = errors.New("email already registered")

// NewTransaction holds the fields a caller supplies when recording a transaction.
type NewTransaction struct {
	UserID      int64
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        string
}

// NewBudget holds the fields a caller supplies when creating a budget.
type NewBudget struct {
	UserID   int64
	Category string
	Amount   decimal.Decimal
	Period   string
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore persists login sessions.
type SessionStore interface {
	CreateSession(ctx context.Context, s models.Session) error
	// ValidateSession returns the session owner if the token exists, is not
	// expired at now, and its user still exists. Otherwise ErrNotFound.
	ValidateSession(ctx context.Context, token string, now time.Time) (*models.User, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// FinanceStore persists transactions and budgets. Every read is scoped to a user.
type FinanceStore interface {
	CreateTransaction(ctx context.Context, t NewTransaction) (int64, error)
	ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error)
	CreateBudget(ctx context.Context, b NewBudget) (int64, error)
	ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error)
	SpendingByCategoryMonth(ctx context.Context, userID int64) ([]models.SpendingRow, error)
}

// Store is the full persistence surface used by the server.
type Store interface {
	UserStore
	SessionStore
	FinanceStore
	Close() error
}
