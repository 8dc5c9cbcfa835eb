package service

import (
	"context"
	"fmt"

	"finsmart/internal/events"
	"finsmart/internal/models"
	"finsmart/internal/storage"

	"github.com/shopspring/decimal"
)

// TransactionInput is a well-typed transaction as accepted from a client.
type TransactionInput struct {
	Amount      decimal.Decimal
	Category    string
	Description string
	Date        string
}

// BudgetInput is a well-typed budget as accepted from a client.
type BudgetInput struct {
	Category string
	Amount   decimal.Decimal
	Period   string
}

// FinanceService records and reads transactions and budgets for one user at a
// time. The user id always comes from the authenticated session.
type FinanceService struct {
	store  storage.FinanceStore
	events events.Publisher
}

// NewFinanceService creates a FinanceService.
func NewFinanceService(store storage.FinanceStore, publisher events.Publisher) *FinanceService {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &FinanceService{store: store, events: publisher}
}

// CreateTransaction stores a transaction owned by userID. Amount sign,
// category vocabulary and date range are not restricted.
func (s *FinanceService) CreateTransaction(ctx context.Context, userID int64, in TransactionInput) (int64, error) {
	id, err := s.store.CreateTransaction(ctx, storage.NewTransaction{
		UserID:      userID,
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	publish(ctx, s.events, events.New(events.TransactionCreated, userID, id))
	return id, nil
}

// ListTransactions returns userID's transactions, most recent date first.
func (s *FinanceService) ListTransactions(ctx context.Context, userID int64) ([]models.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return txs, nil
}

// CreateBudget stores a budget owned by userID.
func (s *FinanceService) CreateBudget(ctx context.Context, userID int64, in BudgetInput) (int64, error) {
	id, err := s.store.CreateBudget(ctx, storage.NewBudget{
		UserID:   userID,
		Category: in.Category,
		Amount:   in.Amount,
		Period:   in.Period,
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrStore, err)
	}
	publish(ctx, s.events, events.New(events.BudgetCreated, userID, id))
	return id, nil
}

// ListBudgets returns all of userID's budgets.
func (s *FinanceService) ListBudgets(ctx context.Context, userID int64) ([]models.Budget, error) {
	budgets, err := s.store.ListBudgets(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return budgets, nil
}

// SpendingAnalytics sums userID's amounts by category and calendar month,
// latest month first and larger totals first within a month.
func (s *FinanceService) SpendingAnalytics(ctx context.Context, userID int64) ([]models.SpendingRow, error) {
	rows, err := s.store.SpendingByCategoryMonth(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStore, err)
	}
	return rows, nil
}
