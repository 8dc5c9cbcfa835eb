package handlers

import (
	"net/http"

	"finsmart/internal/service"

	"github.com/shopspring/decimal"
)

type transactionRequest struct {
	Amount      *decimal.Decimal `json:"amount" validate:"required"`
	Category    string           `json:"category" validate:"notblank"`
	Description string           `json:"description"`
	Date        string           `json:"date" validate:"required,datetime=2006-01-02"`
}

var transactionRules = []service.Rule{
	{Field: "Amount", Tag: "required", Message: "Amount, category and date are required"},
	{Field: "Category", Tag: "notblank", Message: "Amount, category and date are required"},
	{Field: "Date", Tag: "required", Message: "Amount, category and date are required"},
	{Field: "Date", Tag: "datetime", Message: "Date must be in YYYY-MM-DD format"},
}

func (req transactionRequest) validate() (service.TransactionInput, error) {
	if err := service.Check(req, transactionRules); err != nil {
		return service.TransactionInput{}, err
	}
	return service.TransactionInput{
		Amount:      *req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Date:        req.Date,
	}, nil
}

type budgetRequest struct {
	Category string           `json:"category" validate:"notblank"`
	Amount   *decimal.Decimal `json:"amount" validate:"required"`
	Period   string           `json:"period" validate:"notblank"`
}

var budgetRules = []service.Rule{
	{Field: "Category", Message: "Category, amount and period are required"},
	{Field: "Amount", Message: "Category, amount and period are required"},
	{Field: "Period", Message: "Category, amount and period are required"},
}

func (req budgetRequest) validate() (service.BudgetInput, error) {
	if err := service.Check(req, budgetRules); err != nil {
		return service.BudgetInput{}, err
	}
	return service.BudgetInput{Category: req.Category, Amount: *req.Amount, Period: req.Period}, nil
}

type createdResponse struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// CreateTransaction records a transaction for the authenticated user.
func (h *Handlers) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Failed to create transaction")
		return
	}
	in, err := req.validate()
	if err != nil {
		h.fail(w, r, err, "Failed to create transaction")
		return
	}

	user := GetUserFromContext(r)
	id, err := h.finance.CreateTransaction(r.Context(), user.ID, in)
	if err != nil {
		h.fail(w, r, err, "Failed to create transaction")
		return
	}
	respondJSON(w, r, http.StatusOK, createdResponse{ID: id, Message: "Transaction created successfully"})
}

// ListTransactions returns the authenticated user's transactions.
func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txs, err := h.finance.ListTransactions(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch transactions")
		return
	}
	respondJSON(w, r, http.StatusOK, txs)
}

// CreateBudget records a budget for the authenticated user.
func (h *Handlers) CreateBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.fail(w, r, err, "Failed to create budget")
		return
	}
	in, err := req.validate()
	if err != nil {
		h.fail(w, r, err, "Failed to create budget")
		return
	}

	id, err := h.finance.CreateBudget(r.Context(), GetUserFromContext(r).ID, in)
	if err != nil {
		h.fail(w, r, err, "Failed to create budget")
		return
	}
	respondJSON(w, r, http.StatusOK, createdResponse{ID: id, Message: "Budget created successfully"})
}

// ListBudgets returns the authenticated user's budgets.
func (h *Handlers) ListBudgets(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.finance.ListBudgets(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch budgets")
		return
	}
	respondJSON(w, r, http.StatusOK, budgets)
}
