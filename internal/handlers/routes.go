package handlers

import "net/http"

// Routes registers every API endpoint on a new ServeMux.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	protected := func(fn http.HandlerFunc) http.Handler {
		return h.AuthMiddleware(fn)
	}

	mux.HandleFunc("GET /healthz", h.Health)

	mux.HandleFunc("POST /api/register", h.Register)
	mux.HandleFunc("POST /api/login", h.Login)
	mux.Handle("POST /api/logout", protected(h.Logout))
	mux.HandleFunc("GET /api/check-auth", h.CheckAuth)

	mux.Handle("POST /api/transactions", protected(h.CreateTransaction))
	mux.Handle("GET /api/transactions", protected(h.ListTransactions))
	mux.Handle("GET /api/transactions/export", protected(h.ExportTransactions))
	mux.Handle("POST /api/budgets", protected(h.CreateBudget))
	mux.Handle("GET /api/budgets", protected(h.ListBudgets))
	mux.Handle("GET /api/analytics/spending", protected(h.SpendingAnalytics))

	mux.Handle("GET /api/demo/dashboard", protected(h.DemoDashboard))
	mux.Handle("GET /api/demo/analysis", protected(h.DemoAnalysis))

	return mux
}
