package handlers

import (
	"fmt"
	"net/http"
	"time"

	"finsmart/internal/export"
)

// SpendingAnalytics returns the user's totals per category and month.
func (h *Handlers) SpendingAnalytics(w http.ResponseWriter, r *http.Request) {
	rows, err := h.finance.SpendingAnalytics(r.Context(), GetUserFromContext(r).ID)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch analytics")
		return
	}
	respondJSON(w, r, http.StatusOK, rows)
}

// ExportTransactions streams the user's transactions as CSV (default) or PDF.
func (h *Handlers) ExportTransactions(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		respondError(w, r, http.StatusBadRequest, "Unsupported export format")
		return
	}

	user := GetUserFromContext(r)
	txs, err := h.finance.ListTransactions(r.Context(), user.ID)
	if err != nil {
		h.fail(w, r, err, "Failed to fetch transactions")
		return
	}

	if format == "csv" {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
		fmt.Fprint(w, export.CSV(txs))
		return
	}

	doc, err := export.PDF(user, txs, time.Now())
	if err != nil {
		h.fail(w, r, err, "Failed to export transactions")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.pdf"`)
	w.Write(doc)
}

// DemoDashboard returns illustrative dashboard data.
func (h *Handlers) DemoDashboard(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.demo.Dashboard())
}

// DemoAnalysis returns illustrative analysis data.
func (h *Handlers) DemoAnalysis(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, h.demo.Analysis())
}
