package export

import (
	"bytes"
	"fmt"
	"time"

	"finsmart/internal/models"

	"github.com/phpdave11/gofpdf"
	"github.com/shopspring/decimal"
)

// Totals splits a set of transactions into income and expenses.
type Totals struct {
	Income   decimal.Decimal
	Expenses decimal.Decimal
}

// Net is income plus (negative) expenses.
func (t Totals) Net() decimal.Decimal {
	return t.Income.Add(t.Expenses)
}

// Summarize sums positive amounts as income and negative amounts as expenses.
func Summarize(transactions []models.Transaction) Totals {
	var t Totals
	for _, tx := range transactions {
		if tx.Amount.IsNegative() {
			t.Expenses = t.Expenses.Add(tx.Amount)
		} else {
			t.Income = t.Income.Add(tx.Amount)
		}
	}
	return t
}

// PDF renders a statement of transactions for user with income and expense totals.
func PDF(user *models.User, transactions []models.Transaction, generated time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("FinSmart Statement", false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FinSmart Statement")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, tr(fmt.Sprintf("Account: %s <%s>", user.Name, user.Email)))
	pdf.Ln(6)
	pdf.Cell(0, 8, fmt.Sprintf("Generated: %s", generated.Format("2006-01-02 15:04 MST")))
	pdf.Ln(10)

	totals := Summarize(transactions)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(60, 8, "Income: "+totals.Income.StringFixed(2))
	pdf.Cell(60, 8, "Expenses: "+totals.Expenses.StringFixed(2))
	pdf.Cell(60, 8, "Net: "+totals.Net().StringFixed(2))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(28, 7, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(82, 7, "Description", "B", 0, "L", false, 0, "")
	pdf.CellFormat(45, 7, "Category", "B", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Amount", "B", 0, "R", false, 0, "")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 10)
	if len(transactions) == 0 {
		pdf.Cell(0, 7, "No transactions recorded.")
		pdf.Ln(7)
	}
	for _, t := range transactions {
		pdf.CellFormat(28, 6, t.Date, "", 0, "L", false, 0, "")
		pdf.CellFormat(82, 6, tr(truncate(t.Description, 48)), "", 0, "L", false, 0, "")
		pdf.CellFormat(45, 6, tr(truncate(t.Category, 26)), "", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, t.Amount.StringFixed(2), "", 0, "R", false, 0, "")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "..."
}
