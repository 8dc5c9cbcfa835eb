// Package export renders a user's transactions as downloadable documents.
package export

import (
	"strings"

	"finsmart/internal/models"
)

// CSVHeader is the first line of every CSV export.
const CSVHeader = "Date,Description,Amount,Category"

// CSV renders transactions one per line after CSVHeader. Descriptions are
// always quoted; amounts and categories are written bare. There is no
// trailing newline.
func CSV(transactions []models.Transaction) string {
	var b strings.Builder
	b.WriteString(CSVHeader)
	for _, t := range transactions {
		b.WriteByte('\n')
		b.WriteString(t.Date)
		b.WriteString(`,"`)
		b.WriteString(strings.ReplaceAll(t.Description, `"`, `""`))
		b.WriteString(`",`)
		b.WriteString(t.Amount.String())
		b.WriteByte(',')
		b.WriteString(t.Category)
	}
	return b.String()
}
