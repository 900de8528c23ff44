// Package export renders a user's records as an Excel workbook.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"saveandplay/internal/currency"
	"saveandplay/internal/models"
)

// ContentType is the MIME type of the workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const dateLayout = "2006-01-02"

// Data is everything that goes into the workbook.
type Data struct {
	Goals         []models.Goal
	Contributions []models.Contribution
	Debts         []models.Debt
	DebtPayments  []models.DebtPayment
	Incomes       []models.Income
	Expenses      []models.Expense
}

type sheet struct {
	name    string
	headers []string
	widths  []float64
	rows    [][]any
}

// Filename returns the attachment name for an export made at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("saveandplay_%s.xlsx", t.Format("20060102"))
}

// Workbook builds one sheet per collection. Every canonical amount is
// followed by the same amount converted to display.
func Workbook(d Data, n *currency.Normalizer, display currency.Code) (*excelize.File, error) {
	if !currency.Supported(display) {
		display = n.Canonical()
	}
	m := money{n: n, display: display}

	f := excelize.NewFile()
	for i, s := range sheets(d, m) {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), s.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(s.name); err != nil {
			return nil, fmt.Errorf("creating sheet %s: %w", s.name, err)
		}
		if err := writeSheet(f, s); err != nil {
			return nil, fmt.Errorf("writing sheet %s: %w", s.name, err)
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, s sheet) error {
	header := make([]any, len(s.headers))
	for i, h := range s.headers {
		header[i] = h
	}
	if err := f.SetSheetRow(s.name, "A1", &header); err != nil {
		return err
	}
	for i, row := range s.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(s.name, cell, &row); err != nil {
			return err
		}
	}
	for i, w := range s.widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(s.name, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

type money struct {
	n       *currency.Normalizer
	display currency.Code
}

// headers expands each amount header into a canonical and a display column.
func (m money) headers(label string) []string {
	return []string{
		fmt.Sprintf("%s (%s)", label, m.n.Canonical()),
		fmt.Sprintf("%s (%s)", label, m.display),
	}
}

func (m money) cells(amount float64) []any {
	shown, err := m.n.ToDisplay(amount, m.display)
	if err != nil {
		shown = amount
	}
	return []any{amount, shown}
}

func concat[T any](parts ...[]T) []T {
	var out []T
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func sheets(d Data, m money) []sheet {
	goals := sheet{
		name:    "Goals",
		headers: concat([]string{"Name", "Emoji"}, m.headers("Target"), m.headers("Saved"), []string{"Deadline", "Status"}),
		widths:  []float64{24, 8, 14, 14, 14, 14, 12, 10},
	}
	for _, g := range d.Goals {
		goals.rows = append(goals.rows, concat(
			[]any{g.Name, g.Emoji},
			m.cells(g.TotalAmount),
			m.cells(g.SavedAmount),
			[]any{g.Deadline.Format(dateLayout), string(g.Status)},
		))
	}

	contributions := sheet{
		name:    "Contributions",
		headers: concat([]string{"Goal"}, m.headers("Amount"), []string{"Date"}),
		widths:  []float64{24, 14, 14, 12},
	}
	for _, c := range d.Contributions {
		contributions.rows = append(contributions.rows, concat([]any{c.GoalName}, m.cells(c.Amount), []any{c.Date.Format(dateLayout)}))
	}

	debts := sheet{
		name:    "Debts",
		headers: concat([]string{"Name", "Emoji"}, m.headers("Total"), m.headers("Paid"), m.headers("Monthly Payment"), []string{"Due Day"}),
		widths:  []float64{24, 8, 14, 14, 14, 14, 20, 20, 8},
	}
	for _, dt := range d.Debts {
		debts.rows = append(debts.rows, concat(
			[]any{dt.Name, dt.Emoji},
			m.cells(dt.TotalAmount),
			m.cells(dt.PaidAmount),
			m.cells(dt.MonthlyPayment),
			[]any{dt.DueDate},
		))
	}

	payments := sheet{
		name:    "Payments",
		headers: concat([]string{"Debt"}, m.headers("Amount"), []string{"Date"}),
		widths:  []float64{24, 14, 14, 12},
	}
	for _, p := range d.DebtPayments {
		payments.rows = append(payments.rows, concat([]any{p.DebtName}, m.cells(p.Amount), []any{p.Date.Format(dateLayout)}))
	}

	return []sheet{
		goals,
		contributions,
		debts,
		payments,
		entrySheet("Incomes", incomeEntries(d.Incomes), m),
		entrySheet("Expenses", expenseEntries(d.Expenses), m),
	}
}

// entrySheet also keeps the amount exactly as it was entered.
func entrySheet(name string, entries []models.Entry, m money) sheet {
	s := sheet{
		name:    name,
		headers: concat([]string{"Type"}, m.headers("Amount"), []string{"Entered Amount", "Entered Currency", "Date", "Description"}),
		widths:  []float64{18, 14, 14, 16, 16, 12, 30},
	}
	for _, e := range entries {
		s.rows = append(s.rows, concat(
			[]any{e.Type},
			m.cells(e.Amount),
			[]any{e.OriginalAmount, e.Currency, e.Date.Format(dateLayout), e.Description},
		))
	}
	return s
}

func incomeEntries(in []models.Income) []models.Entry {
	out := make([]models.Entry, len(in))
	for i := range in {
		out[i] = in[i].Entry
	}
	return out
}

func expenseEntries(in []models.Expense) []models.Entry {
	out := make([]models.Entry, len(in))
	for i := range in {
		out[i] = in[i].Entry
	}
	return out
}
