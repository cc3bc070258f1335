package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
)

const dateLayout = "2006-01-02"

var (
	salesHeader    = []string{"Date", "Sale Id", "Customer Name", "Customer Type", "Product", "Size", "Qty", "Total", "Channel", "Status"}
	expensesHeader = []string{"Date", "Category", "Description", "Amount"}
)

func SalesFilename(now time.Time) string {
	return "sales_" + now.Format(dateLayout) + ".csv"
}

func ExpensesFilename(now time.Time) string {
	return "expenses_" + now.Format(dateLayout) + ".csv"
}

// WriteSalesCSV writes sales in the order given. Returned sales keep their amount.
func WriteSalesCSV(w io.Writer, sales []model.Sale) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(salesHeader); err != nil {
		return err
	}
	for _, s := range sales {
		customerType := s.CustomerType
		if customerType == "" {
			customerType = model.CustomerTypeCustomer
		}
		if err := cw.Write([]string{
			s.Date.Format(dateLayout),
			s.ID,
			s.CustomerName,
			customerType,
			s.ProductName,
			s.Size,
			strconv.Itoa(s.Quantity),
			s.TotalAmount.StringFixed(2),
			string(s.Channel),
			string(s.Status),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExpensesCSV writes expenses newest first.
func WriteExpensesCSV(w io.Writer, expenses []model.Expense) error {
	sorted := make([]model.Expense, len(expenses))
	copy(sorted, expenses)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.After(sorted[j].Date) })

	cw := csv.NewWriter(w)
	if err := cw.Write(expensesHeader); err != nil {
		return err
	}
	for _, e := range sorted {
		if err := cw.Write([]string{
			e.Date.Format(dateLayout),
			string(e.Category),
			e.Description,
			e.Amount.StringFixed(2),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
