package export

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSalesCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteSalesCSV(&buf, []model.Sale{{
		ID: "s1", Date: time.Date(2025, 3, 10, 18, 0, 0, 0, time.UTC), CustomerName: "Khan, Aamir",
		ProductName: "Classic Tee", Size: "M", Quantity: 2, TotalAmount: decimal.NewFromInt(2000),
		Channel: model.ChannelOnline, Status: model.SaleStatusReturned,
	}})
	require.NoError(t, err)

	assert.Equal(t,
		"Date,Sale Id,Customer Name,Customer Type,Product,Size,Qty,Total,Channel,Status\n"+
			"2025-03-10,s1,\"Khan, Aamir\",customer,Classic Tee,M,2,2000.00,online,returned\n",
		buf.String())
}

func TestWriteExpensesCSV_NewestFirst(t *testing.T) {
	var buf bytes.Buffer
	in := []model.Expense{
		{Category: model.ExpenseDelivery, Description: "porter", Amount: decimal.NewFromInt(250), Date: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Category: model.ExpenseMarketing, Description: "reels, stories", Amount: decimal.RequireFromString("99.5"), Date: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)},
	}
	require.NoError(t, WriteExpensesCSV(&buf, in))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Date", "Category", "Description", "Amount"}, records[0])
	assert.Equal(t, []string{"2025-02-01", "marketing", "reels, stories", "99.50"}, records[1])
	assert.Equal(t, "2025-01-01", records[2][0])
	assert.Equal(t, model.ExpenseDelivery, in[0].Category, "input order untouched")
}

func TestFilenames(t *testing.T) {
	now := time.Date(2025, 3, 10, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "sales_2025-03-10.csv", SalesFilename(now))
	assert.Equal(t, "expenses_2025-03-10.csv", ExpensesFilename(now))
}
