package assistant

import (
	"math"
	"strings"

	"github.com/fekuna/omnipos-retail-service/internal/model"
	"github.com/shopspring/decimal"
)

// DefaultDropSizes is used when a product drop names no sizes.
var DefaultDropSizes = []string{"S", "M", "L", "XL"}

func quantity(q float64) int {
	n := int(math.Round(q))
	if n < 1 {
		return 1
	}
	return n
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

type SaleCommand struct {
	ItemName        string
	UniqueCode      string
	Size            string
	Channel         model.Channel
	Quantity        int
	Amount          decimal.Decimal
	CustomerName    string
	CustomerPhone   string
	CustomerAddress string
	CustomerType    string
	// AnyProduct lets a sale through with neither name nor code. The sale is
	// then booked against the first catalog product.
	AnyProduct bool
}

// NewSaleCommand defaults the channel to online and the quantity to one.
// A zero amount means list price.
func NewSaleCommand(d ActionData, anyProduct bool) (*SaleCommand, error) {
	c := &SaleCommand{
		ItemName:        strings.TrimSpace(d.ItemName),
		UniqueCode:      strings.TrimSpace(d.UniqueCode),
		Size:            strings.ToUpper(strings.TrimSpace(d.Size)),
		Channel:         model.ChannelOnline,
		Quantity:        quantity(d.Quantity),
		Amount:          nonNegative(d.Amount),
		CustomerName:    strings.TrimSpace(d.CustomerName),
		CustomerPhone:   strings.TrimSpace(d.CustomerPhone),
		CustomerAddress: strings.TrimSpace(d.CustomerAddress),
		CustomerType:    strings.TrimSpace(d.CustomerType),
		AnyProduct:      anyProduct,
	}
	if ch, ok := model.ParseChannel(d.Channel); ok {
		c.Channel = ch
	}
	return c, c.Validate()
}

func (c *SaleCommand) Validate() error {
	if c.ItemName == "" && c.UniqueCode == "" && !c.AnyProduct {
		return model.Invalidf("sale needs an item name or code")
	}
	return nil
}

type TransferCommand struct {
	ItemName string
	Size     string
	From     model.Location
	To       model.Location
	Quantity int
}

// NewTransferCommand defaults to moving one unit from the hub to store A.
func NewTransferCommand(d ActionData) (*TransferCommand, error) {
	c := &TransferCommand{
		ItemName: strings.TrimSpace(d.ItemName),
		Size:     strings.ToUpper(strings.TrimSpace(d.Size)),
		From:     model.LocationHub,
		To:       model.LocationStoreA,
		Quantity: quantity(d.Quantity),
	}
	if strings.TrimSpace(d.From) != "" {
		loc, ok := model.ParseLocation(d.From)
		if !ok {
			return nil, model.Invalidf("unknown location %q", d.From)
		}
		c.From = loc
	}
	if strings.TrimSpace(d.To) != "" {
		loc, ok := model.ParseLocation(d.To)
		if !ok {
			return nil, model.Invalidf("unknown location %q", d.To)
		}
		c.To = loc
	}
	return c, c.Validate()
}

func (c *TransferCommand) Validate() error {
	if c.ItemName == "" {
		return model.Invalidf("transfer needs an item name")
	}
	if c.From == c.To {
		return model.Invalidf("transfer source and destination are both %s", c.From)
	}
	return nil
}

type ExpenseCommand struct {
	Category    model.ExpenseCategory
	Description string
	Amount      decimal.Decimal
}

// NewExpenseCommand files unknown categories under other and falls back to
// the raw text for the description.
func NewExpenseCommand(d ActionData, raw string) (*ExpenseCommand, error) {
	c := &ExpenseCommand{
		Category:    model.ExpenseOther,
		Description: strings.TrimSpace(d.Description),
		Amount:      d.Amount,
	}
	if cat, ok := model.ParseExpenseCategory(d.Category); ok {
		c.Category = cat
	}
	if c.Description == "" {
		c.Description = strings.TrimSpace(raw)
	}
	return c, c.Validate()
}

func (c *ExpenseCommand) Validate() error {
	if !c.Amount.IsPositive() {
		return model.Invalidf("expense amount must be positive")
	}
	return nil
}

type ProductDropCommand struct {
	Name      string
	SKU       string
	CostPrice decimal.Decimal
	SalePrice decimal.Decimal
	Sizes     []string
	// HubStock is the opening hub count for every size.
	HubStock int
}

func splitSizes(s string) []string {
	fields := strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool {
		return r == ',' || r == '/' || r == ' ' || r == ';'
	})
	seen := map[string]bool{}
	var out []string
	for _, f := range fields {
		if f != "" && !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out
}

func NewProductDropCommand(d ActionData) (*ProductDropCommand, error) {
	c := &ProductDropCommand{
		Name:      strings.TrimSpace(d.ItemName),
		SKU:       strings.ToUpper(strings.TrimSpace(d.SKU)),
		CostPrice: nonNegative(d.CostPrice),
		SalePrice: d.SalePrice,
		Sizes:     splitSizes(d.Size),
	}
	if len(c.Sizes) == 0 {
		c.Sizes = append([]string(nil), DefaultDropSizes...)
	}
	if d.Quantity > 0 {
		c.HubStock = int(math.Round(d.Quantity))
	}
	return c, c.Validate()
}

func (c *ProductDropCommand) Validate() error {
	if c.Name == "" {
		return model.Invalidf("product drop needs a name")
	}
	if !c.SalePrice.IsPositive() {
		return model.Invalidf("product drop needs a sale price")
	}
	return nil
}
