package model

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	SKU       string          `db:"sku" json:"sku"`
	Name      string          `db:"name" json:"name"`
	Category  string          `db:"category" json:"category"`
	CostPrice decimal.Decimal `db:"cost_price" json:"cost_price"`
	SalePrice decimal.Decimal `db:"sale_price" json:"sale_price"`
	Variants  []Variant       `db:"-" json:"variants"`
}

// Variant is one size of a product, the unit stock is tracked at.
type Variant struct {
	ID         string      `db:"id" json:"id"`
	ProductID  string      `db:"product_id" json:"product_id"`
	Size       string      `db:"size" json:"size"`
	UniqueCode string      `db:"unique_code" json:"unique_code"`
	Position   int         `db:"position" json:"-"`
	Stock      StockLevels `db:"-" json:"stock"`
}

// VariantBySize matches case-insensitively.
func (p *Product) VariantBySize(size string) *Variant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].Size, size) {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) VariantByCode(code string) *Variant {
	for i := range p.Variants {
		if strings.EqualFold(p.Variants[i].UniqueCode, code) {
			return &p.Variants[i]
		}
	}
	return nil
}

func (p *Product) TotalUnits() int {
	n := 0
	for _, v := range p.Variants {
		n += v.Stock.Total()
	}
	return n
}

// InventoryValue is on-hand units valued at cost.
func (p *Product) InventoryValue() decimal.Decimal {
	return p.CostPrice.Mul(decimal.NewFromInt(int64(p.TotalUnits())))
}

func (p *Product) Clone() *Product {
	out := *p
	out.Variants = make([]Variant, len(p.Variants))
	for i, v := range p.Variants {
		v.Stock = v.Stock.Clone()
		out.Variants[i] = v
	}
	return &out
}

var nonCodeChars = regexp.MustCompile(`[^A-Z0-9]+`)

// VariantCode builds the default scan code for a variant, e.g. "SHADOW-HOODIE-XL".
func VariantCode(prefix, size string) string {
	p := strings.Trim(nonCodeChars.ReplaceAllString(strings.ToUpper(prefix), "-"), "-")
	s := strings.Trim(nonCodeChars.ReplaceAllString(strings.ToUpper(size), "-"), "-")
	return p + "-" + s
}
