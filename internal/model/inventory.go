package model

import "time"

type MovementType string

const (
	MovementTransferOut MovementType = "transfer_out"
	MovementTransferIn  MovementType = "transfer_in"
	MovementSale        MovementType = "sale"
	MovementReturn      MovementType = "return"
	MovementAdjustment  MovementType = "adjustment"
)

// StockMovement is one audited change to a single location counter.
type StockMovement struct {
	ID             string       `db:"id" json:"id"`
	ProductID      string       `db:"product_id" json:"product_id"`
	VariantID      string       `db:"variant_id" json:"variant_id"`
	Size           string       `db:"size" json:"size"`
	Location       Location     `db:"location" json:"location"`
	MovementType   MovementType `db:"movement_type" json:"movement_type"`
	QuantityChange int          `db:"quantity_change" json:"quantity_change"`
	QuantityBefore int          `db:"quantity_before" json:"quantity_before"`
	QuantityAfter  int          `db:"quantity_after" json:"quantity_after"`
	ReferenceType  string       `db:"reference_type" json:"reference_type,omitempty"`
	ReferenceID    string       `db:"reference_id" json:"reference_id,omitempty"`
	Notes          string       `db:"notes" json:"notes,omitempty"`
	CreatedBy      string       `db:"created_by" json:"created_by,omitempty"`
	CreatedAt      time.Time    `db:"created_at" json:"created_at"`
}
