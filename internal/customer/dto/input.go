package dto

// UpdateCustomerInput edits contact fields only. Spend totals belong to the sale flow.
type UpdateCustomerInput struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Type    string `json:"type"`
}
