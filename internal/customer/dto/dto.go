package dto

type CustomerFilters struct {
	Type        string
	SearchQuery string // name or phone substring
	SortBy      string // name, total_spent, last_order_date
	SortOrder   string
	Page        int
	PageSize    int
}
