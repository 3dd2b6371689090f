package shared

// ListFilters represents standard list page filters
type ListFilters struct {
	Page     int
	Limit    int
	Search   string
	SortBy   string
	SortDir  string
	IsActive *bool

	// Entity specific filters
	UnitID     *int64
	CategoryID *int64
	AreaID     *int64
}

// Normalize applies pagination defaults in place.
func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = DefaultLimit
	}
	if f.SortDir != SortAsc && f.SortDir != SortDesc {
		f.SortDir = SortAsc
	}
}

// Offset returns the row offset for the current page.
func (f ListFilters) Offset() int {
	return (f.Page - 1) * f.Limit
}
