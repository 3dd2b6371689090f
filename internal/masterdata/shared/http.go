package shared

import (
	"net/http"
	"strconv"
)

// FiltersFromQuery parses the common list query parameters.
func FiltersFromQuery(r *http.Request) ListFilters {
	q := r.URL.Query()
	f := ListFilters{
		Search:  q.Get("search"),
		SortBy:  q.Get("sort_by"),
		SortDir: q.Get("sort_dir"),
	}
	f.Page, _ = strconv.Atoi(q.Get("page"))
	f.Limit, _ = strconv.Atoi(q.Get("limit"))
	if v := q.Get("is_active"); v != "" {
		active := v == "true" || v == "1"
		f.IsActive = &active
	}
	f.UnitID = int64Param(q.Get("unit_id"))
	f.CategoryID = int64Param(q.Get("category_id"))
	f.AreaID = int64Param(q.Get("area_id"))
	f.Normalize()
	return f
}

func int64Param(raw string) *int64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return nil
	}
	return &v
}

// ListMeta describes the pagination state of a list response.
type ListMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// ListResponse is the standard paginated envelope.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta ListMeta `json:"meta"`
}

func NewListResponse[T any](items []T, total int64, filters ListFilters) ListResponse[T] {
	pages := int(total) / filters.Limit
	if int(total)%filters.Limit > 0 {
		pages++
	}
	if items == nil {
		items = []T{}
	}
	return ListResponse[T]{
		Data: items,
		Meta: ListMeta{Page: filters.Page, Limit: filters.Limit, Total: total, TotalPages: pages},
	}
}
