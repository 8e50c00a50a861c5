package domain

type PaginationParams struct {
	PageNumber int
	PageSize   int
}

// Validate enforces the pagination bounds shared by the list endpoints.
func (p PaginationParams) Validate() *ValidationError {
	var violations []Violation
	if p.PageNumber <= 0 {
		violations = append(violations, Violation{
			Field:   "page",
			Message: "Page number must be greater than 0",
		})
	}
	if p.PageSize <= 0 {
		violations = append(violations, Violation{
			Field:   "page_size",
			Message: "Page size must be greater than 0",
		})
	} else if p.PageSize > 100 {
		violations = append(violations, Violation{
			Field:   "page_size",
			Message: "Page size cannot exceed 100 items",
		})
	}
	if len(violations) > 0 {
		return NewValidationError(violations...)
	}
	return nil
}

type PagedResponse[T any] struct {
	Items      []T `json:"items"`
	PageNumber int `json:"page_number"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
	TotalPages int `json:"total_pages"`
}

// totalPages is ceiling(totalCount / pageSize).
func totalPages(totalCount, pageSize int) int {
	if pageSize <= 0 {
		return 0
	}
	return (totalCount + pageSize - 1) / pageSize
}

func NewPagedResponse[T any](items []T, params PaginationParams, totalCount int) PagedResponse[T] {
	return PagedResponse[T]{
		Items:      items,
		PageNumber: params.PageNumber,
		PageSize:   params.PageSize,
		TotalCount: totalCount,
		TotalPages: totalPages(totalCount, params.PageSize),
	}
}
