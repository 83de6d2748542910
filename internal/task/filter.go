package task

// SearchFilters selects rows from the cached table. All filters are
// AND-combined; list-valued filters match when the row value is any of the
// listed members. A zero-value filter set matches every row.
type SearchFilters struct {
	// Prioridade matches rows whose priority is in the list (exact).
	Prioridade []Priority `json:"prioridade,omitempty"`
	// Status matches rows whose status is in the list (exact).
	Status []Status `json:"status,omitempty"`
	// Contexto is a case-insensitive substring match.
	Contexto string `json:"contexto,omitempty"`
	// Projeto is a case-insensitive substring match on the project name.
	Projeto string `json:"projeto,omitempty"`
	// Sprint is a case-insensitive exact match.
	Sprint string `json:"sprint,omitempty"`
	// TaskID is a case-insensitive substring match, consistent with
	// Contexto and Projeto.
	TaskID string `json:"task_id,omitempty"`
	// TextoBusca is a case-insensitive substring match against the
	// description or the detailed description.
	TextoBusca string `json:"texto_busca,omitempty"`
}

// Pagination bounds for Validate.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Pagination slices a filtered result. Page starts at 1.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Validate applies defaults for zero values and rejects out-of-range
// parameters.
func (p *Pagination) Validate() error {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PageSize == 0 {
		p.PageSize = DefaultPageSize
	}
	if p.Page < 1 {
		return Validationf("page must be >= 1 (got %d)", p.Page)
	}
	if p.PageSize < 1 || p.PageSize > MaxPageSize {
		return Validationf("page_size must be between 1 and %d (got %d)", MaxPageSize, p.PageSize)
	}
	return nil
}

// Page is the result of a query: one slice of the filtered rows plus
// pagination metadata computed before slicing.
type Page struct {
	Tasks       []Task `json:"tasks"`
	TotalCount  int    `json:"total_count"`
	Page        int    `json:"page"`
	PageSize    int    `json:"page_size"`
	TotalPages  int    `json:"total_pages"`
	HasNext     bool   `json:"has_next"`
	HasPrevious bool   `json:"has_previous"`
}
