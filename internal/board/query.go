package board

import (
	"math"
	"strings"

	"github.com/fmoraes/quadro/internal/task"
)

// matches evaluates the AND of all supplied filters against one row.
// A nil or zero-value filter set matches everything.
func matches(t *task.Task, f *task.SearchFilters) bool {
	if f == nil {
		return true
	}
	if len(f.Prioridade) > 0 && !containsPriority(f.Prioridade, t.Prioridade) {
		return false
	}
	if len(f.Status) > 0 && !containsStatus(f.Status, t.Status) {
		return false
	}
	if f.Contexto != "" && !containsFold(t.Contexto, f.Contexto) {
		return false
	}
	if f.Projeto != "" && !containsFold(t.Project, f.Projeto) {
		return false
	}
	if f.Sprint != "" && !strings.EqualFold(t.Sprint, f.Sprint) {
		return false
	}
	if f.TaskID != "" && !containsFold(t.TaskID, f.TaskID) {
		return false
	}
	if f.TextoBusca != "" &&
		!containsFold(t.Descricao, f.TextoBusca) &&
		!containsFold(t.Detalhado, f.TextoBusca) {
		return false
	}
	return true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsPriority(list []task.Priority, p task.Priority) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

func containsStatus(list []task.Status, s task.Status) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// paginate slices the filtered rows strictly after filtering. A nil
// pagination means one page sized to the full result. A page past the end
// yields an empty slice with the metadata still computed.
func paginate(filtered []task.Task, p *task.Pagination) (*task.Page, error) {
	total := len(filtered)

	if p == nil {
		page := &task.Page{
			Tasks:      filtered,
			TotalCount: total,
			Page:       1,
			PageSize:   total,
		}
		if total > 0 {
			page.TotalPages = 1
		}
		return page, nil
	}

	pg := *p
	if err := pg.Validate(); err != nil {
		return nil, err
	}

	totalPages := 0
	if total > 0 {
		totalPages = int(math.Ceil(float64(total) / float64(pg.PageSize)))
	}

	start := (pg.Page - 1) * pg.PageSize
	end := start + pg.PageSize
	var slice []task.Task
	switch {
	case start >= total:
		slice = []task.Task{}
	case end > total:
		slice = filtered[start:total]
	default:
		slice = filtered[start:end]
	}

	return &task.Page{
		Tasks:       slice,
		TotalCount:  total,
		Page:        pg.Page,
		PageSize:    pg.PageSize,
		TotalPages:  totalPages,
		HasNext:     pg.Page < totalPages,
		HasPrevious: pg.Page > 1,
	}, nil
}
