package task

// Update targets one row for a batch update.
type Update struct {
	Project string `json:"project"`
	TaskID  string `json:"task_id"`
	Fields  Patch  `json:"fields"`
}

// ItemStatus marks a per-item outcome inside a batch result.
type ItemStatus string

const (
	ItemSuccess ItemStatus = "success"
	ItemError   ItemStatus = "error"
)

// ItemResult records the outcome of one record in a batch operation.
type ItemResult struct {
	TaskID  string     `json:"task_id"`
	Status  ItemStatus `json:"status"`
	Message string     `json:"message"`
}

// BatchResult aggregates per-item outcomes. Batch operations never abort
// on a recoverable per-item failure; they record it here and keep going.
type BatchResult struct {
	SuccessCount int          `json:"success_count"`
	ErrorCount   int          `json:"error_count"`
	Details      []ItemResult `json:"details"`
}

// Add records a per-item outcome.
func (r *BatchResult) Add(taskID string, err error) {
	if err != nil {
		r.ErrorCount++
		r.Details = append(r.Details, ItemResult{TaskID: taskID, Status: ItemError, Message: err.Error()})
		return
	}
	r.SuccessCount++
	r.Details = append(r.Details, ItemResult{TaskID: taskID, Status: ItemSuccess, Message: "ok"})
}

// SprintStat summarizes one sprint's completion state.
type SprintStat struct {
	Sprint               string         `json:"sprint"`
	TotalTasks           int            `json:"total_tasks"`
	CompletedTasks       int            `json:"completed_tasks"`
	CompletionPercentage float64        `json:"completion_percentage"`
	TasksByStatus        map[string]int `json:"tasks_by_status"`
}
