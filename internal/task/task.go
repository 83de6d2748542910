// Package task defines the record model shared by the store adapters, the
// board, and the tool surface: the task row shape, the closed status and
// priority sets, the column mapping for the backing grid, and the filter,
// pagination, and batch result types.
package task

import (
	"time"
)

// Priority is the closed set of task priorities.
type Priority string

const (
	PriorityBaixa   Priority = "Baixa"
	PriorityNormal  Priority = "Normal"
	PriorityAlta    Priority = "Alta"
	PriorityUrgente Priority = "Urgente"
)

// Valid reports whether p is a member of the closed priority set.
func (p Priority) Valid() bool {
	switch p {
	case PriorityBaixa, PriorityNormal, PriorityAlta, PriorityUrgente:
		return true
	}
	return false
}

// Priorities returns all valid priorities in ascending order of urgency.
func Priorities() []Priority {
	return []Priority{PriorityBaixa, PriorityNormal, PriorityAlta, PriorityUrgente}
}

// Status is the closed set of task statuses.
type Status string

const (
	StatusTodo              Status = "Todo"
	StatusEmDesenvolvimento Status = "Em Desenvolvimento"
	StatusImpedido          Status = "Impedido"
	StatusConcluido         Status = "Concluído"
	StatusCancelado         Status = "Cancelado"
	StatusNaoRelacionado    Status = "Não Relacionado"
	StatusPausado           Status = "Pausado"
)

// Valid reports whether s is a member of the closed status set.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusEmDesenvolvimento, StatusImpedido, StatusConcluido,
		StatusCancelado, StatusNaoRelacionado, StatusPausado:
		return true
	}
	return false
}

// Terminal reports whether s is a terminal status. Moving a task into a
// terminal status records its completion date.
func (s Status) Terminal() bool {
	switch s {
	case StatusConcluido, StatusCancelado, StatusNaoRelacionado:
		return true
	}
	return false
}

// Statuses returns all valid statuses.
func Statuses() []Status {
	return []Status{
		StatusTodo,
		StatusEmDesenvolvimento,
		StatusImpedido,
		StatusConcluido,
		StatusCancelado,
		StatusNaoRelacionado,
		StatusPausado,
	}
}

// Date formats used when auto-filling the creation and completion fields.
// Dates are carried as opaque strings everywhere else; the backing grid is
// a spreadsheet and callers may have written anything into these cells.
const (
	CreatedAtLayout = "2006-01-02 15:04:05"
	SolvedAtLayout  = "2006-01-02"
)

// Task is one row of the board table.
type Task struct {
	Project     string   `json:"project"`
	TaskID      string   `json:"task_id"`
	TaskIDRoot  string   `json:"task_id_root,omitempty"`
	Sprint      string   `json:"sprint,omitempty"`
	Contexto    string   `json:"contexto"`
	Descricao   string   `json:"descricao"`
	Detalhado   string   `json:"detalhado,omitempty"`
	Prioridade  Priority `json:"prioridade"`
	Status      Status   `json:"status"`
	DataCriacao string   `json:"data_criacao,omitempty"`
	DataSolucao string   `json:"data_solucao,omitempty"`
}

// Validate checks required fields and enum membership. It is the single
// validation point for both single and batch write paths; a task that
// passes Validate is safe to persist.
func (t *Task) Validate() error {
	if t.Project == "" {
		return Validationf("project is required")
	}
	if t.TaskID == "" {
		return Validationf("task_id is required")
	}
	if t.TaskIDRoot != "" && t.TaskIDRoot == t.TaskID {
		return Validationf("task_id_root must not reference the task itself")
	}
	if t.Contexto == "" {
		return Validationf("contexto is required")
	}
	if t.Descricao == "" {
		return Validationf("descricao is required")
	}
	if !t.Prioridade.Valid() {
		return Validationf("prioridade %q is not one of %v", t.Prioridade, Priorities())
	}
	if !t.Status.Valid() {
		return Validationf("status %q is not one of %v", t.Status, Statuses())
	}
	return nil
}

// SetDefaults fills the creation date when blank. The timestamp format
// matches what the board has always written to the grid.
func (t *Task) SetDefaults(now time.Time) {
	if t.DataCriacao == "" {
		t.DataCriacao = now.Format(CreatedAtLayout)
	}
}

// Key identifies a task row. (Project, TaskID) is unique across the live
// table at all times.
type Key struct {
	Project string
	TaskID  string
}

// Key returns the identity of the task.
func (t *Task) Key() Key {
	return Key{Project: t.Project, TaskID: t.TaskID}
}

// ValidConfigs lists the closed enum sets accepted by write operations.
type ValidConfigs struct {
	Statuses   []Status   `json:"statuses"`
	Priorities []Priority `json:"priorities"`
}
