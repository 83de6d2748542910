package task

import (
	"errors"
	"testing"
)

func TestPatchValidate_OK(t *testing.T) {
	p := Patch{
		"status":     string(StatusConcluido),
		"prioridade": string(PriorityAlta),
		"sprint":     "2026-S1",
		"detalhado":  "",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestPatchValidate_Rejections(t *testing.T) {
	cases := []struct {
		name string
		p    Patch
	}{
		{"empty patch", Patch{}},
		{"identity project", Patch{"project": "Outro"}},
		{"identity task_id", Patch{"task_id": "X-1"}},
		{"invalid status", Patch{"status": "Done"}},
		{"invalid prioridade", Patch{"prioridade": "Crítica"}},
		{"cleared contexto", Patch{"contexto": ""}},
		{"cleared descricao", Patch{"descricao": ""}},
		{"unknown field", Patch{"owner": "alice"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.p.Validate(); !errors.Is(err, ErrValidation) {
				t.Errorf("Validate() = %v, want ErrValidation", err)
			}
		})
	}
}

func TestPatchApply(t *testing.T) {
	task := Task{
		Project:    "Vendas",
		TaskID:     "V-102",
		Contexto:   "Backend",
		Descricao:  "Criar API de pedidos",
		Prioridade: PriorityNormal,
		Status:     StatusTodo,
	}

	p := Patch{
		"status":       string(StatusEmDesenvolvimento),
		"prioridade":   string(PriorityAlta),
		"sprint":       "2026-S1",
		"task_id_root": "V-100",
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	p.Apply(&task)

	if task.Status != StatusEmDesenvolvimento {
		t.Errorf("Status = %q", task.Status)
	}
	if task.Prioridade != PriorityAlta {
		t.Errorf("Prioridade = %q", task.Prioridade)
	}
	if task.Sprint != "2026-S1" {
		t.Errorf("Sprint = %q", task.Sprint)
	}
	if task.TaskIDRoot != "V-100" {
		t.Errorf("TaskIDRoot = %q", task.TaskIDRoot)
	}
	// Untouched fields survive.
	if task.Project != "Vendas" || task.TaskID != "V-102" || task.Descricao != "Criar API de pedidos" {
		t.Errorf("untouched fields changed: %+v", task)
	}
}

func TestPatchHas(t *testing.T) {
	p := Patch{"detalhado": ""}
	if !p.Has("detalhado") {
		t.Error("Has(detalhado) = false for explicitly provided empty value")
	}
	if p.Has("status") {
		t.Error("Has(status) = true for absent field")
	}
}
