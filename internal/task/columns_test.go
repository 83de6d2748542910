package task

import (
	"errors"
	"testing"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Task ID":          "Task-ID",
		"Task ID Root":     "Task-ID-Root",
		"Data Criação":     "Data-Criação",
		"Status":           "Status",
		"  Data Solução  ": "Data-Solução",
	}
	for in, want := range cases {
		if got := NormalizeHeader(in); got != want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestValidateHeader_Canonical(t *testing.T) {
	if err := ValidateHeader(Headers()); err != nil {
		t.Fatalf("canonical header rejected: %v", err)
	}
}

func TestValidateHeader_KeyForm(t *testing.T) {
	// A store written with key-form headers is accepted too.
	keys := make([]string, NumColumns)
	for i, c := range Columns {
		keys[i] = c.Key
	}
	if err := ValidateHeader(keys); err != nil {
		t.Fatalf("key-form header rejected: %v", err)
	}
}

func TestValidateHeader_Mismatch(t *testing.T) {
	header := Headers()
	header[1] = "ID"
	if err := ValidateHeader(header); !errors.Is(err, ErrConsistency) {
		t.Errorf("renamed column: ValidateHeader() = %v, want ErrConsistency", err)
	}

	if err := ValidateHeader(Headers()[:5]); !errors.Is(err, ErrConsistency) {
		t.Errorf("short header: ValidateHeader() = %v, want ErrConsistency", err)
	}
}

func TestRowRoundTrip(t *testing.T) {
	task := Task{
		Project:     "Vendas",
		TaskID:      "V-102",
		TaskIDRoot:  "V-100",
		Sprint:      "2026-S1",
		Contexto:    "Backend",
		Descricao:   "Criar API de pedidos",
		Detalhado:   "Endpoints REST para o fluxo de pedidos",
		Prioridade:  PriorityAlta,
		Status:      StatusEmDesenvolvimento,
		DataCriacao: "2026-01-05 10:00:00",
		DataSolucao: "",
	}

	row := task.Row()
	if len(row) != NumColumns {
		t.Fatalf("Row() has %d cells, want %d", len(row), NumColumns)
	}

	back, err := FromRow(row)
	if err != nil {
		t.Fatalf("FromRow() error: %v", err)
	}
	if back != task {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", back, task)
	}
}

func TestFromRow_ShortRowPadded(t *testing.T) {
	// Trailing blank cells are routinely dropped by spreadsheet exports.
	task, err := FromRow([]string{"Vendas", "V-102"})
	if err != nil {
		t.Fatalf("FromRow() error: %v", err)
	}
	if task.Project != "Vendas" || task.TaskID != "V-102" {
		t.Errorf("identity cells lost: %+v", task)
	}
	if task.DataSolucao != "" || task.Status != "" {
		t.Errorf("padded cells not empty: %+v", task)
	}
}

func TestFromRow_WideRowRejected(t *testing.T) {
	wide := make([]string, NumColumns+1)
	if _, err := FromRow(wide); !errors.Is(err, ErrConsistency) {
		t.Errorf("wide row: FromRow() = %v, want ErrConsistency", err)
	}
}
