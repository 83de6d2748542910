package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/fmoraes/quadro/internal/task"
)

func sampleRow(project, id string) []string {
	return []string{project, id, "", "2026-S1", "Backend", "Criar API", "", "Normal", "Todo", "2026-01-05 10:00:00", ""}
}

func TestCSVLoadAll_CreatesFileWithHeader(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board", "quadro.csv")
	s := NewCSV(path)

	values, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("fresh store has %d rows, want header only", len(values))
	}
	if err := task.ValidateHeader(values[0]); err != nil {
		t.Errorf("fresh store header invalid: %v", err)
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("backing file not created: %v", err)
	}
}

func TestCSVAppendRows_ThenLoad(t *testing.T) {
	s := NewCSV(filepath.Join(t.TempDir(), "quadro.csv"))
	ctx := context.Background()

	rows := [][]string{sampleRow("Vendas", "V-1"), sampleRow("Vendas", "V-2")}
	if err := s.AppendRows(ctx, rows); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}

	values, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(values))
	}
	if values[1][1] != "V-1" || values[2][1] != "V-2" {
		t.Errorf("rows out of order: %v", values[1:])
	}

	// Appends accumulate.
	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-3")}); err != nil {
		t.Fatalf("second AppendRows() error: %v", err)
	}
	values, err = s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 4 || values[3][1] != "V-3" {
		t.Errorf("append did not accumulate: %d rows", len(values))
	}
}

func TestCSVAppendRows_RejectsWrongWidth(t *testing.T) {
	s := NewCSV(filepath.Join(t.TempDir(), "quadro.csv"))

	err := s.AppendRows(context.Background(), [][]string{{"Vendas", "V-1"}})
	if !errors.Is(err, task.ErrConsistency) {
		t.Errorf("short row: AppendRows() = %v, want ErrConsistency", err)
	}
}

func TestCSVOverwriteRows(t *testing.T) {
	s := NewCSV(filepath.Join(t.TempDir(), "quadro.csv"))
	ctx := context.Background()

	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-1"), sampleRow("Vendas", "V-2")}); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}

	updated := sampleRow("Vendas", "V-2")
	updated[8] = "Concluído"
	updated[10] = "2026-02-01"
	if err := s.OverwriteRows(ctx, map[int][]string{1: updated}); err != nil {
		t.Fatalf("OverwriteRows() error: %v", err)
	}

	values, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if values[2][8] != "Concluído" || values[2][10] != "2026-02-01" {
		t.Errorf("row 1 not overwritten: %v", values[2])
	}
	// The untouched row survives the rewrite.
	if values[1][1] != "V-1" || values[1][8] != "Todo" {
		t.Errorf("row 0 damaged by rewrite: %v", values[1])
	}
}

func TestCSVOverwriteRows_OutOfRange(t *testing.T) {
	s := NewCSV(filepath.Join(t.TempDir(), "quadro.csv"))
	ctx := context.Background()

	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-1")}); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}

	err := s.OverwriteRows(ctx, map[int][]string{5: sampleRow("Vendas", "V-9")})
	if !errors.Is(err, task.ErrConsistency) {
		t.Errorf("out-of-range index: OverwriteRows() = %v, want ErrConsistency", err)
	}
}

func TestCSVLoadAll_PadsShortRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadro.csv")
	// A hand-edited file with trailing blanks dropped on the data row.
	content := "Project,Task ID,Task ID Root,Sprint,Contexto,Descrição,Detalhado,Prioridade,Status,Data Criação,Data Solução\n" +
		"Vendas,V-1,,,Backend,Criar API\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	values, err := NewCSV(path).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values[1]) != task.NumColumns {
		t.Errorf("short row padded to %d cells, want %d", len(values[1]), task.NumColumns)
	}
	if values[1][0] != "Vendas" || values[1][5] != "Criar API" {
		t.Errorf("padding moved cells: %v", values[1])
	}
}

func TestCSVLoadAll_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadro.csv")
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	values, err := NewCSV(path).LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("zero-byte file: got %d rows, want header only", len(values))
	}
	if err := task.ValidateHeader(values[0]); err != nil {
		t.Errorf("synthesized header invalid: %v", err)
	}
}
