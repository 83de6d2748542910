package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/fmoraes/quadro/internal/task"
)

func openTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "quadro.db"))
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("Close() error: %v", err)
		}
	})
	return s
}

func TestSQLiteLoadAll_FreshStore(t *testing.T) {
	s := openTestSQLite(t)

	values, err := s.LoadAll(context.Background())
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 1 {
		t.Fatalf("fresh store has %d rows, want header only", len(values))
	}
	if err := task.ValidateHeader(values[0]); err != nil {
		t.Errorf("seeded header invalid: %v", err)
	}
}

func TestSQLiteOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadro.db")
	ctx := context.Background()

	s, err := OpenSQLite(path)
	if err != nil {
		t.Fatalf("OpenSQLite() error: %v", err)
	}
	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-1")}); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	// Reopening must keep the data and not reseed anything.
	s, err = OpenSQLite(path)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s.Close()

	values, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 2 || values[1][1] != "V-1" {
		t.Errorf("data lost across reopen: %v", values)
	}
}

func TestSQLiteAppendAndOverwrite(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-1"), sampleRow("Vendas", "V-2")}); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}

	updated := sampleRow("Vendas", "V-1")
	updated[8] = "Concluído"
	if err := s.OverwriteRows(ctx, map[int][]string{0: updated}); err != nil {
		t.Fatalf("OverwriteRows() error: %v", err)
	}

	values, err := s.LoadAll(ctx)
	if err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	if len(values) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(values))
	}
	if values[1][8] != "Concluído" {
		t.Errorf("row 0 not overwritten: %v", values[1])
	}
	if values[2][1] != "V-2" || values[2][8] != "Todo" {
		t.Errorf("row 1 damaged: %v", values[2])
	}
}

func TestSQLiteOverwriteRows_OutOfRange(t *testing.T) {
	s := openTestSQLite(t)
	ctx := context.Background()

	if err := s.AppendRows(ctx, [][]string{sampleRow("Vendas", "V-1")}); err != nil {
		t.Fatalf("AppendRows() error: %v", err)
	}

	err := s.OverwriteRows(ctx, map[int][]string{3: sampleRow("Vendas", "V-9")})
	if !errors.Is(err, task.ErrConsistency) {
		t.Errorf("out-of-range index: OverwriteRows() = %v, want ErrConsistency", err)
	}
}

func TestSQLiteAppendRows_RejectsWrongWidth(t *testing.T) {
	s := openTestSQLite(t)

	err := s.AppendRows(context.Background(), [][]string{{"Vendas"}})
	if !errors.Is(err, task.ErrConsistency) {
		t.Errorf("short row: AppendRows() = %v, want ErrConsistency", err)
	}
}
