package watch

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"testing"
	"time"

	"github.com/fmoraes/quadro/internal/board"
	"github.com/fmoraes/quadro/internal/store"
	"github.com/fmoraes/quadro/internal/task"
)

func testTask(id string) task.Task {
	return task.Task{
		Project:     "Vendas",
		TaskID:      id,
		Contexto:    "Backend",
		Descricao:   "Criar API de pedidos",
		Prioridade:  task.PriorityNormal,
		Status:      task.StatusTodo,
		DataCriacao: "2026-03-01 08:00:00",
	}
}

func TestWatcher_ReloadsOnExternalEdit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quadro.csv")
	st := store.NewCSV(path)
	b := board.New(st, &board.Config{Logger: log.New(io.Discard, "", 0)})
	ctx := context.Background()

	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w, err := New(path, b, func() { reloaded <- struct{}{} }, &Config{
		Debounce: 50 * time.Millisecond,
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	// Simulate an external writer appending a row.
	tk := testTask("V-1")
	if err := st.AppendRows(ctx, [][]string{tk.Row()}); err != nil {
		t.Fatalf("external append error: %v", err)
	}

	select {
	case <-reloaded:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not reload within 5s")
	}

	if _, err := b.GetOne(ctx, "Vendas", "V-1"); err != nil {
		t.Errorf("external row missing after watcher reload: %v", err)
	}
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "quadro.csv")
	st := store.NewCSV(path)
	b := board.New(st, &board.Config{Logger: log.New(io.Discard, "", 0)})
	ctx := context.Background()

	if err := b.Refresh(ctx); err != nil {
		t.Fatalf("Refresh() error: %v", err)
	}

	reloaded := make(chan struct{}, 1)
	w, err := New(path, b, func() { reloaded <- struct{}{} }, &Config{
		Debounce: 50 * time.Millisecond,
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	defer w.Stop()

	// A sibling file changing must not trigger a reload.
	other := store.NewCSV(filepath.Join(dir, "other.csv"))
	tk := testTask("X-1")
	if err := other.AppendRows(ctx, [][]string{tk.Row()}); err != nil {
		t.Fatalf("sibling append error: %v", err)
	}

	select {
	case <-reloaded:
		t.Fatal("watcher reloaded for an unrelated file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_StartStop(t *testing.T) {
	path := filepath.Join(t.TempDir(), "quadro.csv")
	st := store.NewCSV(path)
	if _, err := st.LoadAll(context.Background()); err != nil {
		t.Fatalf("LoadAll() error: %v", err)
	}
	b := board.New(st, &board.Config{Logger: log.New(io.Discard, "", 0)})

	w, err := New(path, b, nil, &Config{Logger: log.New(io.Discard, "", 0)})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if w.IsRunning() {
		t.Error("IsRunning() = true before Start")
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !w.IsRunning() {
		t.Error("IsRunning() = false after Start")
	}
	if err := w.Start(); err == nil {
		t.Error("second Start() succeeded, want error")
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}
	if w.IsRunning() {
		t.Error("IsRunning() = true after Stop")
	}
	// Stopping twice is harmless.
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
}

func TestWatcher_Validation(t *testing.T) {
	b := board.New(store.NewCSV(filepath.Join(t.TempDir(), "quadro.csv")), nil)

	if _, err := New("", b, nil, nil); err == nil {
		t.Error("New with empty path succeeded")
	}
	if _, err := New("quadro.csv", nil, nil, nil); err == nil {
		t.Error("New with nil board succeeded")
	}
}
