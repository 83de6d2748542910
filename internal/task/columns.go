package task

import "strings"

// Column binds a display header (as written in the backing grid) to its
// normalized internal key. Normalization replaces spaces with hyphens so
// keys are stable for internal addressing; display headers are projected
// back on output.
type Column struct {
	Header string
	Key    string
}

// Columns is the canonical column order of the backing store. The adapter
// and the cached table must agree on it; the header row read from the
// store is validated against this mapping before any row is served.
var Columns = [...]Column{
	{Header: "Project", Key: "Project"},
	{Header: "Task ID", Key: "Task-ID"},
	{Header: "Task ID Root", Key: "Task-ID-Root"},
	{Header: "Sprint", Key: "Sprint"},
	{Header: "Contexto", Key: "Contexto"},
	{Header: "Descrição", Key: "Descrição"},
	{Header: "Detalhado", Key: "Detalhado"},
	{Header: "Prioridade", Key: "Prioridade"},
	{Header: "Status", Key: "Status"},
	{Header: "Data Criação", Key: "Data-Criação"},
	{Header: "Data Solução", Key: "Data-Solução"},
}

// NumColumns is the width of every row in the backing grid.
const NumColumns = len(Columns)

// Headers returns the canonical header row.
func Headers() []string {
	hs := make([]string, NumColumns)
	for i, c := range Columns {
		hs[i] = c.Header
	}
	return hs
}

// NormalizeHeader converts a display header to its internal key form.
func NormalizeHeader(h string) string {
	return strings.ReplaceAll(strings.TrimSpace(h), " ", "-")
}

// ValidateHeader checks a header row read from the store against the
// canonical mapping. Comparison happens on normalized keys, so a store
// written with either display headers or key-form headers is accepted.
func ValidateHeader(header []string) error {
	if len(header) != NumColumns {
		return Consistencyf("header has %d columns, want %d", len(header), NumColumns)
	}
	for i, h := range header {
		if NormalizeHeader(h) != Columns[i].Key {
			return Consistencyf("header column %d is %q, want %q", i, h, Columns[i].Header)
		}
	}
	return nil
}

// Row projects the task into the canonical column order.
func (t *Task) Row() []string {
	return []string{
		t.Project,
		t.TaskID,
		t.TaskIDRoot,
		t.Sprint,
		t.Contexto,
		t.Descricao,
		t.Detalhado,
		string(t.Prioridade),
		string(t.Status),
		t.DataCriacao,
		t.DataSolucao,
	}
}

// FromRow builds a task from a store row. Short rows are padded with empty
// cells (trailing blanks are routinely dropped by spreadsheet backends);
// rows wider than the schema are rejected.
func FromRow(row []string) (Task, error) {
	if len(row) > NumColumns {
		return Task{}, Consistencyf("row has %d cells, want at most %d", len(row), NumColumns)
	}
	cells := make([]string, NumColumns)
	copy(cells, row)
	return Task{
		Project:     cells[0],
		TaskID:      cells[1],
		TaskIDRoot:  cells[2],
		Sprint:      cells[3],
		Contexto:    cells[4],
		Descricao:   cells[5],
		Detalhado:   cells[6],
		Prioridade:  Priority(cells[7]),
		Status:      Status(cells[8]),
		DataCriacao: cells[9],
		DataSolucao: cells[10],
	}, nil
}
