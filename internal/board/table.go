package board

import (
	"github.com/fmoraes/quadro/internal/task"
)

// snapshot is one immutable in-memory view of the backing store: the
// display header as read from the medium plus every task row in natural
// order. The board swaps the whole snapshot on refresh, so readers holding
// a reference never observe a half-built table.
type snapshot struct {
	header []string
	tasks  []task.Task
}

// buildSnapshot validates the header row against the compile-time column
// mapping and converts every data row. A malformed header or an oversized
// row makes the whole load fail; the board keeps serving the previous
// snapshot in that case.
func buildSnapshot(values [][]string) (*snapshot, error) {
	if len(values) == 0 {
		return nil, task.Consistencyf("store returned no header row")
	}
	if err := task.ValidateHeader(values[0]); err != nil {
		return nil, err
	}

	snap := &snapshot{
		header: values[0],
		tasks:  make([]task.Task, 0, len(values)-1),
	}
	for i, row := range values[1:] {
		t, err := task.FromRow(row)
		if err != nil {
			return nil, task.Consistencyf("data row %d: %v", i, err)
		}
		snap.tasks = append(snap.tasks, t)
	}
	return snap, nil
}

// indexOf returns the 0-based data-row index of the given identity, or -1.
func (s *snapshot) indexOf(project, taskID string) int {
	for i := range s.tasks {
		if s.tasks[i].Project == project && s.tasks[i].TaskID == taskID {
			return i
		}
	}
	return -1
}

// has reports whether the identity exists in the snapshot.
func (s *snapshot) has(project, taskID string) bool {
	return s.indexOf(project, taskID) >= 0
}
