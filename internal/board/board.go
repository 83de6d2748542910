// Package board owns the cached table: the single authoritative in-memory
// view of the backing store, plus the query and mutation engines that
// serve it.
//
// A Board is explicitly constructed and injected into its callers; there
// is no process-wide instance. All mutations serialize behind one write
// lock that also covers the persist-and-refresh sequence, so a successful
// mutation call never returns before the snapshot reflects the store and
// readers never observe a stale row afterwards. Reads share a read lock
// and never touch the store once the snapshot is built.
package board

import (
	"context"
	"log"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/fmoraes/quadro/internal/store"
	"github.com/fmoraes/quadro/internal/task"
)

// Config holds board configuration.
type Config struct {
	// Logger for board activity.
	Logger *log.Logger

	// Now supplies the current time for auto-filled dates. Tests override it.
	Now func() time.Time
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Logger: log.New(os.Stderr, "[board] ", log.LstdFlags),
		Now:    time.Now,
	}
}

// Board is the cached table plus its query and mutation engines.
type Board struct {
	mu     sync.RWMutex
	store  store.Store
	snap   *snapshot
	logger *log.Logger
	now    func() time.Time
}

// New creates a board over the given store. The snapshot is built lazily
// on first use; call Refresh to force an immediate load.
func New(st store.Store, config *Config) *Board {
	if config == nil {
		config = DefaultConfig()
	}
	if config.Logger == nil {
		config.Logger = log.New(os.Stderr, "[board] ", log.LstdFlags)
	}
	if config.Now == nil {
		config.Now = time.Now
	}
	return &Board{
		store:  st,
		logger: config.Logger,
		now:    config.Now,
	}
}

// Refresh rebuilds the snapshot from the store. Idempotent and safe to
// call repeatedly; on failure the previous snapshot keeps serving reads.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reloadLocked(ctx)
}

// reloadLocked loads the store and swaps the snapshot. Callers hold the
// write lock.
func (b *Board) reloadLocked(ctx context.Context) error {
	values, err := b.store.LoadAll(ctx)
	if err != nil {
		return err
	}
	snap, err := buildSnapshot(values)
	if err != nil {
		return err
	}
	b.snap = snap
	return nil
}

// current returns the snapshot, building it on first use.
func (b *Board) current(ctx context.Context) (*snapshot, error) {
	b.mu.RLock()
	snap := b.snap
	b.mu.RUnlock()
	if snap != nil {
		return snap, nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.snap == nil {
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}
	return b.snap, nil
}

// Query returns the rows matching the filters, in the table's natural
// order, sliced by the optional pagination. The result is always the
// paginated wrapper: omitted pagination means one page sized to the full
// filtered result.
func (b *Board) Query(ctx context.Context, filters *task.SearchFilters, pagination *task.Pagination) (*task.Page, error) {
	snap, err := b.current(ctx)
	if err != nil {
		return nil, err
	}

	filtered := make([]task.Task, 0, len(snap.tasks))
	for i := range snap.tasks {
		if matches(&snap.tasks[i], filters) {
			filtered = append(filtered, snap.tasks[i])
		}
	}
	return paginate(filtered, pagination)
}

// Find returns the plain filtered list with no pagination metadata.
func (b *Board) Find(ctx context.Context, filters *task.SearchFilters) ([]task.Task, error) {
	page, err := b.Query(ctx, filters, nil)
	if err != nil {
		return nil, err
	}
	return page.Tasks, nil
}

// GetOne returns the task with the exact (project, task_id) identity.
func (b *Board) GetOne(ctx context.Context, project, taskID string) (*task.Task, error) {
	snap, err := b.current(ctx)
	if err != nil {
		return nil, err
	}
	idx := snap.indexOf(project, taskID)
	if idx < 0 {
		return nil, task.NotFoundf(project, taskID)
	}
	t := snap.tasks[idx]
	return &t, nil
}

// AddOne validates and appends one task, then refreshes the snapshot.
// The creation date is filled when blank. Returns the assigned identity.
func (b *Board) AddOne(ctx context.Context, t task.Task) (task.Key, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snap == nil {
		if err := b.reloadLocked(ctx); err != nil {
			return task.Key{}, err
		}
	}

	if err := t.Validate(); err != nil {
		return task.Key{}, err
	}
	if b.snap.has(t.Project, t.TaskID) {
		return task.Key{}, task.AlreadyExistsf(t.Project, t.TaskID)
	}
	t.SetDefaults(b.now())

	if err := b.store.AppendRows(ctx, [][]string{t.Row()}); err != nil {
		// No refresh after a failed write: the snapshot still matches the
		// last successful store state.
		return task.Key{}, err
	}
	if err := b.reloadLocked(ctx); err != nil {
		return task.Key{}, err
	}

	b.logger.Printf("added task %s/%s", t.Project, t.TaskID)
	return t.Key(), nil
}

// UpdateOne applies a field-level partial patch to one row, persists it
// via a single-row overwrite, and refreshes the snapshot. A transition
// into a terminal status sets data_solucao to the current date unless the
// patch provides it explicitly. Identical repeated patches are idempotent.
func (b *Board) UpdateOne(ctx context.Context, project, taskID string, fields task.Patch) (*task.Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snap == nil {
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}

	updated, idx, err := b.applyLocked(b.snap.tasks, project, taskID, fields)
	if err != nil {
		return nil, err
	}

	if err := b.store.OverwriteRows(ctx, map[int][]string{idx: updated.Row()}); err != nil {
		return nil, err
	}
	if err := b.reloadLocked(ctx); err != nil {
		return nil, err
	}

	b.logger.Printf("updated task %s/%s", project, taskID)
	return updated, nil
}

// applyLocked computes the patched row against the given working set
// without persisting anything. Returns the new row value and its index.
func (b *Board) applyLocked(working []task.Task, project, taskID string, fields task.Patch) (*task.Task, int, error) {
	if err := fields.Validate(); err != nil {
		return nil, 0, err
	}

	idx := -1
	for i := range working {
		if working[i].Project == project && working[i].TaskID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, 0, task.NotFoundf(project, taskID)
	}

	updated := working[idx]
	fields.Apply(&updated)

	// A transition into a terminal status records the completion date.
	// Never auto-cleared, and an already-recorded date is kept, so the
	// same patch applied twice lands on the same record.
	if fields.Has("status") && updated.Status.Terminal() &&
		!fields.Has("data_solucao") && updated.DataSolucao == "" {
		updated.DataSolucao = b.now().Format(task.SolvedAtLayout)
	}

	if err := updated.Validate(); err != nil {
		return nil, 0, err
	}
	return &updated, idx, nil
}

// BatchAdd processes each record independently: per-item validation and
// duplicate failures are recorded in the result, all successful rows are
// persisted in one append, and the snapshot refreshes once at the end.
// A store-level failure during the shared write aborts the whole call.
func (b *Board) BatchAdd(ctx context.Context, tasks []task.Task) (*task.BatchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snap == nil {
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}
	if len(tasks) == 0 {
		return nil, task.Validationf("no tasks to add")
	}

	result := &task.BatchResult{}
	pending := make(map[task.Key]bool)
	var rows [][]string

	for i := range tasks {
		t := tasks[i]
		if err := t.Validate(); err != nil {
			result.Add(t.TaskID, err)
			continue
		}
		key := t.Key()
		if b.snap.has(key.Project, key.TaskID) || pending[key] {
			result.Add(t.TaskID, task.AlreadyExistsf(key.Project, key.TaskID))
			continue
		}
		t.SetDefaults(b.now())
		pending[key] = true
		rows = append(rows, t.Row())
		result.Add(t.TaskID, nil)
	}

	if len(rows) > 0 {
		if err := b.store.AppendRows(ctx, rows); err != nil {
			return nil, err
		}
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}

	b.logger.Printf("batch add: %d ok, %d failed", result.SuccessCount, result.ErrorCount)
	return result, nil
}

// BatchUpdate computes every row mutation first against a working copy
// (later items observe earlier items' effects), persists all affected
// rows in one overwrite, and refreshes the snapshot once. Per-item
// NotFound/validation failures are recorded; a store-level failure
// aborts the whole call.
func (b *Board) BatchUpdate(ctx context.Context, updates []task.Update) (*task.BatchResult, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.snap == nil {
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}
	if len(updates) == 0 {
		return nil, task.Validationf("no updates to apply")
	}

	working := make([]task.Task, len(b.snap.tasks))
	copy(working, b.snap.tasks)

	result := &task.BatchResult{}
	mutations := make(map[int][]string)

	for _, u := range updates {
		if u.Project == "" {
			result.Add(u.TaskID, task.Validationf("project is required"))
			continue
		}
		if u.TaskID == "" {
			result.Add("unknown", task.Validationf("task_id is required"))
			continue
		}

		updated, idx, err := b.applyLocked(working, u.Project, u.TaskID, u.Fields)
		if err != nil {
			result.Add(u.TaskID, err)
			continue
		}
		working[idx] = *updated
		mutations[idx] = updated.Row()
		result.Add(u.TaskID, nil)
	}

	if len(mutations) > 0 {
		if err := b.store.OverwriteRows(ctx, mutations); err != nil {
			return nil, err
		}
		if err := b.reloadLocked(ctx); err != nil {
			return nil, err
		}
	}

	b.logger.Printf("batch update: %d ok, %d failed", result.SuccessCount, result.ErrorCount)
	return result, nil
}

// SprintStats summarizes completion per sprint, optionally narrowed to an
// exact project name. Rows without a sprint are excluded; results sort by
// sprint name.
func (b *Board) SprintStats(ctx context.Context, project string) ([]task.SprintStat, error) {
	snap, err := b.current(ctx)
	if err != nil {
		return nil, err
	}

	groups := make(map[string][]*task.Task)
	for i := range snap.tasks {
		t := &snap.tasks[i]
		if t.Sprint == "" {
			continue
		}
		if project != "" && t.Project != project {
			continue
		}
		groups[t.Sprint] = append(groups[t.Sprint], t)
	}

	stats := make([]task.SprintStat, 0, len(groups))
	for sprint, tasks := range groups {
		stat := task.SprintStat{
			Sprint:        sprint,
			TotalTasks:    len(tasks),
			TasksByStatus: make(map[string]int),
		}
		for _, t := range tasks {
			stat.TasksByStatus[string(t.Status)]++
			if t.Status == task.StatusConcluido {
				stat.CompletedTasks++
			}
		}
		pct := float64(stat.CompletedTasks) / float64(stat.TotalTasks) * 100
		stat.CompletionPercentage = math.Round(pct*100) / 100
		stats = append(stats, stat)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Sprint < stats[j].Sprint })
	return stats, nil
}

// ValidConfigs lists the accepted enum values. No IO.
func (b *Board) ValidConfigs() task.ValidConfigs {
	return task.ValidConfigs{
		Statuses:   task.Statuses(),
		Priorities: task.Priorities(),
	}
}
