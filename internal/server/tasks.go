package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mhenders/worklog/internal/types"
)

// taskRegistry tracks in-flight summarization tasks in memory. Tasks are
// ephemeral bookkeeping; the durable artifact is the summary row.
type taskRegistry struct {
	mu    sync.Mutex
	tasks map[string]*types.SummaryTask
}

func newTaskRegistry() *taskRegistry {
	return &taskRegistry{tasks: make(map[string]*types.SummaryTask)}
}

func (r *taskRegistry) start(start, end time.Time) *types.SummaryTask {
	now := time.Now().UTC()
	task := &types.SummaryTask{
		ID:        uuid.New().String(),
		State:     types.TaskPending,
		StartDate: start,
		EndDate:   end,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.mu.Lock()
	r.tasks[task.ID] = task
	r.mu.Unlock()
	return task
}

func (r *taskRegistry) setState(id string, state types.TaskState, summaryID, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return
	}
	task.State = state
	task.UpdatedAt = time.Now().UTC()
	if summaryID != "" {
		task.SummaryID = summaryID
	}
	if errMsg != "" {
		task.Error = errMsg
	}
}

func (r *taskRegistry) get(id string) (*types.SummaryTask, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok {
		return nil, false
	}
	copied := *task
	return &copied, true
}
