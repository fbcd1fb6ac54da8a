package upload

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

const taskRetention = 10 * time.Minute

// Task is the observable state of one upload, polled by clients while the
// transfer runs in the background.
type Task struct {
	ID        uuid.UUID
	Progress  float64
	URL       string
	Error     string
	Done      bool
	UpdatedAt time.Time
}

// Tracker keeps in-flight and recently finished upload tasks in memory.
type Tracker struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*Task
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{tasks: make(map[uuid.UUID]*Task)}
}

// Begin registers a new task and returns its ID. Finished tasks past the
// retention window are dropped on the way.
func (t *Tracker) Begin() uuid.UUID {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := time.Now().Add(-taskRetention)
	for id, task := range t.tasks {
		if task.Done && task.UpdatedAt.Before(cutoff) {
			delete(t.tasks, id)
		}
	}

	id := uuid.New()
	t.tasks[id] = &Task{ID: id, UpdatedAt: time.Now()}

	return id
}

// SetProgress records the current transfer percentage.
func (t *Tracker) SetProgress(id uuid.UUID, percent float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok || task.Done {
		return
	}
	task.Progress = percent
	task.UpdatedAt = time.Now()
}

// Complete marks the task done with the stored object's URL.
func (t *Tracker) Complete(id uuid.UUID, url string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok {
		return
	}
	task.Progress = 100
	task.URL = url
	task.Done = true
	task.UpdatedAt = time.Now()
}

// Fail marks the task done with an error message.
func (t *Tracker) Fail(id uuid.UUID, message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok {
		return
	}
	task.Error = message
	task.Done = true
	task.UpdatedAt = time.Now()
}

// Get returns a copy of the task.
func (t *Tracker) Get(id uuid.UUID) (Task, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	task, ok := t.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *task, true
}
