// Package jobs tracks the REPL's child processes. Completion asks it whether
// a foreground job owns the terminal before offering candidates.
package jobs

import (
	"sort"
	"sync"
	"time"
)

// State is a job's lifecycle state.
type State int

const (
	// Running means the process has not exited yet.
	Running State = iota
	// Done means the process exited and awaits reaping.
	Done
)

func (s State) String() string {
	if s == Done {
		return "done"
	}
	return "running"
}

// Job describes one child process.
type Job struct {
	ID      int
	Pid     int
	Command string
	Started time.Time
	State   State
}

// Table is the job registry. Safe for concurrent use.
type Table struct {
	mu   sync.RWMutex
	next int
	jobs map[int]Job
	fg   *Job
}

// NewTable creates an empty job table.
func NewTable() *Table {
	return &Table{next: 1, jobs: make(map[int]Job)}
}

// AddBackground registers a background job and returns it.
func (t *Table) AddBackground(command string, pid int) Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	job := Job{
		ID:      t.next,
		Pid:     pid,
		Command: command,
		Started: time.Now(),
		State:   Running,
	}
	t.next++
	t.jobs[job.ID] = job
	return job
}

// SetForeground records the job currently owning the prompt.
func (t *Table) SetForeground(command string, pid int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fg = &Job{
		Pid:     pid,
		Command: command,
		Started: time.Now(),
		State:   Running,
	}
}

// ClearForeground marks the foreground job finished.
func (t *Table) ClearForeground() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fg = nil
}

// Finish marks a background job done. Unknown IDs are ignored.
func (t *Table) Finish(id int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	job, ok := t.jobs[id]
	if !ok {
		return
	}
	job.State = Done
	t.jobs[id] = job
}

// Jobs returns a snapshot of all tracked jobs, ordered by ID.
func (t *Table) Jobs() []Job {
	t.mu.RLock()
	defer t.mu.RUnlock()
	jobs := make([]Job, 0, len(t.jobs))
	for _, job := range t.jobs {
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].ID < jobs[j].ID })
	return jobs
}

// Reap removes done jobs from the table and returns them, ordered by ID. The
// REPL prints them before the next prompt.
func (t *Table) Reap() []Job {
	t.mu.Lock()
	defer t.mu.Unlock()
	var done []Job
	for id, job := range t.jobs {
		if job.State == Done {
			done = append(done, job)
			delete(t.jobs, id)
		}
	}
	sort.Slice(done, func(i, j int) bool { return done[i].ID < done[j].ID })
	return done
}

// ForegroundActive reports whether a foreground job is running or another
// process group owns the controlling terminal.
func (t *Table) ForegroundActive() bool {
	t.mu.RLock()
	fg := t.fg != nil
	t.mu.RUnlock()
	return fg || terminalBusy()
}
