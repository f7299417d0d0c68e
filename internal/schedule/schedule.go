// Package schedule provides repeating timers for a Bubble Tea program with an
// explicit cancellation handle. A stopped task's pending fire messages are
// recognised as stale and never re-arm.
package schedule

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// FireMsg is delivered each time a task's interval elapses.
type FireMsg struct {
	Name string
	Gen  int
	At   time.Time
}

// Task is a named repeating timer. It must be driven from the Update loop.
type Task struct {
	name     string
	interval time.Duration
	gen      int
	active   bool
}

// NewTask returns an inactive task.
func NewTask(name string, interval time.Duration) *Task {
	return &Task{name: name, interval: interval}
}

func (t *Task) Name() string { return t.name }
func (t *Task) Interval() time.Duration { return t.interval }
func (t *Task) Active() bool { return t.active }

// Start (re)arms the task. Fire messages from any earlier run become stale.
func (t *Task) Start() tea.Cmd {
	t.gen++
	t.active = true
	return t.Next()
}

// Stop cancels the task. Already scheduled ticks still arrive but are
// rejected by Accept.
func (t *Task) Stop() {
	t.active = false
	t.gen++
}

// Accept reports whether msg belongs to the current run of this task.
func (t *Task) Accept(msg FireMsg) bool {
	return t.active && msg.Name == t.name && msg.Gen == t.gen
}

// Next schedules the following fire of the current run.
func (t *Task) Next() tea.Cmd {
	if !t.active {
		return nil
	}
	name, gen := t.name, t.gen
	return tea.Tick(t.interval, func(at time.Time) tea.Msg {
		return FireMsg{Name: name, Gen: gen, At: at}
	})
}
