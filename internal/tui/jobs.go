package tui

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type jobKind string

type jobStatus string

const (
	jobKindChat   jobKind = "chat"
	jobKindUpload jobKind = "upload"
	jobKindSync   jobKind = "sync"
	jobKindStatus jobKind = "status"
)

const (
	jobStatusRunning   jobStatus = "running"
	jobStatusSucceeded jobStatus = "succeeded"
	jobStatusFailed    jobStatus = "failed"
)

type jobSnapshot struct {
	ID          string
	Kind        jobKind
	Status      jobStatus
	StartedAt   time.Time
	CompletedAt time.Time
	Err         string
	Duration    time.Duration
}

type jobResultEnvelope struct {
	Snapshot jobSnapshot
	Payload  tea.Msg
}

type jobRunner func(context.Context) (tea.Msg, error)

// jobBus tracks backend calls started from the Update loop. Start and Finish
// must only be called from Update; runners execute on tea's goroutines and
// only communicate through the returned envelope.
type jobBus struct {
	counter int64
	running map[string]jobSnapshot
	last    map[jobKind]jobSnapshot
}

func newJobBus() *jobBus {
	return &jobBus{
		running: map[string]jobSnapshot{},
		last:    map[jobKind]jobSnapshot{},
	}
}

func (b *jobBus) nextID(kind jobKind) string {
	b.counter++
	return fmt.Sprintf("%s-%d", kind, b.counter)
}

func (b *jobBus) Start(kind jobKind, runner jobRunner) tea.Cmd {
	id := b.nextID(kind)
	started := time.Now()
	b.running[id] = jobSnapshot{ID: id, Kind: kind, Status: jobStatusRunning, StartedAt: started}

	return func() tea.Msg {
		payload, err := runner(context.Background())
		snapshot := jobSnapshot{
			ID:          id,
			Kind:        kind,
			StartedAt:   started,
			CompletedAt: time.Now(),
		}
		if err != nil {
			snapshot.Status = jobStatusFailed
			snapshot.Err = err.Error()
		} else {
			snapshot.Status = jobStatusSucceeded
		}
		snapshot.Duration = snapshot.CompletedAt.Sub(started)
		log.Printf("[jobs] %s %s (duration=%s, err=%v)", kind, snapshot.Status, snapshot.Duration, err)
		return jobResultEnvelope{Snapshot: snapshot, Payload: payload}
	}
}

func (b *jobBus) Finish(snapshot jobSnapshot) {
	delete(b.running, snapshot.ID)
	b.last[snapshot.Kind] = snapshot
}

func (b *jobBus) Running() []jobSnapshot {
	out := make([]jobSnapshot, 0, len(b.running))
	for _, snap := range b.running {
		out = append(out, snap)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartedAt.Before(out[j].StartedAt)
	})
	return out
}

func (b *jobBus) Last(kind jobKind) (jobSnapshot, bool) {
	snap, ok := b.last[kind]
	return snap, ok
}
