// Package status tracks backend connectivity and the manual Trello sync.
// Polling and syncing are independent flows, each gated by its own flag.
package status

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/csheth/goldenvalley/internal/gateway"
)

// PollInterval is how often the status is refreshed while the view is open.
const PollInterval = 60 * time.Second

// Status is the last known backend state. It is always replaced as a whole.
type Status struct {
	TrelloConnected bool
	DocumentsLoaded bool
	LastSync        *time.Time
	DocumentCount   int
}

// Default is the fail-safe status shown before the first poll and after any
// failed poll.
func Default() Status {
	return Status{}
}

// FromReport converts a gateway report into a Status.
func FromReport(report gateway.StatusReport) Status {
	count := report.DocumentCount
	if count < 0 {
		count = 0
	}
	return Status{
		TrelloConnected: report.TrelloConnected,
		DocumentsLoaded: count > 0,
		LastSync:        report.LastSync,
		DocumentCount:   count,
	}
}

// Orchestrator owns the status value plus the busy and message state of the
// poll and sync flows.
type Orchestrator struct {
	status      Status
	loading     bool
	pollErr     string
	polledAt    time.Time
	syncing     bool
	syncMessage string
	syncFailed  bool
}

// NewOrchestrator starts with the default status.
func NewOrchestrator() *Orchestrator {
	return &Orchestrator{status: Default()}
}

func (o *Orchestrator) Status() Status { return o.status }
func (o *Orchestrator) Loading() bool { return o.loading }
func (o *Orchestrator) PollError() string { return o.pollErr }
func (o *Orchestrator) PolledAt() time.Time { return o.polledAt }
func (o *Orchestrator) Syncing() bool { return o.syncing }
func (o *Orchestrator) SyncMessage() string { return o.syncMessage }
func (o *Orchestrator) SyncFailed() bool { return o.syncFailed }

// BeginPoll marks a fetch as outstanding. It returns false if one already is.
func (o *Orchestrator) BeginPoll() bool {
	if o.loading {
		return false
	}
	o.loading = true
	return true
}

// FinishPoll applies a fetch result. Failures reset the status to Default so a
// backend outage never keeps showing a stale "connected" state.
func (o *Orchestrator) FinishPoll(report gateway.StatusReport, err error, at time.Time) {
	o.loading = false
	o.polledAt = at
	if err != nil {
		log.Printf("[status] poll failed, resetting status: %v", err)
		o.status = Default()
		o.pollErr = gateway.Describe(err)
		return
	}
	o.status = FromReport(report)
	o.pollErr = ""
}

// BeginSync marks a manual sync as running and clears the previous message.
// It returns false while another sync is in flight.
func (o *Orchestrator) BeginSync() bool {
	if o.syncing {
		return false
	}
	o.syncing = true
	o.syncMessage = ""
	o.syncFailed = false
	return true
}

// FinishSync records the sync outcome as a transient message. It reports
// whether the caller should refresh the status to pick up the new last-sync
// time.
func (o *Orchestrator) FinishSync(result gateway.SyncResult, err error) bool {
	o.syncing = false
	if err != nil {
		reason := strings.TrimSpace(gateway.Describe(err))
		if reason == "" {
			reason = "Unknown error"
		}
		o.syncMessage = fmt.Sprintf("Sync failed: %s", reason)
		o.syncFailed = true
		return false
	}
	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = "Trello data synchronized"
	}
	o.syncMessage = fmt.Sprintf("Sync successful: %s", message)
	o.syncFailed = false
	return true
}

// DismissSyncMessage clears the transient sync message.
func (o *Orchestrator) DismissSyncMessage() {
	o.syncMessage = ""
	o.syncFailed = false
}

// FormatLastSync renders the last sync instant for display.
func FormatLastSync(at *time.Time) string {
	if at == nil || at.IsZero() {
		return "Never"
	}
	return at.Local().Format("2006-01-02 15:04:05")
}
