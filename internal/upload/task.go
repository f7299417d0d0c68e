package upload

import (
	"errors"
	"fmt"
	"strings"

	"github.com/csheth/goldenvalley/internal/gateway"
)

// Phase is the lifecycle position of the upload task.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseUploading
	PhaseSuccess
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseUploading:
		return "uploading"
	case PhaseSuccess:
		return "success"
	case PhaseError:
		return "error"
	default:
		return "idle"
	}
}

const (
	progressStep = 10
	progressCap  = 90
)

var (
	// ErrBusy is returned when the selection or a new upload is attempted while
	// an upload is in flight.
	ErrBusy = errors.New("an upload is already in progress")
	// ErrNoDocument is returned by Start when nothing is selected.
	ErrNoDocument = &gateway.ValidationError{Field: "document", Reason: "Please select a file to upload"}
)

// Task is the single upload slot. Attempt ids let callers discard results
// that belong to an earlier attempt.
type Task struct {
	doc      *gateway.Document
	progress int
	phase    Phase
	attempt  int
	notice   string
	errText  string
	result   gateway.UploadResult
}

func (t *Task) Phase() Phase { return t.phase }
func (t *Task) Progress() int { return t.progress }
func (t *Task) Attempt() int { return t.attempt }
func (t *Task) Notice() string { return t.notice }
func (t *Task) ErrorText() string { return t.errText }

// Document returns the selected document, if any.
func (t *Task) Document() (gateway.Document, bool) {
	if t.doc == nil {
		return gateway.Document{}, false
	}
	return *t.doc, true
}

// Busy reports whether an upload occupies the slot, including the success
// display window before the task is cleared.
func (t *Task) Busy() bool {
	return t.phase == PhaseUploading || t.phase == PhaseSuccess
}

// Select replaces the current selection. It is rejected while busy.
func (t *Task) Select(doc gateway.Document) error {
	if t.Busy() {
		return ErrBusy
	}
	t.doc = &doc
	t.phase = PhaseIdle
	t.progress = 0
	t.notice = ""
	t.errText = ""
	return nil
}

// Cancel drops the selection. It is rejected while busy.
func (t *Task) Cancel() error {
	if t.Busy() {
		return ErrBusy
	}
	t.reset()
	return nil
}

// Start begins an upload of the selected document and returns it with the new
// attempt id. A failed task can be restarted without selecting again.
func (t *Task) Start() (gateway.Document, int, error) {
	if t.Busy() {
		return gateway.Document{}, 0, ErrBusy
	}
	if t.doc == nil {
		t.errText = ErrNoDocument.Reason
		return gateway.Document{}, 0, ErrNoDocument
	}
	t.attempt++
	t.phase = PhaseUploading
	t.progress = 0
	t.notice = ""
	t.errText = ""
	return *t.doc, t.attempt, nil
}

// Advance moves the cosmetic progress forward, capped below completion. It
// reports whether the attempt is still uploading.
func (t *Task) Advance(attempt int) bool {
	if attempt != t.attempt || t.phase != PhaseUploading {
		return false
	}
	t.progress += progressStep
	if t.progress > progressCap {
		t.progress = progressCap
	}
	return true
}

// Succeed records a finished upload. Stale attempts are ignored.
func (t *Task) Succeed(attempt int, result gateway.UploadResult) bool {
	if attempt != t.attempt || t.phase != PhaseUploading {
		return false
	}
	t.phase = PhaseSuccess
	t.progress = 100
	t.result = result
	message := strings.TrimSpace(result.Message)
	if message == "" {
		message = "Document processed"
	}
	t.notice = fmt.Sprintf("File uploaded successfully: %s", message)
	return true
}

// Fail records a failed upload and keeps the document selected for a retry.
func (t *Task) Fail(attempt int, err error) bool {
	if attempt != t.attempt || t.phase != PhaseUploading {
		return false
	}
	t.phase = PhaseError
	t.progress = 0
	reason := strings.TrimSpace(gateway.Describe(err))
	if reason == "" {
		reason = "Unknown error"
	}
	t.errText = fmt.Sprintf("Upload failed: %s", reason)
	return true
}

// Clear ends the success display window, returning the task to idle with no
// selection. It returns the upload result for the transcript.
func (t *Task) Clear(attempt int) (gateway.UploadResult, bool) {
	if attempt != t.attempt || t.phase != PhaseSuccess {
		return gateway.UploadResult{}, false
	}
	result := t.result
	t.reset()
	return result, true
}

func (t *Task) reset() {
	t.doc = nil
	t.phase = PhaseIdle
	t.progress = 0
	t.notice = ""
	t.errText = ""
	t.result = gateway.UploadResult{}
}
