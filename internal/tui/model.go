package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/goldenvalley/internal/conversation"
	"github.com/csheth/goldenvalley/internal/gateway"
	"github.com/csheth/goldenvalley/internal/modifiers"
	"github.com/csheth/goldenvalley/internal/schedule"
	"github.com/csheth/goldenvalley/internal/status"
	"github.com/csheth/goldenvalley/internal/upload"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Gateway      gateway.Client
	PollInterval time.Duration
	// UploadClearDelay is how long a finished upload stays on screen.
	UploadClearDelay time.Duration
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.PollInterval <= 0 {
		config.PollInterval = status.PollInterval
	}
	if config.UploadClearDelay <= 0 {
		config.UploadClearDelay = defaultUploadClearDelay
	}

	composer := textinput.New()
	composer.Placeholder = composerChatPlaceholder
	composer.Prompt = "› "
	composer.CharLimit = 4000
	composer.Width = 70
	composer.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	vp := viewport.New(80, 20)
	vp.MouseWheelEnabled = true

	bar := progress.New(progress.WithDefaultGradient(), progress.WithWidth(40))

	session := conversation.NewSession()
	selection := modifiers.NewSelection()
	session.SetInstructions(modifiers.Compose(selection))

	return &model{
		config:       config,
		session:      session,
		selection:    selection,
		orchestrator: status.NewOrchestrator(),
		upload:       &upload.Task{},
		jobs:         newJobBus(),
		pollTask:     schedule.NewTask(pollTaskName, config.PollInterval),
		progressTask: schedule.NewTask(progressTaskName, uploadProgressInterval),
		composer:     composer,
		spinner:      spin,
		viewport:     vp,
		progress:     bar,
		layout:       newPageLayout(),
		renderer:     newTranscriptRenderer(),
		dirty:        true,
		infoMessage:  "Ask a question, or press ctrl+u to upload a document.",
	}
}

type model struct {
	config Config

	session      *conversation.Session
	selection    modifiers.Selection
	orchestrator *status.Orchestrator
	upload       *upload.Task
	jobs         *jobBus
	pollTask     *schedule.Task
	progressTask *schedule.Task

	composer     textinput.Model
	composerMode composerMode
	spinner      spinner.Model
	viewport     viewport.Model
	progress     progress.Model
	layout       pageLayout
	renderer     *transcriptRenderer

	modifiersOpen  bool
	helpVisible    bool
	dirty          bool
	scrollToBottom bool
	closed         bool
	infoMessage    string
	uploadError    string
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.startPolling())
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.closed {
		return m, nil
	}
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if m.busy() {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			if m.session.Pending() {
				m.dirty = true
			}
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.composer.Width = m.layout.composerWidth
		m.progress.Width = m.layout.progressWidth
		m.dirty = true
		return m, nil
	case schedule.FireMsg:
		return m, m.handleFire(msg)
	case jobResultEnvelope:
		m.jobs.Finish(msg.Snapshot)
		return m, m.handleJobPayload(msg.Payload)
	case uploadClearMsg:
		if result, ok := m.upload.Clear(msg.attempt); ok {
			m.session.RecordUpload(result)
			m.dirty = true
			m.scrollToBottom = true
		}
		return m, nil
	}
	return m, nil
}

func (m *model) handleJobPayload(payload tea.Msg) tea.Cmd {
	switch msg := payload.(type) {
	case chatResultMsg:
		if msg.conversationID != m.session.ID() {
			return nil
		}
		m.session.Complete(msg.reply, msg.err)
		m.dirty = true
		m.scrollToBottom = true
		if msg.err == nil {
			m.infoMessage = "Answer received."
		}
		return nil
	case uploadResultMsg:
		if msg.attempt != m.upload.Attempt() {
			return nil
		}
		m.progressTask.Stop()
		if msg.err != nil {
			m.upload.Fail(msg.attempt, msg.err)
			m.infoMessage = "Press enter in the upload panel to retry."
			return nil
		}
		if m.upload.Succeed(msg.attempt, msg.result) {
			return uploadClearCmd(m.config.UploadClearDelay, msg.attempt)
		}
		return nil
	case statusResultMsg:
		m.orchestrator.FinishPoll(msg.report, msg.err, msg.at)
		return nil
	case syncResultMsg:
		if m.orchestrator.FinishSync(msg.result, msg.err) {
			return m.pollNow()
		}
		return nil
	}
	return nil
}

func (m *model) handleFire(msg schedule.FireMsg) tea.Cmd {
	switch {
	case m.pollTask.Accept(msg):
		return tea.Batch(m.pollNow(), m.pollTask.Next())
	case m.progressTask.Accept(msg):
		if m.upload.Advance(m.upload.Attempt()) {
			return m.progressTask.Next()
		}
		m.progressTask.Stop()
	}
	return nil
}

func (m *model) handleKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyCtrlC:
		m.teardown()
		return tea.Quit
	case tea.KeyCtrlO:
		m.toggleModifiers()
		return nil
	case tea.KeyCtrlU:
		m.toggleUploadMode()
		return nil
	case tea.KeyCtrlS:
		return m.startSync()
	case tea.KeyCtrlR:
		if cmd := m.pollNow(); cmd != nil {
			m.infoMessage = "Refreshing system status…"
			return cmd
		}
		m.infoMessage = "Status refresh already running."
		return nil
	case tea.KeyCtrlX:
		m.cancelUpload()
		return nil
	case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(key)
		return cmd
	}

	if m.modifiersOpen {
		m.handleModifierKey(key)
		return nil
	}
	return m.handleComposerKey(key)
}

func (m *model) handleComposerKey(key tea.KeyMsg) tea.Cmd {
	switch key.Type {
	case tea.KeyEnter:
		if m.composerMode == composerModeUpload {
			return m.submitUpload()
		}
		return m.submitChat()
	case tea.KeyEsc:
		if m.composerMode == composerModeUpload {
			m.setComposerMode(composerModeChat)
			m.infoMessage = "Upload panel closed."
			return nil
		}
		if m.helpVisible {
			m.helpVisible = false
			return nil
		}
		if m.composer.Value() == "" && m.orchestrator.SyncMessage() != "" {
			m.orchestrator.DismissSyncMessage()
			return nil
		}
		m.composer.Reset()
		return nil
	case tea.KeyF1:
		m.helpVisible = !m.helpVisible
		return nil
	}
	var cmd tea.Cmd
	m.composer, cmd = m.composer.Update(key)
	return cmd
}

var platformKeys = map[string]modifiers.Platform{
	"1": modifiers.Facebook,
	"2": modifiers.Instagram,
	"3": modifiers.LinkedIn,
	"4": modifiers.X,
}

var toneKeys = map[string]modifiers.Tone{
	"f": modifiers.ToneFormal,
	"d": modifiers.ToneDefault,
	"l": modifiers.ToneInformal,
}

func (m *model) handleModifierKey(key tea.KeyMsg) {
	if key.Type == tea.KeyEsc || key.Type == tea.KeyEnter {
		m.toggleModifiers()
		return
	}
	value := key.String()
	if id, ok := platformKeys[value]; ok {
		m.selection.TogglePlatform(id)
		m.applySelection()
		return
	}
	if id, ok := toneKeys[value]; ok {
		if err := m.selection.SetTone(id); err == nil {
			m.applySelection()
		}
	}
}

// applySelection pushes the recomputed instruction list into the session on
// every selection change.
func (m *model) applySelection() {
	m.session.SetInstructions(modifiers.Compose(m.selection))
	if count := m.selection.ActiveCount(); count > 0 {
		m.infoMessage = fmt.Sprintf("%d modifier(s) active.", count)
	} else {
		m.infoMessage = "No modifiers active."
	}
}

func (m *model) toggleModifiers() {
	m.modifiersOpen = !m.modifiersOpen
	if m.modifiersOpen {
		m.composer.Blur()
		m.infoMessage = "1-4 toggle platforms, f/d/l pick the tone, esc closes."
		return
	}
	m.composer.Focus()
	m.infoMessage = "Message options closed."
}

func (m *model) toggleUploadMode() {
	if m.composerMode == composerModeUpload {
		m.setComposerMode(composerModeChat)
		m.infoMessage = "Upload panel closed."
		return
	}
	if m.modifiersOpen {
		m.toggleModifiers()
	}
	m.setComposerMode(composerModeUpload)
	m.infoMessage = fmt.Sprintf("Enter a file path: %s.", upload.AcceptedTypes)
}

func (m *model) setComposerMode(mode composerMode) {
	m.composerMode = mode
	m.composer.Reset()
	switch mode {
	case composerModeUpload:
		m.composer.Placeholder = composerUploadPlaceholder
	default:
		m.composer.Placeholder = composerChatPlaceholder
	}
	m.composer.Focus()
}

func (m *model) submitChat() tea.Cmd {
	req, ok := m.session.Submit(m.composer.Value())
	if !ok {
		if m.session.Pending() {
			m.infoMessage = "Waiting for the assistant to reply…"
		}
		return nil
	}
	m.composer.Reset()
	m.dirty = true
	m.scrollToBottom = true
	m.infoMessage = "Sending…"
	if m.config.Gateway == nil {
		m.session.Complete(gateway.ChatReply{}, errors.New("no backend configured"))
		return nil
	}
	return tea.Batch(m.jobs.Start(jobKindChat, chatJob(m.config.Gateway, req)), m.spinner.Tick)
}

func (m *model) submitUpload() tea.Cmd {
	path := strings.TrimSpace(m.composer.Value())
	if path != "" {
		doc, err := upload.Open(path)
		if err != nil {
			m.uploadError = gateway.Describe(err)
			return nil
		}
		if err := m.upload.Select(doc); err != nil {
			m.uploadError = "Wait for the current upload to finish."
			return nil
		}
		m.composer.Reset()
	}
	return m.startUpload()
}

func (m *model) startUpload() tea.Cmd {
	doc, attempt, err := m.upload.Start()
	if err != nil {
		if errors.Is(err, upload.ErrBusy) {
			m.infoMessage = "An upload is already in progress."
			return nil
		}
		m.uploadError = gateway.Describe(err)
		return nil
	}
	m.uploadError = ""
	m.infoMessage = fmt.Sprintf("Uploading %s…", doc.Name)
	if m.config.Gateway == nil {
		m.upload.Fail(attempt, errors.New("no backend configured"))
		return nil
	}
	return tea.Batch(
		m.jobs.Start(jobKindUpload, uploadJob(m.config.Gateway, doc, attempt)),
		m.progressTask.Start(),
	)
}

func (m *model) cancelUpload() {
	if _, ok := m.upload.Document(); !ok {
		return
	}
	if err := m.upload.Cancel(); err != nil {
		m.infoMessage = "Cannot cancel while uploading."
		return
	}
	m.uploadError = ""
	m.infoMessage = "Upload selection cleared."
}

func (m *model) startSync() tea.Cmd {
	if m.config.Gateway == nil {
		return nil
	}
	if !m.orchestrator.BeginSync() {
		m.infoMessage = "Sync already running."
		return nil
	}
	return tea.Batch(m.jobs.Start(jobKindSync, syncJob(m.config.Gateway)), m.spinner.Tick)
}

func (m *model) startPolling() tea.Cmd {
	return tea.Batch(m.pollNow(), m.pollTask.Start())
}

// pollNow fetches the status unless a fetch is already outstanding.
func (m *model) pollNow() tea.Cmd {
	if m.config.Gateway == nil {
		return nil
	}
	if !m.orchestrator.BeginPoll() {
		return nil
	}
	return m.jobs.Start(jobKindStatus, statusJob(m.config.Gateway))
}

// teardown cancels the schedules; any result that arrives afterwards is dropped.
func (m *model) teardown() {
	m.pollTask.Stop()
	m.progressTask.Stop()
	m.closed = true
}

func (m *model) busy() bool {
	return m.session.Pending() || m.orchestrator.Syncing() || m.orchestrator.Loading() || m.upload.Phase() == upload.PhaseUploading
}
