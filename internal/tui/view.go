package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/goldenvalley/internal/guide"
	"github.com/csheth/goldenvalley/internal/modifiers"
	"github.com/csheth/goldenvalley/internal/status"
	"github.com/csheth/goldenvalley/internal/upload"
)

func (m *model) View() string {
	if m.closed {
		return ""
	}
	above := joinNonEmpty([]string{
		m.headerView(),
		m.statusView(),
		m.modifiersView(),
		m.uploadView(),
	})
	below := joinNonEmpty([]string{
		m.sendErrorView(),
		m.composerPanel(),
		m.footerView(),
	})
	chrome := lipgloss.Height(above) + lipgloss.Height(below) + 2
	if height := m.layout.transcriptHeight(chrome); height != m.viewport.Height {
		m.viewport.Height = height
		m.dirty = true
	}
	m.refreshViewportIfDirty()
	return joinNonEmpty([]string{above, m.viewport.View(), below})
}

func (m *model) headerView() string {
	title := titleStyle.Render(appTitle)
	if m.config.Gateway == nil {
		return title
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, title, helperStyle.Render("  "+m.config.Gateway.Name()))
}

func (m *model) statusView() string {
	st := m.orchestrator.Status()
	trello := "Disconnected"
	if st.TrelloConnected {
		trello = "Connected"
	}
	documents := "None"
	if st.DocumentsLoaded {
		documents = fmt.Sprintf("%d loaded", st.DocumentCount)
	}
	lastSync := status.FormatLastSync(st.LastSync)
	if m.orchestrator.Loading() {
		lastSync = "Loading…"
	}
	cells := []string{
		fmt.Sprintf("%s Trello: %s", indicator(st.TrelloConnected, false), trello),
		fmt.Sprintf("%s Documents: %s", indicator(st.DocumentsLoaded, true), documents),
		fmt.Sprintf("%s Last Sync: %s", indicator(st.LastSync != nil, true), lastSync),
	}
	if m.orchestrator.Syncing() {
		cells = append(cells, fmt.Sprintf("%s Syncing…", m.spinner.View()))
	}
	line := m.fitWidth(strings.Join(cells, "   "))
	if msg := m.orchestrator.SyncMessage(); msg != "" {
		style := successStyle
		if m.orchestrator.SyncFailed() {
			style = errorStyle
		}
		line += "\n" + m.fitWidth(style.Render(msg))
	}
	return line
}

// fitWidth truncates a styled single line to the window width.
func (m *model) fitWidth(line string) string {
	if m.layout.windowWidth <= 0 {
		return line
	}
	return ansi.Truncate(line, m.layout.windowWidth, "…")
}

func (m *model) modifiersView() string {
	header := sectionHeaderStyle.Render("Message Options")
	if count := m.selection.ActiveCount(); count > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Top, header, " ", badgeStyle.Render(fmt.Sprintf("%d active", count)))
	}
	if !m.modifiersOpen {
		return lipgloss.JoinHorizontal(lipgloss.Top, header, helperStyle.Render("  ctrl+o to edit"))
	}

	var platforms []string
	for idx, info := range modifiers.Platforms() {
		platforms = append(platforms, chip(fmt.Sprintf("%d %s", idx+1, info.Label), m.selection.Selected(info.ID)))
	}
	var tones []string
	for _, info := range modifiers.Tones() {
		tones = append(tones, chip(fmt.Sprintf("%s %s", toneKey(info.ID), info.Label), m.selection.Tone == info.ID))
	}
	rows := []string{
		header,
		"Platform       " + strings.Join(platforms, " "),
		"Tone of Voice  " + strings.Join(tones, " "),
	}
	if summary := m.selection.Summary(); len(summary) > 0 {
		rows = append(rows, helperStyle.Render("Active modifiers: • "+strings.Join(summary, " • ")))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func toneKey(id modifiers.Tone) string {
	for key, tone := range toneKeys {
		if tone == id {
			return key
		}
	}
	return "?"
}

func chip(label string, selected bool) string {
	if selected {
		return selectedChipStyle.Render(label)
	}
	return chipStyle.Render(label)
}

func (m *model) uploadView() string {
	doc, selected := m.upload.Document()
	phase := m.upload.Phase()
	if m.composerMode != composerModeUpload && !selected && phase == upload.PhaseIdle && m.uploadError == "" {
		return ""
	}
	rows := []string{sectionHeaderStyle.Render("Upload Documents")}
	if selected {
		meta := upload.FormatSize(doc.Size)
		if doc.Pages > 0 {
			meta = fmt.Sprintf("%s · %d page(s)", meta, doc.Pages)
		}
		rows = append(rows, fmt.Sprintf("%s  %s", doc.Name, helperStyle.Render(meta)))
	} else {
		rows = append(rows, helperStyle.Render(upload.AcceptedTypes))
	}
	if phase == upload.PhaseUploading || phase == upload.PhaseSuccess {
		rows = append(rows, m.progress.ViewAs(float64(m.upload.Progress())/100))
	}
	if notice := m.upload.Notice(); notice != "" {
		rows = append(rows, successStyle.Render(notice))
	}
	if text := m.upload.ErrorText(); text != "" {
		rows = append(rows, errorStyle.Render(text))
	}
	if m.uploadError != "" {
		rows = append(rows, errorStyle.Render(m.uploadError))
	}
	if m.composerMode == composerModeUpload {
		hint := "enter uploads the path · esc closes"
		if selected && phase == upload.PhaseError {
			hint = "enter on an empty path retries · ctrl+x clears the file · esc closes"
		}
		rows = append(rows, helperStyle.Render(hint))
	}
	return panelStyle.Render(strings.Join(rows, "\n"))
}

func (m *model) sendErrorView() string {
	if msg := m.session.LastError(); msg != "" {
		return errorStyle.Render(msg)
	}
	return ""
}

func (m *model) composerPanel() string {
	parts := []string{m.composer.View()}
	if m.composerMode == composerModeChat {
		if instructions := m.session.Instructions(); len(instructions) > 0 {
			parts = append(parts, helperStyle.Render("Active modifiers: "+strings.Join(instructions, ", ")))
		}
	}
	return strings.Join(parts, "\n")
}

type keyHint struct {
	Key         string
	Description string
}

func (m *model) footerView() string {
	parts := []string{}
	if m.infoMessage != "" {
		parts = append(parts, helperStyle.Render(m.infoMessage))
	}
	hints := []keyHint{
		{"enter", "send"},
		{"ctrl+o", "options"},
		{"ctrl+u", "upload"},
		{"ctrl+s", "sync"},
		{"F1", "help"},
		{"ctrl+c", "quit"},
	}
	var cells []string
	for _, hint := range hints {
		cells = append(cells, lipgloss.JoinHorizontal(lipgloss.Top, keyStyle.Render(hint.Key), keyDescStyle.Render(" "+hint.Description+" ")))
	}
	parts = append(parts, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	if m.helpVisible {
		parts = append(parts, m.helpView())
	}
	return strings.Join(parts, "\n")
}

func (m *model) helpView() string {
	backend := ""
	if m.config.Gateway != nil {
		backend = m.config.Gateway.Name()
	}
	steps := guide.Build(guide.Metadata{
		Backend:         backend,
		AcceptedTypes:   upload.AcceptedTypes,
		ActiveModifiers: m.selection.Summary(),
	})
	width := m.wrapWidth(8)
	lines := []string{sectionHeaderStyle.Render("Help")}
	for idx, step := range steps {
		lines = append(lines, fmt.Sprintf("%d. %s", idx+1, step.Title))
		lines = append(lines, helperStyle.Render(indentMultiline(wordwrap.String(step.Description, width), "   ")))
	}
	lines = append(lines, m.activityLines()...)
	return helpBoxStyle.Render(strings.Join(lines, "\n"))
}

var activityKinds = []jobKind{jobKindChat, jobKindUpload, jobKindSync, jobKindStatus}

// activityLines summarizes running jobs, the last outcome per kind and the
// time of the last status check.
func (m *model) activityLines() []string {
	var lines []string
	if running := m.jobs.Running(); len(running) > 0 {
		kinds := make([]string, 0, len(running))
		for _, job := range running {
			kinds = append(kinds, string(job.Kind))
		}
		lines = append(lines, helperStyle.Render("Running: "+strings.Join(kinds, ", ")))
	}
	for _, kind := range activityKinds {
		snap, ok := m.jobs.Last(kind)
		if !ok {
			continue
		}
		line := fmt.Sprintf("Last %s: %s in %s", kind, snap.Status, snap.Duration.Round(time.Millisecond))
		if snap.Status == jobStatusFailed {
			lines = append(lines, errorStyle.Render(line))
			continue
		}
		lines = append(lines, helperStyle.Render(line))
	}
	if at := m.orchestrator.PolledAt(); !at.IsZero() {
		line := "Last status check: " + at.Local().Format("15:04:05")
		if pollErr := m.orchestrator.PollError(); pollErr != "" {
			line += " (" + pollErr + ")"
		}
		lines = append(lines, helperStyle.Render(line))
	}
	return lines
}

func joinNonEmpty(parts []string) string {
	filtered := make([]string, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		filtered = append(filtered, part)
	}
	return strings.Join(filtered, "\n")
}
