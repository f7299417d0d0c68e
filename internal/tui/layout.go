package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/reflow/wordwrap"

	"github.com/csheth/goldenvalley/internal/conversation"
)

const markdownStyle = "dark"

type pageLayout struct {
	windowWidth   int
	windowHeight  int
	viewportWidth int
	composerWidth int
	progressWidth int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth: 80,
		composerWidth: 70,
		progressWidth: 40,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerWidth = innerWidth - 4
	l.progressWidth = innerWidth / 2
	if l.progressWidth < 20 {
		l.progressWidth = 20
	}
	if l.progressWidth > 60 {
		l.progressWidth = 60
	}
}

// transcriptHeight returns the rows left for the transcript once the other
// panels, chromeHeight rows in total, are drawn.
func (l pageLayout) transcriptHeight(chromeHeight int) int {
	if l.windowHeight <= 0 {
		return 20
	}
	height := l.windowHeight - chromeHeight
	if height < minViewportHeight {
		height = minViewportHeight
	}
	return height
}

// transcriptRenderer renders assistant replies as markdown and caches the
// output per width.
type transcriptRenderer struct {
	width int
	md    *glamour.TermRenderer
	cache map[string]string
}

func newTranscriptRenderer() *transcriptRenderer {
	return &transcriptRenderer{cache: map[string]string{}}
}

func (r *transcriptRenderer) markdown(content string, width int) string {
	if r.md == nil || r.width != width {
		md, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(markdownStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return indentMultiline(wordwrap.String(content, width), "  ")
		}
		r.md = md
		r.width = width
		r.cache = map[string]string{}
	}
	if out, ok := r.cache[content]; ok {
		return out
	}
	out, err := r.md.Render(content)
	if err != nil {
		out = indentMultiline(wordwrap.String(content, width), "  ")
	}
	out = strings.Trim(out, "\n")
	r.cache[content] = out
	return out
}

func (m *model) buildTranscript() string {
	messages := m.session.Messages()
	if len(messages) == 0 && !m.session.Pending() {
		return helperStyle.Render(emptyTranscript)
	}
	wrap := m.wrapWidth(4)
	var b strings.Builder
	for idx, msg := range messages {
		if idx > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(messageLabel(msg))
		b.WriteRune('\n')
		switch msg.Role {
		case conversation.RoleAssistant:
			b.WriteString(m.renderer.markdown(msg.Content, wrap))
		case conversation.RoleSystem:
			b.WriteString(systemMessageStyle.Render(indentMultiline(wordwrap.String(msg.Content, wrap), "  ")))
		default:
			b.WriteString(indentMultiline(wordwrap.String(msg.Content, wrap), "  "))
		}
	}
	if m.session.Pending() {
		if len(messages) > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(helperStyle.Render(fmt.Sprintf("%s Assistant is typing…", m.spinner.View())))
	}
	return b.String()
}

func messageLabel(msg conversation.Message) string {
	stamp := msg.Timestamp.Format("15:04")
	switch msg.Role {
	case conversation.RoleUser:
		return userLabelStyle.Render("You · " + stamp)
	case conversation.RoleSystem:
		return systemLabelStyle.Render("System · " + stamp)
	default:
		return assistantLabelStyle.Render("Assistant · " + stamp)
	}
}

func (m *model) refreshViewportIfDirty() {
	if !m.dirty {
		return
	}
	m.viewport.SetContent(m.buildTranscript())
	if m.scrollToBottom {
		m.viewport.GotoBottom()
		m.scrollToBottom = false
	}
	m.dirty = false
}

func (m *model) wrapWidth(padding int) int {
	width := m.viewport.Width - padding
	if width < 20 {
		width = 20
	}
	return width
}

func indentMultiline(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line == "" {
			continue
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
