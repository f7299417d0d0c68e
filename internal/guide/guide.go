package guide

import (
	"fmt"
	"strings"
)

// Step represents one actionable hint in the help overlay.
type Step struct {
	Title       string
	Description string
}

// Metadata carries just enough context for personalizing guide steps.
type Metadata struct {
	Backend       string
	AcceptedTypes string
	// ActiveModifiers lists the modifier summaries currently applied.
	ActiveModifiers []string
}

// Build returns the getting-started checklist shown in the help overlay.
func Build(meta Metadata) []Step {
	backend := strings.TrimSpace(meta.Backend)
	if backend == "" {
		backend = "the backend"
	}
	modifiers := "No modifiers are active, so messages are sent as typed."
	if len(meta.ActiveModifiers) > 0 {
		modifiers = fmt.Sprintf("Currently active: %s.", strings.Join(meta.ActiveModifiers, ", "))
	}
	accepted := strings.TrimSpace(meta.AcceptedTypes)
	if accepted == "" {
		accepted = "supported documents"
	}

	return []Step{
		{
			Title:       "Ask",
			Description: fmt.Sprintf("Type a question and press enter. Answers come from %s; one message is in flight at a time.", backend),
		},
		{
			Title:       "Shape the reply",
			Description: "ctrl+o opens message options: 1-4 toggle Facebook, Instagram, LinkedIn and X, f/d/l choose the tone. " + modifiers,
		},
		{
			Title:       "Add documents",
			Description: fmt.Sprintf("ctrl+u opens the upload panel. Enter a path (%s) and press enter; enter on an empty path retries, ctrl+x clears the file.", accepted),
		},
		{
			Title:       "Keep data fresh",
			Description: "ctrl+s syncs Trello, ctrl+r refreshes the status bar, pgup/pgdn scroll the transcript, ctrl+c quits.",
		},
	}
}
