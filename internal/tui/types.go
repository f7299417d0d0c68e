package tui

import "time"

type composerMode int

const (
	composerModeChat composerMode = iota
	composerModeUpload
)

const (
	composerChatPlaceholder   = "Type your message…"
	composerUploadPlaceholder = "Path to a document to upload…"
)

const (
	appTitle        = "Golden Valley AI Assistant"
	emptyTranscript = "Golden Valley AI Assistant is ready to help.\nAsk any question to get started."
)

const (
	defaultUploadClearDelay = 2 * time.Second
	uploadProgressInterval  = 300 * time.Millisecond
)

const (
	pollTaskName     = "status-poll"
	progressTaskName = "upload-progress"
)

const (
	minViewportWidth          = 40
	minViewportHeight         = 5
	viewportHorizontalPadding = 4
)
