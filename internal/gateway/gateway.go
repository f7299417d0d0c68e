package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// DefaultBaseURL is used when neither a flag nor GVD_API_URL provides one.
	DefaultBaseURL = "http://localhost:3000/api"
	baseURLEnvVar  = "GVD_API_URL"
)

const defaultHTTPTimeout = 2 * time.Minute

// Config describes how to build a backend client.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
}

// Client exposes the four backend operations the chat client relies on.
type Client interface {
	SendChat(ctx context.Context, prompt, conversationID string) (ChatReply, error)
	UploadDocument(ctx context.Context, doc Document) (UploadResult, error)
	TriggerSync(ctx context.Context) (SyncResult, error)
	FetchStatus(ctx context.Context) (StatusReport, error)
	Name() string
}

// ChatReply is the assistant answer returned by POST /chat.
type ChatReply struct {
	Response string `json:"response"`
}

// UploadResult is returned by POST /upload.
type UploadResult struct {
	Message  string `json:"message"`
	Filename string `json:"filename,omitempty"`
}

// SyncResult is returned by POST /sync-trello.
type SyncResult struct {
	Message string `json:"message"`
}

// StatusReport merges /last-sync and /debug/data into one snapshot.
type StatusReport struct {
	LastSync        *time.Time
	TrelloConnected bool
	DocumentCount   int
}

// Document is a file selected for upload, fully loaded in memory.
type Document struct {
	Name    string
	Size    int64
	Content []byte
	// Pages is only set for PDFs.
	Pages int
}

// NewFromEnv resolves the base URL from the config or environment and builds a client.
func NewFromEnv(cfg Config) (Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		if env := os.Getenv(baseURLEnvVar); env != "" {
			base = strings.TrimSpace(env)
		} else {
			base = DefaultBaseURL
		}
	}
	base = strings.TrimRight(base, "/")
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid backend url %q: %w", base, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("invalid backend url %q: scheme must be http or https", base)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("invalid backend url %q: missing host", base)
	}
	return &httpClient{
		base:   base,
		client: pickHTTPClient(cfg.HTTPClient),
	}, nil
}

func pickHTTPClient(custom *http.Client) *http.Client {
	if custom != nil {
		return custom
	}
	// Chat answers over large document sets can take a while; the transport owns the deadline.
	return &http.Client{Timeout: defaultHTTPTimeout}
}
