package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	opSendChat    = "send chat"
	opUpload      = "upload document"
	opSync        = "sync trello"
	opLastSync    = "fetch last sync"
	opDebugStatus = "fetch debug status"

	uploadField = "document"
	maxErrBody  = 4096
)

type httpClient struct {
	base   string
	client *http.Client
}

func (c *httpClient) Name() string {
	return fmt.Sprintf("Backend (%s)", c.base)
}

func (c *httpClient) SendChat(ctx context.Context, prompt, conversationID string) (ChatReply, error) {
	if strings.TrimSpace(prompt) == "" {
		return ChatReply{}, &ValidationError{Field: "message", Reason: "message cannot be empty"}
	}
	payload := map[string]string{
		"message":        prompt,
		"conversationId": conversationID,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return ChatReply{}, err
	}
	var reply ChatReply
	if err := c.do(ctx, opSendChat, http.MethodPost, "/chat", "application/json", bytes.NewReader(buf), &reply); err != nil {
		return ChatReply{}, err
	}
	return reply, nil
}

func (c *httpClient) UploadDocument(ctx context.Context, doc Document) (UploadResult, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return UploadResult{}, &ValidationError{Field: "document", Reason: "file name is required"}
	}
	if len(doc.Content) == 0 {
		return UploadResult{}, &ValidationError{Field: "document", Reason: "file is empty"}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreatePart(filePartHeader(uploadField, doc.Name))
	if err != nil {
		return UploadResult{}, err
	}
	if _, err := part.Write(doc.Content); err != nil {
		return UploadResult{}, err
	}
	if err := writer.Close(); err != nil {
		return UploadResult{}, err
	}

	var result UploadResult
	if err := c.do(ctx, opUpload, http.MethodPost, "/upload", writer.FormDataContentType(), &body, &result); err != nil {
		return UploadResult{}, err
	}
	return result, nil
}

// filePartHeader mirrors multipart.Writer.CreateFormFile but labels the part
// with the type implied by the file extension.
func filePartHeader(field, filename string) textproto.MIMEHeader {
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	header.Set("Content-Type", documentType(filename))
	return header
}

var documentTypes = map[string]string{
	".pdf":  "application/pdf",
	".txt":  "text/plain",
	".csv":  "text/csv",
	".md":   "text/markdown",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

func documentType(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if contentType, ok := documentTypes[ext]; ok {
		return contentType
	}
	if contentType := mime.TypeByExtension(ext); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func (c *httpClient) TriggerSync(ctx context.Context) (SyncResult, error) {
	var result SyncResult
	if err := c.do(ctx, opSync, http.MethodPost, "/sync-trello", "", nil, &result); err != nil {
		return SyncResult{}, err
	}
	return result, nil
}

func (c *httpClient) FetchStatus(ctx context.Context) (StatusReport, error) {
	var (
		lastSync struct {
			LastSync *time.Time `json:"lastSync"`
		}
		debug struct {
			TrelloConnected bool `json:"trelloConnected"`
			DocumentCount   int  `json:"documentCount"`
		}
	)
	group, gctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return c.do(gctx, opLastSync, http.MethodGet, "/last-sync", "", nil, &lastSync)
	})
	group.Go(func() error {
		return c.do(gctx, opDebugStatus, http.MethodGet, "/debug/data", "", nil, &debug)
	})
	if err := group.Wait(); err != nil {
		return StatusReport{}, err
	}
	count := debug.DocumentCount
	if count < 0 {
		count = 0
	}
	return StatusReport{
		LastSync:        lastSync.LastSync,
		TrelloConnected: debug.TrelloConnected,
		DocumentCount:   count,
	}, nil
}

func (c *httpClient) do(ctx context.Context, op, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		log.Printf("[gateway] %s failed: %v", op, err)
		return &NetworkError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrBody))
		apiErr := &APIError{Op: op, Status: resp.StatusCode, Message: backendMessage(raw)}
		log.Printf("[gateway] %s rejected: %v", op, apiErr)
		return apiErr
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[gateway] %s read failed: %v", op, err)
		return &NetworkError{Op: op, Err: err}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Printf("[gateway] %s returned an undecodable body: %v", op, err)
		return &NetworkError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// backendMessage pulls a human-readable reason out of an error body, accepting
// {"error": "..."}, {"message": "..."} or plain text.
func backendMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil {
		if msg := strings.TrimSpace(parsed.Error); msg != "" {
			return msg
		}
		return strings.TrimSpace(parsed.Message)
	}
	text := strings.TrimSpace(string(raw))
	if len(text) > 200 {
		text = text[:200]
	}
	return text
}
