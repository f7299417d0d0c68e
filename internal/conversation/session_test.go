package conversation

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/csheth/goldenvalley/internal/gateway"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	s := NewSession()
	fixed := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	return s
}

func TestSessionIDIsStable(t *testing.T) {
	s := newTestSession(t)
	id := s.ID()
	if id == "" {
		t.Fatal("session id should not be empty")
	}
	s.Submit("hello")
	s.Complete(gateway.ChatReply{Response: "hi"}, nil)
	if s.ID() != id {
		t.Fatalf("session id changed: %s -> %s", id, s.ID())
	}
	if other := NewSession(); other.ID() == id {
		t.Fatal("new sessions should get distinct ids")
	}
}

func TestSubmitIgnoresBlankText(t *testing.T) {
	s := newTestSession(t)
	for _, text := range []string{"", "   ", "\n\t"} {
		if _, ok := s.Submit(text); ok {
			t.Fatalf("Submit(%q) should be rejected", text)
		}
	}
	if s.Len() != 0 || s.Pending() {
		t.Fatalf("blank submits changed state: len=%d pending=%v", s.Len(), s.Pending())
	}
}

func TestSubmitWhileSendingIsNoop(t *testing.T) {
	s := newTestSession(t)
	if _, ok := s.Submit("first"); !ok {
		t.Fatal("first submit should be accepted")
	}
	if _, ok := s.Submit("hi"); ok {
		t.Fatal("submit while sending should be rejected")
	}
	if s.Len() != 1 {
		t.Fatalf("expected 1 message, got %d", s.Len())
	}
}

func TestSuccessfulRoundTrip(t *testing.T) {
	s := newTestSession(t)
	req, ok := s.Submit("hello")
	if !ok {
		t.Fatal("submit should be accepted")
	}
	if req.ConversationID != s.ID() || req.Prompt != "hello" {
		t.Fatalf("unexpected request: %#v", req)
	}
	if !s.Pending() {
		t.Fatal("session should be pending after submit")
	}
	s.Complete(gateway.ChatReply{Response: "hi"}, nil)

	msgs := s.Messages()
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}
	if msgs[0].Role != RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("unexpected first message: %#v", msgs[0])
	}
	if msgs[1].Role != RoleAssistant || msgs[1].Content != "hi" {
		t.Fatalf("unexpected second message: %#v", msgs[1])
	}
	if s.Pending() || s.LastError() != "" {
		t.Fatalf("expected idle without error, pending=%v err=%q", s.Pending(), s.LastError())
	}
}

func TestFailedSendKeepsUserMessage(t *testing.T) {
	s := newTestSession(t)
	s.Submit("hello")
	s.Complete(gateway.ChatReply{}, &gateway.NetworkError{Op: "send chat", Err: errors.New("connection refused")})

	msgs := s.Messages()
	if len(msgs) != 1 || msgs[0].Role != RoleUser || msgs[0].Content != "hello" {
		t.Fatalf("unexpected transcript: %#v", msgs)
	}
	if s.LastError() != SendFailedMessage {
		t.Fatalf("unexpected last error: %q", s.LastError())
	}
	if s.Pending() {
		t.Fatal("session should be idle after failure")
	}
}

func TestNextSubmitClearsLastError(t *testing.T) {
	s := newTestSession(t)
	s.Submit("hello")
	s.Complete(gateway.ChatReply{}, errors.New("boom"))
	if s.LastError() == "" {
		t.Fatal("expected last error after failure")
	}
	s.Submit("again")
	if s.LastError() != "" {
		t.Fatalf("submit should clear last error, got %q", s.LastError())
	}
}

func TestCompleteWithoutPendingIsIgnored(t *testing.T) {
	s := newTestSession(t)
	s.Complete(gateway.ChatReply{Response: "stray"}, nil)
	if s.Len() != 0 {
		t.Fatalf("stray completion appended a message: %#v", s.Messages())
	}
}

func TestSubmitKeepsRawTextAndBuildsPrompt(t *testing.T) {
	s := newTestSession(t)
	s.SetInstructions([]string{"user wants to generate a facebook post", "user wants a formal tone of voice"})
	req, _ := s.Submit("  launch post  ")
	want := "user wants to generate a facebook post\nuser wants a formal tone of voice\n  launch post  "
	if req.Prompt != want {
		t.Fatalf("prompt mismatch:\n got %q\nwant %q", req.Prompt, want)
	}
	if got := s.Messages()[0].Content; got != "  launch post  " {
		t.Fatalf("user message should store raw text, got %q", got)
	}
	if strings.Contains(s.Messages()[0].Content, "facebook") {
		t.Fatal("modifiers must not leak into the stored message")
	}
}

func TestBuildPromptDropsEmptySegments(t *testing.T) {
	cases := []struct {
		instructions []string
		text         string
		want         string
	}{
		{nil, "hello", "hello"},
		{[]string{"", "a"}, "hello", "a\nhello"},
		{[]string{"a", "b"}, "", "a\nb"},
	}
	for _, tc := range cases {
		if got := BuildPrompt(tc.instructions, tc.text); got != tc.want {
			t.Fatalf("BuildPrompt(%v, %q) = %q, want %q", tc.instructions, tc.text, got, tc.want)
		}
	}
}

func TestRecordUploadAppendsSystemMessageWhileSending(t *testing.T) {
	s := newTestSession(t)
	s.Submit("hello")
	s.RecordUpload(gateway.UploadResult{Message: "ok", Filename: "plan.pdf"})
	s.RecordUpload(gateway.UploadResult{Message: "ok"})
	if !s.Pending() {
		t.Fatal("upload record should not affect pending send")
	}
	msgs := s.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	if msgs[1].Role != RoleSystem || msgs[1].Content != "Document uploaded successfully: plan.pdf. You can now ask questions about this document." {
		t.Fatalf("unexpected system message: %#v", msgs[1])
	}
	if !strings.HasPrefix(msgs[2].Content, "Document uploaded successfully: File.") {
		t.Fatalf("missing filename fallback: %q", msgs[2].Content)
	}
}

func TestMessagesReturnsCopy(t *testing.T) {
	s := newTestSession(t)
	s.Submit("hello")
	msgs := s.Messages()
	msgs[0].Content = "mutated"
	if s.Messages()[0].Content != "hello" {
		t.Fatal("transcript should not be mutable through Messages")
	}
}
