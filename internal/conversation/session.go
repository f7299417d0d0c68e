package conversation

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csheth/goldenvalley/internal/gateway"
)

// Role identifies who authored a transcript message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// SendFailedMessage is surfaced when a chat request does not produce an answer.
const SendFailedMessage = "Failed to get response. Please try again."

// Message is one transcript entry. Messages are never edited after append.
type Message struct {
	Role      Role
	Content   string
	Timestamp time.Time
}

// Request is the outgoing chat call produced by an accepted Submit.
type Request struct {
	ConversationID string
	Prompt         string
}

// Session owns the transcript and the send protocol for one chat view.
// It is not safe for concurrent use; drive it from a single event loop.
type Session struct {
	id           string
	messages     []Message
	pending      bool
	lastError    string
	instructions []string
	now          func() time.Time
}

// NewSession starts a session with a freshly generated conversation id.
func NewSession() *Session {
	return &Session{
		id:  uuid.NewString(),
		now: time.Now,
	}
}

// ID returns the conversation id, stable for the session's lifetime.
func (s *Session) ID() string { return s.id }

// Pending reports whether a chat request is in flight.
func (s *Session) Pending() bool { return s.pending }

// LastError returns the failure text of the most recent send, if any.
func (s *Session) LastError() string { return s.lastError }

// Messages returns a copy of the transcript in append order.
func (s *Session) Messages() []Message {
	return append([]Message(nil), s.messages...)
}

// Len returns the number of transcript messages.
func (s *Session) Len() int { return len(s.messages) }

// SetInstructions replaces the modifier instructions used for the next send.
func (s *Session) SetInstructions(instructions []string) {
	s.instructions = append([]string(nil), instructions...)
}

// Instructions returns the instructions that the next send will carry.
func (s *Session) Instructions() []string {
	return append([]string(nil), s.instructions...)
}

// Submit appends the user's message and returns the request to send. It
// returns false without touching state when text is blank or a send is
// already in flight.
func (s *Session) Submit(text string) (Request, bool) {
	if strings.TrimSpace(text) == "" || s.pending {
		return Request{}, false
	}
	s.append(RoleUser, text)
	s.lastError = ""
	s.pending = true
	return Request{
		ConversationID: s.id,
		Prompt:         BuildPrompt(s.instructions, text),
	}, true
}

// Complete resolves the in-flight send. A failed send keeps the user message
// in the transcript and records lastError. Calls without a pending send are
// ignored.
func (s *Session) Complete(reply gateway.ChatReply, err error) {
	if !s.pending {
		return
	}
	s.pending = false
	if err != nil {
		s.lastError = SendFailedMessage
		return
	}
	s.lastError = ""
	s.append(RoleAssistant, reply.Response)
}

// RecordUpload appends a system message announcing a finished upload. It does
// not depend on, or change, the pending send.
func (s *Session) RecordUpload(result gateway.UploadResult) {
	name := strings.TrimSpace(result.Filename)
	if name == "" {
		name = "File"
	}
	s.append(RoleSystem, fmt.Sprintf("Document uploaded successfully: %s. You can now ask questions about this document.", name))
}

func (s *Session) append(role Role, content string) {
	s.messages = append(s.messages, Message{Role: role, Content: content, Timestamp: s.now()})
}

// BuildPrompt joins the instructions and the user's text with newlines,
// dropping empty segments.
func BuildPrompt(instructions []string, text string) string {
	segments := make([]string, 0, len(instructions)+1)
	for _, instruction := range instructions {
		if instruction != "" {
			segments = append(segments, instruction)
		}
	}
	if text != "" {
		segments = append(segments, text)
	}
	return strings.Join(segments, "\n")
}
