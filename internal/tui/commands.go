package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/csheth/goldenvalley/internal/conversation"
	"github.com/csheth/goldenvalley/internal/gateway"
)

type chatResultMsg struct {
	conversationID string
	reply          gateway.ChatReply
	err            error
}

type uploadResultMsg struct {
	attempt int
	result  gateway.UploadResult
	err     error
}

type uploadClearMsg struct {
	attempt int
}

type statusResultMsg struct {
	report gateway.StatusReport
	err    error
	at     time.Time
}

type syncResultMsg struct {
	result gateway.SyncResult
	err    error
}

func chatJob(client gateway.Client, req conversation.Request) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		reply, err := client.SendChat(ctx, req.Prompt, req.ConversationID)
		return chatResultMsg{conversationID: req.ConversationID, reply: reply, err: err}, err
	}
}

func uploadJob(client gateway.Client, doc gateway.Document, attempt int) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := client.UploadDocument(ctx, doc)
		return uploadResultMsg{attempt: attempt, result: result, err: err}, err
	}
}

func syncJob(client gateway.Client) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		result, err := client.TriggerSync(ctx)
		return syncResultMsg{result: result, err: err}, err
	}
}

func statusJob(client gateway.Client) jobRunner {
	return func(ctx context.Context) (tea.Msg, error) {
		report, err := client.FetchStatus(ctx)
		return statusResultMsg{report: report, err: err, at: time.Now()}, err
	}
}

func uploadClearCmd(delay time.Duration, attempt int) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return uploadClearMsg{attempt: attempt}
	})
}
