package schedule

import (
	"testing"
	"time"
)

func TestTaskAcceptsOnlyCurrentRun(t *testing.T) {
	task := NewTask("poll", time.Minute)
	if task.Accept(FireMsg{Name: "poll"}) {
		t.Fatal("inactive task should not accept fires")
	}
	if cmd := task.Start(); cmd == nil {
		t.Fatal("start should schedule a fire")
	}
	current := FireMsg{Name: "poll", Gen: 1}
	if !task.Accept(current) {
		t.Fatal("fire from the current run should be accepted")
	}
	if task.Accept(FireMsg{Name: "progress", Gen: 1}) {
		t.Fatal("fire for another task should be rejected")
	}

	task.Start()
	if task.Accept(current) {
		t.Fatal("fire from a previous run should be rejected after restart")
	}
}

func TestStopCancelsTask(t *testing.T) {
	task := NewTask("poll", time.Minute)
	task.Start()
	msg := FireMsg{Name: "poll", Gen: 1}
	task.Stop()
	if task.Active() {
		t.Fatal("task should be inactive after stop")
	}
	if task.Accept(msg) {
		t.Fatal("stopped task should reject pending fires")
	}
	if task.Next() != nil {
		t.Fatal("stopped task should not re-arm")
	}
}

func TestNextDeliversFireMsg(t *testing.T) {
	task := NewTask("progress", time.Millisecond)
	cmd := task.Start()
	msg, ok := cmd().(FireMsg)
	if !ok {
		t.Fatalf("expected FireMsg, got %T", msg)
	}
	if !task.Accept(msg) {
		t.Fatalf("delivered fire should be accepted: %#v", msg)
	}
	if msg.At.IsZero() {
		t.Fatal("fire should carry its time")
	}
}
