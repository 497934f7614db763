package server

import (
	"testing"
	"time"
)

func TestWebLogger_ForwardsLevels(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewWebLogger("test-render-123", messageChan)

	logger.Debugf("debug %d", 1)
	logger.Infof("info %d", 2)
	logger.Noticef("notice %d", 3)
	logger.Warningf("warning %d", 4)

	expected := []struct {
		message string
		level   string
	}{
		{"debug 1", "debug"},
		{"info 2", "info"},
		{"notice 3", "notice"},
		{"warning 4", "warning"},
	}

	for i, want := range expected {
		select {
		case msg := <-messageChan:
			if msg.Message != want.message {
				t.Errorf("message %d: expected %q, got %q", i, want.message, msg.Message)
			}
			if msg.Level != want.level {
				t.Errorf("message %d: expected level %q, got %q", i, want.level, msg.Level)
			}
			if time.Since(msg.Timestamp) > time.Second {
				t.Errorf("message %d: timestamp seems too old: %v", i, msg.Timestamp)
			}
		default:
			t.Fatalf("missing message %d", i)
		}
	}
}

func TestWebLogger_NonBlocking(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewWebLogger("test-render-456", messageChan)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Infof("Message %d", i)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logger blocked on a full channel")
	}

	if len(messageChan) != 1 {
		t.Errorf("Expected 1 buffered message, got %d", len(messageChan))
	}
	if msg := <-messageChan; msg.Message != "Message 0" {
		t.Errorf("Expected the first message to be kept, got %q", msg.Message)
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	logger := NewWebLogger("test-render-789", nil)
	// Must not panic or block
	logger.Noticef("nobody is listening")
}
