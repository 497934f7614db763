package server

import (
	"fmt"
	"time"

	"github.com/df07/go-stochastic-raytracer/pkg/log"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning"
}

// WebLogger implements core.Logger for one render. Messages go to the server log and,
// without blocking, to the client's console channel.
type WebLogger struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	backend     log.Logger
}

// NewWebLogger creates a new web logger for a specific render
func NewWebLogger(renderID string, consoleChan chan<- ConsoleMessage) *WebLogger {
	return &WebLogger{
		renderID:    renderID,
		consoleChan: consoleChan,
		backend:     logger,
	}
}

func (wl *WebLogger) Debugf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.backend.Debugf("[%s] %s", wl.renderID, message)
	wl.forward("debug", message)
}

func (wl *WebLogger) Infof(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.backend.Infof("[%s] %s", wl.renderID, message)
	wl.forward("info", message)
}

func (wl *WebLogger) Noticef(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.backend.Noticef("[%s] %s", wl.renderID, message)
	wl.forward("notice", message)
}

func (wl *WebLogger) Warningf(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	wl.backend.Warningf("[%s] %s", wl.renderID, message)
	wl.forward("warning", message)
}

func (wl *WebLogger) forward(level, message string) {
	if wl.consoleChan == nil {
		return
	}
	select {
	case wl.consoleChan <- ConsoleMessage{
		Message:   message,
		Timestamp: time.Now(),
		Level:     level,
	}:
	default:
		// Channel full, skip (don't block the renderer)
	}
}
