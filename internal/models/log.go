package models

import "time"

// LogLevel classifies a dashboard log line.
type LogLevel string

const (
	LogInfo    LogLevel = "info"
	LogSuccess LogLevel = "success"
	LogWarning LogLevel = "warning"
	LogError   LogLevel = "error"
	LogSystem  LogLevel = "system"
)

// LogEntry is one line of the dashboard's terminal panel.
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Level     LogLevel  `json:"type"`
}
