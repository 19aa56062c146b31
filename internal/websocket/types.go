package websocket

import (
	"time"

	"github.com/GonzaloFuentes1/anonymization-filter/internal/redact"
)

// EventType represents the type of WebSocket event
type EventType string

const (
	// EventTypeRedaction represents a redaction event
	EventTypeRedaction EventType = "redaction"
	// EventTypeSystemStatus represents a system status event
	EventTypeSystemStatus EventType = "system_status"
	// EventTypeConnection represents connection events
	EventTypeConnection EventType = "connection"
)

// Event represents a WebSocket event sent to clients
type Event struct {
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id,omitempty"`
}

// RedactionEvent represents one anonymize request that produced findings
type RedactionEvent struct {
	RequestID      string           `json:"request_id"`
	ClientIP       string           `json:"client_ip"`
	Findings       []redact.Finding `json:"findings"`
	TotalFindings  int              `json:"total_findings"`
	EntityFindings int              `json:"entity_findings"`
	ProcessingMS   float64          `json:"processing_ms"`
}

// SystemStatusEvent represents system status information
type SystemStatusEvent struct {
	Status           string `json:"status"`
	Uptime           string `json:"uptime"`
	TotalRequests    int64  `json:"total_requests"`
	TotalRedactions  int64  `json:"total_redactions"`
	ActivePatterns   int    `json:"active_patterns"`
	ConnectedClients int    `json:"connected_clients"`
}

// ConnectionEvent represents WebSocket connection events
type ConnectionEvent struct {
	Action   string `json:"action"` // "connected", "disconnected"
	ClientID string `json:"client_id"`
	ClientIP string `json:"client_ip"`
	Message  string `json:"message,omitempty"`
}
