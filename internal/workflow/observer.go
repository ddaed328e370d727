package workflow

import (
	"encoding/json"
	"log"
	"time"
)

// Observer receives structured events from the controller and retry loops.
// It is an explicit parameter, not a side-channel callback: passing
// NopObserver suppresses intermediate output entirely.
type Observer interface {
	Event(eventType string, fields map[string]any)
}

// NopObserver discards all events.
type NopObserver struct{}

// Event does nothing.
func (NopObserver) Event(eventType string, fields map[string]any) {}

// LogObserver writes events as JSON lines through the standard logger.
type LogObserver struct {
	Component string
}

// NewLogObserver creates a JSON-line observer for the named component.
func NewLogObserver(component string) *LogObserver {
	return &LogObserver{Component: component}
}

// Event logs a structured event in JSON format.
func (o *LogObserver) Event(eventType string, fields map[string]any) {
	data := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		data[k] = v
	}
	data["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	data["level"] = "info"
	data["component"] = o.Component
	data["event_type"] = eventType

	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Printf("[%s] Failed to marshal log event: %v", o.Component, err)
		return
	}

	log.Println(string(jsonData))
}
