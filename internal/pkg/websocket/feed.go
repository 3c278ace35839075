package websocket

import (
	"github.com/yigit/unitrack/internal/app/tracker"
)

// EventSource is implemented by tracker.Store.
type EventSource interface {
	OnChange(fn func(tracker.Event))
}

// Attach forwards every store event to the hub.
func Attach(hub *Hub, source EventSource) {
	source.OnChange(func(e tracker.Event) {
		hub.Publish(&Message{
			Type:      string(e.Type),
			Reason:    e.Reason,
			Error:     e.Error,
			Timestamp: e.At,
		})
	})
}
