package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	// Time between keepalive comments
	pingPeriod = 15 * time.Second

	// Buffer size for a stream's pending events
	SendBufferSize = 64
)

// Event is one server-sent event
type Event struct {
	Name string
	Data any
}

// Serve streams events from the channel to the client until the client
// disconnects or the channel is closed. The caller owns the channel and the
// subscription feeding it.
func Serve(w http.ResponseWriter, r *http.Request, events <-chan Event) error {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return fmt.Errorf("response writer does not support flushing")
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	// Initial event confirms the subscription is live
	if err := writeEvent(w, Event{Name: "connected", Data: map[string]string{"status": "connected"}}); err != nil {
		return err
	}
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if err := writeEvent(w, event); err != nil {
				return err
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return err
			}
			flusher.Flush()

		case <-r.Context().Done():
			return nil
		}
	}
}

func writeEvent(w http.ResponseWriter, event Event) error {
	data, err := json.Marshal(event.Data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, data)
	return err
}
