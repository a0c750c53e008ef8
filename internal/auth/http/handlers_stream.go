package http

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tripnest/tripnest-backend/internal/auth"
	"github.com/tripnest/tripnest-backend/internal/session"
)

// StreamSession streams the session user using Server-Sent Events (SSE).
// The store is mounted once per connection and closed when the client goes away.
func (h *Handler) StreamSession(c *gin.Context) {
	client := auth.Client(c)
	ctx := c.Request.Context()

	store := session.NewStore()
	defer store.Close()

	updates := newLatestSnapshot()
	dispose := store.Subscribe(updates.put)
	defer dispose()

	if err := store.Mount(ctx, client.User, h.events); err != nil {
		log.Printf("[session-stream] subscribe failed: %v", err)
	}

	// Set SSE headers
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // nginx: disable buffering

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming unsupported"})
		return
	}

	// Drop the snapshot produced by Mount, the initial event carries the current state.
	updates.take()
	writeEvent(c, "initial", store.Snapshot())
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// Client disconnected
			return

		case <-ticker.C:
			fmt.Fprint(c.Writer, ": keep-alive\n\n")
			flusher.Flush()

		case <-updates.ready:
			if s, ok := updates.take(); ok {
				writeEvent(c, "update", s)
				flusher.Flush()
			}
		}
	}
}

// latestSnapshot holds only the newest undelivered snapshot. A slow reader
// skips intermediate states but always ends on the last one.
type latestSnapshot struct {
	mu      sync.Mutex
	pending *session.Snapshot
	ready   chan struct{}
}

func newLatestSnapshot() *latestSnapshot {
	return &latestSnapshot{ready: make(chan struct{}, 1)}
}

func (l *latestSnapshot) put(s session.Snapshot) {
	l.mu.Lock()
	l.pending = &s
	l.mu.Unlock()

	select {
	case l.ready <- struct{}{}:
	default:
	}
}

func (l *latestSnapshot) take() (session.Snapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.pending == nil {
		return session.Snapshot{}, false
	}
	s := *l.pending
	l.pending = nil
	return s, true
}

func writeEvent(c *gin.Context, event string, s session.Snapshot) {
	data, _ := json.Marshal(s)
	fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, string(data))
}
