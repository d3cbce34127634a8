package http

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/amcontabilidade/punctuality-board/internal/domain/dashboard"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/metrics"
	"github.com/amcontabilidade/punctuality-board/internal/pkg/sse"
	"github.com/google/uuid"
)

// DefaultKeepalive is the ping period of an idle stream.
const DefaultKeepalive = 30 * time.Second

type StreamHandler interface {
	// Stream pushes snapshot, rotation and progress events to a kiosk
	Stream(w http.ResponseWriter, r *http.Request)
}

type streamHandlerImpl struct {
	dashboardService dashboard.DashboardService
	hub              *sse.Hub
	topic            string
	metrics          *metrics.Metrics
	keepalive        time.Duration
}

// NewStreamHandler builds the SSE handler. m may be nil; keepalive <= 0 uses DefaultKeepalive.
func NewStreamHandler(dashboardService dashboard.DashboardService, hub *sse.Hub, topic string, m *metrics.Metrics, keepalive time.Duration) StreamHandler {
	if keepalive <= 0 {
		keepalive = DefaultKeepalive
	}
	return &streamHandlerImpl{
		dashboardService: dashboardService,
		hub:              hub,
		topic:            topic,
		metrics:          m,
		keepalive:        keepalive,
	}
}

// Stream handles GET /dashboard/stream
func (h *streamHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(h.topic)
	defer cleanup()

	if h.metrics != nil {
		h.metrics.StreamSubscribers.Inc()
		defer h.metrics.StreamSubscribers.Dec()
	}

	// Send initial connection event and the current view
	writeEvent(w, "connected", map[string]string{"status": "connected"})
	if snapshot, err := h.dashboardService.GetDashboard(r.Context()); err == nil {
		writeEvent(w, "snapshot", snapshot)
	}
	flusher.Flush()

	// Stream events
	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()

		case <-keepalive.C:
			writeEvent(w, "ping", map[string]int64{"timestamp": time.Now().Unix()})
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

// writeEvent writes one SSE frame with a fresh event id. Payloads that fail
// to encode are skipped.
func writeEvent(w io.Writer, event string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Warn("Failed to encode stream event", "event", event, "error", err)
		return
	}
	fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", uuid.NewString(), event, payload)
}
