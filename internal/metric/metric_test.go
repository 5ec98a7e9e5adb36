package metric

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHandler_ExposesSignalMetrics(t *testing.T) {
	SetRooms(3)
	EventReceived("join-room")
	EventSent("room-users", 2)
	EventSent("pong", 0)
	FrameDropped("kick")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr := httptest.NewRecorder()
	Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d, want %d", rr.Code, http.StatusOK)
	}
	body := rr.Body.String()
	for _, want := range []string{
		"signal_active_rooms 3",
		`signal_events_received_total{type="join-room"} 1`,
		`signal_events_sent_total{type="room-users"} 2`,
		`signal_frames_dropped_total{action="kick"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("missing %q in:\n%s", want, body)
		}
	}
	if strings.Contains(body, `signal_events_sent_total{type="pong"}`) {
		t.Fatalf("zero-count send should not create a series")
	}
}
