package signaling

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkeye/Signal/internal/app"
	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/core/coretest"
	"github.com/dkeye/Signal/internal/domain"
)

type fixture struct {
	router *Router
	recs   map[domain.ConnID]*coretest.Recorder
}

// newFixture puts every conn into room r1.
func newFixture(conns ...domain.ConnID) *fixture {
	reg := app.NewRegistry()
	rooms := app.NewRoomTable()
	r := New(&app.Outbox{Registry: reg, Rooms: rooms, Policy: app.SimplePolicy{}})
	r.Now = func() time.Time { return time.Date(2024, 5, 1, 10, 30, 0, 123_000_000, time.FixedZone("x", 3600)) }
	r.NewID = func() string { return "msg-1" }
	f := &fixture{router: r, recs: map[domain.ConnID]*coretest.Recorder{}}
	for _, id := range conns {
		rec := &coretest.Recorder{}
		reg.Initialize(id, rec, nil)
		rooms.Join("r1", id, domain.UserID(id))
		f.recs[id] = rec
	}
	return f
}

func fields(t *testing.T, s string) Fields {
	t.Helper()
	var f Fields
	if err := json.Unmarshal([]byte(s), &f); err != nil {
		t.Fatalf("fields %s: %v", s, err)
	}
	return f
}

func body(t *testing.T, raw json.RawMessage) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return m
}

func TestRelayNeverReachesSender(t *testing.T) {
	cases := []struct {
		event string
		send  func(*Router, domain.ConnID, domain.RoomID, Fields)
	}{
		{core.EventOffer, (*Router).Offer},
		{core.EventAnswer, (*Router).Answer},
		{core.EventICECandidate, (*Router).ICECandidate},
		{core.EventChatMessage, (*Router).Chat},
	}
	for _, tc := range cases {
		t.Run(tc.event, func(t *testing.T) {
			f := newFixture("a", "b", "c")
			tc.send(f.router, "a", "r1", fields(t, `{"roomId":"r1","sdp":"v=0","text":"hi"}`))

			if n := len(f.recs["a"].Of(tc.event)); n != 0 {
				t.Fatalf("sender received %d %s", n, tc.event)
			}
			for _, id := range []domain.ConnID{"b", "c"} {
				got := f.recs[id].Of(tc.event)
				if len(got) != 1 {
					t.Fatalf("%s received %d, want 1", id, len(got))
				}
				if from := body(t, got[0])["from"]; from != "a" {
					t.Fatalf("from=%v, want a", from)
				}
			}
		})
	}
}

func TestOffer_ForwardsPayloadVerbatim(t *testing.T) {
	f := newFixture("a", "b")
	f.router.Offer("a", "r1", fields(t, `{"room":"r1","sdp":{"type":"offer","sdp":"v=0"},"target":"b","from":"spoofed"}`))

	got := body(t, f.recs["b"].Of(core.EventOffer)[0])
	if got["target"] != "b" || got["room"] != "r1" || got["from"] != "a" {
		t.Fatalf("offer=%v", got)
	}
	if sdp, _ := got["sdp"].(map[string]any); sdp["sdp"] != "v=0" {
		t.Fatalf("sdp=%v", got["sdp"])
	}
}

func TestRelay_EmptyOrUnknownRoom(t *testing.T) {
	f := newFixture("a", "b")
	f.router.ICECandidate("a", "", fields(t, `{"candidate":"x"}`))
	f.router.ICECandidate("a", "nowhere", fields(t, `{"candidate":"x"}`))
	f.router.Typing("a", TypingRequest{})
	f.router.FileShare("a", FileShareRequest{Room: "nowhere"})
	if n := len(f.recs["b"].Types()); n != 0 {
		t.Fatalf("b received %v", f.recs["b"].Types())
	}
}

func TestChat_ServerFieldsWin(t *testing.T) {
	f := newFixture("a", "b")
	f.router.Chat("a", "r1", fields(t, `{"roomId":"r1","text":"hello","id":"client","timestamp":"yesterday","color":"red"}`))

	msg := body(t, f.recs["b"].Of(core.EventChatMessage)[0])
	if msg["id"] != "msg-1" || msg["timestamp"] != "2024-05-01T09:30:00.123Z" {
		t.Fatalf("id/timestamp=%v/%v", msg["id"], msg["timestamp"])
	}
	if msg["sender"] != "a" || msg["from"] != "a" || msg["text"] != "hello" || msg["color"] != "red" {
		t.Fatalf("message=%v", msg)
	}
	if _, ok := msg["status"]; ok {
		t.Fatalf("relayed message carries status")
	}

	sent := f.recs["a"].Of(core.EventChatMessageSent)
	if len(sent) != 1 {
		t.Fatalf("echo count=%d, want 1", len(sent))
	}
	echo := body(t, sent[0])
	if echo["status"] != "sent" || echo["id"] != "msg-1" || echo["text"] != "hello" {
		t.Fatalf("echo=%v", echo)
	}
	if n := len(f.recs["b"].Of(core.EventChatMessageSent)); n != 0 {
		t.Fatalf("peer received %d confirmations", n)
	}
}

func TestChat_KeepsClientSender(t *testing.T) {
	f := newFixture("a", "b")
	f.router.Chat("a", "r1", fields(t, `{"text":"x","sender":"Alice"}`))
	if s := body(t, f.recs["b"].Of(core.EventChatMessage)[0])["sender"]; s != "Alice" {
		t.Fatalf("sender=%v, want Alice", s)
	}
}

func TestTyping_Defaults(t *testing.T) {
	no := false
	cases := []struct {
		name     string
		req      TypingRequest
		wantUser string
		want     bool
	}{
		{"defaults", TypingRequest{Room: "r1"}, "a", true},
		{"explicit", TypingRequest{Room: "r1", UserID: "alice", IsTyping: &no}, "alice", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture("a", "b")
			f.router.Typing("a", tc.req)
			got := body(t, f.recs["b"].Of(core.EventTyping)[0])
			if got["userId"] != tc.wantUser || got["isTyping"] != tc.want || got["from"] != "a" {
				t.Fatalf("typing=%v", got)
			}
		})
	}
}

func TestFileShare_Fields(t *testing.T) {
	f := newFixture("a", "b")
	f.router.FileShare("a", FileShareRequest{
		Room:     "r1",
		FileName: "cat.png",
		FileSize: json.RawMessage("2048"),
		FileType: "image/png",
		FileURL:  "https://files.example/cat.png",
	})
	got := body(t, f.recs["b"].Of(core.EventFileShare)[0])
	if got["fileName"] != "cat.png" || got["fileSize"] != float64(2048) || got["fileType"] != "image/png" {
		t.Fatalf("file-share=%v", got)
	}
	if got["sender"] != "a" || got["timestamp"] != "2024-05-01T09:30:00.123Z" || got["from"] != "a" {
		t.Fatalf("file-share=%v", got)
	}
	if len(f.recs["a"].Types()) != 0 {
		t.Fatalf("sender got %v", f.recs["a"].Types())
	}
}
