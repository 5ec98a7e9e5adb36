package app

import (
	"encoding/json"
	"testing"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/core/coretest"
)

func TestOutbox_ToConnAndSettle(t *testing.T) {
	reg := NewRegistry()
	rooms := NewRoomTable()
	out := &Outbox{Registry: reg, Rooms: rooms, Policy: SimplePolicy{}}

	ok := &coretest.Recorder{}
	full := &coretest.Recorder{Limit: 1}
	reg.Initialize("ok", ok, nil)
	reg.Initialize("full", full, nil)
	rooms.Join("r1", "ok", "")
	rooms.Join("r1", "full", "")

	if res := out.ToConn("full", core.EventPong, struct{}{}); res.SendTo != 1 {
		t.Fatalf("first send=%+v", res)
	}
	if res := out.ToConn("missing", core.EventPong, struct{}{}); res.SendTo != 0 || len(res.Dropped) != 0 {
		t.Fatalf("send to missing=%+v", res)
	}

	res := out.ToRoom("r1", "", core.EventTyping, map[string]any{"isTyping": true})
	if res.SendTo != 1 || len(res.Dropped) != 1 || res.Dropped[0] != "full" {
		t.Fatalf("room send=%+v", res)
	}
	out.Settle("r1", res)
	if !full.Closed() || ok.Closed() {
		t.Fatalf("full closed=%v ok closed=%v", full.Closed(), ok.Closed())
	}

	var body map[string]any
	if err := json.Unmarshal(ok.Of(core.EventTyping)[0], &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["isTyping"] != true {
		t.Fatalf("body=%v", body)
	}
}

func TestPolicyByName(t *testing.T) {
	if _, ok := PolicyByName("drop").(DropPolicy); !ok {
		t.Fatalf("drop did not map to DropPolicy")
	}
	if _, ok := PolicyByName("whatever").(SimplePolicy); !ok {
		t.Fatalf("unknown name did not fall back to SimplePolicy")
	}
}
