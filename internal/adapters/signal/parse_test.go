package signal

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseJoin(t *testing.T) {
	cases := []struct {
		name     string
		in       string
		wantRoom string
		wantUser string
		wantErr  error
	}{
		{"bare string", `"lobby"`, "lobby", "", nil},
		{"roomId", `{"roomId":"r1","userId":"alice"}`, "r1", "alice", nil},
		{"room", `{"room":"r2"}`, "r2", "", nil},
		{"room wins", `{"room":"a","roomId":"b"}`, "a", "", nil},
		{"numeric roomId", `{"roomId":42}`, "42", "", nil},
		{"numeric room wins", `{"room":7,"roomId":"b"}`, "7", "", nil},
		{"object room", `{"roomId":{"x":1}}`, "", "", errMissingRoom},
		{"null room", `{"room":null,"roomId":"r3"}`, "r3", "", nil},
		{"empty string", `""`, "", "", errMissingRoom},
		{"no room", `{"userId":"alice"}`, "", "", errMissingRoom},
		{"no data", ``, "", "", errMissingRoom},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := parseJoin(json.RawMessage(tc.in))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err=%v, want %v", err, tc.wantErr)
			}
			if string(got.Room) != tc.wantRoom || got.UserID != tc.wantUser {
				t.Fatalf("got=%+v, want room=%q user=%q", got, tc.wantRoom, tc.wantUser)
			}
		})
	}
}

func TestParseJoin_Malformed(t *testing.T) {
	if _, err := parseJoin(json.RawMessage(`{"roomId":`)); err == nil || errors.Is(err, errMissingRoom) {
		t.Fatalf("err=%v, want decode error", err)
	}
}

func TestParseFields_KeepsEverything(t *testing.T) {
	room, f, err := parseFields(json.RawMessage(`{"roomId":"r1","sdp":{"type":"offer"},"n":3}`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if room != "r1" || len(f) != 3 || string(f["n"]) != "3" {
		t.Fatalf("room=%q fields=%v", room, f)
	}
}

func TestParseMedia(t *testing.T) {
	req, err := parseMedia(json.RawMessage(`{"room":"r1","enabled":false,"userId":"bob"}`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if req.Room != "r1" || req.Enabled || req.UserID != "bob" {
		t.Fatalf("req=%+v", req)
	}
}

func TestParseTyping_IsTypingOptional(t *testing.T) {
	req, err := parseTyping(json.RawMessage(`{"roomId":"r1"}`))
	if err != nil || req.IsTyping != nil {
		t.Fatalf("req=%+v err=%v", req, err)
	}
	req, _ = parseTyping(json.RawMessage(`{"roomId":"r1","isTyping":false}`))
	if req.IsTyping == nil || *req.IsTyping {
		t.Fatalf("isTyping=%v, want false", req.IsTyping)
	}
}

func TestParseFileShare(t *testing.T) {
	req, err := parseFileShare(json.RawMessage(`{"roomId":"r1","fileName":"a.txt","fileSize":12,"fileType":"text/plain","fileUrl":"u"}`))
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if req.FileName != "a.txt" || string(req.FileSize) != "12" || req.FileURL != "u" {
		t.Fatalf("req=%+v", req)
	}
	if _, err := parseFileShare(json.RawMessage(`{"fileName":"a.txt"}`)); !errors.Is(err, errMissingRoom) {
		t.Fatalf("err=%v, want errMissingRoom", err)
	}
}

func TestParseRoom_NumericID(t *testing.T) {
	room, err := parseRoom(json.RawMessage(`{"roomId":1234}`))
	if err != nil || room != "1234" {
		t.Fatalf("room=%q err=%v, want 1234", room, err)
	}
}
