package core

import (
	"testing"

	"github.com/dkeye/Signal/internal/domain"
)

func TestRoom_JoinOrderAndRemove(t *testing.T) {
	r := NewRoom("r1")
	r.Add(domain.Member{ConnID: "a", UserID: "ua"})
	r.Add(domain.Member{ConnID: "b", UserID: "ub"})
	r.Add(domain.Member{ConnID: "c", UserID: "uc"})
	r.Add(domain.Member{ConnID: "a", UserID: "ua2"})

	if r.Len() != 3 {
		t.Fatalf("len=%d, want 3", r.Len())
	}
	m, ok := r.Remove("b")
	if !ok || m.UserID != "ub" {
		t.Fatalf("removed=%+v ok=%v", m, ok)
	}
	if _, ok := r.Remove("b"); ok {
		t.Fatalf("second remove reported success")
	}

	got := r.Members()
	if len(got) != 2 || got[0].ConnID != "a" || got[0].UserID != "ua2" || got[1].ConnID != "c" {
		t.Fatalf("members=%+v", got)
	}
	got[0].UserID = "mutated"
	if r.Members()[0].UserID != "ua2" {
		t.Fatalf("Members leaked internal slice")
	}
}

func TestEncode(t *testing.T) {
	f, err := Encode(EventPong, struct{}{})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if string(f) != `{"type":"pong","data":{}}` {
		t.Fatalf("frame=%s", f)
	}
}
