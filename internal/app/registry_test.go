package app

import (
	"errors"
	"testing"

	"github.com/dkeye/Signal/internal/core/coretest"
)

func TestRegistry_InitializeDefaults(t *testing.T) {
	r := NewRegistry()
	r.Initialize("c1", &coretest.Recorder{}, nil)

	c, ok := r.Get("c1")
	if !ok {
		t.Fatalf("c1 not found")
	}
	if c.InRoom() || !c.CameraEnabled || !c.MicEnabled || c.UserID != "c1" {
		t.Fatalf("state=%+v", c)
	}
}

func TestRegistry_UnknownConnection(t *testing.T) {
	r := NewRegistry()
	if r.SetRoom("x", "r1") || r.SetCamera("x", false) || r.SetMic("x", false) || r.SetUser("x", "u") {
		t.Fatalf("update on unknown connection reported success")
	}
	if err := r.Send("x", []byte("{}")); !errors.Is(err, ErrUnknownConnection) {
		t.Fatalf("err=%v, want ErrUnknownConnection", err)
	}
	if r.Cancel("x") {
		t.Fatalf("cancel of unknown connection reported success")
	}
	r.Remove("x")
	r.Remove("x")
}

func TestRegistry_DoubleInitializeOverwrites(t *testing.T) {
	r := NewRegistry()
	r.Initialize("c1", &coretest.Recorder{}, nil)
	r.SetRoom("c1", "r1")
	r.SetCamera("c1", false)
	r.Initialize("c1", &coretest.Recorder{}, nil)

	c, _ := r.Get("c1")
	if c.InRoom() || !c.CameraEnabled {
		t.Fatalf("state=%+v, want fresh", c)
	}
	if r.Count() != 1 {
		t.Fatalf("count=%d, want 1", r.Count())
	}
}

func TestRegistry_CancelClosesTransport(t *testing.T) {
	r := NewRegistry()
	rec := &coretest.Recorder{}
	called := false
	r.Initialize("c1", rec, func() { called = true })

	if !r.Cancel("c1") {
		t.Fatalf("cancel returned false")
	}
	if !called || !rec.Closed() {
		t.Fatalf("called=%v closed=%v", called, rec.Closed())
	}
}
