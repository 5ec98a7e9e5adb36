// Package coretest provides a recording SignalConnection for tests.
package coretest

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/dkeye/Signal/internal/core"
)

var ErrFull = errors.New("recorder full")

// Recorder is a SignalConnection that keeps every frame it accepts.
// A positive Limit makes TrySend fail once that many frames are held.
type Recorder struct {
	Limit int

	mu     sync.Mutex
	frames []core.Frame
	closed bool
}

func (r *Recorder) TrySend(f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return errors.New("closed")
	}
	if r.Limit > 0 && len(r.frames) >= r.Limit {
		return ErrFull
	}
	r.frames = append(r.frames, f)
	return nil
}

func (r *Recorder) Close() {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
}

func (r *Recorder) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}

// Events decodes every recorded frame.
func (r *Recorder) Events() []core.Envelope {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]core.Envelope, 0, len(r.frames))
	for _, f := range r.frames {
		var env core.Envelope
		if err := json.Unmarshal(f, &env); err != nil {
			panic(err)
		}
		out = append(out, env)
	}
	return out
}

// Of returns the payloads of recorded events of the given type.
func (r *Recorder) Of(eventType string) []json.RawMessage {
	var out []json.RawMessage
	for _, env := range r.Events() {
		if env.Type == eventType {
			out = append(out, env.Data)
		}
	}
	return out
}

// Types lists recorded event types in order.
func (r *Recorder) Types() []string {
	var out []string
	for _, env := range r.Events() {
		out = append(out, env.Type)
	}
	return out
}

func (r *Recorder) Reset() {
	r.mu.Lock()
	r.frames = nil
	r.mu.Unlock()
}
