package app

import (
	"context"
	"errors"
	"sync"

	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/rs/zerolog/log"
)

var ErrUnknownConnection = errors.New("unknown connection")

type connEntry struct {
	State  domain.Connection
	Signal core.SignalConnection
	Cancel context.CancelFunc
}

// Registry is the connection registry: ephemeral state plus the outbound
// transport of every live connection.
type Registry struct {
	mu    sync.RWMutex
	conns map[domain.ConnID]*connEntry
}

func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[domain.ConnID]*connEntry),
	}
}

// Initialize creates fresh state for id. A second call overwrites the first.
func (r *Registry) Initialize(id domain.ConnID, signal core.SignalConnection, cancel context.CancelFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.conns[id] = &connEntry{
		State:  domain.NewConnection(id),
		Signal: signal,
		Cancel: cancel,
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection initialized")
}

func (r *Registry) Get(id domain.ConnID) (domain.Connection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.conns[id]
	if !ok {
		return domain.Connection{}, false
	}
	return e.State, true
}

func (r *Registry) SetRoom(id domain.ConnID, room domain.RoomID) bool {
	return r.update(id, "room", func(c *domain.Connection) { c.RoomID = room })
}

func (r *Registry) SetUser(id domain.ConnID, user domain.UserID) bool {
	return r.update(id, "user", func(c *domain.Connection) { c.UserID = user })
}

func (r *Registry) SetCamera(id domain.ConnID, enabled bool) bool {
	return r.update(id, "camera", func(c *domain.Connection) { c.CameraEnabled = enabled })
}

func (r *Registry) SetMic(id domain.ConnID, enabled bool) bool {
	return r.update(id, "mic", func(c *domain.Connection) { c.MicEnabled = enabled })
}

func (r *Registry) update(id domain.ConnID, field string, fn func(*domain.Connection)) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.conns[id]
	if !ok {
		log.Debug().Str("module", "app.registry").Str("conn", string(id)).Str("field", field).Msg("update on unknown connection")
		return false
	}
	fn(&e.State)
	return true
}

// Remove deletes the connection. Removing an unknown id is a no-op.
func (r *Registry) Remove(id domain.ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.conns[id]; !ok {
		return
	}
	delete(r.conns, id)
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("connection removed")
}

// Send enqueues a frame on the connection's transport without blocking.
func (r *Registry) Send(id domain.ConnID, f core.Frame) error {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok || e.Signal == nil {
		return ErrUnknownConnection
	}
	return e.Signal.TrySend(f)
}

// Cancel ends the connection's lifetime; the transport notices and disconnects.
func (r *Registry) Cancel(id domain.ConnID) bool {
	r.mu.RLock()
	e, ok := r.conns[id]
	r.mu.RUnlock()
	if !ok {
		return false
	}
	if e.Cancel != nil {
		e.Cancel()
	}
	if e.Signal != nil {
		e.Signal.Close()
	}
	log.Info().Str("module", "app.registry").Str("conn", string(id)).Msg("canceled connection")
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
