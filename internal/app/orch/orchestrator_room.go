package orch

import (
	"github.com/dkeye/Signal/internal/core"
	"github.com/dkeye/Signal/internal/domain"
	"github.com/rs/zerolog/log"
)

// Join moves conn into room. A connection already in a room leaves it
// first, with the usual notifications, even when it rejoins the same room.
func (o *Orchestrator) Join(conn domain.ConnID, room domain.RoomID, user string) {
	if room == "" {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("join without room")
		return
	}
	var p pending
	o.mu.Lock()
	o.join(conn, room, user, &p)
	o.mu.Unlock()
	o.flush(p)
}

func (o *Orchestrator) join(conn domain.ConnID, room domain.RoomID, user string, p *pending) {
	c, ok := o.Registry.Get(conn)
	if !ok {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Msg("join from unknown connection")
		return
	}
	if c.InRoom() {
		o.leave(conn, c.RoomID, core.ReasonLeft, p)
		log.Info().Str("module", "orch").Str("conn", string(conn)).Str("from_room", string(c.RoomID)).Msg("left previous room")
	}

	uid := domain.UserOrDefault(user, conn)
	o.Rooms.Join(room, conn, uid)
	o.Registry.SetRoom(conn, room)
	o.Registry.SetUser(conn, uid)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("user", string(uid)).Str("room", string(room)).Msg("joined room")

	p.add(room, o.Out.ToRoom(room, conn, core.EventUserJoined, core.UserJoined{
		UserID:       uid,
		ConnectionID: conn,
		RoomID:       room,
	}))
	users := o.presence(o.Rooms.Members(room))
	p.add(room, o.Out.ToConn(conn, core.EventRoomUsers, core.RoomUsers{
		RoomID: room,
		Users:  users,
		Count:  len(users),
	}))
}

// Leave removes conn from room. It is a no-op unless conn is currently in room.
func (o *Orchestrator) Leave(conn domain.ConnID, room domain.RoomID) {
	var p pending
	o.mu.Lock()
	o.leave(conn, room, core.ReasonLeft, &p)
	o.mu.Unlock()
	o.flush(p)
}

// Disconnect leaves the current room and forgets the connection. Safe to
// call more than once.
func (o *Orchestrator) Disconnect(conn domain.ConnID) {
	var p pending
	o.mu.Lock()
	c, ok := o.Registry.Get(conn)
	if !ok {
		o.mu.Unlock()
		return
	}
	if c.InRoom() {
		o.leave(conn, c.RoomID, core.ReasonDisconnected, &p)
	}
	o.Registry.Remove(conn)
	o.mu.Unlock()
	o.flush(p)
	log.Info().Str("module", "orch").Str("conn", string(conn)).Msg("disconnected")
}

func (o *Orchestrator) leave(conn domain.ConnID, room domain.RoomID, reason string, p *pending) bool {
	c, ok := o.Registry.Get(conn)
	if !ok || room == "" || c.RoomID != room {
		log.Debug().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Msg("leave of a room the connection is not in")
		return false
	}
	remaining, exists := o.Rooms.Leave(room, conn)
	o.Registry.SetRoom(conn, "")
	log.Info().Str("module", "orch").Str("conn", string(conn)).Str("room", string(room)).Str("reason", reason).Msg("left room")
	if !exists {
		return true
	}

	p.add(room, o.Out.ToRoom(room, conn, core.EventUserDisconnected, core.UserDisconnected{
		UserID:       c.UserID,
		ConnectionID: conn,
		RoomID:       room,
		Reason:       reason,
	}))
	users := o.presence(remaining)
	p.add(room, o.Out.ToRoom(room, conn, core.EventRoomUsers, core.RoomUsers{
		RoomID: room,
		Users:  users,
		Count:  len(users),
	}))
	return true
}
