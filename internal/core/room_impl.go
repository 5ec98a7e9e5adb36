package core

import (
	"slices"

	"github.com/dkeye/Signal/internal/domain"
)

// Room is the member set of one room, kept in join order.
// It is not threadsafe; the room table guards it.
type Room struct {
	id      domain.RoomID
	members []domain.Member
}

func NewRoom(id domain.RoomID) *Room {
	return &Room{id: id}
}

func (r *Room) ID() domain.RoomID { return r.id }

func (r *Room) Len() int { return len(r.members) }

// Add appends the member, or refreshes its user id if it is already present.
func (r *Room) Add(m domain.Member) {
	if i := r.index(m.ConnID); i >= 0 {
		r.members[i].UserID = m.UserID
		return
	}
	r.members = append(r.members, m)
}

// Remove drops the member and returns it, if it was present.
func (r *Room) Remove(id domain.ConnID) (domain.Member, bool) {
	i := r.index(id)
	if i < 0 {
		return domain.Member{}, false
	}
	m := r.members[i]
	r.members = slices.Delete(r.members, i, i+1)
	return m, true
}

func (r *Room) Has(id domain.ConnID) bool { return r.index(id) >= 0 }

// Members returns a copy safe to keep after the table lock is released.
func (r *Room) Members() []domain.Member {
	return slices.Clone(r.members)
}

// Each calls fn for every member in join order.
func (r *Room) Each(fn func(domain.Member)) {
	for _, m := range r.members {
		fn(m)
	}
}

func (r *Room) index(id domain.ConnID) int {
	return slices.IndexFunc(r.members, func(m domain.Member) bool { return m.ConnID == id })
}
