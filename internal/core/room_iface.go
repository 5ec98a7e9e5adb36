package core

import (
	"github.com/dkeye/Signal/internal/domain"
)

// PublishResult reports delivery stats/backpressure of a fan-out.
type PublishResult struct {
	SendTo  int
	Dropped []domain.ConnID
}

// Merge folds other into r.
func (r *PublishResult) Merge(other PublishResult) {
	r.SendTo += other.SendTo
	r.Dropped = append(r.Dropped, other.Dropped...)
}

// PresenceEntry is one row of a room's presence snapshot.
type PresenceEntry struct {
	UserID        domain.UserID `json:"userId"`
	ConnectionID  domain.ConnID `json:"connectionId"`
	CameraEnabled bool          `json:"cameraEnabled"`
	MicEnabled    bool          `json:"micEnabled"`
}

type RoomInfo struct {
	ID    domain.RoomID `json:"roomId"`
	Count int           `json:"count"`
}
