// Package domain contains entity without logic, just meta-data
package domain

type (
	ConnID string
	UserID string
)

// Connection is the ephemeral per-connection state kept by the registry.
type Connection struct {
	ID            ConnID `json:"connectionId"`
	UserID        UserID `json:"userId"`
	RoomID        RoomID `json:"roomId,omitempty"`
	CameraEnabled bool   `json:"cameraEnabled"`
	MicEnabled    bool   `json:"micEnabled"`
}

// NewConnection returns a fresh, unjoined connection with camera and mic on.
func NewConnection(id ConnID) Connection {
	return Connection{
		ID:            id,
		UserID:        UserID(id),
		CameraEnabled: true,
		MicEnabled:    true,
	}
}

// InRoom reports whether the connection is currently joined anywhere.
func (c Connection) InRoom() bool { return c.RoomID != "" }

// UserOrDefault falls back to the connection id when the client sent no user id.
func UserOrDefault(user string, id ConnID) UserID {
	if user == "" {
		return UserID(id)
	}
	return UserID(user)
}
