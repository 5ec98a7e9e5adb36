package domain

// Member represents a connection's participation in a room.
// No transport or lifecycle logic here.
type Member struct {
	ConnID ConnID
	UserID UserID
}
