package calls

import (
	"strings"

	"github.com/google/uuid"
)

// RoomNamePrefix marks rooms created for outbound calls.
const RoomNamePrefix = "outbound_call_"

// NewRoomName generates a collision-resistant room name. The suffix is
// the 122 random bits of a v4 UUID, hex-encoded; names are never reused.
func NewRoomName() string {
	u := uuid.New()
	suffix := strings.ReplaceAll(u.String(), "-", "")
	return RoomNamePrefix + suffix
}
