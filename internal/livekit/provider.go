package livekit

import (
	"context"
)

// Backend interfaces for the media platform used by business logic.
//
// Rules:
// - No LiveKit SDK calls outside this package.
// - Keep request/response types provider-agnostic; business packages must not
//   import the backend's protobuf types.
// - Every method is a blocking network round-trip and must take a context.

// RoomService manages session (room) lifecycle.
type RoomService interface {
	CreateRoom(ctx context.Context, req CreateRoomRequest) (Room, error)
	DeleteRoom(ctx context.Context, roomName string) error
}

// AgentDispatcher places a named agent into a room.
type AgentDispatcher interface {
	CreateDispatch(ctx context.Context, req CreateDispatchRequest) (Dispatch, error)
}

// SIPBridge originates PSTN legs into rooms via a configured trunk.
type SIPBridge interface {
	CreateParticipant(ctx context.Context, req CreateSIPParticipantRequest) (SIPParticipant, error)
}

// EgressControl starts composite media exports and reports their status.
type EgressControl interface {
	StartRoomComposite(ctx context.Context, req CompositeRequest) (egressID string, err error)
	// GetEgress returns found=false when the backend no longer has a record
	// for the given egress id. That is not an error.
	GetEgress(ctx context.Context, egressID string) (info EgressInfo, found bool, err error)
	StartStream(ctx context.Context, req StreamRequest) (egressID string, err error)
}

// CreateRoomRequest describes a session to create.
type CreateRoomRequest struct {
	Name string `json:"name"`

	// EmptyTimeoutSeconds is how long an unoccupied room lives before the
	// backend reclaims it.
	EmptyTimeoutSeconds uint32 `json:"empty_timeout_seconds"`

	// Metadata is an opaque string attached to the room.
	Metadata string `json:"metadata,omitempty"`
}

// Room is the backend's view of a created session.
type Room struct {
	// SID is the backend-assigned opaque session handle.
	SID  string `json:"sid"`
	Name string `json:"name"`

	Metadata string `json:"metadata,omitempty"`
}

type CreateDispatchRequest struct {
	RoomName  string `json:"room_name"`
	AgentName string `json:"agent_name"`
	Metadata  string `json:"metadata,omitempty"`
}

type Dispatch struct {
	ID        string `json:"id"`
	RoomName  string `json:"room_name"`
	AgentName string `json:"agent_name"`
}

// CreateSIPParticipantRequest bridges a PSTN number into a room.
// WaitUntilAnswered makes the call block until the far end answers,
// rejects, or the backend's own timeout elapses.
type CreateSIPParticipantRequest struct {
	RoomName            string `json:"room_name"`
	TrunkID             string `json:"trunk_id"`
	CallTo              string `json:"call_to"`
	ParticipantIdentity string `json:"participant_identity"`
	WaitUntilAnswered   bool   `json:"wait_until_answered"`
}

type SIPParticipant struct {
	ID       string `json:"id"`
	Identity string `json:"identity"`
	RoomName string `json:"room_name"`
	CallID   string `json:"call_id,omitempty"`
}

// S3Target is the durable-storage destination for an egress file output.
type S3Target struct {
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	Region    string `json:"region,omitempty"`
}

// CompositeRequest starts a room-composite export to an MP4 file.
// When S3 is nil the file stays local to the egress server.
type CompositeRequest struct {
	RoomName string    `json:"room_name"`
	Layout   string    `json:"layout"`
	Filepath string    `json:"filepath"`
	S3       *S3Target `json:"s3,omitempty"`
}

// StreamRequest starts a room-composite restream to RTMP endpoints.
type StreamRequest struct {
	RoomName string   `json:"room_name"`
	Layout   string   `json:"layout"`
	RTMPURLs []string `json:"rtmp_urls"`
}

// EgressStatus is the provider-agnostic export job state.
type EgressStatus string

const (
	EgressStatusActive       EgressStatus = "active"
	EgressStatusComplete     EgressStatus = "complete"
	EgressStatusFailed       EgressStatus = "failed"
	EgressStatusLimitReached EgressStatus = "limit_reached"
)

// Terminal reports whether no further status transition can occur.
func (s EgressStatus) Terminal() bool {
	switch s {
	case EgressStatusComplete, EgressStatusFailed, EgressStatusLimitReached:
		return true
	default:
		return false
	}
}

// EgressInfo is one polled snapshot of an export job. It is re-fetched on
// every poll cycle, never cached.
type EgressInfo struct {
	EgressID string       `json:"egress_id"`
	RoomName string       `json:"room_name"`
	Status   EgressStatus `json:"status"`

	// Detail carries the backend-provided error detail for failed or
	// limit-reached jobs.
	Detail string `json:"detail,omitempty"`
}
