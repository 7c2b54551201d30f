package calls

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/intellemagit/VoxChain/internal/config"
	"github.com/intellemagit/VoxChain/internal/livekit"
)

// DefaultEmptyTimeoutSeconds is how long an unoccupied call room lives
// before the backend reclaims it.
const DefaultEmptyTimeoutSeconds = 600

// Service orchestrates outbound call sessions: room creation, agent
// dispatch and PSTN bridging, with compensating room deletion when the
// recipient is busy.
//
// Ordering invariant: room -> dispatch -> bridge, strictly sequential.
// Each step depends on state established by the one before it.
type Service struct {
	rooms  livekit.RoomService
	agents livekit.AgentDispatcher
	sip    livekit.SIPBridge

	trunkID   string
	agentName string
	log       *slog.Logger
}

func NewService(cfg config.LiveKitConfig, rooms livekit.RoomService, agents livekit.AgentDispatcher, sip livekit.SIPBridge, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		rooms:     rooms,
		agents:    agents,
		sip:       sip,
		trunkID:   cfg.SIPTrunkID,
		agentName: cfg.AgentName,
		log:       log,
	}
}

// StartCallParams are the caller inputs for one outbound call.
type StartCallParams struct {
	PhoneNumber   string
	PromptContent string

	// RoomName is optional; a collision-resistant name is generated
	// when empty.
	RoomName string

	// EmptyTimeoutSeconds defaults to DefaultEmptyTimeoutSeconds when zero.
	EmptyTimeoutSeconds int
}

// StartOutboundCall stands up a call session and bridges the destination
// number into it, blocking until the far end answers or rejects.
//
// Error contract:
//   - ErrInvalidArgument: bad input, no side effects.
//   - ErrNotConfigured: no SIP trunk, no side effects.
//   - ErrRecipientBusy: far end busy/rejected; the room has been deleted.
//   - anything else from the bridge: the room is left in place for the
//     caller or the empty-timeout reclamation to clean up.
func (s *Service) StartOutboundCall(ctx context.Context, p StartCallParams) (livekit.Room, error) {
	if p.PhoneNumber == "" {
		return livekit.Room{}, fmt.Errorf("%w: phone_number is required", ErrInvalidArgument)
	}
	if p.PromptContent == "" {
		return livekit.Room{}, fmt.Errorf("%w: prompt_content is required", ErrInvalidArgument)
	}
	if p.EmptyTimeoutSeconds < 0 {
		return livekit.Room{}, fmt.Errorf("%w: timeout must be positive", ErrInvalidArgument)
	}
	if p.EmptyTimeoutSeconds == 0 {
		p.EmptyTimeoutSeconds = DefaultEmptyTimeoutSeconds
	}

	// Checked before any remote side effect so a misconfigured process
	// never leaks half-built sessions.
	if s.trunkID == "" {
		return livekit.Room{}, fmt.Errorf("%w: SIP_OUTBOUND_TRUNK_ID is not set", ErrNotConfigured)
	}

	roomName := p.RoomName
	if roomName == "" {
		roomName = NewRoomName()
	}

	metadata, err := Metadata{PhoneNumber: p.PhoneNumber, PromptContent: p.PromptContent}.Encode()
	if err != nil {
		return livekit.Room{}, err
	}

	room, err := s.rooms.CreateRoom(ctx, livekit.CreateRoomRequest{
		Name:                roomName,
		EmptyTimeoutSeconds: uint32(p.EmptyTimeoutSeconds),
		Metadata:            metadata,
	})
	if err != nil {
		return livekit.Room{}, err
	}

	if _, err := s.agents.CreateDispatch(ctx, livekit.CreateDispatchRequest{
		RoomName:  roomName,
		AgentName: s.agentName,
		Metadata:  metadata,
	}); err != nil {
		return livekit.Room{}, err
	}

	_, err = s.sip.CreateParticipant(ctx, livekit.CreateSIPParticipantRequest{
		RoomName:            roomName,
		TrunkID:             s.trunkID,
		CallTo:              p.PhoneNumber,
		ParticipantIdentity: "phone-" + p.PhoneNumber,
		WaitUntilAnswered:   true,
	})
	if err != nil {
		if IsBusySignal(err) {
			s.log.Info("call rejected, tearing down room",
				"room", roomName, "phone_number", p.PhoneNumber)
			if delErr := s.rooms.DeleteRoom(ctx, roomName); delErr != nil {
				// The empty timeout reclaims the room eventually.
				s.log.Warn("room cleanup after busy failed", "room", roomName, "err", delErr)
			}
			return livekit.Room{}, fmt.Errorf("%w: %s", ErrRecipientBusy, p.PhoneNumber)
		}
		return livekit.Room{}, fmt.Errorf("bridge %s into room %q: %w", p.PhoneNumber, roomName, err)
	}

	s.log.Info("outbound call bridged", "room", roomName, "sid", room.SID)
	return room, nil
}

// EndCall deletes the call session. Backend errors propagate unchanged;
// deleting an already-gone room is backend-defined and callers should
// treat it as a no-op.
func (s *Service) EndCall(ctx context.Context, roomName string) error {
	if roomName == "" {
		return fmt.Errorf("%w: room_name is required", ErrInvalidArgument)
	}
	return s.rooms.DeleteRoom(ctx, roomName)
}
