package livekit

import (
	"context"
	"fmt"

	"github.com/livekit/protocol/livekit"
	lksdk "github.com/livekit/server-sdk-go/v2"

	"github.com/intellemagit/VoxChain/internal/config"
)

// Client implements the backend interfaces over the LiveKit server APIs.
// One Client is constructed at startup and shared; it holds no mutable state.
type Client struct {
	room     *lksdk.RoomServiceClient
	dispatch *lksdk.AgentDispatchClient
	sip      *lksdk.SIPClient
	egress   *lksdk.EgressClient
}

var (
	_ RoomService     = (*Client)(nil)
	_ AgentDispatcher = (*Client)(nil)
	_ SIPBridge       = (*Client)(nil)
	_ EgressControl   = (*Client)(nil)
)

func NewClient(cfg config.LiveKitConfig) *Client {
	return &Client{
		room:     lksdk.NewRoomServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret),
		dispatch: lksdk.NewAgentDispatchServiceClient(cfg.URL, cfg.APIKey, cfg.APISecret),
		sip:      lksdk.NewSIPClient(cfg.URL, cfg.APIKey, cfg.APISecret),
		egress:   lksdk.NewEgressClient(cfg.URL, cfg.APIKey, cfg.APISecret),
	}
}

func (c *Client) CreateRoom(ctx context.Context, req CreateRoomRequest) (Room, error) {
	room, err := c.room.CreateRoom(ctx, &livekit.CreateRoomRequest{
		Name:         req.Name,
		EmptyTimeout: req.EmptyTimeoutSeconds,
		Metadata:     req.Metadata,
	})
	if err != nil {
		return Room{}, fmt.Errorf("create room %q: %w", req.Name, err)
	}
	return Room{SID: room.Sid, Name: room.Name, Metadata: room.Metadata}, nil
}

func (c *Client) DeleteRoom(ctx context.Context, roomName string) error {
	_, err := c.room.DeleteRoom(ctx, &livekit.DeleteRoomRequest{Room: roomName})
	if err != nil {
		return fmt.Errorf("delete room %q: %w", roomName, err)
	}
	return nil
}

func (c *Client) CreateDispatch(ctx context.Context, req CreateDispatchRequest) (Dispatch, error) {
	d, err := c.dispatch.CreateDispatch(ctx, &livekit.CreateAgentDispatchRequest{
		Room:      req.RoomName,
		AgentName: req.AgentName,
		Metadata:  req.Metadata,
	})
	if err != nil {
		return Dispatch{}, fmt.Errorf("dispatch agent %q to room %q: %w", req.AgentName, req.RoomName, err)
	}
	return Dispatch{ID: d.Id, RoomName: d.Room, AgentName: d.AgentName}, nil
}

func (c *Client) CreateParticipant(ctx context.Context, req CreateSIPParticipantRequest) (SIPParticipant, error) {
	// The SIP error detail (busy codes included) arrives embedded in err;
	// classification is the caller's concern.
	p, err := c.sip.CreateSIPParticipant(ctx, &livekit.CreateSIPParticipantRequest{
		SipTrunkId:          req.TrunkID,
		SipCallTo:           req.CallTo,
		RoomName:            req.RoomName,
		ParticipantIdentity: req.ParticipantIdentity,
		WaitUntilAnswered:   req.WaitUntilAnswered,
	})
	if err != nil {
		return SIPParticipant{}, err
	}
	return SIPParticipant{
		ID:       p.ParticipantId,
		Identity: p.ParticipantIdentity,
		RoomName: p.RoomName,
		CallID:   p.SipCallId,
	}, nil
}

func (c *Client) StartRoomComposite(ctx context.Context, req CompositeRequest) (string, error) {
	fileOut := &livekit.EncodedFileOutput{
		FileType: livekit.EncodedFileType_MP4,
		Filepath: req.Filepath,
	}
	if req.S3 != nil {
		fileOut.Output = &livekit.EncodedFileOutput_S3{
			S3: &livekit.S3Upload{
				AccessKey: req.S3.AccessKey,
				Secret:    req.S3.SecretKey,
				Bucket:    req.S3.Bucket,
				Region:    req.S3.Region,
			},
		}
	}

	info, err := c.egress.StartRoomCompositeEgress(ctx, &livekit.RoomCompositeEgressRequest{
		RoomName: req.RoomName,
		Layout:   req.Layout,
		Options: &livekit.RoomCompositeEgressRequest_Preset{
			Preset: livekit.EncodingOptionsPreset_H264_720P_30,
		},
		FileOutputs: []*livekit.EncodedFileOutput{fileOut},
	})
	if err != nil {
		return "", fmt.Errorf("start composite egress for room %q: %w", req.RoomName, err)
	}
	return info.EgressId, nil
}

func (c *Client) GetEgress(ctx context.Context, egressID string) (EgressInfo, bool, error) {
	resp, err := c.egress.ListEgress(ctx, &livekit.ListEgressRequest{EgressId: egressID})
	if err != nil {
		return EgressInfo{}, false, fmt.Errorf("list egress %q: %w", egressID, err)
	}
	if len(resp.Items) == 0 {
		return EgressInfo{}, false, nil
	}
	item := resp.Items[0]
	return EgressInfo{
		EgressID: item.EgressId,
		RoomName: item.RoomName,
		Status:   mapEgressStatus(item.Status),
		Detail:   item.Error,
	}, true, nil
}

func (c *Client) StartStream(ctx context.Context, req StreamRequest) (string, error) {
	info, err := c.egress.StartRoomCompositeEgress(ctx, &livekit.RoomCompositeEgressRequest{
		RoomName: req.RoomName,
		Layout:   req.Layout,
		StreamOutputs: []*livekit.StreamOutput{{
			Protocol: livekit.StreamProtocol_RTMP,
			Urls:     req.RTMPURLs,
		}},
	})
	if err != nil {
		return "", fmt.Errorf("start stream egress for room %q: %w", req.RoomName, err)
	}
	return info.EgressId, nil
}

func mapEgressStatus(s livekit.EgressStatus) EgressStatus {
	switch s {
	case livekit.EgressStatus_EGRESS_COMPLETE:
		return EgressStatusComplete
	case livekit.EgressStatus_EGRESS_FAILED, livekit.EgressStatus_EGRESS_ABORTED:
		return EgressStatusFailed
	case livekit.EgressStatus_EGRESS_LIMIT_REACHED:
		return EgressStatusLimitReached
	default:
		return EgressStatusActive
	}
}
