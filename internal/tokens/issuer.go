package tokens

import (
	"errors"
	"fmt"

	"github.com/livekit/protocol/auth"

	"github.com/intellemagit/VoxChain/internal/config"
)

// ErrInvalidArgument is returned for empty room or participant names.
var ErrInvalidArgument = errors.New("invalid argument")

// Issuer mints signed join tokens. Pure function over the signing key and
// inputs; no remote calls, no state.
type Issuer struct {
	apiKey    string
	apiSecret string
}

func NewIssuer(cfg config.LiveKitConfig) (*Issuer, error) {
	if cfg.APIKey == "" || cfg.APISecret == "" {
		return nil, errors.New("tokens: api key and secret are required")
	}
	return &Issuer{apiKey: cfg.APIKey, apiSecret: cfg.APISecret}, nil
}

// JoinToken grants exactly one capability: join roomName as
// participantName. Validity is the signing library's default window;
// there is no renewal model.
func (i *Issuer) JoinToken(roomName, participantName string) (string, error) {
	if roomName == "" {
		return "", fmt.Errorf("%w: room_name is required", ErrInvalidArgument)
	}
	if participantName == "" {
		return "", fmt.Errorf("%w: participant_name is required", ErrInvalidArgument)
	}

	at := auth.NewAccessToken(i.apiKey, i.apiSecret)
	at.SetIdentity(participantName).
		SetName(participantName).
		SetVideoGrant(&auth.VideoGrant{
			RoomJoin: true,
			Room:     roomName,
		})
	return at.ToJWT()
}
