package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/intellemagit/VoxChain/internal/calls"
	"github.com/intellemagit/VoxChain/internal/config"
	"github.com/intellemagit/VoxChain/internal/livekit"
	"github.com/intellemagit/VoxChain/internal/recording"
	"github.com/intellemagit/VoxChain/internal/tokens"
)

type stubBackend struct {
	sipErr      error
	deleteCalls int
}

func (s *stubBackend) CreateRoom(ctx context.Context, req livekit.CreateRoomRequest) (livekit.Room, error) {
	return livekit.Room{SID: "RM_stub", Name: req.Name}, nil
}

func (s *stubBackend) DeleteRoom(ctx context.Context, roomName string) error {
	s.deleteCalls++
	return nil
}

func (s *stubBackend) CreateDispatch(ctx context.Context, req livekit.CreateDispatchRequest) (livekit.Dispatch, error) {
	return livekit.Dispatch{ID: "AD_stub"}, nil
}

func (s *stubBackend) CreateParticipant(ctx context.Context, req livekit.CreateSIPParticipantRequest) (livekit.SIPParticipant, error) {
	if s.sipErr != nil {
		return livekit.SIPParticipant{}, s.sipErr
	}
	return livekit.SIPParticipant{ID: "PA_stub"}, nil
}

func (s *stubBackend) StartRoomComposite(ctx context.Context, req livekit.CompositeRequest) (string, error) {
	return "EG_stub", nil
}

func (s *stubBackend) GetEgress(ctx context.Context, egressID string) (livekit.EgressInfo, bool, error) {
	return livekit.EgressInfo{EgressID: egressID, Status: livekit.EgressStatusComplete}, true, nil
}

func (s *stubBackend) StartStream(ctx context.Context, req livekit.StreamRequest) (string, error) {
	return "EG_stream_stub", nil
}

func newTestRouter(t *testing.T, backend *stubBackend) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	lkCfg := config.LiveKitConfig{
		APIKey: "key", APISecret: "secretsecretsecretsecretsecret12",
		SIPTrunkID: "ST_1", AgentName: "outbound-caller",
	}
	issuer, err := tokens.NewIssuer(lkCfg)
	if err != nil {
		t.Fatalf("issuer: %v", err)
	}

	cfg := config.Config{
		Egress: config.EgressConfig{PollInterval: time.Millisecond, PollTimeout: time.Second},
	}
	cfg.Storage.LocalDir = t.TempDir()

	h := Handlers{
		Calls:      calls.NewService(lkCfg, backend, backend, backend, nil),
		Tokens:     issuer,
		Recordings: recording.NewTracker(cfg, backend, nil, nil),
	}

	r := gin.New()
	r.POST("/api/start_call", h.StartCall)
	r.POST("/api/token", h.IssueToken)
	r.DELETE("/api/rooms/:room_name", h.EndCall)
	r.POST("/api/recordings/start", h.StartRecording)
	r.POST("/api/streams/start", h.StartStream)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestStartCall_Success(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/start_call",
		`{"phone_number":"+15551234567","prompt_content":"Be polite"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success, got %v", resp)
	}
	if resp["room_sid"] != "RM_stub" {
		t.Fatalf("expected room sid, got %v", resp["room_sid"])
	}
	name, _ := resp["name"].(string)
	if !strings.HasPrefix(name, calls.RoomNamePrefix) {
		t.Fatalf("expected generated room name, got %q", name)
	}
}

func TestStartCall_ValidationError(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/start_call", `{"prompt_content":"p"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing phone number, got %d", w.Code)
	}
}

func TestStartCall_BusyMapsToClientError(t *testing.T) {
	backend := &stubBackend{sipErr: errors.New("SIP 486 Busy Here")}
	r := newTestRouter(t, backend)

	w := doJSON(t, r, http.MethodPost, "/api/start_call",
		`{"phone_number":"+15551234567","prompt_content":"p"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for busy recipient, got %d", w.Code)
	}
	if backend.deleteCalls != 1 {
		t.Fatalf("expected compensating room delete, got %d", backend.deleteCalls)
	}
	if !strings.Contains(w.Body.String(), "busy") {
		t.Fatalf("expected busy detail in response, got %s", w.Body.String())
	}
}

func TestStartCall_TelephonyErrorMapsToServerError(t *testing.T) {
	r := newTestRouter(t, &stubBackend{sipErr: errors.New("trunk unreachable")})

	w := doJSON(t, r, http.MethodPost, "/api/start_call",
		`{"phone_number":"+15551234567","prompt_content":"p"}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 for telephony failure, got %d", w.Code)
	}
}

func TestIssueToken(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/token",
		`{"room_name":"r1","participant_name":"p1"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["token"] == "" {
		t.Fatalf("expected token in response")
	}

	w = doJSON(t, r, http.MethodPost, "/api/token", `{"room_name":"r1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing participant, got %d", w.Code)
	}
}

func TestEndCall(t *testing.T) {
	backend := &stubBackend{}
	r := newTestRouter(t, backend)

	w := doJSON(t, r, http.MethodDelete, "/api/rooms/room1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if backend.deleteCalls != 1 {
		t.Fatalf("expected one delete, got %d", backend.deleteCalls)
	}
}

func TestStartRecording_MissingStorage(t *testing.T) {
	// The test router has no S3 credentials, so an S3 recording is a
	// configuration error surfaced to the client.
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/recordings/start", `{"room_name":"r1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without storage credentials, got %d: %s", w.Code, w.Body.String())
	}
}

func TestStartRecording_LocalOnly(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/recordings/start",
		`{"room_name":"r1","upload_to_s3":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp["egress_id"] != "EG_stub" {
		t.Fatalf("expected egress id, got %v", resp)
	}
}

func TestStartStream(t *testing.T) {
	r := newTestRouter(t, &stubBackend{})

	w := doJSON(t, r, http.MethodPost, "/api/streams/start",
		`{"room_name":"r1","rtmp_urls":["rtmp://example/live"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodPost, "/api/streams/start", `{"room_name":"r1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without rtmp urls, got %d", w.Code)
	}
}
