package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/intellemagit/VoxChain/internal/calls"
	"github.com/intellemagit/VoxChain/internal/recording"
	"github.com/intellemagit/VoxChain/internal/tokens"
	"github.com/intellemagit/VoxChain/internal/transcribe"
	"github.com/intellemagit/VoxChain/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.
type Handlers struct {
	Calls       *calls.Service
	Tokens      *tokens.Issuer
	Recordings  *recording.Tracker
	Transcriber *transcribe.Transcriber
}

type startCallRequest struct {
	PhoneNumber   string `json:"phone_number"`
	PromptContent string `json:"prompt_content"`
	RoomName      string `json:"room_name,omitempty"`
	Timeout       int    `json:"timeout,omitempty"`
}

func (h Handlers) StartCall(c *gin.Context) {
	var req startCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	room, err := h.Calls.StartOutboundCall(c.Request.Context(), calls.StartCallParams{
		PhoneNumber:         req.PhoneNumber,
		PromptContent:       req.PromptContent,
		RoomName:            req.RoomName,
		EmptyTimeoutSeconds: req.Timeout,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"room_sid": room.SID,
		"name":     room.Name,
		"message":  "Call dispatched and initiated successfully. Agent is waiting for pickup.",
	})
}

type tokenRequest struct {
	RoomName        string `json:"room_name"`
	ParticipantName string `json:"participant_name"`
}

func (h Handlers) IssueToken(c *gin.Context) {
	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	token, err := h.Tokens.JoinToken(req.RoomName, req.ParticipantName)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": token})
}

func (h Handlers) EndCall(c *gin.Context) {
	roomName := c.Param("room_name")
	if err := h.Calls.EndCall(c.Request.Context(), roomName); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type startRecordingRequest struct {
	RoomName string `json:"room_name"`
	Filename string `json:"filename,omitempty"`

	// Both default to true, matching the common path: record to S3 and
	// block until the artifact is local.
	UploadToS3        *bool `json:"upload_to_s3,omitempty"`
	WaitForCompletion *bool `json:"wait_for_completion,omitempty"`
}

func (h Handlers) StartRecording(c *gin.Context) {
	var req startRecordingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	res, err := h.Recordings.StartRecording(c.Request.Context(), recording.StartParams{
		RoomName:          req.RoomName,
		Filename:          req.Filename,
		UploadToS3:        boolOrDefault(req.UploadToS3, true),
		WaitForCompletion: boolOrDefault(req.WaitForCompletion, true),
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"egress_id":  res.EgressID,
		"filename":   res.Filename,
		"local_path": res.LocalPath,
	})
}

type startStreamRequest struct {
	RoomName string   `json:"room_name"`
	RTMPURLs []string `json:"rtmp_urls"`
}

func (h Handlers) StartStream(c *gin.Context) {
	var req startStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	egressID, err := h.Recordings.StartStream(c.Request.Context(), req.RoomName, req.RTMPURLs)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "egress_id": egressID})
}

type transcribeRequest struct {
	FilePath    string `json:"file_path"`
	PostToAgent bool   `json:"post_to_agent,omitempty"`
}

func (h Handlers) Transcribe(c *gin.Context) {
	if h.Transcriber == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "transcription is not configured"})
		return
	}
	var req transcribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.FilePath == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "file_path required"})
		return
	}

	var (
		text string
		err  error
	)
	if req.PostToAgent {
		text, err = h.Transcriber.TranscribeAndPost(c.Request.Context(), req.FilePath)
	} else {
		text, err = h.Transcriber.TranscribeFile(c.Request.Context(), req.FilePath)
	}
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": text})
}

// abortWithError maps error kinds to status codes: caller mistakes,
// missing configuration and the busy outcome are client errors (matching
// the upstream contract), everything else is a server error carrying the
// message.
func abortWithError(c *gin.Context, err error) {
	logger.FromGin(c).Warn("request failed", "err", err)

	switch {
	case errors.Is(err, calls.ErrInvalidArgument),
		errors.Is(err, calls.ErrNotConfigured),
		errors.Is(err, calls.ErrRecipientBusy),
		errors.Is(err, tokens.ErrInvalidArgument),
		errors.Is(err, recording.ErrInvalidArgument),
		errors.Is(err, recording.ErrStorageNotConfigured),
		errors.Is(err, transcribe.ErrFileNotFound):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func boolOrDefault(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
