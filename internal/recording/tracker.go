package recording

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/intellemagit/VoxChain/internal/config"
	"github.com/intellemagit/VoxChain/internal/livekit"
)

var (
	// ErrStorageNotConfigured is returned before any job starts when an S3
	// target is requested without complete credentials.
	ErrStorageNotConfigured = errors.New("s3 storage not configured")

	// ErrInvalidArgument is returned for bad caller input.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrEgressFailed and ErrEgressLimitReached are the fatal terminal job
	// states; both carry the backend-provided detail.
	ErrEgressFailed       = errors.New("egress failed")
	ErrEgressLimitReached = errors.New("egress limit reached")

	// ErrPollTimeout is returned when a job does not reach a terminal
	// state within the configured wall-clock budget.
	ErrPollTimeout = errors.New("egress poll timed out")

	// ErrDownloadFailed wraps artifact retrieval failures.
	ErrDownloadFailed = errors.New("recording download failed")
)

// Tracker starts composite export jobs and follows them to a terminal
// state. Job state is owned by the backend; the tracker re-fetches it on
// every poll cycle and holds nothing between cycles.
type Tracker struct {
	egress livekit.EgressControl

	// storage and s3 are both nil when S3 credentials are not configured.
	storage ObjectStorage
	s3      *livekit.S3Target

	localDir     string
	pollInterval time.Duration
	pollTimeout  time.Duration
	log          *slog.Logger
}

func NewTracker(cfg config.Config, egress livekit.EgressControl, storage ObjectStorage, log *slog.Logger) *Tracker {
	if log == nil {
		log = slog.Default()
	}
	t := &Tracker{
		egress:       egress,
		storage:      storage,
		localDir:     cfg.Storage.LocalDir,
		pollInterval: cfg.Egress.PollInterval,
		pollTimeout:  cfg.Egress.PollTimeout,
		log:          log,
	}
	if cfg.Storage.HasS3() {
		// Upload credentials mirror the downloader's so egress artifacts
		// land where Download looks.
		t.s3 = &livekit.S3Target{
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Bucket:    cfg.Storage.Bucket,
			Region:    cfg.Storage.Region,
		}
	}
	return t
}

// StartParams describe one recording request.
type StartParams struct {
	RoomName string

	// Filename is optional; a name derived from the room plus a short
	// random suffix is generated when empty.
	Filename string

	// UploadToS3 selects the durable-storage target. When false the file
	// stays local to the egress server and there is nothing to poll for.
	UploadToS3 bool

	// WaitForCompletion blocks until the job reaches a terminal state and
	// downloads the artifact. Only meaningful with UploadToS3.
	WaitForCompletion bool
}

// Result reports where the recording went.
type Result struct {
	EgressID  string `json:"egress_id"`
	Filename  string `json:"filename"`
	LocalPath string `json:"local_path,omitempty"`
}

// StartRecording starts a room-composite export and, when asked, polls it
// to completion and materializes the artifact under the local recordings
// directory.
func (t *Tracker) StartRecording(ctx context.Context, p StartParams) (Result, error) {
	if p.RoomName == "" {
		return Result{}, fmt.Errorf("%w: room_name is required", ErrInvalidArgument)
	}
	if p.UploadToS3 && (t.s3 == nil || t.storage == nil) {
		return Result{}, ErrStorageNotConfigured
	}

	filename := p.Filename
	if filename == "" {
		filename = recordingFilename(p.RoomName)
	}

	req := livekit.CompositeRequest{
		RoomName: p.RoomName,
		Layout:   "grid",
		Filepath: filename,
	}
	if p.UploadToS3 {
		req.S3 = t.s3
	}

	egressID, err := t.egress.StartRoomComposite(ctx, req)
	if err != nil {
		return Result{}, err
	}
	t.log.Info("recording started", "room", p.RoomName, "egress_id", egressID, "file", filename, "s3", p.UploadToS3)

	res := Result{EgressID: egressID, Filename: filename}
	if !p.WaitForCompletion || !p.UploadToS3 {
		return res, nil
	}

	if err := t.awaitEgress(ctx, egressID); err != nil {
		return Result{}, err
	}

	localPath, err := t.download(ctx, filename)
	if err != nil {
		return Result{}, err
	}
	res.LocalPath = localPath
	return res, nil
}

// awaitEgress polls job status on the configured interval until a
// terminal state. Transient status-query failures are logged and retried;
// a vanished job record is treated as done with a warning.
func (t *Tracker) awaitEgress(ctx context.Context, egressID string) error {
	start := time.Now()
	for {
		info, found, err := t.egress.GetEgress(ctx, egressID)
		switch {
		case err != nil:
			t.log.Warn("egress status query failed, retrying", "egress_id", egressID, "err", err)
		case !found:
			t.log.Warn("egress record not found during polling, assuming done", "egress_id", egressID)
			return nil
		case info.Status == livekit.EgressStatusComplete:
			t.log.Info("egress complete", "egress_id", egressID)
			return nil
		case info.Status == livekit.EgressStatusFailed:
			return fmt.Errorf("%w: %s", ErrEgressFailed, info.Detail)
		case info.Status == livekit.EgressStatusLimitReached:
			return fmt.Errorf("%w: %s", ErrEgressLimitReached, info.Detail)
		}

		if t.pollTimeout > 0 && time.Since(start) >= t.pollTimeout {
			return fmt.Errorf("%w: egress %s still not terminal after %s", ErrPollTimeout, egressID, t.pollTimeout)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(t.pollInterval):
		}
	}
}

func (t *Tracker) download(ctx context.Context, filename string) (string, error) {
	if err := os.MkdirAll(t.localDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: create %s: %v", ErrDownloadFailed, t.localDir, err)
	}
	localPath := filepath.Join(t.localDir, filename)
	if err := t.storage.Download(ctx, filename, localPath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrDownloadFailed, err)
	}
	t.log.Info("recording downloaded", "path", localPath)
	return localPath, nil
}

// StartStream restreams the room composite to the given RTMP endpoints.
// Streams have no file artifact and are never polled.
func (t *Tracker) StartStream(ctx context.Context, roomName string, rtmpURLs []string) (string, error) {
	if roomName == "" {
		return "", fmt.Errorf("%w: room_name is required", ErrInvalidArgument)
	}
	if len(rtmpURLs) == 0 {
		return "", fmt.Errorf("%w: at least one rtmp url is required", ErrInvalidArgument)
	}
	egressID, err := t.egress.StartStream(ctx, livekit.StreamRequest{
		RoomName: roomName,
		Layout:   "speaker",
		RTMPURLs: rtmpURLs,
	})
	if err != nil {
		return "", err
	}
	t.log.Info("stream started", "room", roomName, "egress_id", egressID)
	return egressID, nil
}

func recordingFilename(roomName string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return roomName + "-" + suffix + ".mp4"
}
