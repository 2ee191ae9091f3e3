package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/princekumarofficial/media-service/internal/events"
	"github.com/princekumarofficial/media-service/internal/http/middleware"
	"github.com/princekumarofficial/media-service/internal/metrics"
	"github.com/princekumarofficial/media-service/internal/services/upload"
	"github.com/princekumarofficial/media-service/internal/types"
	"github.com/princekumarofficial/media-service/internal/utils/response"
)

// Error bodies returned by the media endpoints.
const (
	ErrCredentialsNotFound = "Cloudinary credential not found"
	ErrFileNotFound        = "File not found"
	ErrFileTooLarge        = "File too large"
	ErrImageUploadFailed   = "upload image failed"
	ErrVideoUploadFailed   = "upload image video"
	ErrFetchVideos         = "Error fetching videos"
)

// defaultPersistTimeout bounds the metadata insert once the remote object
// exists, and separately the orphan handling that follows a failed insert.
const defaultPersistTimeout = 10 * time.Second

// Uploader sends a buffered payload to the remote media service.
type Uploader interface {
	Upload(ctx context.Context, data []byte, opts upload.Options) (*upload.Result, error)
	Destroy(ctx context.Context, publicID, resourceType string) error
}

type Recorder interface {
	Record(ctx context.Context, in types.VideoInput) (*types.Video, error)
}

type Lister interface {
	List(ctx context.Context) ([]types.Video, error)
}

// OrphanLedger keeps remote objects that never got a record.
type OrphanLedger interface {
	Push(ctx context.Context, orphan types.Orphan) error
}

// Limits controls request parsing and orphan handling.
type Limits struct {
	// MaxFileSize caps the whole request body.
	MaxFileSize int64
	// MaxMemory is the multipart memory budget; larger parts spill to disk.
	MaxMemory int64
	// CleanupOrphans destroys the remote object inline when persisting fails.
	CleanupOrphans bool
	// PersistTimeout bounds the record insert and the orphan handling after it.
	PersistTimeout time.Duration
}

// Deps groups the collaborators of MediaHandlers. Orphans, Events and
// Metrics are optional.
type Deps struct {
	Uploader              Uploader
	Recorder              Recorder
	Lister                Lister
	Orphans               OrphanLedger
	Events                events.Publisher
	Metrics               *metrics.Metrics
	CredentialsConfigured bool
	Limits                Limits
}

type MediaHandlers struct {
	deps Deps
}

func NewMediaHandlers(deps Deps) *MediaHandlers {
	if deps.Events == nil {
		deps.Events = events.Nop{}
	}
	if deps.Limits.MaxMemory <= 0 {
		deps.Limits.MaxMemory = 32 << 20
	}
	if deps.Limits.PersistTimeout <= 0 {
		deps.Limits.PersistTimeout = defaultPersistTimeout
	}
	return &MediaHandlers{deps: deps}
}

// UploadImage ingests one image.
// @Summary Upload an image
// @Description Streams the multipart "file" part to the remote media service under home/saas/images
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image file"
// @Success 200 {object} types.ImageUploadResponse "Remote public id"
// @Failure 400 {object} response.ErrorResponse "File not found"
// @Failure 401 {object} response.ErrorResponse "Unauthorised"
// @Failure 413 {object} response.ErrorResponse "File too large"
// @Failure 500 {object} response.ErrorResponse "upload image failed"
// @Failure 504 {object} response.ErrorResponse "upload image failed"
// @Security BearerAuth
// @Router /upload-image [post]
func (h *MediaHandlers) UploadImage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, middleware.Unauthorised)
			return
		}

		data, ok := h.readFile(w, r, ErrImageUploadFailed)
		if !ok {
			return
		}

		start := time.Now()
		res, err := h.deps.Uploader.Upload(r.Context(), data, upload.ImageOptions)
		if err != nil {
			h.uploadFailed(w, types.MediaImage, ErrImageUploadFailed, err, start)
			return
		}
		h.deps.Metrics.ObserveUpload(string(types.MediaImage), metrics.OutcomeOK, time.Since(start), res.Bytes)

		h.deps.Events.PublishMediaUploaded(userID, types.MediaImage, res.PublicID, "")
		response.WriteJSON(w, http.StatusOK, types.ImageUploadResponse{PublicID: res.PublicID})
	}
}

// UploadVideo ingests one video and records its metadata.
// @Summary Upload a video
// @Description Streams the multipart "file" part to the remote media service (q_auto,f_mp4) and stores a media record
// @Tags media
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Video file"
// @Param title formData string false "Title"
// @Param description formData string false "Description"
// @Param originalSize formData string false "Client reported original size"
// @Success 200 {object} types.Video "Stored media record"
// @Failure 400 {object} response.ErrorResponse "File not found"
// @Failure 401 {object} response.ErrorResponse "Unauthorised"
// @Failure 413 {object} response.ErrorResponse "File too large"
// @Failure 500 {object} response.ErrorResponse "upload image video"
// @Failure 504 {object} response.ErrorResponse "upload image video"
// @Security BearerAuth
// @Router /upload-video [post]
func (h *MediaHandlers) UploadVideo() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserIDFromContext(r.Context())
		if !ok {
			response.WriteError(w, http.StatusUnauthorized, middleware.Unauthorised)
			return
		}

		if !h.deps.CredentialsConfigured {
			response.WriteError(w, http.StatusInternalServerError, ErrCredentialsNotFound)
			return
		}

		data, ok := h.readFile(w, r, ErrVideoUploadFailed)
		if !ok {
			return
		}
		title := formField(r.MultipartForm, "title")
		description := formField(r.MultipartForm, "description")
		originalSize := formField(r.MultipartForm, "originalSize")

		start := time.Now()
		res, err := h.deps.Uploader.Upload(r.Context(), data, upload.VideoOptions)
		if err != nil {
			h.uploadFailed(w, types.MediaVideo, ErrVideoUploadFailed, err, start)
			return
		}

		ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), h.deps.Limits.PersistTimeout)
		defer cancel()

		video, err := h.deps.Recorder.Record(ctx, types.VideoInput{
			Title:        title,
			Description:  description,
			OriginalSize: originalSize,
			PublicID:     res.PublicID,
			Bytes:        res.Bytes,
			Duration:     res.Duration,
		})
		if err != nil {
			slog.Error("persist video record failed",
				slog.String("public_id", res.PublicID),
				slog.String("error", err.Error()))
			h.deps.Metrics.ObserveUpload(string(types.MediaVideo), metrics.OutcomePersistFailed, time.Since(start), 0)
			h.orphaned(r.Context(), userID, types.MediaVideo, res.PublicID, err)
			response.WriteError(w, http.StatusInternalServerError, ErrVideoUploadFailed)
			return
		}
		h.deps.Metrics.ObserveUpload(string(types.MediaVideo), metrics.OutcomeOK, time.Since(start), res.Bytes)

		h.deps.Events.PublishMediaUploaded(userID, types.MediaVideo, video.PublicID, video.ID)
		response.WriteJSON(w, http.StatusOK, video)
	}
}

// ListVideos returns every media record, newest first.
// @Summary List videos
// @Description Returns all stored media records ordered by creation time, newest first
// @Tags media
// @Produce json
// @Success 200 {array} types.Video "Media records"
// @Failure 500 {object} response.ErrorResponse "Error fetching videos"
// @Router /videos [get]
func (h *MediaHandlers) ListVideos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		videos, err := h.deps.Lister.List(r.Context())
		if err != nil {
			slog.Error("list videos failed", slog.String("error", err.Error()))
			response.WriteError(w, http.StatusInternalServerError, ErrFetchVideos)
			return
		}
		if videos == nil {
			videos = []types.Video{}
		}

		response.WriteJSON(w, http.StatusOK, videos)
	}
}

// readFile buffers the multipart "file" part. On failure it writes the
// response and returns false.
func (h *MediaHandlers) readFile(w http.ResponseWriter, r *http.Request, failure string) ([]byte, bool) {
	if h.deps.Limits.MaxFileSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.deps.Limits.MaxFileSize)
	}

	if err := r.ParseMultipartForm(h.deps.Limits.MaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WriteError(w, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
			return nil, false
		}
		response.WriteError(w, http.StatusBadRequest, ErrFileNotFound)
		return nil, false
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("file")
	if err != nil {
		response.WriteError(w, http.StatusBadRequest, ErrFileNotFound)
		return nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		slog.Error("read uploaded file failed", slog.String("error", err.Error()))
		response.WriteError(w, http.StatusInternalServerError, failure)
		return nil, false
	}

	return data, true
}

func (h *MediaHandlers) uploadFailed(w http.ResponseWriter, kind types.MediaKind, body string, err error, start time.Time) {
	status := http.StatusInternalServerError
	outcome := metrics.OutcomeRemoteError
	if errors.Is(err, upload.ErrUploadTimeout) {
		status = http.StatusGatewayTimeout
		outcome = metrics.OutcomeTimeout
	}

	slog.Error("remote upload failed",
		slog.String("kind", string(kind)),
		slog.Int("status", status),
		slog.String("error", err.Error()))
	h.deps.Metrics.ObserveUpload(string(kind), outcome, time.Since(start), 0)

	response.WriteError(w, status, body)
}

// orphaned handles a remote object left without a record: it is destroyed
// inline when enabled, otherwise (or if that fails) it goes to the ledger.
// It runs on its own deadline, since the insert deadline may already be spent.
func (h *MediaHandlers) orphaned(parent context.Context, userID string, kind types.MediaKind, publicID string, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), h.deps.Limits.PersistTimeout)
	defer cancel()

	h.deps.Metrics.Orphaned(string(kind))
	h.deps.Events.PublishMediaOrphaned(userID, kind, publicID)

	if h.deps.Limits.CleanupOrphans {
		err := h.deps.Uploader.Destroy(ctx, publicID, string(kind))
		if err == nil {
			slog.Info("orphan destroyed", slog.String("public_id", publicID))
			return
		}
		slog.Warn("orphan cleanup failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}

	if h.deps.Orphans == nil {
		slog.Warn("orphan not tracked, no ledger configured", slog.String("public_id", publicID))
		return
	}

	err := h.deps.Orphans.Push(ctx, types.Orphan{
		PublicID:     publicID,
		ResourceType: string(kind),
		UserID:       userID,
		Reason:       cause.Error(),
	})
	if err != nil {
		slog.Error("record orphan failed", slog.String("public_id", publicID), slog.String("error", err.Error()))
	}
}

func formField(form *multipart.Form, name string) string {
	if form == nil {
		return ""
	}
	if values := form.Value[name]; len(values) > 0 {
		return values[0]
	}
	return ""
}
