package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	albumApp "github.com/felixgeelhaar/lumina/internal/albums/application"
	"github.com/felixgeelhaar/lumina/internal/albums/application/commands"
	"github.com/felixgeelhaar/lumina/internal/albums/application/queries"
	"github.com/felixgeelhaar/lumina/internal/shared/application/pipeline"
	"github.com/felixgeelhaar/lumina/internal/shared/application/response"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// AlbumHandler translates album HTTP requests into pipeline requests.
type AlbumHandler struct {
	dispatcher *pipeline.Dispatcher
	mapper     response.Mapper
	logger     *slog.Logger
}

// NewAlbumHandler creates a new album handler.
func NewAlbumHandler(dispatcher *pipeline.Dispatcher, mapper response.Mapper, logger *slog.Logger) *AlbumHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AlbumHandler{dispatcher: dispatcher, mapper: mapper, logger: logger}
}

type createAlbumRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type renameAlbumRequest struct {
	Name string `json:"name"`
}

type addPhotoRequest struct {
	Title    string `json:"title"`
	FileName string `json:"file_name"`
}

// CreateAlbum handles POST /api/v1/albums
func (h *AlbumHandler) CreateAlbum(w http.ResponseWriter, r *http.Request) {
	var body createAlbumRequest
	if !decodeBody(w, r, &body) {
		return
	}

	out, err := pipeline.Send[albumApp.AlbumDTO](r.Context(), h.dispatcher, commands.CreateAlbumCommand{
		OwnerID:     userID(r),
		Name:        body.Name,
		Description: body.Description,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, response.MapCreatedWith(h.mapper, out, "/api/v1/albums/"+out.Value().ID.String()))
}

// ListAlbums handles GET /api/v1/albums
func (h *AlbumHandler) ListAlbums(w http.ResponseWriter, r *http.Request) {
	out, err := pipeline.Send[[]albumApp.AlbumSummaryDTO](r.Context(), h.dispatcher, queries.ListAlbumsQuery{
		OwnerID: userID(r),
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, response.MapWith(h.mapper, out))
}

// GetAlbum handles GET /api/v1/albums/{albumID}
func (h *AlbumHandler) GetAlbum(w http.ResponseWriter, r *http.Request) {
	out, err := pipeline.Send[albumApp.AlbumDTO](r.Context(), h.dispatcher, queries.GetAlbumQuery{
		AlbumID: pathID(r, "albumID"),
		OwnerID: userID(r),
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, response.MapWith(h.mapper, out))
}

// RenameAlbum handles PATCH /api/v1/albums/{albumID}
func (h *AlbumHandler) RenameAlbum(w http.ResponseWriter, r *http.Request) {
	var body renameAlbumRequest
	if !decodeBody(w, r, &body) {
		return
	}

	res, err := pipeline.Execute(r.Context(), h.dispatcher, commands.RenameAlbumCommand{
		AlbumID: pathID(r, "albumID"),
		OwnerID: userID(r),
		Name:    body.Name,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, h.mapper.MapResult(res))
}

// DeleteAlbum handles DELETE /api/v1/albums/{albumID}
func (h *AlbumHandler) DeleteAlbum(w http.ResponseWriter, r *http.Request) {
	res, err := pipeline.Execute(r.Context(), h.dispatcher, commands.DeleteAlbumCommand{
		AlbumID: pathID(r, "albumID"),
		OwnerID: userID(r),
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, h.mapper.MapResult(res))
}

// AddPhoto handles POST /api/v1/albums/{albumID}/photos
func (h *AlbumHandler) AddPhoto(w http.ResponseWriter, r *http.Request) {
	var body addPhotoRequest
	if !decodeBody(w, r, &body) {
		return
	}

	albumID := pathID(r, "albumID")
	out, err := pipeline.Send[albumApp.PhotoDTO](r.Context(), h.dispatcher, commands.AddPhotoCommand{
		AlbumID:  albumID,
		OwnerID:  userID(r),
		Title:    body.Title,
		FileName: body.FileName,
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	location := "/api/v1/albums/" + albumID.String() + "/photos/" + out.Value().ID.String()
	response.Write(w, response.MapCreatedWith(h.mapper, out, location))
}

// RemovePhoto handles DELETE /api/v1/albums/{albumID}/photos/{photoID}
func (h *AlbumHandler) RemovePhoto(w http.ResponseWriter, r *http.Request) {
	res, err := pipeline.Execute(r.Context(), h.dispatcher, commands.RemovePhotoCommand{
		AlbumID: pathID(r, "albumID"),
		PhotoID: pathID(r, "photoID"),
		OwnerID: userID(r),
	})
	if err != nil {
		h.internalError(w, r, err)
		return
	}
	response.Write(w, h.mapper.MapResult(res))
}

// internalError hides the error from the caller. The pipeline has already
// logged it with the correlation id.
func (h *AlbumHandler) internalError(w http.ResponseWriter, r *http.Request, err error) {
	h.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

// userID reads the caller from X-User-ID. A missing or malformed header
// yields uuid.Nil, which validation rejects.
func userID(r *http.Request) uuid.UUID {
	id, err := uuid.Parse(r.Header.Get(HeaderUserID))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func pathID(r *http.Request, name string) uuid.UUID {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		return uuid.Nil
	}
	return id
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	response.Write(w, response.Response{Status: status, Body: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, response.ErrorBody{Message: message})
}
