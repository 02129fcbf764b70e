package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"
	"github.com/tendant/simple-files/pkg/filemanager"
)

// CreateFileRequest is the body of POST /files. Kind and Content have the
// legacy aliases type and data.
type CreateFileRequest struct {
	Name     string          `json:"name"`
	Kind     string          `json:"kind"`
	Type     string          `json:"type"`
	ParentID json.RawMessage `json:"parentId"`
	IsPublic bool            `json:"isPublic"`
	Content  string          `json:"content"`
	Data     string          `json:"data"`
}

// FileResponse represents a file entity. ParentID is "0" at the root.
type FileResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"userId"`
	Name           string `json:"name"`
	Kind           string `json:"kind"`
	IsPublic       bool   `json:"isPublic"`
	ParentID       string `json:"parentId"`
	ContentLocator string `json:"contentLocator,omitempty"`
}

func toFileResponse(file *filemanager.File) FileResponse {
	parentID := "0"
	if !file.IsRoot() {
		parentID = file.ParentID.String()
	}
	return FileResponse{
		ID:             file.ID.String(),
		UserID:         file.OwnerID.String(),
		Name:           file.Name,
		Kind:           string(file.Kind),
		IsPublic:       file.IsPublic,
		ParentID:       parentID,
		ContentLocator: file.ContentLocator,
	}
}

// parseParentID accepts a JSON string or number. Missing, null, "", "0", 0
// and the nil UUID all mean the root.
func parseParentID(raw json.RawMessage) (uuid.UUID, bool) {
	value := strings.TrimSpace(string(raw))
	if value == "" || value == "null" {
		return filemanager.RootID, true
	}
	if strings.HasPrefix(value, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return uuid.Nil, false
		}
		value = strings.TrimSpace(s)
	}
	return parseParentParam(value)
}

func parseParentParam(value string) (uuid.UUID, bool) {
	if value == "" || value == "0" {
		return filemanager.RootID, true
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// decodeContent returns nil for undecodable input so that the request
// fails with MissingData in its usual place.
func decodeContent(encoded string) []byte {
	if encoded == "" {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil
	}
	return data
}

func fileIDParam(r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// CreateFile creates a folder, file or image
func (h *Handler) CreateFile(w http.ResponseWriter, r *http.Request) {
	var body CreateFileRequest
	if err := render.DecodeJSON(r.Body, &body); err != nil {
		h.writeError(w, r, filemanager.ErrMissingName)
		return
	}

	kind := body.Kind
	if kind == "" {
		kind = body.Type
	}
	content := body.Content
	if content == "" {
		content = body.Data
	}

	req := filemanager.CreateFileRequest{
		Name:     body.Name,
		Kind:     filemanager.FileKind(kind),
		IsPublic: body.IsPublic,
		Content:  decodeContent(content),
	}
	parentID, ok := parseParentID(body.ParentID)
	if !ok {
		if err := req.Validate(); err != nil {
			h.writeError(w, r, err)
			return
		}
		h.writeError(w, r, filemanager.ErrParentNotFound)
		return
	}
	req.ParentID = parentID

	file, err := h.service.CreateFile(r.Context(), UserIDFromContext(r.Context()), req)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toFileResponse(file))
}

// GetFile returns one file visible to the caller
func (h *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(r)
	if !ok {
		h.writeError(w, r, filemanager.ErrNotFound)
		return
	}

	file, err := h.service.GetFile(r.Context(), UserIDFromContext(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, toFileResponse(file))
}

// ListFiles returns one page of the caller's files under parentId
func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resp := []FileResponse{}
	parentID, ok := parseParentParam(strings.TrimSpace(query.Get("parentId")))
	if !ok {
		// no entity can live under a malformed parent
		render.JSON(w, r, resp)
		return
	}
	page, err := strconv.Atoi(query.Get("page"))
	if err != nil {
		page = 0
	}

	files, err := h.service.ListFiles(r.Context(), UserIDFromContext(r.Context()), filemanager.ListFilesRequest{
		ParentID: parentID,
		Page:     page,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	for _, file := range files {
		resp = append(resp, toFileResponse(file))
	}
	render.JSON(w, r, resp)
}

// Publish makes a file readable by everyone
func (h *Handler) Publish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, true)
}

// Unpublish restricts a file to its owner
func (h *Handler) Unpublish(w http.ResponseWriter, r *http.Request) {
	h.setVisibility(w, r, false)
}

func (h *Handler) setVisibility(w http.ResponseWriter, r *http.Request, isPublic bool) {
	id, ok := fileIDParam(r)
	if !ok {
		h.writeError(w, r, filemanager.ErrNotFound)
		return
	}

	file, err := h.service.SetVisibility(r.Context(), UserIDFromContext(r.Context()), id, isPublic)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	render.JSON(w, r, toFileResponse(file))
}

// GetFileData streams the content of a file or one of its thumbnails
func (h *Handler) GetFileData(w http.ResponseWriter, r *http.Request) {
	id, ok := fileIDParam(r)
	if !ok {
		h.writeError(w, r, filemanager.ErrNotFound)
		return
	}

	width := 0
	if size := r.URL.Query().Get("size"); size != "" {
		n, err := strconv.Atoi(size)
		if err != nil {
			h.writeError(w, r, filemanager.ErrNotFound)
			return
		}
		width = n
	}

	content, err := h.service.OpenContent(r.Context(), UserIDFromContext(r.Context()), id, width)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer content.Body.Close()

	// thumbnails may be re-encoded, so only the original trusts the name
	contentType := ""
	if width == 0 {
		contentType = mime.TypeByExtension(filepath.Ext(content.File.Name))
	}
	if contentType == "" {
		contentType = content.Meta.ContentType
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.FormatInt(content.Meta.Size, 10))
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, content.Body); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write file data", "file_id", id.String(), "error", err)
	}
}
