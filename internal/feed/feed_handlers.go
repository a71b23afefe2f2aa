package feed

import (
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"mouselab/internal/common"

	"github.com/gorilla/mux"
)

// maxJSONBody caps the session and note request bodies.
const maxJSONBody = 64 << 10

type FeedHandlers struct {
	FeedSvc        FeedUsecase
	Issuer         *common.TokenIssuer
	CookieName     string
	MaxUploadBytes int64
}

func NewFeedHandlers(svc FeedUsecase, issuer *common.TokenIssuer, cookieName string, maxUploadBytes int64) *FeedHandlers {
	return &FeedHandlers{
		FeedSvc:        svc,
		Issuer:         issuer,
		CookieName:     cookieName,
		MaxUploadBytes: maxUploadBytes,
	}
}

// RegisterRoutes mounts the API under router, which should already be the /api/v1 subrouter.
func (h *FeedHandlers) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/session", h.EnterLab).Methods(http.MethodPost)
	router.HandleFunc("/session", h.WhoAmI).Methods(http.MethodGet)

	router.HandleFunc("/photos", h.ListPhotos).Methods(http.MethodGet)
	router.HandleFunc("/photos", h.UploadPhoto).Methods(http.MethodPost)
	router.HandleFunc("/notes", h.ListNotes).Methods(http.MethodGet)
	router.HandleFunc("/notes", h.SaveNote).Methods(http.MethodPost)
	router.HandleFunc("/posts", h.CreatePost).Methods(http.MethodPost)
	router.HandleFunc("/snaps", h.Snap).Methods(http.MethodPost)
	router.HandleFunc("/feed", h.GetFeed).Methods(http.MethodGet)
	router.HandleFunc("/uploads/state", h.UploadState).Methods(http.MethodGet)
}

// --------- SESSION ---------

type enterLabRequest struct {
	LabID string `json:"lab_id"`
}

type sessionResponse struct {
	LabID     string    `json:"lab_id"`
	Anonymous bool      `json:"anonymous"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

func (h *FeedHandlers) EnterLab(w http.ResponseWriter, r *http.Request) {
	var req enterLabRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	labID, err := common.NormalizeLabID(req.LabID)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.Issuer.GenerateToken(labID)
	if err != nil {
		slog.Error("issuing session token failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to start session")
		return
	}

	expires := time.Now().Add(h.Issuer.TTL())
	http.SetCookie(w, &http.Cookie{
		Name:     h.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	writeJSON(w, http.StatusOK, sessionResponse{
		LabID:     labID,
		Token:     token,
		ExpiresAt: expires,
	})
}

func (h *FeedHandlers) WhoAmI(w http.ResponseWriter, r *http.Request) {
	session := common.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{
		LabID:     session.Author(),
		Anonymous: session.IsAnonymous(),
	})
}

// --------- LISTINGS ---------

func (h *FeedHandlers) ListPhotos(w http.ResponseWriter, r *http.Request) {
	photos, err := h.FeedSvc.ListPhotos(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"photos": photos})
}

func (h *FeedHandlers) ListNotes(w http.ResponseWriter, r *http.Request) {
	notes, err := h.FeedSvc.ListNotes(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"notes": notes})
}

func (h *FeedHandlers) GetFeed(w http.ResponseWriter, r *http.Request) {
	entries, err := h.FeedSvc.Feed(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func (h *FeedHandlers) UploadState(w http.ResponseWriter, r *http.Request) {
	session := common.SessionFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"lab_id": session.Author(),
		"state":  h.FeedSvc.UploadState(session),
	})
}

// --------- WRITES ---------

func (h *FeedHandlers) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, ok := h.requireUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	session := common.SessionFromContext(r.Context())
	created, photos, err := h.FeedSvc.UploadPhoto(r.Context(), session, *upload)
	writeMutation(w, "photos", created, photos, err)
}

func (h *FeedHandlers) Snap(w http.ResponseWriter, r *http.Request) {
	upload, closeFile, ok := h.requireUpload(w, r)
	if !ok {
		return
	}
	defer closeFile()

	session := common.SessionFromContext(r.Context())
	created, notes, err := h.FeedSvc.Snap(r.Context(), session, *upload)
	writeMutation(w, "notes", created, notes, err)
}

func (h *FeedHandlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	if !h.parseMultipart(w, r) {
		return
	}

	upload, closeFile, err := formUpload(r)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		writeError(w, http.StatusBadRequest, "invalid file field")
		return
	}
	defer closeFile()

	session := common.SessionFromContext(r.Context())
	created, notes, err := h.FeedSvc.CreatePost(r.Context(), session,
		r.FormValue("title"), r.FormValue("content"), upload)
	writeMutation(w, "notes", created, notes, err)
}

type saveNoteRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

func (h *FeedHandlers) SaveNote(w http.ResponseWriter, r *http.Request) {
	var req saveNoteRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session := common.SessionFromContext(r.Context())
	created, notes, err := h.FeedSvc.SaveNote(r.Context(), session, req.Title, req.Content)
	writeMutation(w, "notes", created, notes, err)
}

// --------- HELPERS ---------

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}

func (h *FeedHandlers) parseMultipart(w http.ResponseWriter, r *http.Request) bool {
	r.Body = http.MaxBytesReader(w, r.Body, h.MaxUploadBytes)
	if err := r.ParseMultipartForm(h.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file too large")
			return false
		}
		writeError(w, http.StatusBadRequest, "expected multipart/form-data")
		return false
	}
	return true
}

func (h *FeedHandlers) requireUpload(w http.ResponseWriter, r *http.Request) (*Upload, func(), bool) {
	if !h.parseMultipart(w, r) {
		return nil, nil, false
	}
	upload, closeFile, err := formUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required")
		return nil, nil, false
	}
	return upload, closeFile, true
}

// formUpload returns the "file" field of a parsed multipart form. The returned
// close func is always safe to call.
func formUpload(r *http.Request) (*Upload, func(), error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, func() {}, err
	}
	return uploadFromPart(file, header), func() { file.Close() }, nil
}

func uploadFromPart(file multipart.File, header *multipart.FileHeader) *Upload {
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return &Upload{
		Filename:    header.Filename,
		ContentType: contentType,
		Content:     file,
	}
}

func writeMutation[T any](w http.ResponseWriter, collection string, created *T, listing []T, err error) {
	if err != nil && created != nil && errors.Is(err, ErrRecordList) {
		// saved, but the refreshed listing is unavailable
		writeJSON(w, http.StatusCreated, map[string]interface{}{
			"created":       created,
			"refresh_error": err.Error(),
		})
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"created":  created,
		collection: listing,
	})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrEmptyEntry), errors.Is(err, ErrUnsupportedMedia):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, ErrBusy):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrStorageWrite):
		writeError(w, http.StatusBadGateway, "Upload failed: "+err.Error())
	case errors.Is(err, ErrRecordInsert):
		writeError(w, http.StatusBadGateway, "Save failed: "+err.Error())
	case errors.Is(err, ErrRecordList):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		slog.Error("unexpected service error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
