package media

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"mouselab/internal/common"
	"mouselab/internal/dbmongo"
)

// BlobOpener reads a stored object back by key.
type BlobOpener interface {
	Open(ctx context.Context, key string) (io.ReadCloser, *dbmongo.MediaFile, error)
}

// HTTPServer serves stored photos at the public URLs handed out by the object store.
type HTTPServer struct {
	storage BlobOpener
	router  *mux.Router
}

func NewHTTPServer(storage BlobOpener) *HTTPServer {
	s := &HTTPServer{storage: storage, router: mux.NewRouter()}
	s.Register(s.router)
	return s
}

// Register mounts the media routes on router. The lab service uses this to
// serve media from its own port.
func (s *HTTPServer) Register(router *mux.Router) {
	router.HandleFunc("/media/{key}", s.serveFile).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/health", s.health).Methods(http.MethodGet)
}

func (s *HTTPServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *HTTPServer) serveFile(w http.ResponseWriter, r *http.Request) {
	key := mux.Vars(r)["key"]

	fileReader, mediaFile, err := s.storage.Open(r.Context(), key)
	if errors.Is(err, dbmongo.ErrNotFound) {
		http.Error(w, "File not found", http.StatusNotFound)
		return
	}
	if err != nil {
		slog.Error("opening media failed", "key", key, "error", err)
		http.Error(w, "Failed to read file", http.StatusInternalServerError)
		return
	}
	defer fileReader.Close()

	// the uploader's declared type is never echoed back
	contentType := common.ContentTypeForKey(key)
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if contentType == "application/octet-stream" {
		w.Header().Set("Content-Disposition", "attachment")
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	if mediaFile.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(mediaFile.Size, 10))
	}
	if r.Method == http.MethodHead {
		return
	}

	if _, err := io.Copy(w, fileReader); err != nil {
		slog.Warn("streaming media interrupted", "key", key, "error", err)
	}
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("✅ Media server is healthy"))
}
