package dbmongo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"mouselab/internal/common"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned by Open when no blob is stored under the key.
var ErrNotFound = errors.New("media file not found")

// ErrKeyExists is returned by Store when key already holds a blob. Keys are
// never overwritten.
var ErrKeyExists = errors.New("media key already exists")

// bucket is the subset of *gridfs.Bucket used by MediaStorage
type bucket interface {
	UploadFromStream(filename string, source io.Reader, opts ...*options.UploadOptions) (primitive.ObjectID, error)
	OpenDownloadStreamByName(filename string, opts ...*options.NameOptions) (*gridfs.DownloadStream, error)
	Find(filter interface{}, opts ...*options.GridFSFindOptions) (*mongo.Cursor, error)
}

// MediaStorage keeps blobs in GridFS, using the storage key as the GridFS filename.
// Each key is written at most once.
type MediaStorage struct {
	gridFS  bucket
	baseURL string
	now     func() time.Time

	mu      sync.Mutex
	pending map[string]struct{}
}

func NewMediaStorage(mongoClient *MongoClient, baseURL string) *MediaStorage {
	return newMediaStorage(mongoClient.GridFS, baseURL)
}

func newMediaStorage(b bucket, baseURL string) *MediaStorage {
	return &MediaStorage{
		gridFS:  b,
		baseURL: baseURL,
		now:     time.Now,
		pending: make(map[string]struct{}),
	}
}

type MediaFile struct {
	ID         string               `json:"id"`          // GridFS ObjectID
	Key        string               `json:"key"`         // storage key, also the GridFS filename
	Size       int64                `json:"size"`        // File size in bytes
	FileType   common.MediaFileType `json:"file_type"`   // image or video
	MimeType   string               `json:"mime_type"`   // as sent by the uploader
	UploadedBy string               `json:"uploaded_by"` // author label of the uploader
	UploadedAt time.Time            `json:"uploaded_at"`
}

// Store writes content under key. The GridFS driver in use takes no context,
// so cancellation is checked only before the write starts.
func (ms *MediaStorage) Store(ctx context.Context, key, mimeType, uploadedBy string, content io.Reader) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if !ms.reserve(key) {
		return fmt.Errorf("%w: %s", ErrKeyExists, key)
	}
	defer ms.release(key)

	exists, err := ms.exists(ctx, key)
	if err != nil {
		return fmt.Errorf("lookup %s failed: %w", key, err)
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrKeyExists, key)
	}

	metadata := bson.M{
		"file_type":   common.DetectFileType(mimeType).String(),
		"mime_type":   mimeType,
		"uploaded_by": uploadedBy,
		"uploaded_at": ms.now(),
	}

	opts := options.GridFSUpload().SetMetadata(metadata)
	if _, err := ms.gridFS.UploadFromStream(key, content, opts); err != nil {
		return fmt.Errorf("upload %s failed: %w", key, err)
	}
	return nil
}

// reserve claims key for one in-process writer. The lookup in exists only
// sees finished uploads.
func (ms *MediaStorage) reserve(key string) bool {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if _, busy := ms.pending[key]; busy {
		return false
	}
	ms.pending[key] = struct{}{}
	return true
}

func (ms *MediaStorage) release(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.pending, key)
}

func (ms *MediaStorage) exists(ctx context.Context, key string) (bool, error) {
	cursor, err := ms.gridFS.Find(bson.M{"filename": key}, options.GridFSFind().SetLimit(1))
	if err != nil {
		return false, err
	}
	defer cursor.Close(ctx)

	found := cursor.Next(ctx)
	return found, cursor.Err()
}

// PublicURL is where the media server resolves key.
func (ms *MediaStorage) PublicURL(key string) string {
	return ms.baseURL + key
}

// Open streams the newest revision stored under key. The caller closes the reader.
func (ms *MediaStorage) Open(ctx context.Context, key string) (io.ReadCloser, *MediaFile, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	stream, err := ms.gridFS.OpenDownloadStreamByName(key)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("download %s failed: %w", key, err)
	}

	fileInfo := stream.GetFile()
	metadata := decodeMetadata(key, fileInfo.Metadata)

	mediaFile := &MediaFile{
		Key:        key,
		Size:       fileInfo.Length,
		FileType:   common.MediaFileType(getStringFromMap(metadata, "file_type")),
		MimeType:   getStringFromMap(metadata, "mime_type"),
		UploadedBy: getStringFromMap(metadata, "uploaded_by"),
		UploadedAt: fileInfo.UploadDate,
	}
	if oid, ok := fileInfo.ID.(primitive.ObjectID); ok {
		mediaFile.ID = oid.Hex()
	}

	return stream, mediaFile, nil
}

// decodeMetadata returns nil for missing or unreadable metadata; the blob itself
// is still served.
func decodeMetadata(key string, raw bson.Raw) bson.M {
	if raw == nil {
		return nil
	}
	var metadata bson.M
	if err := bson.Unmarshal(raw, &metadata); err != nil {
		slog.Warn("unreadable media metadata", "key", key, "error", err)
		return nil
	}
	return metadata
}

// Helper function for metadata extraction
func getStringFromMap(m bson.M, key string) string {
	if m == nil {
		return ""
	}
	if val, ok := m[key]; ok {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}
