package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"mouselab/internal/common"
	"mouselab/internal/dbmongo"
	"mouselab/internal/dbmysql"
)

const (
	untitledNote = "Untitled"
	snapTitle    = "Photo"

	// keys tried per upload when the current millisecond is already taken
	maxKeyAttempts = 5
)

// ObjectStore keeps uploaded blobs and resolves them to public URLs. Store
// refuses a key that is already taken with dbmongo.ErrKeyExists, before
// reading content.
type ObjectStore interface {
	Store(ctx context.Context, key, mimeType, uploadedBy string, content io.Reader) error
	PublicURL(key string) string
}

// Upload is a file picked by the user.
type Upload struct {
	Filename    string
	ContentType string
	Content     io.Reader
}

// FeedUsecase is what the HTTP layer needs from the feed service.
type FeedUsecase interface {
	ListPhotos(ctx context.Context) ([]dbmysql.Photo, error)
	ListNotes(ctx context.Context) ([]dbmysql.Note, error)
	Feed(ctx context.Context) ([]Entry, error)

	UploadPhoto(ctx context.Context, session common.Session, upload Upload) (*dbmysql.Photo, []dbmysql.Photo, error)
	Snap(ctx context.Context, session common.Session, upload Upload) (*dbmysql.Note, []dbmysql.Note, error)
	CreatePost(ctx context.Context, session common.Session, title, content string, upload *Upload) (*dbmysql.Note, []dbmysql.Note, error)
	SaveNote(ctx context.Context, session common.Session, title, content string) (*dbmysql.Note, []dbmysql.Note, error)

	UploadState(session common.Session) State
}

type FeedService struct {
	records  Records
	objects  ObjectStore
	workflow *Workflow
	logger   *slog.Logger
	now      func() time.Time
}

func NewFeedService(records Records, objects ObjectStore, workflow *Workflow, logger *slog.Logger) *FeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FeedService{
		records:  records,
		objects:  objects,
		workflow: workflow,
		logger:   logger,
		now:      time.Now,
	}
}

// --------- LISTINGS ---------

func (s *FeedService) ListPhotos(ctx context.Context) ([]dbmysql.Photo, error) {
	photos, err := s.records.ListPhotos(ctx)
	if err != nil {
		s.logger.Error("listing photos failed", "error", err)
		return nil, fmt.Errorf("%w: photos: %w", ErrRecordList, err)
	}
	if photos == nil {
		photos = []dbmysql.Photo{}
	}
	return photos, nil
}

func (s *FeedService) ListNotes(ctx context.Context) ([]dbmysql.Note, error) {
	notes, err := s.records.ListNotes(ctx)
	if err != nil {
		s.logger.Error("listing notes failed", "error", err)
		return nil, fmt.Errorf("%w: notes: %w", ErrRecordList, err)
	}
	if notes == nil {
		notes = []dbmysql.Note{}
	}
	return notes, nil
}

// Feed lists both collections and merges them. A failure of either listing fails the feed.
func (s *FeedService) Feed(ctx context.Context) ([]Entry, error) {
	photos, err := s.ListPhotos(ctx)
	if err != nil {
		return nil, err
	}
	notes, err := s.ListNotes(ctx)
	if err != nil {
		return nil, err
	}
	return Assemble(photos, notes), nil
}

func (s *FeedService) UploadState(session common.Session) State {
	return s.workflow.State(workflowKey(session))
}

// --------- WRITES ---------

// UploadPhoto stores the file and records it in photos.
func (s *FeedService) UploadPhoto(ctx context.Context, session common.Session, upload Upload) (*dbmysql.Photo, []dbmysql.Photo, error) {
	return uploadThenRecord(ctx, s, session, &upload, mutation[dbmysql.Photo]{
		collection: "photos",
		build: func(author string, imageURL *string) *dbmysql.Photo {
			return &dbmysql.Photo{ImageURL: *imageURL, Author: author}
		},
		insert: s.records.CreatePhoto,
		list:   s.ListPhotos,
	})
}

// Snap stores a camera photo as a note titled "Photo" with no content.
func (s *FeedService) Snap(ctx context.Context, session common.Session, upload Upload) (*dbmysql.Note, []dbmysql.Note, error) {
	return uploadThenRecord(ctx, s, session, &upload, mutation[dbmysql.Note]{
		collection: "notes",
		build: func(author string, imageURL *string) *dbmysql.Note {
			return &dbmysql.Note{Title: snapTitle, Content: "", Author: author, ImageURL: imageURL}
		},
		insert: s.records.CreateNote,
		list:   s.ListNotes,
	})
}

// CreatePost records a note with an optional photo.
func (s *FeedService) CreatePost(ctx context.Context, session common.Session, title, content string, upload *Upload) (*dbmysql.Note, []dbmysql.Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" && content == "" && upload == nil {
		return nil, nil, ErrEmptyEntry
	}
	return uploadThenRecord(ctx, s, session, upload, noteMutation(s, title, content))
}

// SaveNote records a text-only note.
func (s *FeedService) SaveNote(ctx context.Context, session common.Session, title, content string) (*dbmysql.Note, []dbmysql.Note, error) {
	title, content = strings.TrimSpace(title), strings.TrimSpace(content)
	if title == "" && content == "" {
		return nil, nil, ErrEmptyEntry
	}
	return uploadThenRecord(ctx, s, session, nil, noteMutation(s, title, content))
}

func noteMutation(s *FeedService, title, content string) mutation[dbmysql.Note] {
	if title == "" {
		title = untitledNote
	}
	return mutation[dbmysql.Note]{
		collection: "notes",
		build: func(author string, imageURL *string) *dbmysql.Note {
			return &dbmysql.Note{Title: title, Content: content, Author: author, ImageURL: imageURL}
		},
		insert: s.records.CreateNote,
		list:   s.ListNotes,
	}
}

// mutation describes one write into a collection: how to map the author and
// optional image URL onto a record, how to insert it, and how to list the
// collection afterwards.
type mutation[T any] struct {
	collection string
	build      func(author string, imageURL *string) *T
	insert     func(ctx context.Context, record *T) error
	list       func(ctx context.Context) ([]T, error)
}

// uploadThenRecord runs idle -> uploading -> inserting -> idle (or failed).
// A storage failure stops before the insert. An insert failure leaves the
// uploaded blob in place. After a successful insert the collection is listed
// again and returned whole; if only that listing fails, the created record is
// still returned alongside an ErrRecordList error.
func uploadThenRecord[T any](ctx context.Context, s *FeedService, session common.Session, upload *Upload, m mutation[T]) (*T, []T, error) {
	key := workflowKey(session)
	author := session.Author()

	if upload != nil {
		if err := sniffImage(upload); err != nil {
			return nil, nil, err
		}
	}

	if err := s.workflow.Begin(key, upload != nil); err != nil {
		return nil, nil, err
	}

	var imageURL *string
	if upload != nil {
		objectKey, err := s.storeUpload(ctx, author, upload)
		if err != nil {
			s.workflow.Advance(key, StateFailed)
			s.logger.Error("storage write failed",
				"collection", m.collection, "key", objectKey, "author", author, "error", err)
			return nil, nil, fmt.Errorf("%w: %w", ErrStorageWrite, err)
		}
		url := s.objects.PublicURL(objectKey)
		imageURL = &url
		s.workflow.Advance(key, StateInserting)
	}

	record := m.build(author, imageURL)
	if err := m.insert(ctx, record); err != nil {
		s.workflow.Advance(key, StateFailed)
		attrs := []any{"collection", m.collection, "author", author, "error", err}
		if imageURL != nil {
			attrs = append(attrs, "orphaned_url", *imageURL)
		}
		s.logger.Error("record insert failed", attrs...)
		return nil, nil, fmt.Errorf("%w: %w", ErrRecordInsert, err)
	}
	s.workflow.Advance(key, StateIdle)

	listing, err := m.list(ctx)
	if err != nil {
		return record, nil, err
	}
	return record, listing, nil
}

// storeUpload writes upload under a fresh "{epoch-ms}.{ext}" key. When the
// key is taken it moves on to the next millisecond, so two uploads never share
// a key. The returned key is the last one tried.
func (s *FeedService) storeUpload(ctx context.Context, author string, upload *Upload) (string, error) {
	now := s.now()
	var objectKey string
	var err error
	for attempt := 0; attempt < maxKeyAttempts; attempt++ {
		objectKey = NewObjectKey(now.Add(time.Duration(attempt)*time.Millisecond), upload.Filename)
		err = s.objects.Store(ctx, objectKey, upload.ContentType, author, upload.Content)
		if !errors.Is(err, dbmongo.ErrKeyExists) {
			return objectKey, err
		}
	}
	return objectKey, err
}

func workflowKey(session common.Session) string {
	if session.IsAnonymous() {
		return ""
	}
	return session.Author()
}
