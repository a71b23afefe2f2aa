package feed

import (
	"context"
	"time"

	"mouselab/internal/dbmysql"

	"gorm.io/gorm"
)

// Records is the record store for the photos and notes collections.
type Records interface {
	ListPhotos(ctx context.Context) ([]dbmysql.Photo, error)
	ListNotes(ctx context.Context) ([]dbmysql.Note, error)
	CreatePhoto(ctx context.Context, photo *dbmysql.Photo) error
	CreateNote(ctx context.Context, note *dbmysql.Note) error
}

type FeedRepository struct {
	db *gorm.DB
}

func NewFeedRepository(db *gorm.DB) *FeedRepository {
	return &FeedRepository{db: db}
}

// --------- PHOTOS ---------

func (r *FeedRepository) ListPhotos(ctx context.Context) ([]dbmysql.Photo, error) {
	photos := []dbmysql.Photo{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&photos).Error
	return photos, err
}

// CreatePhoto inserts photo; the store fills in ID and CreatedAt.
func (r *FeedRepository) CreatePhoto(ctx context.Context, photo *dbmysql.Photo) error {
	photo.ID = 0
	photo.CreatedAt = time.Time{}
	return r.db.WithContext(ctx).Create(photo).Error
}

// --------- NOTES ---------

func (r *FeedRepository) ListNotes(ctx context.Context) ([]dbmysql.Note, error) {
	notes := []dbmysql.Note{}
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// CreateNote inserts note; the store fills in ID and CreatedAt.
func (r *FeedRepository) CreateNote(ctx context.Context, note *dbmysql.Note) error {
	note.ID = 0
	note.CreatedAt = time.Time{}
	return r.db.WithContext(ctx).Create(note).Error
}
