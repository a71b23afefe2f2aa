package feed

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mouselab/internal/dbmysql"
)

var base = time.Date(2023, 11, 14, 22, 13, 20, 0, time.UTC)

func at(sec int) time.Time {
	return base.Add(time.Duration(sec) * time.Second)
}

func TestAssemble_SortedDescendingAndComplete(t *testing.T) {
	photos := []dbmysql.Photo{
		{ID: 3, ImageURL: "c", CreatedAt: at(50)},
		{ID: 2, ImageURL: "b", CreatedAt: at(30)},
		{ID: 1, ImageURL: "a", CreatedAt: at(10)},
	}
	notes := []dbmysql.Note{
		{ID: 2, Title: "second", CreatedAt: at(40)},
		{ID: 1, Title: "first", CreatedAt: at(20)},
	}

	entries := Assemble(photos, notes)

	require.Len(t, entries, len(photos)+len(notes))
	for i := 1; i < len(entries); i++ {
		assert.False(t, entries[i].CreatedAt().After(entries[i-1].CreatedAt()),
			"entry %d is newer than entry %d", i, i-1)
	}

	kinds := make([]EntryKind, 0, len(entries))
	for _, e := range entries {
		kinds = append(kinds, e.Kind)
	}
	assert.Equal(t, []EntryKind{KindPhoto, KindNote, KindPhoto, KindNote, KindPhoto}, kinds)
	assert.Equal(t, "c", entries[0].Photo.ImageURL)
	assert.Equal(t, "second", entries[1].Note.Title)
	assert.Nil(t, entries[0].Note)
	assert.Nil(t, entries[1].Photo)
}

func TestAssemble_TieKeepsPhotosBeforeNotes(t *testing.T) {
	photos := []dbmysql.Photo{{ID: 1, CreatedAt: at(5)}, {ID: 2, CreatedAt: at(5)}}
	notes := []dbmysql.Note{{ID: 7, CreatedAt: at(5)}}

	entries := Assemble(photos, notes)

	require.Len(t, entries, 3)
	assert.Equal(t, int64(1), entries[0].Photo.ID)
	assert.Equal(t, int64(2), entries[1].Photo.ID)
	assert.Equal(t, int64(7), entries[2].Note.ID)
}

func TestAssemble_Empty(t *testing.T) {
	entries := Assemble(nil, nil)
	assert.NotNil(t, entries)
	assert.Empty(t, entries)
}

func TestAssemble_DoesNotAliasInputs(t *testing.T) {
	photos := []dbmysql.Photo{{ID: 1, ImageURL: "a", CreatedAt: at(1)}}

	entries := Assemble(photos, nil)
	photos[0].ImageURL = "changed"

	assert.Equal(t, "a", entries[0].Photo.ImageURL)
}

func TestAssemble_Deterministic(t *testing.T) {
	photos := []dbmysql.Photo{{ID: 1, CreatedAt: at(3)}, {ID: 2, CreatedAt: at(1)}}
	notes := []dbmysql.Note{{ID: 1, CreatedAt: at(3)}, {ID: 2, CreatedAt: at(2)}}

	assert.Equal(t, Assemble(photos, notes), Assemble(photos, notes))
}

func TestNewObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000000)

	tests := map[string]string{
		"cat.png":        "1700000000000.png",
		"holiday.tar.gz": "1700000000000.gz",
		"IMG_0001.JPG":   "1700000000000.JPG",
		"noextension":    "1700000000000.noextension",
		".hidden":        "1700000000000.hidden",
		"trailing.":      "1700000000000.",
	}
	for filename, want := range tests {
		assert.Equal(t, want, NewObjectKey(now, filename), "filename %q", filename)
	}
}
