package feed

import (
	"sort"
	"time"

	"mouselab/internal/dbmysql"
)

type EntryKind string

const (
	KindPhoto EntryKind = "photo"
	KindNote  EntryKind = "note"
)

// Entry is one item of the combined feed. Exactly one of Photo and Note is set.
type Entry struct {
	Kind  EntryKind      `json:"kind"`
	Photo *dbmysql.Photo `json:"photo,omitempty"`
	Note  *dbmysql.Note  `json:"note,omitempty"`
}

func (e Entry) CreatedAt() time.Time {
	if e.Kind == KindPhoto && e.Photo != nil {
		return e.Photo.CreatedAt
	}
	if e.Note != nil {
		return e.Note.CreatedAt
	}
	return time.Time{}
}

// Assemble merges both listings into one sequence, newest first.
// Equal timestamps keep concatenation order: photos before notes, each in the order given.
func Assemble(photos []dbmysql.Photo, notes []dbmysql.Note) []Entry {
	entries := make([]Entry, 0, len(photos)+len(notes))
	for i := range photos {
		p := photos[i]
		entries = append(entries, Entry{Kind: KindPhoto, Photo: &p})
	}
	for i := range notes {
		n := notes[i]
		entries = append(entries, Entry{Kind: KindNote, Note: &n})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].CreatedAt().After(entries[j].CreatedAt())
	})
	return entries
}
