package feed

import "errors"

var (
	// ErrStorageWrite means the blob upload failed; no record was inserted.
	ErrStorageWrite = errors.New("storage write failed")
	// ErrRecordInsert means the row insert failed. A blob uploaded for it stays in storage.
	ErrRecordInsert = errors.New("record insert failed")
	// ErrRecordList means a listing could not be fetched. An empty collection is not an error.
	ErrRecordList = errors.New("record list failed")

	ErrBusy       = errors.New("an upload is already in progress for this lab id")
	ErrEmptyEntry = errors.New("title, content or photo required")
	// ErrUnsupportedMedia means the uploaded bytes are not an image.
	ErrUnsupportedMedia = errors.New("only image uploads are accepted")
)
