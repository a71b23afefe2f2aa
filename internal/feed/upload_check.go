package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"mouselab/internal/common"
)

const sniffLen = 512

// sniffImage lets only images through, judged by their leading bytes rather
// than the declared part header. The sniffed bytes are put back in front of
// upload.Content, and upload.ContentType is replaced by the detected type.
func sniffImage(upload *Upload) error {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(upload.Content, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("reading upload: %w", err)
	}
	head = head[:n]
	upload.Content = io.MultiReader(bytes.NewReader(head), upload.Content)

	detected := http.DetectContentType(head)
	if strings.HasPrefix(detected, "image/") {
		upload.ContentType = detected
		return nil
	}

	// HEIC is unknown to the sniffer; trust the declared type only when the
	// extension agrees, since the media server serves by extension.
	if detected == "application/octet-stream" &&
		strings.HasPrefix(strings.ToLower(upload.ContentType), "image/") &&
		strings.HasPrefix(common.ContentTypeForKey(upload.Filename), "image/") {
		return nil
	}
	return fmt.Errorf("%w: got %s", ErrUnsupportedMedia, detected)
}
