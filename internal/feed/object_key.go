package feed

import (
	"strconv"
	"strings"
	"time"
)

// NewObjectKey names an upload "{epoch-ms}.{ext}". ext is whatever follows the
// last dot of the original filename, or the whole filename when it has none.
func NewObjectKey(now time.Time, filename string) string {
	ext := filename
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = filename[i+1:]
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "." + ext
}
