package uploader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// MaxSizeBytes is the upload size ceiling, 10 MiB.
const MaxSizeBytes = 10 << 20

var mimeByExt = map[string]string{
	".pdf":  "application/pdf",
	".doc":  "application/msword",
	".docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// validate checks a file against the upload rules before any network call:
// it must exist, be a PDF/DOC/DOCX, and fit under 10 MiB. On success it
// fills in the task's filename, MIME type, and size. The returned error
// names the violated rule so the user knows what to fix.
func validate(t *Task) error {
	info, err := os.Stat(t.Path)
	if err != nil {
		return fmt.Errorf("cannot read file: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", t.Path)
	}

	ext := strings.ToLower(filepath.Ext(t.Path))
	mime, ok := mimeByExt[ext]
	if !ok {
		return fmt.Errorf("unsupported file type %q: only PDF, DOC, and DOCX are accepted", ext)
	}
	if info.Size() > MaxSizeBytes {
		return fmt.Errorf("file is %s, over the 10 MiB limit", formatBytes(info.Size()))
	}
	if info.Size() == 0 {
		return fmt.Errorf("file is empty")
	}

	t.Filename = filepath.Base(t.Path)
	t.MimeType = mime
	t.SizeBytes = info.Size()
	return nil
}

func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
