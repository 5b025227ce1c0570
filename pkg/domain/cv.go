package domain

import "time"

// CV statuses as reported by the server.
const (
	CVStatusUploaded = "uploaded"
	CVStatusParsed   = "parsed"
)

// CV is a server-owned CV record. The client only ever reads these back;
// it never constructs one except as the echo of a confirmed upload.
type CV struct {
	ID         int       `json:"id"`
	UserID     int       `json:"user_id"`
	RoleID     *int      `json:"role_id,omitempty"`
	Filename   string    `json:"filename"`
	MimeType   string    `json:"mime_type"`
	SizeBytes  int64     `json:"size_bytes"`
	StorageURL string    `json:"storage_url"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// CVList is a paginated CV listing.
type CVList struct {
	CVs   []CV `json:"cvs"`
	Total int  `json:"total"`
}

// CVDownload is a short-lived presigned download link for a stored CV.
type CVDownload struct {
	DownloadURL string `json:"download_url"`
	ExpiresIn   int    `json:"expires_in"`
}
