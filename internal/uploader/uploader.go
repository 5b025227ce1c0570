package uploader

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/interviewpro/cli/pkg/client"
)

// Uploader runs CV uploads through the three-step saga: presign with the
// API, PUT the bytes to storage, confirm with the API. Tasks in a batch run
// concurrently up to a limit, and each one fails alone: a bad file never
// blocks its neighbors.
type Uploader struct {
	api         *client.Client
	storage     *http.Client
	concurrency int
	onUpdate    func(Task)
}

// Option configures an Uploader.
type Option func(*Uploader)

// WithConcurrency caps how many uploads run at once. Values below 1 are
// treated as 1.
func WithConcurrency(n int) Option {
	return func(u *Uploader) {
		if n < 1 {
			n = 1
		}
		u.concurrency = n
	}
}

// WithStorageClient replaces the HTTP client used for the raw byte
// transfer. The presigned URL points at the storage host, not the API, so
// this client is separate from the API client.
func WithStorageClient(hc *http.Client) Option {
	return func(u *Uploader) { u.storage = hc }
}

// WithOnUpdate registers a callback fired with a snapshot of the task after
// every status change. The TUI uses it to repaint the upload queue.
func WithOnUpdate(fn func(Task)) Option {
	return func(u *Uploader) { u.onUpdate = fn }
}

// New builds an Uploader on top of the API client.
func New(api *client.Client, opts ...Option) *Uploader {
	u := &Uploader{
		api:         api,
		storage:     &http.Client{Timeout: 2 * time.Minute},
		concurrency: 3,
	}
	for _, o := range opts {
		o(u)
	}
	return u
}

// Upload pushes the given files through the saga and returns one task per
// file, in input order. Every file gets a task even when validation rejects
// it immediately; rejected files never touch the network. The returned
// tasks are final snapshots; progress arrives through the OnUpdate
// callback.
func (u *Uploader) Upload(ctx context.Context, paths []string, roleID *int) []Task {
	tasks := make([]*Task, len(paths))
	for i, p := range paths {
		tasks[i] = newTask(p, roleID)
		u.notify(tasks[i])
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(u.concurrency)
	for _, t := range tasks {
		t := t
		g.Go(func() error {
			u.run(ctx, t)
			// Task failures stay on the task; returning an error here
			// would cancel the siblings.
			return nil
		})
	}
	g.Wait() //nolint:errcheck // goroutines never return errors

	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = *t
	}
	return out
}

func (u *Uploader) run(ctx context.Context, t *Task) {
	if err := validate(t); err != nil {
		u.fail(t, err)
		return
	}
	if err := ctx.Err(); err != nil {
		u.fail(t, err)
		return
	}

	presigned, err := u.api.PresignCV(ctx, client.PresignCVRequest{
		Filename: t.Filename,
		MimeType: t.MimeType,
		RoleID:   t.RoleID,
	})
	if err != nil {
		u.fail(t, fmt.Errorf("presign: %w", err))
		return
	}

	t.Status = StatusTransferring
	u.notify(t)

	if err := u.transfer(ctx, t, presigned.URL); err != nil {
		u.fail(t, fmt.Errorf("transfer: %w", err))
		return
	}

	cv, err := u.api.ConfirmCV(ctx, client.ConfirmCVRequest{
		Filename:        t.Filename,
		StorageFilename: presigned.Fields.Filename,
		RoleID:          t.RoleID,
		SizeBytes:       t.SizeBytes,
	})
	if err != nil {
		u.fail(t, fmt.Errorf("confirm: %w", err))
		return
	}

	t.CV = cv
	t.Status = StatusConfirmed
	u.notify(t)
	slog.Debug("cv upload confirmed", "file", t.Filename, "cv_id", cv.ID)
}

// transfer PUTs the file bytes to the presigned storage URL.
func (u *Uploader) transfer(ctx context.Context, t *Task, url string) error {
	f, err := os.Open(t.Path)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, f)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", t.MimeType)
	req.ContentLength = t.SizeBytes

	resp, err := u.storage.Do(req)
	if err != nil {
		return fmt.Errorf("put to storage: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("storage rejected upload: HTTP %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (u *Uploader) fail(t *Task, err error) {
	t.Status = StatusFailed
	t.Err = err
	u.notify(t)
	slog.Warn("cv upload failed", "file", t.Path, "error", err)
}

func (u *Uploader) notify(t *Task) {
	if u.onUpdate != nil {
		u.onUpdate(*t)
	}
}
