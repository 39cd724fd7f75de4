// Package journal records per-item progress of archive runs in a SQLite
// file inside the staging directory, so an interrupted run can be resumed.
package journal

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vmunix/ytarchive/internal/migrations"

	_ "modernc.org/sqlite"
)

// Run is one invocation of the pipeline against a staging directory.
type Run struct {
	ID            int64
	UUID          string
	PlaylistURL   string
	PlaylistTitle string
	Bucket        string
	Prefix        string
	StartedAt     time.Time
	FinishedAt    *time.Time
	Outcome       Outcome
}

// Item is the journal record for one playlist entry.
type Item struct {
	PlaylistURL string
	Index       int
	Title       string
	Status      Status
	Attempts    int
	RunID       int64
	UpdatedAt   time.Time
}

// Upload records one object written to the store.
type Upload struct {
	ID          int64
	PlaylistURL string
	Index       int
	LocalPath   string
	Bucket      string
	Key         string
	Size        int64
	Attempts    int
	UploadedAt  time.Time
}

// Journal persists runs, items and uploads.
type Journal struct {
	db *sql.DB
}

// Open opens (creating if needed) the journal database at path.
func Open(path string) (*Journal, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	// One writer, one connection: keeps ":memory:" databases coherent too.
	db.SetMaxOpenConns(1)

	j, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

// New wraps an open database and applies the schema.
func New(db *sql.DB) (*Journal, error) {
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		return nil, fmt.Errorf("migrate journal: %w", err)
	}
	return &Journal{db: db}, nil
}

// DB exposes the underlying database, shared with the event log.
func (j *Journal) DB() *sql.DB {
	return j.db
}

// Close closes the database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// StartRun records a new run and fills in its ID, UUID and start time.
func (j *Journal) StartRun(r *Run) error {
	if r.UUID == "" {
		r.UUID = uuid.NewString()
	}
	r.StartedAt = time.Now()
	r.Outcome = OutcomeRunning

	result, err := j.db.Exec(`
		INSERT INTO runs (uuid, playlist_url, playlist_title, bucket, prefix, started_at, outcome)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.UUID, r.PlaylistURL, r.PlaylistTitle, r.Bucket, r.Prefix, r.StartedAt, r.Outcome,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get last insert id: %w", err)
	}
	r.ID = id
	return nil
}

// SetRunTitle stores the playlist title once it is known.
func (j *Journal) SetRunTitle(r *Run, title string) error {
	if _, err := j.db.Exec(`UPDATE runs SET playlist_title = ? WHERE id = ?`, title, r.ID); err != nil {
		return fmt.Errorf("update run %d: %w", r.ID, err)
	}
	r.PlaylistTitle = title
	return nil
}

// FinishRun records how a run ended.
func (j *Journal) FinishRun(r *Run, outcome Outcome) error {
	now := time.Now()
	result, err := j.db.Exec(`UPDATE runs SET finished_at = ?, outcome = ? WHERE id = ?`, now, outcome, r.ID)
	if err != nil {
		return fmt.Errorf("finish run %d: %w", r.ID, err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows == 0 {
		return fmt.Errorf("finish run %d: %w", r.ID, ErrNotFound)
	}
	r.FinishedAt = &now
	r.Outcome = outcome
	return nil
}

// Runs returns all recorded runs, newest first.
func (j *Journal) Runs() ([]*Run, error) {
	rows, err := j.db.Query(`
		SELECT id, uuid, playlist_url, playlist_title, bucket, prefix, started_at, finished_at, outcome
		FROM runs ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.UUID, &r.PlaylistURL, &r.PlaylistTitle, &r.Bucket, &r.Prefix, &r.StartedAt, &r.FinishedAt, &r.Outcome); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Track returns the journal record for an item, creating it as pending if
// it does not exist yet. Existing records keep their status; the title and
// run are refreshed.
func (j *Journal) Track(url string, index int, title string, runID int64) (*Item, error) {
	now := time.Now()
	_, err := j.db.Exec(`
		INSERT INTO items (playlist_url, idx, title, status, attempts, run_id, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (playlist_url, idx) DO UPDATE SET title = excluded.title, run_id = excluded.run_id`,
		url, index, title, StatusPending, runID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("track item %d: %w", index, err)
	}
	return j.Get(url, index)
}

// Get retrieves an item. Returns ErrNotFound if it is not tracked.
func (j *Journal) Get(url string, index int) (*Item, error) {
	it := &Item{}
	var runID sql.NullInt64
	err := j.db.QueryRow(`
		SELECT playlist_url, idx, title, status, attempts, run_id, updated_at
		FROM items WHERE playlist_url = ? AND idx = ?`, url, index,
	).Scan(&it.PlaylistURL, &it.Index, &it.Title, &it.Status, &it.Attempts, &runID, &it.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("get item %d: %w", index, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get item %d: %w", index, err)
	}
	it.RunID = runID.Int64
	return it, nil
}

// Items lists the tracked items of a playlist in index order.
func (j *Journal) Items(url string) ([]*Item, error) {
	rows, err := j.db.Query(`
		SELECT playlist_url, idx, title, status, attempts, run_id, updated_at
		FROM items WHERE playlist_url = ? ORDER BY idx`, url)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var items []*Item
	for rows.Next() {
		it := &Item{}
		var runID sql.NullInt64
		if err := rows.Scan(&it.PlaylistURL, &it.Index, &it.Title, &it.Status, &it.Attempts, &runID, &it.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		it.RunID = runID.Int64
		items = append(items, it)
	}
	return items, rows.Err()
}

// Transition moves an item to a new status after validating the change.
func (j *Journal) Transition(it *Item, to Status) error {
	if !it.Status.CanTransitionTo(to) {
		return fmt.Errorf("%w: item %d %s -> %s", ErrInvalidTransition, it.Index, it.Status, to)
	}
	return j.setStatus(it, to)
}

// Reset puts an item back to pending regardless of its status. Used when
// the files a previous run downloaded are gone, or resume is disabled.
func (j *Journal) Reset(it *Item) error {
	return j.setStatus(it, StatusPending)
}

func (j *Journal) setStatus(it *Item, to Status) error {
	now := time.Now()
	result, err := j.db.Exec(`
		UPDATE items SET status = ?, updated_at = ?
		WHERE playlist_url = ? AND idx = ?`,
		to, now, it.PlaylistURL, it.Index,
	)
	if err != nil {
		return fmt.Errorf("update item %d: %w", it.Index, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("update item %d: %w", it.Index, ErrNotFound)
	}

	it.Status = to
	it.UpdatedAt = now
	return nil
}

// AddAttempt counts one fetch attempt for an item.
func (j *Journal) AddAttempt(it *Item) error {
	if _, err := j.db.Exec(`
		UPDATE items SET attempts = attempts + 1 WHERE playlist_url = ? AND idx = ?`,
		it.PlaylistURL, it.Index,
	); err != nil {
		return fmt.Errorf("count attempt for item %d: %w", it.Index, err)
	}
	it.Attempts++
	return nil
}

// RecordUpload stores a finished upload. Re-uploading the same local file
// replaces the earlier record.
func (j *Journal) RecordUpload(u *Upload) error {
	u.UploadedAt = time.Now()
	result, err := j.db.Exec(`
		INSERT INTO uploads (playlist_url, idx, local_path, bucket, object_key, size_bytes, attempts, uploaded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (playlist_url, local_path) DO UPDATE SET
			bucket = excluded.bucket, object_key = excluded.object_key,
			size_bytes = excluded.size_bytes, attempts = excluded.attempts,
			uploaded_at = excluded.uploaded_at`,
		u.PlaylistURL, u.Index, u.LocalPath, u.Bucket, u.Key, u.Size, u.Attempts, u.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("record upload %s: %w", u.Key, err)
	}
	if id, err := result.LastInsertId(); err == nil {
		u.ID = id
	}
	return nil
}

// Uploads returns the recorded uploads of a playlist in upload order.
func (j *Journal) Uploads(url string) ([]*Upload, error) {
	rows, err := j.db.Query(`
		SELECT id, playlist_url, idx, local_path, bucket, object_key, size_bytes, attempts, uploaded_at
		FROM uploads WHERE playlist_url = ? ORDER BY id`, url)
	if err != nil {
		return nil, fmt.Errorf("list uploads: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var uploads []*Upload
	for rows.Next() {
		u := &Upload{}
		if err := rows.Scan(&u.ID, &u.PlaylistURL, &u.Index, &u.LocalPath, &u.Bucket, &u.Key, &u.Size, &u.Attempts, &u.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan upload: %w", err)
		}
		uploads = append(uploads, u)
	}
	return uploads, rows.Err()
}
