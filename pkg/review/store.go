package review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite" // SQLite driver
)

// ErrNotFound indicates the requested review item does not exist.
var ErrNotFound = errors.New("review item not found")

// ErrNonePending indicates there are no pending items to claim.
var ErrNonePending = errors.New("no pending review items")

const schema = `
CREATE TABLE IF NOT EXISTS review_items (
    id TEXT PRIMARY KEY,
    record_id TEXT NOT NULL,
    patient_ref TEXT NOT NULL,
    document_type TEXT NOT NULL,
    outcome TEXT NOT NULL,
    status TEXT NOT NULL,
    reviewer TEXT,
    resolution TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_review_items_status ON review_items(status);
CREATE INDEX IF NOT EXISTS idx_review_items_created_at ON review_items(created_at);
`

// StoreConfig configures the review store.
type StoreConfig struct {
	// Path is the SQLite database file path.
	Path string

	// BusyTimeout is how long to wait for locks before failing.
	// Default: 5 seconds.
	BusyTimeout time.Duration
}

// Store is the SQLite-backed review queue. It uses the pure-Go driver so
// review tooling builds without cgo.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewStore opens (creating if needed) the review database.
func NewStore(cfg StoreConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("review db path cannot be empty")
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = 5 * time.Second
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open review db %q: %w", cfg.Path, err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", cfg.BusyTimeout.Milliseconds())); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create review schema: %w", err)
	}

	return &Store{
		db:     db,
		logger: slog.Default().With("component", "review.store"),
	}, nil
}

// Enqueue adds a new pending item to the queue and returns it.
func (s *Store) Enqueue(ctx context.Context, recordID, patientRef, documentType, outcome string) (*Item, error) {
	now := time.Now()
	item := &Item{
		ID:           uuid.NewString(),
		RecordID:     recordID,
		PatientRef:   patientRef,
		DocumentType: documentType,
		Outcome:      outcome,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_items (id, record_id, patient_ref, document_type, outcome, status, reviewer, resolution, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, '', '', ?, ?)`,
		item.ID, item.RecordID, item.PatientRef, item.DocumentType, item.Outcome, item.Status, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to enqueue review item: %w", err)
	}

	s.logger.Info("review item enqueued",
		"item_id", item.ID,
		"record_id", recordID,
		"outcome", outcome,
	)
	return item, nil
}

// Claim atomically assigns the oldest pending item to the given reviewer.
// Returns ErrNonePending when the queue is empty.
func (s *Store) Claim(ctx context.Context, reviewer string) (*Item, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin claim: %w", err)
	}
	defer tx.Rollback()

	var id string
	err = tx.QueryRowContext(ctx,
		"SELECT id FROM review_items WHERE status = ? ORDER BY created_at ASC LIMIT 1",
		StatusPending,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNonePending
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending item: %w", err)
	}

	now := time.Now()
	if _, err := tx.ExecContext(ctx,
		"UPDATE review_items SET status = ?, reviewer = ?, updated_at = ? WHERE id = ?",
		StatusClaimed, reviewer, now, id,
	); err != nil {
		return nil, fmt.Errorf("failed to claim item: %w", err)
	}

	item, err := getItemTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit claim: %w", err)
	}
	return item, nil
}

// Resolve records a decision for a claimed item.
func (s *Store) Resolve(ctx context.Context, id, resolution string) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE review_items SET status = ?, resolution = ?, updated_at = ? WHERE id = ? AND status = ?",
		StatusResolved, resolution, time.Now(), id, StatusClaimed,
	)
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to resolve item: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Get retrieves a review item by ID.
func (s *Store) Get(ctx context.Context, id string) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	return item, err
}

// Pending lists pending items, oldest first.
func (s *Store) Pending(ctx context.Context, limit int) ([]*Item, error) {
	query := selectColumns + " WHERE status = ? ORDER BY created_at ASC"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const selectColumns = `
	SELECT id, record_id, patient_ref, document_type, outcome, status, reviewer, resolution, created_at, updated_at
	FROM review_items`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	err := row.Scan(
		&item.ID, &item.RecordID, &item.PatientRef, &item.DocumentType,
		&item.Outcome, &item.Status, &item.Reviewer, &item.Resolution,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func getItemTx(ctx context.Context, tx *sql.Tx, id string) (*Item, error) {
	row := tx.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id)
	return scanItem(row)
}
