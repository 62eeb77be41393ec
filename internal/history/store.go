// Package history records import attempts in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sourceplane/imagewizard/internal/logging"
	"github.com/sourceplane/imagewizard/internal/model"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// Import statuses
const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// timeLayout is fixed width so created_at sorts chronologically as TEXT
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when a record does not exist
var ErrNotFound = errors.New("import record not found")

// Record is one import attempt
type Record struct {
	ID            string              `json:"id"`
	Filename      string              `json:"filename"`
	Format        model.SourceFormat  `json:"format"`
	Status        string              `json:"status"`
	IsOnPrem      bool                `json:"is_on_prem"`
	BlueprintName string              `json:"blueprint_name,omitempty"`
	Reason        model.FailureReason `json:"reason,omitempty"`
	Error         string              `json:"error,omitempty"`
	State         json.RawMessage     `json:"state,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// NewRecord describes the outcome of importing filename
func NewRecord(filename string, format model.SourceFormat, outcome *model.ImportOutcome) (*Record, error) {
	rec := &Record{Filename: filename, Format: format, Status: StatusFailure}
	if outcome == nil {
		return rec, nil
	}
	if !outcome.Succeeded() {
		rec.Reason = outcome.Reason
		rec.Error = outcome.Message
		return rec, nil
	}

	state, err := json.Marshal(outcome.State)
	if err != nil {
		return nil, fmt.Errorf("failed to encode wizard state: %w", err)
	}
	rec.Status = StatusSuccess
	rec.IsOnPrem = outcome.IsOnPrem
	rec.BlueprintName = outcome.State.Details.BlueprintName
	rec.State = state
	return rec, nil
}

// Store persists import records
type Store struct {
	db     *sql.DB
	logger *logging.Logger
	now    func() time.Time
}

// Open opens (and creates if needed) the history database at dbPath
func Open(dbPath string, logger *logging.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger.Debug("history database init", zap.String("db_path", dbPath))

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create history schema: %w", err)
	}

	return &Store{db: db, logger: logger, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Add inserts rec, assigning its ID and creation time
func (s *Store) Add(ctx context.Context, rec *Record) error {
	rec.ID = uuid.NewString()
	rec.CreatedAt = s.now().UTC()

	query := `
		INSERT INTO imports (id, filename, format, status, is_on_prem, blueprint_name, reason, error_message, state, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Filename, string(rec.Format), rec.Status, rec.IsOnPrem,
		nullString(rec.BlueprintName), nullString(string(rec.Reason)), nullString(rec.Error),
		nullString(string(rec.State)), rec.CreatedAt.Format(timeLayout))
	if err != nil {
		s.logger.Error("history insert failed", zap.String("filename", rec.Filename), zap.Error(err))
		return fmt.Errorf("failed to insert import record: %w", err)
	}

	s.logger.Debug("history record added", zap.String("id", rec.ID), zap.String("status", rec.Status))
	return nil
}

const selectColumns = `id, filename, format, status, is_on_prem, blueprint_name, reason, error_message, state, created_at`

// List returns the newest records first; limit <= 0 returns all
func (s *Store) List(ctx context.Context, limit int) ([]*Record, error) {
	query := `SELECT ` + selectColumns + ` FROM imports ORDER BY created_at DESC, rowid DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list import records: %w", err)
	}
	defer rows.Close()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read import records: %w", err)
	}
	return records, nil
}

// Get returns the record with id, or ErrNotFound
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM imports WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scanner) (*Record, error) {
	var rec Record
	var format, createdAt string
	var blueprintName, reason, errorMessage, state sql.NullString

	err := row.Scan(&rec.ID, &rec.Filename, &format, &rec.Status, &rec.IsOnPrem,
		&blueprintName, &reason, &errorMessage, &state, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan import record: %w", err)
	}

	rec.Format = model.SourceFormat(format)
	rec.BlueprintName = blueprintName.String
	rec.Reason = model.FailureReason(reason.String)
	rec.Error = errorMessage.String
	if state.Valid && state.String != "" {
		rec.State = json.RawMessage(state.String)
	}
	rec.CreatedAt, err = time.Parse(timeLayout, createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at %q: %w", createdAt, err)
	}
	return &rec, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
