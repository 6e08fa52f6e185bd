// ABOUTME: SQLite-backed journal of console commands using modernc.org/sqlite
// ABOUTME: Appends one entry per mutating command and lists them with filtering

package journal

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Outcome classifies how a journaled command ended.
type Outcome string

const (
	OutcomeOK    Outcome = "ok"
	OutcomeError Outcome = "error"
)

// Entry is a single journaled command.
type Entry struct {
	ID             string         // UUID v4
	Timestamp      time.Time      // when the command ran
	Command        string         // e.g. "orgs create", "members set-role"
	OrganizationID string         // acting organization, empty when none
	Target         string         // affected resource, empty when none
	Outcome        Outcome        // ok or error
	Detail         map[string]any // additional context, stored as JSON
}

// Filter specifies filtering options for listing journal entries.
type Filter struct {
	Since          *time.Time // entries at or after this time
	Command        *string    // filter by command
	OrganizationID *string    // filter by organization
	Outcome        *Outcome   // filter by outcome
	Limit          int        // max results (default 50, max 500)
}

// Journal is a local command journal backed by SQLite.
type Journal struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens (or creates) the journal database at path. The schema is
// created if it doesn't exist, and parent directories are created as
// needed. Pass ":memory:" for an in-memory journal.
func Open(path string, logger *slog.Logger) (*Journal, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "journal")

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("creating journal directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening journal database: %w", err)
	}

	// WAL lets a history listing read while another invocation appends
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	j := &Journal{db: db, logger: logger}
	if err := j.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return j, nil
}

// createSchema creates the journal table if it doesn't exist
func (j *Journal) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS journal (
			entry_id        TEXT PRIMARY KEY,
			ts              TEXT NOT NULL,
			command         TEXT NOT NULL,
			organization_id TEXT,
			target          TEXT,
			outcome         TEXT NOT NULL,
			detail_json     TEXT,

			CHECK (outcome IN ('ok', 'error'))
		);

		CREATE INDEX IF NOT EXISTS idx_journal_ts ON journal(ts);
		CREATE INDEX IF NOT EXISTS idx_journal_org ON journal(organization_id);
	`
	_, err := j.db.Exec(schema)
	return err
}

// Append records a new entry. Generates ID and Timestamp if not set,
// and defaults the outcome to ok.
func (j *Journal) Append(ctx context.Context, e *Entry) error {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if e.Outcome == "" {
		e.Outcome = OutcomeOK
	}

	var detailJSON *string
	if e.Detail != nil {
		data, err := json.Marshal(e.Detail)
		if err != nil {
			return fmt.Errorf("marshaling journal detail: %w", err)
		}
		str := string(data)
		detailJSON = &str
	}

	query := `
		INSERT INTO journal (entry_id, ts, command, organization_id, target, outcome, detail_json)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := j.db.ExecContext(ctx, query,
		e.ID,
		e.Timestamp.UTC().Format(time.RFC3339),
		e.Command,
		nullable(e.OrganizationID),
		nullable(e.Target),
		string(e.Outcome),
		detailJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting journal entry: %w", err)
	}

	j.logger.Debug("appended journal entry",
		"id", e.ID,
		"command", e.Command,
		"outcome", e.Outcome,
	)
	return nil
}

// normalizeLimit applies default (50) and cap (500) to the list limit.
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 50
	case limit > 500:
		return 500
	default:
		return limit
	}
}

const listQuery = `
	SELECT entry_id, ts, command, organization_id, target, outcome, detail_json
	FROM journal
	WHERE (? IS NULL OR ts >= ?)
	  AND (? IS NULL OR command = ?)
	  AND (? IS NULL OR organization_id = ?)
	  AND (? IS NULL OR outcome = ?)
	ORDER BY ts DESC
	LIMIT ?
`

// List returns journal entries matching the filter, newest first.
func (j *Journal) List(ctx context.Context, f Filter) ([]Entry, error) {
	limit := normalizeLimit(f.Limit)

	var sinceStr *string
	if f.Since != nil {
		s := f.Since.UTC().Format(time.RFC3339)
		sinceStr = &s
	}
	var outcomeStr *string
	if f.Outcome != nil {
		o := string(*f.Outcome)
		outcomeStr = &o
	}

	rows, err := j.db.QueryContext(ctx, listQuery,
		sinceStr, sinceStr,
		f.Command, f.Command,
		f.OrganizationID, f.OrganizationID,
		outcomeStr, outcomeStr,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying journal: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating journal entries: %w", err)
	}

	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// scanEntry scans a row into an Entry.
func scanEntry(scanner interface{ Scan(dest ...any) error }) (Entry, error) {
	var e Entry
	var tsStr, outcomeStr string
	var orgID, target, detailJSON *string

	if err := scanner.Scan(
		&e.ID,
		&tsStr,
		&e.Command,
		&orgID,
		&target,
		&outcomeStr,
		&detailJSON,
	); err != nil {
		return e, fmt.Errorf("scanning journal entry: %w", err)
	}

	e.Outcome = Outcome(outcomeStr)
	if orgID != nil {
		e.OrganizationID = *orgID
	}
	if target != nil {
		e.Target = *target
	}

	var err error
	e.Timestamp, err = time.Parse(time.RFC3339, tsStr)
	if err != nil {
		return e, fmt.Errorf("parsing timestamp: %w", err)
	}

	if detailJSON != nil {
		if err := json.Unmarshal([]byte(*detailJSON), &e.Detail); err != nil {
			return e, fmt.Errorf("unmarshaling detail: %w", err)
		}
	}
	return e, nil
}

// nullable maps empty strings to NULL so filters on the column work.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Close closes the underlying database.
func (j *Journal) Close() error {
	return j.db.Close()
}
