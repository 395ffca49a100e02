package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session modes
const (
	ModePlay   = "play"
	ModeMirror = "mirror"
)

// ErrSessionNotFound is returned when a session does not exist.
var ErrSessionNotFound = errors.New("storage: session not found")

// Session is one run of the play or mirror command.
type Session struct {
	SessionID  uuid.UUID
	StartedAt  time.Time
	Mode       string
	DeviceName *string
	Battery    *int
}

// SessionRepository provides access to sessions.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a session.
func (r *SessionRepository) Create(s *Session) error {
	_, err := r.db.Exec(`
		INSERT INTO sessions (session_id, started_ms, mode, device_name)
		VALUES (?, ?, ?, ?)
	`, s.SessionID.String(), s.StartedAt.UnixMilli(), s.Mode, s.DeviceName)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// SetDevice records the device a mirror session is connected to.
func (r *SessionRepository) SetDevice(id uuid.UUID, name string, battery int) error {
	var level *int
	if battery >= 0 {
		level = &battery
	}
	res, err := r.db.Exec(`
		UPDATE sessions SET device_name = ?, battery = ? WHERE session_id = ?
	`, name, level, id.String())
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrSessionNotFound
	}
	return nil
}

// Get returns one session.
func (r *SessionRepository) Get(id uuid.UUID) (*Session, error) {
	row := r.db.QueryRow(`
		SELECT session_id, started_ms, mode, device_name, battery
		FROM sessions WHERE session_id = ?
	`, id.String())

	s, err := scanSession(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	return s, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*Session, error) {
	var (
		s         Session
		id        string
		startedMs int64
	)
	if err := row.Scan(&id, &startedMs, &s.Mode, &s.DeviceName, &s.Battery); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid session id %q: %w", id, err)
	}
	s.SessionID = parsed
	s.StartedAt = time.UnixMilli(startedMs)
	return &s, nil
}
