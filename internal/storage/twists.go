package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/SeamusWaldron/cubetwist"
)

// Twist is one settled face turn.
type Twist struct {
	TwistID      int64
	SessionID    uuid.UUID
	At           time.Time
	Face         cubetwist.Direction
	QuarterTurns int
	Source       string
	Drag         time.Duration
}

// SessionSummary aggregates the twists of one session.
type SessionSummary struct {
	Session
	Twists       int
	QuarterTurns int // sum of absolute quarter turns
	LastTwist    *time.Time
}

// TwistRepository provides access to twists.
type TwistRepository struct {
	db *DB
}

// NewTwistRepository creates a new twist repository.
func NewTwistRepository(db *DB) *TwistRepository {
	return &TwistRepository{db: db}
}

// Record inserts a twist and returns its ID.
func (r *TwistRepository) Record(t *Twist) (int64, error) {
	result, err := r.db.Exec(`
		INSERT INTO twists (session_id, ts_ms, face, quarter_turns, source, drag_ms)
		VALUES (?, ?, ?, ?, ?, ?)
	`, t.SessionID.String(), t.At.UnixMilli(), t.Face.String(), t.QuarterTurns, t.Source, t.Drag.Milliseconds())
	if err != nil {
		return 0, fmt.Errorf("failed to record twist: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get twist ID: %w", err)
	}
	t.TwistID = id
	return id, nil
}

// BySession returns the twists of one session in order.
func (r *TwistRepository) BySession(sessionID uuid.UUID) ([]Twist, error) {
	return r.query(`
		SELECT twist_id, session_id, ts_ms, face, quarter_turns, source, drag_ms
		FROM twists
		WHERE session_id = ?
		ORDER BY ts_ms, twist_id
	`, sessionID.String())
}

// Recent returns the latest twists across all sessions, newest first.
func (r *TwistRepository) Recent(limit int) ([]Twist, error) {
	return r.query(`
		SELECT twist_id, session_id, ts_ms, face, quarter_turns, source, drag_ms
		FROM twists
		ORDER BY ts_ms DESC, twist_id DESC
		LIMIT ?
	`, limit)
}

func (r *TwistRepository) query(q string, args ...any) ([]Twist, error) {
	rows, err := r.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get twists: %w", err)
	}
	defer rows.Close()

	var twists []Twist
	for rows.Next() {
		var (
			t       Twist
			session string
			tsMs    int64
			face    string
			dragMs  int64
		)
		if err := rows.Scan(&t.TwistID, &session, &tsMs, &face, &t.QuarterTurns, &t.Source, &dragMs); err != nil {
			return nil, fmt.Errorf("failed to scan twist: %w", err)
		}
		if t.SessionID, err = uuid.Parse(session); err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", session, err)
		}
		if t.Face, err = cubetwist.ParseDirection(face); err != nil {
			return nil, err
		}
		t.At = time.UnixMilli(tsMs)
		t.Drag = time.Duration(dragMs) * time.Millisecond
		twists = append(twists, t)
	}
	return twists, rows.Err()
}

// Sessions summarises the latest sessions, newest first.
func (r *TwistRepository) Sessions(limit int) ([]SessionSummary, error) {
	rows, err := r.db.Query(`
		SELECT s.session_id, s.started_ms, s.mode, s.device_name, s.battery,
		       COUNT(t.twist_id), COALESCE(SUM(ABS(t.quarter_turns)), 0), MAX(t.ts_ms)
		FROM sessions s
		LEFT JOIN twists t ON t.session_id = s.session_id
		GROUP BY s.session_id
		ORDER BY s.started_ms DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to summarise sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionSummary
	for rows.Next() {
		var (
			sum       SessionSummary
			id        string
			startedMs int64
			lastMs    *int64
		)
		err := rows.Scan(&id, &startedMs, &sum.Mode, &sum.DeviceName, &sum.Battery,
			&sum.Twists, &sum.QuarterTurns, &lastMs)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session summary: %w", err)
		}
		if sum.SessionID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("invalid session id %q: %w", id, err)
		}
		sum.StartedAt = time.UnixMilli(startedMs)
		if lastMs != nil {
			last := time.UnixMilli(*lastMs)
			sum.LastTwist = &last
		}
		out = append(out, sum)
	}
	return out, rows.Err()
}

// FaceCounts returns how many twists each face received in a session.
func (r *TwistRepository) FaceCounts(sessionID uuid.UUID) (map[cubetwist.Direction]int, error) {
	rows, err := r.db.Query(`
		SELECT face, COUNT(*) FROM twists WHERE session_id = ? GROUP BY face
	`, sessionID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to count faces: %w", err)
	}
	defer rows.Close()

	counts := make(map[cubetwist.Direction]int)
	for rows.Next() {
		var (
			face string
			n    int
		)
		if err := rows.Scan(&face, &n); err != nil {
			return nil, fmt.Errorf("failed to scan face count: %w", err)
		}
		d, err := cubetwist.ParseDirection(face)
		if err != nil {
			return nil, err
		}
		counts[d] = n
	}
	return counts, rows.Err()
}
