package recorder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/SeamusWaldron/cubetwist/internal/interaction"
	"github.com/SeamusWaldron/cubetwist/internal/storage"
)

// Session journals the settled twists of one play or mirror run.
type Session struct {
	stateFile *StateFile
	log       zerolog.Logger

	sessionRepo *storage.SessionRepository
	twistRepo   *storage.TwistRepository

	mu        sync.Mutex
	id        uuid.UUID
	startTime time.Time
	count     int
	lastErr   error
	now       func() time.Time
}

// NewSession creates the session row and records it in the state file.
func NewSession(db *storage.DB, stateFile *StateFile, mode string, log zerolog.Logger) (*Session, error) {
	s := &Session{
		stateFile:   stateFile,
		log:         log.With().Str("component", "recorder").Logger(),
		sessionRepo: storage.NewSessionRepository(db),
		twistRepo:   storage.NewTwistRepository(db),
		id:          uuid.New(),
		now:         time.Now,
	}
	s.startTime = s.now()

	err := s.sessionRepo.Create(&storage.Session{
		SessionID: s.id,
		StartedAt: s.startTime,
		Mode:      mode,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start session: %w", err)
	}

	if stateFile != nil {
		if err := stateFile.SetLastSession(s.id.String()); err != nil {
			s.log.Warn().Err(err).Msg("state file not updated")
		}
	}

	s.log.Info().Stringer("session", s.id).Str("mode", mode).Msg("session started")
	return s, nil
}

// ID returns the session ID.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// Count returns the number of twists recorded so far.
func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.count
}

// Err returns the last write error, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Record appends a settled twist. It matches interaction.Options.OnSettled.
func (s *Session) Record(ev interaction.Settled) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.twistRepo.Record(&storage.Twist{
		SessionID:    s.id,
		At:           s.now(),
		Face:         ev.Face,
		QuarterTurns: ev.QuarterTurns,
		Source:       string(ev.Source),
		Drag:         ev.Duration,
	})
	if err != nil {
		s.lastErr = err
		s.log.Error().Err(err).Msg("twist not recorded")
		return
	}
	s.count++
}

// SetDevice records the connected device on the session and in the state file.
func (s *Session) SetDevice(address, name string, battery int) {
	if err := s.sessionRepo.SetDevice(s.id, name, battery); err != nil {
		s.log.Warn().Err(err).Msg("device not recorded")
	}
	if s.stateFile != nil {
		if err := s.stateFile.SetLastDevice(address, name); err != nil {
			s.log.Warn().Err(err).Msg("state file not updated")
		}
	}
}

// Elapsed returns the time since the session started.
func (s *Session) Elapsed() time.Duration {
	return s.now().Sub(s.startTime)
}
