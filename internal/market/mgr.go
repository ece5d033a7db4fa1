package market

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrMalformedRecord = errors.New("malformed session record")
	ErrSessionNotFound = errors.New("session not found")
)

// Record is one loader record: a symbol and its raw slice definitions.
type Record struct {
	Symbol string
	Slices []SliceDef
}

// Source delivers session records for SessionMgr.Reload. Implementations
// (CSV files, SQLite, preset assignments) live outside the core.
type Source interface {
	Records() ([]Record, error)
}

// SessionMgr maps symbols to their trade sessions. Lookups are exact and
// case-sensitive. Safe for concurrent readers; Reload publishes a fully
// built map in one step so readers never observe a half-loaded state.
type SessionMgr struct {
	mu       sync.RWMutex
	sessions map[string]*TradeSession
	log      *zap.Logger
}

// NewSessionMgr returns an empty manager. A nil logger keeps it quiet.
func NewSessionMgr(log *zap.Logger) *SessionMgr {
	if log == nil {
		log = zap.NewNop()
	}
	return &SessionMgr{
		sessions: make(map[string]*TradeSession),
		log:      log,
	}
}

// Reload reads every record from src, builds a normalized session per
// record, and installs them. merge overlays the new records onto the
// existing map (overwriting colliding symbols); otherwise the previous state
// is replaced wholesale. All-or-nothing: any bad record leaves the manager
// untouched and the whole reload fails with ErrMalformedRecord.
func (m *SessionMgr) Reload(src Source, merge bool) error {
	records, err := src.Records()
	if err != nil {
		return err
	}

	next := make(map[string]*TradeSession, len(records))
	for _, rec := range records {
		s := NewTradeSession()
		for _, d := range rec.Slices {
			if err := s.AddSlice(d.StartHour, d.StartMinute, d.EndHour, d.EndMinute); err != nil {
				return fmt.Errorf("%w: symbol %q: %w", ErrMalformedRecord, rec.Symbol, err)
			}
		}
		if err := s.PostFix(); err != nil {
			return fmt.Errorf("%w: symbol %q: %w", ErrMalformedRecord, rec.Symbol, err)
		}
		next[rec.Symbol] = s
	}

	m.mu.Lock()
	if merge {
		merged := make(map[string]*TradeSession, len(m.sessions)+len(next))
		for k, v := range m.sessions {
			merged[k] = v
		}
		for k, v := range next {
			merged[k] = v
		}
		next = merged
	}
	m.sessions = next
	total := len(m.sessions)
	m.mu.Unlock()

	m.log.Info("sessions reloaded",
		zap.Int("loaded", len(records)),
		zap.Bool("merge", merge),
		zap.Int("total", total))
	return nil
}

// GetSession looks up the session for symbol. The match is exact: "Ru" does
// not find "ru".
func (m *SessionMgr) GetSession(symbol string) (*TradeSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[symbol]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrSessionNotFound, symbol)
	}
	return s, nil
}

// HasSession reports whether symbol is registered.
func (m *SessionMgr) HasSession(symbol string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[symbol]
	return ok
}

// AddSession registers or replaces a single session.
func (m *SessionMgr) AddSession(symbol string, s *TradeSession) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[symbol] = s
}

// SessionMap returns a copy of the full symbol-to-session mapping.
func (m *SessionMgr) SessionMap() map[string]*TradeSession {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*TradeSession, len(m.sessions))
	for k, v := range m.sessions {
		out[k] = v
	}
	return out
}

// SessionsCount is the number of registered symbols.
func (m *SessionMgr) SessionsCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// InSession answers the membership query for a registered symbol.
func (m *SessionMgr) InSession(symbol string, t time.Time, includeEnd bool) (bool, error) {
	s, err := m.GetSession(symbol)
	if err != nil {
		return false, err
	}
	return s.InSession(t, includeEnd), nil
}
