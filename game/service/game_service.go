package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrConfigNotFound  = errors.New("configuration not found")
	ErrLiveClock       = errors.New("session clock is driven by the server")
	ErrInvalidPointer  = errors.New("invalid pointer event")
)

// GameService defines all game-related operations
type GameService interface {
	// Session Management
	CreateSession(ctx context.Context, configName string, opts SessionOptions) (*SessionInfo, error)
	GetSession(ctx context.Context, sessionID string) (*SessionInfo, error)
	ListSessions(ctx context.Context) ([]*SessionInfo, error)
	DeleteSession(ctx context.Context, sessionID string) error

	// Game Operations
	Move(ctx context.Context, sessionID, direction string) (*MoveResult, error)
	BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error)
	Drag(ctx context.Context, sessionID string, dx, dy int) (*MoveResult, error)
	Pointer(ctx context.Context, sessionID string, ev PointerEvent) (*GameState, error)
	Advance(ctx context.Context, sessionID string, dt time.Duration) (*GameState, error)
	Restart(ctx context.Context, sessionID string) (*GameState, error)

	// Game State
	GetGameState(ctx context.Context, sessionID string) (*GameState, error)
	GetFrame(ctx context.Context, sessionID string) (*engine.DisplayList, error)
	GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error)
	DescribeCell(ctx context.Context, sessionID string, col, row int) (*engine.CellInfo, error)

	// Configuration
	ListConfigs(ctx context.Context) ([]*ConfigInfo, error)
	LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error)
	SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error

	// Clock
	AdvanceLive(dt time.Duration) int
}

// SessionManager defines session storage operations
type SessionManager interface {
	CreateWithOptions(id string, config *engine.GameConfig, opts SessionOptions) (*Session, error)
	Get(id string) (*Session, error)
	List() []*Session
	Delete(id string) error
	UpdateLastAccessed(id string) error
}

// ConfigManager handles game configuration loading
type ConfigManager interface {
	LoadConfig(name string) (*engine.GameConfig, error)
	ListConfigs() ([]*ConfigInfo, error)
	GetDefault() *engine.GameConfig
	SaveConfig(name string, config *engine.GameConfig) error
}

// Notifier receives session updates. Publish is called with the session lock
// held and must not block.
type Notifier interface {
	Publish(u Update)
}

// Session represents an active game session. Engine calls must hold the
// session lock.
type Session struct {
	ID          string
	Engine      *engine.GameEngine
	Config      *engine.GameConfig
	ConfigID    string
	ManualClock bool
	CreatedAt   time.Time

	mu       sync.Mutex
	accessed atomic.Int64
}

// NewSession wraps an engine in a session stamped with the current time
func NewSession(id string, eng *engine.GameEngine, config *engine.GameConfig) *Session {
	now := time.Now()
	s := &Session{
		ID:        id,
		Engine:    eng,
		Config:    config,
		CreatedAt: now,
	}
	s.accessed.Store(now.UnixNano())
	return s
}

// Lock serializes access to the session's engine
func (s *Session) Lock() { s.mu.Lock() }

// Unlock releases the session lock
func (s *Session) Unlock() { s.mu.Unlock() }

// Touch records an access at the current time
func (s *Session) Touch() {
	s.accessed.Store(time.Now().UnixNano())
}

// LastAccessed returns the time of the last recorded access
func (s *Session) LastAccessed() time.Time {
	return time.Unix(0, s.accessed.Load())
}

// SetLastAccessed overrides the access time, used by expiry tests and tools
func (s *Session) SetLastAccessed(t time.Time) {
	s.accessed.Store(t.UnixNano())
}
