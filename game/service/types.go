package service

import (
	"time"

	"github.com/wricardo/gecko-puzzle/game/engine"
)

// Update event names pushed to a Notifier
const (
	EventStateUpdate   = "state_update"
	EventFrame         = "frame"
	EventGameOver      = "game_over"
	EventLevelComplete = "level_complete"
)

// Pointer event types accepted by Pointer
const (
	PointerDown = "pointer_down"
	PointerMove = "pointer_move"
	PointerUp   = "pointer_up"
)

// MaxBulkMoves caps how many moves a single BulkMove call executes
const MaxBulkMoves = 50

// SessionOptions tunes a new session
type SessionOptions struct {
	// ManualClock sessions are skipped by the frame driver and only advance
	// through Advance calls.
	ManualClock bool `json:"manual_clock"`
}

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	ManualClock    bool               `json:"manual_clock"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *GameState         `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config,omitempty"`
}

// GameState is the engine snapshot plus derived hints for clients
type GameState struct {
	engine.Snapshot
	PossibleMoves []engine.Direction `json:"possible_moves"`
	ZonesLeft     int                `json:"zones_left"`
	Message       string             `json:"message"`
}

// MoveResult contains the result of a move operation
type MoveResult struct {
	Success    bool                    `json:"success"`
	Backtrack  bool                    `json:"backtrack,omitempty"`
	Reason     engine.RejectReason     `json:"reason,omitempty"`
	From       engine.Position         `json:"from"`
	To         engine.Position         `json:"to"`
	ScoreDelta int                     `json:"score_delta"`
	Collisions []engine.CollisionEvent `json:"collisions,omitempty"`
	GameState  *GameState              `json:"game_state"`
	Message    string                  `json:"message"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	MovesExecuted  int        `json:"moves_executed"`
	RequestedMoves int        `json:"requested_moves"`
	Success        bool       `json:"success"`
	StoppedReason  string     `json:"stopped_reason,omitempty"`
	StoppedOnMove  int        `json:"stopped_on_move,omitempty"` // 1-based
	Truncated      bool       `json:"truncated,omitempty"`
	Limit          int        `json:"limit,omitempty"`
	ScoreDelta     int        `json:"score_delta"`
	Steps          []StepInfo `json:"steps,omitempty"`
	GameState      *GameState `json:"game_state"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx        int                     `json:"idx"`
	Dir        engine.Direction        `json:"dir"`
	From       engine.Position         `json:"from"`
	To         engine.Position         `json:"to"`
	Success    bool                    `json:"success"`
	Backtrack  bool                    `json:"backtrack,omitempty"`
	Reason     engine.RejectReason     `json:"reason,omitempty"`
	Collisions []engine.CollisionEvent `json:"collisions,omitempty"`
}

// PointerEvent is one pointer sample in pixel coordinates
type PointerEvent struct {
	Type string `json:"type"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// Update is pushed to the Notifier whenever a session changes
type Update struct {
	SessionID string              `json:"session_id"`
	Event     string              `json:"event"`
	State     *GameState          `json:"state,omitempty"`
	Frame     *engine.DisplayList `json:"frame,omitempty"`
	Value     int                 `json:"value,omitempty"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename       string `json:"filename"`
	ConfigID       string `json:"config_id"` // The identifier to use for session creation
	Name           string `json:"name"`      // Display name
	Description    string `json:"description"`
	GridWidth      int    `json:"grid_width"`
	GridHeight     int    `json:"grid_height"`
	CreatureLength int    `json:"creature_length"`
	LevelSeconds   int    `json:"level_seconds"`
	Levels         int    `json:"levels"`
	Procedural     bool   `json:"procedural"`
}
