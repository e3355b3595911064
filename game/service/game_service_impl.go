package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/logger"
)

var (
	ErrInvalidDuration = errors.New("invalid duration")
	ErrCellOutOfBounds = errors.New("cell is outside the grid")
)

// MaxAdvance bounds a single manual clock advance
const MaxAdvance = 10 * time.Minute

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	notifier Notifier
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return NewGameServiceWithNotifier(sessions, configs, nil)
}

// NewGameServiceWithNotifier creates a game service that pushes session
// updates to notifier
func NewGameServiceWithNotifier(sessions SessionManager, configs ConfigManager, notifier Notifier) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
		notifier: notifier,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string, opts SessionOptions) (*SessionInfo, error) {
	var config *engine.GameConfig
	var err error
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, configIDs)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available configurations", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
	}

	sess, err := s.sessions.CreateWithOptions("", config, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	sess.Lock()
	defer sess.Unlock()

	sess.ConfigID = configName
	if sess.ConfigID == "" {
		sess.ConfigID = s.getConfigID(config.Name)
	}
	s.attach(sess)

	logger.Session(sess.ID).WithFields(logrus.Fields{
		"config":       sess.ConfigID,
		"manual_clock": sess.ManualClock,
	}).Info("session created")

	return s.info(sess, true), nil
}

// attach forwards engine listener events to the notifier
func (s *gameServiceImpl) attach(sess *Session) {
	id := sess.ID
	eng := sess.Engine
	eng.Subscribe(engine.ListenerFuncs{
		StateChange: func(engine.Snapshot) {
			if s.notifier == nil {
				return
			}
			s.notifier.Publish(Update{
				SessionID: id,
				Event:     EventStateUpdate,
				State:     buildState(eng),
				Frame:     eng.Frame(),
			})
		},
		GameOver: func(score int) {
			logger.Session(id).WithField("score", score).Info("game over")
			s.publish(Update{SessionID: id, Event: EventGameOver, Value: score})
		},
		LevelComplete: func(level int) {
			logger.Session(id).WithFields(logrus.Fields{
				"level": level,
				"score": eng.Score(),
			}).Info("level complete")
			s.publish(Update{SessionID: id, Event: EventLevelComplete, Value: level})
		},
	})
}

func (s *gameServiceImpl) publish(u Update) {
	if s.notifier != nil {
		s.notifier.Publish(u)
	}
}

// lookup finds a session and records the access
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrSessionNotFound, err)
	}
	sess.Touch()
	return sess, nil
}

// info builds a SessionInfo; callers hold the session lock
func (s *gameServiceImpl) info(sess *Session, withConfig bool) *SessionInfo {
	info := &SessionInfo{
		ID:             sess.ID,
		ConfigName:     sess.ConfigID,
		ManualClock:    sess.ManualClock,
		CreatedAt:      sess.CreatedAt,
		LastAccessedAt: sess.LastAccessed(),
		GameState:      buildState(sess.Engine),
	}
	if info.ConfigName == "" {
		info.ConfigName = s.getConfigID(sess.Config.Name)
	}
	if withConfig {
		info.GameConfig = sess.Config
	}
	return info
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	sess.Lock()
	defer sess.Unlock()
	return s.info(sess, true), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		sess.Lock()
		result = append(result, s.info(sess, false))
		sess.Unlock()
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.sessions.Delete(sessionID); err != nil {
		return err
	}
	logger.Session(sessionID).Info("session deleted")
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s' (use up, down, left or right)", err, direction)
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	before := sess.Engine.Score()
	res := sess.Engine.Apply(dir)
	return moveResult(sess.Engine, res, before), nil
}

func moveResult(eng *engine.GameEngine, res engine.StepResult, scoreBefore int) *MoveResult {
	state := buildState(eng)
	result := &MoveResult{
		Success:    res.Moved,
		Backtrack:  res.Backtrack,
		Reason:     res.Reason,
		From:       res.From,
		To:         res.From,
		ScoreDelta: state.Score - scoreBefore,
		GameState:  state,
	}
	if res.Moved {
		result.To = res.Target
		result.Collisions = state.LastCollisions
	}
	result.Message = moveMessage(result)
	return result
}

// BulkMove executes moves in order, stopping at the first rejected one
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string) (*BulkMoveResult, error) {
	dirs := make([]engine.Direction, 0, len(moves))
	for i, m := range moves {
		dir, err := engine.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w: '%s'", i+1, err, m)
		}
		dirs = append(dirs, dir)
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{RequestedMoves: len(dirs)}
	if len(dirs) > MaxBulkMoves {
		dirs = dirs[:MaxBulkMoves]
		result.Truncated = true
		result.Limit = MaxBulkMoves
	}

	sess.Lock()
	defer sess.Unlock()

	eng := sess.Engine
	before := eng.Score()
	for i, dir := range dirs {
		if phase := eng.Phase(); phase != engine.PhasePlaying {
			result.StoppedReason = string(phase)
			result.StoppedOnMove = i + 1
			break
		}
		res := eng.Apply(dir)
		step := StepInfo{
			Idx:       i + 1,
			Dir:       dir,
			From:      res.From,
			To:        res.From,
			Success:   res.Moved,
			Backtrack: res.Backtrack,
			Reason:    res.Reason,
		}
		if !res.Moved {
			result.Steps = append(result.Steps, step)
			result.StoppedReason = string(res.Reason)
			result.StoppedOnMove = i + 1
			break
		}
		step.To = res.Target
		step.Collisions = eng.Snapshot().LastCollisions
		result.Steps = append(result.Steps, step)
		result.MovesExecuted++
	}

	result.Success = result.StoppedReason == "" && !result.Truncated
	result.ScoreDelta = eng.Score() - before
	result.GameState = buildState(eng)
	return result, nil
}

// Drag performs a full pointer gesture starting on the gecko's head
func (s *gameServiceImpl) Drag(ctx context.Context, sessionID string, dx, dy int) (*MoveResult, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	eng := sess.Engine
	if eng.Phase() == engine.PhaseGameOver {
		return nil, engine.ErrGameOver
	}

	before := eng.Score()
	var lastNumber int
	if last := eng.GetLastMove(); last != nil {
		lastNumber = last.MoveNumber
	}

	head := eng.Snapshot().Creature[0]
	eng.PointerDown(head.X, head.Y)
	eng.PointerMove(head.X+dx, head.Y+dy)
	eng.PointerUp(head.X+dx, head.Y+dy)
	eng.Advance(0)

	last := eng.GetLastMove()
	if last == nil || last.MoveNumber == lastNumber {
		state := buildState(eng)
		return &MoveResult{
			From:      head,
			To:        head,
			GameState: state,
			Message:   fmt.Sprintf("Drag of (%d,%d) did not cross half a tile; nothing moved", dx, dy),
		}, nil
	}

	res := engine.StepResult{
		Moved:     last.Success,
		Backtrack: last.Backtrack,
		From:      last.FromPosition,
		Target:    last.ToPosition,
		Reason:    last.Reason,
	}
	return moveResult(eng, res, before), nil
}

// Pointer feeds one pointer sample to the session's drag tracker
func (s *gameServiceImpl) Pointer(ctx context.Context, sessionID string, ev PointerEvent) (*GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	switch ev.Type {
	case PointerDown:
		sess.Engine.PointerDown(ev.X, ev.Y)
	case PointerMove:
		sess.Engine.PointerMove(ev.X, ev.Y)
	case PointerUp:
		sess.Engine.PointerUp(ev.X, ev.Y)
	default:
		return nil, fmt.Errorf("%w: type %q", ErrInvalidPointer, ev.Type)
	}
	return buildState(sess.Engine), nil
}

// Advance moves a manual-clock session forward by dt
func (s *gameServiceImpl) Advance(ctx context.Context, sessionID string, dt time.Duration) (*GameState, error) {
	if dt < 0 || dt > MaxAdvance {
		return nil, fmt.Errorf("%w: %v (must be between 0 and %v)", ErrInvalidDuration, dt, MaxAdvance)
	}
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	if !sess.ManualClock {
		return nil, ErrLiveClock
	}
	sess.Engine.Advance(dt)
	return buildState(sess.Engine), nil
}

// AdvanceLive runs one frame of dt on every session not in manual-clock
// mode and returns how many were advanced
func (s *gameServiceImpl) AdvanceLive(dt time.Duration) int {
	advanced := 0
	for _, sess := range s.sessions.List() {
		sess.Lock()
		if !sess.ManualClock {
			sess.Engine.Advance(dt)
			advanced++
			if s.notifier != nil && sess.Engine.Flashing() {
				s.notifier.Publish(Update{
					SessionID: sess.ID,
					Event:     EventFrame,
					Frame:     sess.Engine.Frame(),
				})
			}
		}
		sess.Unlock()
	}
	return advanced
}

// Restart resets a session to level 1
func (s *gameServiceImpl) Restart(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	sess.Engine.Restart()
	logger.Session(sessionID).Info("session restarted")
	return buildState(sess.Engine), nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*GameState, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return buildState(sess.Engine), nil
}

// GetFrame returns the current display list
func (s *gameServiceImpl) GetFrame(ctx context.Context, sessionID string) (*engine.DisplayList, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()
	return sess.Engine.Frame(), nil
}

// DescribeCell reports what occupies one grid cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, col, row int) (*engine.CellInfo, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	defer sess.Unlock()

	cell := engine.Cell{Col: col, Row: row}
	if !sess.Engine.Grid().InBounds(cell) {
		return nil, fmt.Errorf("%w: (%d,%d)", ErrCellOutOfBounds, col, row)
	}
	info := sess.Engine.DescribeCell(cell)
	return &info, nil
}

// GetMoveHistory retrieves paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	sess.Lock()
	history := sess.Engine.GetMoveHistory()
	sess.Unlock()
	total := len(history)

	// Apply defaults
	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	var moves []engine.MoveHistoryEntry
	if opts.Order == "desc" {
		// Most recent first
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = history[start:end]
	}

	if moves == nil {
		moves = []engine.MoveHistoryEntry{}
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	cfg := config.Clone()
	engine.ApplyDefaults(cfg)
	if err := engine.ValidateGameConfig(cfg); err != nil {
		return err
	}
	return s.configs.SaveConfig(configName, cfg)
}

// buildState snapshots the engine with client hints; callers hold the session lock
func buildState(eng *engine.GameEngine) *GameState {
	snap := eng.Snapshot()
	moves := eng.GetPossibleMoves()
	if moves == nil {
		moves = []engine.Direction{}
	}
	state := &GameState{
		Snapshot:      snap,
		PossibleMoves: moves,
		ZonesLeft:     len(snap.Zones),
	}
	state.Message = stateMessage(state)
	return state
}

func stateMessage(st *GameState) string {
	switch st.Phase {
	case engine.PhaseGameOver:
		return fmt.Sprintf("Game over! Final score: %d (reached level %d)", st.Score, st.Level)
	case engine.PhaseLevelComplete:
		return fmt.Sprintf("Level %d complete! Score: %d. Next level starts shortly", st.Level, st.Score)
	}
	return fmt.Sprintf("Level %d: %d zone(s) left, %ds remaining, score %d, gecko is %s",
		st.Level, st.ZonesLeft, st.TimeRemaining, st.Score, st.CreatureColor)
}

func moveMessage(r *MoveResult) string {
	if !r.Success {
		switch r.Reason {
		case engine.RejectBlocked:
			return "Blocked by a wall"
		case engine.RejectSelfOverlap:
			return "The gecko cannot move onto its own body"
		case engine.RejectInactive:
			return fmt.Sprintf("No moves while the game is %s", strings.ReplaceAll(string(r.GameState.Phase), "_", " "))
		}
		return "Move rejected"
	}

	var parts []string
	if r.Backtrack {
		parts = append(parts, "Backed up along the trail")
	} else {
		parts = append(parts, fmt.Sprintf("Moved to (%d,%d)", r.To.X, r.To.Y))
	}
	for _, c := range r.Collisions {
		if c.Kind == engine.CollisionMatch {
			parts = append(parts, fmt.Sprintf("matched the %s zone (+%d)", c.ZoneColor, c.ScoreDelta))
		} else {
			parts = append(parts, fmt.Sprintf("wrong color on the %s zone (%d)", c.ZoneColor, c.ScoreDelta))
		}
	}
	parts = append(parts, r.GameState.Message)
	return strings.Join(parts, "; ")
}
