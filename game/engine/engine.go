package engine

import "time"

// Engine provides the main interface for game operations
type Engine interface {
	Drawable
	Tickable
	InputReceiver

	// Game state
	Snapshot() Snapshot
	Phase() Phase
	Score() int
	Level() int
	TimeRemaining() int
	Restart()

	// Movement operations
	Move(dir Direction) bool
	Apply(dir Direction) StepResult
	CanMove(dir Direction) bool
	GetPossibleMoves() []Direction

	// Configuration
	GetConfig() *GameConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Observation
	Subscribe(l Listener)
	DescribeCell(c Cell) CellInfo
	Frame() *DisplayList
}

// Listener receives UI shell events. Callbacks run on the engine's goroutine
// and must not block.
type Listener interface {
	OnStateChange(s Snapshot)
	OnGameOver(finalScore int)
	OnLevelComplete(level int)
}

// ListenerFuncs adapts plain functions to Listener; nil fields are skipped
type ListenerFuncs struct {
	StateChange   func(Snapshot)
	GameOver      func(int)
	LevelComplete func(int)
}

func (f ListenerFuncs) OnStateChange(s Snapshot) {
	if f.StateChange != nil {
		f.StateChange(s)
	}
}

func (f ListenerFuncs) OnGameOver(score int) {
	if f.GameOver != nil {
		f.GameOver(score)
	}
}

func (f ListenerFuncs) OnLevelComplete(level int) {
	if f.LevelComplete != nil {
		f.LevelComplete(level)
	}
}

// CellInfo describes what sits on one grid cell
type CellInfo struct {
	Cell      Cell     `json:"cell"`
	Position  Position `json:"position"`
	Kind      TileKind `json:"kind"`
	Segment   int      `json:"segment"`
	ZoneID    string   `json:"zone_id,omitempty"`
	ZoneColor Color    `json:"zone_color,omitempty"`
}

// maxPendingMoves bounds pointer moves queued between frames
const maxPendingMoves = 8

type shellEvent struct {
	gameOver bool
	value    int
}

// GameEngine is the scene controller. It owns the grid, the goal registry,
// the creature, the virtual clock and the phase machine. It is not safe for
// concurrent use; callers serialize access.
type GameEngine struct {
	config   *GameConfig
	grid     *TileGrid
	clock    *Scheduler
	resolver *Resolver

	creature *Creature
	goals    *GoalRegistry

	score         int
	level         int
	timeRemaining int
	phase         Phase

	flash        FlashKind
	flashStarted time.Duration
	flashTask    TaskID
	tickTask     TaskID
	advanceTask  TaskID

	gesture *DragGesture
	pending []Direction

	history        []MoveHistoryEntry
	attempts       int
	totalMoves     int
	levelMoves     int
	lastCollisions []CollisionEvent

	revision  uint64
	notified  uint64
	listeners []Listener
	events    []shellEvent
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	if config == nil {
		config = DefaultConfig()
	}
	cfg := config.Clone()
	ApplyDefaults(cfg)
	if err := ValidateGameConfig(cfg); err != nil {
		return nil, err
	}

	e := &GameEngine{
		config:   cfg,
		grid:     NewBorderedGrid(cfg.GridWidth, cfg.GridHeight, cfg.TileSize),
		clock:    NewScheduler(),
		resolver: NewResolver(cfg.TileSize, cfg.ZoneSize, cfg.Scoring),
	}
	e.startLevel(1)
	e.settle()
	return e, nil
}

// NewEngineWithDefaults creates a new game engine with the classic configuration
func NewEngineWithDefaults() *GameEngine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic("default config is invalid: " + err.Error())
	}
	return e
}

// Subscribe registers a listener for state and phase events
func (e *GameEngine) Subscribe(l Listener) {
	e.listeners = append(e.listeners, l)
}

// Advance runs one frame: clock callbacks, queued input, collisions,
// transitions, then listener notification. Input queued in a frame whose
// clock ran the timer out is dropped.
func (e *GameEngine) Advance(dt time.Duration) {
	e.clock.Advance(dt)

	pending := e.pending
	e.pending = nil
	for _, dir := range pending {
		if e.phase != PhasePlaying || e.timeRemaining <= 0 {
			break
		}
		e.applyMove(dir)
		e.settle()
	}

	e.settle()
	e.notify()
}

// Move attempts one step immediately and settles its consequences
func (e *GameEngine) Move(dir Direction) bool {
	return e.Apply(dir).Moved
}

// Apply is Move with the full step outcome
func (e *GameEngine) Apply(dir Direction) StepResult {
	if e.phase != PhasePlaying {
		head := e.creature.Head()
		return StepResult{From: head, Target: head, Reason: RejectInactive}
	}
	res := e.applyMove(dir)
	e.settle()
	e.notify()
	return res
}

// CanMove reports whether a move in dir would currently be accepted
func (e *GameEngine) CanMove(dir Direction) bool {
	if e.phase != PhasePlaying {
		return false
	}
	return e.creature.Clone().AttemptMove(e.grid, dir)
}

// GetPossibleMoves returns all valid directions the creature can move
func (e *GameEngine) GetPossibleMoves() []Direction {
	var possible []Direction
	for _, dir := range Directions {
		if e.CanMove(dir) {
			possible = append(possible, dir)
		}
	}
	return possible
}

// PointerDown begins a drag when pressed inside the head tile
func (e *GameEngine) PointerDown(x, y int) {
	if e.phase != PhasePlaying {
		return
	}
	if e.creature.HeadContains(e.grid, x, y) {
		e.gesture = NewDragGesture(x, y, e.grid.TileSize())
	}
}

// PointerMove tracks the active drag and queues its move once the threshold is crossed
func (e *GameEngine) PointerMove(x, y int) {
	if e.gesture == nil || e.phase != PhasePlaying {
		return
	}
	if dir, ok := e.gesture.Move(x, y); ok {
		e.queue(dir)
	}
}

// PointerUp ends the active drag
func (e *GameEngine) PointerUp(x, y int) {
	if e.gesture == nil {
		return
	}
	if dir, ok := e.gesture.Release(x, y); ok && e.phase == PhasePlaying {
		e.queue(dir)
	}
	e.gesture = nil
}

// Dragging reports whether a pointer gesture is in progress
func (e *GameEngine) Dragging() bool {
	return e.gesture != nil
}

func (e *GameEngine) queue(dir Direction) {
	if len(e.pending) < maxPendingMoves {
		e.pending = append(e.pending, dir)
	}
}

// Restart cancels everything pending and starts over at level 1 with score 0
func (e *GameEngine) Restart() {
	e.clock.CancelAll()
	e.flash = FlashNone
	e.flashTask, e.tickTask, e.advanceTask = 0, 0, 0
	e.score = 0
	e.totalMoves = 0
	e.events = nil
	e.startLevel(1)
	e.settle()
	e.notify()
}

func (e *GameEngine) startLevel(level int) {
	e.clock.Cancel(e.tickTask)
	e.clock.Cancel(e.advanceTask)
	e.advanceTask = 0

	layout := e.config.LevelLayout(level)
	e.level = level
	e.creature = buildCreature(e.config, e.grid, layout)
	e.goals = NewGoalRegistry(layout.Zones)
	e.resolver.Reset()
	e.timeRemaining = e.config.LevelSeconds
	e.phase = PhasePlaying
	e.levelMoves = 0
	e.lastCollisions = nil
	e.pending = nil
	e.gesture = nil
	e.tickTask = e.clock.Every(e.config.Timing.TickInterval(), e.onTick)
	e.bump()
}

func (e *GameEngine) onTick() {
	if e.phase != PhasePlaying || e.timeRemaining <= 0 {
		return
	}
	e.timeRemaining--
	e.bump()
}

func (e *GameEngine) applyMove(dir Direction) StepResult {
	res := e.creature.Step(e.grid, dir)
	if res.Moved {
		e.lastCollisions = nil
		e.totalMoves++
		e.levelMoves++
		e.bump()
	}
	e.recordMove(dir, res)
	return res
}

// settle resolves collisions and applies phase transitions
func (e *GameEngine) settle() {
	if e.phase != PhasePlaying {
		return
	}

	score, events := e.resolver.Resolve(e.creature, e.goals, e.score)
	if len(events) > 0 {
		e.score = score
		e.lastCollisions = events
		kind := FlashFailure
		for _, ev := range events {
			if ev.Kind == CollisionMatch {
				kind = FlashSuccess
				break
			}
		}
		e.setFlash(kind)
	}

	if e.goals.IsEmpty() {
		e.completeLevel()
	} else if e.timeRemaining <= 0 {
		e.endGame()
	}
}

func (e *GameEngine) completeLevel() {
	e.phase = PhaseLevelComplete
	e.score += e.config.Scoring.LevelBonus
	e.clock.Cancel(e.tickTask)
	e.tickTask = 0
	e.pending = nil
	e.gesture = nil
	e.setFlash(FlashLevel)

	next := e.level + 1
	e.advanceTask = e.clock.After(e.config.Timing.LevelAdvanceDelay(), func() {
		e.startLevel(next)
	})
	e.events = append(e.events, shellEvent{value: e.level})
	e.bump()
}

func (e *GameEngine) endGame() {
	e.phase = PhaseGameOver
	e.clock.CancelAll()
	e.flash = FlashNone
	e.flashTask, e.tickTask, e.advanceTask = 0, 0, 0
	e.pending = nil
	e.gesture = nil
	e.events = append(e.events, shellEvent{gameOver: true, value: e.score})
	e.bump()
}

// setFlash starts a flash and schedules its revert, replacing any pending revert
func (e *GameEngine) setFlash(kind FlashKind) {
	e.clock.Cancel(e.flashTask)
	e.flash = kind
	e.flashStarted = e.clock.Now()
	e.flashTask = e.clock.After(e.config.Timing.FlashDuration(), func() {
		e.flash = FlashNone
		e.flashTask = 0
		e.bump()
	})
	e.bump()
}

func (e *GameEngine) bump() {
	e.revision++
}

// notify fires OnStateChange when the revision moved, then queued phase events
func (e *GameEngine) notify() {
	events := e.events
	e.events = nil

	if e.revision != e.notified {
		e.notified = e.revision
		if len(e.listeners) > 0 {
			snap := e.Snapshot()
			for _, l := range e.listeners {
				l.OnStateChange(snap)
			}
		}
	}

	for _, ev := range events {
		for _, l := range e.listeners {
			if ev.gameOver {
				l.OnGameOver(ev.value)
			} else {
				l.OnLevelComplete(ev.value)
			}
		}
	}
}

func (e *GameEngine) recordMove(dir Direction, res StepResult) {
	e.attempts++
	to := res.From
	if res.Moved {
		to = e.creature.Head()
	}
	entry := MoveHistoryEntry{
		Action:       dir,
		FromPosition: res.From,
		ToPosition:   to,
		Level:        e.level,
		Score:        e.score,
		Timestamp:    e.clock.Now().Milliseconds(),
		Success:      res.Moved,
		Backtrack:    res.Backtrack,
		Reason:       res.Reason,
		MoveNumber:   e.attempts,
	}
	e.history = append(e.history, entry)
	if len(e.history) > MaxHistoryEntries {
		e.history = e.history[len(e.history)-MaxHistoryEntries:]
	}
}

// Snapshot returns a copy of the current state
func (e *GameEngine) Snapshot() Snapshot {
	return Snapshot{
		Score:          e.score,
		Level:          e.level,
		TimeRemaining:  e.timeRemaining,
		Phase:          e.phase,
		Creature:       e.creature.Segments(),
		CreatureColor:  e.creature.Color(),
		Zones:          e.goals.Zones(),
		Flash:          e.flash,
		ConfigName:     e.config.Name,
		GridWidth:      e.grid.Width(),
		GridHeight:     e.grid.Height(),
		TileSize:       e.grid.TileSize(),
		TotalMoves:     e.totalMoves,
		LevelMoves:     e.levelMoves,
		Revision:       e.revision,
		ClockMillis:    e.Elapsed().Milliseconds(),
		LastCollisions: append([]CollisionEvent(nil), e.lastCollisions...),
	}
}

// Phase returns the current phase
func (e *GameEngine) Phase() Phase {
	return e.phase
}

// Score returns the current score
func (e *GameEngine) Score() int {
	return e.score
}

// Level returns the 1-based level number
func (e *GameEngine) Level() int {
	return e.level
}

// TimeRemaining returns the countdown in seconds
func (e *GameEngine) TimeRemaining() int {
	return e.timeRemaining
}

// Revision increases whenever observable state changes
func (e *GameEngine) Revision() uint64 {
	return e.revision
}

// Elapsed returns the virtual time since the engine was created
func (e *GameEngine) Elapsed() time.Duration {
	return e.clock.Now()
}

// Flashing reports whether a flash tint is currently applied
func (e *GameEngine) Flashing() bool {
	return e.flash != FlashNone
}

// Grid returns the static board
func (e *GameEngine) Grid() *TileGrid {
	return e.grid
}

// GetConfig returns a copy of the game configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config.Clone()
}

// GetMoveHistory returns the recorded move attempts, oldest first
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return append([]MoveHistoryEntry(nil), e.history...)
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	last := e.history[len(e.history)-1]
	return &last
}

// BulkMove executes moves in sequence until one is rejected by a phase change
func (e *GameEngine) BulkMove(moves []Direction) []bool {
	results := make([]bool, 0, len(moves))
	for _, dir := range moves {
		if e.phase != PhasePlaying {
			break
		}
		results = append(results, e.Move(dir))
	}
	return results
}

// DescribeCell reports the tile kind, creature segment and zone at a cell
func (e *GameEngine) DescribeCell(c Cell) CellInfo {
	pos := e.grid.Center(c)
	info := CellInfo{
		Cell:     c,
		Position: pos,
		Kind:     e.grid.Kind(c),
		Segment:  indexOf(e.creature.segments, pos),
	}
	for _, zone := range e.goals.Zones() {
		if SquareAt(zone.Position, e.config.ZoneSize).Contains(pos.X, pos.Y) {
			info.ZoneID = zone.ID
			info.ZoneColor = zone.Color
			break
		}
	}
	return info
}
