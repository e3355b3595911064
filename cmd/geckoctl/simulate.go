package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/wricardo/gecko-puzzle/game/engine"
	"github.com/wricardo/gecko-puzzle/logger"
)

// Outcomes of a simulation run
const (
	OutcomeGameOver  = "game_over"
	OutcomeCleared   = "levels_cleared"
	OutcomeMoveLimit = "move_limit"
)

// SimulateOptions bounds a bot run
type SimulateOptions struct {
	Levels   int
	MaxMoves int
	Step     time.Duration
}

// LevelResult records the state at the moment a level was completed
type LevelResult struct {
	Level       int
	Moves       int
	Score       int
	SecondsLeft int
}

// SimulationResult summarizes a bot run
type SimulationResult struct {
	Config     string
	Outcome    string
	Levels     []LevelResult
	FinalScore int
	Decisions  int
	GameTime   time.Duration
}

// game is the surface the bot plays through: a local engine or a server session
type game interface {
	Snapshot(ctx context.Context) (engine.Snapshot, error)
	Move(ctx context.Context, dir engine.Direction) (engine.Snapshot, error)
	Advance(ctx context.Context, dt time.Duration) (engine.Snapshot, error)
}

// localGame drives an in-process engine
type localGame struct {
	eng *engine.GameEngine
}

func (g *localGame) Snapshot(ctx context.Context) (engine.Snapshot, error) {
	return g.eng.Snapshot(), nil
}

func (g *localGame) Move(ctx context.Context, dir engine.Direction) (engine.Snapshot, error) {
	g.eng.Apply(dir)
	return g.eng.Snapshot(), nil
}

func (g *localGame) Advance(ctx context.Context, dt time.Duration) (engine.Snapshot, error) {
	g.eng.Advance(dt)
	return g.eng.Snapshot(), nil
}

// planner picks the next step toward a zone of the creature's colour
type planner struct {
	config *engine.GameConfig
	grid   *engine.TileGrid
}

func newPlanner(config *engine.GameConfig) *planner {
	return &planner{
		config: config,
		grid:   engine.NewBorderedGrid(config.GridWidth, config.GridHeight, config.TileSize),
	}
}

// Next returns the first step of a shortest path from the head to a tile
// overlapping a zone of the creature's colour. Tiles touching zones of other
// colours are avoided when a clean path exists.
func (p *planner) Next(snap engine.Snapshot) (engine.Direction, bool) {
	if len(snap.Creature) == 0 || len(snap.Zones) == 0 {
		return "", false
	}

	var targets, others []engine.GoalZone
	for _, z := range snap.Zones {
		if z.Color == snap.CreatureColor {
			targets = append(targets, z)
		} else {
			others = append(others, z)
		}
	}
	if len(targets) == 0 {
		targets, others = snap.Zones, nil
	}

	if dir, ok := p.search(snap.Creature, targets, others); ok {
		return dir, true
	}
	return p.search(snap.Creature, targets, nil)
}

func (p *planner) search(body []engine.Position, targets, avoid []engine.GoalZone) (engine.Direction, bool) {
	goal := make(map[engine.Cell]bool)
	for _, z := range targets {
		for _, c := range zoneCells(p.config, p.grid, z.Position) {
			goal[c] = true
		}
	}
	closed := make(map[engine.Cell]bool)
	for _, pos := range body[1:] {
		closed[p.grid.CellOf(pos)] = true
	}
	for _, z := range avoid {
		for _, c := range zoneCells(p.config, p.grid, z.Position) {
			if !goal[c] {
				closed[c] = true
			}
		}
	}

	start := p.grid.CellOf(body[0])
	first := map[engine.Cell]engine.Direction{start: ""}
	queue := []engine.Cell{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if goal[current] && current != start {
			return first[current], true
		}

		for _, dir := range engine.Directions {
			dx, dy := dir.Offset()
			next := engine.Cell{Col: current.Col + dx, Row: current.Row + dy}
			if _, seen := first[next]; seen || closed[next] || !p.grid.IsTraversable(next) {
				continue
			}
			if current == start {
				first[next] = dir
			} else {
				first[next] = first[current]
			}
			queue = append(queue, next)
		}
	}
	return "", false
}

// simulate plays g until the game ends, enough levels are cleared, or the move budget runs out
func simulate(ctx context.Context, g game, config *engine.GameConfig, opts SimulateOptions) (*SimulationResult, error) {
	if opts.Step <= 0 {
		opts.Step = 250 * time.Millisecond
	}
	if opts.Levels < 1 {
		opts.Levels = 1
	}

	bot := newPlanner(config)
	result := &SimulationResult{Config: config.Name, Outcome: OutcomeMoveLimit}

	snap, err := g.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start := time.Duration(snap.ClockMillis) * time.Millisecond

	for result.Decisions < opts.MaxMoves {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch snap.Phase {
		case engine.PhaseGameOver:
			result.Outcome = OutcomeGameOver
		case engine.PhaseLevelComplete:
			result.Levels = append(result.Levels, LevelResult{
				Level:       snap.Level,
				Moves:       snap.LevelMoves,
				Score:       snap.Score,
				SecondsLeft: snap.TimeRemaining,
			})
			logger.Log.WithFields(logrus.Fields{
				"level": snap.Level,
				"score": snap.Score,
				"moves": snap.LevelMoves,
			}).Debug("bot cleared level")
			if len(result.Levels) >= opts.Levels {
				result.Outcome = OutcomeCleared
				break
			}
			snap, err = g.Advance(ctx, config.Timing.LevelAdvanceDelay())
			if err != nil {
				return nil, err
			}
			continue
		}
		if result.Outcome != OutcomeMoveLimit {
			break
		}

		result.Decisions++
		if dir, ok := bot.Next(snap); ok {
			if snap, err = g.Move(ctx, dir); err != nil {
				return nil, err
			}
		}
		if snap.Phase == engine.PhasePlaying {
			if snap, err = g.Advance(ctx, opts.Step); err != nil {
				return nil, err
			}
		}
	}

	result.FinalScore = snap.Score
	result.GameTime = time.Duration(snap.ClockMillis)*time.Millisecond - start
	return result, nil
}

func runSimulate(ctx context.Context, cmd *cli.Command) error {
	opts := SimulateOptions{
		Levels:   int(cmd.Int("levels")),
		MaxMoves: int(cmd.Int("max-moves")),
		Step:     cmd.Duration("step"),
	}
	name := cmd.Args().First()

	var (
		g      game
		config *engine.GameConfig
	)
	if url := cmd.String("url"); url != "" {
		client := newAPIClient(url)
		remote, err := client.startSession(ctx, name)
		if err != nil {
			return err
		}
		g, config = remote, remote.config
		logger.Session(remote.id).WithField("server", url).Info("playing remote session")
	} else {
		config = engine.DefaultConfig()
		if name != "" {
			files, err := configFiles(cmd.String("dir"), []string{name})
			if err != nil {
				return err
			}
			if config, err = loadConfig(files[0]); err != nil {
				return err
			}
		}
		eng, err := engine.NewEngine(config)
		if err != nil {
			return err
		}
		g, config = &localGame{eng: eng}, eng.GetConfig()
	}

	result, err := simulate(ctx, g, config, opts)
	if err != nil {
		return err
	}
	writeSimulation(cmd.Root().Writer, result)
	return nil
}

func writeSimulation(w io.Writer, r *SimulationResult) {
	fmt.Fprintf(w, "Config: %s\n", r.Config)
	for _, lvl := range r.Levels {
		fmt.Fprintf(w, "  Level %d cleared in %d moves with %ds left (score %d)\n", lvl.Level, lvl.Moves, lvl.SecondsLeft, lvl.Score)
	}
	fmt.Fprintf(w, "Outcome: %s after %d decisions and %s of game time\n", r.Outcome, r.Decisions, r.GameTime)
	fmt.Fprintf(w, "Final score: %d\n", r.FinalScore)
}
