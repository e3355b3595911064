// Package engine provides the core game logic for the Gecko Puzzle game.
//
// The engine package implements the game mechanics including:
//   - A bordered tile grid with wall and path cells
//   - A multi-segment gecko that moves one tile per drag, following its own path
//   - Colored goal zones that score on a matching overlap and penalize a mismatch
//   - A countdown timer, level transitions and game over
//   - Configuration loading, validation and procedural level layouts
//
// Core Types:
//
// The Engine interface defines the main contract for game operations,
// implemented by GameEngine. GameEngine is a scene controller: it owns the
// TileGrid, the GoalRegistry, the Creature and a virtual-clock Scheduler, and
// hands UI shells read-only Snapshot copies. GameConfig defines the rules and
// level layouts loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drive it from a frame loop
//	gameEngine.PointerDown(x, y)
//	gameEngine.PointerMove(x+30, y)
//	gameEngine.Advance(16 * time.Millisecond)
//	state := gameEngine.Snapshot()
//
// Frames:
//
// Advance runs, in order: due clock callbacks (countdown tick, flash revert,
// level advance), moves queued by pointer gestures, collision resolution,
// phase transitions, and finally listener notification. Move applies a step
// immediately and settles it the same way.
//
// Game Rules:
//
// The player drags the gecko's head to steer it across path tiles. Covering a
// goal zone of the gecko's color scores and removes it; covering a zone of
// another color costs points once per visit, never dropping the score below
// zero. Clearing every zone completes the level and earns a bonus; the next
// level starts after a short pause. The game ends when the countdown reaches
// zero with zones remaining.
package engine
