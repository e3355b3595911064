// Package service provides the business logic layer for the Gecko Puzzle game.
//
// The service package implements:
//   - Multi-session game management
//   - Move, drag and pointer processing
//   - Manual and server-driven session clocks
//   - Move history pagination
//   - Configuration listing, loading and saving
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages game configuration loading and validation.
// Notifier receives state updates, animation frames and phase events.
//
// Architecture:
//
// The service layer sits between the transports (HTTP, WebSocket, MCP) and the
// engine. Each Session owns one engine and a lock; every engine call happens
// under that lock, so the engine itself stays single-threaded. Engine listener
// callbacks run under the same lock and forward to the Notifier.
//
// Clocks:
//
// Sessions created with ManualClock only advance through Advance. All other
// sessions are advanced by a Driver with real elapsed time on a fixed frame
// interval.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameServiceWithNotifier(sessionMgr, configMgr, hub)
//	go service.NewDriver(gameService, 50*time.Millisecond).Run(ctx)
//
//	info, err := gameService.CreateSession(ctx, "classic", service.SessionOptions{})
//	if err != nil {
//		log.Fatal(err)
//	}
//	result, err := gameService.Move(ctx, info.ID, "up")
package service
