// Package session provides in-memory session management for the Gecko Puzzle game.
//
// The session package implements:
//   - Thread-safe session storage and retrieval
//   - Unique session ID generation
//   - Session cleanup and expiration
//
// Manager stores service.Session values, each owning its own engine instance.
// Sessions use 4-character hex IDs, looked up case-insensitively. Nothing is
// written to disk: a restart of the server starts with no sessions.
//
// Concurrency:
//
// The manager's map is guarded by its own lock. The engine inside a session
// is guarded by the session's lock, which callers take around every engine
// call.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Periodically drop idle sessions
//	removed := manager.CleanupExpiredSessions(time.Hour)
package session
