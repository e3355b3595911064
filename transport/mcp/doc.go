// Package mcp exposes the Gecko Puzzle game to AI agents over the Model
// Context Protocol.
//
// Client is a thin proxy: every tool call becomes a REST request against a
// running game server, so agents and human players share the same sessions.
//
// MCP Tools:
//   - create_session, list_sessions, get_session
//   - game_state: state plus a text map of the board
//   - move, bulk_move, drag: move the gecko
//   - wait: advance a manual-clock session
//   - restart, move_history, describe_cell
//   - list_configs, game_instructions
//
// Sessions created through create_session default to a manual clock, so the
// level timer only runs while the agent calls wait.
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
