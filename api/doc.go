// Package api provides HTTP REST API handlers for the Gecko Puzzle game.
//
// Endpoints:
//
// Sessions:
//   - POST   /api/sessions               - Create a session {config_id, manual_clock}
//   - GET    /api/sessions               - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET    /api/sessions/unified       - Sessions grouped for a multi-board view
//   - GET    /api/sessions/{id}          - Session info with state and config
//   - DELETE /api/sessions/{id}          - Delete a session
//
// Game Operations:
//   - GET  /api/sessions/{id}/state      - Current state
//   - GET  /api/sessions/{id}/frame      - Current display list
//   - GET  /api/sessions/{id}/cell       - Describe a tile (?col=&row=)
//   - GET  /api/sessions/{id}/history    - Move history (?page=&limit=&order=)
//   - POST /api/sessions/{id}/move       - One step {direction}
//   - POST /api/sessions/{id}/bulk-move  - Several steps {moves: [...]}
//   - POST /api/sessions/{id}/drag       - Drag the head by a pixel offset {dx, dy}
//   - POST /api/sessions/{id}/pointer    - Raw pointer sample {type, x, y}
//   - POST /api/sessions/{id}/advance    - Advance a manual clock {ms}
//   - POST /api/sessions/{id}/restart    - Restart from level one
//
// Configuration:
//   - GET  /api/configs                  - List configurations
//   - POST /api/configs                  - Save a configuration (?id= overrides the file name)
//   - GET  /api/configs/{name}           - Load one configuration
//
// Other:
//   - GET /api/health
//   - GET /ws?session={id}               - WebSocket updates for a session
//
// Errors are returned as JSON with a status derived from the service error:
//
//	{"error": "session not found: a1b2"}
//
// Unknown sessions and configurations map to 404, malformed input to 400,
// and operations the session cannot accept right now (advancing a live clock,
// dragging after game over) to 409.
package api
