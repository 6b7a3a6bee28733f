// Package api provides the HTTP REST API for Kalah sessions.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "kalah6"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/unified - Several sessions with rendered boards (?sessionIds=a,b or ?configName=kalah)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Game Operations:
//   - GET /api/sessions/{id}/state - Current snapshot
//   - GET /api/sessions/{id}/board - Text rendering of the board
//   - POST /api/sessions/{id}/move - Sow one pit ({"pit": 2, "reset": false})
//   - POST /api/sessions/{id}/bulk-move - Sow a sequence of pits ({"pits": [2, 5]})
//   - POST /api/sessions/{id}/click - Resolve a board click ({"x": 150, "y": 160})
//   - POST /api/sessions/{id}/reset - Restart the game
//   - GET /api/sessions/{id}/history - Paginated move history
//
// Configuration:
//   - GET /api/configs - List rule sets
//   - GET /api/configs/{name} - Get a rule set
//   - POST /api/configs - Save a rule set
//
// Pit numbers in move requests are own-row indices 0-5 for the player to
// move. Rejected moves answer 409, unknown sessions and rule sets 404.
//
// WebSocket:
//   - GET /ws?session={id} - Live state updates for one session
package api
