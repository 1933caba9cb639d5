// Package api exposes the dice chess service over HTTP.
//
// Endpoints:
//
// Sessions:
//   - POST /api/sessions - Create a session ({"config_id": "classic"})
//   - GET /api/sessions - List sessions (?sort=created|accessed&order=asc|desc&limit=N)
//   - GET /api/sessions/{id} - Get a session
//   - DELETE /api/sessions/{id} - Delete a session
//
// Turn commands:
//   - GET /api/sessions/{id}/state - Current game state
//   - GET /api/sessions/{id}/moves?file=F&rank=R - Preview moves for a square
//   - POST /api/sessions/{id}/roll - Roll the die
//   - POST /api/sessions/{id}/roll/complete - Finish the roll animation
//   - POST /api/sessions/{id}/select - Click a square ({"file": 4, "rank": 6})
//   - POST /api/sessions/{id}/move - Move the selected piece ({"file": 4, "rank": 4})
//   - POST /api/sessions/{id}/end-turn - Forfeit the remaining budget
//   - POST /api/sessions/{id}/reset - Start a new game in the same session
//
// Configuration:
//   - GET /api/configs - List configurations
//   - POST /api/configs - Save a configuration
//   - GET /api/configs/{name} - Get a configuration
//
// Other:
//   - GET /api/health - Liveness
//   - GET /ws?session={id} - WebSocket state updates
//
// Turn commands always answer 200 once the session is found. The body's
// "outcome" field is "applied", "ignored" (wrong phase) or "illegal"
// (destination not reachable). Errors are returned as {"error": "..."}.
package api
