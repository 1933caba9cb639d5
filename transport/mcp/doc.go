// Package mcp exposes dice chess to AI agents over the Model Context Protocol.
//
// Client is a thin proxy: every tool call becomes one or more requests to the
// REST API, and the JSON answers are rendered as plain text boards and move
// lists that a language model can read.
//
// Tools:
//   - create_session, list_sessions, get_session
//   - game_state: board with rank 0 on top, turn, phase, dice and budget
//   - roll_dice: rolls and completes the roll in one call
//   - select_square: the raw click command
//   - move_piece: selects the from square and moves to the to square
//   - legal_moves: preview destinations and costs for a square
//   - end_turn, reset_game
//   - list_configs, game_instructions
//
// Usage:
//
//	client := mcp.NewClient("http://localhost:8080")
//	server.ServeStdio(client.GetMCPServer())
package mcp
