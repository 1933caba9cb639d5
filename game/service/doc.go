// Package service provides the business logic layer for dice chess.
//
// GameService sits between the transports (REST, WebSocket, MCP) and the
// engine. It owns session isolation, configuration lookup, and the host
// behaviors a config can switch on:
//
//   - auto_complete_roll: Roll also completes the roll, for hosts with no dice
//     animation
//   - auto_end_turn: a move that spends the last of the budget also ends the
//     turn
//
// Every turn command returns a CommandResult carrying the engine outcome
// (applied, ignored or illegal), a snapshot of the state, and the events the
// command produced, stamped with IDs for clients that replay them. Rejected
// commands are results, not errors; errors are reserved for missing sessions
// and configurations.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Roll(ctx, info.ID)
package service
