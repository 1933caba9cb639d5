// Package engine implements the rules of dice chess.
//
// A turn starts with a die roll. The rolled value is a movement budget that
// the side to move spends across one or more piece moves: knights cost 3,
// kings and pawn steps cost 1, the pawn double step costs 2, and sliding
// pieces pay one point per square travelled. Each piece moves at most once
// per turn. The game ends when a king is captured; there is no check.
//
// Core Types:
//
// Board holds an arena of pieces addressed by PieceID. LegalMoves is the pure
// move generator. GameEngine is the turn state machine and is driven by the
// commands RequestRoll, NotifyRollAnimationComplete, SelectSquare, AttemptMove
// and EndTurn. Every command returns a Result whose Outcome is applied,
// ignored or illegal; rejected commands never return errors.
//
// Usage:
//
//	dice, _ := engine.NewSequenceDice(6)
//	game, err := engine.NewEngineWithDice(engine.DefaultConfig(), dice)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game.RequestRoll()
//	game.NotifyRollAnimationComplete()
//	game.SelectSquare(engine.Sq(4, 6))
//	res := game.SelectSquare(engine.Sq(4, 4))
//	if res.Accepted() && game.GetState().TurnShouldEnd {
//		game.EndTurn()
//	}
//
// RollAnimating is a hold state owned by the host: the engine waits there
// until NotifyRollAnimationComplete is called. Likewise TurnShouldEnd only
// signals that the budget is spent; the host calls EndTurn when it is ready.
package engine
