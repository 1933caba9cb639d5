package main

import (
	"math/rand/v2"

	"github.com/wricardo/dicechess/game/engine"
)

var pieceValues = map[engine.PieceKind]int{
	engine.Pawn:   1,
	engine.Knight: 3,
	engine.Bishop: 3,
	engine.Rook:   5,
	engine.Queen:  9,
	engine.King:   1000,
}

// Choice is one planned piece move
type Choice struct {
	From  engine.Square
	Move  engine.Move
	score int
}

// GreedyStrategy picks the best single move for the side to play: a king
// capture wins outright, then the most valuable capture, then the move that
// spends the most budget. Ties are broken by rng when set, otherwise the first
// candidate in board order wins.
type GreedyStrategy struct {
	rng *rand.Rand
}

func NewGreedyStrategy(rng *rand.Rand) *GreedyStrategy {
	return &GreedyStrategy{rng: rng}
}

// NextMove returns false when no selectable piece can move within the budget
func (s *GreedyStrategy) NextMove(state *engine.GameState) (Choice, bool) {
	if state == nil || state.Board == nil || state.Phase != engine.AwaitingMove || state.MovesLeft <= 0 {
		return Choice{}, false
	}

	board := state.Board
	var best []Choice
	for _, p := range engine.MovablePieces(board, state.Turn) {
		for _, m := range engine.LegalMoves(p, board, state.MovesLeft) {
			c := Choice{From: p.Position, Move: m, score: scoreMove(board, m)}
			switch {
			case len(best) == 0 || c.score > best[0].score:
				best = append(best[:0], c)
			case c.score == best[0].score:
				best = append(best, c)
			}
		}
	}

	if len(best) == 0 {
		return Choice{}, false
	}
	if s.rng != nil && len(best) > 1 {
		return best[s.rng.IntN(len(best))], true
	}
	return best[0], true
}

func scoreMove(board *engine.Board, m engine.Move) int {
	score := m.Cost
	if m.Capture {
		if target := board.Get(m.To); target != nil {
			score += pieceValues[target.Kind] * 100
		}
	}
	return score
}
