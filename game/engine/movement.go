package engine

type direction struct{ df, dr int }

var (
	rookDirections = []direction{
		{0, 1},
		{0, -1},
		{1, 0},
		{-1, 0},
	}
	bishopDirections = []direction{
		{1, 1},
		{1, -1},
		{-1, 1},
		{-1, -1},
	}
	knightOffsets = []direction{
		{1, 2},
		{1, -2},
		{-1, 2},
		{-1, -2},
		{2, 1},
		{2, -1},
		{-2, 1},
		{-2, -1},
	}
	// Queen and king share the rook-then-bishop order
	royalDirections = append(append([]direction{}, rookDirections...), bishopDirections...)
)

// LegalMoves enumerates the destinations reachable by piece within budget.
// Every candidate is clipped independently against budget; the order is the
// direction table order, then increasing distance.
func LegalMoves(piece *Piece, board *Board, budget int) []Move {
	if piece == nil || piece.Captured || budget <= 0 {
		return []Move{}
	}

	switch piece.Kind {
	case Pawn:
		return pawnMoves(piece, board, budget)
	case Knight:
		return stepMoves(piece, board, budget, knightOffsets, KnightCost)
	case King:
		return stepMoves(piece, board, budget, royalDirections, KingCost)
	case Rook:
		return slideMoves(piece, board, budget, rookDirections)
	case Bishop:
		return slideMoves(piece, board, budget, bishopDirections)
	case Queen:
		return slideMoves(piece, board, budget, royalDirections)
	default:
		return []Move{}
	}
}

// Forward returns the rank delta a pawn of color advances by
func Forward(color Color) int {
	if color == White {
		return -1
	}
	return 1
}

// StartRank returns the rank pawns of color start on
func StartRank(color Color) int {
	if color == White {
		return WhitePawnRank
	}
	return BlackPawnRank
}

func pawnMoves(piece *Piece, board *Board, budget int) []Move {
	moves := []Move{}
	forward := Forward(piece.Color)
	from := piece.Position

	one := from.Offset(0, forward)
	if board.InBounds(one) && board.Get(one) == nil {
		if PawnCost <= budget {
			moves = append(moves, Move{To: one, Cost: PawnCost})
		}

		two := from.Offset(0, 2*forward)
		if from.Rank == StartRank(piece.Color) && board.InBounds(two) && board.Get(two) == nil {
			if PawnDoubleCost <= budget {
				moves = append(moves, Move{To: two, Cost: PawnDoubleCost})
			}
		}
	}

	for _, df := range []int{1, -1} {
		target := from.Offset(df, forward)
		if !board.InBounds(target) {
			continue
		}
		occupant := board.Get(target)
		if occupant != nil && occupant.Color != piece.Color && PawnCost <= budget {
			moves = append(moves, Move{To: target, Cost: PawnCost, Capture: true})
		}
	}

	return moves
}

// stepMoves handles fixed-offset pieces. Nothing between source and
// destination is inspected.
func stepMoves(piece *Piece, board *Board, budget int, offsets []direction, cost int) []Move {
	moves := []Move{}
	if cost > budget {
		return moves
	}

	for _, off := range offsets {
		target := piece.Position.Offset(off.df, off.dr)
		if !board.InBounds(target) {
			continue
		}
		occupant := board.Get(target)
		if occupant != nil && occupant.Color == piece.Color {
			continue
		}
		moves = append(moves, Move{To: target, Cost: cost, Capture: occupant != nil})
	}

	return moves
}

// slideMoves walks each ray paying one point per square travelled
func slideMoves(piece *Piece, board *Board, budget int, dirs []direction) []Move {
	moves := []Move{}

	for _, dir := range dirs {
		for dist := 1; ; dist++ {
			target := piece.Position.Offset(dir.df*dist, dir.dr*dist)
			if !board.InBounds(target) {
				break
			}
			if dist > budget {
				break
			}

			occupant := board.Get(target)
			if occupant == nil {
				moves = append(moves, Move{To: target, Cost: dist})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, Move{To: target, Cost: dist, Capture: true})
			}
			break
		}
	}

	return moves
}

// FindMove looks up a destination in a move set
func FindMove(moves []Move, to Square) (Move, bool) {
	for _, m := range moves {
		if m.To == to {
			return m, true
		}
	}
	return Move{}, false
}
