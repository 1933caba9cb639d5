package engine

import (
	"fmt"
	"strings"
	"unicode"
)

var kindSymbols = map[PieceKind]byte{
	Pawn:   'p',
	Knight: 'n',
	Bishop: 'b',
	Rook:   'r',
	Queen:  'q',
	King:   'k',
}

// ParsePieceSymbol decodes a layout character. Uppercase is white.
func ParsePieceSymbol(char byte) (PieceKind, Color, bool) {
	lower := byte(unicode.ToLower(rune(char)))
	for kind, sym := range kindSymbols {
		if sym != lower {
			continue
		}
		if lower == char {
			return kind, Black, true
		}
		return kind, White, true
	}
	return "", "", false
}

// PieceSymbol encodes a piece for layouts and text boards. Nil renders as '.'.
func PieceSymbol(p *Piece) byte {
	if p == nil {
		return '.'
	}
	sym, ok := kindSymbols[p.Kind]
	if !ok {
		return '?'
	}
	if p.Color == White {
		return byte(unicode.ToUpper(rune(sym)))
	}
	return sym
}

// Title capitalises a color name for messages ("white" -> "White")
func Title(c Color) string {
	s := string(c)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CountPieces counts active pieces of a color
func CountPieces(board *Board, color Color) int {
	count := 0
	for _, p := range board.ActivePieces() {
		if p.Color == color {
			count++
		}
	}
	return count
}

// MovablePieces returns the pieces of color that can still be selected this turn
func MovablePieces(board *Board, color Color) []*Piece {
	var movable []*Piece
	for _, p := range board.ActivePieces() {
		if p.Color == color && !p.MovedThisTurn {
			movable = append(movable, p)
		}
	}
	return movable
}

// HasAnyMove reports whether any selectable piece of color has a legal move within budget
func HasAnyMove(board *Board, color Color, budget int) bool {
	for _, p := range MovablePieces(board, color) {
		if len(LegalMoves(p, board, budget)) > 0 {
			return true
		}
	}
	return false
}

// SquareName formats a square as "(file,rank)"
func SquareName(sq Square) string {
	return fmt.Sprintf("(%d,%d)", sq.File, sq.Rank)
}
