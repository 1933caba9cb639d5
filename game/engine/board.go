package engine

import "strings"

// Board is the 8x8 grid. Pieces live in an arena; cells hold handles into it.
type Board struct {
	// Cells is indexed [rank][file]
	Cells  [BoardSize][BoardSize]PieceID `json:"cells"`
	Pieces []Piece                       `json:"pieces"`
}

// NewBoard returns an empty board
func NewBoard() *Board {
	return &Board{Pieces: []Piece{}}
}

// InBounds checks both coordinates are on the board
func (b *Board) InBounds(sq Square) bool {
	return sq.File >= 0 && sq.File < BoardSize && sq.Rank >= 0 && sq.Rank < BoardSize
}

// Piece resolves a handle. Returns nil for NoPiece or unknown handles.
func (b *Board) Piece(id PieceID) *Piece {
	if id <= NoPiece || int(id) > len(b.Pieces) {
		return nil
	}
	return &b.Pieces[id-1]
}

// Get returns the occupant of sq, or nil for empty and out-of-range squares
func (b *Board) Get(sq Square) *Piece {
	if !b.InBounds(sq) {
		return nil
	}
	return b.Piece(b.Cells[sq.Rank][sq.File])
}

// Place puts an existing piece on sq, overwriting the cell. Setup only. A
// different piece standing on sq is taken off the board, and the placed piece
// leaves its previous square.
func (b *Board) Place(sq Square, id PieceID) {
	if prev := b.Piece(b.Cells[sq.Rank][sq.File]); prev != nil && prev.ID != id {
		prev.Captured = true
	}
	p := b.Piece(id)
	if p != nil && p.Position != sq && b.onGrid(p) {
		b.Cells[p.Position.Rank][p.Position.File] = NoPiece
	}
	b.Cells[sq.Rank][sq.File] = id
	if p != nil {
		p.Position = sq
		p.Captured = false
	}
}

// onGrid reports whether the cell at the piece's position actually holds it
func (b *Board) onGrid(p *Piece) bool {
	return b.InBounds(p.Position) && b.Cells[p.Position.Rank][p.Position.File] == p.ID
}

// AddPiece creates a piece in the arena and places it on sq
func (b *Board) AddPiece(kind PieceKind, color Color, sq Square) PieceID {
	id := PieceID(len(b.Pieces) + 1)
	b.Pieces = append(b.Pieces, Piece{
		ID:    id,
		Kind:  kind,
		Color: color,
	})
	b.Place(sq, id)
	return id
}

// Move relocates the occupant of from to to and clears from. Whatever stood on
// to is detached from the grid and returned; the caller decides what a capture
// means.
func (b *Board) Move(from, to Square) PieceID {
	mover := b.Cells[from.Rank][from.File]
	detached := b.Cells[to.Rank][to.File]

	b.Cells[from.Rank][from.File] = NoPiece
	b.Cells[to.Rank][to.File] = mover
	if p := b.Piece(mover); p != nil {
		p.Position = to
	}
	return detached
}

// ActivePieces returns handles of all pieces still on the board. The grid is
// authoritative: an arena entry no cell points at is not active.
func (b *Board) ActivePieces() []*Piece {
	var active []*Piece
	for i := range b.Pieces {
		if !b.Pieces[i].Captured && b.onGrid(&b.Pieces[i]) {
			active = append(active, &b.Pieces[i])
		}
	}
	return active
}

// CountKings counts kings of a color still on the board
func (b *Board) CountKings(color Color) int {
	count := 0
	for _, p := range b.ActivePieces() {
		if p.Kind == King && p.Color == color {
			count++
		}
	}
	return count
}

// Render returns one string per rank using the layout alphabet
func (b *Board) Render() []string {
	rows := make([]string, 0, BoardSize)
	for rank := 0; rank < BoardSize; rank++ {
		var row strings.Builder
		for file := 0; file < BoardSize; file++ {
			row.WriteByte(PieceSymbol(b.Get(Sq(file, rank))))
		}
		rows = append(rows, row.String())
	}
	return rows
}

// Clone returns a deep copy of the board
func (b *Board) Clone() *Board {
	clone := &Board{
		Cells:  b.Cells,
		Pieces: make([]Piece, len(b.Pieces)),
	}
	copy(clone.Pieces, b.Pieces)
	return clone
}
