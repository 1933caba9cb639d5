package engine

// Color identifies a side
type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// Opponent returns the other side
func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Valid reports whether c names a side
func (c Color) Valid() bool {
	return c == White || c == Black
}

// PieceKind is the closed set of piece types
type PieceKind string

const (
	Pawn   PieceKind = "pawn"
	Knight PieceKind = "knight"
	Bishop PieceKind = "bishop"
	Rook   PieceKind = "rook"
	Queen  PieceKind = "queen"
	King   PieceKind = "king"
)

// Phase is the turn state machine position
type Phase string

const (
	AwaitingRoll  Phase = "awaiting_roll"
	RollAnimating Phase = "roll_animating"
	AwaitingMove  Phase = "awaiting_move"
	GameOver      Phase = "game_over"
)

const (
	BoardSize = 8

	// Die faces
	MinDice = 1
	MaxDice = 6

	KnightCost = 3
	KingCost   = 1
	PawnCost   = 1
	// Two-step pawn opening
	PawnDoubleCost = 2

	WhitePawnRank = 6
	BlackPawnRank = 1
)

// Square is a board coordinate. (0,0) is the top-left corner for both sides.
type Square struct {
	File int `json:"file"`
	Rank int `json:"rank"`
}

// Sq is shorthand for Square{File: file, Rank: rank}
func Sq(file, rank int) Square {
	return Square{File: file, Rank: rank}
}

// Offset returns the square shifted by (df, dr)
func (s Square) Offset(df, dr int) Square {
	return Square{File: s.File + df, Rank: s.Rank + dr}
}

// PieceID is a handle into the board's piece arena. Zero means no piece.
type PieceID int

const NoPiece PieceID = 0

// Piece is a single chess piece
type Piece struct {
	ID            PieceID   `json:"id"`
	Kind          PieceKind `json:"kind"`
	Color         Color     `json:"color"`
	Position      Square    `json:"position"`
	HasMoved      bool      `json:"has_moved"`
	MovedThisTurn bool      `json:"moved_this_turn"`
	Captured      bool      `json:"captured,omitempty"`
}

// Move is a candidate destination for the selected piece
type Move struct {
	To      Square `json:"to"`
	Cost    int    `json:"cost"`
	Capture bool   `json:"capture,omitempty"`
}

// Message keys understood in GameConfig.Messages
const (
	MsgWelcome     = "welcome"
	MsgRolled      = "rolled"
	MsgTurnStart   = "turn_start"
	MsgNoMovesLeft = "no_moves_left"
	MsgGameOver    = "game_over"
	MsgIllegalMove = "illegal_move"
)

// GameConfig represents the game configuration from JSON
type GameConfig struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Layout      []string `json:"layout"`
	FirstTurn   Color    `json:"first_turn,omitempty"`

	// AutoEndTurn makes the service end the turn as soon as the budget is spent.
	AutoEndTurn bool `json:"auto_end_turn"`
	// AutoCompleteRoll skips the roll_animating hold for hosts with no animation.
	AutoCompleteRoll bool `json:"auto_complete_roll"`

	Messages map[string]string `json:"messages,omitempty"`
}

// GameState represents the complete game state
type GameState struct {
	Board         *Board  `json:"board"`
	Turn          Color   `json:"turn"`
	Phase         Phase   `json:"phase"`
	DiceValue     int     `json:"dice_value"`
	MovesLeft     int     `json:"moves_left"`
	SelectedPiece PieceID `json:"selected_piece"`
	LegalMoves    []Move  `json:"legal_moves"`
	Winner        Color   `json:"winner,omitempty"`

	// TurnShouldEnd is raised when the budget reaches zero. The host ends the
	// turn after its own delay.
	TurnShouldEnd bool `json:"turn_should_end"`

	TurnNumber int    `json:"turn_number"`
	Message    string `json:"message"`
	ConfigName string `json:"config_name"`

	// Computed helper views (not required for core game logic)
	BoardRows []string `json:"board_rows,omitempty"`
}

// Outcome classifies the result of a command
type Outcome string

const (
	Applied Outcome = "applied"
	// Ignored is returned for commands issued in the wrong phase.
	Ignored Outcome = "ignored"
	// Illegal is returned for a destination outside the legal set.
	Illegal Outcome = "illegal"
)

// EventType names a state change surfaced to the presentation layer
type EventType string

const (
	EventRolled           EventType = "rolled"
	EventRollComplete     EventType = "roll_complete"
	EventSelectionChanged EventType = "selection_changed"
	EventSelectionCleared EventType = "selection_cleared"
	EventMoveExecuted     EventType = "move_executed"
	EventTurnExhausted    EventType = "turn_exhausted"
	EventTurnEnded        EventType = "turn_ended"
	EventGameOver         EventType = "game_over"
)

// Event describes one state change produced by a command
type Event struct {
	Type     EventType `json:"type"`
	Piece    PieceID   `json:"piece,omitempty"`
	From     *Square   `json:"from,omitempty"`
	To       *Square   `json:"to,omitempty"`
	Cost     int       `json:"cost,omitempty"`
	Captured *Piece    `json:"captured,omitempty"`
	Dice     int       `json:"dice,omitempty"`
	Color    Color     `json:"color,omitempty"`
}

// Result is returned by every engine command
type Result struct {
	Outcome Outcome `json:"outcome"`
	Reason  string  `json:"reason,omitempty"`
	Events  []Event `json:"events,omitempty"`
}

// Accepted reports whether the command changed state
func (r Result) Accepted() bool {
	return r.Outcome == Applied
}
