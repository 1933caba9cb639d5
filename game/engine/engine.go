package engine

import "fmt"

// Engine provides the main interface for game operations
type Engine interface {
	// Game state management
	GetState() *GameState
	SetState(state *GameState) error
	Reset() *GameState
	IsGameOver() bool

	// Commands
	RequestRoll() Result
	NotifyRollAnimationComplete() Result
	SelectSquare(sq Square) Result
	AttemptMove(sq Square) Result
	EndTurn() Result

	// Queries
	GetBoard() *Board
	Turn() Color
	Phase() Phase
	DiceValue() int
	MovesLeft() int
	SelectedPiece() *Piece
	LegalMoves() []Move
	Winner() Color
	PieceAt(sq Square) *Piece
	MovesFor(sq Square) []Move

	// Configuration
	GetConfig() *GameConfig
}

// GameEngine implements the Engine interface. It is not safe for concurrent
// use; callers serialize access.
type GameEngine struct {
	state    *GameState
	config   *GameConfig
	messages map[string]string
	dice     DiceSource
}

// NewEngine creates a new game engine with the provided configuration
func NewEngine(config *GameConfig) (*GameEngine, error) {
	return NewEngineWithDice(config, RandomDice{})
}

// NewEngineWithDice creates a game engine that draws rolls from dice
func NewEngineWithDice(config *GameConfig, dice DiceSource) (*GameEngine, error) {
	if err := ValidateGameConfig(config); err != nil {
		return nil, err
	}
	if dice == nil {
		dice = RandomDice{}
	}

	engine := &GameEngine{
		config:   config,
		messages: ResolveMessages(config),
		dice:     dice,
		state:    InitGameStateFromConfig(config),
	}
	if err := checkSetup(engine.state.Board); err != nil {
		return nil, err
	}

	return engine, nil
}

// NewEngineFromBoard starts a game on a hand-built position
func NewEngineFromBoard(board *Board, firstTurn Color, dice DiceSource) (*GameEngine, error) {
	if err := checkSetup(board); err != nil {
		return nil, err
	}
	if !firstTurn.Valid() {
		firstTurn = White
	}
	if dice == nil {
		dice = RandomDice{}
	}

	config := &GameConfig{
		Name:        "Custom",
		Description: "Hand-built position",
		Layout:      board.Render(),
		FirstTurn:   firstTurn,
	}
	state := InitGameStateFromConfig(config)
	state.Board = board

	return &GameEngine{
		config:   config,
		messages: ResolveMessages(config),
		dice:     dice,
		state:    state,
	}, nil
}

// SetDice replaces the dice source
func (e *GameEngine) SetDice(dice DiceSource) {
	if dice != nil {
		e.dice = dice
	}
}

// GetState returns the current game state
func (e *GameEngine) GetState() *GameState {
	return e.state
}

// SetState sets the game state (used for persistence loading)
func (e *GameEngine) SetState(state *GameState) error {
	if state == nil {
		return fmt.Errorf("state cannot be nil")
	}
	if state.Board == nil {
		return fmt.Errorf("state board cannot be nil")
	}
	if state.Phase != GameOver {
		if err := checkSetup(state.Board); err != nil {
			return err
		}
	}
	if state.LegalMoves == nil {
		state.LegalMoves = []Move{}
	}
	e.state = state
	return nil
}

// Reset starts a new game from the same configuration
func (e *GameEngine) Reset() *GameState {
	e.state = InitGameStateFromConfig(e.config)
	return e.state
}

// GetConfig returns the current configuration
func (e *GameEngine) GetConfig() *GameConfig {
	return e.config
}

// GetBoard returns the live board
func (e *GameEngine) GetBoard() *Board {
	return e.state.Board
}

// Turn returns the side to move
func (e *GameEngine) Turn() Color {
	return e.state.Turn
}

// Phase returns the current phase
func (e *GameEngine) Phase() Phase {
	return e.state.Phase
}

// DiceValue returns the last roll, 0 when unset
func (e *GameEngine) DiceValue() int {
	return e.state.DiceValue
}

// MovesLeft returns the remaining budget this turn
func (e *GameEngine) MovesLeft() int {
	return e.state.MovesLeft
}

// SelectedPiece returns the selection or nil
func (e *GameEngine) SelectedPiece() *Piece {
	return e.state.Board.Piece(e.state.SelectedPiece)
}

// LegalMoves returns the last computed move set for the selection
func (e *GameEngine) LegalMoves() []Move {
	return e.state.LegalMoves
}

// Winner returns the winning color once the game is over
func (e *GameEngine) Winner() Color {
	return e.state.Winner
}

// IsGameOver returns whether the game is over
func (e *GameEngine) IsGameOver() bool {
	return e.state.Phase == GameOver
}

// PieceAt returns the occupant of sq
func (e *GameEngine) PieceAt(sq Square) *Piece {
	return e.state.Board.Get(sq)
}

// MovesFor previews the moves of the piece on sq against the current budget
// without touching the selection.
func (e *GameEngine) MovesFor(sq Square) []Move {
	return LegalMoves(e.state.Board.Get(sq), e.state.Board, e.state.MovesLeft)
}

// RequestRoll draws a die value and enters the roll animation hold
func (e *GameEngine) RequestRoll() Result {
	if e.state.Phase != AwaitingRoll {
		return ignored("roll requires phase %s, current phase is %s", AwaitingRoll, e.state.Phase)
	}

	value := e.dice.Roll()
	if value < MinDice || value > MaxDice {
		return ignored("dice source produced %d, outside [%d,%d]", value, MinDice, MaxDice)
	}

	e.state.DiceValue = value
	e.state.Phase = RollAnimating
	e.state.TurnShouldEnd = false
	e.state.Message = fmt.Sprintf(e.messages[MsgRolled], value)

	return applied(Event{Type: EventRolled, Dice: value, Color: e.state.Turn})
}

// NotifyRollAnimationComplete grants the rolled budget
func (e *GameEngine) NotifyRollAnimationComplete() Result {
	if e.state.Phase != RollAnimating {
		return ignored("roll completion requires phase %s, current phase is %s", RollAnimating, e.state.Phase)
	}

	e.state.MovesLeft = e.state.DiceValue
	e.state.Phase = AwaitingMove

	return applied(Event{Type: EventRollComplete, Dice: e.state.DiceValue, Color: e.state.Turn})
}

// SelectSquare selects an own unmoved piece, or forwards to AttemptMove when
// a selection exists, or clears the selection.
func (e *GameEngine) SelectSquare(sq Square) Result {
	if e.state.Phase != AwaitingMove {
		return ignored("select requires phase %s, current phase is %s", AwaitingMove, e.state.Phase)
	}

	board := e.state.Board
	if !board.InBounds(sq) {
		return e.clearSelection()
	}

	if p := board.Get(sq); p != nil && p.Color == e.state.Turn && !p.MovedThisTurn {
		e.state.SelectedPiece = p.ID
		e.state.LegalMoves = LegalMoves(p, board, e.state.MovesLeft)
		from := p.Position
		return applied(Event{Type: EventSelectionChanged, Piece: p.ID, From: &from, Color: p.Color})
	}

	if e.state.SelectedPiece != NoPiece {
		return e.AttemptMove(sq)
	}

	return e.clearSelection()
}

// AttemptMove executes the selected piece's move to sq if it is in the last
// computed legal set.
func (e *GameEngine) AttemptMove(sq Square) Result {
	if e.state.Phase != AwaitingMove {
		return ignored("move requires phase %s, current phase is %s", AwaitingMove, e.state.Phase)
	}

	board := e.state.Board
	piece := board.Piece(e.state.SelectedPiece)
	if piece == nil {
		return ignored("no piece selected")
	}

	move, ok := FindMove(e.state.LegalMoves, sq)
	if !ok {
		e.state.Message = e.messages[MsgIllegalMove]
		return Result{
			Outcome: Illegal,
			Reason:  fmt.Sprintf("%s %s cannot reach %s with %d moves left", piece.Color, piece.Kind, SquareName(sq), e.state.MovesLeft),
		}
	}

	from := piece.Position
	to := move.To
	moved := Event{Type: EventMoveExecuted, Piece: piece.ID, From: &from, To: &to, Cost: move.Cost, Color: piece.Color}

	if capturedID := board.Move(from, to); capturedID != NoPiece {
		captured := board.Piece(capturedID)
		captured.Captured = true
		snapshot := *captured
		moved.Captured = &snapshot

		if captured.Kind == King {
			e.state.Phase = GameOver
			e.state.Winner = piece.Color
			e.state.MovesLeft = 0
			e.state.SelectedPiece = NoPiece
			e.state.LegalMoves = []Move{}
			e.state.TurnShouldEnd = false
			e.state.Message = fmt.Sprintf(e.messages[MsgGameOver], Title(piece.Color))
			return applied(moved, Event{Type: EventGameOver, Color: piece.Color})
		}
	}

	piece.HasMoved = true
	piece.MovedThisTurn = true
	e.state.MovesLeft -= move.Cost
	e.state.SelectedPiece = NoPiece
	e.state.LegalMoves = []Move{}

	result := applied(moved)
	if e.state.MovesLeft <= 0 {
		e.state.MovesLeft = 0
		e.state.TurnShouldEnd = true
		e.state.Message = e.messages[MsgNoMovesLeft]
		result.Events = append(result.Events, Event{Type: EventTurnExhausted, Color: piece.Color})
	}

	return result
}

// EndTurn hands the move to the other side. Remaining budget is forfeited.
func (e *GameEngine) EndTurn() Result {
	if e.state.Phase != AwaitingMove {
		return ignored("end turn requires phase %s, current phase is %s", AwaitingMove, e.state.Phase)
	}

	for i := range e.state.Board.Pieces {
		e.state.Board.Pieces[i].MovedThisTurn = false
	}

	e.state.Turn = e.state.Turn.Opponent()
	e.state.SelectedPiece = NoPiece
	e.state.LegalMoves = []Move{}
	e.state.DiceValue = 0
	e.state.MovesLeft = 0
	e.state.TurnShouldEnd = false
	e.state.TurnNumber++
	e.state.Phase = AwaitingRoll
	e.state.Message = fmt.Sprintf(e.messages[MsgTurnStart], Title(e.state.Turn))

	return applied(Event{Type: EventTurnEnded, Color: e.state.Turn})
}

func (e *GameEngine) clearSelection() Result {
	e.state.SelectedPiece = NoPiece
	e.state.LegalMoves = []Move{}
	return applied(Event{Type: EventSelectionCleared, Color: e.state.Turn})
}

func applied(events ...Event) Result {
	return Result{Outcome: Applied, Events: events}
}

func ignored(format string, args ...any) Result {
	return Result{Outcome: Ignored, Reason: fmt.Sprintf(format, args...)}
}
