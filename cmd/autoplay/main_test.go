package main

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/wricardo/dicechess/api"
	"github.com/wricardo/dicechess/game/config"
	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
	"github.com/wricardo/dicechess/game/session"
	"github.com/wricardo/dicechess/transport/websocket"
)

func awaitingMove(layout []string, turn engine.Color, budget int) *engine.GameState {
	return &engine.GameState{
		Board:     engine.BuildBoard(layout),
		Turn:      turn,
		Phase:     engine.AwaitingMove,
		DiceValue: budget,
		MovesLeft: budget,
	}
}

func TestGreedyPrefersKingCapture(t *testing.T) {
	state := awaitingMove([]string{
		"........",
		"........",
		"...k....",
		"........",
		"........",
		"........",
		"........",
		"r..Q...K",
	}, engine.White, 6)

	choice, ok := NewGreedyStrategy(nil).NextMove(state)
	if !ok {
		t.Fatal("Expected a move")
	}
	if choice.From != engine.Sq(3, 7) || choice.Move.To != engine.Sq(3, 2) {
		t.Errorf("Expected queen to take the king, got %s -> %s", engine.SquareName(choice.From), engine.SquareName(choice.Move.To))
	}
}

func TestGreedyPrefersValuableCapture(t *testing.T) {
	state := awaitingMove([]string{
		".......k",
		"........",
		"........",
		"........",
		"........",
		"...p....",
		"........",
		"r..Q...K",
	}, engine.White, 6)

	choice, ok := NewGreedyStrategy(nil).NextMove(state)
	if !ok {
		t.Fatal("Expected a move")
	}
	if choice.Move.To != engine.Sq(0, 7) || !choice.Move.Capture {
		t.Errorf("Expected the rook capture, got %s", engine.SquareName(choice.Move.To))
	}
}

func TestGreedyPlaysWhicheverSideIsToMove(t *testing.T) {
	state := awaitingMove([]string{
		"r......k",
		"........",
		"........",
		"........",
		"........",
		"R.......",
		"........",
		".......K",
	}, engine.Black, 6)

	choice, ok := NewGreedyStrategy(nil).NextMove(state)
	if !ok {
		t.Fatal("Expected a move for black")
	}
	if choice.From != engine.Sq(0, 0) || choice.Move.To != engine.Sq(0, 5) {
		t.Errorf("Expected black rook to take the white rook, got %s -> %s", engine.SquareName(choice.From), engine.SquareName(choice.Move.To))
	}
}

func TestGreedySpendsBudget(t *testing.T) {
	state := awaitingMove([]string{
		".......k",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R......K",
	}, engine.White, 3)

	choice, ok := NewGreedyStrategy(nil).NextMove(state)
	if !ok {
		t.Fatal("Expected a move")
	}
	if choice.From != engine.Sq(0, 7) || choice.Move.Cost != 3 {
		t.Errorf("Expected a three square rook move, got %s cost %d", engine.SquareName(choice.Move.To), choice.Move.Cost)
	}
	if choice.Move.To != engine.Sq(0, 4) {
		t.Errorf("Expected the first candidate (0,4), got %s", engine.SquareName(choice.Move.To))
	}
}

func TestGreedyNoMove(t *testing.T) {
	strategy := NewGreedyStrategy(nil)

	// Knights need three
	state := awaitingMove([]string{
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"PPPPPPPP",
		".N..KN..",
	}, engine.White, 2)
	state.Board.Get(engine.Sq(4, 7)).MovedThisTurn = true
	for file := 0; file < engine.BoardSize; file++ {
		state.Board.Get(engine.Sq(file, 6)).MovedThisTurn = true
	}
	if _, ok := strategy.NextMove(state); ok {
		t.Error("Expected no move when only knights remain with budget 2")
	}

	state = awaitingMove(engine.StandardLayout, engine.White, 3)
	state.Phase = engine.AwaitingRoll
	if _, ok := strategy.NextMove(state); ok {
		t.Error("Expected no move outside awaiting_move")
	}

	if _, ok := strategy.NextMove(nil); ok {
		t.Error("Expected no move for a nil state")
	}
}

func newPlayer(t *testing.T, configID string, dice engine.DiceSource) (*Player, *engine.GameState) {
	t.Helper()

	configs, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	sessions := session.NewManager()
	hub := websocket.NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)

	ts := httptest.NewServer(api.NewServer(service.NewGameService(sessions, configs), hub))
	t.Cleanup(ts.Close)

	ctx := context.Background()
	client := NewClient(ts.URL)
	info, err := client.CreateSession(ctx, configID)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}

	sess, err := sessions.Get(info.ID)
	if err != nil {
		t.Fatalf("Session missing: %v", err)
	}
	sess.Engine.SetDice(dice)

	state, err := client.State(ctx)
	if err != nil {
		t.Fatalf("Failed to get state: %v", err)
	}

	return &Player{client: client, strategy: NewGreedyStrategy(nil)}, state
}

func TestPlayTurnCapturesAndAutoEnds(t *testing.T) {
	player, state := newPlayer(t, "endgame", engine.FixedDice(6))

	next, moves, err := player.PlayTurn(context.Background(), state)
	if err != nil {
		t.Fatalf("PlayTurn failed: %v", err)
	}

	if moves != 1 {
		t.Errorf("Expected one move, got %d", moves)
	}
	if p := next.Board.Get(engine.Sq(3, 1)); p == nil || p.Kind != engine.Queen || p.Color != engine.White {
		t.Errorf("Expected white queen on the rook's square, got %+v", p)
	}
	if next.Turn != engine.Black || next.Phase != engine.AwaitingRoll {
		t.Errorf("Expected black to roll, got %s in %s", next.Turn, next.Phase)
	}
}

func TestPlayTurnEndsTurnWithoutAutoEnd(t *testing.T) {
	player, state := newPlayer(t, "cavalry", engine.FixedDice(2))

	next, moves, err := player.PlayTurn(context.Background(), state)
	if err != nil {
		t.Fatalf("PlayTurn failed: %v", err)
	}

	// One pawn double step spends the whole roll
	if moves != 1 {
		t.Errorf("Expected one move, got %d", moves)
	}
	if next.Turn != engine.White || next.TurnNumber != 2 {
		t.Errorf("Expected white's turn 2, got %s turn %d", next.Turn, next.TurnNumber)
	}
}

func TestPlayGameFinishes(t *testing.T) {
	player, state := newPlayer(t, "endgame", engine.FixedDice(6))

	summary, err := player.PlayGame(context.Background(), state, 200)
	if err != nil {
		t.Fatalf("PlayGame failed: %v", err)
	}

	if summary.Turns == 0 || summary.Turns > 200 {
		t.Errorf("Unexpected turn count %d", summary.Turns)
	}
	if summary.Moves < summary.Turns/2 {
		t.Errorf("Expected moves on most turns, got %d moves in %d turns", summary.Moves, summary.Turns)
	}

	final, err := player.client.State(context.Background())
	if err != nil {
		t.Fatalf("Failed to get state: %v", err)
	}
	if summary.Winner != "" && final.Phase != engine.GameOver {
		t.Errorf("Winner %s reported but phase is %s", summary.Winner, final.Phase)
	}
}
