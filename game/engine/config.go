package engine

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/exp/maps"
)

// ErrInvalidSetup is returned when a starting position does not have exactly
// one king per side.
var ErrInvalidSetup = errors.New("invalid setup")

// StandardLayout is the regular chess starting position, rank 0 first
var StandardLayout = []string{
	"rnbqkbnr",
	"pppppppp",
	"........",
	"........",
	"........",
	"........",
	"PPPPPPPP",
	"RNBQKBNR",
}

// DefaultMessages are used for any key a config leaves out
var DefaultMessages = map[string]string{
	MsgWelcome:     "Roll the dice to start!",
	MsgRolled:      "Rolled a %d! Select pieces to move.",
	MsgTurnStart:   "%s's turn. Roll the dice!",
	MsgNoMovesLeft: "No moves left. Ending turn...",
	MsgGameOver:    "GAME OVER! %s WINS!",
	MsgIllegalMove: "That piece can't reach that square.",
}

// messageVerbs lists the format verb each templated message must carry
var messageVerbs = map[string]string{
	MsgRolled:    "%d",
	MsgTurnStart: "%s",
	MsgGameOver:  "%s",
}

// DefaultConfig returns the standard game
func DefaultConfig() *GameConfig {
	return &GameConfig{
		Name:        "Classic",
		Description: "Standard starting position",
		Layout:      append([]string(nil), StandardLayout...),
		FirstTurn:   White,
		AutoEndTurn: true,
	}
}

// ValidateGameConfig validates a game configuration for correctness and playability
func ValidateGameConfig(config *GameConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	if config.FirstTurn != "" && !config.FirstTurn.Valid() {
		return fmt.Errorf("config validation: first_turn must be %q or %q, got %q", White, Black, config.FirstTurn)
	}

	if len(config.Layout) != BoardSize {
		return fmt.Errorf("config validation: layout must have %d rows, got %d", BoardSize, len(config.Layout))
	}

	kings := map[Color]int{}
	for i, row := range config.Layout {
		if len(row) != BoardSize {
			return fmt.Errorf("config validation: row %d must have %d characters, got %d", i+1, BoardSize, len(row))
		}
		for j := 0; j < len(row); j++ {
			char := row[j]
			if char == '.' {
				continue
			}
			kind, color, ok := ParsePieceSymbol(char)
			if !ok {
				return fmt.Errorf("config validation: invalid character '%c' at row %d, col %d", char, i+1, j+1)
			}
			if kind == King {
				kings[color]++
			}
		}
	}

	for _, color := range []Color{White, Black} {
		if kings[color] != 1 {
			return fmt.Errorf("config validation: %w: %s must have exactly one king, got %d", ErrInvalidSetup, color, kings[color])
		}
	}

	for key, verb := range messageVerbs {
		if msg, ok := config.Messages[key]; ok && msg != "" && !strings.Contains(msg, verb) {
			return fmt.Errorf("config validation: messages.%s must contain %s", key, verb)
		}
	}

	return nil
}

// ResolveMessages overlays the config's messages on DefaultMessages
func ResolveMessages(config *GameConfig) map[string]string {
	msgs := make(map[string]string, len(DefaultMessages))
	maps.Copy(msgs, DefaultMessages)
	if config == nil {
		return msgs
	}
	maps.Copy(msgs, config.Messages)
	for key, def := range DefaultMessages {
		if msgs[key] == "" {
			msgs[key] = def
		}
	}
	return msgs
}

// LoadGameConfig loads a game configuration from a JSON file
func LoadGameConfig(filename string) (*GameConfig, error) {
	configPath := filename
	if configDir := os.Getenv("CONFIG_DIR"); configDir != "" {
		if strings.HasPrefix(filename, "configs/") {
			configPath = filepath.Join(configDir, strings.TrimPrefix(filename, "configs/"))
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	var config GameConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}

	if err := ValidateGameConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// BuildBoard places the layout's pieces on a fresh board
func BuildBoard(layout []string) *Board {
	board := NewBoard()
	for rank := 0; rank < BoardSize && rank < len(layout); rank++ {
		row := layout[rank]
		for file := 0; file < BoardSize && file < len(row); file++ {
			kind, color, ok := ParsePieceSymbol(row[file])
			if !ok {
				continue
			}
			board.AddPiece(kind, color, Sq(file, rank))
		}
	}
	return board
}

// InitGameStateFromConfig creates a new game state using the provided configuration
func InitGameStateFromConfig(config *GameConfig) *GameState {
	if config == nil {
		config = DefaultConfig()
	}

	firstTurn := config.FirstTurn
	if !firstTurn.Valid() {
		firstTurn = White
	}

	return &GameState{
		Board:         BuildBoard(config.Layout),
		Turn:          firstTurn,
		Phase:         AwaitingRoll,
		DiceValue:     0,
		MovesLeft:     0,
		SelectedPiece: NoPiece,
		LegalMoves:    []Move{},
		TurnNumber:    1,
		Message:       ResolveMessages(config)[MsgWelcome],
		ConfigName:    config.Name,
	}
}

// checkSetup enforces one king per side on a live board
func checkSetup(board *Board) error {
	if board == nil {
		return fmt.Errorf("%w: board is nil", ErrInvalidSetup)
	}
	for _, color := range []Color{White, Black} {
		if n := board.CountKings(color); n != 1 {
			return fmt.Errorf("%w: %s has %d kings", ErrInvalidSetup, color, n)
		}
	}
	return nil
}
