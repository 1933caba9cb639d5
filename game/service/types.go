package service

import (
	"time"

	"github.com/wricardo/dicechess/game/engine"
)

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string             `json:"id"`
	ConfigName     string             `json:"config_name"`
	CreatedAt      time.Time          `json:"created_at"`
	LastAccessedAt time.Time          `json:"last_accessed_at"`
	GameState      *engine.GameState  `json:"game_state"`
	GameConfig     *engine.GameConfig `json:"game_config"`
}

// CommandResult contains the result of a turn command
type CommandResult struct {
	Outcome   engine.Outcome    `json:"outcome"`
	Reason    string            `json:"reason,omitempty"`
	Message   string            `json:"message"`
	GameState *engine.GameState `json:"game_state"`
	Events    []GameEvent       `json:"events,omitempty"`
}

// Accepted reports whether the command changed the game
func (r *CommandResult) Accepted() bool {
	return r != nil && r.Outcome == engine.Applied
}

// LegalMovesResult is a move preview for one square
type LegalMovesResult struct {
	Square    engine.Square `json:"square"`
	Piece     *engine.Piece `json:"piece,omitempty"`
	MovesLeft int           `json:"moves_left"`
	Moves     []engine.Move `json:"moves"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"` // engine event types plus "reset"
	Message   string         `json:"message"`
	Timestamp time.Time      `json:"timestamp"`
	Square    *engine.Square `json:"square,omitempty"`
	Color     engine.Color   `json:"color,omitempty"`
	Detail    *engine.Event  `json:"detail,omitempty"`
}

// ConfigInfo provides information about a game configuration
type ConfigInfo struct {
	Filename         string       `json:"filename"`
	ConfigID         string       `json:"config_id"` // The identifier to use for session creation
	Name             string       `json:"name"`      // Display name
	Description      string       `json:"description"`
	FirstTurn        engine.Color `json:"first_turn"`
	PieceCount       int          `json:"piece_count"`
	AutoEndTurn      bool         `json:"auto_end_turn"`
	AutoCompleteRoll bool         `json:"auto_complete_roll"`
}
