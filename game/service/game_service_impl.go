package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/wricardo/dicechess/game/engine"
)

// gameServiceImpl implements the GameService interface
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// getConfigID returns the config_id for a given config name, used for consistent API responses
func (s *gameServiceImpl) getConfigID(configName string) string {
	availableConfigs, err := s.configs.ListConfigs()
	if err == nil {
		for _, cfg := range availableConfigs {
			if cfg.Name == configName {
				return cfg.ConfigID
			}
		}
	}
	if configName == "" {
		return "default"
	}
	return configName
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.GameConfig
	var err error
	configID := strings.TrimSuffix(configName, ".json")
	if configID != "" {
		config, err = s.configs.LoadConfig(configID)
		if err != nil {
			// Provide helpful error message with available options
			if strings.Contains(err.Error(), "configuration not found") {
				availableConfigs, listErr := s.configs.ListConfigs()
				if listErr == nil && len(availableConfigs) > 0 {
					var configIDs []string
					for _, cfg := range availableConfigs {
						configIDs = append(configIDs, cfg.ConfigID)
					}
					return nil, fmt.Errorf("config '%s' not found. Available configs: %v: %w", configName, configIDs, err)
				}
				return nil, fmt.Errorf("config '%s' not found. Use /api/configs to list available configurations: %w", configName, err)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		config = s.configs.GetDefault()
		configID = s.getConfigID(config.Name)
	}

	// Let session manager generate a proper 4-character ID
	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.Printf("[CREATE] session=%s config=%s", session.ID, configID)

	return sessionInfo(session), nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return sessionInfo(session), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))

	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}

	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.sessions.Delete(sessionID)
}

// Roll requests a die roll
func (s *gameServiceImpl) Roll(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.runCommand(sessionID, "ROLL", func(e *engine.GameEngine) engine.Result {
		return e.RequestRoll()
	})
}

// CompleteRoll reports that the roll animation finished
func (s *gameServiceImpl) CompleteRoll(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.runCommand(sessionID, "ROLLED", func(e *engine.GameEngine) engine.Result {
		return e.NotifyRollAnimationComplete()
	})
}

// Select forwards a square click
func (s *gameServiceImpl) Select(ctx context.Context, sessionID string, square engine.Square) (*CommandResult, error) {
	return s.runCommand(sessionID, "SELECT", func(e *engine.GameEngine) engine.Result {
		return e.SelectSquare(square)
	})
}

// Move moves the selected piece to square
func (s *gameServiceImpl) Move(ctx context.Context, sessionID string, square engine.Square) (*CommandResult, error) {
	return s.runCommand(sessionID, "MOVE", func(e *engine.GameEngine) engine.Result {
		return e.AttemptMove(square)
	})
}

// EndTurn ends the current turn
func (s *gameServiceImpl) EndTurn(ctx context.Context, sessionID string) (*CommandResult, error) {
	return s.runCommand(sessionID, "END", func(e *engine.GameEngine) engine.Result {
		return e.EndTurn()
	})
}

// runCommand applies one engine command plus the config's automatic follow-ups
func (s *gameServiceImpl) runCommand(sessionID, tag string, command func(e *engine.GameEngine) engine.Result) (*CommandResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	eng := sess.Engine
	res := command(eng)
	events := res.Events

	if res.Accepted() {
		if sess.Config != nil && sess.Config.AutoCompleteRoll && eng.Phase() == engine.RollAnimating {
			events = append(events, eng.NotifyRollAnimationComplete().Events...)
		}
		if sess.Config != nil && sess.Config.AutoEndTurn && eng.GetState().TurnShouldEnd {
			events = append(events, eng.EndTurn().Events...)
		}
	}

	state := snapshotState(eng)

	result := &CommandResult{
		Outcome:   res.Outcome,
		Reason:    res.Reason,
		Message:   state.Message,
		GameState: state,
		Events:    convertEvents(events, state.Board),
	}

	log.Printf("[%s] session=%s outcome=%s turn=%s phase=%s dice=%d left=%d", tag, sess.ID, res.Outcome, state.Turn, state.Phase, state.DiceValue, state.MovesLeft)

	if res.Accepted() {
		if err := s.sessions.Save(sessionID); err != nil {
			log.Printf("Warning: Failed to persist session %s after %s: %v", sessionID, strings.ToLower(tag), err)
		}
	}

	return result, nil
}

// Reset starts a new game in the same session
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)
	sess.Engine.Reset()
	state := snapshotState(sess.Engine)

	log.Printf("[RESET] session=%s config=%s", sess.ID, sess.ConfigID)

	if err := s.sessions.Save(sessionID); err != nil {
		log.Printf("Warning: Failed to persist session %s after reset: %v", sessionID, err)
	}

	return state, nil
}

// GetGameState returns the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	s.sessions.UpdateLastAccessed(sessionID)

	return snapshotState(sess.Engine), nil
}

// GetLegalMoves previews the moves of the piece on square with the current budget
func (s *gameServiceImpl) GetLegalMoves(ctx context.Context, sessionID string, square engine.Square) (*LegalMovesResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session not found: %w", err)
	}

	result := &LegalMovesResult{
		Square:    square,
		MovesLeft: sess.Engine.MovesLeft(),
		Moves:     sess.Engine.MovesFor(square),
	}
	if p := sess.Engine.PieceAt(square); p != nil {
		piece := *p
		result.Piece = &piece
	}
	return result, nil
}

// ListConfigs returns available game configurations
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific game configuration
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.GameConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a game configuration to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.GameConfig) error {
	return s.configs.SaveConfig(configName, config)
}

// snapshotState copies the engine state so callers can serialize it after the
// service lock is released.
func snapshotState(e *engine.GameEngine) *engine.GameState {
	live := e.GetState()
	state := *live
	state.Board = live.Board.Clone()
	state.LegalMoves = append([]engine.Move{}, live.LegalMoves...)
	state.BoardRows = state.Board.Render()
	return &state
}

func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      snapshotState(session.Engine),
		GameConfig:     session.Config,
	}
}

// convertEvents stamps engine events with IDs and human-readable messages
func convertEvents(events []engine.Event, board *engine.Board) []GameEvent {
	out := make([]GameEvent, 0, len(events))
	now := time.Now()

	for i := range events {
		ev := events[i]
		ge := GameEvent{
			ID:        uuid.NewString(),
			Type:      string(ev.Type),
			Message:   describeEvent(ev, board),
			Timestamp: now,
			Color:     ev.Color,
			Detail:    &ev,
		}
		switch {
		case ev.To != nil:
			ge.Square = ev.To
		case ev.From != nil:
			ge.Square = ev.From
		}
		out = append(out, ge)
	}

	return out
}

func describeEvent(ev engine.Event, board *engine.Board) string {
	color := engine.Title(ev.Color)

	switch ev.Type {
	case engine.EventRolled:
		return fmt.Sprintf("%s rolled %d", color, ev.Dice)
	case engine.EventRollComplete:
		return fmt.Sprintf("%s has %d moves to spend", color, ev.Dice)
	case engine.EventSelectionChanged:
		if p := board.Piece(ev.Piece); p != nil && ev.From != nil {
			return fmt.Sprintf("Selected %s at %s", p.Kind, engine.SquareName(*ev.From))
		}
		return "Selection changed"
	case engine.EventSelectionCleared:
		return "Selection cleared"
	case engine.EventMoveExecuted:
		kind := engine.PieceKind("piece")
		if p := board.Piece(ev.Piece); p != nil {
			kind = p.Kind
		}
		msg := fmt.Sprintf("%s %s %s -> %s for %d", color, kind, engine.SquareName(*ev.From), engine.SquareName(*ev.To), ev.Cost)
		if ev.Captured != nil {
			msg += fmt.Sprintf(", captured %s %s", ev.Captured.Color, ev.Captured.Kind)
		}
		return msg
	case engine.EventTurnExhausted:
		return "No moves left"
	case engine.EventTurnEnded:
		return fmt.Sprintf("%s to roll", color)
	case engine.EventGameOver:
		return fmt.Sprintf("%s wins", color)
	default:
		return string(ev.Type)
	}
}
