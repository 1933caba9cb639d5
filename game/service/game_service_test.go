package service_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
)

var errNotFound = errors.New("session not found")

// MockSessionManager implements service.SessionManager for testing
type MockSessionManager struct {
	sessions map[string]*service.Session
	saves    int
}

func NewMockSessionManager() *MockSessionManager {
	return &MockSessionManager{
		sessions: make(map[string]*service.Session),
	}
}

func (m *MockSessionManager) Create(id, configID string, config *engine.GameConfig) (*service.Session, error) {
	// Generate ID if empty (mimics real session manager behavior)
	if id == "" {
		id = fmt.Sprintf("t%03d", len(m.sessions)+1)
	}

	if _, exists := m.sessions[id]; exists {
		return nil, errors.New("session already exists")
	}

	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}

	session := &service.Session{
		ID:             id,
		ConfigID:       configID,
		Engine:         eng,
		Config:         config,
		CreatedAt:      time.Now(),
		LastAccessedAt: time.Now(),
	}

	m.sessions[id] = session
	return session, nil
}

func (m *MockSessionManager) Get(id string) (*service.Session, error) {
	session, exists := m.sessions[id]
	if !exists {
		return nil, errNotFound
	}
	return session, nil
}

func (m *MockSessionManager) List() []*service.Session {
	result := make([]*service.Session, 0, len(m.sessions))
	for _, session := range m.sessions {
		result = append(result, session)
	}
	return result
}

func (m *MockSessionManager) Delete(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *MockSessionManager) UpdateLastAccessed(id string) error {
	if session, exists := m.sessions[id]; exists {
		session.LastAccessedAt = time.Now()
		return nil
	}
	return errNotFound
}

func (m *MockSessionManager) Save(id string) error {
	if _, exists := m.sessions[id]; !exists {
		return errNotFound
	}
	m.saves++
	return nil
}

// MockConfigManager implements service.ConfigManager for testing
type MockConfigManager struct {
	configs map[string]*engine.GameConfig
}

func NewMockConfigManager() *MockConfigManager {
	manual := engine.DefaultConfig()
	manual.Name = "Manual"
	manual.AutoEndTurn = false

	auto := engine.DefaultConfig()
	auto.Name = "Auto"
	auto.AutoEndTurn = true
	auto.AutoCompleteRoll = true

	return &MockConfigManager{
		configs: map[string]*engine.GameConfig{
			"manual":  manual,
			"auto":    auto,
			"default": manual,
		},
	}
}

func (m *MockConfigManager) LoadConfig(name string) (*engine.GameConfig, error) {
	config, exists := m.configs[name]
	if !exists {
		return nil, errors.New("configuration not found")
	}
	return config, nil
}

func (m *MockConfigManager) ListConfigs() ([]*service.ConfigInfo, error) {
	result := make([]*service.ConfigInfo, 0, len(m.configs))
	for _, name := range []string{"auto", "manual"} {
		config := m.configs[name]
		result = append(result, &service.ConfigInfo{
			Filename:    name + ".json",
			ConfigID:    name,
			Name:        config.Name,
			Description: config.Description,
		})
	}
	return result, nil
}

func (m *MockConfigManager) GetDefault() *engine.GameConfig {
	return m.configs["default"]
}

func (m *MockConfigManager) SaveConfig(name string, config *engine.GameConfig) error {
	if err := engine.ValidateGameConfig(config); err != nil {
		return err
	}
	m.configs[name] = config
	return nil
}

type fixture struct {
	ctx      context.Context
	sessions *MockSessionManager
	configs  *MockConfigManager
	svc      service.GameService
}

func newFixture() *fixture {
	sessions := NewMockSessionManager()
	configs := NewMockConfigManager()
	return &fixture{
		ctx:      context.Background(),
		sessions: sessions,
		configs:  configs,
		svc:      service.NewGameService(sessions, configs),
	}
}

// start creates a session on configID whose dice always show face
func (f *fixture) start(t *testing.T, configID string, face int) string {
	t.Helper()
	info, err := f.svc.CreateSession(f.ctx, configID)
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	f.sessions.sessions[info.ID].Engine.SetDice(engine.FixedDice(face))
	return info.ID
}

func eventTypes(events []service.GameEvent) []string {
	types := make([]string, 0, len(events))
	for _, ev := range events {
		types = append(types, ev.Type)
	}
	return types
}

// Test cases
func TestGameService_CreateSession(t *testing.T) {
	f := newFixture()

	tests := []struct {
		name       string
		configName string
		wantConfig string
		wantErr    bool
	}{
		{
			name:       "create with default config",
			configName: "",
			wantConfig: "manual",
		},
		{
			name:       "create with specific config",
			configName: "auto",
			wantConfig: "auto",
		},
		{
			name:       "json suffix is ignored",
			configName: "auto.json",
			wantConfig: "auto",
		},
		{
			name:       "create with invalid config",
			configName: "nonexistent",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := f.svc.CreateSession(f.ctx, tt.configName)
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !strings.Contains(err.Error(), "Available configs") {
					t.Errorf("Expected available configs in error, got %v", err)
				}
				return
			}
			if info.ConfigName != tt.wantConfig {
				t.Errorf("Expected config %s, got %s", tt.wantConfig, info.ConfigName)
			}
			if info.GameState == nil || info.GameState.Phase != engine.AwaitingRoll {
				t.Errorf("Expected a fresh game awaiting a roll, got %+v", info.GameState)
			}
		})
	}
}

func TestGameService_RollAndComplete(t *testing.T) {
	f := newFixture()
	id := f.start(t, "manual", 4)

	result, err := f.svc.Roll(f.ctx, id)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}
	if !result.Accepted() || result.GameState.Phase != engine.RollAnimating || result.GameState.DiceValue != 4 {
		t.Fatalf("Expected roll_animating with 4, got %s %s %d", result.Outcome, result.GameState.Phase, result.GameState.DiceValue)
	}
	if result.GameState.MovesLeft != 0 {
		t.Errorf("Budget must not be granted before the roll completes, got %d", result.GameState.MovesLeft)
	}

	result, err = f.svc.CompleteRoll(f.ctx, id)
	if err != nil {
		t.Fatalf("CompleteRoll failed: %v", err)
	}
	if result.GameState.Phase != engine.AwaitingMove || result.GameState.MovesLeft != 4 {
		t.Errorf("Expected awaiting_move with 4 moves, got %s %d", result.GameState.Phase, result.GameState.MovesLeft)
	}
	if f.sessions.saves != 2 {
		t.Errorf("Expected a save per accepted command, got %d", f.sessions.saves)
	}
}

func TestGameService_AutoCompleteRoll(t *testing.T) {
	f := newFixture()
	id := f.start(t, "auto", 3)

	result, err := f.svc.Roll(f.ctx, id)
	if err != nil {
		t.Fatalf("Roll failed: %v", err)
	}

	if result.GameState.Phase != engine.AwaitingMove || result.GameState.MovesLeft != 3 {
		t.Errorf("Expected awaiting_move with 3 moves, got %s %d", result.GameState.Phase, result.GameState.MovesLeft)
	}
	got := strings.Join(eventTypes(result.Events), ",")
	if got != "rolled,roll_complete" {
		t.Errorf("Expected rolled,roll_complete events, got %s", got)
	}
}

func TestGameService_AutoEndTurn(t *testing.T) {
	f := newFixture()
	id := f.start(t, "auto", 2)

	f.svc.Roll(f.ctx, id)
	if _, err := f.svc.Select(f.ctx, id, engine.Sq(4, 6)); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	result, err := f.svc.Move(f.ctx, id, engine.Sq(4, 4))
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	got := strings.Join(eventTypes(result.Events), ",")
	if got != "move_executed,turn_exhausted,turn_ended" {
		t.Errorf("Unexpected events: %s", got)
	}
	state := result.GameState
	if state.Turn != engine.Black || state.Phase != engine.AwaitingRoll || state.TurnNumber != 2 {
		t.Errorf("Expected black to roll on turn 2, got %s %s %d", state.Turn, state.Phase, state.TurnNumber)
	}
	if p := state.Board.Get(engine.Sq(4, 4)); p == nil || p.Kind != engine.Pawn || p.MovedThisTurn {
		t.Errorf("Expected the pawn on (4,4) with its turn flag cleared, got %+v", p)
	}
}

func TestGameService_ManualEndTurn(t *testing.T) {
	f := newFixture()
	id := f.start(t, "manual", 2)

	f.svc.Roll(f.ctx, id)
	f.svc.CompleteRoll(f.ctx, id)
	f.svc.Select(f.ctx, id, engine.Sq(4, 6))
	result, err := f.svc.Move(f.ctx, id, engine.Sq(4, 4))
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	state := result.GameState
	if !state.TurnShouldEnd || state.Turn != engine.White || state.Phase != engine.AwaitingMove {
		t.Fatalf("Expected white to hold with turn_should_end, got %s %s %v", state.Turn, state.Phase, state.TurnShouldEnd)
	}

	result, err = f.svc.EndTurn(f.ctx, id)
	if err != nil {
		t.Fatalf("EndTurn failed: %v", err)
	}
	if !result.Accepted() || result.GameState.Turn != engine.Black {
		t.Errorf("Expected black's turn, got %s %s", result.Outcome, result.GameState.Turn)
	}
	if !strings.Contains(result.Message, "Black") {
		t.Errorf("Expected turn start message for Black, got %q", result.Message)
	}
}

func TestGameService_RejectedCommands(t *testing.T) {
	f := newFixture()
	id := f.start(t, "manual", 1)

	result, err := f.svc.Move(f.ctx, id, engine.Sq(4, 5))
	if err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if result.Outcome != engine.Ignored || result.Reason == "" {
		t.Errorf("Expected ignored with a reason, got %s %q", result.Outcome, result.Reason)
	}
	if len(result.Events) != 0 {
		t.Errorf("Expected no events, got %v", eventTypes(result.Events))
	}
	if f.sessions.saves != 0 {
		t.Errorf("Rejected commands must not save, got %d saves", f.sessions.saves)
	}

	f.svc.Roll(f.ctx, id)
	f.svc.CompleteRoll(f.ctx, id)
	f.svc.Select(f.ctx, id, engine.Sq(4, 6))

	result, _ = f.svc.Move(f.ctx, id, engine.Sq(4, 4))
	if result.Outcome != engine.Illegal {
		t.Fatalf("Expected illegal double step with budget 1, got %s", result.Outcome)
	}
	if result.GameState.SelectedPiece == engine.NoPiece {
		t.Error("Expected the selection to survive an illegal move")
	}
}

func TestGameService_EventsCarryIDs(t *testing.T) {
	f := newFixture()
	id := f.start(t, "auto", 5)

	result, _ := f.svc.Roll(f.ctx, id)
	seen := map[string]bool{}
	for _, ev := range result.Events {
		if ev.ID == "" || seen[ev.ID] {
			t.Errorf("Expected unique event IDs, got %q", ev.ID)
		}
		seen[ev.ID] = true
		if ev.Message == "" || ev.Detail == nil {
			t.Errorf("Expected message and detail on %s", ev.Type)
		}
	}

	result, _ = f.svc.Select(f.ctx, id, engine.Sq(6, 7))
	if len(result.Events) != 1 || result.Events[0].Square == nil || *result.Events[0].Square != engine.Sq(6, 7) {
		t.Fatalf("Expected selection event on (6,7), got %+v", result.Events)
	}
	if result.Events[0].Message != "Selected knight at (6,7)" {
		t.Errorf("Unexpected message %q", result.Events[0].Message)
	}
}

func TestGameService_Reset(t *testing.T) {
	f := newFixture()
	id := f.start(t, "auto", 2)

	f.svc.Roll(f.ctx, id)
	f.svc.Select(f.ctx, id, engine.Sq(4, 6))
	f.svc.Move(f.ctx, id, engine.Sq(4, 4))

	state, err := f.svc.Reset(f.ctx, id)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if state.Turn != engine.White || state.TurnNumber != 1 || state.Phase != engine.AwaitingRoll {
		t.Errorf("Expected a fresh game, got %s turn %d %s", state.Turn, state.TurnNumber, state.Phase)
	}
	if p := state.Board.Get(engine.Sq(4, 6)); p == nil || p.HasMoved {
		t.Errorf("Expected the pawn back on (4,6), got %+v", p)
	}

	info, _ := f.svc.GetSession(f.ctx, id)
	if info.ID != id {
		t.Errorf("Reset must keep the session, got %s", info.ID)
	}
}

func TestGameService_GetLegalMoves(t *testing.T) {
	f := newFixture()
	id := f.start(t, "auto", 3)

	preview, err := f.svc.GetLegalMoves(f.ctx, id, engine.Sq(6, 7))
	if err != nil {
		t.Fatalf("GetLegalMoves failed: %v", err)
	}
	if preview.MovesLeft != 0 || len(preview.Moves) != 0 {
		t.Errorf("Expected no moves before rolling, got %d with budget %d", len(preview.Moves), preview.MovesLeft)
	}

	f.svc.Roll(f.ctx, id)
	preview, _ = f.svc.GetLegalMoves(f.ctx, id, engine.Sq(6, 7))
	if preview.Piece == nil || preview.Piece.Kind != engine.Knight || len(preview.Moves) != 2 {
		t.Errorf("Expected two knight jumps, got %+v", preview)
	}

	empty, _ := f.svc.GetLegalMoves(f.ctx, id, engine.Sq(4, 4))
	if empty.Piece != nil || len(empty.Moves) != 0 {
		t.Errorf("Expected nothing on an empty square, got %+v", empty)
	}

	state, _ := f.svc.GetGameState(f.ctx, id)
	if state.SelectedPiece != engine.NoPiece {
		t.Error("Preview must not change the selection")
	}
}

func TestGameService_StateIsSnapshot(t *testing.T) {
	f := newFixture()
	id := f.start(t, "manual", 1)

	state, err := f.svc.GetGameState(f.ctx, id)
	if err != nil {
		t.Fatalf("GetGameState failed: %v", err)
	}
	if len(state.BoardRows) != engine.BoardSize || state.BoardRows[7] != "RNBQKBNR" {
		t.Errorf("Unexpected board rows %v", state.BoardRows)
	}

	state.Board.Cells[6][4] = engine.NoPiece
	again, _ := f.svc.GetGameState(f.ctx, id)
	if again.Board.Get(engine.Sq(4, 6)) == nil {
		t.Error("Mutating a returned state must not reach the engine")
	}
}

func TestGameService_SessionNotFound(t *testing.T) {
	f := newFixture()
	sq := engine.Sq(0, 0)

	calls := map[string]func() error{
		"get":   func() error { _, err := f.svc.GetSession(f.ctx, "nope"); return err },
		"state": func() error { _, err := f.svc.GetGameState(f.ctx, "nope"); return err },
		"moves": func() error { _, err := f.svc.GetLegalMoves(f.ctx, "nope", sq); return err },
		"roll":  func() error { _, err := f.svc.Roll(f.ctx, "nope"); return err },
		"done":  func() error { _, err := f.svc.CompleteRoll(f.ctx, "nope"); return err },
		"sel":   func() error { _, err := f.svc.Select(f.ctx, "nope", sq); return err },
		"move":  func() error { _, err := f.svc.Move(f.ctx, "nope", sq); return err },
		"end":   func() error { _, err := f.svc.EndTurn(f.ctx, "nope"); return err },
		"reset": func() error { _, err := f.svc.Reset(f.ctx, "nope"); return err },
		"del":   func() error { return f.svc.DeleteSession(f.ctx, "nope") },
	}

	for name, call := range calls {
		if err := call(); !errors.Is(err, errNotFound) {
			t.Errorf("%s: expected wrapped not found error, got %v", name, err)
		}
	}
}

func TestGameService_ListAndDeleteSessions(t *testing.T) {
	f := newFixture()
	first := f.start(t, "manual", 1)
	f.start(t, "auto", 1)

	sessions, err := f.svc.ListSessions(f.ctx)
	if err != nil || len(sessions) != 2 {
		t.Fatalf("Expected 2 sessions, got %d (%v)", len(sessions), err)
	}

	if err := f.svc.DeleteSession(f.ctx, first); err != nil {
		t.Fatalf("DeleteSession failed: %v", err)
	}
	sessions, _ = f.svc.ListSessions(f.ctx)
	if len(sessions) != 1 {
		t.Errorf("Expected 1 session after delete, got %d", len(sessions))
	}
}

func TestGameService_Configs(t *testing.T) {
	f := newFixture()

	configs, err := f.svc.ListConfigs(f.ctx)
	if err != nil || len(configs) != 2 {
		t.Fatalf("Expected 2 configs, got %d (%v)", len(configs), err)
	}

	custom := engine.DefaultConfig()
	custom.Name = "Custom"
	custom.FirstTurn = engine.Black
	if err := f.svc.SaveConfig(f.ctx, "custom", custom); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	loaded, err := f.svc.LoadConfig(f.ctx, "custom")
	if err != nil || loaded.FirstTurn != engine.Black {
		t.Fatalf("Expected saved config, got %+v (%v)", loaded, err)
	}

	info, err := f.svc.CreateSession(f.ctx, "custom")
	if err != nil {
		t.Fatalf("CreateSession failed: %v", err)
	}
	if info.GameState.Turn != engine.Black {
		t.Errorf("Expected black to start, got %s", info.GameState.Turn)
	}

	broken := engine.DefaultConfig()
	broken.Layout = broken.Layout[:7]
	if err := f.svc.SaveConfig(f.ctx, "broken", broken); err == nil {
		t.Error("Expected invalid config to be rejected")
	}
}
