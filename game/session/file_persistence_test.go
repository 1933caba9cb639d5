package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/dicechess/game/config"
	"github.com/wricardo/dicechess/game/engine"
	"github.com/wricardo/dicechess/game/service"
)

func newRepoConfigManager(t *testing.T) *config.Manager {
	t.Helper()
	configManager, err := config.NewManager("../../configs")
	if err != nil {
		t.Fatalf("Failed to create config manager: %v", err)
	}
	return configManager
}

// playedSession returns a classic session mid-turn: e-pawn advanced, 1 move left
func playedSession(t *testing.T, configManager *config.Manager, id string) *service.Session {
	t.Helper()
	gameConfig, err := configManager.LoadConfig("classic")
	if err != nil {
		t.Fatalf("Failed to load classic: %v", err)
	}
	eng, err := engine.NewEngineWithDice(gameConfig, engine.FixedDice(3))
	if err != nil {
		t.Fatalf("Failed to create engine: %v", err)
	}
	eng.RequestRoll()
	eng.NotifyRollAnimationComplete()
	eng.SelectSquare(engine.Sq(4, 6))
	if res := eng.AttemptMove(engine.Sq(4, 4)); !res.Accepted() {
		t.Fatalf("Setup move rejected: %s", res.Reason)
	}

	now := time.Now().Truncate(time.Second)
	return &service.Session{
		ID:             id,
		ConfigID:       "classic",
		Engine:         eng,
		Config:         gameConfig,
		CreatedAt:      now.Add(-time.Minute),
		LastAccessedAt: now,
	}
}

func assertRestored(t *testing.T, original, loaded *service.Session) {
	t.Helper()
	if loaded.ID != original.ID {
		t.Errorf("Expected ID %s, got %s", original.ID, loaded.ID)
	}
	if loaded.ConfigID != "classic" {
		t.Errorf("Expected config ID classic, got %s", loaded.ConfigID)
	}
	if !loaded.CreatedAt.Equal(original.CreatedAt) {
		t.Errorf("CreatedAt mismatch: %v vs %v", loaded.CreatedAt, original.CreatedAt)
	}
	if loaded.Engine.Phase() != engine.AwaitingMove {
		t.Errorf("Expected awaiting_move, got %s", loaded.Engine.Phase())
	}
	if loaded.Engine.MovesLeft() != 1 {
		t.Errorf("Expected 1 move left, got %d", loaded.Engine.MovesLeft())
	}
	if loaded.Engine.DiceValue() != 3 {
		t.Errorf("Expected dice 3, got %d", loaded.Engine.DiceValue())
	}
	pawn := loaded.Engine.PieceAt(engine.Sq(4, 4))
	if pawn == nil || pawn.Kind != engine.Pawn || !pawn.MovedThisTurn {
		t.Errorf("Expected moved pawn on (4,4), got %+v", pawn)
	}
	if loaded.Engine.PieceAt(engine.Sq(4, 6)) != nil {
		t.Error("Expected (4,6) to be empty")
	}

	// The restored game keeps playing
	if res := loaded.Engine.SelectSquare(engine.Sq(4, 4)); res.Events[0].Type != engine.EventSelectionCleared {
		t.Errorf("Moved pawn should not be selectable, got %+v", res)
	}
	if res := loaded.Engine.EndTurn(); !res.Accepted() {
		t.Errorf("EndTurn on restored session rejected: %s", res.Reason)
	}
}

func TestFilePersistence(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newRepoConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	session := playedSession(t, configManager, "fp01")

	t.Run("Save and Load", func(t *testing.T) {
		if err := persistence.Save(session); err != nil {
			t.Fatalf("Failed to save session: %v", err)
		}
		if !persistence.Exists("fp01") {
			t.Fatal("Expected session file to exist")
		}

		loaded, err := persistence.Load("fp01")
		if err != nil {
			t.Fatalf("Failed to load session: %v", err)
		}
		assertRestored(t, session, loaded)
	})

	t.Run("Load missing", func(t *testing.T) {
		if _, err := persistence.Load("none"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("ListAll", func(t *testing.T) {
		persistence.Save(playedSession(t, configManager, "fp02"))
		os.WriteFile(filepath.Join(tempDir, "notes.txt"), []byte("x"), 0644)

		ids, err := persistence.ListAll()
		if err != nil {
			t.Fatalf("ListAll failed: %v", err)
		}
		if len(ids) != 2 {
			t.Errorf("Expected 2 sessions, got %v", ids)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := persistence.Delete("fp02"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("fp02") {
			t.Error("Expected session file to be removed")
		}
		if err := persistence.Delete("fp02"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("Save nil", func(t *testing.T) {
		if err := persistence.Save(nil); err == nil {
			t.Error("Expected error saving nil session")
		}
	})
}

func TestFilePersistenceFileStructure(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newRepoConfigManager(t)
	persistence, _ := NewFilePersistence(tempDir, configManager)

	if err := persistence.Save(playedSession(t, configManager, "Fs01")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	raw, err := os.ReadFile(filepath.Join(tempDir, "fs01.json"))
	if err != nil {
		t.Fatalf("Expected lower-cased file name: %v", err)
	}

	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		t.Fatalf("Session file is not JSON: %v", err)
	}
	for _, key := range []string{"id", "config_name", "created_at", "last_accessed_at", "game_state"} {
		if _, ok := data[key]; !ok {
			t.Errorf("Missing key %q in session file", key)
		}
	}
	if data["config_name"] != "classic" {
		t.Errorf("Expected config_name classic, got %v", data["config_name"])
	}

	state, _ := data["game_state"].(map[string]any)
	if state["phase"] != string(engine.AwaitingMove) {
		t.Errorf("Expected phase awaiting_move, got %v", state["phase"])
	}
}
