package session

import (
	"testing"

	"github.com/wricardo/dicechess/game/engine"
)

func TestManagerWithPersistence(t *testing.T) {
	tempDir := t.TempDir()
	configManager := newRepoConfigManager(t)

	persistence, err := NewFilePersistence(tempDir, configManager)
	if err != nil {
		t.Fatalf("Failed to create file persistence: %v", err)
	}

	manager := NewManagerWithPersistence(persistence)

	t.Run("Create Session Auto-Saves", func(t *testing.T) {
		session, err := manager.Create("auto1", "classic", configManager.GetDefault())
		if err != nil {
			t.Fatalf("Failed to create session: %v", err)
		}
		if !persistence.Exists(session.ID) {
			t.Error("Session should be auto-saved on creation")
		}
	})

	t.Run("Get Session Loads from Persistence", func(t *testing.T) {
		manager2 := NewManagerWithPersistence(persistence)

		session, err := manager2.Get("auto1")
		if err != nil {
			t.Fatalf("Failed to get session from persistence: %v", err)
		}
		if session.Engine.Phase() != engine.AwaitingRoll {
			t.Errorf("Expected awaiting_roll, got %s", session.Engine.Phase())
		}
		if manager2.Count() != 1 {
			t.Errorf("Expected loaded session to be cached, count %d", manager2.Count())
		}
	})

	t.Run("Save Persists Engine State", func(t *testing.T) {
		session, _ := manager.Get("auto1")
		session.Engine.SetDice(engine.FixedDice(5))
		session.Engine.RequestRoll()
		session.Engine.NotifyRollAnimationComplete()

		if err := manager.Save("auto1"); err != nil {
			t.Fatalf("Save failed: %v", err)
		}

		loaded, err := persistence.Load("auto1")
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		if loaded.Engine.MovesLeft() != 5 {
			t.Errorf("Expected 5 moves left after reload, got %d", loaded.Engine.MovesLeft())
		}
	})

	t.Run("LoadPersistedSessions", func(t *testing.T) {
		manager.Create("auto2", "classic", configManager.GetDefault())

		fresh := NewManagerWithPersistence(persistence)
		if err := fresh.LoadPersistedSessions(); err != nil {
			t.Fatalf("LoadPersistedSessions failed: %v", err)
		}
		if fresh.Count() != 2 {
			t.Errorf("Expected 2 sessions loaded, got %d", fresh.Count())
		}
	})

	t.Run("SaveAllSessions", func(t *testing.T) {
		if err := manager.SaveAllSessions(); err != nil {
			t.Errorf("SaveAllSessions failed: %v", err)
		}
	})

	t.Run("Expired sessions reload from storage", func(t *testing.T) {
		if removed := manager.CleanupExpiredSessions(0); removed != 2 {
			t.Errorf("Expected 2 sessions expired, got %d", removed)
		}
		if _, err := manager.Get("auto2"); err != nil {
			t.Errorf("Expected expired session to reload: %v", err)
		}
	})

	t.Run("Delete removes from storage", func(t *testing.T) {
		if err := manager.Delete("auto1"); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if persistence.Exists("auto1") {
			t.Error("Expected persisted session to be deleted")
		}
		if _, err := manager.Get("auto1"); err != ErrSessionNotFound {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})
}
