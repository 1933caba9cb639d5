package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wricardo/dicechess/game/session"
)

func TestConstants(t *testing.T) {
	if Version == "" {
		t.Error("Version should not be empty")
	}

	expectedAppName := "Dice Chess Server"
	if AppName != expectedAppName {
		t.Errorf("Expected app name %s, got %s", expectedAppName, AppName)
	}
}

func TestInitializeServices(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}

	for _, store := range []string{"file", "badger"} {
		t.Run(store, func(t *testing.T) {
			svc, err := initializeServices("configs", store, t.TempDir())
			if err != nil {
				t.Fatalf("Failed to initialize services: %v", err)
			}
			defer svc.Close()

			if svc.game == nil || svc.sessions == nil || svc.persistence == nil {
				t.Fatal("Expected all services to be initialized")
			}

			info, err := svc.game.CreateSession(context.Background(), "classic")
			if err != nil {
				t.Fatalf("Failed to create session: %v", err)
			}
			if !svc.persistence.Exists(info.ID) {
				t.Errorf("Expected session %s to be stored", info.ID)
			}
		})
	}
}

func TestInitializeServicesReloadsSessions(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	dir := t.TempDir()

	svc, err := initializeServices("configs", "badger", dir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	info, err := svc.game.CreateSession(context.Background(), "skirmish")
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	svc.Close()

	reopened, err := initializeServices("configs", "badger", dir)
	if err != nil {
		t.Fatalf("Failed to reopen services: %v", err)
	}
	defer reopened.Close()

	got, err := reopened.game.GetSession(context.Background(), info.ID)
	if err != nil {
		t.Fatalf("Expected session %s after restart: %v", info.ID, err)
	}
	if got.GameConfig == nil || got.GameConfig.Name != "Skirmish" {
		t.Errorf("Expected Skirmish config, got %+v", got.GameConfig)
	}
}

func TestInitializeServices_InvalidConfigDir(t *testing.T) {
	if _, err := initializeServices("/non/existent/path", "file", t.TempDir()); err == nil {
		t.Error("Expected error for non-existent config directory")
	}
}

func TestInitializeServices_UnknownStore(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	if _, err := initializeServices("configs", "redis", t.TempDir()); err == nil {
		t.Error("Expected error for unknown store")
	}
}

func TestPruneOrphanedSessions(t *testing.T) {
	if _, err := os.Stat("configs"); os.IsNotExist(err) {
		t.Skip("Skipping test - configs directory not found")
	}
	dir := t.TempDir()

	svc, err := initializeServices("configs", "file", dir)
	if err != nil {
		t.Fatalf("Failed to initialize services: %v", err)
	}
	defer svc.Close()

	kept, _ := svc.game.CreateSession(context.Background(), "classic")
	removed, _ := svc.game.CreateSession(context.Background(), "classic")

	if err := os.Remove(filepath.Join(dir, removed.ID+".json")); err != nil {
		t.Fatalf("Failed to remove session file: %v", err)
	}

	if pruned := pruneOrphanedSessions(svc.sessions, svc.persistence); pruned != 1 {
		t.Errorf("Expected 1 pruned session, got %d", pruned)
	}
	if _, err := svc.sessions.Get(kept.ID); err != nil {
		t.Errorf("Expected %s to stay: %v", kept.ID, err)
	}
	if _, err := svc.sessions.Get(removed.ID); err != session.ErrSessionNotFound {
		t.Errorf("Expected %s to be gone, got %v", removed.ID, err)
	}
}

func TestBackgroundRoutinesStopWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	manager := session.NewManager()

	done := make(chan struct{})
	go func() {
		sessionCleanupRoutine(ctx, manager)
		storageSyncRoutine(ctx, manager, nil)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Background routines did not stop")
	}
}

func TestFlagDefaults(t *testing.T) {
	if *port <= 0 || *port > 65535 {
		t.Errorf("Invalid default port: %d", *port)
	}

	if *host == "" {
		t.Error("Host should have a default value")
	}

	if *configDir == "" {
		t.Error("Config directory should have a default value")
	}

	if *store != "" {
		t.Errorf("Store flag should default to empty so SESSION_STORE applies, got %q", *store)
	}
}

func TestFlagOrEnv(t *testing.T) {
	t.Setenv("SESSION_STORE", "badger")

	if got := flagOrEnv("file", "SESSION_STORE", "file"); got != "file" {
		t.Errorf("Expected explicit flag to win, got %s", got)
	}
	if got := flagOrEnv("", "SESSION_STORE", "file"); got != "badger" {
		t.Errorf("Expected env value, got %s", got)
	}
	if got := flagOrEnv("", "DICECHESS_UNSET_VAR", "file"); got != "file" {
		t.Errorf("Expected fallback, got %s", got)
	}
}
