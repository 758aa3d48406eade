package autoreply

import (
	"path/filepath"
	"testing"
	"time"

	"citadel/internal/kv"

	"go.uber.org/zap"
)

func newTestEngine(t *testing.T, defaults Settings) *Engine {
	t.Helper()
	store, err := kv.Open(filepath.Join(t.TempDir(), "autoreply.store"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(store.Close)
	return NewEngine(store, zap.NewNop(), defaults, time.Minute)
}

func TestLoadConfigSeedsConfiguredDefaults(t *testing.T) {
	engine := newTestEngine(t, Settings{CooldownSeconds: 12, MaxTriggersPerUser: 7})

	cfg, err := engine.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Settings.CooldownSeconds != 12 {
		t.Fatalf("cooldown = %d, want the seeded 12", cfg.Settings.CooldownSeconds)
	}
	if cfg.Settings.MaxTriggersPerUser != 7 {
		t.Fatalf("maxTriggers = %d, want the seeded 7", cfg.Settings.MaxTriggersPerUser)
	}
}

func TestSavedSettingsOverrideDefaults(t *testing.T) {
	engine := newTestEngine(t, Settings{CooldownSeconds: 12, MaxTriggersPerUser: 7})

	cfg, _ := engine.LoadConfig()
	cfg.Settings.CooldownSeconds = 3
	if err := engine.SaveConfig(cfg); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded, err := engine.LoadConfig()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Settings.CooldownSeconds != 3 {
		t.Fatalf("cooldown = %d, want the saved 3", reloaded.Settings.CooldownSeconds)
	}
}

func TestNewEngineRejectsNegativeDefaults(t *testing.T) {
	engine := newTestEngine(t, Settings{CooldownSeconds: -1, MaxTriggersPerUser: -1})

	cfg, err := engine.LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	want := DefaultSettings()
	if cfg.Settings.CooldownSeconds != want.CooldownSeconds {
		t.Fatalf("cooldown = %d, want fallback %d", cfg.Settings.CooldownSeconds, want.CooldownSeconds)
	}
	if cfg.Settings.MaxTriggersPerUser != want.MaxTriggersPerUser {
		t.Fatalf("maxTriggers = %d, want fallback %d", cfg.Settings.MaxTriggersPerUser, want.MaxTriggersPerUser)
	}
}
