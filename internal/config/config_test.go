package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultWorldServer(t *testing.T) {
	cfg := DefaultWorldServer()

	if cfg.ResetSchedule.DailyHour != 9 {
		t.Errorf("ResetSchedule.DailyHour = %d; want 9", cfg.ResetSchedule.DailyHour)
	}
	if cfg.ResetSchedule.WeeklyDay != 2 {
		t.Errorf("ResetSchedule.WeeklyDay = %d; want 2 (Tuesday)", cfg.ResetSchedule.WeeklyDay)
	}
}

func TestLoadWorldServer_MissingFile(t *testing.T) {
	cfg, err := LoadWorldServer(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadWorldServer() error = %v; want nil for missing file", err)
	}
	if cfg != DefaultWorldServer() {
		t.Errorf("LoadWorldServer() = %+v; want defaults", cfg)
	}
}

func TestLoadWorldServer_Overrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "world.yaml")
	yamlContent := []byte("reset_schedule:\n  daily_hour: 3\n  weekly_day: 1\n")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadWorldServer(path)
	if err != nil {
		t.Fatalf("LoadWorldServer() error = %v", err)
	}
	if cfg.ResetSchedule.DailyHour != 3 {
		t.Errorf("ResetSchedule.DailyHour = %d; want 3", cfg.ResetSchedule.DailyHour)
	}
	if cfg.ResetSchedule.WeeklyDay != 1 {
		t.Errorf("ResetSchedule.WeeklyDay = %d; want 1", cfg.ResetSchedule.WeeklyDay)
	}
	// Fields not present in the override file keep their defaults.
	if cfg.Database.DBName != "dragonflight" {
		t.Errorf("Database.DBName = %q; want default preserved", cfg.Database.DBName)
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "u",
		Password: "p",
		DBName:   "world",
		SSLMode:  "require",
	}
	want := "postgres://u:p@db.internal:5433/world?sslmode=require"
	if got := d.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}
