package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("VKINDER_DATABASE_DSN", "postgres://test")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.Count != 100 || cfg.Search.AgeRange != 5 || cfg.Search.MaxPhotos != 3 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.Search.MinPhotoLikes != 1 || cfg.Search.ViewedRetentionDays != 30 {
		t.Fatalf("unexpected search defaults: %+v", cfg.Search)
	}
	if cfg.VK.Version == "" || cfg.VK.BaseURL == "" {
		t.Fatalf("vk defaults missing: %+v", cfg.VK)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("VKINDER_DATABASE_DSN", "postgres://test")
	t.Setenv("VKINDER_SEARCH_AGE_RANGE", "10")
	t.Setenv("VKINDER_LOGGING_FORMAT", "json")
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.AgeRange != 10 {
		t.Fatalf("age_range = %d, want 10", cfg.Search.AgeRange)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("format = %q, want json", cfg.Logging.Format)
	}
}

func TestLoadRejectsOutOfRange(t *testing.T) {
	t.Setenv("VKINDER_DATABASE_DSN", "postgres://test")
	cases := map[string]string{
		"VKINDER_SEARCH_AGE_RANGE":  "21",
		"VKINDER_SEARCH_MAX_PHOTOS": "11",
		"VKINDER_LOGGING_LEVEL":     "verbose",
	}
	for key, val := range cases {
		t.Setenv(key, val)
		if _, err := Load(""); err == nil {
			t.Fatalf("%s=%s must fail validation", key, val)
		}
		os.Unsetenv(key)
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	t.Setenv("VKINDER_DATABASE_DSN", "")
	if _, err := Load(""); err == nil {
		t.Fatal("missing dsn must fail validation")
	}
}

func TestLoadYAMLFile(t *testing.T) {
	t.Setenv("VKINDER_DATABASE_DSN", "postgres://test")
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "search:\n  count: 250\nserver:\n  addr: \":9000\"\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Search.Count != 250 {
		t.Fatalf("count = %d, want 250 from file", cfg.Search.Count)
	}
	if cfg.Server.Addr != ":9000" {
		t.Fatalf("addr = %q, want :9000", cfg.Server.Addr)
	}
}

func TestCityTableLookup(t *testing.T) {
	table := NewCityTable(nil)
	id, ok := table.Lookup("москва")
	if !ok || id != 1 {
		t.Fatalf("москва = (%d,%v), want (1,true)", id, ok)
	}
	if _, ok := table.Lookup("атлантида"); ok {
		t.Fatal("unknown city must miss")
	}
}

func TestCityTableNormalizesKeys(t *testing.T) {
	table := NewCityTable(map[string]int64{" Орёл ": 111})
	id, ok := table.Lookup("орел")
	if !ok || id != 111 {
		t.Fatalf("орел = (%d,%v), want (111,true)", id, ok)
	}
}

func TestCityTableLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cities.json")
	if err := os.WriteFile(path, []byte(`{"Тула": 173}`), 0o644); err != nil {
		t.Fatal(err)
	}
	table := NewCityTable(nil)
	if err := table.LoadFile(path); err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if id, ok := table.Lookup("тула"); !ok || id != 173 {
		t.Fatalf("тула = (%d,%v), want (173,true)", id, ok)
	}
	// The file replaces the table wholesale.
	if _, ok := table.Lookup("москва"); ok {
		t.Fatal("defaults must be gone after LoadFile")
	}
}

func TestCityTableLoadFileRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	table := NewCityTable(nil)

	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, []byte(`{}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := table.LoadFile(empty); err == nil {
		t.Fatal("empty table must be rejected")
	}

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte(`not json`), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := table.LoadFile(garbage); err == nil {
		t.Fatal("garbage must be rejected")
	}
	// Previous content survives a failed reload.
	if _, ok := table.Lookup("москва"); !ok {
		t.Fatal("failed reload must keep the previous table")
	}
}
