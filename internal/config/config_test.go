package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// isolate points every config source at an empty temp location.
func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"GODO_FILE", "GODO_FILTER", "GODO_CONFIRM_DELETE",
		"GODO_LOG_LEVEL", "GODO_LOG_FORMAT", "GODO_LOG_TIMESTAMPS",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != DefaultTodoFile {
		t.Errorf("TodoFile = %q, want %q", cfg.TodoFile, DefaultTodoFile)
	}
	if cfg.DefaultFilter != DefaultFilter {
		t.Errorf("DefaultFilter = %q, want %q", cfg.DefaultFilter, DefaultFilter)
	}
	if !cfg.ConfirmDelete {
		t.Error("ConfirmDelete should default to true")
	}
	if cfg.LogLevel != DefaultLogLevel {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, DefaultLogLevel)
	}
}

func TestLoadUserConfigFile(t *testing.T) {
	isolate(t)

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "godo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	content := "todo_file = \"/tmp/my-todos.json\"\ndefault_filter = \"pending\"\n"
	if err := os.WriteFile(filepath.Join(dir, "godo.toml"), []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != "/tmp/my-todos.json" {
		t.Errorf("TodoFile = %q", cfg.TodoFile)
	}
	if cfg.DefaultFilter != "pending" {
		t.Errorf("DefaultFilter = %q", cfg.DefaultFilter)
	}
}

func TestProjectConfigOverridesUser(t *testing.T) {
	isolate(t)

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	dir := filepath.Join(configHome, "godo")
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "godo.toml"),
		[]byte("default_filter = \"pending\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile("godo.toml",
		[]byte("default_filter = \"completed\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DefaultFilter != "completed" {
		t.Errorf("DefaultFilter = %q, want project value", cfg.DefaultFilter)
	}
}

func TestEnvOverridesFiles(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("godo.toml",
		[]byte("todo_file = \"from-file.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("GODO_FILE", "from-env.json")
	t.Setenv("GODO_FILTER", "completed")
	t.Setenv("GODO_CONFIRM_DELETE", "false")
	t.Setenv("GODO_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TodoFile != "from-env.json" {
		t.Errorf("TodoFile = %q, want env value", cfg.TodoFile)
	}
	if cfg.DefaultFilter != "completed" {
		t.Errorf("DefaultFilter = %q", cfg.DefaultFilter)
	}
	if cfg.ConfirmDelete {
		t.Error("ConfirmDelete should be false from env")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestUnknownConfigKeyIsAnError(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("godo.toml",
		[]byte("todofile = \"typo.json\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "unknown key") {
		t.Fatalf("Load error = %v, want unknown key error", err)
	}
}

func TestMalformedConfigFile(t *testing.T) {
	isolate(t)

	if err := os.WriteFile("godo.toml", []byte("todo_file = [broken\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(); err == nil {
		t.Fatal("Load succeeded on malformed TOML, want error")
	}
}
