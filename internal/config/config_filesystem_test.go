package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureLogOutput captures logs written during a test function.
func captureLogOutput(t *testing.T, fn func()) []byte {
	t.Helper()
	var buf bytes.Buffer
	oldLogger := log
	log = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	defer func() { log = oldLogger }()
	fn()
	return buf.Bytes()
}

func TestSaveConfigDirCreationError(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("cannot test permission errors as root")
	}

	home := t.TempDir()
	t.Setenv("HOME", home)

	// Create a file where the config dir should be
	configDir := filepath.Join(home, configDirName)
	if err := os.WriteFile(configDir, []byte("blocking file"), 0o644); err != nil {
		t.Fatalf("write blocking file: %v", err)
	}

	err := Save(Config{})
	if err == nil {
		t.Fatal("expected error when config dir path is blocked by a file")
	}

	if !strings.Contains(err.Error(), "create config dir") {
		t.Errorf("error should mention config dir creation, got: %v", err)
	}
}

func TestSaveConfigSuccessLogsInfo(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	logs := captureLogOutput(t, func() {
		if err := Save(Config{FPS: 25}); err != nil {
			t.Fatalf("save config: %v", err)
		}
	})

	logStr := string(logs)
	if !strings.Contains(logStr, "level=INFO") {
		t.Error("successful save should log at INFO level")
	}
	if !strings.Contains(logStr, "saved config") {
		t.Error("log should contain 'saved config'")
	}
	expectedPath := filepath.Join(home, configDirName, configFileName)
	if !strings.Contains(logStr, expectedPath) {
		t.Errorf("log should contain config path %q", expectedPath)
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(home, configDirName, configFileName)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(`{invalid json`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error when config contains invalid JSON")
	}

	if !strings.Contains(err.Error(), "parse config") {
		t.Errorf("error should mention parse config, got: %v", err)
	}
}

func TestLoadConfigUnknownBackend(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	configPath := filepath.Join(home, configDirName, configFileName)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(configPath, []byte(`{"storage_backend":"etcd"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
	if !strings.Contains(err.Error(), "invalid config") {
		t.Errorf("error should mention invalid config, got: %v", err)
	}
}

func TestConfigPathUserHomeDirError(t *testing.T) {
	t.Setenv("HOME", "")

	_, err := ConfigPath()
	if err == nil {
		t.Fatal("expected error when HOME is not set")
	}

	if !strings.Contains(err.Error(), "resolve home dir") {
		t.Errorf("error should mention home dir resolution, got: %v", err)
	}
}
