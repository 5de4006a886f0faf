package cli

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/treykane/cli-timeline/internal/layout"
	"github.com/treykane/cli-timeline/internal/storage"
	"github.com/treykane/cli-timeline/internal/timecode"
)

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestConvertTimecode(t *testing.T) {
	tests := []struct {
		in   string
		fps  int
		want string
	}{
		{in: "01:30:15", fps: 24, want: "2175"},
		{in: " 00:00:10 ", fps: 24, want: "10"},
		{in: "2175", fps: 24, want: "01:30:15 (1m30.6s @ 24fps)"},
		{in: "0", fps: 30, want: "00:00:00 (0s @ 30fps)"},
	}
	for _, tt := range tests {
		got, err := convertTimecode(tt.in, tt.fps)
		if err != nil {
			t.Fatalf("convertTimecode(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("convertTimecode(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConvertTimecodeErrors(t *testing.T) {
	if _, err := convertTimecode("1:2", 24); !errors.Is(err, timecode.ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
	if _, err := convertTimecode("00:00:24", 24); !errors.Is(err, timecode.ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if _, err := convertTimecode("10000000000000000:00:00", 24); !errors.Is(err, timecode.ErrExceedsDuration) {
		t.Fatalf("expected ErrExceedsDuration for an overflowing timecode, got %v", err)
	}
	if _, err := convertTimecode("-5", 24); err == nil {
		t.Fatal("expected error for negative frame count")
	}
}

func TestTimecodeCommandUsesFPSFlag(t *testing.T) {
	out, err := runCmd(t, "timecode", "--fps", "30", "00:01:15")
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if got := strings.TrimSpace(out); got != "45" {
		t.Fatalf("got %q, want 45", got)
	}
}

func TestRejectsNegativeFPS(t *testing.T) {
	if _, err := runCmd(t, "timecode", "--fps", "-1", "10"); err == nil {
		t.Fatal("expected error for negative fps")
	}
}

func TestRejectsUnknownStorageBackend(t *testing.T) {
	if _, err := runCmd(t, "layout", "show", "--storage", "redis"); err == nil {
		t.Fatal("expected error for unknown storage backend")
	}
}

func TestLayoutShowDefaults(t *testing.T) {
	dir := t.TempDir()
	out, err := runCmd(t, "layout", "show", "--storage-dir", dir)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out, "source:        default") {
		t.Fatalf("expected default source, got:\n%s", out)
	}
	if !strings.Contains(out, "timeline:      height 40.0%") {
		t.Fatalf("expected default timeline height, got:\n%s", out)
	}
}

func TestLayoutShowAndReset(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.Open("file", dir)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	stored := `{"assetLibrary":{"width":30},"preview":{"width":50,"height":55},"shotConfig":{"width":20},"timeline":{"height":45}}`
	if err := storage.Set(s, layout.StorageKey, stored); err != nil {
		t.Fatalf("seed layout: %v", err)
	}

	out, err := runCmd(t, "layout", "show", "--storage-dir", dir)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "source:        stored") || !strings.Contains(out, "asset library: width 30.0%") {
		t.Fatalf("expected stored layout, got:\n%s", out)
	}

	if _, err := runCmd(t, "layout", "reset", "--storage-dir", dir); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, ok, err := storage.Get(s, layout.StorageKey); err != nil || ok {
		t.Fatalf("expected layout key removed, ok=%v err=%v", ok, err)
	}
}

func TestLayoutShowCorruptFallsBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	s, err := storage.Open("file", dir)
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	if err := storage.Set(s, layout.StorageKey, "not-json"); err != nil {
		t.Fatalf("seed layout: %v", err)
	}
	out, err := runCmd(t, "layout", "show", "--storage-dir", dir)
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "stored layout unreadable") || !strings.Contains(out, "asset library: width 20.0%") {
		t.Fatalf("expected default layout for corrupt storage, got:\n%s", out)
	}
}

func TestLayoutRequiresStorage(t *testing.T) {
	if _, err := runCmd(t, "layout", "show", "--storage", "none"); !errors.Is(err, errNoStorage) {
		t.Fatalf("expected errNoStorage, got %v", err)
	}
}

func TestSnapshotWritesPNG(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "timeline.png")
	out, err := runCmd(t, "snapshot", "--storage", "none", "--out", path, "--width", "640", "--playhead", "48")
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !strings.Contains(out, "Wrote "+path) {
		t.Fatalf("unexpected output %q", out)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got := img.Bounds().Dx(); got != 640 {
		t.Fatalf("width: got %d, want 640", got)
	}
	if img.Bounds().Dy() <= 0 {
		t.Fatalf("expected a non-empty image, got %v", img.Bounds())
	}
}

func TestSnapshotRequiresOut(t *testing.T) {
	if _, err := runCmd(t, "snapshot", "--storage", "none"); err == nil {
		t.Fatal("expected error without --out")
	}
}

func TestSnapshotLoadsProjectFile(t *testing.T) {
	dir := t.TempDir()
	projectPath := filepath.Join(dir, "short.yaml")
	doc := `name: Short
fps: 24
duration: 480
tracks:
  - id: t-media
    type: media
shots:
  - id: s1
    name: Only
    start_time: 0
    duration: 48
    layers:
      - id: l1
        type: media
        start_time: 0
        duration: 48
`
	if err := os.WriteFile(projectPath, []byte(doc), 0o644); err != nil {
		t.Fatalf("write project: %v", err)
	}
	outPath := filepath.Join(dir, "short.png")
	if _, err := runCmd(t, "snapshot", "--storage", "none", "--project", projectPath, "--out", outPath, "--height", "80"); err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open snapshot: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode snapshot: %v", err)
	}
	if got := img.Bounds().Dy(); got != 80 {
		t.Fatalf("height: got %d, want 80 (one media track)", got)
	}
}
