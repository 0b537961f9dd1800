package selfrebuild

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func touch(t *testing.T, path string, when time.Time) {
	t.Helper()
	if err := os.WriteFile(path, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, when, when); err != nil {
		t.Fatal(err)
	}
}

func TestNeedsRebuildMissingExe(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "main.go")
	touch(t, src, time.Now())

	got, err := NeedsRebuild(filepath.Join(dir, "missing"), []string{src})
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("NeedsRebuild() = false, want true for missing exe")
	}
}

func TestNeedsRebuildStaleSource(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "build")
	src := filepath.Join(dir, "main.go")
	base := time.Now()
	touch(t, exe, base)
	touch(t, src, base.Add(time.Second))

	got, err := NeedsRebuild(exe, []string{src})
	if err != nil {
		t.Fatal(err)
	}
	if !got {
		t.Error("NeedsRebuild() = false, want true when source is newer")
	}
}

func TestNeedsRebuildFresh(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "build")
	src := filepath.Join(dir, "main.go")
	base := time.Now()
	touch(t, src, base)
	touch(t, exe, base.Add(time.Second))

	got, err := NeedsRebuild(exe, []string{src})
	if err != nil {
		t.Fatal(err)
	}
	if got {
		t.Error("NeedsRebuild() = true, want false when exe is newer")
	}
}

func TestPlaceUnlinksStaleOldAndSwaps(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "build")
	newBinary := filepath.Join(dir, "build.new")
	old := exe + ".old"

	touch(t, exe, time.Now())
	if err := os.WriteFile(old, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(newBinary, []byte("new binary contents"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Place(exe, newBinary); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(exe)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "new binary contents" {
		t.Errorf("exe contents = %q, want %q", data, "new binary contents")
	}
	if _, err := os.Stat(old); err != nil {
		t.Errorf("expected renamed-aside old exe at %s: %v", old, err)
	}
}
