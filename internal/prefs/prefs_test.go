package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	p := Load("")
	if p != Default() {
		t.Fatalf("Load = %#v, want defaults", p)
	}
}

func TestLoad_ReadsDefaultLocation(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".config", "timekeep")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := "theme = \"Slate\"\nhide_stopped = true\n"
	if err := os.WriteFile(filepath.Join(dir, "prefs.toml"), []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.Theme != "Slate" || !p.HideStopped {
		t.Fatalf("Load = %#v, want Slate with hide_stopped", p)
	}
}

func TestLoad_CorruptOrBlankDegradesToDefaults(t *testing.T) {
	tmp := t.TempDir()

	corrupt := filepath.Join(tmp, "corrupt.toml")
	if err := os.WriteFile(corrupt, []byte("theme = [[["), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if p := Load(corrupt); p != Default() {
		t.Fatalf("Load(corrupt) = %#v, want defaults", p)
	}

	blank := filepath.Join(tmp, "blank.toml")
	if err := os.WriteFile(blank, []byte("theme = \"  \"\nhide_stopped = true\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	p := Load(blank)
	if p.Theme != defaultTheme || !p.HideStopped {
		t.Fatalf("Load(blank) = %#v, want default theme and hide_stopped kept", p)
	}
}

func TestSave_RoundTripsAndCreatesDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "prefs.toml")

	want := Prefs{Theme: "Kanagawa", HideStopped: true}
	if err := Save(path, want); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
	if got := Load(path); got != want {
		t.Fatalf("Load after Save = %#v, want %#v", got, want)
	}
}
