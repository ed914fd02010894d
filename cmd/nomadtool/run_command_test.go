package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCopiesMovieToLibrary(t *testing.T) {
	env := setupCLITestEnv(t)
	src := writeSourceFile(t, env.baseDir, "Movie.Name.2020.1080p.x264.mkv", 2048)

	out, _, err := runCLI(t, []string{"run", src}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Transferred 1")

	dest := filepath.Join(env.libraryDir, "movies", "Movie Name (2020)", "Movie Name (2020).mkv")
	info, err := os.Stat(dest)
	if err != nil {
		t.Fatalf("expected library file at %s: %v", dest, err)
	}
	if info.Size() != 2048 {
		t.Fatalf("library file size = %d, want 2048", info.Size())
	}
}

func TestRunSkipsDuplicate(t *testing.T) {
	env := setupCLITestEnv(t)
	src := writeSourceFile(t, env.baseDir, "Show.Name.S01E02.mkv", 512)

	existing := filepath.Join(env.libraryDir, "shows", "Show Name", "Season 01", "Show Name - S01E02.mkv")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatalf("mkdir existing: %v", err)
	}
	if err := os.WriteFile(existing, []byte("old"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	out, _, err := runCLI(t, []string{"run", src}, env.configPath)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "skipped 1 duplicate")

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatalf("read existing: %v", err)
	}
	if string(data) != "old" {
		t.Fatal("duplicate run must not overwrite the library file")
	}
}

func TestRunRejectsUnknownPreset(t *testing.T) {
	env := setupCLITestEnv(t)
	src := writeSourceFile(t, env.baseDir, "Movie.2020.mkv", 64)

	_, _, err := runCLI(t, []string{"run", "--preset", "potato", src}, env.configPath)
	if err == nil {
		t.Fatal("expected error for unknown preset")
	}
	requireContains(t, err.Error(), "unknown preset")
}

func TestRunRequiresArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"run"}, env.configPath); err == nil {
		t.Fatal("expected error when no files are given")
	}
}
