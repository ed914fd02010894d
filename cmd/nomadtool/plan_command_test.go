package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPlanRendersDestinations(t *testing.T) {
	env := setupCLITestEnv(t)
	movie := writeSourceFile(t, env.baseDir, "Movie.Name.2020.1080p.x264.mkv", 1024)
	episode := writeSourceFile(t, env.baseDir, "Show.Name.S02E05.mkv", 1024)

	out, _, err := runCLI(t, []string{"plan", movie, episode}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}

	requireContains(t, out, "Movie Name (2020)")
	requireContains(t, out, "Show Name - S02E05.mkv")
	requireContains(t, out, "Primary destination: library")

	// plan is a dry run: nothing may land in the library
	entries, err := os.ReadDir(env.libraryDir)
	if err != nil {
		t.Fatalf("read library dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("plan must not write to the library, found %d entries", len(entries))
	}
}

func TestPlanReportsExistingDuplicate(t *testing.T) {
	env := setupCLITestEnv(t)
	src := writeSourceFile(t, env.baseDir, "Movie.Name.2020.mkv", 256)

	existing := filepath.Join(env.libraryDir, "movies", "Movie Name (2020)", "Movie Name (2020).mkv")
	if err := os.MkdirAll(filepath.Dir(existing), 0o755); err != nil {
		t.Fatalf("mkdir existing: %v", err)
	}
	if err := os.WriteFile(existing, []byte("present"), 0o644); err != nil {
		t.Fatalf("write existing: %v", err)
	}

	out, _, err := runCLI(t, []string{"plan", src}, env.configPath)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	requireContains(t, out, "yes")
}
