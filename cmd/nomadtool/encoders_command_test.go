package main

import "testing"

func TestEncodersFallsBackToSoftware(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"encoders"}, env.configPath)
	if err != nil {
		t.Fatalf("encoders: %v", err)
	}
	requireContains(t, out, "libx264 (software fallback)")
}

func TestScanFailsForUnreadableFile(t *testing.T) {
	env := setupCLITestEnv(t)
	src := writeSourceFile(t, env.baseDir, "clip.mkv", 128)

	if _, _, err := runCLI(t, []string{"scan", src}, env.configPath); err == nil {
		t.Fatal("expected scan to fail when the transcoder binary is missing")
	}
}
