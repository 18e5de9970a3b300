package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestConvertFLACContainer(t *testing.T) {
	env := setupCLITestEnv(t)
	plain := []byte("fLaC" + "\x00\x00\x00\x22" + "stream body")
	src := env.writeContainer(t, "track.ncm", plain)

	out, _, err := runCLI(t, []string{"convert", src}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "[OK]")
	requireContains(t, out, "Converted 1 of 1 file(s)")

	got, err := os.ReadFile(filepath.Join(env.cfg.Paths.OutputDir, "track.flac"))
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !bytes.Equal(got, plain) {
		t.Fatal("output does not match decrypted payload")
	}
}

func TestConvertDirectoryUsesTranscoderForOtherPayloads(t *testing.T) {
	env := setupCLITestEnv(t)
	env.writeContainer(t, "a.ncm", []byte("fLaC-first"))
	mp3 := []byte("ID3\x03\x00\x00\x00\x00\x00\x00not really mpeg")
	env.writeContainer(t, "b.ncm", mp3)

	outDir := filepath.Join(env.baseDir, "elsewhere")
	out, _, err := runCLI(t, []string{"convert", "--output-dir", outDir, "--show-started", filepath.Join(env.baseDir, "music")}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "[INFO] converting")
	requireContains(t, out, "Converted 2 of 2 file(s)")

	// The copy stub hands its input through unchanged.
	got, err := os.ReadFile(filepath.Join(outDir, "b.flac"))
	if err != nil {
		t.Fatalf("read transcoded output: %v", err)
	}
	if !bytes.Equal(got, mp3) {
		t.Fatal("transcoder received unexpected input")
	}
	if _, err := os.Stat(filepath.Join(outDir, "a.flac")); err != nil {
		t.Fatalf("expected a.flac: %v", err)
	}
}

func TestConvertReportsFailures(t *testing.T) {
	env := setupCLITestEnv(t)
	bogus := filepath.Join(env.baseDir, "music", "bogus.ncm")
	if err := os.MkdirAll(filepath.Dir(bogus), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(bogus, []byte("definitely not a container"), 0o644); err != nil {
		t.Fatal(err)
	}
	good := env.writeContainer(t, "good.ncm", []byte("fLaC...."))

	out, _, err := runCLI(t, []string{"convert", bogus, good}, env.configPath)
	if err == nil {
		t.Fatal("expected error when a conversion fails")
	}
	requireContains(t, err.Error(), "1 conversion(s) failed")
	requireContains(t, out, "[ERROR]")
	requireContains(t, out, "Converted 1 of 2 file(s)")

	listOut, _, err := runCLI(t, []string{"history", "list", "--status", "rejected"}, env.configPath)
	if err != nil {
		t.Fatalf("history list: %v", err)
	}
	requireContains(t, listOut, "bogus.ncm")
}

func TestConvertEmptyDirectory(t *testing.T) {
	env := setupCLITestEnv(t)
	empty := filepath.Join(env.baseDir, "empty")
	if err := os.MkdirAll(empty, 0o755); err != nil {
		t.Fatal(err)
	}
	out, _, err := runCLI(t, []string{"convert", empty}, env.configPath)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	requireContains(t, out, "No .ncm files found")
}

func TestConvertRequiresArguments(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, _, err := runCLI(t, []string{"convert"}, env.configPath); err == nil {
		t.Fatal("expected usage error without inputs")
	}
}
