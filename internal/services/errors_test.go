package services_test

import (
	"errors"
	"fmt"
	"testing"

	"ncmconv/internal/history"
	"ncmconv/internal/services"
)

func TestWrapMessageAndMatching(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "finalize", "ffmpeg", "exited non-zero", base)

	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected cause to be retained, got %v", err)
	}
	want := "external tool error: finalize: ffmpeg: exited non-zero: boom"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, " ", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if err.Error() != "transient failure: service failure" {
		t.Fatalf("unexpected fallback message %q", err.Error())
	}
}

func TestStageOf(t *testing.T) {
	err := fmt.Errorf("song.ncm: %w", services.Wrap(services.ErrValidation, "decode", "parse", "", nil))
	if got := services.StageOf(err); got != "decode" {
		t.Fatalf("StageOf = %q, want decode", got)
	}
	if got := services.StageOf(errors.New("plain")); got != "" {
		t.Fatalf("StageOf on plain error = %q", got)
	}
}

func TestFailureStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want history.Status
	}{
		{"validation", services.Wrap(services.ErrValidation, "decode", "magic", "not a container", nil), history.StatusRejected},
		{"not found", services.Wrap(services.ErrNotFound, "decode", "open", "", nil), history.StatusRejected},
		{"tool", services.Wrap(services.ErrExternalTool, "finalize", "run", "failed", errors.New("exit 1")), history.StatusFailed},
		{"nil", nil, history.StatusFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.FailureStatus(tt.err); got != tt.want {
				t.Fatalf("FailureStatus = %s, want %s", got, tt.want)
			}
		})
	}
}
