package controllers

import (
	"strings"
	"testing"
	"time"
)

func TestRenderTranscript(t *testing.T) {
	entries := []TranscriptEntry{
		{Name: "Albus Brumbál", CreatedAt: time.Date(2024, 5, 1, 18, 30, 0, 0, time.UTC), Content: "Ahoj"},
		{Name: "Vypravěč", CreatedAt: time.Date(2024, 5, 1, 18, 31, 15, 0, time.UTC), Content: "Do síně vchází profesorka."},
	}

	got := RenderTranscript("Velká síň", entries)

	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")
	if lines[0] != "Velká síň" {
		t.Errorf("header = %q, want room name", lines[0])
	}
	if want := "[2024-05-01 18:30:00] Albus Brumbál: Ahoj"; lines[3] != want {
		t.Errorf("line 1 = %q, want %q", lines[3], want)
	}
	if want := "[2024-05-01 18:31:15] Vypravěč: Do síně vchází profesorka."; lines[4] != want {
		t.Errorf("line 2 = %q, want %q", lines[4], want)
	}
}

func TestRenderTranscript_Empty(t *testing.T) {
	got := RenderTranscript("Velká síň", nil)
	if !strings.HasPrefix(got, "Velká síň\n") {
		t.Errorf("RenderTranscript() = %q, want header only", got)
	}
}

func TestRenderTranscript_PreservesOrder(t *testing.T) {
	entries := []TranscriptEntry{
		{Name: "A", CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), Content: "první"},
		{Name: "B", CreatedAt: time.Date(2024, 5, 1, 11, 0, 0, 0, time.UTC), Content: "druhá"},
		{Name: "C", CreatedAt: time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), Content: "třetí"},
	}

	got := RenderTranscript("Sklepení", entries)

	first := strings.Index(got, "první")
	second := strings.Index(got, "druhá")
	third := strings.Index(got, "třetí")
	if first == -1 || second == -1 || third == -1 || !(first < second && second < third) {
		t.Errorf("transcript order broken:\n%s", got)
	}
}

func TestExportSlug(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Velká síň", "velk-s"},
		{"General Chat", "general-chat"},
		{"***", "room"},
		{"room_1", "room-1"},
	}

	for _, tt := range tests {
		if got := exportSlug(tt.in); got != tt.want {
			t.Errorf("exportSlug(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
