package models

import (
	"testing"
	"time"
)

func TestArchiveDateOf(t *testing.T) {
	prague, err := time.LoadLocation("Europe/Prague")
	if err != nil {
		t.Fatalf("LoadLocation: %v", err)
	}

	tests := []struct {
		name      string
		createdAt time.Time
		want      string
	}{
		{"utc midday", time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), "2024-05-01"},
		{"utc midnight", time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), "2024-05-02"},
		// 00:30 local is still the previous day in UTC.
		{"local after midnight", time.Date(2024, 5, 2, 0, 30, 0, 0, prague), "2024-05-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ArchiveDateOf(tt.createdAt); got != tt.want {
				t.Errorf("ArchiveDateOf() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCharacterAliveAndFullName(t *testing.T) {
	ch := Character{FirstName: "Albus", LastName: "Brumbál"}
	if !ch.Alive() {
		t.Error("Alive() = false for character without death date")
	}
	if ch.FullName() != "Albus Brumbál" {
		t.Errorf("FullName() = %q", ch.FullName())
	}

	died := time.Now()
	ch.DeathDate = &died
	if ch.Alive() {
		t.Error("Alive() = true for character with death date")
	}
}

func TestChatRoomProtected(t *testing.T) {
	room := ChatRoom{}
	if room.Protected() {
		t.Error("Protected() = true for room without password")
	}
	room.Password = "heslo"
	if !room.Protected() {
		t.Error("Protected() = false for room with password")
	}
}
