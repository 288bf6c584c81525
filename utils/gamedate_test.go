package utils

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestGameDate(t *testing.T) {
	got := GameDate(date(2024, time.May, 1))
	want := date(1994, time.May, 1)
	if !got.Equal(want) {
		t.Errorf("GameDate() = %v, want %v", got, want)
	}
}

func TestCharacterAge(t *testing.T) {
	tests := []struct {
		name  string
		birth time.Time
		now   time.Time
		want  int
	}{
		{"birthday passed", date(1980, time.March, 10), date(2024, time.May, 1), 14},
		{"birthday today", date(1980, time.May, 1), date(2024, time.May, 1), 14},
		{"birthday not yet", date(1980, time.December, 24), date(2024, time.May, 1), 13},
		{"born this game year", date(1994, time.January, 1), date(2024, time.May, 1), 0},
		{"born in the future", date(2000, time.January, 1), date(2024, time.May, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CharacterAge(tt.birth, tt.now); got != tt.want {
				t.Errorf("CharacterAge() = %d, want %d", got, tt.want)
			}
		})
	}
}
