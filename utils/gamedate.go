package utils

import (
	"time"
)

// GameYearOffset shifts the real calendar into the in-fiction one. The story
// runs this many years behind the real world.
const GameYearOffset = -30

// GameDate returns the in-fiction date corresponding to a real timestamp.
func GameDate(now time.Time) time.Time {
	return now.AddDate(GameYearOffset, 0, 0)
}

// CharacterAge computes a character's in-fiction age in whole years at the
// given real-world time.
func CharacterAge(birthDate, now time.Time) int {
	gameNow := GameDate(now)
	age := gameNow.Year() - birthDate.Year()
	// Birthday not reached yet this year.
	if gameNow.Month() < birthDate.Month() ||
		(gameNow.Month() == birthDate.Month() && gameNow.Day() < birthDate.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
