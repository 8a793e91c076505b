package timeutil

import "time"

// WeeksPerSeason is the number of NFL regular-season weeks.
const WeeksPerSeason = 18

const firstWeek = 1

// SeasonAnchor returns the first Thursday of September for the given season
// year, the conventional kickoff of the NFL regular season.
func SeasonAnchor(season int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}

	day := time.Date(season, time.September, 1, 0, 0, 0, 0, loc)
	for day.Weekday() != time.Thursday {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// CurrentWeek computes the NFL week containing now, clamped to [1, 18].
// Dates before the season anchor report week 1; dates past the regular
// season report week 18.
func CurrentWeek(now time.Time, season int) int {
	anchor := SeasonAnchor(season, now.Location())

	days := int(now.Sub(anchor).Hours() / 24)
	week := days/7 + 1
	if now.Before(anchor) {
		week = firstWeek
	}

	if week < firstWeek {
		return firstWeek
	}
	if week > WeeksPerSeason {
		return WeeksPerSeason
	}
	return week
}
