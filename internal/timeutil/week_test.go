package timeutil

import (
	"testing"
	"time"
)

func TestSeasonAnchor_FirstThursdayOfSeptember(t *testing.T) {
	t.Parallel()

	// September 1st 2024 is a Sunday; the first Thursday is the 5th.
	anchor := SeasonAnchor(2024, time.UTC)
	want := time.Date(2024, time.September, 5, 0, 0, 0, 0, time.UTC)
	if !anchor.Equal(want) {
		t.Fatalf("anchor = %s, want %s", anchor, want)
	}
	if anchor.Weekday() != time.Thursday {
		t.Fatalf("anchor weekday = %s, want Thursday", anchor.Weekday())
	}
}

func TestCurrentWeek_ClampsBeforeSeasonStart(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.July, 4, 12, 0, 0, 0, time.UTC)
	if got := CurrentWeek(now, 2024); got != 1 {
		t.Fatalf("week before season start = %d, want 1", got)
	}
}

func TestCurrentWeek_ClampsAfterWeekEighteen(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)
	if got := CurrentWeek(now, 2024); got != 18 {
		t.Fatalf("week far past the season = %d, want 18", got)
	}
}

func TestCurrentWeek_ProgressesWeekly(t *testing.T) {
	t.Parallel()

	anchor := SeasonAnchor(2024, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want int
	}{
		{"kickoff day", anchor, 1},
		{"sunday of week one", anchor.AddDate(0, 0, 3), 1},
		{"exactly one week in", anchor.AddDate(0, 0, 7), 2},
		{"mid week five", anchor.AddDate(0, 0, 30), 5},
		{"final scheduled week", anchor.AddDate(0, 0, 17*7), 18},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := CurrentWeek(tc.now, 2024); got != tc.want {
				t.Fatalf("CurrentWeek(%s) = %d, want %d", tc.now, got, tc.want)
			}
		})
	}
}
