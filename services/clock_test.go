package services

import (
	"testing"
	"time"
)

func TestDateKey(t *testing.T) {
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	if err != nil {
		t.Fatalf("failed to load Asia/Jakarta: %v", err)
	}

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		{
			// 23:59 Jakarta is still the same civil day
			"late evening local",
			time.Date(2025, 3, 10, 16, 59, 0, 0, time.UTC), // 23:59 WIB
			"2025-03-10",
		},
		{
			// 00:01 Jakarta has crossed into the next civil day even though
			// UTC is still on the previous one
			"just after local midnight",
			time.Date(2025, 3, 10, 17, 1, 0, 0, time.UTC), // 00:01 WIB Mar 11
			"2025-03-11",
		},
		{
			"midday local",
			time.Date(2025, 3, 10, 5, 0, 0, 0, time.UTC), // 12:00 WIB
			"2025-03-10",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DateKey(tc.now, jakarta)
			if got.Format("2006-01-02") != tc.want {
				t.Errorf("DateKey(%v) = %s, want %s", tc.now, got.Format("2006-01-02"), tc.want)
			}
			// Stored as a pure DATE: always UTC midnight
			if got.Hour() != 0 || got.Minute() != 0 || got.Second() != 0 || got.Location() != time.UTC {
				t.Errorf("DateKey(%v) = %v, not normalized to UTC midnight", tc.now, got)
			}
		})
	}
}

func TestDateKeyConsecutiveSubmissionsSameDay(t *testing.T) {
	jakarta, _ := time.LoadLocation("Asia/Jakarta")

	morning := time.Date(2025, 3, 10, 0, 30, 0, 0, time.UTC)   // 07:30 WIB
	afternoon := time.Date(2025, 3, 10, 9, 15, 0, 0, time.UTC) // 16:15 WIB

	if !DateKey(morning, jakarta).Equal(DateKey(afternoon, jakarta)) {
		t.Error("submissions on the same civil day must share one date key")
	}
}
