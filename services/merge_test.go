package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tahfidz_go/models"
)

func TestMergeRange(t *testing.T) {
	cases := []struct {
		name                       string
		existingStart, existingEnd int
		newStart, newEnd           int
		wantStart, wantEnd         int
	}{
		{"disjoint after", 1, 10, 11, 20, 1, 20},
		{"disjoint before", 11, 20, 1, 10, 1, 20},
		{"overlapping", 1, 10, 5, 15, 1, 15},
		{"contained", 1, 20, 5, 10, 1, 20},
		{"containing", 5, 10, 1, 20, 1, 20},
		{"identical", 3, 7, 3, 7, 3, 7},
		{"single ayah extends end", 1, 5, 6, 6, 1, 6},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			start, end := mergeRange(tc.existingStart, tc.existingEnd, tc.newStart, tc.newEnd)
			if start != tc.wantStart || end != tc.wantEnd {
				t.Errorf("mergeRange(%d,%d,%d,%d) = (%d,%d), want (%d,%d)",
					tc.existingStart, tc.existingEnd, tc.newStart, tc.newEnd,
					start, end, tc.wantStart, tc.wantEnd)
			}

			// Union must not depend on which submission arrived first
			revStart, revEnd := mergeRange(tc.newStart, tc.newEnd, tc.existingStart, tc.existingEnd)
			if revStart != start || revEnd != end {
				t.Errorf("mergeRange is order dependent: (%d,%d) vs (%d,%d)",
					start, end, revStart, revEnd)
			}
		})
	}
}

func TestMergeNotes(t *testing.T) {
	cases := []struct {
		name      string
		existing  string
		submitted string
		want      string
	}{
		{"both empty", "", "", ""},
		{"existing only", "lancar", "", "lancar"},
		{"submitted only", "", "perlu diulang", "perlu diulang"},
		{"both present", "lancar", "perlu diulang", "lancar\nperlu diulang"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := mergeNotes(tc.existing, tc.submitted); got != tc.want {
				t.Errorf("mergeNotes(%q, %q) = %q, want %q", tc.existing, tc.submitted, got, tc.want)
			}
		})
	}
}

func TestDecideMerge(t *testing.T) {
	existing := models.MemorizationRecord{
		SurahID:       78,
		AyahStart:     1,
		AyahEnd:       10,
		QualityStatus: models.QualityGood,
		Notes:         "lancar",
		Tags: []models.RecordTag{
			{TagID: 1}, {TagID: 2},
		},
	}

	t.Run("quality is the latest verdict", func(t *testing.T) {
		d, err := decideMerge(existing, SubmitInput{SurahID: 78, AyahStart: 11, AyahEnd: 15, QualityStatus: models.QualityPoor})
		if err != nil {
			t.Fatalf("decideMerge returned error: %v", err)
		}
		if d.QualityStatus != models.QualityPoor {
			t.Errorf("QualityStatus = %q, want %q (resubmission wins)", d.QualityStatus, models.QualityPoor)
		}

		// And in the other direction: a later good verdict overrides a poor one
		worse := existing
		worse.QualityStatus = models.QualityPoor
		d, err = decideMerge(worse, SubmitInput{SurahID: 78, AyahStart: 11, AyahEnd: 15, QualityStatus: models.QualityGood})
		if err != nil {
			t.Fatalf("decideMerge returned error: %v", err)
		}
		if d.QualityStatus != models.QualityGood {
			t.Errorf("QualityStatus = %q, want %q", d.QualityStatus, models.QualityGood)
		}
	})

	t.Run("tags are replaced, not unioned", func(t *testing.T) {
		d, err := decideMerge(existing, SubmitInput{SurahID: 78, AyahStart: 11, AyahEnd: 15, QualityStatus: models.QualityGood, TagIDs: []uint{3}})
		if err != nil {
			t.Fatalf("decideMerge returned error: %v", err)
		}
		if len(d.TagIDs) != 1 || d.TagIDs[0] != 3 {
			t.Errorf("TagIDs = %v, want [3] (existing tags 1,2 must not survive)", d.TagIDs)
		}

		// An empty resubmission clears the tag set entirely
		d, err = decideMerge(existing, SubmitInput{SurahID: 78, AyahStart: 11, AyahEnd: 15, QualityStatus: models.QualityGood})
		if err != nil {
			t.Fatalf("decideMerge returned error: %v", err)
		}
		if len(d.TagIDs) != 0 {
			t.Errorf("TagIDs = %v, want empty", d.TagIDs)
		}
	})

	t.Run("range and notes accumulate", func(t *testing.T) {
		d, err := decideMerge(existing, SubmitInput{SurahID: 78, AyahStart: 8, AyahEnd: 20, QualityStatus: models.QualityFair, Notes: "perlu diulang"})
		if err != nil {
			t.Fatalf("decideMerge returned error: %v", err)
		}
		if d.AyahStart != 1 || d.AyahEnd != 20 {
			t.Errorf("range = (%d,%d), want (1,20)", d.AyahStart, d.AyahEnd)
		}
		if d.Notes != "lancar\nperlu diulang" {
			t.Errorf("Notes = %q, want %q", d.Notes, "lancar\nperlu diulang")
		}
	})

	t.Run("different surah is refused and existing is untouched", func(t *testing.T) {
		before := existing
		_, err := decideMerge(existing, SubmitInput{SurahID: 79, AyahStart: 1, AyahEnd: 5, QualityStatus: models.QualityGood, Notes: "salah surah"})
		if !errors.Is(err, ErrCrossSurahMerge) {
			t.Fatalf("decideMerge error = %v, want ErrCrossSurahMerge", err)
		}
		if existing.AyahStart != before.AyahStart || existing.AyahEnd != before.AyahEnd ||
			existing.QualityStatus != before.QualityStatus || existing.Notes != before.Notes {
			t.Error("existing record changed on a refused cross-surah submission")
		}
	})
}

func TestDecideMergeNotesGrowUnbounded(t *testing.T) {
	// A guru may resubmit several times a day; each 150-char note must be
	// retained in full, however long the accumulated text gets.
	note := strings.Repeat("a", 150)
	record := models.MemorizationRecord{SurahID: 2, AyahStart: 1, AyahEnd: 5, QualityStatus: models.QualityGood}

	for i := 0; i < 5; i++ {
		d, err := decideMerge(record, SubmitInput{SurahID: 2, AyahStart: 1, AyahEnd: 5, QualityStatus: models.QualityGood, Notes: note})
		if err != nil {
			t.Fatalf("decideMerge returned error on round %d: %v", i, err)
		}
		record.Notes = d.Notes
	}

	want := 5*150 + 4 // five notes joined by four newlines
	if len(record.Notes) != want {
		t.Errorf("accumulated notes length = %d, want %d (no truncation)", len(record.Notes), want)
	}
}

func TestCanModify(t *testing.T) {
	createdAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"immediately", createdAt, true},
		{"one hour later", createdAt.Add(time.Hour), true},
		{"just inside window", createdAt.Add(24*time.Hour - time.Minute), true},
		{"exactly at window", createdAt.Add(24 * time.Hour), true},
		{"one second past", createdAt.Add(24*time.Hour + time.Second), false},
		{"days later", createdAt.Add(72 * time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanModify(createdAt, tc.now); got != tc.want {
				t.Errorf("CanModify(%v, %v) = %v, want %v", createdAt, tc.now, got, tc.want)
			}
		})
	}
}
