package services

import (
	"time"

	"tahfidz_go/models"
)

// EditWindow is how long after creation a guru may still edit or delete a
// record. Admins are not bound by it.
const EditWindow = 24 * time.Hour

// CanModify reports whether a record created at createdAt is still inside
// the edit window at the given moment. Evaluated when listing records and
// re-checked when a write is actually attempted.
func CanModify(createdAt, now time.Time) bool {
	return now.Sub(createdAt) <= EditWindow
}

// mergeRange combines two inclusive ayah ranges into their union.
// Same result regardless of submission order.
func mergeRange(existingStart, existingEnd, newStart, newEnd int) (int, int) {
	start := existingStart
	if newStart < start {
		start = newStart
	}
	end := existingEnd
	if newEnd > end {
		end = newEnd
	}
	return start, end
}

// mergeNotes concatenates teacher notes across same-day submissions.
// Both non-empty: joined with a newline. One empty: the other wins.
func mergeNotes(existing, submitted string) string {
	if existing == "" {
		return submitted
	}
	if submitted == "" {
		return existing
	}
	return existing + "\n" + submitted
}

// mergeDecision is the resolved field set a same-day resubmission settles on.
type mergeDecision struct {
	AyahStart     int
	AyahEnd       int
	QualityStatus string
	Notes         string
	TagIDs        []uint
}

// decideMerge resolves a resubmission against today's existing record for the
// same (santri, session type) key. Ayah range and notes accumulate, quality
// status is the latest submission's verdict, and the tag set is the latest
// set outright rather than a union — that asymmetry mirrors how the product
// behaves and is intentional. A submission naming a different surah is
// refused and the existing record stays as it is.
func decideMerge(existing models.MemorizationRecord, in SubmitInput) (mergeDecision, error) {
	if existing.SurahID != in.SurahID {
		return mergeDecision{}, ErrCrossSurahMerge
	}
	start, end := mergeRange(existing.AyahStart, existing.AyahEnd, in.AyahStart, in.AyahEnd)
	return mergeDecision{
		AyahStart:     start,
		AyahEnd:       end,
		QualityStatus: in.QualityStatus,
		Notes:         mergeNotes(existing.Notes, in.Notes),
		TagIDs:        in.TagIDs,
	}, nil
}
