package services

import (
	"errors"
	"fmt"
	"tahfidz_go/config"
	"tahfidz_go/database"
	"tahfidz_go/models"
	"time"

	"gorm.io/gorm"
)

// Domain-policy errors surfaced to callers with their own HTTP statuses.
// These are deliberate product rules, distinct from malformed input.
var (
	// ErrSantriNotAssigned: the requesting guru is not the santri's mentor.
	ErrSantriNotAssigned = errors.New("santri is not assigned to this guru")
	// ErrCrossSurahMerge: a same-day resubmission names a different surah than
	// the existing record. Merging across surahs is not supported; the teacher
	// is expected to finish one surah entry per day per session type.
	ErrCrossSurahMerge = errors.New("same-day record already exists for a different surah")
	// ErrEditWindowElapsed: the 24-hour window since creation has passed.
	ErrEditWindowElapsed = errors.New("record can no longer be modified (24-hour window elapsed)")
	// ErrNotRecordOwner: only the guru who recorded a session may modify it.
	ErrNotRecordOwner = errors.New("record belongs to another guru")
)

// ValidationError marks rejected input (missing fields, bad enums, ayah range
// out of bounds). Mapped to 400 by the HTTP layer.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// NotFoundError marks a missing referenced entity. Mapped to 404.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string { return e.Entity + " not found" }

// Submit outcomes
const (
	OutcomeCreated = "created"
	OutcomeMerged  = "merged"
)

// SubmitInput is a guru's submission of one memorization session.
type SubmitInput struct {
	SantriID      uint   `json:"santri_id" validate:"required"`
	SessionType   string `json:"session_type" validate:"required,oneof=ziyadah murajaah"`
	SurahID       uint   `json:"surah_id" validate:"required,min=1,max=114"`
	AyahStart     int    `json:"ayah_start" validate:"required,min=1"`
	AyahEnd       int    `json:"ayah_end" validate:"required,min=1"`
	QualityStatus string `json:"quality_status" validate:"required,oneof=good fair poor"`
	TagIDs        []uint `json:"tag_ids"`
	Notes         string `json:"notes" validate:"max=150"`
}

// SubmitResult reports which reconciliation path ran. PreviousStart/End carry
// the pre-merge ayah range so the teacher can be told what was extended.
type SubmitResult struct {
	Outcome       string
	Record        models.MemorizationRecord
	PreviousStart int
	PreviousEnd   int
}

// RecordService owns the daily-record reconciliation rule and the
// edit/delete window policy.
type RecordService struct {
	Clock Clock
	Loc   *time.Location
}

// NewRecordService builds a service on the real clock and the configured
// institution timezone.
func NewRecordService() *RecordService {
	return &RecordService{
		Clock: SystemClock(),
		Loc:   config.AppConfig.Location,
	}
}

// Today returns the current civil date key in the institution timezone.
func (rs *RecordService) Today() time.Time {
	return DateKey(rs.Clock.Now(), rs.Loc)
}

// Submit applies the daily-record reconciliation rule: create today's record
// for (santri, session type) if none exists, otherwise merge the submission
// into it. Runs as a single transaction; a duplicate-key race on create is
// retried once as a merge.
func (rs *RecordService) Submit(guruID uint, in SubmitInput) (*SubmitResult, error) {
	if in.AyahStart > in.AyahEnd {
		return nil, &ValidationError{Msg: "ayah_start must not exceed ayah_end"}
	}

	// Authorization: the guru must be the santri's assigned mentor
	var santri models.Santri
	if err := database.DB.First(&santri, in.SantriID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "santri"}
		}
		return nil, err
	}
	if santri.GuruID == nil || *santri.GuruID != guruID {
		return nil, ErrSantriNotAssigned
	}

	// Ayah bounds against surah reference data
	var surah models.Surah
	if err := database.DB.First(&surah, in.SurahID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "surah"}
		}
		return nil, err
	}
	if in.AyahEnd > surah.TotalAyahs {
		return nil, &ValidationError{Msg: fmt.Sprintf("surah %s has only %d ayahs", surah.Name, surah.TotalAyahs)}
	}

	// All referenced tags must exist and be active
	if len(in.TagIDs) > 0 {
		var tagCount int64
		if err := database.DB.Model(&models.MasterTag{}).
			Where("id IN ? AND active = ?", in.TagIDs, true).
			Count(&tagCount).Error; err != nil {
			return nil, err
		}
		if tagCount != int64(len(in.TagIDs)) {
			return nil, &NotFoundError{Entity: "tag"}
		}
	}

	today := rs.Today()
	result := &SubmitResult{}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var existing models.MemorizationRecord
		err := tx.Where("santri_id = ? AND session_type = ? AND record_date = ?",
			in.SantriID, in.SessionType, today).First(&existing).Error

		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			record := models.MemorizationRecord{
				SantriID:      in.SantriID,
				GuruID:        guruID,
				SessionType:   in.SessionType,
				RecordDate:    today,
				SurahID:       in.SurahID,
				AyahStart:     in.AyahStart,
				AyahEnd:       in.AyahEnd,
				QualityStatus: in.QualityStatus,
				Notes:         in.Notes,
			}
			if createErr := tx.Create(&record).Error; createErr != nil {
				if errors.Is(createErr, gorm.ErrDuplicatedKey) {
					// Lost the race against a concurrent first submission for
					// the same key; fall through to the merge path.
					if err := tx.Where("santri_id = ? AND session_type = ? AND record_date = ?",
						in.SantriID, in.SessionType, today).First(&existing).Error; err != nil {
						return err
					}
					return rs.merge(tx, &existing, in, result)
				}
				return createErr
			}
			if err := replaceTags(tx, record.ID, in.TagIDs); err != nil {
				return err
			}
			result.Outcome = OutcomeCreated
			result.Record = record
			return nil

		case err != nil:
			return err

		default:
			return rs.merge(tx, &existing, in, result)
		}
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// merge folds a submission into today's existing record for the same key.
// The field resolution lives in decideMerge; this applies it inside the
// transaction. created_at is left untouched so the edit window keeps
// counting from the original creation.
func (rs *RecordService) merge(tx *gorm.DB, existing *models.MemorizationRecord, in SubmitInput, result *SubmitResult) error {
	decision, err := decideMerge(*existing, in)
	if err != nil {
		return err
	}

	result.PreviousStart = existing.AyahStart
	result.PreviousEnd = existing.AyahEnd

	if err := tx.Model(existing).Updates(map[string]interface{}{
		"ayah_start":     decision.AyahStart,
		"ayah_end":       decision.AyahEnd,
		"quality_status": decision.QualityStatus,
		"notes":          decision.Notes,
	}).Error; err != nil {
		return err
	}

	if err := replaceTags(tx, existing.ID, decision.TagIDs); err != nil {
		return err
	}

	existing.AyahStart = decision.AyahStart
	existing.AyahEnd = decision.AyahEnd
	existing.QualityStatus = decision.QualityStatus
	existing.Notes = decision.Notes

	result.Outcome = OutcomeMerged
	result.Record = *existing
	return nil
}

// replaceTags deletes every tag row a record owns and inserts the new set.
func replaceTags(tx *gorm.DB, recordID uint, tagIDs []uint) error {
	if err := tx.Where("record_id = ?", recordID).Delete(&models.RecordTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.RecordTag, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.RecordTag{RecordID: recordID, TagID: tagID})
	}
	return tx.Create(&rows).Error
}

// UpdateInput is a direct overwrite of an owned record. Session type and
// surah are immutable once created; no merge semantics apply here.
type UpdateInput struct {
	AyahStart     int    `json:"ayah_start" validate:"required,min=1"`
	AyahEnd       int    `json:"ayah_end" validate:"required,min=1"`
	QualityStatus string `json:"quality_status" validate:"required,oneof=good fair poor"`
	Notes         string `json:"notes" validate:"max=150"`
}

// Update overwrites an existing record's ayah range, quality and notes.
// Gurus may only touch their own records and only inside the edit window;
// admins bypass both restrictions.
func (rs *RecordService) Update(requesterGuruID uint, isAdmin bool, recordID uint, in UpdateInput) (*models.MemorizationRecord, error) {
	if in.AyahStart > in.AyahEnd {
		return nil, &ValidationError{Msg: "ayah_start must not exceed ayah_end"}
	}

	var record models.MemorizationRecord
	if err := database.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "record"}
		}
		return nil, err
	}

	if !isAdmin {
		if record.GuruID != requesterGuruID {
			return nil, ErrNotRecordOwner
		}
		// Re-check at write time: the window may have expired since listing
		if !CanModify(record.CreatedAt, rs.Clock.Now()) {
			return nil, ErrEditWindowElapsed
		}
	}

	var surah models.Surah
	if err := database.DB.First(&surah, record.SurahID).Error; err != nil {
		return nil, err
	}
	if in.AyahEnd > surah.TotalAyahs {
		return nil, &ValidationError{Msg: fmt.Sprintf("surah %s has only %d ayahs", surah.Name, surah.TotalAyahs)}
	}

	if err := database.DB.Model(&record).Updates(map[string]interface{}{
		"ayah_start":     in.AyahStart,
		"ayah_end":       in.AyahEnd,
		"quality_status": in.QualityStatus,
		"notes":          in.Notes,
	}).Error; err != nil {
		return nil, err
	}

	record.AyahStart = in.AyahStart
	record.AyahEnd = in.AyahEnd
	record.QualityStatus = in.QualityStatus
	record.Notes = in.Notes
	return &record, nil
}

// Delete removes a record and its tag rows (hard delete, tags first).
// Same ownership and window rules as Update.
func (rs *RecordService) Delete(requesterGuruID uint, isAdmin bool, recordID uint) error {
	var record models.MemorizationRecord
	if err := database.DB.First(&record, recordID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &NotFoundError{Entity: "record"}
		}
		return err
	}

	if !isAdmin {
		if record.GuruID != requesterGuruID {
			return ErrNotRecordOwner
		}
		if !CanModify(record.CreatedAt, rs.Clock.Now()) {
			return ErrEditWindowElapsed
		}
	}

	return database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("record_id = ?", record.ID).Delete(&models.RecordTag{}).Error; err != nil {
			return err
		}
		return tx.Delete(&record).Error
	})
}
