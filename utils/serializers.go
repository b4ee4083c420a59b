package utils

import (
	"time"

	"tahfidz_go/models"
)

// Compact representations used across APIs
type SantriShort struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
	NIS      string `json:"nis,omitempty"`
}

type GuruShort struct {
	ID       uint   `json:"id"`
	FullName string `json:"full_name"`
}

type SurahShort struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	TotalAyahs int    `json:"total_ayahs"`
}

type TagDTO struct {
	ID       uint   `json:"id"`
	Category string `json:"category"`
	Text     string `json:"text"`
}

// RecordDTO is the API shape of a memorization record. CanEdit reflects the
// 24-hour edit window at the moment the response is built; write endpoints
// re-check it, so a stale true here can still be refused later.
type RecordDTO struct {
	ID            uint        `json:"id"`
	SessionType   string      `json:"session_type"`
	RecordDate    string      `json:"record_date"`
	AyahStart     int         `json:"ayah_start"`
	AyahEnd       int         `json:"ayah_end"`
	QualityStatus string      `json:"quality_status"`
	Notes         string      `json:"notes,omitempty"`
	CanEdit       bool        `json:"can_edit"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	Santri        SantriShort `json:"santri"`
	Guru          GuruShort   `json:"guru"`
	Surah         SurahShort  `json:"surah"`
	Tags          []TagDTO    `json:"tags"`
}

// ToRecordDTO maps a models.MemorizationRecord to the compact DTO.
// Assumptions: caller has preloaded Santri, Guru, Surah, and Tags.Tag.
func ToRecordDTO(r models.MemorizationRecord, canEdit bool) RecordDTO {
	tags := make([]TagDTO, 0, len(r.Tags))
	for _, rt := range r.Tags {
		tags = append(tags, TagDTO{
			ID:       rt.Tag.ID,
			Category: rt.Tag.Category,
			Text:     rt.Tag.Text,
		})
	}

	return RecordDTO{
		ID:            r.ID,
		SessionType:   r.SessionType,
		RecordDate:    r.RecordDate.Format("2006-01-02"),
		AyahStart:     r.AyahStart,
		AyahEnd:       r.AyahEnd,
		QualityStatus: r.QualityStatus,
		Notes:         r.Notes,
		CanEdit:       canEdit,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Santri: SantriShort{
			ID:       r.Santri.ID,
			FullName: r.Santri.FullName,
			NIS:      r.Santri.NIS,
		},
		Guru: GuruShort{
			ID:       r.Guru.ID,
			FullName: r.Guru.FullName,
		},
		Surah: SurahShort{
			ID:         r.Surah.ID,
			Name:       r.Surah.Name,
			TotalAyahs: r.Surah.TotalAyahs,
		},
		Tags: tags,
	}
}

// ToTagDTOs maps master tags to their API shape
func ToTagDTOs(tags []models.MasterTag) []TagDTO {
	out := make([]TagDTO, 0, len(tags))
	for _, t := range tags {
		out = append(out, TagDTO{ID: t.ID, Category: t.Category, Text: t.Text})
	}
	return out
}
