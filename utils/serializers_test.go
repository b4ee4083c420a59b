package utils

import (
	"testing"
	"time"

	"tahfidz_go/models"
)

func TestToRecordDTO(t *testing.T) {
	recordDate := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	record := models.MemorizationRecord{
		ID:            7,
		SantriID:      3,
		GuruID:        2,
		SessionType:   models.SessionZiyadah,
		RecordDate:    recordDate,
		SurahID:       78,
		AyahStart:     1,
		AyahEnd:       15,
		QualityStatus: models.QualityGood,
		Notes:         "lancar",
		Santri:        models.Santri{BaseModel: models.BaseModel{ID: 3}, FullName: "Ahmad Zaki", NIS: "2024001"},
		Guru:          models.Guru{BaseModel: models.BaseModel{ID: 2}, FullName: "Ust. Hasan"},
		Surah:         models.Surah{ID: 78, Name: "An-Naba", TotalAyahs: 40},
		Tags: []models.RecordTag{
			{ID: 1, RecordID: 7, TagID: 4, Tag: models.MasterTag{BaseModel: models.BaseModel{ID: 4}, Category: "Tajwid", Text: "Kurang Dengung"}},
		},
	}

	dto := ToRecordDTO(record, true)

	if dto.RecordDate != "2025-03-10" {
		t.Errorf("RecordDate = %q, want 2025-03-10", dto.RecordDate)
	}
	if !dto.CanEdit {
		t.Error("CanEdit should carry through")
	}
	if dto.Santri.FullName != "Ahmad Zaki" || dto.Guru.FullName != "Ust. Hasan" {
		t.Error("related names not mapped")
	}
	if dto.Surah.TotalAyahs != 40 {
		t.Errorf("Surah.TotalAyahs = %d, want 40", dto.Surah.TotalAyahs)
	}
	if len(dto.Tags) != 1 || dto.Tags[0].Text != "Kurang Dengung" {
		t.Errorf("Tags not mapped from preloaded rows: %+v", dto.Tags)
	}
}

func TestToRecordDTOEmptyTags(t *testing.T) {
	dto := ToRecordDTO(models.MemorizationRecord{RecordDate: time.Now()}, false)
	if dto.Tags == nil {
		t.Error("Tags should serialize as an empty array, not null")
	}
}
