package services

import (
	"bytes"
	"errors"
	"fmt"
	"tahfidz_go/database"
	"tahfidz_go/models"
	"time"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ReportService answers the read-side aggregation questions: how far along a
// santri is, how a kelas is doing, and a spreadsheet export of record history.
type ReportService struct {
	Clock Clock
	Loc   *time.Location
}

func NewReportService() *ReportService {
	rs := NewRecordService()
	return &ReportService{Clock: rs.Clock, Loc: rs.Loc}
}

// SessionTotals aggregates one session type for a santri
type SessionTotals struct {
	Sessions int64 `json:"sessions"`
	Ayahs    int64 `json:"ayahs"`
}

// JuzProgress is memorized-ayah coverage of one juz (grouped by the juz each
// surah begins in; partial-juz surah splits are not tracked)
type JuzProgress struct {
	Juz            int     `json:"juz"`
	AyahsMemorized int64   `json:"ayahs_memorized"`
	TotalAyahs     int64   `json:"total_ayahs"`
	Percent        float64 `json:"percent"`
}

// SantriSummary is the per-student progress report
type SantriSummary struct {
	SantriID       uint             `json:"santri_id"`
	FullName       string           `json:"full_name"`
	Ziyadah        SessionTotals    `json:"ziyadah"`
	Murajaah       SessionTotals    `json:"murajaah"`
	SurahsTouched  int64            `json:"surahs_touched"`
	QualityCounts  map[string]int64 `json:"quality_counts"`
	JuzProgress    []JuzProgress    `json:"juz_progress"`
	LastRecordDate string           `json:"last_record_date,omitempty"`
}

// KelasSummaryRow is one santri's line in a class report
type KelasSummaryRow struct {
	SantriID        uint   `json:"santri_id"`
	FullName        string `json:"full_name"`
	ZiyadahSessions int64  `json:"ziyadah_sessions"`
	ZiyadahAyahs    int64  `json:"ziyadah_ayahs"`
	LastRecordDate  string `json:"last_record_date,omitempty"`
}

// KelasSummary is the per-class progress report
type KelasSummary struct {
	KelasID uint              `json:"kelas_id"`
	Name    string            `json:"name"`
	Santris []KelasSummaryRow `json:"santris"`
}

// SantriSummary builds the aggregate progress report for one santri.
func (rs *ReportService) SantriSummary(santriID uint) (*SantriSummary, error) {
	var santri models.Santri
	if err := database.DB.First(&santri, santriID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "santri"}
		}
		return nil, err
	}

	summary := &SantriSummary{
		SantriID:      santri.ID,
		FullName:      santri.FullName,
		QualityCounts: map[string]int64{},
	}

	// Totals per session type
	type typeTotals struct {
		SessionType string
		Sessions    int64
		Ayahs       int64
	}
	var totals []typeTotals
	if err := database.DB.Model(&models.MemorizationRecord{}).
		Select("session_type, COUNT(*) AS sessions, SUM(ayah_end - ayah_start + 1) AS ayahs").
		Where("santri_id = ?", santriID).
		Group("session_type").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	for _, t := range totals {
		switch t.SessionType {
		case models.SessionZiyadah:
			summary.Ziyadah = SessionTotals{Sessions: t.Sessions, Ayahs: t.Ayahs}
		case models.SessionMurajaah:
			summary.Murajaah = SessionTotals{Sessions: t.Sessions, Ayahs: t.Ayahs}
		}
	}

	// Distinct surahs with any ziyadah entry
	if err := database.DB.Model(&models.MemorizationRecord{}).
		Where("santri_id = ? AND session_type = ?", santriID, models.SessionZiyadah).
		Distinct("surah_id").
		Count(&summary.SurahsTouched).Error; err != nil {
		return nil, err
	}

	// Quality distribution
	type qualityCount struct {
		QualityStatus string
		Total         int64
	}
	var qualities []qualityCount
	if err := database.DB.Model(&models.MemorizationRecord{}).
		Select("quality_status, COUNT(*) AS total").
		Where("santri_id = ?", santriID).
		Group("quality_status").
		Scan(&qualities).Error; err != nil {
		return nil, err
	}
	for _, q := range qualities {
		summary.QualityCounts[q.QualityStatus] = q.Total
	}

	// Per-juz ziyadah coverage
	type juzRow struct {
		Juz   int
		Ayahs int64
	}
	var juzRows []juzRow
	if err := database.DB.Model(&models.MemorizationRecord{}).
		Select("surahs.juz AS juz, SUM(memorization_records.ayah_end - memorization_records.ayah_start + 1) AS ayahs").
		Joins("JOIN surahs ON surahs.id = memorization_records.surah_id").
		Where("memorization_records.santri_id = ? AND memorization_records.session_type = ?", santriID, models.SessionZiyadah).
		Group("surahs.juz").
		Order("surahs.juz").
		Scan(&juzRows).Error; err != nil {
		return nil, err
	}

	type juzTotal struct {
		Juz   int
		Total int64
	}
	var juzTotals []juzTotal
	if err := database.DB.Model(&models.Surah{}).
		Select("juz, SUM(total_ayahs) AS total").
		Group("juz").
		Scan(&juzTotals).Error; err != nil {
		return nil, err
	}
	totalByJuz := make(map[int]int64, len(juzTotals))
	for _, jt := range juzTotals {
		totalByJuz[jt.Juz] = jt.Total
	}

	for _, jr := range juzRows {
		summary.JuzProgress = append(summary.JuzProgress, JuzProgress{
			Juz:            jr.Juz,
			AyahsMemorized: jr.Ayahs,
			TotalAyahs:     totalByJuz[jr.Juz],
			Percent:        progressPercent(jr.Ayahs, totalByJuz[jr.Juz]),
		})
	}

	// Last activity
	var last models.MemorizationRecord
	err := database.DB.Where("santri_id = ?", santriID).
		Order("record_date DESC").First(&last).Error
	if err == nil {
		summary.LastRecordDate = last.RecordDate.Format("2006-01-02")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return summary, nil
}

// progressPercent clamps coverage to 100; merged ranges can overlap across
// days so the raw sum may exceed the juz total.
func progressPercent(memorized, total int64) float64 {
	if total <= 0 {
		return 0
	}
	pct := float64(memorized) / float64(total) * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// KelasSummary builds the per-class report: each santri's ziyadah totals.
func (rs *ReportService) KelasSummary(kelasID uint) (*KelasSummary, error) {
	var kelas models.Kelas
	if err := database.DB.First(&kelas, kelasID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "kelas"}
		}
		return nil, err
	}

	var santris []models.Santri
	if err := database.DB.Where("kelas_id = ?", kelasID).Order("full_name").Find(&santris).Error; err != nil {
		return nil, err
	}

	summary := &KelasSummary{KelasID: kelas.ID, Name: kelas.Name, Santris: []KelasSummaryRow{}}
	for _, s := range santris {
		row := KelasSummaryRow{SantriID: s.ID, FullName: s.FullName}

		var agg struct {
			Sessions int64
			Ayahs    int64
		}
		if err := database.DB.Model(&models.MemorizationRecord{}).
			Select("COUNT(*) AS sessions, COALESCE(SUM(ayah_end - ayah_start + 1), 0) AS ayahs").
			Where("santri_id = ? AND session_type = ?", s.ID, models.SessionZiyadah).
			Scan(&agg).Error; err != nil {
			return nil, err
		}
		row.ZiyadahSessions = agg.Sessions
		row.ZiyadahAyahs = agg.Ayahs

		var last models.MemorizationRecord
		err := database.DB.Where("santri_id = ?", s.ID).Order("record_date DESC").First(&last).Error
		if err == nil {
			row.LastRecordDate = last.RecordDate.Format("2006-01-02")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}

		summary.Santris = append(summary.Santris, row)
	}

	return summary, nil
}

// ExportSantriRecords renders a santri's full record history as an XLSX
// workbook and returns the serialized bytes plus a suggested file name.
func (rs *ReportService) ExportSantriRecords(santriID uint) ([]byte, string, error) {
	var santri models.Santri
	if err := database.DB.First(&santri, santriID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", &NotFoundError{Entity: "santri"}
		}
		return nil, "", err
	}

	var records []models.MemorizationRecord
	if err := database.DB.Preload("Surah").Preload("Guru").Preload("Tags.Tag").
		Where("santri_id = ?", santriID).
		Order("record_date ASC, session_type ASC").
		Find(&records).Error; err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Riwayat Hafalan"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"Tanggal", "Jenis", "Surah", "Ayat", "Penilaian", "Catatan", "Tag", "Guru"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, r := range records {
		rowIdx := i + 2
		tags := ""
		for j, rt := range r.Tags {
			if j > 0 {
				tags += ", "
			}
			tags += rt.Tag.Text
		}
		values := []interface{}{
			r.RecordDate.Format("2006-01-02"),
			r.SessionType,
			r.Surah.Name,
			fmt.Sprintf("%d-%d", r.AyahStart, r.AyahEnd),
			r.QualityStatus,
			r.Notes,
			tags,
			r.Guru.FullName,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, rowIdx)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", err
	}

	fileName := fmt.Sprintf("hafalan_%s_%s.xlsx", santri.NIS, rs.Clock.Now().In(rs.Loc).Format("20060102"))
	return buf.Bytes(), fileName, nil
}
