package services

import (
	"fmt"
	"tahfidz_go/config"
	"tahfidz_go/database"
	"tahfidz_go/models"
	"time"

	"tahfidz_go/services/notifications"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// SchedulerService owns the recurring jobs: log maintenance and the morning
// reminder to gurus about santris without a setoran yesterday. All schedules
// run in the institution timezone.
type SchedulerService struct {
	cron       *cron.Cron
	logArchive *LogArchiveService
	records    *RecordService
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{
		cron:       cron.New(cron.WithLocation(config.AppConfig.Location)),
		logArchive: NewLogArchiveService(),
		records:    NewRecordService(),
	}
}

// Start registers and launches all cron jobs.
func (ss *SchedulerService) Start() {
	jobs := []struct {
		spec string
		name string
		fn   func() error
	}{
		{"0 * * * *", "flush cached logs", ss.logArchive.FlushCachedLogsToDatabase},
		{"0 2 * * *", "archive old logs", func() error { return ss.logArchive.ArchiveOldLogs(30) }},
		{"0 6 * * *", "guru morning reminder", ss.SendGuruReminders},
	}

	for _, job := range jobs {
		job := job
		if _, err := ss.cron.AddFunc(job.spec, func() {
			if err := job.fn(); err != nil {
				logrus.WithError(err).Warnf("Scheduled job failed: %s", job.name)
			}
		}); err != nil {
			logrus.WithError(err).Errorf("Failed to register job: %s", job.name)
		}
	}

	ss.cron.Start()
	logrus.Infof("Scheduler started with %d jobs (timezone %s)", len(ss.cron.Entries()), config.AppConfig.Timezone)
}

// Stop halts the cron runner; running jobs finish first.
func (ss *SchedulerService) Stop() {
	ctx := ss.cron.Stop()
	<-ctx.Done()
}

// SendGuruReminders notifies each guru which of their santris had no ziyadah
// entry yesterday.
func (ss *SchedulerService) SendGuruReminders() error {
	yesterday := DateKey(ss.records.Clock.Now().Add(-24*time.Hour), ss.records.Loc)

	var gurus []models.Guru
	if err := database.DB.Where("active = ?", true).Find(&gurus).Error; err != nil {
		return err
	}

	notifier := notifications.NewService()

	for _, guru := range gurus {
		var missing []models.Santri
		err := database.DB.
			Where("guru_id = ? AND active = ?", guru.ID, true).
			Where("id NOT IN (?)", database.DB.
				Model(&models.MemorizationRecord{}).
				Select("santri_id").
				Where("session_type = ? AND record_date = ?", models.SessionZiyadah, yesterday)).
			Find(&missing).Error
		if err != nil {
			logrus.WithError(err).Warnf("Reminder query failed for guru %d", guru.ID)
			continue
		}
		if len(missing) == 0 {
			continue
		}

		names := ""
		for i, s := range missing {
			if i > 0 {
				names += ", "
			}
			names += s.FullName
		}

		if err := notifier.NotifyUser(
			guru.UserID,
			"Santri belum setoran",
			fmt.Sprintf("%d santri belum setoran ziyadah kemarin (%s): %s",
				len(missing), yesterday.Format("2006-01-02"), names),
			"warning",
			map[string]interface{}{"santri_ids": santriIDs(missing), "date": yesterday.Format("2006-01-02")},
		); err != nil {
			logrus.WithError(err).Warnf("Failed to notify guru %d", guru.ID)
		}
	}

	return nil
}

func santriIDs(santris []models.Santri) []uint {
	ids := make([]uint, 0, len(santris))
	for _, s := range santris {
		ids = append(ids, s.ID)
	}
	return ids
}
