package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ScheduleLogger logs scheduled re-pricing runs.
type ScheduleLogger struct {
	*logrus.Entry
}

// NewScheduleLogger creates a new schedule logger.
func NewScheduleLogger(baseLogger *logrus.Logger) *ScheduleLogger {
	return &ScheduleLogger{
		Entry: baseLogger.WithField("component", "scheduler"),
	}
}

// LogJobScheduled logs a newly registered job.
func (sl *ScheduleLogger) LogJobScheduled(jobName, cronExpression string) {
	sl.WithFields(logrus.Fields{
		"job":  jobName,
		"cron": cronExpression,
	}).Info("Job scheduled")
}

// LogRunStarted logs the start of a scheduled run.
func (sl *ScheduleLogger) LogRunStarted(jobName string, startedAt time.Time) {
	sl.WithFields(logrus.Fields{
		"job":        jobName,
		"started_at": startedAt.Unix(),
	}).Info("Scheduled run started")
}

// LogRunFinished logs the end of a scheduled run.
func (sl *ScheduleLogger) LogRunFinished(jobName string, duration time.Duration, err error) {
	entry := sl.WithFields(logrus.Fields{
		"job":         jobName,
		"duration_ms": float64(duration.Microseconds()) / 1000,
	})
	if err != nil {
		entry.WithError(err).Error("Scheduled run failed")
		return
	}
	entry.Info("Scheduled run finished")
}

// LogSchedulerStopped logs a scheduler shutdown.
func (sl *ScheduleLogger) LogSchedulerStopped(reason string) {
	sl.WithField("reason", reason).Info("Scheduler stopped")
}
