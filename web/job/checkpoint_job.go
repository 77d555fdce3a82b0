// Package job contains scheduled maintenance jobs run by the web server's
// cron scheduler.
package job

import (
	"taskman/database"
	"taskman/logger"
)

// DBCheckpointJob flushes the SQLite write-ahead log back into the main
// database file.
type DBCheckpointJob struct{}

func NewDBCheckpointJob() *DBCheckpointJob {
	return new(DBCheckpointJob)
}

// Run implements cron.Job.
func (j *DBCheckpointJob) Run() {
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint job err:", err)
		return
	}
	logger.Debug("wal checkpoint completed")
}
