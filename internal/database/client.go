package database

import (
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/windatlas/windatlas/internal/log"
	"go.uber.org/zap"
)

// CreateConnection opens the embedded SQLite forecast store and migrates the
// schema. SQLite's single-writer/multi-reader locking is all the coordination
// the pipeline needs; the serving layer opens its own connection.
func CreateConnection(path string) (*gorm.DB, error) {
	// Create a logger for gorm
	dbLogger := logger.New(
		zap.NewStdLog(log.GetZapLogger()),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	log.Infof("opening forecast store at %s", path)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: dbLogger})
	if err != nil {
		log.Warn("warning: unable to open the forecast store:", err)
		return nil, err
	}

	if err := db.AutoMigrate(&ForecastSample{}, &CountryRanking{}); err != nil {
		return nil, err
	}

	return db, nil
}
