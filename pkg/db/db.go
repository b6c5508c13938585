package db

import (
	"log"
	"os"
	"sync"

	"aquamon.io/water-quality-service/pkg/common"
	"aquamon.io/water-quality-service/pkg/models"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type DB struct {
	Conn *gorm.DB
}

var (
	instance *DB
	once     sync.Once
)

// AllModels lists every entity, parents before children, so AutoMigrate and
// the migration copier walk them in foreign key order.
func AllModels() []any {
	return []any{
		&models.User{},
		&models.Device{},
		&models.ThresholdConfig{},
		&models.Reading{},
		&models.Forecast{},
		&models.SensorData{},
		&models.Alert{},
		&models.Report{},
	}
}

func GetInstance(dialector gorm.Dialector) *DB {
	var logger = common.GetLogger()
	once.Do(func() {
		conn, err := Open(dialector)
		if err != nil {
			log.Fatal("Failed to connect to database:", err)
		}

		logger.Info("Connected to database with dialector:", zap.String("dialector", dialector.Name()))

		instance = &DB{Conn: conn}

		logger.Info("Database migration completed")
	})
	return instance
}

// Open connects and migrates without touching the singleton. cmd/migrate uses
// it to hold a source and a target connection at the same time.
func Open(dialector gorm.Dialector) (*gorm.DB, error) {
	conn, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := conn.AutoMigrate(AllModels()...); err != nil {
		return nil, err
	}

	if dialector.Name() == "sqlite" {
		if err := conn.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
			return nil, err
		}
		if err := conn.Exec("PRAGMA journal_mode = WAL").Error; err != nil {
			return nil, err
		}
	}

	return conn, nil
}

func UseSqliteDialector() gorm.Dialector {
	var dbPath string
	var found bool
	if dbPath, found = os.LookupEnv(common.EnvKeyWQMDBPath); !found {
		dbPath = "water.db"
	}
	return sqlite.Open(dbPath)
}

func UseMemorySqliteDialector() gorm.Dialector {
	return sqlite.Open("file::memory:?cache=shared")
}

func UsePostgresDialector(dsn string) gorm.Dialector {
	return postgres.Open(dsn)
}

func UseMysqlDialector(dsn string) gorm.Dialector {
	return mysql.Open(dsn)
}
