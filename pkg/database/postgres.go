package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"sea-u/config"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Tables lists the schema tables in dependency order.
var Tables = []string{"profiles", "conversations", "conversation_participants", "messages"}

func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.AppMode == "debug" {
		level = logger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get generic database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	DB = db
	log.Println("Database connection established")
	return db, nil
}

// ApplyRawMigrations reads .sql files from the migrations directory and executes them
// in file name order.
func ApplyRawMigrations(db *gorm.DB, migrationsDir string) error {
	files, err := os.ReadDir(migrationsDir)
	if err != nil {
		return fmt.Errorf("failed to read migrations directory: %w", err)
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) != ".sql" {
			continue
		}
		path := filepath.Join(migrationsDir, file.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read migration file %s: %w", file.Name(), err)
		}

		log.Printf("Applying migration: %s", file.Name())
		if err := db.Exec(string(content)).Error; err != nil {
			return fmt.Errorf("failed to execute migration %s: %w", file.Name(), err)
		}
	}
	return nil
}

func Ping(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// HealthCheck verifies the connection and that the schema has been applied.
func HealthCheck(db *gorm.DB) error {
	if err := Ping(db); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	for _, table := range Tables {
		ok, err := TableExists(db, table)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("table %s missing, run migrations", table)
		}
	}
	return nil
}

func TableExists(db *gorm.DB, table string) (bool, error) {
	var exists bool
	err := db.Raw(
		`SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_schema = 'public' AND table_name = ?)`,
		table,
	).Scan(&exists).Error
	return exists, err
}

func GetTableCount(db *gorm.DB, table string) (int64, error) {
	var count int64
	err := db.Table(table).Count(&count).Error
	return count, err
}

// TruncateAllTables empties every schema table.
func TruncateAllTables(db *gorm.DB) error {
	for i := len(Tables) - 1; i >= 0; i-- {
		if err := db.Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", Tables[i])).Error; err != nil {
			return fmt.Errorf("truncate %s: %w", Tables[i], err)
		}
	}
	return nil
}

func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	_ = sqlDB.Close()
}
