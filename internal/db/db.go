package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/BruksfildServices01/venue-booking/internal/config"
	"github.com/BruksfildServices01/venue-booking/internal/logger"
	"github.com/BruksfildServices01/venue-booking/internal/models"
)

func NewDB(cfg *config.Config) (*gorm.DB, error) {
	level := gormlogger.Warn
	if cfg.IsRelease() {
		level = gormlogger.Error
	}

	db, err := gorm.Open(postgres.Open(cfg.DBUrl), &gorm.Config{
		PrepareStmt: true,
		Logger:      gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}

	logger.Get().WithField("max_open_conns", cfg.DBMaxOpenConns).Info("database ready")
	return db, nil
}

// Migrate creates or updates every table the API owns.
func Migrate(db *gorm.DB) error {
	if err := db.SetupJoinTable(&models.Venue{}, "Services", &models.VenueService{}); err != nil {
		return fmt.Errorf("failed to setup venue_services: %w", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Service{},
		&models.Venue{},
		&models.VenueService{},
		&models.Booking{},
		&models.BookingService{},
		&models.Payment{},
		&models.CreditCard{},
		&models.VenueHoliday{},
		&models.ServiceHoliday{},
		&models.Notification{},
		&models.Review{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	// Conflict checks only look at live bookings.
	if err := db.Exec(`CREATE INDEX IF NOT EXISTS idx_bookings_venue_date_live
        ON bookings (venue_id, date)
        WHERE status <> 'CANCELLED'`).Error; err != nil {
		return fmt.Errorf("failed to create booking index: %w", err)
	}

	return nil
}
