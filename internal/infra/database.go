package infra

import (
	"fmt"

	"github.com/franmartos11/mvp-kioskos-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx.
//
// TranslateError is on so that unique violations surface as
// gorm.ErrDuplicatedKey — the open-session guard depends on it.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	return db, nil
}

// RunMigrations creates/updates all tables and applies schema patches.
// Also used by integration tests against a scratch database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.PriceChange{},
		&model.PriceList{},
		&model.PriceListWindow{},
		&model.PriceListExclusion{},
		&model.CashSession{},
		&model.CashMovement{},
		&model.Sale{},
		&model.Expense{},
		&model.SupplierPayment{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// The partial unique index is what actually enforces "at most one open
// session per kiosk" — the service-level pre-check is only a courtesy.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uidx_cash_sessions_open_kiosk') THEN
		    CREATE UNIQUE INDEX uidx_cash_sessions_open_kiosk
		        ON cash_sessions (kiosk_id)
		        WHERE status = 'open';
		  END IF;
		END $$`,
		// Covering index for the balance sums, which run on every poll.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_cash_movements_session_type') THEN
		    CREATE INDEX idx_cash_movements_session_type
		        ON cash_movements (cash_session_id, type);
		  END IF;
		END $$`,
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_sales_kiosk_method_created') THEN
		    CREATE INDEX idx_sales_kiosk_method_created
		        ON sales (kiosk_id, payment_method, created_at);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
