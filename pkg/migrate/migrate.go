package migrate

import (
	"context"
	"fmt"

	"github.com/emontecinos/campusmarket-backend/pkg/config"
	"github.com/emontecinos/campusmarket-backend/pkg/db"
	"github.com/emontecinos/campusmarket-backend/pkg/db/models"
	"github.com/emontecinos/campusmarket-backend/pkg/enums"
	"github.com/emontecinos/campusmarket-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run applies the schema and, when requested, the reference-data seed.
func Run(ctx context.Context, conn *gorm.DB, seed bool) error {
	if err := AutoMigrate(ctx, conn); err != nil {
		return err
	}
	if seed {
		return Seed(ctx, conn)
	}
	return nil
}

// MaybeRunDev executes migrations automatically when the app is running in dev
// mode and the feature flag is enabled.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() || !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running schema migration (dev auto-run)")

	if err := Run(ctx, client.DB(), cfg.FeatureFlags.SeedOnMigrate); err != nil {
		return fmt.Errorf("running auto-migration: %w", err)
	}

	logg.Info(ctx, "schema migration completed")
	return nil
}

// AutoMigrate creates or updates every table the service owns.
func AutoMigrate(ctx context.Context, conn *gorm.DB) error {
	return conn.WithContext(ctx).AutoMigrate(
		&models.Role{},
		&models.AccountStatus{},
		&models.Account{},
		&models.Category{},
		&models.ProductState{},
		&models.Product{},
		&models.ProductImage{},
		&models.TransactionState{},
		&models.Transaction{},
		&models.Rating{},
		&models.Message{},
		&models.Publication{},
		&models.Favorite{},
		&models.Report{},
		&models.Notification{},
	)
}

var seedCategories = []string{
	"Books",
	"Electronics",
	"Clothing",
	"Furniture",
	"Services",
	"Other",
}

// Seed inserts the reference rows the business workflows resolve at runtime.
// The vendor role row in particular is load-bearing: product creation aborts
// with a configuration error when it is missing.
func Seed(ctx context.Context, conn *gorm.DB) error {
	tx := conn.WithContext(ctx)

	for _, role := range []enums.Role{enums.RoleAdmin, enums.RoleVendor, enums.RoleClient} {
		row := models.Role{Name: role}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed role %s: %w", role, err)
		}
	}

	for _, status := range []enums.AccountStatus{enums.AccountStatusActive, enums.AccountStatusBanned} {
		row := models.AccountStatus{Name: status}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed account status %s: %w", status, err)
		}
	}

	for _, state := range []enums.ProductState{enums.ProductStateAvailable, enums.ProductStateSold, enums.ProductStateSuspended} {
		row := models.ProductState{Name: state}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed product state %s: %w", state, err)
		}
	}

	for _, state := range []enums.TransactionState{enums.TransactionStatePending, enums.TransactionStateCompleted, enums.TransactionStateCancelled} {
		row := models.TransactionState{Name: state}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed transaction state %s: %w", state, err)
		}
	}

	for _, name := range seedCategories {
		row := models.Category{Name: name}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&row).Error; err != nil {
			return fmt.Errorf("seed category %s: %w", name, err)
		}
	}

	return nil
}
