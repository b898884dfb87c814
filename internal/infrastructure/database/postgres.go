package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/gokmen-54/nalburos-web-deploy/internal/config"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/entity"
	"github.com/gokmen-54/nalburos-web-deploy/internal/domain/enum"
	domstore "github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
	infrastore "github.com/gokmen-54/nalburos-web-deploy/internal/infrastructure/store"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	log.Println("Successfully connected to PostgreSQL database")
	return db, nil
}

// AutoMigrate creates the records table backing the record store.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&infrastore.Record{}); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// SeedDefaultData creates the default Owner account when the users
// collection is empty, so a fresh install can log in.
func SeedDefaultData(ctx context.Context, rs domstore.RecordStore, username, password string) error {
	users, err := domstore.Load[entity.User](ctx, rs, domstore.Users)
	if err != nil {
		return err
	}
	if len(users) > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin := entity.User{
		ID:           uuid.New(),
		Username:     username,
		Name:         "Nalbur Admin",
		Role:         enum.RoleOwner,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	log.Printf("Seeding default admin user %q", username)
	return domstore.Save(ctx, rs, domstore.Users, []entity.User{admin})
}
