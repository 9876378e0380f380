// Package pgtest starts a throwaway PostgreSQL container with the service schema for
// integration tests.
package pgtest

import (
	"context"
	"strings"
	"time"

	postgres_adapter "marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/postgres/catalogrepo"
	"marketplace/internal/core/domain/model/catalog"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Tables lists every table Truncate empties.
var Tables = []string{
	"shops", "products", "skus",
	"shipping_methods", "vouchers",
	"addresses", "cart_lines",
	"checkout_drafts", "checkout_draft_groups",
	"orders", "order_items",
	"chat_threads", "outbox", "idempotency_records",
}

// Database is a migrated database in a running container.
type Database struct {
	Container *postgres.PostgresContainer
	DB        *gorm.DB
}

// Start runs postgres:15-alpine and migrates the schema.
func Start(ctx context.Context) (*Database, error) {
	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, err
	}

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	if err = postgres_adapter.Migrate(db); err != nil {
		_ = container.Terminate(ctx)
		return nil, err
	}

	return &Database{Container: container, DB: db}, nil
}

// Truncate empties every table.
func (d *Database) Truncate() error {
	return d.DB.Exec("TRUNCATE TABLE " + strings.Join(Tables, ", ")).Error
}

// SeedListings upserts the shop, product and SKU rows of listings. The catalog is
// owned by another service, so tests load it directly.
func (d *Database) SeedListings(ctx context.Context, listings ...catalog.Listing) error {
	db := d.DB.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true})
	for _, l := range listings {
		shop, product, sku := catalogrepo.FromListing(l)
		if err := db.Create(&shop).Error; err != nil {
			return err
		}
		if err := db.Create(&product).Error; err != nil {
			return err
		}
		if err := db.Create(&sku).Error; err != nil {
			return err
		}
	}
	return nil
}

// Stop terminates the container.
func (d *Database) Stop(ctx context.Context) error {
	if d == nil || d.Container == nil {
		return nil
	}
	return d.Container.Terminate(ctx)
}
