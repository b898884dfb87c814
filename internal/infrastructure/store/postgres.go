package store

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	domain "github.com/gokmen-54/nalburos-web-deploy/internal/domain/store"
)

// Record is a persisted row of a collection. Collections keep their record
// order through the position column.
type Record struct {
	Collection string `gorm:"primaryKey;size:64"`
	Position   int    `gorm:"primaryKey"`
	Body       []byte `gorm:"type:jsonb;not null"`
}

// TableName returns the table name for the Record model
func (Record) TableName() string {
	return "records"
}

// PostgresStore is a RecordStore backed by a single records table. Write and
// WriteAll run inside a database transaction, so the engine's
// read-mutate-flush cycle commits atomically.
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps an open gorm connection.
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Read returns the collection's records ordered by position.
func (p *PostgresStore) Read(ctx context.Context, c domain.Collection) ([]json.RawMessage, error) {
	var rows []Record
	err := p.db.WithContext(ctx).
		Where("collection = ?", string(c)).
		Order("position asc").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c, err)
	}
	records := make([]json.RawMessage, len(rows))
	for i, row := range rows {
		records[i] = json.RawMessage(row.Body)
	}
	return records, nil
}

// Write replaces the collection in one transaction.
func (p *PostgresStore) Write(ctx context.Context, c domain.Collection, records []json.RawMessage) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return replaceCollection(tx, c, records)
	})
}

// WriteAll replaces every staged collection in a single transaction. Either
// all collections commit or none do.
func (p *PostgresStore) WriteAll(ctx context.Context, batch map[domain.Collection][]json.RawMessage) error {
	return p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for c, records := range batch {
			if err := replaceCollection(tx, c, records); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceCollection(tx *gorm.DB, c domain.Collection, records []json.RawMessage) error {
	if err := tx.Where("collection = ?", string(c)).Delete(&Record{}).Error; err != nil {
		return fmt.Errorf("clear %s: %w", c, err)
	}
	if len(records) == 0 {
		return nil
	}
	rows := make([]Record, len(records))
	for i, r := range records {
		rows[i] = Record{Collection: string(c), Position: i, Body: r}
	}
	if err := tx.CreateInBatches(rows, 500).Error; err != nil {
		return fmt.Errorf("insert %s: %w", c, err)
	}
	return nil
}
