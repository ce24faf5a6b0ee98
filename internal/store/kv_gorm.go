package store

import (
	"errors"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Document is one stored JSON document, keyed by name.
type Document struct {
	Key   string         `gorm:"primaryKey;size:100"`
	Value datatypes.JSON `gorm:"not null"`
}

// GormKV stores documents in a single database table, for installs that
// prefer sqlite or postgres over plain files.
type GormKV struct {
	db *gorm.DB
}

// NewGormKV migrates the documents table and returns the KV.
func NewGormKV(db *gorm.DB) (*GormKV, error) {
	if err := db.AutoMigrate(&Document{}); err != nil {
		return nil, &PersistenceError{Op: "migrate", Err: err}
	}
	return &GormKV{db: db}, nil
}

// OpenSQLiteKV opens (or creates) a sqlite-backed KV at path.
func OpenSQLiteKV(path string) (*GormKV, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, &PersistenceError{Op: "open sqlite", Err: err}
	}
	return NewGormKV(db)
}

// OpenPostgresKV opens a postgres-backed KV with the given DSN.
func OpenPostgresKV(dsn string) (*GormKV, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, &PersistenceError{Op: "open postgres", Err: err}
	}
	return NewGormKV(db)
}

func (g *GormKV) Load(key string) ([]byte, error) {
	var doc Document
	err := g.db.First(&doc, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, &PersistenceError{Op: "load " + key, Err: err}
	}
	return []byte(doc.Value), nil
}

func (g *GormKV) Save(key string, value []byte) error {
	doc := Document{Key: key, Value: datatypes.JSON(value)}
	err := g.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		UpdateAll: true,
	}).Create(&doc).Error
	if err != nil {
		return &PersistenceError{Op: "save " + key, Err: err}
	}
	return nil
}
