// Package gormdb implements the ability to read and write blocks to a SQL
// database using gorm. SQLite and MySQL are supported.
package gormdb

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ardanlabs/notechain/foundation/blockchain/database"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Set of supported dialects.
const (
	DialectSQLite = "sqlite"
	DialectMySQL  = "mysql"
)

// Config represents the information required to open the database.
type Config struct {
	Dialect string
	DSN     string
}

// blockRecord is the row stored for each block.
type blockRecord struct {
	Number        uint64 `gorm:"primaryKey;autoIncrement:false"`
	Hash          string `gorm:"size:66;not null;uniqueIndex"`
	PrevBlockHash string `gorm:"size:66;not null"`
	TimeStamp     int64  `gorm:"not null"`
	TransRoot     string `gorm:"size:66;not null"`
	Trans         []byte `gorm:"not null"`
}

// TableName implements the gorm tabler interface.
func (blockRecord) TableName() string {
	return "blocks"
}

// =============================================================================

// GormDB represents the serialization implementation for reading and
// storing blocks in a SQL database. This implements the
// database.Serializer interface.
type GormDB struct {
	db *gorm.DB
}

// New opens the database and migrates the schema.
func New(cfg Config) (*GormDB, error) {
	if cfg.DSN == "" {
		return nil, errors.New("database dsn is required")
	}

	var dialector gorm.Dialector
	switch cfg.Dialect {
	case DialectSQLite, "":
		dialector = sqlite.Open(cfg.DSN)
	case DialectMySQL:
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported dialect %q", cfg.Dialect)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if cfg.Dialect != DialectMySQL {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := db.AutoMigrate(&blockRecord{}); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &GormDB{db: db}, nil
}

// Close closes the connection pool.
func (g *GormDB) Close() error {
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Write stores the block as a new row.
func (g *GormDB) Write(blockData database.BlockData) error {
	trans, err := json.Marshal(blockData.Trans)
	if err != nil {
		return err
	}

	record := blockRecord{
		Number:        blockData.Header.Number,
		Hash:          blockData.Hash,
		PrevBlockHash: blockData.Header.PrevBlockHash,
		TimeStamp:     blockData.Header.TimeStamp,
		TransRoot:     blockData.Header.TransRoot,
		Trans:         trans,
	}

	return g.db.Create(&record).Error
}

// GetBlock locates and returns the contents of the specified block by
// number.
func (g *GormDB) GetBlock(num uint64) (database.BlockData, error) {
	var record blockRecord
	if err := g.db.First(&record, "number = ?", num).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return database.BlockData{}, fmt.Errorf("block %d: %w", num, database.ErrNotFound)
		}
		return database.BlockData{}, err
	}

	return toBlockData(record)
}

// ForEach returns an iterator to walk through all the blocks
// starting with block number 1.
func (g *GormDB) ForEach() database.Iterator {
	return &gormIterator{g: g}
}

// Reset will clear out every stored block.
func (g *GormDB) Reset() error {
	return g.db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&blockRecord{}).Error
}

func toBlockData(record blockRecord) (database.BlockData, error) {
	var trans []database.BlockTx
	if err := json.Unmarshal(record.Trans, &trans); err != nil {
		return database.BlockData{}, fmt.Errorf("decoding block %d: %w", record.Number, err)
	}

	blockData := database.BlockData{
		Hash: record.Hash,
		Header: database.BlockHeader{
			Number:        record.Number,
			PrevBlockHash: record.PrevBlockHash,
			TimeStamp:     record.TimeStamp,
			TransRoot:     record.TransRoot,
		},
		Trans: trans,
	}

	return blockData, nil
}

// =============================================================================

// gormIterator walks the blocks in number order.
type gormIterator struct {
	g       *GormDB
	current uint64
	eoc     bool
}

// Next retrieves the next block from the database.
func (gi *gormIterator) Next() (database.BlockData, error) {
	if gi.eoc {
		return database.BlockData{}, database.ErrNotFound
	}

	gi.current++
	blockData, err := gi.g.GetBlock(gi.current)
	if errors.Is(err, database.ErrNotFound) {
		gi.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (gi *gormIterator) Done() bool {
	return gi.eoc
}
