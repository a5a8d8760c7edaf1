// Package cache remembers finished renders. Synthesis is deterministic in
// the label stream and voicebank, so a digest hit whose output file still
// exists can be reused instead of invoking the engine again. The cache is
// an accelerator only; every operation here is safe to skip on error.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const DefaultDBFile = "render_cache.sqlite3"

// Render is one completed synthesis.
type Render struct {
	ID         string `gorm:"primaryKey;type:varchar(36)"`
	Digest     string `gorm:"uniqueIndex:idx_render_digest"`
	Voicebank  string `gorm:"index:idx_render_bank"`
	OutputPath string
	DurationMs int
	CreatedAt  time.Time
}

type Client struct {
	DB *gorm.DB
	db *sql.DB
}

// NewClient opens (creating if needed) the render cache database.
func NewClient(dbPath string) (*Client, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("getting sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&Render{}); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	return &Client{DB: db, db: sqlDB}, nil
}

func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Digest keys a render by its serialized label stream and voicebank.
func Digest(labelLines, voicebank string) string {
	h := sha256.New()
	h.Write([]byte(voicebank))
	h.Write([]byte{0})
	h.Write([]byte(labelLines))
	return hex.EncodeToString(h.Sum(nil))
}

// Lookup returns the cached render for digest, or nil on a miss. An entry
// whose output file no longer exists is stale: it is evicted and reported
// as a miss.
func (c *Client) Lookup(digest string) (*Render, error) {
	if c == nil || c.DB == nil {
		return nil, nil
	}

	var r Render
	err := c.DB.Where("digest = ?", digest).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying render cache: %w", err)
	}

	if _, err := os.Stat(r.OutputPath); err != nil {
		c.DB.Delete(&r)
		return nil, nil
	}
	return &r, nil
}

// Store records a finished render, replacing any previous entry for the
// same digest.
func (c *Client) Store(digest, voicebank, outputPath string, durationMs int) error {
	if c == nil || c.DB == nil {
		return nil
	}

	c.DB.Where("digest = ?", digest).Delete(&Render{})
	r := Render{
		ID:         uuid.NewString(),
		Digest:     digest,
		Voicebank:  voicebank,
		OutputPath: outputPath,
		DurationMs: durationMs,
	}
	if err := c.DB.Create(&r).Error; err != nil {
		return fmt.Errorf("storing render cache entry: %w", err)
	}
	return nil
}
