// Package domain defines the data model shared by the repository and service
// layers. This file holds the persistence models mapped with GORM.
package domain

import "time"

// Fixed record keys. The whole store is three independent JSON documents; each
// write replaces the full value under its key (last writer wins).
const (
	KeyDrafts   = "drafts"
	KeySettings = "settings"
	KeySnapshot = "github_snapshot"
)

// Record is one row of the key-value store backing drafts, settings, and the
// GitHub snapshot. Value holds the serialized JSON document.
type Record struct {
	Key       string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Value     []byte    `gorm:"type:BLOB NOT NULL"`
	UpdatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoUpdateTime"`
}

// TableName implements the GORM tabler interface.
func (Record) TableName() string { return "records" }

// PublishReceipt records a successful LinkedIn publish keyed by
// (author_id, key), where key is the client-supplied Idempotency-Key. A replay
// within the TTL window returns the recorded post id without re-publishing.
type PublishReceipt struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	AuthorID  string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_author_key,priority:1"`
	Key       string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_author_key,priority:2"`
	PostID    string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (PublishReceipt) TableName() string { return "publish_receipts" }
