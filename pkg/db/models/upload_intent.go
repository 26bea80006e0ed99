package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UploadIntent statuses. An intent starts pending when the binary is pushed
// to the image host and flips to committed once the owning product row lands.
const (
	UploadIntentPending   = "pending"
	UploadIntentCommitted = "committed"
)

// UploadIntent records an image uploaded to the external host so orphans left
// behind by failed requests can be reconciled later.
type UploadIntent struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	FileID    string    `gorm:"column:file_id;not null;uniqueIndex"`
	URL       string    `gorm:"column:url;not null"`
	FileName  string    `gorm:"column:file_name;not null"`
	Status    string    `gorm:"column:status;not null;default:pending;index"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the database default is not in play.
func (u *UploadIntent) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
