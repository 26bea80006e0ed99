package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductImage is one hosted image attached to a product, ordered by Position.
type ProductImage struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID     uuid.UUID `gorm:"column:product_id;type:uuid;not null;index"`
	URL           string    `gorm:"column:url;not null"`
	FileID        string    `gorm:"column:file_id;not null;uniqueIndex"`
	FileName      string    `gorm:"column:file_name;not null"`
	Position      int       `gorm:"column:position;not null;default:0"`
	IsPlaceholder bool      `gorm:"column:is_placeholder;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// BeforeCreate assigns an ID when the database default is not in play.
func (p *ProductImage) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
