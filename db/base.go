package db

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel uses an auto-increment primary key. Rows created inside one
// transaction keep their insertion order when sorted by ID, which is how
// operation listings preserve the WSDL declaration order.
//
// Catalog deletes are hard deletes. A soft-deleted service row would keep
// holding its unique name, so there is no DeletedAt column.
type BaseModel struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BaseUUIDModel is for rows whose IDs are exposed through the HTTP API.
type BaseUUIDModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (base *BaseUUIDModel) BeforeCreate(tx *gorm.DB) error {
	if base.ID == uuid.Nil {
		base.ID = uuid.New()
	}
	return nil
}
