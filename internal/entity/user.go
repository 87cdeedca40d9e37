package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is the nickname-keyed identity a device registers once.
// There is no password: the nickname is the whole credential surface,
// and uniqueness is enforced by the database, not the client.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Nickname  string    `gorm:"size:20;uniqueIndex;not null" json:"nickname"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
