package models

import (
	"time"

	"github.com/harborline/slopchest-backend/pkg/enums"
)

// User is a cashier account. PINs are stored as Argon2id hashes;
// RequireChange forces a rotation on first login.
type User struct {
	ID            string         `gorm:"column:id;primaryKey" json:"id"`
	Name          string         `gorm:"column:name;not null;uniqueIndex" json:"name"`
	Role          enums.UserRole `gorm:"column:role;not null" json:"role"`
	PINHash       string         `gorm:"column:pin_hash;not null" json:"-"`
	RequireChange bool           `gorm:"column:require_change;not null;default:false" json:"require_change"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
