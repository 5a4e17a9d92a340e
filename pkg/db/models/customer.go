package models

import "time"

// Customer is a crew member known to the store. Balance is the signed
// amount the member owes the store, derived entirely from tab-order
// history; it goes negative when corrections overshoot.
type Customer struct {
	ID         string    `gorm:"column:id;primaryKey" json:"id"`
	Name       string    `gorm:"column:name;not null" json:"name"`
	Department string    `gorm:"column:department;not null;default:''" json:"department"`
	Balance    int       `gorm:"column:balance;not null;default:0" json:"balance"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
