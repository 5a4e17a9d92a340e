package models

import "time"

// Category is a catalog grouping. Products referencing a name with no
// matching row are treated as unclassified, not rejected.
type Category struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}
