package models

import "time"

// Product is a sellable item in the ship's store catalog. Stock is a plain
// signed counter: the order engine debits it with no floor check, so an
// oversell shows up as a negative stock to be reconciled manually.
type Product struct {
	ID        string    `gorm:"column:id;primaryKey" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Price     int       `gorm:"column:price;not null" json:"price"`
	Category  string    `gorm:"column:category;not null;default:''" json:"category"`
	Stock     int       `gorm:"column:stock;not null;default:0" json:"stock"`
	Barcode   string    `gorm:"column:barcode;not null;default:''" json:"barcode,omitempty"`
	OnSale    bool      `gorm:"column:on_sale;not null;default:true" json:"on_sale"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}
