package models

import "time"

// Trade is one immutable buy or sell of an energy commodity.
// Rows are only ever inserted; there is no soft-delete column.
type Trade struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Commodity string    `gorm:"size:50;not null;index:idx_commodity_timestamp,priority:1" json:"commodity"`
	Price     float64   `gorm:"not null" json:"price"`
	Quantity  float64   `gorm:"not null" json:"quantity"`
	Side      string    `gorm:"size:10;not null;index:idx_side_timestamp,priority:1" json:"side"`
	TraderID  string    `gorm:"size:100;not null;index:idx_trader_timestamp,priority:1" json:"trader_id"`
	Timestamp time.Time `gorm:"not null;index:idx_commodity_timestamp,priority:2;index:idx_trader_timestamp,priority:2;index:idx_side_timestamp,priority:2" json:"timestamp"`
}

// TableName pins the table name so both drivers agree on it.
func (Trade) TableName() string {
	return "trades"
}
