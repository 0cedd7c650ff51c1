package models

import "time"

// Order is a customer's purchase out of a harvest.
type Order struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	HarvestID uint      `gorm:"not null;index" json:"harvest_id"`
	PersonID  uint      `gorm:"not null;index" json:"person_id"`
	Quantity  float64   `json:"quantity"`
	Price     float64   `json:"price"`
	OrderDate time.Time `gorm:"not null" json:"order_date"`

	Harvest *Harvest `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Person  *Person  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Order) TableName() string { return "orders" }
