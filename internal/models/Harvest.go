package models

import "time"

// Harvest is the yield collected from a crop over a date range by one worker.
type Harvest struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	CropID   uint      `gorm:"not null;index" json:"crop_id"`
	Quantity float64   `json:"quantity"`
	FromDate time.Time `gorm:"not null" json:"from_date"`
	ToDate   time.Time `gorm:"not null" json:"to_date"`
	// WorkerID references workers.person_id
	WorkerID uint `gorm:"not null;index" json:"worker_id"`

	Crop   *Crop   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Worker *Worker `gorm:"foreignKey:WorkerID;references:PersonID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Harvest) TableName() string { return "harvests" }
