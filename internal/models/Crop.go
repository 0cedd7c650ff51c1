package models

import "time"

// Crop is a planting of one species, tracked through a task and status.
// Plots and harvests point back at it through their CropID.
type Crop struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SpeciesID    uint      `gorm:"not null;index" json:"species_id"`
	TaskID       uint      `gorm:"not null;index" json:"task_id"`
	StatusID     uint      `gorm:"not null;index" json:"status_id"`
	PersonID     uint      `gorm:"not null;index" json:"person_id"`
	PlantingDate time.Time `gorm:"not null" json:"planting_date"`
	Quantity     int       `json:"quantity"`

	// Constraints only, never loaded
	Species *Species `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Task    *Task    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Status  *Status  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Person  *Person  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Crop) TableName() string { return "crops" }
