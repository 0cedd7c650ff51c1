package models

// Plot is a piece of land owned by a person and planted with a crop.
type Plot struct {
	ID               uint    `gorm:"primaryKey" json:"id"`
	CropID           uint    `gorm:"not null;index" json:"crop_id"`
	PersonID         uint    `gorm:"not null;index" json:"person_id"`
	CommonName       string  `gorm:"size:100" json:"common_name"`
	SoilQualityID    uint    `gorm:"not null" json:"soil_quality_id"`
	SoilCategoryID   uint    `gorm:"not null" json:"soil_category_id"`
	InfrastructureID uint    `gorm:"not null" json:"infrastructure_id"`
	Size             float64 `json:"size"`
	// Free text, usually "lat, lng"
	GPSLocation string `gorm:"column:gps_location;size:100" json:"gps_location"`

	Crop           *Crop           `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Person         *Person         `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	SoilQuality    *SoilQuality    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	SoilCategory   *SoilCategory   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Infrastructure *Infrastructure `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Plot) TableName() string { return "plots" }
