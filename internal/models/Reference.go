package models

// Reference tables: id + display name, read-mostly.

type Person struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Person) TableName() string { return "people" }

type Species struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Species) TableName() string { return "species" }

type Status struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Status) TableName() string { return "statuses" }

type TaskStatus struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (TaskStatus) TableName() string { return "task_statuses" }

type SoilQuality struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (SoilQuality) TableName() string { return "soil_qualities" }

type SoilCategory struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (SoilCategory) TableName() string { return "soil_categories" }

type Infrastructure struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (Infrastructure) TableName() string { return "infrastructures" }

type WorkerType struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

func (WorkerType) TableName() string { return "worker_types" }
