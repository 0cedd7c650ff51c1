package models

// Worker extends a Person one-to-one; the person id is the primary key.
// Its tasks are the rows of tasks with the same person_id.
type Worker struct {
	PersonID     uint    `gorm:"primaryKey;autoIncrement:false" json:"person_id"`
	WorkerTypeID uint    `gorm:"not null;index" json:"worker_type_id"`
	Salary       float64 `json:"salary"`

	Person     *Person     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	WorkerType *WorkerType `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Worker) TableName() string { return "workers" }
