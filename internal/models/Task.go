package models

// Task is a unit of work assigned to a person.
type Task struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Label        string `gorm:"size:200;not null" json:"label"`
	TaskStatusID uint   `gorm:"not null;index" json:"task_status_id"`
	PersonID     uint   `gorm:"not null;index" json:"person_id"`

	TaskStatus *TaskStatus `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
	Person     *Person     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"-"`
}

func (Task) TableName() string { return "tasks" }
