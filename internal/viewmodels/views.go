package viewmodels

import (
	"encoding/json"
	"time"

	"agro_admin/internal/geo"
	"agro_admin/internal/paging"
)

type CropView struct {
	ID           uint      `json:"id"`
	SpeciesID    uint      `json:"species_id"`
	SpeciesName  string    `json:"species_name"`
	TaskID       uint      `json:"task_id"`
	TaskLabel    string    `json:"task_label"`
	StatusID     uint      `json:"status_id"`
	StatusName   string    `json:"status_name"`
	PersonID     uint      `json:"person_id"`
	PersonName   string    `json:"person_name"`
	PlantingDate time.Time `json:"planting_date"`
	Quantity     int       `json:"quantity"`
}

type HarvestView struct {
	ID         uint      `json:"id"`
	CropID     uint      `json:"crop_id"`
	Quantity   float64   `json:"quantity"`
	FromDate   time.Time `json:"from_date"`
	ToDate     time.Time `json:"to_date"`
	WorkerID   uint      `json:"worker_id"`
	WorkerName string    `json:"worker_name"`
}

type OrderView struct {
	ID         uint      `json:"id"`
	HarvestID  uint      `json:"harvest_id"`
	PersonID   uint      `json:"person_id"`
	PersonName string    `json:"person_name"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	OrderDate  time.Time `json:"order_date"`
}

type PlotView struct {
	ID                 uint    `json:"id"`
	CropID             uint    `json:"crop_id"`
	PersonID           uint    `json:"person_id"`
	PersonName         string  `json:"person_name"`
	CommonName         string  `json:"common_name"`
	SoilQualityID      uint    `json:"soil_quality_id"`
	SoilQualityName    string  `json:"soil_quality_name"`
	SoilCategoryID     uint    `json:"soil_category_id"`
	SoilCategoryName   string  `json:"soil_category_name"`
	InfrastructureID   uint    `json:"infrastructure_id"`
	InfrastructureName string  `json:"infrastructure_name"`
	Size               float64 `json:"size"`
	GPSLocation        string  `gorm:"column:gps_location" json:"gps_location"`

	Location json.RawMessage `gorm:"-" json:"location,omitempty"`
}

type TaskView struct {
	ID             uint   `json:"id"`
	Label          string `json:"label"`
	TaskStatusID   uint   `json:"task_status_id"`
	TaskStatusName string `json:"task_status_name"`
	PersonID       uint   `json:"person_id"`
	PersonName     string `json:"person_name"`
}

type WorkerView struct {
	PersonID       uint    `json:"person_id"`
	PersonName     string  `json:"person_name"`
	WorkerTypeID   uint    `json:"worker_type_id"`
	WorkerTypeName string  `json:"worker_type_name"`
	Salary         float64 `json:"salary"`
}

var Crops = Projection[CropView]{
	Table: "crops",
	Key:   "crops.id",
	Columns: "crops.id AS id, crops.species_id AS species_id, crops.task_id AS task_id, " +
		"crops.status_id AS status_id, crops.person_id AS person_id, " +
		"crops.planting_date AS planting_date, crops.quantity AS quantity, " +
		"COALESCE(species.name, '" + Unknown + "') AS species_name, " +
		"COALESCE(tasks.label, '" + Unknown + "') AS task_label, " +
		"COALESCE(statuses.name, '" + Unknown + "') AS status_name, " +
		"COALESCE(people.name, '" + Unknown + "') AS person_name",
	Joins: []string{
		"LEFT JOIN species ON species.id = crops.species_id",
		"LEFT JOIN tasks ON tasks.id = crops.task_id",
		"LEFT JOIN statuses ON statuses.id = crops.status_id",
		"LEFT JOIN people ON people.id = crops.person_id",
	},
	Sorts: paging.SortMap{
		1: "crops.id",
		2: "crops.species_id",
		3: "crops.task_id",
		4: "crops.status_id",
		5: "crops.person_id",
		6: "crops.planting_date",
		7: "crops.quantity",
	},
}

// Harvests resolves the worker's name through workers -> people.
var Harvests = Projection[HarvestView]{
	Table: "harvests",
	Key:   "harvests.id",
	Columns: "harvests.id AS id, harvests.crop_id AS crop_id, harvests.quantity AS quantity, " +
		"harvests.from_date AS from_date, harvests.to_date AS to_date, harvests.worker_id AS worker_id, " +
		"COALESCE(people.name, '" + Unknown + "') AS worker_name",
	Joins: []string{
		"LEFT JOIN workers ON workers.person_id = harvests.worker_id",
		"LEFT JOIN people ON people.id = workers.person_id",
	},
	Sorts: paging.SortMap{
		1: "harvests.id",
		2: "harvests.crop_id",
		3: "harvests.quantity",
		4: "harvests.from_date",
		5: "harvests.to_date",
		6: "harvests.worker_id",
	},
}

var Orders = Projection[OrderView]{
	Table: "orders",
	Key:   "orders.id",
	Columns: "orders.id AS id, orders.harvest_id AS harvest_id, orders.person_id AS person_id, " +
		"orders.quantity AS quantity, orders.price AS price, orders.order_date AS order_date, " +
		"COALESCE(people.name, '" + Unknown + "') AS person_name",
	Joins: []string{
		"LEFT JOIN people ON people.id = orders.person_id",
	},
	Sorts: paging.SortMap{
		1: "orders.id",
		2: "orders.harvest_id",
		3: "orders.person_id",
		4: "orders.quantity",
		5: "orders.price",
		6: "orders.order_date",
	},
}

var Plots = Projection[PlotView]{
	Table: "plots",
	Key:   "plots.id",
	Columns: "plots.id AS id, plots.crop_id AS crop_id, plots.person_id AS person_id, " +
		"plots.common_name AS common_name, plots.soil_quality_id AS soil_quality_id, " +
		"plots.soil_category_id AS soil_category_id, plots.infrastructure_id AS infrastructure_id, " +
		"plots.size AS size, plots.gps_location AS gps_location, " +
		"COALESCE(people.name, '" + Unknown + "') AS person_name, " +
		"COALESCE(soil_qualities.name, '" + Unknown + "') AS soil_quality_name, " +
		"COALESCE(soil_categories.name, '" + Unknown + "') AS soil_category_name, " +
		"COALESCE(infrastructures.name, '" + Unknown + "') AS infrastructure_name",
	Joins: []string{
		"LEFT JOIN people ON people.id = plots.person_id",
		"LEFT JOIN soil_qualities ON soil_qualities.id = plots.soil_quality_id",
		"LEFT JOIN soil_categories ON soil_categories.id = plots.soil_category_id",
		"LEFT JOIN infrastructures ON infrastructures.id = plots.infrastructure_id",
	},
	Sorts: paging.SortMap{
		1: "plots.id",
		2: "plots.person_id",
		3: "plots.crop_id",
		4: "plots.common_name",
		5: "plots.soil_quality_id",
		6: "plots.soil_category_id",
		7: "plots.infrastructure_id",
		8: "plots.size",
		9: "plots.gps_location",
	},
	Finish: func(v *PlotView) {
		v.Location = geo.GeoJSON(v.GPSLocation)
	},
}

var Tasks = Projection[TaskView]{
	Table: "tasks",
	Key:   "tasks.id",
	Columns: "tasks.id AS id, tasks.label AS label, tasks.task_status_id AS task_status_id, " +
		"tasks.person_id AS person_id, " +
		"COALESCE(task_statuses.name, '" + Unknown + "') AS task_status_name, " +
		"COALESCE(people.name, '" + Unknown + "') AS person_name",
	Joins: []string{
		"LEFT JOIN task_statuses ON task_statuses.id = tasks.task_status_id",
		"LEFT JOIN people ON people.id = tasks.person_id",
	},
	Sorts: paging.SortMap{
		1: "tasks.id",
		2: "tasks.label",
		3: "tasks.task_status_id",
		4: "tasks.person_id",
	},
}

var Workers = Projection[WorkerView]{
	Table: "workers",
	Key:   "workers.person_id",
	Columns: "workers.person_id AS person_id, workers.worker_type_id AS worker_type_id, " +
		"workers.salary AS salary, " +
		"COALESCE(people.name, '" + Unknown + "') AS person_name, " +
		"COALESCE(worker_types.name, '" + Unknown + "') AS worker_type_name",
	Joins: []string{
		"LEFT JOIN people ON people.id = workers.person_id",
		"LEFT JOIN worker_types ON worker_types.id = workers.worker_type_id",
	},
	Sorts: paging.SortMap{
		1: "workers.person_id",
		2: "people.name",
		3: "workers.worker_type_id",
		4: "workers.salary",
	},
}
