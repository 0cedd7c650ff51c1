// Package seed fills an empty database with reference rows and a small
// demo data set.
package seed

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"agro_admin/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// Reference inserts the lookup tables only.
func Reference(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := []interface{}{
			&[]models.Person{
				{ID: 1, Name: "Ana Horvat"},
				{ID: 2, Name: "Ivan Kovac"},
				{ID: 3, Name: "Marko Babic"},
				{ID: 4, Name: "Petra Novak"},
				{ID: 5, Name: "Luka Maric"},
			},
			&[]models.Species{{ID: 1, Name: "Wheat"}, {ID: 2, Name: "Corn"}, {ID: 3, Name: "Barley"}},
			&[]models.Status{{ID: 1, Name: "Growing"}, {ID: 2, Name: "Harvested"}, {ID: 3, Name: "Failed"}},
			&[]models.TaskStatus{{ID: 1, Name: "Open"}, {ID: 2, Name: "In progress"}, {ID: 3, Name: "Done"}},
			&[]models.SoilQuality{{ID: 1, Name: "Good"}, {ID: 2, Name: "Medium"}, {ID: 3, Name: "Poor"}},
			&[]models.SoilCategory{{ID: 1, Name: "Clay"}, {ID: 2, Name: "Loam"}, {ID: 3, Name: "Sand"}},
			&[]models.Infrastructure{{ID: 1, Name: "Irrigation"}, {ID: 2, Name: "Greenhouse"}, {ID: 3, Name: "None"}},
			&[]models.WorkerType{{ID: 1, Name: "Seasonal"}, {ID: 2, Name: "Permanent"}},
		}
		for _, r := range rows {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Demo inserts reference rows plus workers, tasks, crops, plots, harvests
// and orders.
func Demo(ctx context.Context, db *gorm.DB) error {
	if err := Reference(ctx, db); err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rows := []interface{}{
			&[]models.Worker{
				{PersonID: 1, WorkerTypeID: 2, Salary: 12.5},
				{PersonID: 2, WorkerTypeID: 1, Salary: 8},
				{PersonID: 3, WorkerTypeID: 1, Salary: 9.75},
			},
			&[]models.Task{
				{ID: 1, Label: "Plowing", TaskStatusID: 3, PersonID: 1},
				{ID: 2, Label: "Sowing", TaskStatusID: 2, PersonID: 2},
				{ID: 3, Label: "Watering", TaskStatusID: 1, PersonID: 3},
			},
			&[]models.Crop{
				{ID: 1, SpeciesID: 1, TaskID: 2, StatusID: 1, PersonID: 1, PlantingDate: day("2024-03-15"), Quantity: 120},
				{ID: 2, SpeciesID: 2, TaskID: 3, StatusID: 1, PersonID: 2, PlantingDate: day("2024-04-02"), Quantity: 80},
				{ID: 3, SpeciesID: 3, TaskID: 1, StatusID: 2, PersonID: 3, PlantingDate: day("2023-10-20"), Quantity: 200},
			},
			&[]models.Plot{
				{ID: 1, CropID: 1, PersonID: 4, CommonName: "North field", SoilQualityID: 1, SoilCategoryID: 2, InfrastructureID: 1, Size: 2.5, GPSLocation: "45.8150, 15.9819"},
				{ID: 2, CropID: 1, PersonID: 5, CommonName: "River bank", SoilQualityID: 2, SoilCategoryID: 1, InfrastructureID: 3, Size: 1.2, GPSLocation: "45.8001, 15.9700"},
				{ID: 3, CropID: 2, PersonID: 4, CommonName: "Hill", SoilQualityID: 3, SoilCategoryID: 3, InfrastructureID: 2, Size: 0.8},
			},
			&[]models.Harvest{
				{ID: 1, CropID: 3, Quantity: 180, FromDate: day("2024-07-01"), ToDate: day("2024-07-10"), WorkerID: 3},
				{ID: 2, CropID: 1, Quantity: 95.5, FromDate: day("2024-08-01"), ToDate: day("2024-08-05"), WorkerID: 1},
				{ID: 3, CropID: 2, Quantity: 60, FromDate: day("2024-09-12"), ToDate: day("2024-09-14"), WorkerID: 2},
			},
			&[]models.Order{
				{ID: 1, HarvestID: 1, PersonID: 4, Quantity: 50, Price: 120, OrderDate: day("2024-07-15")},
				{ID: 2, HarvestID: 1, PersonID: 5, Quantity: 30, Price: 75.5, OrderDate: day("2024-07-20")},
				{ID: 3, HarvestID: 2, PersonID: 4, Quantity: 20, Price: 48, OrderDate: day("2024-08-10")},
			},
		}
		for _, r := range rows {
			if err := tx.Create(r).Error; err != nil {
				return err
			}
		}
		return resetSequences(tx)
	})
}

// IfEmpty runs Demo when the people table has no rows.
func IfEmpty(ctx context.Context, db *gorm.DB) error {
	var n int64
	if err := db.WithContext(ctx).Model(&models.Person{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		logrus.Info("seed: database already populated, skipping")
		return nil
	}
	logrus.Info("seed: inserting demo data")
	return Demo(ctx, db)
}

// resetSequences moves postgres serial sequences past the explicit ids.
func resetSequences(tx *gorm.DB) error {
	if tx.Dialector.Name() != "postgres" {
		return nil
	}
	for _, table := range []string{
		"people", "species", "statuses", "task_statuses", "soil_qualities", "soil_categories",
		"infrastructures", "worker_types", "tasks", "crops", "plots", "harvests", "orders",
	} {
		q := fmt.Sprintf("SELECT setval(pg_get_serial_sequence('%s', 'id'), (SELECT MAX(id) FROM %s))", table, table)
		if err := tx.Exec(q).Error; err != nil {
			return err
		}
	}
	return nil
}
