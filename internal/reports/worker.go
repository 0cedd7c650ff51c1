package reports

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/models"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

var Workers = Table[viewmodels.WorkerView]{
	Title: "Workers",
	Sheet: "Workers",
	Columns: []export.Column{
		{Header: "Id Person", Width: 1, Align: "R"},
		{Header: "Worker Name", Width: 3},
		{Header: "Worker Type", Width: 2},
		{Header: "Salary", Width: 1, Align: "R"},
	},
	Cells: func(v viewmodels.WorkerView) []interface{} {
		return []interface{}{v.PersonID, v.PersonName, v.WorkerTypeName, v.Salary}
	},
}

var taskChildren = Table[viewmodels.TaskView]{
	Columns: []export.Column{
		{Header: "ID Task"},
		{Header: "Task"},
		{Header: "Task Status"},
	},
	Cells: func(v viewmodels.TaskView) []interface{} {
		return []interface{}{v.ID, v.Label, v.TaskStatusName}
	},
}

// WorkerDetails writes one sheet per worker listing their tasks.
func WorkerDetails(details []viewmodels.WorkerDetail) ([]byte, error) {
	sheets := make([]export.DetailSheet, len(details))
	used := map[string]bool{}
	for i, d := range details {
		name := export.SheetName(fmt.Sprintf("Worker %d - %s", d.PersonID, d.PersonName), used)
		sheets[i] = detailSheet(name, Workers, d.WorkerView, taskChildren, d.Tasks)
	}
	return export.WriteDetails("Workers with tasks", sheets)
}

type workerRow struct {
	worker models.Worker
	name   string
}

// Workers updates workers, and their person's name, from a sheet laid out
// like Workers.
func (im *Importer) Workers(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Worker](im.db).WithKey("person_id")
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[workerRow]{
		StatusColumn: Workers.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (workerRow, error) {
			id, err := r.Uint(1)
			if err != nil {
				return workerRow{}, export.Fail("Failed: Worker not found")
			}
			worker, err := find(ctx, store, id, "Failed: Worker not found")
			if err != nil {
				return workerRow{}, err
			}

			name := r.Text(2)
			if name == "" {
				return workerRow{}, export.Fail("Failed: Worker name is required")
			}
			workerType, err := lookup(ctx, lk, dropdown.WorkerTypes, r.Text(3), "Failed: Worker Type not found")
			if err != nil {
				return workerRow{}, err
			}
			salary, err := r.Float(4)
			if err != nil {
				return workerRow{}, export.Fail("Failed: Invalid salary format")
			}

			worker.WorkerTypeID = workerType
			worker.Salary = salary
			return workerRow{worker: *worker, name: name}, nil
		},
	}

	commit := func(ctx context.Context, rows []workerRow) error {
		return im.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			for i := range rows {
				if err := tx.Omit(clause.Associations).Save(&rows[i].worker).Error; err != nil {
					return err
				}
				err := tx.Model(&models.Person{}).
					Where("id = ?", rows[i].worker.PersonID).
					Update("name", rows[i].name).Error
				if err != nil {
					return err
				}
			}
			return nil
		})
	}
	return run(ctx, "worker", s, spec, commit)
}
