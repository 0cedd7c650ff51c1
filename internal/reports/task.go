package reports

import (
	"context"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/models"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

var Tasks = Table[viewmodels.TaskView]{
	Title: "Tasks",
	Sheet: "Tasks",
	Columns: []export.Column{
		{Header: "Id Task", Width: 1, Align: "R"},
		{Header: "Task", Width: 4},
		{Header: "Task Status", Width: 2},
		{Header: "Worker assigned", Width: 3},
	},
	Cells: func(v viewmodels.TaskView) []interface{} {
		return []interface{}{v.ID, v.Label, v.TaskStatusName, v.PersonName}
	},
}

// Tasks updates tasks from a sheet laid out like Tasks.
func (im *Importer) Tasks(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Task](im.db)
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[models.Task]{
		StatusColumn: Tasks.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (models.Task, error) {
			id, err := r.Uint(1)
			if err != nil {
				return models.Task{}, export.Fail("Task not found")
			}
			task, err := find(ctx, store, id, "Task not found")
			if err != nil {
				return models.Task{}, err
			}

			label := r.Text(2)
			if label == "" {
				return models.Task{}, export.Fail("Task label is required")
			}
			status, err := lookup(ctx, lk, dropdown.TaskStatuses, r.Text(3), "Task Status not found")
			if err != nil {
				return models.Task{}, err
			}
			person, err := lookup(ctx, lk, dropdown.People, r.Text(4), "Worker not found")
			if err != nil {
				return models.Task{}, err
			}

			task.Label = label
			task.TaskStatusID = status
			task.PersonID = person
			return *task, nil
		},
	}
	return run(ctx, "task", s, spec, store.SaveAll)
}
