package reports

import (
	"context"
	"fmt"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/models"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

var Harvests = Table[viewmodels.HarvestView]{
	Title: "Harvests",
	Sheet: "Harvests",
	Columns: []export.Column{
		{Header: "Id Harvest", Width: 1, Align: "R"},
		{Header: "Id Crop", Width: 1, Align: "R"},
		{Header: "Quantity", Width: 2, Align: "R"},
		{Header: "From Date", Width: 2, Align: "C"},
		{Header: "To Date", Width: 2, Align: "C"},
		{Header: "Worker assigned", Width: 3},
	},
	Cells: func(v viewmodels.HarvestView) []interface{} {
		return []interface{}{v.ID, v.CropID, v.Quantity, v.FromDate, v.ToDate, v.WorkerName}
	},
}

var orderChildren = Table[viewmodels.OrderView]{
	Columns: []export.Column{
		{Header: "ID Order"},
		{Header: "Customer"},
		{Header: "Quantity"},
		{Header: "Price (€)"},
		{Header: "Date of Order"},
	},
	Cells: func(v viewmodels.OrderView) []interface{} {
		return []interface{}{v.ID, v.PersonName, v.Quantity, v.Price, v.OrderDate}
	},
}

// HarvestDetails writes one sheet per harvest listing its orders.
func HarvestDetails(details []viewmodels.HarvestDetail) ([]byte, error) {
	sheets := make([]export.DetailSheet, len(details))
	used := map[string]bool{}
	for i, d := range details {
		name := export.SheetName(fmt.Sprintf("Harvest %d - crop %d", d.ID, d.CropID), used)
		sheets[i] = detailSheet(name, Harvests, d.HarvestView, orderChildren, d.Orders)
	}
	return export.WriteDetails("Harvests with orders", sheets)
}

// Harvests updates harvests from a sheet laid out like Harvests.
func (im *Importer) Harvests(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Harvest](im.db)
	crops := repository.NewStore[models.Crop](im.db)
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[models.Harvest]{
		StatusColumn: Harvests.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (models.Harvest, error) {
			id, err := r.Uint(1)
			if err != nil {
				return models.Harvest{}, export.Fail("Harvest not found")
			}
			harvest, err := find(ctx, store, id, "Harvest not found")
			if err != nil {
				return models.Harvest{}, err
			}

			cropID, err := r.Uint(2)
			if err != nil {
				return models.Harvest{}, export.Fail("Crop not found")
			}
			if err := exists(ctx, crops, cropID, "Crop not found"); err != nil {
				return models.Harvest{}, err
			}
			qty, err := r.Float(3)
			if err != nil {
				return models.Harvest{}, export.Fail("Invalid quantity format")
			}
			from, err := r.Time(4)
			if err != nil {
				return models.Harvest{}, export.Fail("Invalid Date Format")
			}
			to, err := r.Time(5)
			if err != nil {
				return models.Harvest{}, export.Fail("Invalid Date Format")
			}
			worker, err := lookup(ctx, lk, dropdown.Workers, r.Text(6), "Worker not found")
			if err != nil {
				return models.Harvest{}, err
			}

			harvest.CropID = cropID
			harvest.Quantity = qty
			harvest.FromDate = from
			harvest.ToDate = to
			harvest.WorkerID = worker
			return *harvest, nil
		},
	}
	return run(ctx, "harvest", s, spec, store.SaveAll)
}
