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

var Crops = Table[viewmodels.CropView]{
	Title: "All crops",
	Sheet: "Crops",
	Columns: []export.Column{
		{Header: "Id Crop", Width: 1, Align: "R"},
		{Header: "Species planted", Width: 3},
		{Header: "Task", Width: 3},
		{Header: "Status", Width: 3},
		{Header: "Worker assigned", Width: 3},
		{Header: "Planting Date", Width: 2, Align: "C"},
		{Header: "Quantity", Width: 2, Align: "R"},
	},
	Cells: func(v viewmodels.CropView) []interface{} {
		return []interface{}{v.ID, v.SpeciesName, v.TaskLabel, v.StatusName, v.PersonName, v.PlantingDate, v.Quantity}
	},
}

// CropDetails writes one sheet per crop listing its plots.
func CropDetails(details []viewmodels.CropDetail) ([]byte, error) {
	sheets := make([]export.DetailSheet, len(details))
	used := map[string]bool{}
	for i, d := range details {
		name := export.SheetName(fmt.Sprintf("Crop %d - %s", d.ID, d.SpeciesName), used)
		sheets[i] = detailSheet(name, Crops, d.CropView, plotChildren, d.Plots)
	}
	return export.WriteDetails("Crops with plots", sheets)
}

var plotChildren = Table[viewmodels.PlotView]{
	Columns: []export.Column{
		{Header: "ID Plot"},
		{Header: "Owner"},
		{Header: "Common Name"},
		{Header: "Soil Quality"},
		{Header: "Soil Category"},
		{Header: "Infrastructure"},
		{Header: "Size (km2)"},
		{Header: "GPS Location"},
	},
	Cells: func(v viewmodels.PlotView) []interface{} {
		return []interface{}{v.ID, v.PersonName, v.CommonName, v.SoilQualityName, v.SoilCategoryName, v.InfrastructureName, v.Size, v.GPSLocation}
	},
}

// Crops updates crops from a sheet laid out like Crops.
func (im *Importer) Crops(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Crop](im.db)
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[models.Crop]{
		StatusColumn: Crops.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (models.Crop, error) {
			id, err := r.Uint(1)
			if err != nil {
				return models.Crop{}, export.Fail("Crop not found in the database")
			}
			crop, err := find(ctx, store, id, "Crop not found in the database")
			if err != nil {
				return models.Crop{}, err
			}

			species, err := lookup(ctx, lk, dropdown.Species, r.Text(2), "Species not found")
			if err != nil {
				return models.Crop{}, err
			}
			task, err := lookup(ctx, lk, dropdown.Tasks, r.Text(3), "Task not found")
			if err != nil {
				return models.Crop{}, err
			}
			status, err := lookup(ctx, lk, dropdown.Statuses, r.Text(4), "Status not found")
			if err != nil {
				return models.Crop{}, err
			}
			person, err := lookup(ctx, lk, dropdown.People, r.Text(5), "Worker not found")
			if err != nil {
				return models.Crop{}, err
			}

			planted, err := r.Time(6)
			if err != nil {
				return models.Crop{}, export.Fail("Invalid date or quantity format")
			}
			qty, err := r.Int(7)
			if err != nil {
				return models.Crop{}, export.Fail("Invalid date or quantity format")
			}

			crop.SpeciesID = species
			crop.TaskID = task
			crop.StatusID = status
			crop.PersonID = person
			crop.PlantingDate = planted
			crop.Quantity = qty
			return *crop, nil
		},
	}
	return run(ctx, "crop", s, spec, store.SaveAll)
}
