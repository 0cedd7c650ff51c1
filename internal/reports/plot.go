package reports

import (
	"context"

	"agro_admin/internal/dropdown"
	"agro_admin/internal/export"
	"agro_admin/internal/geo"
	"agro_admin/internal/models"
	"agro_admin/internal/repository"
	"agro_admin/internal/viewmodels"
)

var Plots = Table[viewmodels.PlotView]{
	Title: "Plots",
	Sheet: "Plots",
	Columns: []export.Column{
		{Header: "Id Plot", Width: 1, Align: "R"},
		{Header: "Id Crop", Width: 1, Align: "R"},
		{Header: "Owner", Width: 3},
		{Header: "Common Name", Width: 3},
		{Header: "Soil Quality", Width: 2},
		{Header: "Soil Category", Width: 2},
		{Header: "Infrastructure", Width: 2},
		{Header: "Size (km2)", Width: 1, Align: "R"},
		{Header: "GPS Location", Width: 3},
	},
	Cells: func(v viewmodels.PlotView) []interface{} {
		return []interface{}{v.ID, v.CropID, v.PersonName, v.CommonName, v.SoilQualityName, v.SoilCategoryName, v.InfrastructureName, v.Size, v.GPSLocation}
	},
}

// Plots updates plots from a sheet laid out like Plots.
func (im *Importer) Plots(ctx context.Context, s *export.Sheet) (*export.Result, error) {
	store := repository.NewStore[models.Plot](im.db)
	crops := repository.NewStore[models.Crop](im.db)
	lk := im.refs.NewLookups()

	spec := export.ImportSpec[models.Plot]{
		StatusColumn: Plots.StatusColumn(),
		Parse: func(ctx context.Context, r export.Row) (models.Plot, error) {
			id, err := r.Uint(1)
			if err != nil {
				return models.Plot{}, export.Fail("Plot not found")
			}
			plot, err := find(ctx, store, id, "Plot not found")
			if err != nil {
				return models.Plot{}, err
			}

			cropID, err := r.Uint(2)
			if err != nil {
				return models.Plot{}, export.Fail("Crop not found")
			}
			if err := exists(ctx, crops, cropID, "Crop not found"); err != nil {
				return models.Plot{}, err
			}
			owner, err := lookup(ctx, lk, dropdown.People, r.Text(3), "Owner not found")
			if err != nil {
				return models.Plot{}, err
			}
			quality, err := lookup(ctx, lk, dropdown.SoilQualities, r.Text(5), "Soil Quality not found")
			if err != nil {
				return models.Plot{}, err
			}
			category, err := lookup(ctx, lk, dropdown.SoilCategories, r.Text(6), "Soil Category not found")
			if err != nil {
				return models.Plot{}, err
			}
			infra, err := lookup(ctx, lk, dropdown.Infrastructures, r.Text(7), "Infrastructure not found")
			if err != nil {
				return models.Plot{}, err
			}
			size, err := r.Float(8)
			if err != nil {
				return models.Plot{}, export.Fail("Invalid size format")
			}
			gps := r.Text(9)
			if err := geo.Validate(gps); err != nil {
				return models.Plot{}, export.Fail("Invalid GPS location")
			}

			plot.CropID = cropID
			plot.PersonID = owner
			plot.CommonName = r.Text(4)
			plot.SoilQualityID = quality
			plot.SoilCategoryID = category
			plot.InfrastructureID = infra
			plot.Size = size
			plot.GPSLocation = gps
			return *plot, nil
		},
	}
	return run(ctx, "plot", s, spec, store.SaveAll)
}
